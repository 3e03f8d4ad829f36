// services/payment_sweep.go
package services

import (
	"context"
	"log"
	"time"

	"khtherapy-backend/models"
	"khtherapy-backend/utils"

	"github.com/robfig/cron/v3"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// PaymentSweeper re-checks the payment state of outstanding invoices against
// live payment data. It runs on every invoice-list load and once daily via
// cron, promoting sent invoices to paid the moment their classified payments
// cover the stored amount due. This is the one lifecycle transition not
// triggered by an admin click.
//
// There is no transaction spanning the read and the write: a payment landing
// in between can make a promotion decision stale, which is acceptable since
// the next sweep corrects it.
type PaymentSweeper struct {
	db *gorm.DB
}

func NewPaymentSweeper(db *gorm.DB) *PaymentSweeper {
	return &PaymentSweeper{db: db}
}

// Run every day at 7 AM
const sweepSchedule = "0 7 * * *"

func (s *PaymentSweeper) StartScheduler() {
	c := cron.New()

	if _, err := c.AddFunc(sweepSchedule, func() {
		s.Sweep(context.Background())
	}); err != nil {
		log.Printf("Payment sweep scheduler not started: %v", err)
		return
	}

	c.Start()
	log.Println("Payment sweep scheduler started")
}

// Sweep fans out one check per outstanding invoice. A failure in one
// invoice's check never aborts the others.
func (s *PaymentSweeper) Sweep(ctx context.Context) {
	var invoices []models.Invoice
	if err := s.db.WithContext(ctx).Preload("Items").
		Where("status IN ?", []string{
			models.InvoiceStatusSent,
			models.InvoiceStatusPartial,
			models.InvoiceStatusOverdue,
		}).
		Find(&invoices).Error; err != nil {
		log.Printf("Payment sweep: failed to load invoices: %v", err)
		return
	}

	g := new(errgroup.Group)
	g.SetLimit(8)
	for i := range invoices {
		inv := invoices[i]
		g.Go(func() error {
			if err := s.CheckInvoice(ctx, inv); err != nil {
				log.Printf("Payment sweep: invoice %s: %v", inv.InvoiceNumber, err)
			}
			return nil
		})
	}
	g.Wait()
}

// SweepDecision is the status an outstanding invoice should move to given
// its classified payments. stampPaymentDate is true only on promotion to
// paid; whether the move is actually applied stays gated by CanTransition.
func SweepDecision(inv models.Invoice, buckets PaymentBuckets, now time.Time) (newStatus string, stampPaymentDate bool) {
	totalPaid := buckets.TotalPaid()
	// The deposit is already deducted from the stored amount due, so only
	// payments made against the invoice itself count toward partial state.
	invoicePaid := buckets.OfflineInvoice + buckets.OnlineInvoice

	switch {
	case inv.TotalAmount > 0 && totalPaid >= inv.TotalAmount:
		return models.InvoiceStatusPaid, true
	case invoicePaid > 0 && invoicePaid < inv.TotalAmount:
		return models.InvoiceStatusPartial, false
	// Overdue is day-granular: an invoice due today is not overdue yet
	case inv.DueDate != nil && utils.DaysBetween(*inv.DueDate, now) > 0:
		return models.InvoiceStatusOverdue, false
	}
	return inv.Status, false
}

// CheckInvoice reclassifies an invoice's payments and applies any status
// change the lifecycle permits.
func (s *PaymentSweeper) CheckInvoice(ctx context.Context, inv models.Invoice) error {
	buckets, err := LoadInvoiceBuckets(ctx, s.db, inv)
	if err != nil {
		return err
	}

	newStatus, stampPaymentDate := SweepDecision(inv, buckets, time.Now())
	if newStatus == inv.Status || !CanTransition(inv.Status, newStatus) {
		return nil
	}

	updates := map[string]interface{}{"status": newStatus}
	if stampPaymentDate {
		now := time.Now()
		updates["payment_date"] = &now
	}
	return s.db.WithContext(ctx).Model(&models.Invoice{}).
		Where("id = ?", inv.ID).
		Updates(updates).Error
}

// LoadInvoiceBuckets loads and classifies every payment row relevant to an
// invoice: rows attached to the invoice itself plus rows and requests
// attached to its booking.
func LoadInvoiceBuckets(ctx context.Context, db *gorm.DB, inv models.Invoice) (PaymentBuckets, error) {
	var payments []models.Payment
	q := db.WithContext(ctx)
	if inv.BookingID != nil {
		q = q.Where("invoice_id = ? OR booking_id = ?", inv.ID, *inv.BookingID)
	} else {
		q = q.Where("invoice_id = ?", inv.ID)
	}
	if err := q.Find(&payments).Error; err != nil {
		return PaymentBuckets{}, err
	}

	var requests []models.PaymentRequest
	if inv.BookingID != nil {
		if err := db.WithContext(ctx).
			Where("booking_id = ?", *inv.BookingID).
			Find(&requests).Error; err != nil {
			return PaymentBuckets{}, err
		}
	}

	return ClassifyPayments(payments, requests), nil
}
