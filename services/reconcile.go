package services

import (
	"fmt"
	"math"
	"regexp"
	"strconv"

	"khtherapy-backend/models"
)

// Breakdown is the single source of truth for an invoice's figures. The
// creation form, the PDF download and the emailed PDF all consume the same
// Breakdown, so the three surfaces cannot disagree.
//
// Internal sums keep full float precision; rounding happens only in
// Presented().
type Breakdown struct {
	Subtotal           float64
	DepositApplied     float64
	FullPaymentApplied float64
	OfflinePaid        float64
	OnlinePaid         float64
	AmountDue          float64
	IsFullyPaid        bool
	StatusHint         string
	Warnings           []string
}

// PresentedBreakdown is the two-decimal view used in API responses and
// export payloads.
type PresentedBreakdown struct {
	Subtotal           float64  `json:"subtotal"`
	DepositApplied     float64  `json:"depositApplied"`
	FullPaymentApplied float64  `json:"fullPaymentApplied"`
	OfflinePaid        float64  `json:"offlinePaid"`
	OnlinePaid         float64  `json:"onlinePaid"`
	AmountDue          float64  `json:"amountDue"`
	IsFullyPaid        bool     `json:"isFullyPaid"`
	StatusHint         string   `json:"statusHint"`
	Warnings           []string `json:"warnings,omitempty"`
}

// Round2 rounds to two decimals for presentation.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func (b Breakdown) Presented() PresentedBreakdown {
	return PresentedBreakdown{
		Subtotal:           Round2(b.Subtotal),
		DepositApplied:     Round2(b.DepositApplied),
		FullPaymentApplied: Round2(b.FullPaymentApplied),
		OfflinePaid:        Round2(b.OfflinePaid),
		OnlinePaid:         Round2(b.OnlinePaid),
		AmountDue:          Round2(b.AmountDue),
		IsFullyPaid:        b.IsFullyPaid,
		StatusHint:         b.StatusHint,
		Warnings:           b.Warnings,
	}
}

// ItemsSubtotal sums item totals. total_price = quantity * unit_price is
// recomputed by the controllers on every mutation, so the stored value is
// trusted here.
func ItemsSubtotal(items []models.InvoiceItem) float64 {
	var subtotal float64
	for _, it := range items {
		subtotal += it.TotalPrice
	}
	return subtotal
}

// Reconcile combines line items with classified payments into a breakdown.
//
// Offline invoices represent money already collected outside the online flow:
// nothing is due, the full subtotal is recorded as paid, and any deposit
// captured online beforehand is carried for provenance only.
//
// Online invoices are settled by a classified full payment covering the
// subtotal, otherwise the deposit reduces the due amount, clamped at zero.
func Reconcile(items []models.InvoiceItem, buckets PaymentBuckets, invoiceType string) Breakdown {
	b := Breakdown{
		Subtotal: ItemsSubtotal(items),
		Warnings: buckets.Warnings,
	}

	if invoiceType == models.InvoiceTypeOffline {
		b.DepositApplied = buckets.Deposit
		b.FullPaymentApplied = b.Subtotal
		b.AmountDue = 0
		b.IsFullyPaid = true
		b.StatusHint = models.InvoiceStatusPaid
		return b
	}

	if buckets.Full > 0 && buckets.Full >= b.Subtotal {
		b.FullPaymentApplied = buckets.Full
		b.AmountDue = 0
		b.IsFullyPaid = true
		b.StatusHint = models.InvoiceStatusPaid
		return b
	}

	b.DepositApplied = buckets.Deposit
	b.FullPaymentApplied = buckets.Full
	b.AmountDue = math.Max(0, b.Subtotal-buckets.Deposit)
	b.IsFullyPaid = b.AmountDue == 0
	if b.IsFullyPaid {
		b.StatusHint = models.InvoiceStatusPaid
	} else {
		b.StatusHint = models.InvoiceStatusDraft
	}
	return b
}

// ReconcileStored re-derives the breakdown for an already-persisted invoice
// from live payment data, so a payment made after creation shows up without
// an edit. The stored total_amount is treated as a cache; when it disagrees
// with the live figure a non-fatal inconsistency warning is attached and the
// live figure wins.
func ReconcileStored(inv models.Invoice, items []models.InvoiceItem, buckets PaymentBuckets) Breakdown {
	b := Reconcile(items, buckets, inv.InvoiceType)
	b.OfflinePaid = buckets.OfflineInvoice
	b.OnlinePaid = buckets.OnlineInvoice

	if inv.InvoiceType != models.InvoiceTypeOffline {
		totalPaid := buckets.TotalPaid()
		b.AmountDue = math.Max(0, b.Subtotal-totalPaid)
		b.IsFullyPaid = b.Subtotal > 0 && totalPaid >= b.Subtotal
		if b.IsFullyPaid {
			b.AmountDue = 0
			b.StatusHint = models.InvoiceStatusPaid
		} else {
			b.StatusHint = models.InvoiceStatusDraft
		}
	}

	if Round2(b.AmountDue) != Round2(inv.TotalAmount) {
		b.Warnings = append(b.Warnings, fmt.Sprintf(
			"stored amount due €%.2f disagrees with live payment data €%.2f; showing live figure",
			inv.TotalAmount, b.AmountDue))
	}
	return b
}

var depositNote = regexp.MustCompile(`Deposit Deducted: €(\d+(?:\.\d+)?)`)

// DepositNote renders the human-readable provenance line appended to offline
// invoice notes.
func DepositNote(amount float64) string {
	return fmt.Sprintf("Deposit Deducted: €%.2f", amount)
}

// ParseDepositNote recovers the deposit provenance from free-text notes on
// legacy invoices created before the structured deposit_deducted column.
func ParseDepositNote(notes string) (float64, bool) {
	m := depositNote.FindStringSubmatch(notes)
	if m == nil {
		return 0, false
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
