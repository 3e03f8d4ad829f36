// controllers/invoice.go
package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"khtherapy-backend/config"
	"khtherapy-backend/models"
	"khtherapy-backend/services"
	"khtherapy-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreateInvoiceInput defines the expected JSON structure for creating an invoice
type CreateInvoiceInput struct {
	CustomerID  uuid.UUID            `json:"customerId" binding:"required"`
	BookingID   *uuid.UUID           `json:"bookingId"`
	InvoiceType string               `json:"invoiceType" binding:"omitempty,oneof=online offline"`
	InvoiceDate *time.Time           `json:"invoiceDate"`
	DueDate     *time.Time           `json:"dueDate"`
	Items       []services.ItemInput `json:"items" binding:"required,min=1"`
	Notes       string               `json:"notes"`
}

// UpdateInvoiceInput defines the expected JSON structure for updating an invoice
type UpdateInvoiceInput struct {
	InvoiceDate *time.Time            `json:"invoiceDate"`
	DueDate     *time.Time            `json:"dueDate"`
	Items       *[]services.ItemInput `json:"items"`
	Notes       *string               `json:"notes"`
}

func formatAmount(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

// bookingBuckets classifies the payments already captured against a booking,
// before any invoice exists.
func bookingBuckets(bookingID uuid.UUID) (services.PaymentBuckets, error) {
	var payments []models.Payment
	if err := config.DB.Where("booking_id = ?", bookingID).Find(&payments).Error; err != nil {
		return services.PaymentBuckets{}, err
	}
	var requests []models.PaymentRequest
	if err := config.DB.Where("booking_id = ?", bookingID).Find(&requests).Error; err != nil {
		return services.PaymentBuckets{}, err
	}
	return services.ClassifyPayments(payments, requests), nil
}

// CreateInvoice creates a new invoice with its reconciliation snapshot
func CreateInvoice(c *gin.Context) {
	var input CreateInvoiceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	invoiceType := input.InvoiceType
	if invoiceType == "" {
		invoiceType = models.InvoiceTypeOnline
	}

	// Validation blocks before any write is attempted
	if err := services.ValidateInvoiceInput(input.CustomerID, invoiceType, input.Items); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	var customer models.Customer
	if err := config.DB.Where("id = ?", input.CustomerID).First(&customer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusBadRequest, "Customer not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	var buckets services.PaymentBuckets
	var booking *models.Booking
	if input.BookingID != nil {
		var bk models.Booking
		if err := config.DB.Where("id = ? AND customer_id = ?", *input.BookingID, input.CustomerID).
			First(&bk).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				utils.RespondWithError(c, http.StatusBadRequest, "Booking not found for this customer")
			} else {
				utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
			}
			return
		}
		booking = &bk

		var err error
		buckets, err = bookingBuckets(bk.ID)
		if err != nil {
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to load payments")
			return
		}
	}

	invoiceID := uuid.New()
	items := services.BuildItems(invoiceID, input.Items)
	breakdown := services.Reconcile(items, buckets, invoiceType)

	// Advisory deposit check against the 20% convention
	warnings := append([]string{}, breakdown.Warnings...)
	if booking != nil {
		var activeServices []models.Service
		if err := config.DB.Where("is_active = ?", true).Find(&activeServices).Error; err == nil {
			res := services.ResolvePrice(booking.ServiceName, booking.Date, booking.TimeOfDay, activeServices)
			if msg, ok := services.DepositDiscrepancy(res.UnitPrice, buckets.Deposit); ok {
				warnings = append(warnings, msg)
			}
		}
	}

	notes := input.Notes
	if invoiceType == models.InvoiceTypeOffline && breakdown.DepositApplied > 0 {
		note := services.DepositNote(breakdown.DepositApplied)
		if notes == "" {
			notes = note
		} else if !strings.Contains(notes, note) {
			notes = notes + "\n" + note
		}
	}

	invoiceDate := time.Now()
	if input.InvoiceDate != nil {
		invoiceDate = *input.InvoiceDate
	}
	dueDate := input.DueDate
	if dueDate == nil {
		d := invoiceDate.AddDate(0, 0, 14)
		dueDate = &d
	}

	invoice := models.Invoice{
		ID:              invoiceID,
		CustomerID:      input.CustomerID,
		BookingID:       input.BookingID,
		InvoiceType:     invoiceType,
		InvoiceDate:     invoiceDate,
		DueDate:         dueDate,
		Subtotal:        breakdown.Subtotal,
		DepositDeducted: breakdown.DepositApplied,
		TotalAmount:     breakdown.AmountDue,
		Status:          services.InitialStatus(invoiceType),
		Notes:           notes,
	}
	if breakdown.IsFullyPaid {
		invoice.Status = models.InvoiceStatusPaid
		now := time.Now()
		invoice.PaymentDate = &now
	}

	// Items are only written after the invoice row succeeds; the transaction
	// keeps the pair atomic
	err := config.DB.Transaction(func(tx *gorm.DB) error {
		number, err := services.NextInvoiceNumber(tx, invoiceDate)
		if err != nil {
			return err
		}
		invoice.InvoiceNumber = number

		if err := tx.Create(&invoice).Error; err != nil {
			return err
		}
		if err := tx.Create(&items).Error; err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create invoice")
		return
	}

	invoice.Items = items
	breakdown.Warnings = warnings
	c.JSON(http.StatusCreated, gin.H{
		"invoice":   invoice,
		"breakdown": breakdown.Presented(),
	})
}

// GetInvoices retrieves all invoices with live breakdowns. Loading the list
// also runs the payment sweep so sent invoices whose payments have since
// arrived get promoted before display.
func GetInvoices(c *gin.Context) {
	services.NewPaymentSweeper(config.DB).Sweep(c.Request.Context())

	var invoices []models.Invoice
	if err := config.DB.Preload("Items").
		Order("invoice_date DESC").
		Find(&invoices).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve invoices")
		return
	}

	out := make([]gin.H, 0, len(invoices))
	for _, inv := range invoices {
		buckets, err := services.LoadInvoiceBuckets(c.Request.Context(), config.DB, inv)
		if err != nil {
			// A failed check must not blank the rest of the list
			out = append(out, gin.H{"invoice": inv})
			continue
		}
		breakdown := services.ReconcileStored(inv, inv.Items, buckets)
		out = append(out, gin.H{
			"invoice":   inv,
			"breakdown": breakdown.Presented(),
		})
	}

	c.JSON(http.StatusOK, out)
}

// GetInvoice retrieves a specific invoice with its live breakdown
func GetInvoice(c *gin.Context) {
	invoice, ok := loadInvoice(c)
	if !ok {
		return
	}

	buckets, err := services.LoadInvoiceBuckets(c.Request.Context(), config.DB, invoice)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to load payments")
		return
	}
	breakdown := services.ReconcileStored(invoice, invoice.Items, buckets)

	depositDeducted := invoice.DepositDeducted
	if depositDeducted == 0 {
		// Legacy rows carry the provenance only in the notes text
		if v, ok := services.ParseDepositNote(invoice.Notes); ok {
			depositDeducted = v
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"invoice":         invoice,
		"breakdown":       breakdown.Presented(),
		"depositDeducted": services.Round2(depositDeducted),
	})
}

// UpdateInvoice replaces an invoice's items wholesale and recomputes the
// reconciliation snapshot
func UpdateInvoice(c *gin.Context) {
	invoice, ok := loadInvoice(c)
	if !ok {
		return
	}

	if !services.CanEdit(invoice.Status) {
		utils.RespondWithError(c, http.StatusConflict, "Invoice can no longer be edited")
		return
	}

	var input UpdateInvoiceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if input.Items != nil {
		if err := services.ValidateInvoiceInput(invoice.CustomerID, invoice.InvoiceType, *input.Items); err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, err.Error())
			return
		}
	}

	if input.InvoiceDate != nil {
		invoice.InvoiceDate = *input.InvoiceDate
	}
	if input.DueDate != nil {
		invoice.DueDate = input.DueDate
	}
	if input.Notes != nil {
		invoice.Notes = *input.Notes
	}

	items := invoice.Items
	if input.Items != nil {
		items = services.BuildItems(invoice.ID, *input.Items)
	}

	buckets, err := services.LoadInvoiceBuckets(c.Request.Context(), config.DB, invoice)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to load payments")
		return
	}
	breakdown := services.Reconcile(items, buckets, invoice.InvoiceType)

	invoice.Subtotal = breakdown.Subtotal
	invoice.DepositDeducted = breakdown.DepositApplied
	invoice.TotalAmount = breakdown.AmountDue
	if invoice.Status == models.InvoiceStatusDraft && breakdown.IsFullyPaid {
		invoice.Status = models.InvoiceStatusPaid
		now := time.Now()
		invoice.PaymentDate = &now
	}

	// Items are replaced wholesale, never diffed, inside one transaction so
	// no window exists where the invoice has orphaned or missing rows
	err = config.DB.Transaction(func(tx *gorm.DB) error {
		if input.Items != nil {
			if err := tx.Unscoped().Where("invoice_id = ?", invoice.ID).
				Delete(&models.InvoiceItem{}).Error; err != nil {
				return err
			}
			if err := tx.Create(&items).Error; err != nil {
				return err
			}
		}
		invoice.Items = nil
		return tx.Save(&invoice).Error
	})
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update invoice")
		return
	}

	invoice.Items = items
	c.JSON(http.StatusOK, gin.H{
		"invoice":   invoice,
		"breakdown": breakdown.Presented(),
	})
}

// DeleteInvoice removes a draft invoice: items first, then the row
func DeleteInvoice(c *gin.Context) {
	invoice, ok := loadInvoice(c)
	if !ok {
		return
	}

	if !services.CanDelete(invoice.Status) {
		utils.RespondWithError(c, http.StatusConflict, "Only draft invoices can be deleted")
		return
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("invoice_id = ?", invoice.ID).
			Delete(&models.InvoiceItem{}).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(&models.Invoice{}, "id = ?", invoice.ID).Error
	})
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete invoice")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Invoice deleted successfully"})
}

// SendInvoice emails the invoice PDF and marks it sent. The emailed figures
// come from the same live breakdown the preview shows.
func SendInvoice(c *gin.Context) {
	invoice, ok := loadInvoice(c)
	if !ok {
		return
	}

	if invoice.Status != models.InvoiceStatusDraft && invoice.Status != models.InvoiceStatusSent {
		utils.RespondWithError(c, http.StatusConflict, "Invoice cannot be sent from status "+invoice.Status)
		return
	}

	var customer models.Customer
	if err := config.DB.Where("id = ?", invoice.CustomerID).First(&customer).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to load customer")
		return
	}
	if customer.Email == "" {
		utils.RespondWithError(c, http.StatusBadRequest, "Customer has no email address")
		return
	}

	buckets, err := services.LoadInvoiceBuckets(c.Request.Context(), config.DB, invoice)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to load payments")
		return
	}
	breakdown := services.ReconcileStored(invoice, invoice.Items, buckets)

	export := services.InvoiceExport{
		Invoice:   invoice,
		Customer:  customer,
		Items:     invoice.Items,
		Breakdown: breakdown.Presented(),
	}
	if err := services.NewHTTPExportAdapter().EmailPDF(c.Request.Context(), export, customer.Email); err != nil {
		// Status stays where it was; nothing was persisted
		utils.RespondWithError(c, http.StatusBadGateway, "Failed to email invoice: "+err.Error())
		return
	}

	if services.CanTransition(invoice.Status, models.InvoiceStatusSent) {
		if err := config.DB.Model(&models.Invoice{}).Where("id = ?", invoice.ID).
			Update("status", models.InvoiceStatusSent).Error; err != nil {
			utils.RespondWithError(c, http.StatusInternalServerError, "Invoice was emailed but status update failed")
			return
		}
		invoice.Status = models.InvoiceStatusSent
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "Invoice sent to " + customer.Email,
		"invoice":   invoice,
		"breakdown": breakdown.Presented(),
	})
}

// DownloadInvoicePDF streams the rendered PDF, figures identical to preview
// and email
func DownloadInvoicePDF(c *gin.Context) {
	invoice, ok := loadInvoice(c)
	if !ok {
		return
	}

	var customer models.Customer
	if err := config.DB.Where("id = ?", invoice.CustomerID).First(&customer).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to load customer")
		return
	}

	buckets, err := services.LoadInvoiceBuckets(c.Request.Context(), config.DB, invoice)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to load payments")
		return
	}
	breakdown := services.ReconcileStored(invoice, invoice.Items, buckets)

	pdf, err := services.NewHTTPExportAdapter().RenderPDF(c.Request.Context(), services.InvoiceExport{
		Invoice:   invoice,
		Customer:  customer,
		Items:     invoice.Items,
		Breakdown: breakdown.Presented(),
	})
	if err != nil {
		utils.RespondWithError(c, http.StatusBadGateway, "Failed to render PDF: "+err.Error())
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+invoice.InvoiceNumber+`.pdf"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}

// CancelInvoice cancels from any non-paid state
func CancelInvoice(c *gin.Context) {
	invoice, ok := loadInvoice(c)
	if !ok {
		return
	}

	if !services.CanCancel(invoice.Status) {
		utils.RespondWithError(c, http.StatusConflict, "Invoice cannot be cancelled from status "+invoice.Status)
		return
	}

	if err := config.DB.Model(&models.Invoice{}).Where("id = ?", invoice.ID).
		Update("status", models.InvoiceStatusCancelled).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to cancel invoice")
		return
	}

	invoice.Status = models.InvoiceStatusCancelled
	c.JSON(http.StatusOK, invoice)
}

// RequestPayment records a payment request for the outstanding balance and
// notifies the customer
func RequestPayment(c *gin.Context) {
	invoice, ok := loadInvoice(c)
	if !ok {
		return
	}

	var customer models.Customer
	if err := config.DB.Where("id = ?", invoice.CustomerID).First(&customer).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to load customer")
		return
	}

	buckets, err := services.LoadInvoiceBuckets(c.Request.Context(), config.DB, invoice)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to load payments")
		return
	}
	breakdown := services.ReconcileStored(invoice, invoice.Items, buckets)

	if breakdown.IsFullyPaid {
		utils.RespondWithError(c, http.StatusConflict, "Invoice has nothing outstanding")
		return
	}

	if invoice.BookingID != nil {
		invoiceID := invoice.ID
		request := models.PaymentRequest{
			ID:        uuid.New(),
			BookingID: *invoice.BookingID,
			InvoiceID: &invoiceID,
			Amount:    services.Round2(breakdown.AmountDue),
			Status:    models.PaymentStatusPending,
		}
		if err := config.DB.Create(&request).Error; err != nil {
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create payment request")
			return
		}
	}

	// Notification failures are advisory; the request itself is recorded
	if sendErr := services.NewNotificationService(config.DB).
		SendPaymentRequest(customer, invoice, breakdown.AmountDue); sendErr != nil {
		c.JSON(http.StatusOK, gin.H{
			"message":   "Payment request recorded but notification failed",
			"breakdown": breakdown.Presented(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "Payment request sent",
		"breakdown": breakdown.Presented(),
	})
}

// loadInvoice parses the :id param and fetches the invoice with its items
func loadInvoice(c *gin.Context) (models.Invoice, bool) {
	invoiceUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid invoice ID format")
		return models.Invoice{}, false
	}

	var invoice models.Invoice
	if err := config.DB.Preload("Items").Where("id = ?", invoiceUUID).First(&invoice).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Invoice not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return models.Invoice{}, false
	}
	return invoice, true
}
