// controllers/payment.go
package controllers

import (
	"net/http"
	"time"

	"khtherapy-backend/config"
	"khtherapy-backend/models"
	"khtherapy-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CreatePaymentInput records a manual/offline payment against a booking
// and/or an invoice. Gateway payments arrive through the public flow, not
// this endpoint.
type CreatePaymentInput struct {
	BookingID     *uuid.UUID `json:"bookingId"`
	InvoiceID     *uuid.UUID `json:"invoiceId"`
	Amount        float64    `json:"amount" binding:"required,gt=0"`
	PaymentMethod string     `json:"paymentMethod" binding:"required"`
	PaymentType   string     `json:"paymentType" binding:"omitempty,oneof=deposit full"`
	PaymentDate   *time.Time `json:"paymentDate"`
}

// CreatePaymentRequestInput records a payment-intent for a booking
type CreatePaymentRequestInput struct {
	BookingID uuid.UUID  `json:"bookingId" binding:"required"`
	InvoiceID *uuid.UUID `json:"invoiceId"`
	Amount    float64    `json:"amount" binding:"required,gt=0"`
}

// CreatePayment records a settled manual payment
func CreatePayment(c *gin.Context) {
	var input CreatePaymentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if input.BookingID == nil && input.InvoiceID == nil {
		utils.RespondWithError(c, http.StatusBadRequest, "A payment needs a booking or an invoice")
		return
	}

	paymentDate := time.Now()
	if input.PaymentDate != nil {
		paymentDate = *input.PaymentDate
	}

	payment := models.Payment{
		ID:            uuid.New(),
		BookingID:     input.BookingID,
		InvoiceID:     input.InvoiceID,
		Amount:        formatAmount(input.Amount),
		Currency:      "EUR",
		Status:        models.PaymentStatusPaid,
		PaymentMethod: input.PaymentMethod,
		PaymentType:   input.PaymentType,
		PaymentDate:   &paymentDate,
	}

	if err := config.DB.Create(&payment).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to record payment")
		return
	}

	c.JSON(http.StatusCreated, payment)
}

// GetPayments lists payments filtered by booking or invoice
func GetPayments(c *gin.Context) {
	query := config.DB.Model(&models.Payment{})

	if bookingID := c.Query("booking_id"); bookingID != "" {
		bookingUUID, err := uuid.Parse(bookingID)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid booking ID format")
			return
		}
		query = query.Where("booking_id = ?", bookingUUID)
	}
	if invoiceID := c.Query("invoice_id"); invoiceID != "" {
		invoiceUUID, err := uuid.Parse(invoiceID)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid invoice ID format")
			return
		}
		query = query.Where("invoice_id = ?", invoiceUUID)
	}

	var payments []models.Payment
	if err := query.Order("created_at DESC").Find(&payments).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve payments")
		return
	}

	c.JSON(http.StatusOK, payments)
}

// CreatePaymentRequest records a payment intent for a booking
func CreatePaymentRequest(c *gin.Context) {
	var input CreatePaymentRequestInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	request := models.PaymentRequest{
		ID:        uuid.New(),
		BookingID: input.BookingID,
		InvoiceID: input.InvoiceID,
		Amount:    input.Amount,
		Status:    models.PaymentStatusPending,
	}

	if err := config.DB.Create(&request).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create payment request")
		return
	}

	c.JSON(http.StatusCreated, request)
}

// GetPaymentRequests lists payment requests for a booking
func GetPaymentRequests(c *gin.Context) {
	query := config.DB.Model(&models.PaymentRequest{})

	if bookingID := c.Query("booking_id"); bookingID != "" {
		bookingUUID, err := uuid.Parse(bookingID)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid booking ID format")
			return
		}
		query = query.Where("booking_id = ?", bookingUUID)
	}

	var requests []models.PaymentRequest
	if err := query.Order("created_at DESC").Find(&requests).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve payment requests")
		return
	}

	c.JSON(http.StatusOK, requests)
}
