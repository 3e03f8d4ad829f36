// controllers/booking.go
package controllers

import (
	"errors"
	"net/http"
	"time"

	"khtherapy-backend/config"
	"khtherapy-backend/models"
	"khtherapy-backend/services"
	"khtherapy-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreateBookingInput defines the expected JSON structure for creating a booking
type CreateBookingInput struct {
	CustomerID  uuid.UUID  `json:"customerId" binding:"required"`
	ServiceName string     `json:"serviceName" binding:"required"`
	Date        *time.Time `json:"date"`
	TimeOfDay   string     `json:"timeOfDay"`
	Notes       string     `json:"notes"`
}

// UpdateBookingInput allows status changes and slot corrections
type UpdateBookingInput struct {
	ServiceName *string    `json:"serviceName"`
	Date        *time.Time `json:"date"`
	TimeOfDay   *string    `json:"timeOfDay"`
	Status      *string    `json:"status" binding:"omitempty,oneof=pending confirmed cancelled"`
	Notes       *string    `json:"notes"`
}

// CreateBooking records a booking on behalf of a customer
func CreateBooking(c *gin.Context) {
	var input CreateBookingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
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

	booking := models.Booking{
		ID:          uuid.New(),
		CustomerID:  input.CustomerID,
		ServiceName: input.ServiceName,
		Date:        input.Date,
		TimeOfDay:   input.TimeOfDay,
		Status:      models.BookingStatusPending,
		Notes:       input.Notes,
	}

	if err := config.DB.Create(&booking).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create booking")
		return
	}

	c.JSON(http.StatusCreated, booking)
}

// GetBookings retrieves bookings, optionally filtered by customer and status
func GetBookings(c *gin.Context) {
	query := config.DB.Model(&models.Booking{})

	if customerID := c.Query("customer_id"); customerID != "" {
		customerUUID, err := uuid.Parse(customerID)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid customer ID format")
			return
		}
		query = query.Where("customer_id = ?", customerUUID)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var bookings []models.Booking
	if err := query.Order("date DESC NULLS LAST").Find(&bookings).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve bookings")
		return
	}

	c.JSON(http.StatusOK, bookings)
}

// GetBooking retrieves a specific booking by ID
func GetBooking(c *gin.Context) {
	bookingUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid booking ID format")
		return
	}

	var booking models.Booking
	if err := config.DB.Where("id = ?", bookingUUID).First(&booking).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Booking not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, booking)
}

// UpdateBooking changes a booking's slot or status (confirm/cancel)
func UpdateBooking(c *gin.Context) {
	bookingUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid booking ID format")
		return
	}

	var input UpdateBookingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var booking models.Booking
	if err := config.DB.Where("id = ?", bookingUUID).First(&booking).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Booking not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	// Once invoiced only the status may change
	var invoiced int64
	config.DB.Model(&models.Invoice{}).Where("booking_id = ?", booking.ID).Count(&invoiced)
	if invoiced > 0 && (input.ServiceName != nil || input.Date != nil || input.TimeOfDay != nil) {
		utils.RespondWithError(c, http.StatusConflict, "Booking is invoiced; only its status can change")
		return
	}

	if input.ServiceName != nil {
		booking.ServiceName = *input.ServiceName
	}
	if input.Date != nil {
		booking.Date = input.Date
	}
	if input.TimeOfDay != nil {
		booking.TimeOfDay = *input.TimeOfDay
	}
	if input.Status != nil {
		booking.Status = *input.Status
	}
	if input.Notes != nil {
		booking.Notes = *input.Notes
	}

	if err := config.DB.Save(&booking).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update booking")
		return
	}

	c.JSON(http.StatusOK, booking)
}

// GetEligibleBookings lists the customer's confirmed bookings still open for
// invoicing. The filter runs against live booking, payment and service data
// on every call.
func GetEligibleBookings(c *gin.Context) {
	customerUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid customer ID format")
		return
	}

	var bookings []models.Booking
	if err := config.DB.
		Where("customer_id = ? AND status = ?", customerUUID, models.BookingStatusConfirmed).
		Find(&bookings).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve bookings")
		return
	}

	var activeServices []models.Service
	if err := config.DB.Where("is_active = ?", true).Find(&activeServices).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve services")
		return
	}

	bookingIDs := make([]uuid.UUID, 0, len(bookings))
	for _, b := range bookings {
		bookingIDs = append(bookingIDs, b.ID)
	}

	paymentsByBooking := make(map[uuid.UUID][]models.Payment)
	requestsByBooking := make(map[uuid.UUID][]models.PaymentRequest)
	if len(bookingIDs) > 0 {
		var payments []models.Payment
		if err := config.DB.Where("booking_id IN ?", bookingIDs).Find(&payments).Error; err != nil {
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve payments")
			return
		}
		for _, p := range payments {
			if p.BookingID != nil {
				paymentsByBooking[*p.BookingID] = append(paymentsByBooking[*p.BookingID], p)
			}
		}

		var requests []models.PaymentRequest
		if err := config.DB.Where("booking_id IN ?", bookingIDs).Find(&requests).Error; err != nil {
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve payment requests")
			return
		}
		for _, r := range requests {
			requestsByBooking[r.BookingID] = append(requestsByBooking[r.BookingID], r)
		}
	}

	eligible := services.EligibleBookings(bookings, paymentsByBooking, requestsByBooking, activeServices)
	c.JSON(http.StatusOK, eligible)
}
