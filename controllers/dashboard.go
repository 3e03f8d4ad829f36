package controllers

import (
	"log"
	"net/http"
	"time"

	"khtherapy-backend/config"
	"khtherapy-backend/models"

	"github.com/gin-gonic/gin"
)

// GetDashboardOverview composes the admin landing figures. Each source is
// queried independently; one failing query logs and leaves its section
// zeroed instead of blanking the whole dashboard.
func GetDashboardOverview(c *gin.Context) {
	now := time.Now()
	firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	var totalCustomers int64
	if err := config.DB.Model(&models.Customer{}).
		Where("deleted_at IS NULL").
		Count(&totalCustomers).Error; err != nil {
		log.Printf("Dashboard: customer count failed: %v", err)
	}

	var pendingBookings int64
	if err := config.DB.Model(&models.Booking{}).
		Where("status = ? AND deleted_at IS NULL", models.BookingStatusPending).
		Count(&pendingBookings).Error; err != nil {
		log.Printf("Dashboard: pending booking count failed: %v", err)
	}

	var confirmedBookings int64
	if err := config.DB.Model(&models.Booking{}).
		Where("status = ? AND deleted_at IS NULL", models.BookingStatusConfirmed).
		Count(&confirmedBookings).Error; err != nil {
		log.Printf("Dashboard: confirmed booking count failed: %v", err)
	}

	var totalInvoices int64
	if err := config.DB.Model(&models.Invoice{}).
		Where("deleted_at IS NULL").
		Count(&totalInvoices).Error; err != nil {
		log.Printf("Dashboard: invoice count failed: %v", err)
	}

	// Outstanding balance across everything not yet settled or cancelled
	var outstanding float64
	if err := config.DB.Model(&models.Invoice{}).
		Where("status IN ? AND deleted_at IS NULL", []string{
			models.InvoiceStatusDraft,
			models.InvoiceStatusSent,
			models.InvoiceStatusPartial,
			models.InvoiceStatusOverdue,
		}).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&outstanding).Error; err != nil {
		log.Printf("Dashboard: outstanding balance failed: %v", err)
	}

	// This month's settled revenue
	var monthlyRevenue float64
	if err := config.DB.Model(&models.Invoice{}).
		Where("status = ? AND payment_date >= ? AND deleted_at IS NULL",
			models.InvoiceStatusPaid, firstOfMonth).
		Select("COALESCE(SUM(subtotal), 0)").
		Scan(&monthlyRevenue).Error; err != nil {
		log.Printf("Dashboard: monthly revenue failed: %v", err)
	}

	var overdueInvoices int64
	if err := config.DB.Model(&models.Invoice{}).
		Where("status = ? AND deleted_at IS NULL", models.InvoiceStatusOverdue).
		Count(&overdueInvoices).Error; err != nil {
		log.Printf("Dashboard: overdue count failed: %v", err)
	}

	c.JSON(http.StatusOK, gin.H{
		"totalCustomers":     totalCustomers,
		"pendingBookings":    pendingBookings,
		"confirmedBookings":  confirmedBookings,
		"totalInvoices":      totalInvoices,
		"overdueInvoices":    overdueInvoices,
		"outstandingBalance": outstanding,
		"monthlyRevenue":     monthlyRevenue,
	})
}
