// controllers/report.go
package controllers

import (
	"net/http"
	"time"

	"khtherapy-backend/config"
	"khtherapy-backend/models"
	"khtherapy-backend/services"
	"khtherapy-backend/utils"

	"github.com/gin-gonic/gin"
)

// ReportController handles all reporting functions
type ReportController struct{}

type StatusCount struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

type MonthRevenue struct {
	Month   string  `json:"month"`
	Revenue float64 `json:"revenue"`
}

// GetReportAnalytics returns invoice status distribution and monthly revenue.
// Figures come out of the same reconciliation the exports use: the sweep runs
// first so stale sent invoices do not distort the distribution.
func (rc ReportController) GetReportAnalytics(c *gin.Context) {
	services.NewPaymentSweeper(config.DB).Sweep(c.Request.Context())

	var statusCounts []StatusCount
	if err := config.DB.Model(&models.Invoice{}).
		Select("status, COUNT(*) as count").
		Where("deleted_at IS NULL").
		Group("status").
		Scan(&statusCounts).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to load status distribution")
		return
	}

	// Last 12 months of settled revenue
	var revenue []MonthRevenue
	since := time.Now().AddDate(-1, 0, 0)
	if err := config.DB.Raw(`
        SELECT TO_CHAR(payment_date, 'YYYY-MM') AS month,
               COALESCE(SUM(subtotal), 0) AS revenue
        FROM invoices
        WHERE status = ? AND payment_date >= ? AND deleted_at IS NULL
        GROUP BY 1
        ORDER BY 1
    `, models.InvoiceStatusPaid, since).Scan(&revenue).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to load revenue")
		return
	}

	// Deposit capture across settled payments
	var deposits float64
	config.DB.Model(&models.Invoice{}).
		Where("deleted_at IS NULL").
		Select("COALESCE(SUM(deposit_deducted), 0)").
		Scan(&deposits)

	c.JSON(http.StatusOK, gin.H{
		"statusDistribution": statusCounts,
		"monthlyRevenue":     revenue,
		"depositsApplied":    services.Round2(deposits),
	})
}
