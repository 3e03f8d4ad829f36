package services

import (
	"errors"
	"fmt"
	"time"

	"khtherapy-backend/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// NextInvoiceNumber allocates the next number in the INV-YYYYMM-NNN format
// from a per-month counter row, locked for the duration of the enclosing
// transaction so concurrent creations cannot collide.
func NextInvoiceNumber(tx *gorm.DB, now time.Time) (string, error) {
	period := now.Format("200601")

	var seq models.InvoiceSequence
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("period = ?", period).
		First(&seq).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		seq = models.InvoiceSequence{Period: period}
		if err := tx.Create(&seq).Error; err != nil {
			return "", err
		}
	} else if err != nil {
		return "", err
	}

	seq.Counter++
	if err := tx.Model(&models.InvoiceSequence{}).
		Where("period = ?", period).
		Update("counter", seq.Counter).Error; err != nil {
		return "", err
	}

	return fmt.Sprintf("INV-%s-%03d", period, seq.Counter), nil
}
