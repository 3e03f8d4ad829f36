package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	InvoiceStatusDraft     = "draft"
	InvoiceStatusSent      = "sent"
	InvoiceStatusPaid      = "paid"
	InvoiceStatusPartial   = "partial"
	InvoiceStatusOverdue   = "overdue"
	InvoiceStatusCancelled = "cancelled"

	InvoiceTypeOnline  = "online"
	InvoiceTypeOffline = "offline"
)

// Invoice holds the stored snapshot of a reconciliation. TotalAmount is the
// computed amount due at save time, not the gross service price; anything
// export-facing re-derives the breakdown from live payment data and treats
// these columns as a cache.
type Invoice struct {
	ID         uuid.UUID  `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	CustomerID uuid.UUID  `gorm:"type:uuid;index;not null"`
	BookingID  *uuid.UUID `gorm:"type:uuid;index"`

	InvoiceNumber string    `gorm:"uniqueIndex;not null"`
	InvoiceType   string    `gorm:"type:varchar(10);default:'online'"`
	InvoiceDate   time.Time `gorm:"default:CURRENT_TIMESTAMP"`
	DueDate       *time.Time

	Subtotal        float64 `gorm:"type:decimal(10,2);not null"`
	VatRate         float64 `gorm:"type:decimal(5,2);default:0.0"`
	VatAmount       float64 `gorm:"type:decimal(10,2);default:0.0"`
	DepositDeducted float64 `gorm:"type:decimal(10,2);default:0.0"`
	TotalAmount     float64 `gorm:"type:decimal(10,2);not null"`

	Status      string `gorm:"type:varchar(20);default:'draft'"`
	Notes       string
	PaymentDate *time.Time

	Items []InvoiceItem `gorm:"foreignKey:InvoiceID"`

	gorm.Model
}

func (i *Invoice) BeforeCreate(tx *gorm.DB) (err error) {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return
}

type InvoiceItem struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	InvoiceID uuid.UUID `gorm:"type:uuid;index;not null"`

	Description string  `gorm:"not null"`
	Quantity    int     `gorm:"default:1"`
	UnitPrice   float64 `gorm:"type:decimal(10,2);not null"`
	TotalPrice  float64 `gorm:"type:decimal(10,2);not null"`
}

func (i *InvoiceItem) BeforeCreate(tx *gorm.DB) (err error) {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return
}

// InvoiceSequence backs the per-month invoice number counter.
type InvoiceSequence struct {
	Period  string `gorm:"type:varchar(6);primary_key"` // "YYYYMM"
	Counter int    `gorm:"not null;default:0"`
}
