package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	PaymentStatusPaid       = "paid"
	PaymentStatusCompleted  = "completed"
	PaymentStatusProcessing = "processing"
	PaymentStatusFailed     = "failed"
	PaymentStatusPending    = "pending"

	PaymentTypeDeposit = "deposit"
	PaymentTypeFull    = "full"

	PaymentMethodOffline = "offline"
)

// Payment is a settled (or in-flight) payment row. Legacy gateway imports
// stored the amount as text, so Amount stays a string column and is parsed
// by the classifier; rows that fail to parse count as zero with a warning.
// PaymentType may be empty on legacy rows.
type Payment struct {
	ID        uuid.UUID  `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	BookingID *uuid.UUID `gorm:"type:uuid;index"`
	InvoiceID *uuid.UUID `gorm:"type:uuid;index"`

	Amount        string `gorm:"type:varchar(32);not null"`
	Currency      string `gorm:"type:varchar(3);default:'EUR'"`
	Status        string `gorm:"type:varchar(20);not null"`
	PaymentMethod string `gorm:"type:varchar(40)"` // "offline" or a gateway name
	PaymentType   string `gorm:"type:varchar(20)"` // deposit | full | "" (legacy)
	PaymentDate   *time.Time

	gorm.Model
}

func (p *Payment) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return
}

// PaymentRequest is a payment-intent record written before a gateway payment
// exists. When a booking has no Payment rows at all, its paid requests stand
// in as deposits during classification.
type PaymentRequest struct {
	ID        uuid.UUID  `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	BookingID uuid.UUID  `gorm:"type:uuid;index;not null"`
	InvoiceID *uuid.UUID `gorm:"type:uuid;index"`

	Amount float64 `gorm:"type:decimal(10,2);not null"`
	Status string  `gorm:"type:varchar(20);default:'pending'"`

	gorm.Model
}

func (p *PaymentRequest) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return
}
