package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	BookingStatusPending   = "pending"
	BookingStatusConfirmed = "confirmed"
	BookingStatusCancelled = "cancelled"
)

// Booking is created by the public booking flow and managed here by the admin.
// ServiceName is the raw string captured at booking time; it may carry a price
// annotation like "Deep Tissue Massage (€65)" when the service was renamed or
// removed since.
type Booking struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	CustomerID uuid.UUID `gorm:"type:uuid;index;not null"`

	ServiceName string `gorm:"not null"`
	Date        *time.Time
	TimeOfDay   string `gorm:"type:varchar(5)"` // "15:04", may be empty
	Status      string `gorm:"type:varchar(20);default:'pending'"`
	Notes       string

	Payments        []Payment        `gorm:"foreignKey:BookingID"`
	PaymentRequests []PaymentRequest `gorm:"foreignKey:BookingID"`

	gorm.Model
}

func (b *Booking) BeforeCreate(tx *gorm.DB) (err error) {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return
}
