// models/notification_log.go
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NotificationLog struct {
	ID         uuid.UUID  `gorm:"type:uuid;primary_key"`
	CustomerID uuid.UUID  `gorm:"type:uuid;index;not null"`
	InvoiceID  *uuid.UUID `gorm:"type:uuid;index"`
	Message    string     `gorm:"type:text"`
	Status     string     `gorm:"type:varchar(20)"` // sent, failed
	ErrorMsg   string     `gorm:"type:text"`
	Channel    string     `gorm:"type:varchar(20)"` // whatsapp, sms
	SentAt     time.Time
	gorm.Model
}

func (n *NotificationLog) BeforeCreate(tx *gorm.DB) (err error) {
	n.ID = uuid.New()
	return
}
