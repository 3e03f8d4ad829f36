package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service is a bookable therapy service. Pricing is either a flat Price or an
// in-hour/out-of-hour pair; when the pair is set it takes precedence over the
// flat price.
type Service struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	Name        string    `gorm:"not null"`
	Description string
	Category    string  `gorm:"default:'General'"`
	Price       float64 `gorm:"type:decimal(10,2);default:0.0"`

	InHourPrice    *float64 `gorm:"type:decimal(10,2)"`
	OutOfHourPrice *float64 `gorm:"type:decimal(10,2)"`

	Duration int  // in minutes
	IsActive bool `gorm:"default:true"`

	gorm.Model
}

func (s *Service) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return
}

// HasHourlyPair reports whether both tiered prices are configured.
func (s *Service) HasHourlyPair() bool {
	return s.InHourPrice != nil && s.OutOfHourPrice != nil
}
