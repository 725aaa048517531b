package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// RoomType is a bookable room category, not a physical room. Quantity is the
// hard ceiling for overlapping commitments on any single night.
type RoomType struct {
	ID      uint `gorm:"primaryKey" json:"id"`
	HotelID uint `gorm:"index;column:hotel_id" json:"hotelId"`

	TypeName    string `gorm:"size:150" json:"typeName"`
	Description string `gorm:"type:text" json:"description"`
	MaxGuests   uint   `json:"maxGuests"`

	Quantity         int              `gorm:"not null;default:0" json:"quantity"`
	BasePrice        decimal.Decimal  `gorm:"type:decimal(10,2)" json:"basePrice"`
	AlternativePrice *decimal.Decimal `gorm:"type:decimal(10,2)" json:"alternativePrice,omitempty"`

	// Optional validity window; both set or both nil.
	AvailableFrom *time.Time `gorm:"column:available_from" json:"availableFrom,omitempty"`
	AvailableTo   *time.Time `gorm:"column:available_to" json:"availableTo,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Hotel Hotel `gorm:"foreignKey:HotelID;references:ID" json:"hotel,omitempty"`
}

// HasWindow reports whether the type declares a validity window.
func (rt *RoomType) HasWindow() bool {
	return rt.AvailableFrom != nil && rt.AvailableTo != nil
}
