package models

import (
	"time"

	"gorm.io/gorm"
)

// Guest is a profile row the booking core treats as read-mostly reference
// data; its fields pass through bookings unchanged.
type Guest struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	FullName string `gorm:"size:255" json:"fullName"`
	Email    string `gorm:"size:150" json:"email"`
	Phone    string `gorm:"size:50" json:"phone"`

	DateOfBirth *time.Time `json:"dateOfBirth,omitempty"`
	Gender      string     `gorm:"size:20" json:"gender"`
	Nationality string     `gorm:"size:100" json:"nationality"`
	Address     string     `gorm:"type:text" json:"address"`

	IDType   string `gorm:"size:50" json:"idType"`
	IDNumber string `gorm:"size:100" json:"idNumber"`

	Classification string `gorm:"size:50" json:"classification"`
	VIP            bool   `gorm:"default:false" json:"vip"`
	Notes          string `gorm:"type:text" json:"notes"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
