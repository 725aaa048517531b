package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Payment methods and statuses.
const (
	PaymentCash   = "CASH"
	PaymentCredit = "CREDIT"

	PaymentCompleted     = "COMPLETED"
	PaymentPartiallyPaid = "PARTIALLY_PAID"
)

// Payment is the single active settlement record of a booking. Invariant:
// PaidAmount + RemainingAmount == TotalAmount, exact decimal equality.
type Payment struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	BookingID uint `gorm:"index;column:booking_id" json:"bookingId"`

	Method string `gorm:"size:20" json:"method"`

	TotalAmount     decimal.Decimal `gorm:"type:decimal(12,2)" json:"totalAmount"`
	PaidAmount      decimal.Decimal `gorm:"type:decimal(12,2)" json:"paidAmount"`
	RemainingAmount decimal.Decimal `gorm:"type:decimal(12,2)" json:"remainingAmount"`

	PaymentDate      time.Time  `gorm:"column:payment_date" json:"paymentDate"`
	RemainingDueDate *time.Time `gorm:"column:remaining_due_date" json:"remainingDueDate,omitempty"`

	Status string `gorm:"size:32" json:"status"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
