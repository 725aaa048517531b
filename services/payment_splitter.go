package services

import (
	"time"

	"frontdesk-backend/models"

	"github.com/shopspring/decimal"
)

// PaymentInput is the caller-supplied half of a payment. Amount applies to
// CASH, PaidAmount and RemainingDueDate to CREDIT.
type PaymentInput struct {
	Method           string           `json:"method"`
	Amount           *decimal.Decimal `json:"amount,omitempty"`
	PaidAmount       *decimal.Decimal `json:"paidAmount,omitempty"`
	RemainingDueDate *time.Time       `json:"remainingDueDate,omitempty"`
}

// SplitPayment normalizes a payment input against the booking total. Pure:
// no side effects, PaymentDate left for the caller to stamp.
//
// CASH settles in full: remaining is zero and any due date is dropped.
// CREDIT collects part now and the rest by RemainingDueDate; paying more
// than the total is rejected rather than producing a negative remainder.
func SplitPayment(method string, totalAmount decimal.Decimal, in PaymentInput) (models.Payment, error) {
	switch method {
	case models.PaymentCash:
		paid := totalAmount
		if in.Amount != nil {
			paid = *in.Amount
		}
		return models.Payment{
			Method:          models.PaymentCash,
			TotalAmount:     totalAmount,
			PaidAmount:      paid,
			RemainingAmount: decimal.Zero,
			Status:          models.PaymentCompleted,
		}, nil

	case models.PaymentCredit:
		paid := decimal.Zero
		if in.PaidAmount != nil {
			paid = *in.PaidAmount
		}
		if paid.GreaterThan(totalAmount) {
			return models.Payment{}, validationErr("paidAmount", "exceeds total amount")
		}
		remaining := totalAmount.Sub(paid)

		p := models.Payment{
			Method:          models.PaymentCredit,
			TotalAmount:     totalAmount,
			PaidAmount:      paid,
			RemainingAmount: remaining,
			Status:          models.PaymentCompleted,
		}
		if remaining.IsPositive() {
			if in.RemainingDueDate == nil {
				return models.Payment{}, validationErr("remainingDueDate", "is required when a balance remains")
			}
			due := *in.RemainingDueDate
			p.RemainingDueDate = &due
			p.Status = models.PaymentPartiallyPaid
		}
		return p, nil

	default:
		return models.Payment{}, ErrInvalidPaymentMethod
	}
}
