package services

import (
	"math"
	"time"

	"frontdesk-backend/models"

	"github.com/shopspring/decimal"
)

// ResolveRate picks the nightly rate actually charged: the alternative price
// when requested and defined, otherwise the base price.
func ResolveRate(rt *models.RoomType, useAlternative bool) decimal.Decimal {
	if useAlternative && rt.AlternativePrice != nil {
		return *rt.AlternativePrice
	}
	return rt.BasePrice
}

// NightsBetween computes the billable night count as the ceiling of the day
// difference. A same-day or reversed range is an error, never clamped to 1.
func NightsBetween(checkIn, checkOut time.Time) (int, error) {
	nights := int(math.Ceil(checkOut.Sub(checkIn).Hours() / 24))
	if nights <= 0 {
		return 0, validationErr("checkOutDate", "must be after checkInDate")
	}
	return nights, nil
}

// ComputeTotal is rate × nights × rooms, exact decimal arithmetic.
func ComputeTotal(nightlyRate decimal.Decimal, nights, rooms int) decimal.Decimal {
	return nightlyRate.
		Mul(decimal.NewFromInt(int64(nights))).
		Mul(decimal.NewFromInt(int64(rooms)))
}

// normalizeDate truncates a timestamp to its calendar date in UTC; the time
// of day never participates in nights computation.
func normalizeDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
