package services

import "frontdesk-backend/models"

// Booking lifecycle:
//
//	PENDING -> CONFIRMED -> CHECKED_IN -> CHECKED_OUT
//
// plus cancel from any non-terminal state. CANCELLED and CHECKED_OUT are
// terminal.
var bookingTransitions = map[string][]string{
	models.BookingPending:   {models.BookingConfirmed, models.BookingCancelled},
	models.BookingConfirmed: {models.BookingCheckedIn, models.BookingCancelled},
	models.BookingCheckedIn: {models.BookingCheckedOut, models.BookingCancelled},
}

// CanTransition reports whether a booking may move from one status to
// another.
func CanTransition(from, to string) bool {
	for _, next := range bookingTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsTerminalStatus reports whether no transition leaves the given status.
func IsTerminalStatus(status string) bool {
	return status == models.BookingCancelled || status == models.BookingCheckedOut
}
