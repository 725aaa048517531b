package services

import (
	"errors"
	"fmt"
	"time"

	"frontdesk-backend/models"

	"gorm.io/gorm"
)

// RoomAvailability is the admission verdict for one room type over a
// requested stay.
type RoomAvailability struct {
	RoomType                   models.RoomType `json:"room"`
	TotalAvailable             int             `json:"totalAvailable"`
	IsAvailable                bool            `json:"isAvailable"`
	IsWithinAvailabilityPeriod bool            `json:"isWithinAvailabilityPeriod"`
}

type AvailabilityService struct {
	DB *gorm.DB
}

func NewAvailabilityService(db *gorm.DB) *AvailabilityService {
	return &AvailabilityService{DB: db}
}

// CheckAvailability returns one entry per room type of the hotel. It is a
// point-in-time snapshot, not a reservation: the booking write path re-runs
// the same computation under a row lock before committing.
func (s *AvailabilityService) CheckAvailability(hotelID uint, checkIn, checkOut time.Time, requestedRooms int) ([]RoomAvailability, error) {
	checkIn = normalizeDate(checkIn)
	checkOut = normalizeDate(checkOut)

	if !checkOut.After(checkIn) {
		return nil, validationErr("checkOutDate", "must be after checkInDate")
	}
	if requestedRooms <= 0 {
		return nil, validationErr("numberOfRooms", "must be at least 1")
	}

	var hotel models.Hotel
	if err := s.DB.First(&hotel, hotelID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundErr("hotel", hotelID)
		}
		return nil, fmt.Errorf("db error loading hotel %d: %w", hotelID, err)
	}

	var roomTypes []models.RoomType
	if err := s.DB.Where("hotel_id = ?", hotelID).Order("id").Find(&roomTypes).Error; err != nil {
		return nil, fmt.Errorf("db error loading room types: %w", err)
	}

	results := make([]RoomAvailability, 0, len(roomTypes))
	for i := range roomTypes {
		entry, err := availabilityFor(s.DB, &roomTypes[i], checkIn, checkOut, requestedRooms)
		if err != nil {
			return nil, err
		}
		results = append(results, entry)
	}
	return results, nil
}

// availabilityFor evaluates a single room type against a stay. It takes the
// db handle explicitly so the booking transaction can re-check with its own
// tx after locking the room type row.
func availabilityFor(db *gorm.DB, rt *models.RoomType, checkIn, checkOut time.Time, requestedRooms int) (RoomAvailability, error) {
	entry := RoomAvailability{
		RoomType:                   *rt,
		IsWithinAvailabilityPeriod: withinWindow(rt, checkIn, checkOut),
	}

	booked, err := bookedRooms(db, rt.ID, checkIn, checkOut, 0)
	if err != nil {
		return entry, err
	}

	available := rt.Quantity - booked
	if available < 0 {
		available = 0
	}
	entry.TotalAvailable = available
	entry.IsAvailable = entry.IsWithinAvailabilityPeriod && available >= requestedRooms
	return entry, nil
}

// withinWindow reports whether [checkIn, checkOut) lies fully inside the
// room type's validity window, when one is declared.
func withinWindow(rt *models.RoomType, checkIn, checkOut time.Time) bool {
	if !rt.HasWindow() {
		return true
	}
	return !checkIn.Before(*rt.AvailableFrom) && !checkOut.After(*rt.AvailableTo)
}

// bookedRooms sums the committed inventory of a room type over every
// non-cancelled booking whose stay overlaps [checkIn, checkOut), half-open
// on both sides. excludeBookingID carves a booking's own commitment out of
// the sum so updates do not count against themselves; zero excludes nothing.
// Any locking clause on the db handle carries into the query: the snapshot
// path passes a plain handle, the booking write path a locking one.
func bookedRooms(db *gorm.DB, roomTypeID uint, checkIn, checkOut time.Time, excludeBookingID uint) (int, error) {
	q := db.Model(&models.Booking{}).
		Where("room_type_id = ? AND status <> ?", roomTypeID, models.BookingCancelled).
		Where("check_in_date < ? AND check_out_date > ?", checkOut, checkIn)
	if excludeBookingID != 0 {
		q = q.Where("id <> ?", excludeBookingID)
	}

	var total int64
	if err := q.Select("COALESCE(SUM(number_of_rooms), 0)").Scan(&total).Error; err != nil {
		return 0, fmt.Errorf("db error summing booked rooms: %w", err)
	}
	return int(total), nil
}
