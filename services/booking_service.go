package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"frontdesk-backend/models"
	"frontdesk-backend/utils"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BookingService is the transactional write path for bookings. Every
// mutation commits the booking and its payment as one unit; an error inside
// the transaction rolls back both.
type BookingService struct {
	DB *gorm.DB
}

func NewBookingService(db *gorm.DB) *BookingService {
	return &BookingService{DB: db}
}

// GuestInput carries inline guest profile data for bookings that register a
// walk-in guest in the same transaction.
type GuestInput struct {
	FullName       string `json:"fullName"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	Nationality    string `json:"nationality"`
	IDType         string `json:"idType"`
	IDNumber       string `json:"idNumber"`
	Classification string `json:"classification"`
	VIP            bool   `json:"vip"`
	Notes          string `json:"notes"`
}

type CreateBookingInput struct {
	HotelID    uint `json:"hotelId"`
	RoomTypeID uint `json:"roomId"`

	GuestID   uint        `json:"guestId"`
	GuestData *GuestInput `json:"guestData,omitempty"`

	CheckInDate   time.Time `json:"-"`
	CheckOutDate  time.Time `json:"-"`
	NumberOfRooms int       `json:"numberOfRooms"`

	UseAlternativeRate bool             `json:"useAlternativeRate"`
	AlternativeRate    *decimal.Decimal `json:"alternativeRate,omitempty"`

	Status          string       `json:"status"`
	SpecialRequests []string     `json:"specialRequests,omitempty"`
	Notes           string       `json:"notes"`
	CreatedByID     string       `json:"-"`
	Payment         PaymentInput `json:"paymentData"`
}

// Create admits a booking against shared inventory. The availability check
// runs again inside the transaction, after the room type row is locked, so
// two concurrent creates for the same room type serialize and only one can
// take the last room.
func (s *BookingService) Create(input CreateBookingInput) (*models.Booking, error) {
	checkIn := normalizeDate(input.CheckInDate)
	checkOut := normalizeDate(input.CheckOutDate)

	if input.NumberOfRooms < 1 {
		return nil, validationErr("numberOfRooms", "must be at least 1")
	}
	nights, err := NightsBetween(checkIn, checkOut)
	if err != nil {
		return nil, err
	}

	status := strings.TrimSpace(input.Status)
	if status == "" {
		status = models.BookingPending
	}
	if status != models.BookingPending && status != models.BookingConfirmed {
		return nil, validationErr("status", "must be PENDING or CONFIRMED on create")
	}

	var bookingID uint
	txErr := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&models.Hotel{}, input.HotelID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFoundErr("hotel", input.HotelID)
			}
			return fmt.Errorf("db error loading hotel %d: %w", input.HotelID, err)
		}

		guestID, err := resolveGuest(tx, input.GuestID, input.GuestData)
		if err != nil {
			return err
		}

		// Lock the room type row first: the availability sum and the insert
		// below must not be separated by a window another create can use.
		var rt models.RoomType
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("hotel_id = ?", input.HotelID).
			First(&rt, input.RoomTypeID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFoundErr("room type", input.RoomTypeID)
			}
			return fmt.Errorf("db error loading room type %d: %w", input.RoomTypeID, err)
		}

		if err := ensureCapacity(tx, &rt, checkIn, checkOut, input.NumberOfRooms, 0); err != nil {
			return err
		}

		rate := resolveRequestedRate(&rt, input.UseAlternativeRate, input.AlternativeRate)
		total := ComputeTotal(rate, nights, input.NumberOfRooms)

		payment, err := SplitPayment(input.Payment.Method, total, input.Payment)
		if err != nil {
			return err
		}
		payment.PaymentDate = time.Now().UTC()

		requests, err := marshalRequests(input.SpecialRequests)
		if err != nil {
			return err
		}

		booking := models.Booking{
			HotelID:            input.HotelID,
			RoomTypeID:         rt.ID,
			GuestID:            guestID,
			NumberOfRooms:      input.NumberOfRooms,
			CheckInDate:        checkIn,
			CheckOutDate:       checkOut,
			NumberOfNights:     nights,
			RoomRate:           rate,
			UseAlternativeRate: input.UseAlternativeRate,
			TotalAmount:        total,
			Status:             status,
			SpecialRequests:    requests,
			Notes:              input.Notes,
			CreatedByID:        input.CreatedByID,
		}

		if err := insertWithResID(tx, &booking); err != nil {
			return err
		}

		payment.BookingID = booking.ID
		if err := tx.Create(&payment).Error; err != nil {
			return fmt.Errorf("failed to create payment: %w", err)
		}

		bookingID = booking.ID
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	return s.GetByID(bookingID)
}

type UpdateBookingInput struct {
	CheckInDate   *time.Time `json:"-"`
	CheckOutDate  *time.Time `json:"-"`
	NumberOfRooms *int       `json:"numberOfRooms,omitempty"`

	UseAlternativeRate *bool            `json:"useAlternativeRate,omitempty"`
	AlternativeRate    *decimal.Decimal `json:"alternativeRate,omitempty"`

	SpecialRequests *[]string     `json:"specialRequests,omitempty"`
	Notes           *string       `json:"notes,omitempty"`
	GuestData       *GuestInput   `json:"guestData,omitempty"`
	Payment         *PaymentInput `json:"paymentData,omitempty"`
}

func (in *UpdateBookingInput) touchesInventory() bool {
	return in.CheckInDate != nil || in.CheckOutDate != nil ||
		in.NumberOfRooms != nil || in.UseAlternativeRate != nil
}

// Update rewrites a booking in one transaction. Stay changes recompute
// nights and total from scratch and re-check capacity (excluding this
// booking's own commitment); guest and note edits skip the inventory lock
// entirely.
func (s *BookingService) Update(id uint, input UpdateBookingInput) (*models.Booking, error) {
	txErr := s.DB.Transaction(func(tx *gorm.DB) error {
		var booking models.Booking
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&booking, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFoundErr("booking", id)
			}
			return fmt.Errorf("db error loading booking %d: %w", id, err)
		}

		if input.touchesInventory() {
			if IsTerminalStatus(booking.Status) {
				return validationErr("status", fmt.Sprintf("cannot change stay of a %s booking", booking.Status))
			}
			if err := applyStayChange(tx, &booking, &input); err != nil {
				return err
			}
		}

		if input.SpecialRequests != nil {
			requests, err := marshalRequests(*input.SpecialRequests)
			if err != nil {
				return err
			}
			booking.SpecialRequests = requests
		}
		if input.Notes != nil {
			booking.Notes = *input.Notes
		}
		if input.GuestData != nil {
			if err := updateGuest(tx, booking.GuestID, input.GuestData); err != nil {
				return err
			}
		}

		if err := tx.Save(&booking).Error; err != nil {
			return fmt.Errorf("failed to update booking %d: %w", id, err)
		}

		if input.Payment != nil {
			payment, err := SplitPayment(input.Payment.Method, booking.TotalAmount, *input.Payment)
			if err != nil {
				return err
			}
			payment.BookingID = booking.ID
			payment.PaymentDate = time.Now().UTC()

			// Replace, never append: one active payment row per booking.
			if err := tx.Unscoped().Where("booking_id = ?", booking.ID).Delete(&models.Payment{}).Error; err != nil {
				return fmt.Errorf("failed to replace payment: %w", err)
			}
			if err := tx.Create(&payment).Error; err != nil {
				return fmt.Errorf("failed to create payment: %w", err)
			}
		}

		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	return s.GetByID(id)
}

// applyStayChange recomputes dates, nights, rate and total for an update
// that touches committed inventory. The room type row is locked before the
// capacity re-check, same as on create.
func applyStayChange(tx *gorm.DB, booking *models.Booking, input *UpdateBookingInput) error {
	checkIn := booking.CheckInDate
	checkOut := booking.CheckOutDate
	if input.CheckInDate != nil {
		checkIn = normalizeDate(*input.CheckInDate)
	}
	if input.CheckOutDate != nil {
		checkOut = normalizeDate(*input.CheckOutDate)
	}

	rooms := booking.NumberOfRooms
	if input.NumberOfRooms != nil {
		rooms = *input.NumberOfRooms
	}
	if rooms < 1 {
		return validationErr("numberOfRooms", "must be at least 1")
	}

	nights, err := NightsBetween(checkIn, checkOut)
	if err != nil {
		return err
	}

	useAlt := booking.UseAlternativeRate
	if input.UseAlternativeRate != nil {
		useAlt = *input.UseAlternativeRate
	}

	var rt models.RoomType
	if err := tx.
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&rt, booking.RoomTypeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFoundErr("room type", booking.RoomTypeID)
		}
		return fmt.Errorf("db error loading room type %d: %w", booking.RoomTypeID, err)
	}

	if err := ensureCapacity(tx, &rt, checkIn, checkOut, rooms, booking.ID); err != nil {
		return err
	}

	rate := resolveRequestedRate(&rt, useAlt, input.AlternativeRate)

	booking.CheckInDate = checkIn
	booking.CheckOutDate = checkOut
	booking.NumberOfRooms = rooms
	booking.NumberOfNights = nights
	booking.UseAlternativeRate = useAlt
	booking.RoomRate = rate
	booking.TotalAmount = ComputeTotal(rate, nights, rooms)
	return nil
}

// Confirm moves a pending booking to CONFIRMED.
func (s *BookingService) Confirm(id uint) (*models.Booking, error) {
	return s.transition(id, models.BookingConfirmed, nil)
}

// CheckInBooking stamps the arrival time and the physical room assigned at
// the desk.
func (s *BookingService) CheckInBooking(id uint, assignedRoomNo string) (*models.Booking, error) {
	return s.transition(id, models.BookingCheckedIn, func(b *models.Booking) {
		now := time.Now().UTC()
		b.CheckInTime = &now
		if strings.TrimSpace(assignedRoomNo) != "" {
			b.AssignedRoomNo = strings.TrimSpace(assignedRoomNo)
		}
	})
}

// CheckOutBooking stamps the departure time and closes the stay.
func (s *BookingService) CheckOutBooking(id uint) (*models.Booking, error) {
	return s.transition(id, models.BookingCheckedOut, func(b *models.Booking) {
		now := time.Now().UTC()
		b.CheckOutTime = &now
	})
}

// Cancel releases the booking's inventory by status flip. The payment row
// is retained for history. Cancelling an already-cancelled booking is a
// no-op success.
func (s *BookingService) Cancel(id uint) (*models.Booking, error) {
	txErr := s.DB.Transaction(func(tx *gorm.DB) error {
		var booking models.Booking
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&booking, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFoundErr("booking", id)
			}
			return fmt.Errorf("db error loading booking %d: %w", id, err)
		}

		if booking.Status == models.BookingCancelled {
			return nil
		}
		if !CanTransition(booking.Status, models.BookingCancelled) {
			return validationErr("status", fmt.Sprintf("cannot cancel a %s booking", booking.Status))
		}

		return tx.Model(&booking).Update("status", models.BookingCancelled).Error
	})
	if txErr != nil {
		return nil, txErr
	}

	return s.GetByID(id)
}

// Delete removes the booking and its payments irrevocably, payments first
// because of the foreign key. Administrative cleanup only.
func (s *BookingService) Delete(id uint) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var booking models.Booking
		if err := tx.First(&booking, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFoundErr("booking", id)
			}
			return fmt.Errorf("db error loading booking %d: %w", id, err)
		}

		if err := tx.Unscoped().Where("booking_id = ?", id).Delete(&models.Payment{}).Error; err != nil {
			return fmt.Errorf("failed to delete payments for booking %d: %w", id, err)
		}
		if err := tx.Unscoped().Delete(&models.Booking{}, id).Error; err != nil {
			return fmt.Errorf("failed to delete booking %d: %w", id, err)
		}
		return nil
	})
}

// GetByID loads a booking with its payment and reference rows.
func (s *BookingService) GetByID(id uint) (*models.Booking, error) {
	var booking models.Booking
	if err := s.DB.
		Preload("Hotel").
		Preload("RoomType").
		Preload("Guest").
		Preload("Payment").
		First(&booking, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundErr("booking", id)
		}
		return nil, fmt.Errorf("db error loading booking %d: %w", id, err)
	}
	return &booking, nil
}

// GetByResID looks a booking up by its human-readable reservation code.
func (s *BookingService) GetByResID(resID string) (*models.Booking, error) {
	var booking models.Booking
	if err := s.DB.
		Preload("Hotel").
		Preload("RoomType").
		Preload("Guest").
		Preload("Payment").
		Where("res_id = ?", resID).
		First(&booking).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("booking %s: %w", resID, ErrNotFound)
		}
		return nil, fmt.Errorf("db error loading booking %s: %w", resID, err)
	}
	return &booking, nil
}

// List returns bookings newest first, relations preloaded.
func (s *BookingService) List() ([]models.Booking, error) {
	var list []models.Booking
	if err := s.DB.
		Preload("Hotel").
		Preload("RoomType").
		Preload("Guest").
		Preload("Payment").
		Order("created_at DESC").
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve bookings: %w", err)
	}
	return list, nil
}

func (s *BookingService) transition(id uint, to string, stamp func(*models.Booking)) (*models.Booking, error) {
	txErr := s.DB.Transaction(func(tx *gorm.DB) error {
		var booking models.Booking
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&booking, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFoundErr("booking", id)
			}
			return fmt.Errorf("db error loading booking %d: %w", id, err)
		}

		if !CanTransition(booking.Status, to) {
			return validationErr("status", fmt.Sprintf("cannot transition from %s to %s", booking.Status, to))
		}

		booking.Status = to
		if stamp != nil {
			stamp(&booking)
		}
		return tx.Save(&booking).Error
	})
	if txErr != nil {
		return nil, txErr
	}

	return s.GetByID(id)
}

// ensureCapacity re-runs the availability computation with the caller's tx
// handle; the room type row must already be locked. The sum is a locking
// read: under REPEATABLE READ a plain SELECT would be served from the
// transaction's snapshot and miss bookings committed while we waited on the
// room type lock.
func ensureCapacity(tx *gorm.DB, rt *models.RoomType, checkIn, checkOut time.Time, rooms int, excludeBookingID uint) error {
	if !withinWindow(rt, checkIn, checkOut) {
		return fmt.Errorf("room type %d outside availability period: %w", rt.ID, ErrRoomUnavailable)
	}

	locked := tx.Clauses(clause.Locking{Strength: "UPDATE"})
	booked, err := bookedRooms(locked, rt.ID, checkIn, checkOut, excludeBookingID)
	if err != nil {
		return err
	}
	remaining := rt.Quantity - booked
	if remaining < 0 {
		remaining = 0
	}
	if remaining < rooms {
		return fmt.Errorf("room type %d has %d of %d rooms left: %w", rt.ID, remaining, rooms, ErrRoomUnavailable)
	}
	return nil
}

// resolveRequestedRate applies a caller-supplied alternative rate override
// on top of the stored rates.
func resolveRequestedRate(rt *models.RoomType, useAlternative bool, override *decimal.Decimal) decimal.Decimal {
	if useAlternative && override != nil {
		return *override
	}
	return ResolveRate(rt, useAlternative)
}

func resolveGuest(tx *gorm.DB, guestID uint, data *GuestInput) (uint, error) {
	if guestID != 0 {
		if err := tx.First(&models.Guest{}, guestID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return 0, notFoundErr("guest", guestID)
			}
			return 0, fmt.Errorf("db error loading guest %d: %w", guestID, err)
		}
		return guestID, nil
	}

	if data == nil || strings.TrimSpace(data.FullName) == "" {
		return 0, validationErr("guestData.fullName", "is required when no guestId is given")
	}
	guest := models.Guest{
		FullName:       strings.TrimSpace(data.FullName),
		Email:          strings.TrimSpace(data.Email),
		Phone:          strings.TrimSpace(data.Phone),
		Nationality:    data.Nationality,
		IDType:         data.IDType,
		IDNumber:       data.IDNumber,
		Classification: data.Classification,
		VIP:            data.VIP,
		Notes:          data.Notes,
	}
	if err := tx.Create(&guest).Error; err != nil {
		return 0, fmt.Errorf("failed to create guest: %w", err)
	}
	return guest.ID, nil
}

func updateGuest(tx *gorm.DB, guestID uint, data *GuestInput) error {
	updates := map[string]interface{}{"vip": data.VIP}
	if strings.TrimSpace(data.FullName) != "" {
		updates["full_name"] = strings.TrimSpace(data.FullName)
	}
	if strings.TrimSpace(data.Email) != "" {
		updates["email"] = strings.TrimSpace(data.Email)
	}
	if strings.TrimSpace(data.Phone) != "" {
		updates["phone"] = strings.TrimSpace(data.Phone)
	}
	if data.Nationality != "" {
		updates["nationality"] = data.Nationality
	}
	if data.IDType != "" {
		updates["id_type"] = data.IDType
	}
	if data.IDNumber != "" {
		updates["id_number"] = data.IDNumber
	}
	if data.Classification != "" {
		updates["classification"] = data.Classification
	}
	if data.Notes != "" {
		updates["notes"] = data.Notes
	}
	if err := tx.Model(&models.Guest{}).Where("id = ?", guestID).Updates(updates).Error; err != nil {
		return fmt.Errorf("failed to update guest %d: %w", guestID, err)
	}
	return nil
}

// insertWithResID creates the booking row, regenerating the reservation
// code on unique collisions.
func insertWithResID(tx *gorm.DB, booking *models.Booking) error {
	const maxRetries = 5
	var createErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		code, err := utils.GenerateReservationCode()
		if err != nil {
			return fmt.Errorf("failed to generate reservation code: %w", err)
		}
		booking.ResID = code

		createErr = tx.Create(booking).Error
		if createErr == nil {
			return nil
		}

		lc := strings.ToLower(createErr.Error())
		if strings.Contains(lc, "duplicate") || strings.Contains(lc, "unique") {
			log.Printf("reservation code collision (attempt %d) - retrying", attempt+1)
			booking.ID = 0
			continue
		}
		return fmt.Errorf("failed to create booking: %w", createErr)
	}
	return fmt.Errorf("failed to create booking after retries: %w", createErr)
}

func marshalRequests(requests []string) (datatypes.JSON, error) {
	if len(requests) == 0 {
		return nil, nil
	}
	raw, err := json.Marshal(requests)
	if err != nil {
		return nil, fmt.Errorf("failed to encode special requests: %w", err)
	}
	return datatypes.JSON(raw), nil
}
