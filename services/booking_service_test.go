package services

import (
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	bookingsLockQuery  = "SELECT .* FROM `bookings`.* FOR UPDATE"
	roomTypesLockQuery = "SELECT .* FROM `room_types`.* FOR UPDATE"
	bookedSumLockQuery = bookedSumQuery + ".* FOR UPDATE"
	bookingsQuery      = "SELECT .* FROM `bookings`"
	guestsQuery        = "SELECT .* FROM `guests`"
	paymentsQuery      = "SELECT .* FROM `payments`"
)

func bookingColumns() []string {
	return []string{
		"id", "res_id", "hotel_id", "room_type_id", "guest_id", "number_of_rooms",
		"check_in_date", "check_out_date", "number_of_nights", "status", "room_rate", "total_amount",
	}
}

func bookingRow(id uint, status string) *sqlmock.Rows {
	return sqlmock.NewRows(bookingColumns()).
		AddRow(id, "RES-TESTCODE", 1, 1, 1, 1,
			date(2025, 9, 5), date(2025, 9, 8), 3, status, "100.00", "300.00")
}

func guestRow() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "full_name"}).AddRow(1, "Alice Example")
}

// expectBookingReload registers the read-back that follows every committed
// mutation: the booking row plus its preloaded relations.
func expectBookingReload(mock sqlmock.Sqlmock, status string) {
	mock.ExpectQuery(bookingsQuery).WillReturnRows(bookingRow(1, status))
	mock.ExpectQuery(guestsQuery).WillReturnRows(guestRow())
	mock.ExpectQuery(hotelQuery).WillReturnRows(hotelRow())
	mock.ExpectQuery(paymentsQuery).WillReturnRows(sqlmock.NewRows([]string{"id", "booking_id"}).AddRow(1, 1))
	mock.ExpectQuery(roomTypesQuery).WillReturnRows(sqlmock.NewRows(roomTypeColumns()).
		AddRow(1, 1, "Standard", 5, "100.00", nil, nil))
}

func validCreateInput() CreateBookingInput {
	return CreateBookingInput{
		HotelID:       1,
		RoomTypeID:    1,
		GuestID:       1,
		CheckInDate:   date(2025, 9, 5),
		CheckOutDate:  date(2025, 9, 8),
		NumberOfRooms: 1,
		Payment:       PaymentInput{Method: "CASH"},
	}
}

func TestCreateBookingValidatesBeforeTouchingDB(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewBookingService(db)

	var ve *ValidationError

	input := validCreateInput()
	input.NumberOfRooms = 0
	_, err := svc.Create(input)
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "numberOfRooms", ve.Field)

	input = validCreateInput()
	input.CheckOutDate = input.CheckInDate
	_, err = svc.Create(input)
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "checkOutDate", ve.Field)

	input = validCreateInput()
	input.Status = "CHECKED_IN"
	_, err = svc.Create(input)
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "status", ve.Field)

	require.NoError(t, mock.ExpectationsWereMet())
}

// The capacity re-check runs against a locked room type row; losing it
// rolls the whole transaction back with the contention error, not a
// validation error.
func TestCreateBookingContentionReturnsRoomUnavailable(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewBookingService(db)

	mock.ExpectBegin()
	mock.ExpectQuery(hotelQuery).WillReturnRows(hotelRow())
	mock.ExpectQuery(guestsQuery).WillReturnRows(guestRow())
	mock.ExpectQuery(roomTypesLockQuery).WillReturnRows(sqlmock.NewRows(roomTypeColumns()).
		AddRow(1, 1, "Standard", 5, "100.00", nil, nil))
	mock.ExpectQuery(bookedSumLockQuery).WillReturnRows(sumRows(5))
	mock.ExpectRollback()

	_, err := svc.Create(validCreateInput())
	require.ErrorIs(t, err, ErrRoomUnavailable)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBookingOutsideWindowReturnsRoomUnavailable(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewBookingService(db)

	from := date(2025, 6, 1)
	to := date(2025, 9, 6) // closes before the stay ends

	mock.ExpectBegin()
	mock.ExpectQuery(hotelQuery).WillReturnRows(hotelRow())
	mock.ExpectQuery(guestsQuery).WillReturnRows(guestRow())
	mock.ExpectQuery(roomTypesLockQuery).WillReturnRows(sqlmock.NewRows(roomTypeColumns()).
		AddRow(1, 1, "Seasonal", 5, "100.00", from, to))
	mock.ExpectRollback()

	_, err := svc.Create(validCreateInput())
	require.ErrorIs(t, err, ErrRoomUnavailable)
	require.NoError(t, mock.ExpectationsWereMet())
}

// A bad payment method surfaces after the capacity check but before any
// insert, so nothing is written.
func TestCreateBookingRollsBackOnInvalidPaymentMethod(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewBookingService(db)

	mock.ExpectBegin()
	mock.ExpectQuery(hotelQuery).WillReturnRows(hotelRow())
	mock.ExpectQuery(guestsQuery).WillReturnRows(guestRow())
	mock.ExpectQuery(roomTypesLockQuery).WillReturnRows(sqlmock.NewRows(roomTypeColumns()).
		AddRow(1, 1, "Standard", 5, "100.00", nil, nil))
	mock.ExpectQuery(bookedSumLockQuery).WillReturnRows(sumRows(0))
	mock.ExpectRollback()

	input := validCreateInput()
	input.Payment.Method = "VOUCHER"
	_, err := svc.Create(input)
	require.ErrorIs(t, err, ErrInvalidPaymentMethod)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBookingCommitsBookingAndPayment(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewBookingService(db)
	mock.MatchExpectationsInOrder(false)

	mock.ExpectBegin()
	mock.ExpectQuery(hotelQuery).WillReturnRows(hotelRow())
	mock.ExpectQuery(guestsQuery).WillReturnRows(guestRow())
	mock.ExpectQuery(roomTypesLockQuery).WillReturnRows(sqlmock.NewRows(roomTypeColumns()).
		AddRow(1, 1, "Standard", 5, "100.00", nil, nil))
	mock.ExpectQuery(bookedSumLockQuery).WillReturnRows(sumRows(2))
	mock.ExpectExec("INSERT INTO `bookings`").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO `payments`").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()
	expectBookingReload(mock, "PENDING")

	booking, err := svc.Create(validCreateInput())
	require.NoError(t, err)
	assert.Equal(t, uint(1), booking.ID)
	assert.Equal(t, "PENDING", booking.Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

// A reservation code collision regenerates the code and retries the insert
// inside the same transaction.
func TestCreateBookingRetriesOnResIDCollision(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewBookingService(db)
	mock.MatchExpectationsInOrder(false)

	mock.ExpectBegin()
	mock.ExpectQuery(hotelQuery).WillReturnRows(hotelRow())
	mock.ExpectQuery(guestsQuery).WillReturnRows(guestRow())
	mock.ExpectQuery(roomTypesLockQuery).WillReturnRows(sqlmock.NewRows(roomTypeColumns()).
		AddRow(1, 1, "Standard", 5, "100.00", nil, nil))
	mock.ExpectQuery(bookedSumLockQuery).WillReturnRows(sumRows(0))
	mock.ExpectExec("INSERT INTO `bookings`").
		WillReturnError(errors.New("Error 1062: Duplicate entry 'RES-XXXXXXXX' for key 'res_id'"))
	mock.ExpectExec("INSERT INTO `bookings`").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO `payments`").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()
	expectBookingReload(mock, "PENDING")

	_, err := svc.Create(validCreateInput())
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

// Edits that do not touch committed inventory never lock or even read the
// room type row.
func TestUpdateNotesSkipsInventoryCheck(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewBookingService(db)
	mock.MatchExpectationsInOrder(false)

	mock.ExpectBegin()
	mock.ExpectQuery(bookingsLockQuery).WillReturnRows(bookingRow(1, "CONFIRMED"))
	mock.ExpectExec("UPDATE `bookings` SET").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	expectBookingReload(mock, "CONFIRMED")

	notes := "late arrival"
	booking, err := svc.Update(1, UpdateBookingInput{Notes: &notes})
	require.NoError(t, err)
	assert.Equal(t, "CONFIRMED", booking.Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

// A stay change locks the room type row and re-checks capacity with the
// booking's own rooms carved out of the sum; the WithArgs pins the
// self-exclusion argument.
func TestUpdateStayChangeExcludesOwnBooking(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewBookingService(db)
	mock.MatchExpectationsInOrder(false)

	checkIn := date(2025, 9, 5)
	checkOut := date(2025, 9, 8)

	mock.ExpectBegin()
	mock.ExpectQuery(bookingsLockQuery).WillReturnRows(bookingRow(1, "CONFIRMED"))
	mock.ExpectQuery(roomTypesLockQuery).WillReturnRows(sqlmock.NewRows(roomTypeColumns()).
		AddRow(1, 1, "Standard", 5, "100.00", nil, nil))
	mock.ExpectQuery(bookedSumLockQuery).
		WithArgs(1, "CANCELLED", checkOut, checkIn, 1).
		WillReturnRows(sumRows(3))
	mock.ExpectExec("UPDATE `bookings` SET").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	expectBookingReload(mock, "CONFIRMED")

	rooms := 2
	_, err := svc.Update(1, UpdateBookingInput{NumberOfRooms: &rooms})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStayChangeLosesCapacity(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewBookingService(db)

	mock.ExpectBegin()
	mock.ExpectQuery(bookingsLockQuery).WillReturnRows(bookingRow(1, "CONFIRMED"))
	mock.ExpectQuery(roomTypesLockQuery).WillReturnRows(sqlmock.NewRows(roomTypeColumns()).
		AddRow(1, 1, "Standard", 5, "100.00", nil, nil))
	mock.ExpectQuery(bookedSumLockQuery).WillReturnRows(sumRows(4))
	mock.ExpectRollback()

	rooms := 3
	_, err := svc.Update(1, UpdateBookingInput{NumberOfRooms: &rooms})
	require.ErrorIs(t, err, ErrRoomUnavailable)
	require.NoError(t, mock.ExpectationsWereMet())
}

// Supplying paymentData on update replaces the payment row: the old row is
// deleted before the new one is inserted, inside the same transaction. The
// ordered expectations pin that sequence.
func TestUpdateReplacesPaymentRow(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewBookingService(db)

	mock.ExpectBegin()
	mock.ExpectQuery(bookingsLockQuery).WillReturnRows(bookingRow(1, "CONFIRMED"))
	mock.ExpectExec("UPDATE `bookings` SET").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM `payments`").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO `payments`").WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()
	expectBookingReload(mock, "CONFIRMED")

	payment := PaymentInput{Method: "CASH"}
	_, err := svc.Update(1, UpdateBookingInput{Payment: &payment})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateRejectsStayChangeOnTerminalBooking(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewBookingService(db)

	mock.ExpectBegin()
	mock.ExpectQuery(bookingsLockQuery).WillReturnRows(bookingRow(1, "CHECKED_OUT"))
	mock.ExpectRollback()

	rooms := 2
	_, err := svc.Update(1, UpdateBookingInput{NumberOfRooms: &rooms})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "status", ve.Field)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestConfirmRejectsCancelledBooking(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewBookingService(db)

	mock.ExpectBegin()
	mock.ExpectQuery(bookingsLockQuery).WillReturnRows(bookingRow(1, "CANCELLED"))
	mock.ExpectRollback()

	_, err := svc.Confirm(1)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	require.NoError(t, mock.ExpectationsWereMet())
}

// Cancelling an already-cancelled booking commits without issuing an
// UPDATE; any unexpected statement would fail the mock.
func TestCancelIsIdempotent(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewBookingService(db)
	mock.MatchExpectationsInOrder(false)

	mock.ExpectBegin()
	mock.ExpectQuery(bookingsLockQuery).WillReturnRows(bookingRow(1, "CANCELLED"))
	mock.ExpectCommit()
	expectBookingReload(mock, "CANCELLED")

	booking, err := svc.Cancel(1)
	require.NoError(t, err)
	assert.Equal(t, "CANCELLED", booking.Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCancelFlipsStatus(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewBookingService(db)
	mock.MatchExpectationsInOrder(false)

	mock.ExpectBegin()
	mock.ExpectQuery(bookingsLockQuery).WillReturnRows(bookingRow(1, "CONFIRMED"))
	mock.ExpectExec("UPDATE `bookings` SET").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	expectBookingReload(mock, "CANCELLED")

	booking, err := svc.Cancel(1)
	require.NoError(t, err)
	assert.Equal(t, "CANCELLED", booking.Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCancelRejectsCheckedOut(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewBookingService(db)

	mock.ExpectBegin()
	mock.ExpectQuery(bookingsLockQuery).WillReturnRows(bookingRow(1, "CHECKED_OUT"))
	mock.ExpectRollback()

	_, err := svc.Cancel(1)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	require.NoError(t, mock.ExpectationsWereMet())
}

// Hard delete removes payment rows before the booking row; the ordered
// expectations pin that sequence.
func TestDeleteRemovesPaymentsBeforeBooking(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewBookingService(db)

	mock.ExpectBegin()
	mock.ExpectQuery(bookingsQuery).WillReturnRows(bookingRow(1, "CANCELLED"))
	mock.ExpectExec("DELETE FROM `payments`").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM `bookings`").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, svc.Delete(1))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewBookingService(db)

	mock.ExpectBegin()
	mock.ExpectQuery(bookingsQuery).WillReturnRows(sqlmock.NewRows(bookingColumns()))
	mock.ExpectRollback()

	err := svc.Delete(99)
	require.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}
