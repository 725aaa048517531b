package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Booking statuses. CancelledStatus and CheckedOutStatus are terminal.
const (
	BookingPending    = "PENDING"
	BookingConfirmed  = "CONFIRMED"
	BookingCheckedIn  = "CHECKED_IN"
	BookingCheckedOut = "CHECKED_OUT"
	BookingCancelled  = "CANCELLED"
)

// Booking commits NumberOfRooms units of its RoomType for every night in
// [CheckInDate, CheckOutDate) unless its status is CANCELLED.
type Booking struct {
	ID    uint   `gorm:"primaryKey" json:"id"`
	ResID string `gorm:"column:res_id;uniqueIndex;size:32" json:"resId"`

	HotelID    uint `gorm:"index;column:hotel_id" json:"hotelId"`
	RoomTypeID uint `gorm:"index;column:room_type_id" json:"roomId"`
	GuestID    uint `gorm:"index;column:guest_id" json:"guestId"`

	NumberOfRooms  int       `gorm:"column:number_of_rooms" json:"numberOfRooms"`
	CheckInDate    time.Time `gorm:"column:check_in_date" json:"checkInDate"`
	CheckOutDate   time.Time `gorm:"column:check_out_date" json:"checkOutDate"`
	NumberOfNights int       `gorm:"column:number_of_nights" json:"numberOfNights"`

	RoomRate           decimal.Decimal `gorm:"type:decimal(10,2)" json:"roomRate"`
	UseAlternativeRate bool            `gorm:"default:false" json:"useAlternativeRate"`
	TotalAmount        decimal.Decimal `gorm:"type:decimal(12,2)" json:"totalAmount"`

	Status string `gorm:"size:32;index" json:"status"`

	AssignedRoomNo  string         `gorm:"size:50" json:"assignedRoomNo,omitempty"`
	CheckInTime     *time.Time     `gorm:"column:check_in_time" json:"checkInTime,omitempty"`
	CheckOutTime    *time.Time     `gorm:"column:check_out_time" json:"checkOutTime,omitempty"`
	SpecialRequests datatypes.JSON `gorm:"column:special_requests" json:"specialRequests,omitempty"`
	Notes           string         `gorm:"type:text" json:"notes"`

	CreatedByID string `gorm:"size:64;column:created_by_id" json:"createdById,omitempty"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Hotel    Hotel    `gorm:"foreignKey:HotelID;references:ID" json:"hotel,omitempty"`
	RoomType RoomType `gorm:"foreignKey:RoomTypeID;references:ID" json:"roomType,omitempty"`
	Guest    Guest    `gorm:"foreignKey:GuestID;references:ID" json:"guest,omitempty"`
	Payment  *Payment `gorm:"foreignKey:BookingID" json:"payment,omitempty"`
}
