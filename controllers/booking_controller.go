package controllers

import (
	"net/http"

	"frontdesk-backend/middleware"
	"frontdesk-backend/services"
	"frontdesk-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// ---------------------------
// Payload / DTOs
// ---------------------------

type PaymentPayload struct {
	Method           string           `json:"method" binding:"required"`
	Amount           *decimal.Decimal `json:"amount,omitempty"`
	PaidAmount       *decimal.Decimal `json:"paidAmount,omitempty"`
	RemainingDueDate string           `json:"remainingDueDate,omitempty"`
}

func (p *PaymentPayload) toInput() (services.PaymentInput, error) {
	in := services.PaymentInput{
		Method:     p.Method,
		Amount:     p.Amount,
		PaidAmount: p.PaidAmount,
	}
	if p.RemainingDueDate != "" {
		due, err := parseDate("remainingDueDate", p.RemainingDueDate)
		if err != nil {
			return in, err
		}
		in.RemainingDueDate = &due
	}
	return in, nil
}

type CreateBookingPayload struct {
	HotelID uint `json:"hotelId" binding:"required"`
	RoomID  uint `json:"roomId" binding:"required"`

	GuestID   uint                 `json:"guestId"`
	GuestData *services.GuestInput `json:"guestData,omitempty"`

	CheckInDate   string `json:"checkInDate" binding:"required"`
	CheckOutDate  string `json:"checkOutDate" binding:"required"`
	NumberOfRooms int    `json:"numberOfRooms" binding:"required"`

	UseAlternativeRate bool             `json:"useAlternativeRate"`
	AlternativeRate    *decimal.Decimal `json:"alternativeRate,omitempty"`

	Status          string         `json:"status"`
	SpecialRequests []string       `json:"specialRequests,omitempty"`
	Notes           string         `json:"notes"`
	PaymentData     PaymentPayload `json:"paymentData" binding:"required"`
}

type UpdateBookingPayload struct {
	CheckInDate   *string `json:"checkInDate,omitempty"`
	CheckOutDate  *string `json:"checkOutDate,omitempty"`
	NumberOfRooms *int    `json:"numberOfRooms,omitempty"`

	UseAlternativeRate *bool            `json:"useAlternativeRate,omitempty"`
	AlternativeRate    *decimal.Decimal `json:"alternativeRate,omitempty"`

	SpecialRequests *[]string            `json:"specialRequests,omitempty"`
	Notes           *string              `json:"notes,omitempty"`
	GuestData       *services.GuestInput `json:"guestData,omitempty"`
	PaymentData     *PaymentPayload      `json:"paymentData,omitempty"`
}

type CheckInPayload struct {
	AssignedRoomNo string `json:"assignedRoomNo"`
}

// ---------------------------
// Controller
// ---------------------------

type BookingController struct {
	BookingSvc *services.BookingService
}

func NewBookingController(svc *services.BookingService) *BookingController {
	return &BookingController{BookingSvc: svc}
}

// CreateBooking handles POST /api/bookings.
func (ctrl *BookingController) CreateBooking(c *gin.Context) {
	var payload CreateBookingPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONErrorCode(c, http.StatusBadRequest, "error.invalidPayload", err.Error())
		return
	}

	checkIn, err := parseDate("checkInDate", payload.CheckInDate)
	if err != nil {
		utils.JSONErrorCode(c, http.StatusBadRequest, "error.validation", err.Error())
		return
	}
	checkOut, err := parseDate("checkOutDate", payload.CheckOutDate)
	if err != nil {
		utils.JSONErrorCode(c, http.StatusBadRequest, "error.validation", err.Error())
		return
	}
	paymentInput, err := payload.PaymentData.toInput()
	if err != nil {
		utils.JSONErrorCode(c, http.StatusBadRequest, "error.validation", err.Error())
		return
	}

	booking, err := ctrl.BookingSvc.Create(services.CreateBookingInput{
		HotelID:            payload.HotelID,
		RoomTypeID:         payload.RoomID,
		GuestID:            payload.GuestID,
		GuestData:          payload.GuestData,
		CheckInDate:        checkIn,
		CheckOutDate:       checkOut,
		NumberOfRooms:      payload.NumberOfRooms,
		UseAlternativeRate: payload.UseAlternativeRate,
		AlternativeRate:    payload.AlternativeRate,
		Status:             payload.Status,
		SpecialRequests:    payload.SpecialRequests,
		Notes:              payload.Notes,
		CreatedByID:        middleware.StaffID(c),
		Payment:            paymentInput,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.JSONSuccess(c, http.StatusCreated, booking)
}

// GetBookings handles GET /api/bookings with optional ?resId= lookup.
func (ctrl *BookingController) GetBookings(c *gin.Context) {
	if resID := c.Query("resId"); resID != "" {
		booking, err := ctrl.BookingSvc.GetByResID(resID)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		utils.JSONSuccess(c, http.StatusOK, booking)
		return
	}

	list, err := ctrl.BookingSvc.List()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, list)
}

// GetBookingByID handles GET /api/bookings/:id.
func (ctrl *BookingController) GetBookingByID(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	booking, err := ctrl.BookingSvc.GetByID(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, booking)
}

// UpdateBooking handles PATCH /api/bookings/:id.
func (ctrl *BookingController) UpdateBooking(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var payload UpdateBookingPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONErrorCode(c, http.StatusBadRequest, "error.invalidPayload", err.Error())
		return
	}

	input := services.UpdateBookingInput{
		NumberOfRooms:      payload.NumberOfRooms,
		UseAlternativeRate: payload.UseAlternativeRate,
		AlternativeRate:    payload.AlternativeRate,
		SpecialRequests:    payload.SpecialRequests,
		Notes:              payload.Notes,
		GuestData:          payload.GuestData,
	}

	if payload.CheckInDate != nil {
		checkIn, err := parseDate("checkInDate", *payload.CheckInDate)
		if err != nil {
			utils.JSONErrorCode(c, http.StatusBadRequest, "error.validation", err.Error())
			return
		}
		input.CheckInDate = &checkIn
	}
	if payload.CheckOutDate != nil {
		checkOut, err := parseDate("checkOutDate", *payload.CheckOutDate)
		if err != nil {
			utils.JSONErrorCode(c, http.StatusBadRequest, "error.validation", err.Error())
			return
		}
		input.CheckOutDate = &checkOut
	}
	if payload.PaymentData != nil {
		paymentInput, err := payload.PaymentData.toInput()
		if err != nil {
			utils.JSONErrorCode(c, http.StatusBadRequest, "error.validation", err.Error())
			return
		}
		input.Payment = &paymentInput
	}

	booking, err := ctrl.BookingSvc.Update(id, input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, booking)
}

// ConfirmBooking handles POST /api/bookings/:id/confirm.
func (ctrl *BookingController) ConfirmBooking(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	booking, err := ctrl.BookingSvc.Confirm(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, booking)
}

// CheckInBooking handles POST /api/bookings/:id/checkin.
func (ctrl *BookingController) CheckInBooking(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var payload CheckInPayload
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&payload); err != nil {
			utils.JSONErrorCode(c, http.StatusBadRequest, "error.invalidPayload", err.Error())
			return
		}
	}

	booking, err := ctrl.BookingSvc.CheckInBooking(id, payload.AssignedRoomNo)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, booking)
}

// CheckOutBooking handles POST /api/bookings/:id/checkout.
func (ctrl *BookingController) CheckOutBooking(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	booking, err := ctrl.BookingSvc.CheckOutBooking(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, booking)
}

// CancelBooking handles POST /api/bookings/:id/cancel. Idempotent.
func (ctrl *BookingController) CancelBooking(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	booking, err := ctrl.BookingSvc.Cancel(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, booking)
}

// DeleteBooking handles DELETE /api/bookings/:id, the irreversible
// administrative cleanup path (not guest-facing cancellation).
func (ctrl *BookingController) DeleteBooking(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	if err := ctrl.BookingSvc.Delete(id); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"deleted": id})
}
