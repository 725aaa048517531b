package controllers

import (
	"net/http"
	"strconv"

	"frontdesk-backend/services"
	"frontdesk-backend/utils"

	"github.com/gin-gonic/gin"
)

type AvailabilityController struct {
	AvailabilitySvc *services.AvailabilityService
}

func NewAvailabilityController(svc *services.AvailabilityService) *AvailabilityController {
	return &AvailabilityController{AvailabilitySvc: svc}
}

// GetAvailability handles
// GET /api/availability?hotelId=&checkIn=&checkOut=&rooms=&availableOnly=
// The availableOnly flag filters the result; it never changes the
// computation.
func (ctrl *AvailabilityController) GetAvailability(c *gin.Context) {
	hotelID, err := strconv.ParseUint(c.Query("hotelId"), 10, 32)
	if err != nil || hotelID == 0 {
		utils.JSONErrorCode(c, http.StatusBadRequest, "error.validation", "hotelId must be a positive integer")
		return
	}

	checkIn, err := parseDate("checkIn", c.Query("checkIn"))
	if err != nil {
		utils.JSONErrorCode(c, http.StatusBadRequest, "error.validation", err.Error())
		return
	}
	checkOut, err := parseDate("checkOut", c.Query("checkOut"))
	if err != nil {
		utils.JSONErrorCode(c, http.StatusBadRequest, "error.validation", err.Error())
		return
	}

	rooms := 1
	if raw := c.Query("rooms"); raw != "" {
		rooms, err = strconv.Atoi(raw)
		if err != nil {
			utils.JSONErrorCode(c, http.StatusBadRequest, "error.validation", "rooms must be an integer")
			return
		}
	}

	results, err := ctrl.AvailabilitySvc.CheckAvailability(uint(hotelID), checkIn, checkOut, rooms)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	if c.Query("availableOnly") == "true" {
		filtered := results[:0]
		for _, entry := range results {
			if entry.IsAvailable {
				filtered = append(filtered, entry)
			}
		}
		results = filtered
	}

	utils.JSONSuccess(c, http.StatusOK, results)
}
