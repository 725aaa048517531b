package controllers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"frontdesk-backend/services"
	"frontdesk-backend/utils"

	"github.com/gin-gonic/gin"
)

const dateLayout = "2006-01-02"

// respondServiceError maps the service error taxonomy to HTTP statuses.
// Unexpected errors are logged server-side and reported generically.
func respondServiceError(c *gin.Context, err error) {
	var ve *services.ValidationError
	switch {
	case errors.As(err, &ve):
		utils.JSONErrorCode(c, http.StatusBadRequest, "error.validation", ve.Error())
	case errors.Is(err, services.ErrInvalidPaymentMethod):
		utils.JSONErrorCode(c, http.StatusBadRequest, "error.invalidPaymentMethod", err.Error())
	case errors.Is(err, services.ErrNotFound):
		utils.JSONErrorCode(c, http.StatusNotFound, "error.notFound", err.Error())
	case errors.Is(err, services.ErrRoomUnavailable):
		// Contention, not bad input: the caller may retry with other
		// rooms or dates.
		utils.JSONErrorCode(c, http.StatusConflict, "error.roomUnavailable", err.Error())
	default:
		log.Printf("internal error on %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		utils.JSONErrorCode(c, http.StatusInternalServerError, "error.internal", "internal server error")
	}
}

func parseIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		utils.JSONErrorCode(c, http.StatusBadRequest, "error.invalidId", "id must be a positive integer")
		return 0, false
	}
	return uint(id), true
}

func parseDate(field, value string) (time.Time, error) {
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s must be a date in %s format", field, dateLayout)
	}
	return t, nil
}
