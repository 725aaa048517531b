package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// StaffIDKey is the context key holding the opaque id of the authenticated
// front-desk user. Authentication happens upstream; this service only
// records the id for booking attribution.
const StaffIDKey = "staffId"

// StaffAttribution copies the caller identity header into the request
// context. A missing header is allowed; attribution is best effort.
func StaffAttribution() gin.HandlerFunc {
	return func(c *gin.Context) {
		if id := strings.TrimSpace(c.GetHeader("X-Staff-ID")); id != "" {
			c.Set(StaffIDKey, id)
		}
		c.Next()
	}
}

// StaffID returns the attributed caller id, empty when unauthenticated.
func StaffID(c *gin.Context) string {
	if v, ok := c.Get(StaffIDKey); ok {
		if s, ok2 := v.(string); ok2 {
			return s
		}
	}
	return ""
}
