package middleware

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	OrganizerHeader    = "X-Organizer-ID"
	actingOrganizerKey = "acting_organizer_id"
)

// ActingOrganizer reads the organizer performing the request from the
// X-Organizer-ID header. A malformed header is rejected; a missing one is
// rejected only when required is true.
func ActingOrganizer(required bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader(OrganizerHeader)
		if raw == "" {
			if required {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Missing " + OrganizerHeader + " header"})
				return
			}
			c.Next()
			return
		}

		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil || id == 0 {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "Invalid " + OrganizerHeader + " header"})
			return
		}

		c.Set(actingOrganizerKey, uint(id))
		c.Next()
	}
}

// ActingOrganizerID returns the organizer set by ActingOrganizer, if any.
func ActingOrganizerID(c *gin.Context) (uint, bool) {
	v, ok := c.Get(actingOrganizerKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}

// ActingOrganizerPtr is ActingOrganizerID as a nullable value for service inputs.
func ActingOrganizerPtr(c *gin.Context) *uint {
	if id, ok := ActingOrganizerID(c); ok {
		return &id
	}
	return nil
}
