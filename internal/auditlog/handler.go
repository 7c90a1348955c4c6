package auditlog

import (
	"net/http"
	"strconv"

	"github.com/discoveryevent/ticketing-backend/internal/apperr"
	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// GetAuditLogs handles GET /audit-logs
// @Summary List audit logs
// @Description Newest first, optionally filtered by organizer, event or action
// @Tags AuditLog
// @Produce json
// @Param organizer_id query int false "Filter by organizer ID"
// @Param event_id query int false "Filter by event ID"
// @Param action query string false "Exact action, e.g. TICKET_PURCHASED"
// @Param limit query int false "Max rows (default 50, max 200)"
// @Success 200 {array} AuditLogResponse
// @Failure 400 {object} map[string]string
// @Router /audit-logs [get]
func (h *Handler) GetAuditLogs(c *gin.Context) {
	filter := AuditLogFilter{Action: c.Query("action")}

	for key, dst := range map[string]**uint{"organizer_id": &filter.OrganizerID, "event_id": &filter.EventID} {
		raw := c.Query(key)
		if raw == "" {
			continue
		}
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid " + key})
			return
		}
		v := uint(id)
		*dst = &v
	}

	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid limit"})
			return
		}
		filter.Limit = limit
	}

	logs, err := h.service.GetAuditLogs(c.Request.Context(), filter)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, logs)
}
