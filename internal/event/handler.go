package event

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/discoveryevent/ticketing-backend/internal/apperr"
	"github.com/discoveryevent/ticketing-backend/middleware"
	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(s Service) *Handler {
	return &Handler{service: s}
}

// CreateEventRequest documents the POST body. Price may be a number or a numeric string.
type CreateEventRequest struct {
	OrganizerID *uint   `json:"organizer_id" example:"1"`
	Name        *string `json:"name" example:"Jazz Night"`
	Description *string `json:"description"`
	Date        *string `json:"date" example:"2026-11-20"`
	Time        *string `json:"time" example:"19:30:00"`
	Location    *string `json:"location" example:"Blue Hall"`
	Price       any     `json:"price" swaggertype:"number" example:"25.5"`
	Capacity    *int    `json:"capacity" example:"200"`
}

// UpdateEventRequest documents the PUT body; every field is optional.
type UpdateEventRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Date        *string `json:"date"`
	Time        *string `json:"time"`
	Location    *string `json:"location"`
	Price       any     `json:"price" swaggertype:"number"`
	Capacity    *int    `json:"capacity"`
}

// ===========================
// 🎯 Create Event - POST /events

// CreateEvent godoc
// @Summary Create an event
// @Tags Events
// @Accept json
// @Produce json
// @Param X-Organizer-ID header int false "Acting organizer"
// @Param body body CreateEventRequest true "Event"
// @Success 201 {object} Response
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Router /events [post]
func (h *Handler) CreateEvent(c *gin.Context) {
	var req CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperr.Respond(c, apperr.Wrap(apperr.KindValidation, "Invalid JSON body", err))
		return
	}

	resp, err := h.service.Create(c.Request.Context(), CreateInput{
		OrganizerID:       req.OrganizerID,
		Name:              req.Name,
		Description:       req.Description,
		Date:              req.Date,
		Time:              req.Time,
		Location:          req.Location,
		Price:             req.Price,
		Capacity:          req.Capacity,
		ActingOrganizerID: middleware.ActingOrganizerPtr(c),
		IP:                middleware.GetIPFromContext(c),
	})
	if err != nil {
		apperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// ===========================
// 📄 List Events - GET /events

// ListEvents godoc
// @Summary List events ordered by date and time
// @Tags Events
// @Produce json
// @Param location query string false "Location contains (case-insensitive)"
// @Param from query string false "On or after date (YYYY-MM-DD)"
// @Param to query string false "On or before date (YYYY-MM-DD)"
// @Success 200 {array} Response
// @Failure 400 {object} map[string]string
// @Router /events [get]
func (h *Handler) ListEvents(c *gin.Context) {
	f := ListFilter{Location: c.Query("location")}
	if v, ok := c.GetQuery("from"); ok {
		f.From = &v
	}
	if v, ok := c.GetQuery("to"); ok {
		f.To = &v
	}

	events, err := h.service.List(c.Request.Context(), f)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, events)
}

// ===========================
// 🔍 Get Event - GET /events/:id

// GetEvent godoc
// @Summary Get one event
// @Tags Events
// @Produce json
// @Param id path int true "Event ID"
// @Success 200 {object} Response
// @Failure 404 {object} map[string]string
// @Router /events/{id} [get]
func (h *Handler) GetEvent(c *gin.Context) {
	id, ok := parseID(c, "id", msgNotFound)
	if !ok {
		return
	}

	resp, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ===========================
// 🛠 Update Event - PUT /events/:id

// UpdateEvent godoc
// @Summary Partially update an event
// @Tags Events
// @Accept json
// @Produce json
// @Param id path int true "Event ID"
// @Param X-Organizer-ID header int false "Acting organizer"
// @Param body body UpdateEventRequest true "Fields to change"
// @Success 200 {object} Response
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /events/{id} [put]
func (h *Handler) UpdateEvent(c *gin.Context) {
	id, ok := parseID(c, "id", msgNotFound)
	if !ok {
		return
	}

	var raw map[string]json.RawMessage
	if err := c.ShouldBindJSON(&raw); err != nil {
		apperr.Respond(c, apperr.Wrap(apperr.KindValidation, "Invalid JSON body", err))
		return
	}

	in, err := updateInputFrom(raw)
	if err != nil {
		apperr.Respond(c, apperr.Wrap(apperr.KindValidation, msgUpdateFailed, err))
		return
	}
	in.ActingOrganizerID = middleware.ActingOrganizerPtr(c)
	in.IP = middleware.GetIPFromContext(c)

	resp, err := h.service.Update(c.Request.Context(), id, in)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// updateInputFrom keeps absent keys apart from explicit nulls: a null
// description or capacity clears it, a null on a required field is rejected.
func updateInputFrom(raw map[string]json.RawMessage) (UpdateInput, error) {
	var in UpdateInput

	for key, dst := range map[string]**string{
		"name":     &in.Name,
		"date":     &in.Date,
		"time":     &in.Time,
		"location": &in.Location,
	} {
		v, ok := raw[key]
		if !ok {
			continue
		}
		if isNull(v) {
			return in, fmt.Errorf("%s cannot be null", key)
		}
		var s string
		if err := json.Unmarshal(v, &s); err != nil {
			return in, fmt.Errorf("%s must be a string", key)
		}
		*dst = &s
	}

	if v, ok := raw["description"]; ok {
		if isNull(v) {
			in.ClearDescription = true
		} else {
			var s string
			if err := json.Unmarshal(v, &s); err != nil {
				return in, fmt.Errorf("description must be a string")
			}
			in.Description = &s
		}
	}

	if v, ok := raw["capacity"]; ok {
		if isNull(v) {
			in.ClearCapacity = true
		} else {
			var n int
			if err := json.Unmarshal(v, &n); err != nil {
				return in, fmt.Errorf("capacity must be a whole number")
			}
			in.Capacity = &n
		}
	}

	if v, ok := raw["price"]; ok {
		var p any
		if err := json.Unmarshal(v, &p); err != nil {
			return in, err
		}
		in.Price = p
		in.PriceSet = true
	}
	return in, nil
}

func isNull(v json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(v), []byte("null"))
}

// ===========================
// 🗑 Delete Event - DELETE /events/:id

// DeleteEvent godoc
// @Summary Delete an event
// @Description Events with sold tickets cannot be deleted
// @Tags Events
// @Param id path int true "Event ID"
// @Param X-Organizer-ID header int false "Acting organizer"
// @Success 204
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /events/{id} [delete]
func (h *Handler) DeleteEvent(c *gin.Context) {
	id, ok := parseID(c, "id", msgNotFound)
	if !ok {
		return
	}

	err := h.service.Delete(c.Request.Context(), id, DeleteInput{
		ActingOrganizerID: middleware.ActingOrganizerPtr(c),
		IP:                middleware.GetIPFromContext(c),
	})
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ===========================
// 👤 Organizer Events - GET /organizers/:id/events

// ListOrganizerEvents godoc
// @Summary List one organizer's events
// @Tags Events
// @Produce json
// @Param id path int true "Organizer ID"
// @Success 200 {array} Response
// @Failure 404 {object} map[string]string
// @Router /organizers/{id}/events [get]
func (h *Handler) ListOrganizerEvents(c *gin.Context) {
	id, ok := parseID(c, "id", msgOrganizerUnknown)
	if !ok {
		return
	}

	events, err := h.service.ListByOrganizer(c.Request.Context(), id)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, events)
}

// parseID reads a numeric path parameter; anything else is answered as not found.
func parseID(c *gin.Context, name, notFoundMsg string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		apperr.Respond(c, apperr.NotFound(notFoundMsg))
		return 0, false
	}
	return uint(id), true
}
