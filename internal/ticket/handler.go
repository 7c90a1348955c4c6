package ticket

import (
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

type PurchaseRequest struct {
	EventID    *uint  `json:"event_id" binding:"required" example:"1"`
	BuyerName  string `json:"buyer_name" binding:"required" example:"Ada Lovelace"`
	BuyerEmail string `json:"buyer_email" binding:"required" example:"ada@example.com"`
}

// ===========================
// 🎟 Purchase - POST /tickets/purchase

// Purchase godoc
// @Summary Purchase a ticket
// @Description Issues a ticket with a unique code and queues a confirmation email. Email failure does not fail the purchase. Events at capacity answer 409.
// @Tags Tickets
// @Accept json
// @Produce json
// @Param body body PurchaseRequest true "Purchase"
// @Success 201 {object} Response
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /tickets/purchase [post]
func (h *Handler) Purchase(c *gin.Context) {
	var req PurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperr.Respond(c, apperr.FromBind(err, msgMissingPurchase))
		return
	}

	resp, err := h.service.Purchase(c.Request.Context(), PurchaseInput{
		EventID:    req.EventID,
		BuyerName:  req.BuyerName,
		BuyerEmail: req.BuyerEmail,
		IP:         middleware.GetIPFromContext(c),
	})
	if err != nil {
		apperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// ===========================
// 🔍 Get by code - GET /tickets/:code

// GetByCode godoc
// @Summary Look up a ticket by its code
// @Tags Tickets
// @Produce json
// @Param code path string true "Ticket code"
// @Success 200 {object} Response
// @Failure 404 {object} map[string]string
// @Router /tickets/{code} [get]
func (h *Handler) GetByCode(c *gin.Context) {
	resp, err := h.service.GetByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ===========================
// 📄 Tickets for event - GET /events/:id/tickets

// ListForEvent godoc
// @Summary List the tickets sold for an event
// @Description Tickets are returned in purchase order
// @Tags Tickets
// @Produce json
// @Param id path int true "Event ID"
// @Success 200 {array} Response
// @Failure 404 {object} map[string]string
// @Router /events/{id}/tickets [get]
func (h *Handler) ListForEvent(c *gin.Context) {
	eventID, ok := eventIDParam(c)
	if !ok {
		return
	}

	tickets, err := h.service.ListForEvent(c.Request.Context(), eventID)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, tickets)
}

// ===========================
// 📊 Export - GET /events/:id/tickets/export

// Export godoc
// @Summary Download the attendee list
// @Tags Tickets
// @Produce application/octet-stream
// @Param id path int true "Event ID"
// @Param format query string false "xlsx (default), csv or pdf"
// @Success 200 {file} file
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /events/{id}/tickets/export [get]
func (h *Handler) Export(c *gin.Context) {
	eventID, ok := eventIDParam(c)
	if !ok {
		return
	}

	out, err := h.service.Export(c.Request.Context(), eventID, c.DefaultQuery("format", FormatExcel))
	if err != nil {
		apperr.Respond(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", out.Filename))
	c.Data(http.StatusOK, out.ContentType, out.Data)
}

func eventIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		apperr.Respond(c, apperr.NotFound(msgEventNotFound))
		return 0, false
	}
	return uint(id), true
}
