package organizer

import (
	"net/http"

	"github.com/discoveryevent/ticketing-backend/internal/apperr"
	"github.com/discoveryevent/ticketing-backend/middleware"
	"github.com/gin-gonic/gin"
)

type Handler struct{ service Service }

func NewHandler(s Service) *Handler { return &Handler{s} }

// ===============================
// Registration
// ===============================

type RegisterRequest struct {
	Username string `json:"username" binding:"required" example:"festival-crew"`
	Email    string `json:"email" binding:"required" example:"crew@example.com"`
	Password string `json:"password" binding:"required" example:"secret123"`
}

// Register godoc
// @Summary Register an organizer
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body RegisterRequest true "Organizer"
// @Success 201 {object} Response
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /auth/register [post]
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperr.Respond(c, apperr.FromBind(err, msgMissingRegister))
		return
	}

	resp, err := h.service.Register(c.Request.Context(), RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		IP:       middleware.GetIPFromContext(c),
	})
	if err != nil {
		apperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// ===============================
// Login
// ===============================

type LoginRequest struct {
	Email    string `json:"email" binding:"required" example:"crew@example.com"`
	Password string `json:"password" binding:"required" example:"secret123"`
}

type LoginResponse struct {
	Message string   `json:"message"`
	User    Response `json:"user"`
}

// Login godoc
// @Summary Check organizer credentials
// @Description Unknown email and wrong password produce the same 401 body
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body LoginRequest true "Credentials"
// @Success 200 {object} LoginResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /auth/login [post]
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperr.Respond(c, apperr.FromBind(err, msgMissingLogin))
		return
	}

	user, err := h.service.Login(c.Request.Context(), LoginInput(req))
	if err != nil {
		apperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, LoginResponse{Message: "Login successful", User: *user})
}
