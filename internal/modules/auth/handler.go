package auth

import (
	"errors"
	"net/http"
	"time"

	"careboard/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
	now     func() time.Time
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service, now: time.Now}
}

func (h *Handler) RegisterPublicRoutes(v1 *gin.RouterGroup) {
	authGroup := v1.Group("/auth")
	{
		authGroup.POST("/session", h.CreateSession)
	}
}

// CreateSession issues a session token for an email address without a
// credential check. Deployments must put this route behind SSO.
// @Summary		Open a dashboard session
// @Tags		Auth
// @Param		request	body	SessionRequest	true	"Email address"
// @Success		201	{object}	SessionResponse
// @Failure		400	{object}	map[string]interface{}
// @Router		/auth/session [POST]
func (h *Handler) CreateSession(c *gin.Context) {
	var req SessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "A valid email is required")
		return
	}

	sess, err := h.service.Login(c.Request.Context(), req.Email, h.now())
	if err != nil {
		if errors.Is(err, ErrInvalidEmail) {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "A valid email is required")
			return
		}
		response.Error(c, http.StatusInternalServerError, "SESSION_FAILED", "Failed to open session")
		return
	}

	response.Success(c, http.StatusCreated, sess)
}
