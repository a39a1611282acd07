package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Anan1218/homehealth/internal/auth"
	"github.com/Anan1218/homehealth/internal/log"
	"github.com/Anan1218/homehealth/internal/queue"
)

// Register godoc
// @Summary Register user
// @Tags auth
// @Accept json
// @Produce json
// @Param payload body auth.RegistrationRequest true "register"
// @Success 200 {object} auth.AuthResult
// @Failure 400 {object} map[string]string
// @Failure 422 {object} map[string]any
// @Router /api/v1/auth/register [post]
func (h *Handler) Register(c *gin.Context) {
	var in auth.RegistrationRequest
	if !bindJSON(c, &in) {
		return
	}
	res, err := h.Auth.Register(c.Request.Context(), in)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	go h.Events.Publish(context.Background(), queue.Exchange, queue.KeyUserRegistered,
		queue.UserRegistered{UserID: res.User.ID, Email: res.User.Email, FullName: in.FullName},
		c.GetString(requestIDKey))

	c.JSON(http.StatusOK, res)
}

// Login godoc
// @Summary Login
// @Tags auth
// @Accept json
// @Produce json
// @Param payload body auth.LoginRequest true "login"
// @Success 200 {object} auth.AuthResult
// @Failure 401 {object} map[string]string
// @Failure 422 {object} map[string]any
// @Router /api/v1/auth/login [post]
func (h *Handler) Login(c *gin.Context) {
	var in auth.LoginRequest
	if !bindJSON(c, &in) {
		return
	}
	res, err := h.Auth.Login(c.Request.Context(), in)
	if err != nil {
		// never leak provider error text on login
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "Invalid credentials"})
		return
	}

	go h.Events.Publish(context.Background(), queue.Exchange, queue.KeyUserLoggedIn,
		queue.UserLoggedIn{UserID: res.User.ID, Email: res.User.Email},
		c.GetString(requestIDKey))

	c.JSON(http.StatusOK, res)
}

// Me godoc
// @Summary Current user
// @Tags auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} auth.UserProfile
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Router /api/v1/auth/me [get]
func (h *Handler) Me(c *gin.Context) {
	token := c.GetString(bearerTokenKey)
	u, err := h.Auth.CurrentUser(c.Request.Context(), token)
	if errors.Is(err, auth.ErrProviderUnavailable) {
		log.WithDD(c.Request.Context(), log.L).Warn("token introspection unavailable")
		c.JSON(http.StatusServiceUnavailable, gin.H{"detail": "Auth provider unavailable"})
		return
	}
	if u == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "Invalid token"})
		return
	}
	c.JSON(http.StatusOK, u)
}

func (h *Handler) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": "homehealth-api"})
}

func (h *Handler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "HomeHealth API is running"})
}
