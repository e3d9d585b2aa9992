package httpapi

import (
	"context"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/inotebook/internal/common"
	"github.com/dmitrijs2005/inotebook/internal/logging"
	"github.com/dmitrijs2005/inotebook/internal/server/metrics"
	"github.com/dmitrijs2005/inotebook/internal/server/models"
	"github.com/dmitrijs2005/inotebook/internal/server/services"
	"github.com/gin-gonic/gin"
)

type UserService interface {
	Register(ctx context.Context, userName, email, password string) (*services.AuthResult, error)
	Login(ctx context.Context, email, password string) (*services.AuthResult, error)
	Me(ctx context.Context, userID string) (*models.User, error)
}

// AuthHandler serves signup, login and the current-user lookup.
type AuthHandler struct {
	users   UserService
	metrics *metrics.Metrics
	logger  logging.Logger
}

func NewAuthHandler(users UserService, m *metrics.Metrics, logger logging.Logger) *AuthHandler {
	return &AuthHandler{users: users, metrics: m, logger: logger}
}

func (h *AuthHandler) Signup(c *gin.Context) {
	var req SignupRequest
	if !bindJSON(c, &req) {
		return
	}

	res, err := h.users.Register(c.Request.Context(), req.UserName, req.Email, req.Password)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	h.metrics.AuthEvent("signup")
	c.JSON(http.StatusOK, AuthResponse{Token: res.Token, UserName: res.UserName})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	res, err := h.users.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, common.ErrorInvalidCredentials) {
			h.metrics.AuthEvent("login_failed")
		}
		writeError(c, h.logger, err)
		return
	}

	h.metrics.AuthEvent("login")
	c.JSON(http.StatusOK, AuthResponse{Token: res.Token, UserName: res.UserName})
}

func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := UserIDFromContext(c.Request.Context())
	if !ok {
		writeError(c, h.logger, common.ErrInvalidToken)
		return
	}

	u, err := h.users.Me(c.Request.Context(), userID)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, u)
}
