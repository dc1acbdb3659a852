package handler

import (
	"errors"

	"github.com/hieptuanle/baby-tracker/internal/metrics"
	"github.com/hieptuanle/baby-tracker/internal/middleware"
	"github.com/hieptuanle/baby-tracker/internal/service"
	"github.com/hieptuanle/baby-tracker/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// AuthHandler serves the register, login, logout and me endpoints.
type AuthHandler struct {
	Auth   *service.AuthService
	Cookie util.CookieConfig
	Log    zerolog.Logger
}

func NewAuthHandler(auth *service.AuthService, cookie util.CookieConfig, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{Auth: auth, Cookie: cookie, Log: log}
}

type credentialsReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req credentialsReq
	if err := c.ShouldBindJSON(&req); err != nil {
		recordAuth("register", service.ErrMissingCredentials)
		Fail(c, h.Log, service.ErrMissingCredentials)
		return
	}

	user, token, err := h.Auth.Register(c.Request.Context(), req.Username, req.Password)
	recordAuth("register", err)
	if err != nil {
		Fail(c, h.Log, err)
		return
	}

	util.SetSessionCookie(c.Writer, c.Request, h.Cookie, token)
	h.Log.Info().Uint("user_id", user.ID).Str("username", user.Username).Msg("user registered")
	util.Success(c, util.Response{
		"success": true,
		"userId":  user.ID,
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req credentialsReq
	if err := c.ShouldBindJSON(&req); err != nil {
		recordAuth("login", service.ErrMissingCredentials)
		Fail(c, h.Log, service.ErrMissingCredentials)
		return
	}

	user, token, err := h.Auth.Login(c.Request.Context(), req.Username, req.Password)
	recordAuth("login", err)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			h.Log.Warn().Str("username", req.Username).Str("ip", c.ClientIP()).Msg("login failed")
		}
		Fail(c, h.Log, err)
		return
	}

	util.SetSessionCookie(c.Writer, c.Request, h.Cookie, token)
	util.Success(c, util.Response{
		"success": true,
		"userId":  user.ID,
	})
}

// Logout always succeeds from the client's point of view; the cookie is
// cleared even when the session row could not be removed.
func (h *AuthHandler) Logout(c *gin.Context) {
	token := util.SessionToken(c.Request, h.Cookie.Name)
	if token != "" {
		err := h.Auth.Logout(c.Request.Context(), token)
		recordAuth("logout", err)
		if err != nil {
			h.Log.Error().Err(err).Msg("delete session failed")
		}
	}

	util.ClearSessionCookie(c.Writer, c.Request, h.Cookie)
	util.Success(c, util.Response{"success": true})
}

// Me returns the current user. Requires middleware.RequireAuth.
func (h *AuthHandler) Me(c *gin.Context) {
	id := middleware.CurrentUser(c)
	if id == nil {
		Fail(c, h.Log, service.ErrNotAuthenticated)
		return
	}
	util.Success(c, util.Response{"user": id})
}

func recordAuth(action string, err error) {
	var se *service.Error
	result := "success"
	switch {
	case err == nil:
	case errors.As(err, &se) && se.Kind == service.KindConflict:
		result = "conflict"
	case errors.As(err, &se):
		result = "invalid"
	default:
		result = "error"
	}
	metrics.AuthEventsTotal.WithLabelValues(action, result).Inc()
}
