package handler

import (
	"context"
	"errors"
	"net/http"

	"hiring-service/internal/auth/provider"
	"hiring-service/internal/auth/state"
	"hiring-service/internal/logger"
	"hiring-service/internal/session"

	"github.com/gin-gonic/gin"
)

// SessionStarter allocates a session once a login is confirmed.
// Implemented by *hiring.Service.
type SessionStarter interface {
	StartSession(ctx context.Context, identity string) (session.Session, error)
}

type Handler struct {
	provider provider.OAuthProvider
	states   state.Store
	sessions SessionStarter
	cookie   session.CookieOptions
}

// NewHandler returns a handler for the Discord login flow. A nil provider
// leaves the flow disabled and /api/discord-auth answers 501.
func NewHandler(
	p provider.OAuthProvider,
	states state.Store,
	sessions SessionStarter,
	cookie session.CookieOptions,
) *Handler {
	return &Handler{
		provider: p,
		states:   states,
		sessions: sessions,
		cookie:   cookie,
	}
}

func (h *Handler) RegisterRoutes(r gin.IRoutes) {
	r.Any("/api/discord-auth", h.callback)
	if h.provider != nil {
		r.GET("/api/discord-login", h.login)
	}
}

func (h *Handler) login(c *gin.Context) {
	st, verifier, err := h.issueState(c.Request.Context())
	if err != nil {
		logger.Error("failed to issue oauth state", map[string]any{"error": err})
		fail(c, http.StatusInternalServerError, "failed to start login")
		return
	}

	c.Redirect(http.StatusFound, h.provider.AuthCodeURL(st, verifier))
}

func (h *Handler) callback(c *gin.Context) {
	if c.Request.Method != http.MethodGet {
		fail(c, http.StatusBadRequest, "must be GET")
		return
	}

	if h.provider == nil {
		fail(c, http.StatusNotImplemented, "not implemented")
		return
	}

	// The user declined or Discord rejected the request.
	if errParam := c.Query("error"); errParam != "" {
		logger.Warn("discord oauth returned error", map[string]any{
			"error": errParam,
			"desc":  c.Query("error_description"),
		})
		fail(c, http.StatusBadRequest, "authorization denied")
		return
	}

	verifier, err := h.states.Consume(c.Request.Context(), c.Query("state"))
	if errors.Is(err, state.ErrNotFound) {
		failField(c, http.StatusBadRequest, "invalid state", "state")
		return
	}
	if err != nil {
		logger.Error("oauth state lookup failed", map[string]any{"error": err})
		fail(c, http.StatusInternalServerError, "storage unavailable")
		return
	}

	code := c.Query("code")
	if code == "" {
		failField(c, http.StatusBadRequest, "This field is required", "code")
		return
	}

	identity, err := h.provider.ExchangeCode(c.Request.Context(), code, verifier)
	if err != nil {
		logger.Warn("discord code exchange failed", map[string]any{"error": err})
		fail(c, http.StatusUnauthorized, "authentication failed")
		return
	}

	sess, err := h.sessions.StartSession(c.Request.Context(), identity.ID)
	if err != nil {
		logger.Error("failed to create session", map[string]any{
			"discord_id": identity.ID,
			"error":      err,
		})
		fail(c, http.StatusInternalServerError, "storage unavailable")
		return
	}

	session.SetCookie(c.Writer, sess, h.cookie)

	logger.Info("login succeeded", map[string]any{
		"discord_id": identity.ID,
		"username":   identity.Username,
		"ip":         c.ClientIP(),
	})

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"session": sess.Token,
	})
}

func fail(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"success": false, "error": msg})
}

func failField(c *gin.Context, status int, msg, field string) {
	c.JSON(status, gin.H{"success": false, "error": msg, "field": field})
}
