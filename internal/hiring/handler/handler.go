package handler

import (
	"context"
	"errors"
	"net/http"

	"hiring-service/internal/discord"
	"hiring-service/internal/hiring"
	"hiring-service/internal/logger"

	"github.com/gin-gonic/gin"
)

// Workflow is the part of *hiring.Service the HTTP layer drives.
type Workflow interface {
	Submit(ctx context.Context, sub hiring.Submission) (string, error)
	PostDates(ctx context.Context, token string) ([]hiring.PostDate, error)
}

type Handler struct {
	workflow Workflow
}

func NewHandler(w Workflow) *Handler {
	return &Handler{workflow: w}
}

// RegisterRoutes binds every method so a wrong verb gets the JSON 400
// instead of gin's 404.
func (h *Handler) RegisterRoutes(r gin.IRoutes) {
	r.Any("/api/post", h.createPost)
	r.Any("/api/posts/dates", h.postDates)
}

func (h *Handler) createPost(c *gin.Context) {
	if c.Request.Method != http.MethodPost {
		fail(c, http.StatusBadRequest, "must be POST")
		return
	}

	var sub hiring.Submission
	if err := c.ShouldBindJSON(&sub); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body")
		return
	}

	if _, err := h.workflow.Submit(c.Request.Context(), sub); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *Handler) postDates(c *gin.Context) {
	if c.Request.Method != http.MethodGet {
		fail(c, http.StatusBadRequest, "must be GET")
		return
	}

	token, ok := c.GetQuery("session")
	if !ok {
		writeError(c, &hiring.FieldError{Field: "session", Message: "This field is required"})
		return
	}

	posts, err := h.workflow.PostDates(c.Request.Context(), token)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"posts":   posts,
	})
}

// writeError is the single place workflow errors become HTTP responses.
func writeError(c *gin.Context, err error) {
	var (
		fieldErr    *hiring.FieldError
		upstreamErr *hiring.UpstreamError
	)

	switch {
	case errors.As(err, &fieldErr):
		failField(c, http.StatusBadRequest, fieldErr.Message, fieldErr.Field)

	case errors.Is(err, hiring.ErrInvalidSession):
		failField(c, http.StatusBadRequest, "invalid session", "session")

	case errors.Is(err, discord.ErrUserNotFound):
		failField(c, http.StatusBadRequest, "user not found", "session")

	case errors.As(err, &upstreamErr) && upstreamErr.Kind == hiring.UpstreamChannel:
		logger.Error("chat platform call failed", map[string]any{"error": err})
		fail(c, http.StatusBadGateway, "chat platform unavailable")

	case errors.As(err, &upstreamErr) && upstreamErr.Kind == hiring.UpstreamStorage:
		logger.Error("storage call failed", map[string]any{"error": err})
		fail(c, http.StatusInternalServerError, "storage unavailable")

	default:
		logger.Error("unhandled error", map[string]any{"error": err})
		fail(c, http.StatusInternalServerError, "internal error")
	}
}

func fail(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"success": false, "error": msg})
}

func failField(c *gin.Context, status int, msg, field string) {
	c.JSON(status, gin.H{"success": false, "error": msg, "field": field})
}
