package handler

import (
	"context"
	"time"

	"hiring-service/internal/utils"

	"golang.org/x/oauth2"
)

const stateTTL = 5 * time.Minute

// issueState creates a state value and PKCE verifier and remembers the pair
// until the callback consumes it.
func (h *Handler) issueState(ctx context.Context) (string, string, error) {
	st, err := utils.RandomString(32)
	if err != nil {
		return "", "", err
	}

	verifier := oauth2.GenerateVerifier()
	if err := h.states.Save(ctx, st, verifier, stateTTL); err != nil {
		return "", "", err
	}
	return st, verifier, nil
}
