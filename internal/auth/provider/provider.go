package provider

import (
	"context"

	"hiring-service/internal/discord"
)

// OAuthProvider is the login contract the HTTP layer depends on.
// Implementations return identity facts only and must not create sessions.
type OAuthProvider interface {
	// AuthCodeURL returns the authorization URL. State and the PKCE
	// verifier are generated by the caller.
	AuthCodeURL(state string, verifier string) string

	// ExchangeCode trades the authorization code for the identity of the
	// user who approved it.
	ExchangeCode(
		ctx context.Context,
		code string,
		verifier string,
	) (*discord.Identity, error)
}

var _ OAuthProvider = (*discord.OAuthProvider)(nil)
