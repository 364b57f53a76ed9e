package discord

import (
	"context"
	"errors"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"golang.org/x/oauth2"
)

var Endpoint = oauth2.Endpoint{
	AuthURL:   "https://discord.com/oauth2/authorize",
	TokenURL:  "https://discord.com/api/oauth2/token",
	AuthStyle: oauth2.AuthStyleInParams,
}

// Identity is the Discord account behind a completed login.
type Identity struct {
	ID       string
	Username string
}

// OAuthProvider runs the authorization code flow with PKCE and the
// "identify" scope. It returns identity facts only; sessions are created by
// the caller.
type OAuthProvider struct {
	oauthConfig *oauth2.Config
	me          func(ctx context.Context, accessToken string) (*discordgo.User, error)
}

func NewOAuthProvider(clientID, clientSecret, redirectURL string) (*OAuthProvider, error) {
	if clientID == "" || clientSecret == "" || redirectURL == "" {
		return nil, errors.New("discord oauth config missing required fields")
	}

	return &OAuthProvider{
		oauthConfig: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Endpoint:     Endpoint,
			Scopes:       []string{"identify"},
		},
		me: currentUser,
	}, nil
}

// AuthCodeURL builds the authorization URL. The S256 challenge is derived
// from verifier.
func (p *OAuthProvider) AuthCodeURL(state, verifier string) string {
	return p.oauthConfig.AuthCodeURL(
		state,
		oauth2.AccessTypeOnline,
		oauth2.S256ChallengeOption(verifier),
	)
}

func (p *OAuthProvider) ExchangeCode(ctx context.Context, code, verifier string) (*Identity, error) {
	token, err := p.oauthConfig.Exchange(ctx, code, oauth2.VerifierOption(verifier))
	if err != nil {
		return nil, fmt.Errorf("discord token exchange failed: %w", err)
	}

	user, err := p.me(ctx, token.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("discord identify failed: %w", err)
	}
	if user == nil || user.ID == "" {
		return nil, errors.New("discord identify returned no user")
	}

	return &Identity{
		ID:       user.ID,
		Username: user.Username,
	}, nil
}

func currentUser(ctx context.Context, accessToken string) (*discordgo.User, error) {
	s, err := discordgo.New("Bearer " + accessToken)
	if err != nil {
		return nil, err
	}
	return s.User("@me", discordgo.WithContext(ctx))
}
