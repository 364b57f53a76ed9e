// Package discord talks to the Discord REST API: it renders hiring posts as
// rich embeds in the hiring channel and runs the OAuth2 login that ties a
// browser to a Discord identity.
package discord

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
)

var ErrUserNotFound = errors.New("discord: user not found")

// API is the slice of *discordgo.Session the client needs.
type API interface {
	User(userID string, options ...discordgo.RequestOption) (*discordgo.User, error)
	ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

var _ API = (*discordgo.Session)(nil)

// Announcement is the content of a hiring post.
type Announcement struct {
	Title        string
	Description  string
	Requirements []string
	EstimatedPay string
}

type Client struct {
	api       API
	channelID string
}

func NewClient(api API, channelID string) *Client {
	return &Client{api: api, channelID: channelID}
}

// NewBotSession builds a REST-only bot session. No gateway connection is
// opened and failed requests are not retried.
func NewBotSession(token string) (*discordgo.Session, error) {
	s, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("discord: session: %w", err)
	}
	s.ShouldRetryOnRateLimit = false
	s.MaxRestRetries = 0
	return s, nil
}

// CreateHiringPost posts the announcement to the hiring channel on behalf
// of author and returns the message id.
func (c *Client) CreateHiringPost(ctx context.Context, author string, a Announcement) (string, error) {
	user, err := c.api.User(author, discordgo.WithContext(ctx))
	if err != nil {
		if isUnknownUser(err) {
			return "", ErrUserNotFound
		}
		return "", fmt.Errorf("discord: resolve author: %w", err)
	}
	if user == nil {
		return "", ErrUserNotFound
	}

	msg, err := c.api.ChannelMessageSendEmbed(c.channelID, BuildEmbed(user, a), discordgo.WithContext(ctx))
	if err != nil {
		return "", fmt.Errorf("discord: send message: %w", err)
	}
	return msg.ID, nil
}

func BuildEmbed(author *discordgo.User, a Announcement) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Type:        discordgo.EmbedTypeRich,
		Title:       a.Title,
		Description: a.Description,
		Author: &discordgo.MessageEmbedAuthor{
			Name:    DisplayName(author),
			URL:     "https://discord.com/channels/@me/" + author.ID,
			IconURL: author.AvatarURL(""),
		},
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:  "Requirements",
				Value: bulletList(a.Requirements),
			},
			{
				Name:  "Estimated Pay",
				Value: a.EstimatedPay,
			},
		},
	}
}

// DisplayName renders "name#1234", or just the name for accounts migrated to
// unique usernames (discriminator "0").
func DisplayName(u *discordgo.User) string {
	if u.Discriminator == "" || u.Discriminator == "0" {
		return u.Username
	}
	return u.Username + "#" + u.Discriminator
}

func bulletList(items []string) string {
	lines := make([]string, len(items))
	for i, item := range items {
		lines[i] = " - " + item
	}
	return strings.Join(lines, "\n")
}

// PostDate extracts the creation time encoded in a message snowflake.
func PostDate(postID string) (time.Time, error) {
	ts, err := discordgo.SnowflakeTimestamp(postID)
	if err != nil {
		return time.Time{}, fmt.Errorf("discord: invalid snowflake %q: %w", postID, err)
	}
	return ts.UTC(), nil
}

func isUnknownUser(err error) bool {
	var restErr *discordgo.RESTError
	if !errors.As(err, &restErr) {
		return false
	}
	if restErr.Message != nil && restErr.Message.Code == discordgo.ErrCodeUnknownUser {
		return true
	}
	return restErr.Response != nil && restErr.Response.StatusCode == http.StatusNotFound
}
