// Package hiring implements the submission workflow: validate the request,
// resolve the session to an identity, announce the post in the hiring
// channel, then record it.
package hiring

import (
	"context"
	"errors"
	"time"

	"hiring-service/internal/discord"
	"hiring-service/internal/logger"
	"hiring-service/internal/metrics"
	"hiring-service/internal/post"
	"hiring-service/internal/session"
)

// Channel publishes announcements. Implemented by *discord.Client.
type Channel interface {
	CreateHiringPost(ctx context.Context, author string, a discord.Announcement) (string, error)
}

type Service struct {
	sessions session.Store
	posts    post.Store
	channel  Channel
	metrics  *metrics.Metrics
}

func NewService(sessions session.Store, posts post.Store, channel Channel, m *metrics.Metrics) *Service {
	return &Service{
		sessions: sessions,
		posts:    posts,
		channel:  channel,
		metrics:  m,
	}
}

// Submit runs the whole workflow and returns the channel message id.
//
// A persistence failure after a successful announcement is reported but the
// announcement stays in the channel.
func (s *Service) Submit(ctx context.Context, sub Submission) (string, error) {
	p, err := Validate(sub)
	if err != nil {
		s.metrics.Failure(metrics.FailureValidation)
		return "", err
	}

	author, err := s.resolve(ctx, p.Session)
	if err != nil {
		return "", err
	}

	messageID, err := s.channel.CreateHiringPost(ctx, author, discord.Announcement{
		Title:        p.Title,
		Description:  p.Description,
		Requirements: p.Requirements,
		EstimatedPay: p.EstimatedPay,
	})
	if errors.Is(err, discord.ErrUserNotFound) {
		s.metrics.Failure(metrics.FailureSession)
		return "", err
	}
	if err != nil {
		s.metrics.Failure(metrics.FailureChannel)
		return "", &UpstreamError{Kind: UpstreamChannel, Err: err}
	}

	if err := s.posts.Create(ctx, author, messageID); err != nil {
		s.metrics.Failure(metrics.FailureStorage)
		logger.Error("hiring post announced but not recorded", map[string]any{
			"post_id": messageID,
			"author":  author,
			"error":   err,
		})
		return "", &UpstreamError{Kind: UpstreamStorage, Err: err}
	}

	s.metrics.PostCreated()
	logger.Info("hiring post created", map[string]any{
		"post_id": messageID,
		"author":  author,
	})
	return messageID, nil
}

// resolve maps a session token to its identity. Tokens are only ever
// resolved here, at the workflow boundary.
func (s *Service) resolve(ctx context.Context, token string) (string, error) {
	identity, err := s.sessions.Identity(ctx, token)
	if errors.Is(err, session.ErrNotFound) {
		s.metrics.Failure(metrics.FailureSession)
		return "", ErrInvalidSession
	}
	if err != nil {
		s.metrics.Failure(metrics.FailureStorage)
		return "", &UpstreamError{Kind: UpstreamStorage, Err: err}
	}
	return identity, nil
}

// StartSession allocates a session for an identity confirmed by the OAuth
// login.
func (s *Service) StartSession(ctx context.Context, identity string) (session.Session, error) {
	sess, err := s.sessions.Create(ctx, identity)
	if err != nil {
		s.metrics.Failure(metrics.FailureStorage)
		return session.Session{}, &UpstreamError{Kind: UpstreamStorage, Err: err}
	}
	s.metrics.SessionCreated()
	return sess, nil
}

type PostDate struct {
	PostID string    `json:"postId"`
	Date   time.Time `json:"date"`
}

// PostDates lists the posts of the identity behind token with the time
// each was announced. An unknown or expired token is ErrInvalidSession.
func (s *Service) PostDates(ctx context.Context, token string) ([]PostDate, error) {
	if _, err := s.resolve(ctx, token); err != nil {
		return nil, err
	}

	ids, err := s.posts.ListForSession(ctx, token)
	if err != nil {
		s.metrics.Failure(metrics.FailureStorage)
		return nil, &UpstreamError{Kind: UpstreamStorage, Err: err}
	}

	out := make([]PostDate, 0, len(ids))
	for _, id := range ids {
		date, err := discord.PostDate(id)
		if err != nil {
			logger.Warn("skipping post with malformed id", map[string]any{
				"post_id": id,
				"error":   err,
			})
			continue
		}
		out = append(out, PostDate{PostID: id, Date: date})
	}
	return out, nil
}
