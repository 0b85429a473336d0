package sessions

import (
	"context"
	"errors"
	"fmt"

	"github.com/salonbook/salonbook/internal/models"
)

// ErrNotLoggedIn is returned when no access token is cached.
var ErrNotLoggedIn = errors.New("not logged in")

// Service wraps a Store with the session specific keys.
type Service struct {
	store Store
}

func NewService(s Store) *Service { return &Service{store: s} }

// SaveSession overwrites the cached tokens with those of s.
func (s *Service) SaveSession(ctx context.Context, sess *models.Session) error {
	if sess == nil || sess.AccessToken == "" {
		return errors.New("access token not found")
	}
	if err := s.store.Save(ctx, KeyAccessToken, sess.AccessToken); err != nil {
		return fmt.Errorf("save access token: %w", err)
	}
	if sess.RefreshToken != "" {
		if err := s.store.Save(ctx, KeyRefreshToken, sess.RefreshToken); err != nil {
			return fmt.Errorf("save refresh token: %w", err)
		}
	}
	return nil
}

// AccessToken returns the cached token or ErrNotLoggedIn.
func (s *Service) AccessToken(ctx context.Context) (string, error) {
	v, ok, err := s.store.Get(ctx, KeyAccessToken)
	if err != nil {
		return "", fmt.Errorf("read access token: %w", err)
	}
	if !ok || v == "" {
		return "", ErrNotLoggedIn
	}
	return v, nil
}

// RefreshToken returns the cached refresh token, or "" when none is stored.
func (s *Service) RefreshToken(ctx context.Context) (string, error) {
	v, _, err := s.store.Get(ctx, KeyRefreshToken)
	if err != nil {
		return "", fmt.Errorf("read refresh token: %w", err)
	}
	return v, nil
}

// Token adapts AccessToken to the (token, ok) shape used by the gateway.
func (s *Service) Token(ctx context.Context) (string, bool) {
	v, err := s.AccessToken(ctx)
	return v, err == nil
}

func (s *Service) Clear(ctx context.Context) error {
	return s.store.Clear(ctx)
}
