package users

import (
	"context"

	"github.com/salonbook/salonbook/internal/gateway"
	"github.com/salonbook/salonbook/internal/models"
	"github.com/salonbook/salonbook/internal/sessions"
)

// UnknownName is shown when the account has no first name.
const UnknownName = "Unknown"

// AdminPolicy decides who sees the admin panel. Role is compared with
// app_metadata.role; UserID is an optional fixed account.
// The backend still has to enforce who may update reservations.
type AdminPolicy struct {
	Role   string
	UserID string
}

// Service resolves the signed-in user.
type Service struct {
	idp      gateway.IdentityProvider
	sessions *sessions.Service
	admin    AdminPolicy
}

func NewService(idp gateway.IdentityProvider, s *sessions.Service, admin AdminPolicy) *Service {
	return &Service{idp: idp, sessions: s, admin: admin}
}

// Current asks the identity provider for the owner of the cached token.
// It returns sessions.ErrNotLoggedIn when no token is cached.
func (s *Service) Current(ctx context.Context) (*models.User, error) {
	tok, err := s.sessions.AccessToken(ctx)
	if err != nil {
		return nil, err
	}
	return s.idp.GetUser(ctx, tok)
}

func (s *Service) IsAdmin(u *models.User) bool {
	if u == nil {
		return false
	}
	if s.admin.Role != "" && u.AppRole() == s.admin.Role {
		return true
	}
	return s.admin.UserID != "" && u.ID == s.admin.UserID
}

// FirstNameOrUnknown is the name used in greetings.
func FirstNameOrUnknown(u *models.User) string {
	if u == nil || u.FirstName() == "" {
		return UnknownName
	}
	return u.FirstName()
}
