package tokens

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/salonbook/salonbook/internal/models"
)

// Audience carried by every user access token.
const Audience = "authenticated"

var ErrInvalidToken = errors.New("invalid access token")

// Claims is the subset of an access token this client reads.
type Claims struct {
	Email        string                 `json:"email,omitempty"`
	Role         string                 `json:"role,omitempty"`
	AppMetadata  map[string]interface{} `json:"app_metadata,omitempty"`
	UserMetadata map[string]interface{} `json:"user_metadata,omitempty"`
	jwt.RegisteredClaims
}

// AppRole returns app_metadata.role.
func (c *Claims) AppRole() string {
	if c.AppMetadata == nil {
		return ""
	}
	s, _ := c.AppMetadata["role"].(string)
	return s
}

// Parse decodes the claims of raw without checking its signature or expiry.
// The client cannot verify tokens unless it is given the project secret.
func Parse(raw string) (*Claims, error) {
	c := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, c); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return c, nil
}

// Verify checks an HS256 signature and the time based claims.
func Verify(raw, secret string) (*Claims, error) {
	c := &Claims{}
	_, err := jwt.ParseWithClaims(raw, c, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return c, nil
}

// Issue signs an access token for u valid for ttl.
func Issue(secret string, u *models.User, ttl time.Duration) (string, error) {
	now := time.Now()
	c := &Claims{
		Email:        u.Email,
		Role:         Audience,
		AppMetadata:  u.AppMetadata,
		UserMetadata: u.UserMetadata,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   u.ID,
			Audience:  jwt.ClaimStrings{Audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString([]byte(secret))
}

// Expired reports whether c carries an exp claim in the past.
func (c *Claims) Expired(now time.Time) bool {
	return c.ExpiresAt != nil && now.After(c.ExpiresAt.Time)
}
