package oidc

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/salonbook/salonbook/internal/config"
	"github.com/salonbook/salonbook/internal/tokens"
	"github.com/salonbook/salonbook/pkg/logger"
	"github.com/salonbook/salonbook/pkg/middleware"
)

// IDToken is a minimal interface for token payloads that allows extracting claims
// It is satisfied by *oidc.IDToken and by test fakes.
type IDToken interface {
	Claims(v interface{}) error
}

// JWKSVerifier checks asymmetrically signed access tokens against the key
// set the backend publishes under /auth/v1.
type JWKSVerifier struct {
	verifier *oidc.IDTokenVerifier
}

// NewJWKSVerifier does no network I/O; keys are fetched on first use.
func NewJWKSVerifier(ctx context.Context, backendURL string) *JWKSVerifier {
	issuer := strings.TrimRight(backendURL, "/") + "/auth/v1"
	keys := oidc.NewRemoteKeySet(ctx, issuer+"/.well-known/jwks.json")
	v := oidc.NewVerifier(issuer, keys, &oidc.Config{
		ClientID:             tokens.Audience,
		SupportedSigningAlgs: []string{oidc.RS256, oidc.ES256},
	})
	return &JWKSVerifier{verifier: v}
}

func (v *JWKSVerifier) Verify(ctx context.Context, raw string) (middleware.Token, error) {
	idToken, err := v.verifier.Verify(ctx, raw)
	if err != nil {
		return nil, err
	}
	return idToken, nil
}

// claimsToken exposes already validated claims through the Token interface.
type claimsToken struct {
	claims *tokens.Claims
}

func (t *claimsToken) Claims(v interface{}) error {
	b, err := json.Marshal(t.claims)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, v)
}

// SecretVerifier checks HS256 tokens signed with the project's JWT secret.
type SecretVerifier struct {
	secret string
}

func NewSecretVerifier(secret string) *SecretVerifier { return &SecretVerifier{secret: secret} }

func (v *SecretVerifier) Verify(ctx context.Context, raw string) (middleware.Token, error) {
	c, err := tokens.Verify(raw, v.secret)
	if err != nil {
		return nil, err
	}
	return &claimsToken{claims: c}, nil
}

// FromConfig picks the strongest verifier the configuration allows: JWKS,
// then the shared secret, then unverified parsing.
func FromConfig(ctx context.Context, cfg config.BackendConfig) middleware.Verifier {
	switch {
	case cfg.VerifyJWKS && cfg.URL != "":
		logger.Infof("verifying access tokens against %s JWKS", cfg.URL)
		return NewJWKSVerifier(ctx, cfg.URL)
	case cfg.JWTSecret != "":
		logger.Infof("verifying access tokens with the configured JWT secret")
		return NewSecretVerifier(cfg.JWTSecret)
	}
	logger.Warn("no JWKS or JWT secret configured; access token signatures are not checked")
	return NewInsecureVerifier()
}
