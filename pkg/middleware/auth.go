package middleware

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Token is minimal interface for a verified token that can expose claims
type Token interface {
	Claims(v interface{}) error
}

// Verifier is the minimal interface the middleware depends on
type Verifier interface {
	Verify(ctx context.Context, raw string) (Token, error)
}

// TokenSource yields the access token cached by an earlier login.
type TokenSource interface {
	Token(ctx context.Context) (string, bool)
}

// RequireSession admits requests made on behalf of the signed-in user.
// With a TokenSource the stored token must exist and verify; a Bearer
// header is then accepted only when its subject is the stored user, since
// handlers act as that user. A nil src checks the header alone.
// Verified claims are stored under "claims".
func RequireSession(ver Verifier, src TokenSource) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		var stored string
		if src != nil {
			stored, _ = src.Token(ctx)
		}

		token := stored
		if auth := c.GetHeader("Authorization"); auth != "" {
			// Expect 'Bearer <token>'
			if n, _ := fmt.Sscanf(auth, "Bearer %s", &token); n != 1 {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid Authorization header"})
				return
			}
		}
		if token == "" || (src != nil && stored == "") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "not logged in"})
			return
		}

		claims, err := verifiedClaims(ctx, ver, token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token", "details": err.Error()})
			return
		}
		if src != nil && token != stored {
			own, err := verifiedClaims(ctx, ver, stored)
			if err != nil {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "stored session is invalid", "details": err.Error()})
				return
			}
			if subject(own) == "" || subject(own) != subject(claims) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "token does not belong to the signed-in user"})
				return
			}
		}

		c.Set("claims", claims)
		c.Next()
	}
}

func verifiedClaims(ctx context.Context, ver Verifier, raw string) (map[string]interface{}, error) {
	idToken, err := ver.Verify(ctx, raw)
	if err != nil {
		return nil, err
	}
	var claims map[string]interface{}
	if err := idToken.Claims(&claims); err != nil {
		return nil, fmt.Errorf("failed to parse claims: %w", err)
	}
	return claims, nil
}

func subject(claims map[string]interface{}) string {
	s, _ := claims["sub"].(string)
	return s
}
