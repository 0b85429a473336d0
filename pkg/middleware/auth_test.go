package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

// fakeToken implements Token
type fakeToken struct {
	data map[string]interface{}
}

func (t *fakeToken) Claims(v interface{}) error {
	if mm, ok := v.(*map[string]interface{}); ok {
		*mm = t.data
		return nil
	}
	return fmt.Errorf("unsupported claims type")
}

// fakeVerifier implements Verifier
type fakeVerifier struct{}

func (f *fakeVerifier) Verify(ctx context.Context, raw string) (Token, error) {
	switch raw {
	case "goodtoken", "refreshed":
		return &fakeToken{data: map[string]interface{}{"sub": "user1", "email": "test@example.com"}}, nil
	case "othertoken":
		return &fakeToken{data: map[string]interface{}{"sub": "user2", "email": "other@example.com"}}, nil
	}
	return nil, fmt.Errorf("invalid token")
}

type storedToken string

func (s storedToken) Token(ctx context.Context) (string, bool) { return string(s), s != "" }

func serve(t *testing.T, src TokenSource, header string) *httptest.ResponseRecorder {
	t.Helper()
	g := gin.New()
	g.GET("/", RequireSession(&fakeVerifier{}, src), func(c *gin.Context) {
		claims, ok := c.Get("claims")
		require.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"claims": claims})
	})
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rw := httptest.NewRecorder()
	g.ServeHTTP(rw, req)
	return rw
}

func TestRequireSession_NoToken(t *testing.T) {
	require.Equal(t, http.StatusUnauthorized, serve(t, nil, "").Code)
	require.Equal(t, http.StatusUnauthorized, serve(t, storedToken(""), "").Code)
}

func TestRequireSession_InvalidHeader(t *testing.T) {
	require.Equal(t, http.StatusUnauthorized, serve(t, storedToken("goodtoken"), "BadHeader").Code)
}

func TestRequireSession_ValidHeader(t *testing.T) {
	rw := serve(t, nil, "Bearer goodtoken")
	require.Equal(t, http.StatusOK, rw.Code)
	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(rw.Body.Bytes(), &got))
	require.Contains(t, got, "claims")
}

func TestRequireSession_StoredToken(t *testing.T) {
	require.Equal(t, http.StatusOK, serve(t, storedToken("goodtoken"), "").Code)
	require.Equal(t, http.StatusUnauthorized, serve(t, storedToken("stale"), "").Code)
}

func TestRequireSession_HeaderMustMatchStoredUser(t *testing.T) {
	require.Equal(t, http.StatusUnauthorized, serve(t, storedToken("goodtoken"), "Bearer forged").Code)
	require.Equal(t, http.StatusOK, serve(t, storedToken("goodtoken"), "Bearer refreshed").Code)

	rw := serve(t, storedToken("goodtoken"), "Bearer othertoken")
	require.Equal(t, http.StatusUnauthorized, rw.Code)
	require.Contains(t, rw.Body.String(), "does not belong to the signed-in user")
}

func TestRequireSession_HeaderNeedsStoredSession(t *testing.T) {
	rw := serve(t, storedToken(""), "Bearer goodtoken")
	require.Equal(t, http.StatusUnauthorized, rw.Code)
	require.Contains(t, rw.Body.String(), "not logged in")

	require.Equal(t, http.StatusUnauthorized, serve(t, storedToken("stale"), "Bearer goodtoken").Code)
}
