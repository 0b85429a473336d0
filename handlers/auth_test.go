package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/salonbook/salonbook/internal/auth"
	"github.com/salonbook/salonbook/internal/booking"
	"github.com/salonbook/salonbook/internal/gateway"
	"github.com/salonbook/salonbook/internal/oidc"
	"github.com/salonbook/salonbook/internal/reservations"
	"github.com/salonbook/salonbook/internal/screens"
	"github.com/salonbook/salonbook/internal/sessions"
	"github.com/salonbook/salonbook/internal/users"
	"github.com/salonbook/salonbook/pkg/middleware"
	"github.com/stretchr/testify/require"
)

type bridge struct {
	router  *gin.Engine
	backend *gateway.MemoryBackend
	repo    *reservations.Repository
	sess    *sessions.Service
}

// newBridge wires the routes the way main does, over the in-memory backend.
func newBridge(t *testing.T) *bridge {
	t.Helper()
	gin.SetMode(gin.TestMode)
	backend := gateway.NewMemoryBackend("")
	sess := sessions.NewService(sessions.NewMemoryStore())
	repo := reservations.NewRepository(backend)
	now := time.Date(2030, time.January, 16, 12, 0, 0, 0, time.Local)
	deps := screens.Deps{
		Auth:         auth.NewController(backend, sess),
		Users:        users.NewService(backend, sess, users.AdminPolicy{Role: "admin"}),
		Reservations: repo,
		Validator:    booking.NewValidator(func() time.Time { return now }),
	}

	r := gin.New()
	NewAuthHandler(deps).Register(r.Group("/"))
	api := r.Group("/api/v1", middleware.RequireSession(oidc.NewSecretVerifier(backend.Secret()), sess))
	NewReservationHandler(deps).Register(api)
	return &bridge{router: r, backend: backend, repo: repo, sess: sess}
}

func (b *bridge) do(t *testing.T, method, path string, body interface{}) (int, map[string]interface{}) {
	t.Helper()
	return b.doAs(t, "", method, path, body)
}

// doAs sends the request with token as its Bearer credential when set.
func (b *bridge) doAs(t *testing.T, token, method, path string, body interface{}) (int, map[string]interface{}) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	b.router.ServeHTTP(w, req)
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return w.Code, out
}

func TestAuthFlow(t *testing.T) {
	b := newBridge(t)

	code, body := b.do(t, http.MethodGet, "/auth/status", nil)
	require.Equal(t, http.StatusBadRequest, code)
	require.Equal(t, "error", body["state"])
	require.Equal(t, auth.MsgNotLoggedIn, body["message"])

	code, body = b.do(t, http.MethodPost, "/auth/signup", SignUpRequest{Email: "bad", Password: "pw123456"})
	require.Equal(t, http.StatusBadRequest, code)
	require.Equal(t, auth.MsgInvalidEmail, body["message"])

	code, body = b.do(t, http.MethodPost, "/auth/signup", SignUpRequest{Email: "anna@test.com", Password: "pw123456", FirstName: "Anna"})
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, "success", body["state"])
	require.Equal(t, true, body["isRegistration"])
	require.NotContains(t, body, "navigate")

	code, body = b.do(t, http.MethodGet, "/auth/status", nil)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, auth.MsgAlreadyLoggedIn, body["message"])
	require.Equal(t, "home", body["navigate"])

	code, body = b.do(t, http.MethodPost, "/auth/logout", nil)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, auth.MsgLoggedOut, body["message"])
	require.Equal(t, "main", body["navigate"])

	code, body = b.do(t, http.MethodPost, "/auth/logout", nil)
	require.Equal(t, http.StatusBadRequest, code)
	require.Equal(t, auth.MsgCannotLogout, body["message"])

	code, body = b.do(t, http.MethodPost, "/auth/login", LoginRequest{Email: "anna@test.com", Password: "pw123456"})
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, auth.MsgLoggedIn, body["message"])
	require.Equal(t, "home", body["navigate"])
}

func TestProtectedRoutesNeedSession(t *testing.T) {
	b := newBridge(t)
	code, body := b.do(t, http.MethodGet, "/api/v1/home", nil)
	require.Equal(t, http.StatusUnauthorized, code)
	require.Contains(t, body, "error")
}

func TestProtectedRoutesRejectForeignBearer(t *testing.T) {
	b := newBridge(t)
	ctx := context.Background()
	code, _ := b.do(t, http.MethodPost, "/auth/signup", SignUpRequest{Email: "anna@test.com", Password: "pw123456", FirstName: "Anna"})
	require.Equal(t, http.StatusOK, code)
	anna, ok := b.sess.Token(ctx)
	require.True(t, ok)

	bob, err := b.backend.SignUp(ctx, "bob@test.com", "pw123456", map[string]interface{}{"first_name": "Bob"})
	require.NoError(t, err)

	code, body := b.doAs(t, bob.AccessToken, http.MethodGet, "/api/v1/home", nil)
	require.Equal(t, http.StatusUnauthorized, code)
	require.Equal(t, "token does not belong to the signed-in user", body["error"])

	code, body = b.doAs(t, anna, http.MethodGet, "/api/v1/home", nil)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, "Hello, Anna!", body["greeting"])

	code, _ = b.do(t, http.MethodPost, "/auth/logout", nil)
	require.Equal(t, http.StatusOK, code)

	for _, token := range []string{anna, bob.AccessToken} {
		code, body = b.doAs(t, token, http.MethodGet, "/api/v1/home", nil)
		require.Equal(t, http.StatusUnauthorized, code)
		require.Equal(t, "not logged in", body["error"])
	}
}

func TestReservationRoutes(t *testing.T) {
	b := newBridge(t)
	code, _ := b.do(t, http.MethodPost, "/auth/signup", SignUpRequest{Email: "anna@test.com", Password: "pw123456", FirstName: "Anna"})
	require.Equal(t, http.StatusOK, code)

	code, body := b.do(t, http.MethodGet, "/api/v1/home", nil)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, "Hello, Anna!", body["greeting"])
	require.Equal(t, false, body["isAdmin"])

	code, body = b.do(t, http.MethodGet, "/api/v1/reservations", nil)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, screens.MsgNoReservations, body["empty"])
	require.Empty(t, body["reservations"])

	code, body = b.do(t, http.MethodPost, "/api/v1/reservations", screens.ReservationForm{Date: "2030-01-20", Time: "10:00"})
	require.Equal(t, http.StatusBadRequest, code)
	require.Equal(t, booking.MsgClosedSunday, body["message"])

	code, body = b.do(t, http.MethodPost, "/api/v1/reservations", screens.ReservationForm{Date: "2030-01-18", Time: "10:00", Description: "color"})
	require.Equal(t, http.StatusCreated, code)
	require.Equal(t, screens.MsgSubmitted, body["message"])

	code, _ = b.do(t, http.MethodGet, "/api/v1/admin/reservations", nil)
	require.Equal(t, http.StatusForbidden, code)

	require.True(t, b.backend.SetAppRole("anna@test.com", "admin"))
	code, body = b.do(t, http.MethodGet, "/api/v1/admin/reservations", nil)
	require.Equal(t, http.StatusOK, code)
	rows, ok := body["reservations"].([]interface{})
	require.True(t, ok)
	require.Len(t, rows, 1)
	id := rows[0].(map[string]interface{})["id"].(string)

	code, body = b.do(t, http.MethodPost, "/api/v1/admin/reservations/"+id+"/reject", RejectRequest{Reason: "holiday"})
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, screens.MsgRejected, body["message"])

	reason, err := b.repo.Reason(context.Background(), id)
	require.NoError(t, err)
	require.Equal(t, "holiday", reason)

	code, body = b.do(t, http.MethodGet, "/api/v1/reservations", nil)
	require.Equal(t, http.StatusOK, code)
	row := body["reservations"].([]interface{})[0].(map[string]interface{})
	require.Equal(t, "Rejected", row["status"])
	require.Equal(t, "Rejection reason: holiday, please submit your reservation again.", row["rejectionNote"])

	code, _ = b.do(t, http.MethodPost, "/api/v1/admin/reservations/"+id+"/accept", nil)
	require.Equal(t, http.StatusOK, code)
}
