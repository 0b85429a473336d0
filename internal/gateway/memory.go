package gateway

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/salonbook/salonbook/internal/models"
	"github.com/salonbook/salonbook/internal/tokens"
)

const memoryTokenTTL = time.Hour

type memUser struct {
	user     models.User
	password string
}

// MemoryBackend is an in-process identity provider and table store with the
// same observable behavior as the hosted backend. It backs tests and the
// "memory" tables driver for local development.
type MemoryBackend struct {
	mu      sync.RWMutex
	secret  string
	users   map[string]*memUser // by lower-cased email
	refresh map[string]string   // refresh token -> user id
	revoked map[string]bool     // signed out access tokens
	tables  map[string][]row
	current *models.Session
}

func NewMemoryBackend(secret string) *MemoryBackend {
	if secret == "" {
		secret = uuid.NewString()
	}
	return &MemoryBackend{
		secret:  secret,
		users:   make(map[string]*memUser),
		refresh: make(map[string]string),
		revoked: make(map[string]bool),
		tables:  make(map[string][]row),
	}
}

// Secret is the HS256 key access tokens are signed with.
func (m *MemoryBackend) Secret() string { return m.secret }

// SetAppRole writes app_metadata.role for the account with email. Sessions
// issued afterwards carry the role.
func (m *MemoryBackend) SetAppRole(email, role string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[strings.ToLower(email)]
	if !ok {
		return false
	}
	if u.user.AppMetadata == nil {
		u.user.AppMetadata = map[string]interface{}{}
	}
	u.user.AppMetadata["role"] = role
	return true
}

func (m *MemoryBackend) SignUp(ctx context.Context, email, password string, metadata map[string]interface{}) (*models.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(password) < 6 {
		return nil, &APIError{Status: http.StatusUnprocessableEntity, Message: "Password should be at least 6 characters."}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	key := strings.ToLower(email)
	if _, exists := m.users[key]; exists {
		return nil, &APIError{Status: http.StatusUnprocessableEntity, Message: "User already registered"}
	}
	meta := map[string]interface{}{}
	for k, v := range metadata {
		meta[k] = v
	}
	u := &memUser{
		user: models.User{
			ID:           uuid.NewString(),
			Email:        email,
			Role:         tokens.Audience,
			UserMetadata: meta,
			AppMetadata:  map[string]interface{}{"provider": "email"},
		},
		password: password,
	}
	m.users[key] = u
	return m.issueLocked(&u.user)
}

func (m *MemoryBackend) SignIn(ctx context.Context, email, password string) (*models.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[strings.ToLower(email)]
	if !ok || u.password != password {
		return nil, &APIError{Status: http.StatusBadRequest, Message: "Invalid login credentials"}
	}
	return m.issueLocked(&u.user)
}

func (m *MemoryBackend) SignOut(ctx context.Context, accessToken string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if accessToken == "" && m.current != nil {
		accessToken = m.current.AccessToken
	}
	c, err := m.verifyLocked(accessToken)
	if err != nil {
		return err
	}
	m.revoked[accessToken] = true
	for rt, uid := range m.refresh {
		if uid == c.Subject {
			delete(m.refresh, rt)
		}
	}
	m.current = nil
	return nil
}

func (m *MemoryBackend) RefreshSession(ctx context.Context, refreshToken string) (*models.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if refreshToken == "" && m.current != nil {
		refreshToken = m.current.RefreshToken
	}
	uid, ok := m.refresh[refreshToken]
	if !ok {
		return nil, &APIError{Status: http.StatusBadRequest, Message: "Invalid Refresh Token: Refresh Token Not Found"}
	}
	delete(m.refresh, refreshToken)
	u := m.userByIDLocked(uid)
	if u == nil {
		return nil, &APIError{Status: http.StatusNotFound, Message: "User not found"}
	}
	return m.issueLocked(&u.user)
}

func (m *MemoryBackend) GetUser(ctx context.Context, accessToken string) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, err := m.verifyLocked(accessToken)
	if err != nil {
		return nil, err
	}
	u := m.userByIDLocked(c.Subject)
	if u == nil {
		return nil, &APIError{Status: http.StatusNotFound, Message: "User not found"}
	}
	cp := u.user
	return &cp, nil
}

func (m *MemoryBackend) issueLocked(u *models.User) (*models.Session, error) {
	access, err := tokens.Issue(m.secret, u, memoryTokenTTL)
	if err != nil {
		return nil, err
	}
	rt := uuid.NewString()
	m.refresh[rt] = u.ID
	cp := *u
	s := &models.Session{
		AccessToken:  access,
		TokenType:    "bearer",
		ExpiresIn:    int64(memoryTokenTTL / time.Second),
		ExpiresAt:    time.Now().Add(memoryTokenTTL).Unix(),
		RefreshToken: rt,
		User:         &cp,
	}
	m.current = s
	out := *s
	return &out, nil
}

func (m *MemoryBackend) verifyLocked(accessToken string) (*tokens.Claims, error) {
	if accessToken == "" || m.revoked[accessToken] {
		return nil, &APIError{Status: http.StatusUnauthorized, Message: "invalid JWT: session not found"}
	}
	c, err := tokens.Verify(accessToken, m.secret)
	if err != nil {
		return nil, &APIError{Status: http.StatusUnauthorized, Message: "invalid JWT: " + err.Error()}
	}
	return c, nil
}

func (m *MemoryBackend) userByIDLocked(id string) *memUser {
	for _, u := range m.users {
		if u.user.ID == id {
			return u
		}
	}
	return nil
}

func (m *MemoryBackend) Insert(ctx context.Context, table string, v interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r, err := toRow(v)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tables[table] = append(m.tables[table], r)
	return nil
}

func (m *MemoryBackend) Select(ctx context.Context, q Query, dest interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.RLock()
	out := make([]row, 0)
	for _, r := range m.tables[q.Table] {
		if matches(r, q.Filters) {
			out = append(out, project(r, q.Columns))
		}
	}
	m.mu.RUnlock()
	return decodeRows(out, dest)
}

func (m *MemoryBackend) Update(ctx context.Context, q Query, patch interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(q.Filters) == 0 {
		return ErrUnfilteredUpdate
	}
	p, err := toRow(patch)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.tables[q.Table] {
		if !matches(r, q.Filters) {
			continue
		}
		for k, v := range p {
			r[k] = v
		}
	}
	return nil
}

var (
	_ IdentityProvider = (*MemoryBackend)(nil)
	_ TableBackend     = (*MemoryBackend)(nil)
)
