package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/salonbook/salonbook/internal/models"
	"github.com/salonbook/salonbook/pkg/metrics"
)

var (
	ErrNotConfigured = errors.New("backend URL is not configured")
	ErrNoSession     = errors.New("no active session")
)

// Config configures the REST client.
type Config struct {
	URL        string
	APIKey     string
	HTTPClient *http.Client
	// AccessToken supplies the bearer for table calls when this process has
	// not signed in itself, e.g. a token cached by an earlier run.
	AccessToken func(ctx context.Context) (string, bool)
}

// Client talks to the hosted backend over its REST API: /auth/v1 for
// identity and /rest/v1 for tables. It keeps the last session it obtained.
type Client struct {
	baseURL     string
	apiKey      string
	http        *http.Client
	tokenSource func(ctx context.Context) (string, bool)

	mu      sync.RWMutex
	session *models.Session
}

func New(cfg Config) *Client {
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{}
	}
	return &Client{
		baseURL:     strings.TrimRight(cfg.URL, "/"),
		apiKey:      cfg.APIKey,
		http:        hc,
		tokenSource: cfg.AccessToken,
	}
}

func (c *Client) SignUp(ctx context.Context, email, password string, metadata map[string]interface{}) (*models.Session, error) {
	body := map[string]interface{}{"email": email, "password": password}
	if len(metadata) > 0 {
		body["data"] = metadata
	}
	var s models.Session
	if err := c.do(ctx, "signup", http.MethodPost, "/auth/v1/signup", nil, "", body, &s); err != nil {
		return nil, err
	}
	// projects with email confirmation answer with the bare user
	if s.AccessToken == "" {
		return nil, nil
	}
	c.setSession(&s)
	return &s, nil
}

func (c *Client) SignIn(ctx context.Context, email, password string) (*models.Session, error) {
	q := url.Values{"grant_type": {"password"}}
	body := map[string]string{"email": email, "password": password}
	var s models.Session
	if err := c.do(ctx, "signin", http.MethodPost, "/auth/v1/token", q, "", body, &s); err != nil {
		return nil, err
	}
	c.setSession(&s)
	return &s, nil
}

// RefreshSession exchanges refreshToken, or the current session's one when
// empty, for a new session.
func (c *Client) RefreshSession(ctx context.Context, refreshToken string) (*models.Session, error) {
	if refreshToken == "" {
		if cur := c.currentSession(); cur != nil {
			refreshToken = cur.RefreshToken
		}
	}
	if refreshToken == "" {
		return nil, ErrNoSession
	}
	q := url.Values{"grant_type": {"refresh_token"}}
	body := map[string]string{"refresh_token": refreshToken}
	var s models.Session
	if err := c.do(ctx, "refresh", http.MethodPost, "/auth/v1/token", q, "", body, &s); err != nil {
		return nil, err
	}
	c.setSession(&s)
	return &s, nil
}

func (c *Client) SignOut(ctx context.Context, accessToken string) error {
	if accessToken == "" {
		if cur := c.currentSession(); cur != nil {
			accessToken = cur.AccessToken
		}
	}
	if accessToken == "" {
		return ErrNoSession
	}
	err := c.do(ctx, "signout", http.MethodPost, "/auth/v1/logout", nil, accessToken, nil, nil)
	// Forgotten on failure too; the caller clears its store either way.
	c.setSession(nil)
	return err
}

func (c *Client) GetUser(ctx context.Context, accessToken string) (*models.User, error) {
	var u models.User
	if err := c.do(ctx, "get_user", http.MethodGet, "/auth/v1/user", nil, accessToken, nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// currentSession returns a copy of the session obtained by this client, or nil.
func (c *Client) currentSession() *models.Session {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.session == nil {
		return nil
	}
	s := *c.session
	return &s
}

func (c *Client) setSession(s *models.Session) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.session = s
}

func (c *Client) Insert(ctx context.Context, table string, row interface{}) error {
	return c.doTable(ctx, "insert", http.MethodPost, table, nil, row, nil)
}

func (c *Client) Select(ctx context.Context, q Query, dest interface{}) error {
	v := filterValues(q.Filters)
	cols := "*"
	if len(q.Columns) > 0 {
		cols = strings.Join(q.Columns, ",")
	}
	v.Set("select", cols)
	return c.doTable(ctx, "select", http.MethodGet, q.Table, v, nil, dest)
}

func (c *Client) Update(ctx context.Context, q Query, patch interface{}) error {
	if len(q.Filters) == 0 {
		return ErrUnfilteredUpdate
	}
	return c.doTable(ctx, "update", http.MethodPatch, q.Table, filterValues(q.Filters), patch, nil)
}

func (c *Client) doTable(ctx context.Context, op, method, table string, q url.Values, body, out interface{}) error {
	path := "/rest/v1/" + url.PathEscape(table)
	if out == nil {
		return c.do(ctx, op, method, path, q, c.tableBearer(ctx), body, nil, "return=minimal")
	}
	return c.do(ctx, op, method, path, q, c.tableBearer(ctx), body, out)
}

func (c *Client) tableBearer(ctx context.Context) string {
	if cur := c.currentSession(); cur != nil && cur.AccessToken != "" {
		return cur.AccessToken
	}
	if c.tokenSource != nil {
		if tok, ok := c.tokenSource(ctx); ok {
			return tok
		}
	}
	return ""
}

func filterValues(filters []Filter) url.Values {
	v := url.Values{}
	for _, f := range filters {
		if f.Value == nil {
			v.Add(f.Column, "is.null")
			continue
		}
		v.Add(f.Column, "eq."+fmt.Sprint(f.Value))
	}
	return v
}

func (c *Client) do(ctx context.Context, op, method, path string, q url.Values, bearer string, body, out interface{}, prefer ...string) (err error) {
	start := time.Now()
	defer func() {
		outcome := "ok"
		if err != nil {
			outcome = "error"
		}
		metrics.GatewayRequests.WithLabelValues(op, outcome).Inc()
		metrics.GatewayLatency.WithLabelValues(op).Observe(time.Since(start).Seconds())
	}()

	if c.baseURL == "" {
		return ErrNotConfigured
	}
	u := c.baseURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: encode body: %w", op, err)
		}
		rdr = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, rdr)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if bearer == "" {
		bearer = c.apiKey
	}
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+bearer)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if len(prefer) > 0 {
		req.Header.Set("Prefer", strings.Join(prefer, ","))
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s: read response: %w", op, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeAPIError(resp.StatusCode, data)
	}
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%s: decode response: %w", op, err)
	}
	return nil
}

// decodeAPIError picks the message out of the auth or table API error body.
func decodeAPIError(status int, body []byte) *APIError {
	e := &APIError{Status: status}
	var m map[string]interface{}
	if json.Unmarshal(body, &m) == nil {
		for _, k := range []string{"msg", "message", "error_description", "error"} {
			if s, ok := m[k].(string); ok && s != "" {
				e.Message = s
				return e
			}
		}
	}
	if t := strings.TrimSpace(string(body)); t != "" && len(t) < 200 {
		e.Message = t
	} else {
		e.Message = http.StatusText(status)
	}
	return e
}

var (
	_ IdentityProvider = (*Client)(nil)
	_ TableBackend     = (*Client)(nil)
)
