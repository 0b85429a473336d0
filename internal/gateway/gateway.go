// Package gateway is the client side of the hosted backend: an identity
// provider and a small table API. Callers receive these as interfaces so
// tests can substitute the in-process MemoryBackend.
package gateway

import (
	"context"
	"errors"
	"fmt"

	"github.com/salonbook/salonbook/internal/models"
)

// IdentityProvider issues and validates user sessions.
type IdentityProvider interface {
	SignUp(ctx context.Context, email, password string, metadata map[string]interface{}) (*models.Session, error)
	SignIn(ctx context.Context, email, password string) (*models.Session, error)
	SignOut(ctx context.Context, accessToken string) error
	RefreshSession(ctx context.Context, refreshToken string) (*models.Session, error)
	GetUser(ctx context.Context, accessToken string) (*models.User, error)
}

// Filter is an equality condition on one column.
type Filter struct {
	Column string
	Value  interface{}
}

// Query names a table, an optional column projection and equality filters.
type Query struct {
	Table   string
	Columns []string
	Filters []Filter
}

// TableBackend stores rows. Rows and patches are any JSON-encodable value;
// Select decodes into dest, which must be a pointer to a slice.
type TableBackend interface {
	Insert(ctx context.Context, table string, row interface{}) error
	Select(ctx context.Context, q Query, dest interface{}) error
	Update(ctx context.Context, q Query, patch interface{}) error
}

// ErrUnfilteredUpdate guards against patching every row of a table.
var ErrUnfilteredUpdate = errors.New("update without filter")

// APIError is a non-2xx answer from the backend.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend returned status %d", e.Status)
	}
	return e.Message
}

// QueryBuilder mirrors the from(table).filter().select() style of the
// backend client libraries.
type QueryBuilder struct {
	backend TableBackend
	q       Query
}

func From(b TableBackend, table string) *QueryBuilder {
	return &QueryBuilder{backend: b, q: Query{Table: table}}
}

func (b *QueryBuilder) Columns(cols ...string) *QueryBuilder {
	b.q.Columns = append(b.q.Columns, cols...)
	return b
}

func (b *QueryBuilder) Eq(col string, v interface{}) *QueryBuilder {
	b.q.Filters = append(b.q.Filters, Filter{Column: col, Value: v})
	return b
}

func (b *QueryBuilder) Insert(ctx context.Context, row interface{}) error {
	return b.backend.Insert(ctx, b.q.Table, row)
}

func (b *QueryBuilder) Select(ctx context.Context, dest interface{}) error {
	return b.backend.Select(ctx, b.q, dest)
}

func (b *QueryBuilder) Update(ctx context.Context, patch interface{}) error {
	if len(b.q.Filters) == 0 {
		return ErrUnfilteredUpdate
	}
	return b.backend.Update(ctx, b.q, patch)
}
