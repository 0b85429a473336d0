package reservations

import (
	"context"
	"errors"
	"fmt"

	"github.com/salonbook/salonbook/internal/gateway"
	"github.com/salonbook/salonbook/pkg/logger"
)

var ErrNotFound = errors.New("reservation not found")

// Repository is a thin typed layer over the Reservations table. Every method
// returns the backend error wrapped; callers decide how to show it.
type Repository struct {
	tables gateway.TableBackend
}

func NewRepository(t gateway.TableBackend) *Repository {
	return &Repository{tables: t}
}

func (r *Repository) from() *gateway.QueryBuilder {
	return gateway.From(r.tables, Table)
}

// Create inserts res as given; the caller sets the id and status.
func (r *Repository) Create(ctx context.Context, res Reservation) error {
	if res.ID == "" {
		return errors.New("create reservation: missing reservation_id")
	}
	if err := r.from().Insert(ctx, res); err != nil {
		logger.Errorf("create reservation %s: %v", res.ID, err)
		return fmt.Errorf("create reservation: %w", err)
	}
	return nil
}

func (r *Repository) ListByUser(ctx context.Context, userID string) ([]Reservation, error) {
	var out []Reservation
	if err := r.from().Eq("user_id", userID).Select(ctx, &out); err != nil {
		logger.Errorf("list reservations of %s: %v", userID, err)
		return nil, fmt.Errorf("list reservations: %w", err)
	}
	return out, nil
}

// ListAll reads the whole table. There is no paging.
func (r *Repository) ListAll(ctx context.Context) ([]Reservation, error) {
	var out []Reservation
	if err := r.from().Select(ctx, &out); err != nil {
		logger.Errorf("list all reservations: %v", err)
		return nil, fmt.Errorf("list all reservations: %w", err)
	}
	return out, nil
}

// UpdateStatus records an accept or reject decision. Concurrent decisions
// on the same id are last write wins.
func (r *Repository) UpdateStatus(ctx context.Context, id string, accepted bool, reason *string) error {
	patch := StatusUpdate{IsAccepted: accepted, Reason: reason}
	if err := r.from().Eq("reservation_id", id).Update(ctx, patch); err != nil {
		logger.Errorf("update reservation %s: %v", id, err)
		return fmt.Errorf("update reservation status: %w", err)
	}
	logger.Debugf("reservation %s updated: accepted=%t", id, accepted)
	return nil
}

// Reason fetches only the reason column. A null reason yields "".
func (r *Repository) Reason(ctx context.Context, id string) (string, error) {
	var rows []struct {
		Reason *string `json:"reason"`
	}
	if err := r.from().Columns("reason").Eq("reservation_id", id).Select(ctx, &rows); err != nil {
		logger.Errorf("fetch reason of %s: %v", id, err)
		return "", fmt.Errorf("fetch reservation reason: %w", err)
	}
	if len(rows) == 0 {
		return "", ErrNotFound
	}
	if rows[0].Reason == nil {
		return "", nil
	}
	return *rows[0].Reason, nil
}
