package screens

import (
	"context"
	"fmt"
	"strings"

	"github.com/salonbook/salonbook/internal/booking"
	"github.com/salonbook/salonbook/internal/reservations"
	"github.com/salonbook/salonbook/internal/uistate"
	"github.com/salonbook/salonbook/pkg/logger"
	"github.com/salonbook/salonbook/pkg/metrics"
)

const (
	MsgSubmitted       = "Reservation submitted. It is waiting for confirmation."
	MsgNoReservations  = "You have no reservations."
	placeholderUnknown = "Unknown"
	placeholderNoDesc  = "No description"
)

// ReservationForm is the raw input of the booking form.
type ReservationForm struct {
	Date        string `json:"date"`
	Time        string `json:"time"`
	Description string `json:"description"`
}

// ReservationRow is a reservation prepared for display.
type ReservationRow struct {
	ID            string `json:"id"`
	UserID        string `json:"userId,omitempty"`
	Date          string `json:"date"`
	Time          string `json:"time"`
	Description   string `json:"description"`
	Status        string `json:"status"`
	RejectionNote string `json:"rejectionNote,omitempty"`
}

func rowOf(r reservations.Reservation) ReservationRow {
	row := ReservationRow{
		ID:          r.ID,
		UserID:      r.UserID,
		Date:        r.Date,
		Time:        placeholderUnknown,
		Description: placeholderNoDesc,
		Status:      r.Status().String(),
	}
	if r.Date == "" {
		row.Date = placeholderUnknown
	}
	if r.Time != nil && *r.Time != "" {
		row.Time = *r.Time
	}
	if r.Description != nil && *r.Description != "" {
		row.Description = *r.Description
	}
	return row
}

func rejectionNote(reason string) string {
	return fmt.Sprintf("Rejection reason: %s, please submit your reservation again.", reason)
}

type ListView struct {
	State uistate.State
	Rows  []ReservationRow
	// Empty is set when there is nothing to show.
	Empty string
}

// MakeReservationScreen books a new slot for the signed-in user.
type MakeReservationScreen struct {
	scope *Scope
	deps  Deps
}

func NewMakeReservationScreen(parent context.Context, d Deps) *MakeReservationScreen {
	return &MakeReservationScreen{scope: NewScope(parent), deps: d}
}

func (s *MakeReservationScreen) Close() { s.scope.Close() }

// Submit validates the slot before anything is sent. New reservations are
// pending.
func (s *MakeReservationScreen) Submit(form ReservationForm) <-chan uistate.State {
	return launch[uistate.State](s.scope, uistate.Loading{}, func(ctx context.Context) uistate.State {
		date, at := strings.TrimSpace(form.Date), strings.TrimSpace(form.Time)
		if ok, msg := s.deps.Validator.ValidateStrings(date, at); !ok {
			metrics.BookingRejections.Inc()
			return uistate.Error{Message: msg}
		}
		// both parse after validation
		d, _ := booking.ParseDate(date)
		t, _ := booking.ParseTime(at)

		u, err := s.deps.Users.Current(ctx)
		if err != nil {
			return errorState(err)
		}
		res := reservations.Reservation{
			ID:          reservations.NewID(),
			Date:        d.Format(booking.DateLayout),
			Time:        reservations.StringPtr(t.String()),
			Description: reservations.StringPtr(strings.TrimSpace(form.Description)),
			UserID:      u.ID,
		}
		if err := s.deps.Reservations.Create(ctx, res); err != nil {
			return errorState(err)
		}
		logger.Infof("reservation %s submitted for %s %s", res.ID, res.Date, *res.Time)
		return uistate.Success{Message: MsgSubmitted}
	})
}

// ReservationsScreen lists the signed-in user's reservations.
type ReservationsScreen struct {
	scope *Scope
	deps  Deps
}

func NewReservationsScreen(parent context.Context, d Deps) *ReservationsScreen {
	return &ReservationsScreen{scope: NewScope(parent), deps: d}
}

func (s *ReservationsScreen) Close() { s.scope.Close() }

func (s *ReservationsScreen) Load() <-chan ListView {
	return launch(s.scope, ListView{State: uistate.Loading{}}, func(ctx context.Context) ListView {
		u, err := s.deps.Users.Current(ctx)
		if err != nil {
			return ListView{State: errorState(err)}
		}
		list, err := s.deps.Reservations.ListByUser(ctx, u.ID)
		if err != nil {
			return ListView{State: errorState(err)}
		}
		if len(list) == 0 {
			return ListView{State: uistate.Success{}, Empty: MsgNoReservations}
		}
		rows := make([]ReservationRow, 0, len(list))
		for _, r := range list {
			row := rowOf(r)
			if r.Status() == reservations.StatusRejected {
				reason, err := s.deps.Reservations.Reason(ctx, r.ID)
				if err != nil {
					logger.Warnf("reason of %s unavailable: %v", r.ID, err)
				} else if reason != "" {
					row.RejectionNote = rejectionNote(reason)
				}
			}
			rows = append(rows, row)
		}
		return ListView{State: uistate.Success{}, Rows: rows}
	})
}
