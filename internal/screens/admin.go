package screens

import (
	"context"
	"errors"
	"strings"

	"github.com/salonbook/salonbook/internal/reservations"
	"github.com/salonbook/salonbook/internal/uistate"
	"github.com/salonbook/salonbook/pkg/metrics"
)

const (
	MsgAdminOnly      = "Only administrators can open the admin panel."
	MsgNoneFound      = "No reservations found."
	MsgAccepted       = "Reservation accepted."
	MsgRejected       = "Reservation rejected."
	MsgReasonRequired = "Please enter a rejection reason."
	MsgMissingID      = "Reservation id is required."
)

// ErrNotAdmin is returned by the admin gate.
var ErrNotAdmin = errors.New("not an administrator")

// AdminPanelScreen shows every reservation and records decisions.
type AdminPanelScreen struct {
	scope *Scope
	deps  Deps
}

func NewAdminPanelScreen(parent context.Context, d Deps) *AdminPanelScreen {
	return &AdminPanelScreen{scope: NewScope(parent), deps: d}
}

func (s *AdminPanelScreen) Close() { s.scope.Close() }

// gate only keeps non-admins out of the screen; the backend must still
// restrict updates.
func (s *AdminPanelScreen) gate(ctx context.Context) (uistate.State, error) {
	u, err := s.deps.Users.Current(ctx)
	if err != nil {
		return errorState(err), err
	}
	if !s.deps.Users.IsAdmin(u) {
		return uistate.Error{Message: MsgAdminOnly}, ErrNotAdmin
	}
	return nil, nil
}

func (s *AdminPanelScreen) Load() <-chan ListView {
	return launch(s.scope, ListView{State: uistate.Loading{}}, func(ctx context.Context) ListView {
		if st, err := s.gate(ctx); err != nil {
			return ListView{State: st}
		}
		list, err := s.deps.Reservations.ListAll(ctx)
		if err != nil {
			return ListView{State: errorState(err)}
		}
		if len(list) == 0 {
			return ListView{State: uistate.Success{}, Empty: MsgNoneFound}
		}
		rows := make([]ReservationRow, 0, len(list))
		for _, r := range list {
			rows = append(rows, rowOf(r))
		}
		return ListView{State: uistate.Success{}, Rows: rows}
	})
}

func (s *AdminPanelScreen) Accept(id string) <-chan uistate.State {
	return s.decide(id, true, "")
}

// Reject requires a non-blank reason; it is shown to the customer.
func (s *AdminPanelScreen) Reject(id, reason string) <-chan uistate.State {
	return s.decide(id, false, reason)
}

func (s *AdminPanelScreen) decide(id string, accept bool, reason string) <-chan uistate.State {
	return launch[uistate.State](s.scope, uistate.Loading{}, func(ctx context.Context) uistate.State {
		id, reason := strings.TrimSpace(id), strings.TrimSpace(reason)
		if id == "" {
			return uistate.Error{Message: MsgMissingID}
		}
		if !accept && reason == "" {
			return uistate.Error{Message: MsgReasonRequired}
		}
		if st, err := s.gate(ctx); err != nil {
			return st
		}
		if err := s.deps.Reservations.UpdateStatus(ctx, id, accept, reservations.StringPtr(reason)); err != nil {
			return errorState(err)
		}
		if accept {
			metrics.ReservationDecisions.WithLabelValues("accepted").Inc()
			return uistate.Success{Message: MsgAccepted}
		}
		metrics.ReservationDecisions.WithLabelValues("rejected").Inc()
		return uistate.Success{Message: MsgRejected}
	})
}
