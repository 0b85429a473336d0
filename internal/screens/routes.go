package screens

import (
	"github.com/salonbook/salonbook/internal/auth"
	"github.com/salonbook/salonbook/internal/booking"
	"github.com/salonbook/salonbook/internal/reservations"
	"github.com/salonbook/salonbook/internal/uistate"
	"github.com/salonbook/salonbook/internal/users"
)

// Route names a screen. Controllers return routes; the shell navigates.
type Route string

const (
	RouteMain            Route = "main"
	RouteRegister        Route = "register"
	RouteHome            Route = "home"
	RouteMakeReservation Route = "make_reservation"
	RouteReservations    Route = "reservations"
	RouteAdminPanel      Route = "admin_panel"
)

type MenuItem struct {
	Label string `json:"label"`
	Route Route  `json:"route"`
}

// Menu is the drawer content. The admin entry only hides navigation.
func Menu(isAdmin bool) []MenuItem {
	items := []MenuItem{
		{Label: "Home", Route: RouteHome},
		{Label: "Make a reservation", Route: RouteMakeReservation},
		{Label: "My reservations", Route: RouteReservations},
	}
	if isAdmin {
		items = append(items, MenuItem{Label: "Admin panel", Route: RouteAdminPanel})
	}
	return items
}

// Deps are the collaborators shared by all screens.
type Deps struct {
	Auth         *auth.Controller
	Users        *users.Service
	Reservations *reservations.Repository
	Validator    *booking.Validator
}

// Outcome is an auth result plus where to go next ("" to stay).
type Outcome struct {
	State    uistate.State
	Navigate Route
}

func loadingOutcome() Outcome { return Outcome{State: uistate.Loading{}} }

// homeOnLogin sends the user home after a login or a valid cached session,
// but not after registering.
func homeOnLogin(st uistate.State) Outcome {
	if v, ok := st.(uistate.Success); ok && !v.IsRegistration {
		return Outcome{State: st, Navigate: RouteHome}
	}
	return Outcome{State: st}
}

func errorState(err error) uistate.State {
	return uistate.Error{Message: "Error: " + err.Error()}
}
