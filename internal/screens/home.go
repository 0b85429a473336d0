package screens

import (
	"context"
	"fmt"

	"github.com/salonbook/salonbook/internal/models"
	"github.com/salonbook/salonbook/internal/uistate"
	"github.com/salonbook/salonbook/internal/users"
)

type HomeView struct {
	State    uistate.State
	Greeting string
	User     *models.User
	IsAdmin  bool
	Menu     []MenuItem
}

type HomeScreen struct {
	scope *Scope
	deps  Deps
}

func NewHomeScreen(parent context.Context, d Deps) *HomeScreen {
	return &HomeScreen{scope: NewScope(parent), deps: d}
}

func (s *HomeScreen) Close() { s.scope.Close() }

func (s *HomeScreen) Load() <-chan HomeView {
	return launch(s.scope, HomeView{State: uistate.Loading{}}, func(ctx context.Context) HomeView {
		u, err := s.deps.Users.Current(ctx)
		if err != nil {
			return HomeView{State: errorState(err), Greeting: greeting(nil), Menu: Menu(false)}
		}
		admin := s.deps.Users.IsAdmin(u)
		return HomeView{
			State:    uistate.Success{},
			Greeting: greeting(u),
			User:     u,
			IsAdmin:  admin,
			Menu:     Menu(admin),
		}
	})
}

// Logout returns to the login screen whatever the result.
func (s *HomeScreen) Logout() <-chan Outcome {
	return launch(s.scope, loadingOutcome(), func(ctx context.Context) Outcome {
		return Outcome{State: s.deps.Auth.Logout(ctx), Navigate: RouteMain}
	})
}

func greeting(u *models.User) string {
	return fmt.Sprintf("Hello, %s!", users.FirstNameOrUnknown(u))
}
