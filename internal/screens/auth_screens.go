package screens

import (
	"context"
)

// MainScreen is the login screen shown at start-up.
type MainScreen struct {
	scope *Scope
	deps  Deps
}

func NewMainScreen(parent context.Context, d Deps) *MainScreen {
	return &MainScreen{scope: NewScope(parent), deps: d}
}

func (s *MainScreen) Close() { s.scope.Close() }

// Mount checks the cached session; a valid one navigates home.
func (s *MainScreen) Mount() <-chan Outcome {
	return launch(s.scope, loadingOutcome(), func(ctx context.Context) Outcome {
		return homeOnLogin(s.deps.Auth.IsUserLoggedIn(ctx))
	})
}

func (s *MainScreen) Login(email, password string) <-chan Outcome {
	return launch(s.scope, loadingOutcome(), func(ctx context.Context) Outcome {
		return homeOnLogin(s.deps.Auth.Login(ctx, email, password))
	})
}

func (s *MainScreen) SignUp() Route { return RouteRegister }

// RegisterScreen collects the sign-up form.
type RegisterScreen struct {
	scope *Scope
	deps  Deps
}

func NewRegisterScreen(parent context.Context, d Deps) *RegisterScreen {
	return &RegisterScreen{scope: NewScope(parent), deps: d}
}

func (s *RegisterScreen) Close() { s.scope.Close() }

func (s *RegisterScreen) Mount() <-chan Outcome {
	return launch(s.scope, loadingOutcome(), func(ctx context.Context) Outcome {
		return homeOnLogin(s.deps.Auth.IsUserLoggedIn(ctx))
	})
}

// SignUp stays on the screen after success so the message can be read.
func (s *RegisterScreen) SignUp(email, password, firstName, lastName string) <-chan Outcome {
	return launch(s.scope, loadingOutcome(), func(ctx context.Context) Outcome {
		return homeOnLogin(s.deps.Auth.SignUp(ctx, email, password, firstName, lastName))
	})
}

func (s *RegisterScreen) BackToLogin() Route { return RouteMain }
