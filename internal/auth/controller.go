// Package auth drives sign-up, login, logout and the "already logged in"
// check, publishing each outcome as a uistate.State.
package auth

import (
	"context"
	"errors"
	"regexp"

	"github.com/salonbook/salonbook/internal/gateway"
	"github.com/salonbook/salonbook/internal/sessions"
	"github.com/salonbook/salonbook/internal/uistate"
	"github.com/salonbook/salonbook/pkg/logger"
	"github.com/salonbook/salonbook/pkg/metrics"
)

const (
	MsgInvalidEmail    = "Invalid email format."
	MsgRegistered      = "Registered user successfully!"
	MsgLoggedIn        = "Logged in successfully!"
	MsgCannotLogout    = "You cannot log out, you are not logged in!"
	MsgLoggedOut       = "Logged out."
	MsgNotLoggedIn     = "User is not logged in!"
	MsgAlreadyLoggedIn = "User is already logged in!"
)

var emailPattern = regexp.MustCompile(`^[A-Za-z0-9+_.-]+@[A-Za-z0-9.-]+$`)

// ValidEmail only checks local-part@domain with the allowed characters.
func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// Controller is shared by every screen. Operations are not serialized: when
// two overlap, whichever finishes last owns the published state.
type Controller struct {
	idp      gateway.IdentityProvider
	sessions *sessions.Service
	state    *uistate.Holder
}

func NewController(idp gateway.IdentityProvider, s *sessions.Service) *Controller {
	return &Controller{idp: idp, sessions: s, state: uistate.NewHolder()}
}

// State is the observable result of the latest operation.
func (c *Controller) State() *uistate.Holder { return c.state }

func (c *Controller) SignUp(ctx context.Context, email, password, firstName, lastName string) uistate.State {
	c.state.Set(uistate.Loading{})
	if !ValidEmail(email) {
		return c.finish("signup", uistate.Error{Message: MsgInvalidEmail})
	}
	meta := map[string]interface{}{}
	if firstName != "" {
		meta["first_name"] = firstName
	}
	if lastName != "" {
		meta["last_name"] = lastName
	}
	sess, err := c.idp.SignUp(ctx, email, password, meta)
	if err != nil {
		return c.finish("signup", failure(err))
	}
	if sess == nil {
		logger.Warnf("sign-up of %s returned no session; email confirmation is probably required", email)
	} else if err := c.sessions.SaveSession(ctx, sess); err != nil {
		return c.finish("signup", failure(err))
	}
	return c.finish("signup", uistate.Success{Message: MsgRegistered, IsRegistration: true})
}

func (c *Controller) Login(ctx context.Context, email, password string) uistate.State {
	c.state.Set(uistate.Loading{})
	sess, err := c.idp.SignIn(ctx, email, password)
	if err != nil {
		return c.finish("login", failure(err))
	}
	if err := c.sessions.SaveSession(ctx, sess); err != nil {
		return c.finish("login", failure(err))
	}
	return c.finish("login", uistate.Success{Message: MsgLoggedIn})
}

// Logout signs out at the provider and clears the local store. The store is
// cleared even when the provider call fails so a dead token cannot pin the
// user to a session.
func (c *Controller) Logout(ctx context.Context) uistate.State {
	c.state.Set(uistate.Loading{})
	tok, err := c.sessions.AccessToken(ctx)
	if errors.Is(err, sessions.ErrNotLoggedIn) {
		return c.finish("logout", uistate.Error{Message: MsgCannotLogout})
	}
	if err != nil {
		return c.finish("logout", failure(err))
	}
	signOutErr := c.idp.SignOut(ctx, tok)
	if err := c.sessions.Clear(ctx); err != nil {
		return c.finish("logout", failure(err))
	}
	if signOutErr != nil {
		return c.finish("logout", failure(signOutErr))
	}
	return c.finish("logout", uistate.Success{Message: MsgLoggedOut})
}

// IsUserLoggedIn re-validates the cached token: the provider must recognise
// it and the refresh must succeed. Any failure is reported the same way.
func (c *Controller) IsUserLoggedIn(ctx context.Context) uistate.State {
	c.state.Set(uistate.Loading{})
	tok, err := c.sessions.AccessToken(ctx)
	if errors.Is(err, sessions.ErrNotLoggedIn) {
		return c.finish("status", uistate.Error{Message: MsgNotLoggedIn})
	}
	if err != nil {
		return c.finish("status", failure(err))
	}
	if _, err := c.idp.GetUser(ctx, tok); err != nil {
		return c.finish("status", failure(err))
	}
	refresh, err := c.sessions.RefreshToken(ctx)
	if err != nil {
		return c.finish("status", failure(err))
	}
	sess, err := c.idp.RefreshSession(ctx, refresh)
	if err != nil {
		return c.finish("status", failure(err))
	}
	if err := c.sessions.SaveSession(ctx, sess); err != nil {
		return c.finish("status", failure(err))
	}
	return c.finish("status", uistate.Success{Message: MsgAlreadyLoggedIn})
}

func (c *Controller) finish(op string, s uistate.State) uistate.State {
	if e, ok := s.(uistate.Error); ok {
		logger.Debugf("auth %s failed: %s", op, e.Message)
	}
	metrics.AuthResults.WithLabelValues(op, uistate.Kind(s)).Inc()
	c.state.Set(s)
	return s
}

func failure(err error) uistate.State {
	return uistate.Error{Message: "Error: " + err.Error()}
}
