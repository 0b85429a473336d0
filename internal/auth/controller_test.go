package auth

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/salonbook/salonbook/internal/gateway"
	"github.com/salonbook/salonbook/internal/models"
	"github.com/salonbook/salonbook/internal/sessions"
	"github.com/salonbook/salonbook/internal/uistate"
	"github.com/stretchr/testify/require"
)

func newController(t *testing.T) (*Controller, *gateway.MemoryBackend, *sessions.Service) {
	t.Helper()
	backend := gateway.NewMemoryBackend("")
	sess := sessions.NewService(sessions.NewMemoryStore())
	return NewController(backend, sess), backend, sess
}

func TestValidEmail(t *testing.T) {
	cases := map[string]bool{
		"a@b.c":             true,
		"a.b@c":             true,
		"user+tag@test.com": true,
		"a@@b.com":          false,
		"noatsign.com":      false,
		"@b.com":            false,
		"a@":                false,
		"a b@c.com":         false,
		"ą@b.com":           false,
	}
	for in, want := range cases {
		require.Equal(t, want, ValidEmail(in), in)
	}
}

func TestSignUpThenIsUserLoggedIn(t *testing.T) {
	c, _, sess := newController(t)
	ctx := context.Background()

	st := c.SignUp(ctx, "user@test.com", "pw123456", "Jan", "Kowalski")
	require.Equal(t, uistate.Success{Message: MsgRegistered, IsRegistration: true}, st)
	require.Equal(t, st, c.State().Current())

	tok, err := sess.AccessToken(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	st = c.IsUserLoggedIn(ctx)
	require.Equal(t, uistate.Success{Message: MsgAlreadyLoggedIn}, st)

	refreshed, err := sess.AccessToken(ctx)
	require.NoError(t, err)
	require.NotEqual(t, tok, refreshed, "refresh re-persists a new token")
}

func TestSignUp_InvalidEmailMakesNoCall(t *testing.T) {
	idp := &countingIDP{}
	c := NewController(idp, sessions.NewService(sessions.NewMemoryStore()))
	st := c.SignUp(context.Background(), "a@@b.com", "pw123456", "", "")
	require.Equal(t, uistate.Error{Message: MsgInvalidEmail}, st)
	require.Zero(t, idp.calls)
}

func TestSignUp_ProviderError(t *testing.T) {
	c, _, _ := newController(t)
	st := c.SignUp(context.Background(), "user@test.com", "123", "", "")
	require.Equal(t, uistate.Error{Message: "Error: Password should be at least 6 characters."}, st)
}

func TestSignUp_PendingConfirmation(t *testing.T) {
	idp := &countingIDP{}
	sess := sessions.NewService(sessions.NewMemoryStore())
	c := NewController(idp, sess)
	st := c.SignUp(context.Background(), "user@test.com", "pw123456", "", "")
	require.Equal(t, uistate.Success{Message: MsgRegistered, IsRegistration: true}, st)
	_, err := sess.AccessToken(context.Background())
	require.ErrorIs(t, err, sessions.ErrNotLoggedIn)
}

func TestLogin(t *testing.T) {
	c, backend, sess := newController(t)
	ctx := context.Background()
	_, err := backend.SignUp(ctx, "user@test.com", "pw123456", nil)
	require.NoError(t, err)

	st := c.Login(ctx, "user@test.com", "wrong-pass")
	require.Equal(t, uistate.Error{Message: "Error: Invalid login credentials"}, st)
	_, err = sess.AccessToken(ctx)
	require.ErrorIs(t, err, sessions.ErrNotLoggedIn)

	// no client-side validation on login
	st = c.Login(ctx, "not-an-email", "pw123456")
	require.IsType(t, uistate.Error{}, st)

	st = c.Login(ctx, "user@test.com", "pw123456")
	require.Equal(t, uistate.Success{Message: MsgLoggedIn}, st)
	_, err = sess.AccessToken(ctx)
	require.NoError(t, err)
}

func TestLogoutTwice(t *testing.T) {
	c, _, sess := newController(t)
	ctx := context.Background()
	require.IsType(t, uistate.Success{}, c.SignUp(ctx, "user@test.com", "pw123456", "", ""))

	require.Equal(t, uistate.Success{Message: MsgLoggedOut}, c.Logout(ctx))
	_, err := sess.AccessToken(ctx)
	require.ErrorIs(t, err, sessions.ErrNotLoggedIn)

	require.Equal(t, uistate.Error{Message: MsgCannotLogout}, c.Logout(ctx))
}

func TestLogout_ProviderFailureStillClears(t *testing.T) {
	c, _, sess := newController(t)
	ctx := context.Background()
	require.NoError(t, sess.SaveSession(ctx, &models.Session{AccessToken: "forged", RefreshToken: "r"}))

	st := c.Logout(ctx)
	require.IsType(t, uistate.Error{}, st)
	_, err := sess.AccessToken(ctx)
	require.ErrorIs(t, err, sessions.ErrNotLoggedIn)
}

func TestIsUserLoggedIn_Failures(t *testing.T) {
	c, _, sess := newController(t)
	ctx := context.Background()

	require.Equal(t, uistate.Error{Message: MsgNotLoggedIn}, c.IsUserLoggedIn(ctx))

	require.NoError(t, sess.SaveSession(ctx, &models.Session{AccessToken: "garbage"}))
	st := c.IsUserLoggedIn(ctx)
	require.IsType(t, uistate.Error{}, st)
	require.Contains(t, uistate.Message(st), "Error: ")
}

func TestIsUserLoggedIn_AcrossRestart(t *testing.T) {
	backend := gateway.NewMemoryBackend("")
	path := filepath.Join(t.TempDir(), "prefs.yaml")
	ctx := context.Background()

	first := NewController(backend, sessions.NewService(sessions.NewFileStore(path)))
	require.IsType(t, uistate.Success{}, first.SignUp(ctx, "user@test.com", "pw123456", "", ""))

	second := NewController(backend, sessions.NewService(sessions.NewFileStore(path)))
	require.Equal(t, uistate.Success{Message: MsgAlreadyLoggedIn}, second.IsUserLoggedIn(ctx))
}

func TestStateTransitions(t *testing.T) {
	c, _, _ := newController(t)
	ch, cancel := c.State().Subscribe(8)
	defer cancel()

	c.Logout(context.Background())
	require.Equal(t, uistate.Loading{}, <-ch)
	require.Equal(t, uistate.Error{Message: MsgCannotLogout}, <-ch)
}

func TestSessionStoreErrorBecomesErrorState(t *testing.T) {
	backend := gateway.NewMemoryBackend("")
	c := NewController(backend, sessions.NewService(brokenStore{}))
	st := c.SignUp(context.Background(), "user@test.com", "pw123456", "", "")
	require.Equal(t, uistate.Error{Message: "Error: save access token: read-only"}, st)
}

type brokenStore struct{}

func (brokenStore) Save(ctx context.Context, key, value string) error { return errors.New("read-only") }
func (brokenStore) Get(ctx context.Context, key string) (string, bool, error) {
	return "", false, nil
}
func (brokenStore) Clear(ctx context.Context) error { return nil }

// countingIDP answers sign-up without a session, like a project that
// requires email confirmation.
type countingIDP struct{ calls int }

func (f *countingIDP) SignUp(ctx context.Context, email, password string, metadata map[string]interface{}) (*models.Session, error) {
	f.calls++
	return nil, nil
}
func (f *countingIDP) SignIn(ctx context.Context, email, password string) (*models.Session, error) {
	f.calls++
	return nil, errors.New("unused")
}
func (f *countingIDP) SignOut(ctx context.Context, accessToken string) error {
	f.calls++
	return nil
}
func (f *countingIDP) RefreshSession(ctx context.Context, refreshToken string) (*models.Session, error) {
	f.calls++
	return nil, errors.New("unused")
}
func (f *countingIDP) GetUser(ctx context.Context, accessToken string) (*models.User, error) {
	f.calls++
	return nil, errors.New("unused")
}
