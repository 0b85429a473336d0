package sessions

import (
	"context"
	"errors"
	"testing"

	"github.com/salonbook/salonbook/internal/models"
	"github.com/stretchr/testify/require"
)

// failing store for error paths
type brokenStore struct{}

func (brokenStore) Save(ctx context.Context, key, value string) error { return errors.New("disk full") }
func (brokenStore) Get(ctx context.Context, key string) (string, bool, error) {
	return "", false, errors.New("disk gone")
}
func (brokenStore) Clear(ctx context.Context) error { return nil }

func TestService_SaveReadClear(t *testing.T) {
	svc := NewService(NewMemoryStore())
	ctx := context.Background()

	_, err := svc.AccessToken(ctx)
	require.ErrorIs(t, err, ErrNotLoggedIn)
	_, ok := svc.Token(ctx)
	require.False(t, ok)

	require.NoError(t, svc.SaveSession(ctx, &models.Session{AccessToken: "a1", RefreshToken: "r1"}))
	at, err := svc.AccessToken(ctx)
	require.NoError(t, err)
	require.Equal(t, "a1", at)
	rt, err := svc.RefreshToken(ctx)
	require.NoError(t, err)
	require.Equal(t, "r1", rt)

	// overwrite on the next login
	require.NoError(t, svc.SaveSession(ctx, &models.Session{AccessToken: "a2", RefreshToken: "r2"}))
	at, _ = svc.AccessToken(ctx)
	require.Equal(t, "a2", at)

	require.NoError(t, svc.Clear(ctx))
	_, err = svc.AccessToken(ctx)
	require.ErrorIs(t, err, ErrNotLoggedIn)
	rt, err = svc.RefreshToken(ctx)
	require.NoError(t, err)
	require.Equal(t, "", rt)
}

func TestService_RejectsEmptySession(t *testing.T) {
	svc := NewService(NewMemoryStore())
	require.Error(t, svc.SaveSession(context.Background(), nil))
	require.Error(t, svc.SaveSession(context.Background(), &models.Session{}))
}

func TestService_StoreErrors(t *testing.T) {
	svc := NewService(brokenStore{})
	ctx := context.Background()
	require.Error(t, svc.SaveSession(ctx, &models.Session{AccessToken: "a"}))
	_, err := svc.AccessToken(ctx)
	require.Error(t, err)
	require.False(t, errors.Is(err, ErrNotLoggedIn))
}
