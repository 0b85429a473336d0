package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRetry_SucceedsAfterFailures(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), "test", 3, time.Millisecond, func() error {
		calls++
		if calls < 3 {
			return errors.New("down")
		}
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, 3, calls)
}

func TestRetry_GivesUp(t *testing.T) {
	down := errors.New("down")
	calls := 0
	err := Retry(context.Background(), "test", 2, time.Millisecond, func() error {
		calls++
		return down
	})
	require.ErrorIs(t, err, down)
	require.Equal(t, 2, calls)
}

func TestRetry_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := Retry(ctx, "test", 5, time.Hour, func() error { return errors.New("down") })
	require.ErrorIs(t, err, context.Canceled)
}

func TestConnectPostgres_BadDSN(t *testing.T) {
	_, err := ConnectPostgres(context.Background(), "://not a dsn", 1)
	require.Error(t, err)
}
