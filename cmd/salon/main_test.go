package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/salonbook/salonbook/internal/app"
	"github.com/salonbook/salonbook/internal/config"
	"github.com/salonbook/salonbook/internal/gateway"
	"github.com/stretchr/testify/require"
)

// newTestCLI shares one in-memory app across invocations, like one user's
// machine across several commands.
func newTestCLI(t *testing.T) (*cli, *bytes.Buffer) {
	t.Helper()
	cfg := &config.Config{
		Session: config.SessionConfig{Driver: "file", Path: filepath.Join(t.TempDir(), "prefs.yaml")},
		Tables:  config.TablesConfig{Driver: "memory"},
		Admin:   config.AdminConfig{Role: "admin"},
	}
	a, err := app.New(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(a.Close)

	out := &bytes.Buffer{}
	return &cli{out: out, newApp: func(context.Context, string) (*app.App, error) { return a, nil }}, out
}

func run(c *cli, out *bytes.Buffer, args ...string) (string, error) {
	out.Reset()
	root := newRootCmd(c)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	c.stopWatching()
	return out.String(), err
}

func TestCLI_Flow(t *testing.T) {
	c, out := newTestCLI(t)

	_, err := run(c, out, "status")
	require.EqualError(t, err, "User is not logged in!")

	got, err := run(c, out, "signup", "--email", "anna@test.com", "--password", "pw123456", "--first-name", "Anna")
	require.NoError(t, err)
	require.Contains(t, got, "Registered user successfully!")

	got, err = run(c, out, "home")
	require.NoError(t, err)
	require.Contains(t, got, "Hello, Anna!")
	require.Contains(t, got, "salon book")
	require.NotContains(t, got, "salon admin list")

	_, err = run(c, out, "book", "--date", "2099-01-04", "--time", "10:00")
	require.EqualError(t, err, "The salon is closed on Sundays.")

	got, err = run(c, out, "book", "--date", "2099-01-05", "--time", "10:00", "--description", "trim")
	require.NoError(t, err)
	require.Contains(t, got, "Reservation submitted.")

	got, err = run(c, out, "reservations")
	require.NoError(t, err)
	require.Contains(t, got, "2099-01-05")
	require.Contains(t, got, "Pending")

	_, err = run(c, out, "admin", "list")
	require.Error(t, err)

	require.True(t, c.app.Identity.(*gateway.MemoryBackend).SetAppRole("anna@test.com", "admin"))
	got, err = run(c, out, "admin", "list")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(got), "\n")
	require.Len(t, lines, 2)
	id := strings.Fields(lines[1])[0]

	got, err = run(c, out, "admin", "reject", id, "--reason", "closed for training")
	require.NoError(t, err)
	require.Contains(t, got, "Reservation rejected.")

	got, err = run(c, out, "reservations")
	require.NoError(t, err)
	require.Contains(t, got, "Rejection reason: closed for training, please submit your reservation again.")

	got, err = run(c, out, "logout")
	require.NoError(t, err)
	require.Contains(t, got, "Logged out.")

	_, err = run(c, out, "logout")
	require.EqualError(t, err, "You cannot log out, you are not logged in!")
}

func TestCLI_AdminArgs(t *testing.T) {
	c, out := newTestCLI(t)
	_, err := run(c, out, "admin", "accept")
	require.Error(t, err)
}

func TestCLI_ReportsAuthProgress(t *testing.T) {
	c, out := newTestCLI(t)
	status := &bytes.Buffer{}
	c.status = status

	_, err := run(c, out, "signup", "--email", "anna@test.com", "--password", "pw123456", "--first-name", "Anna")
	require.NoError(t, err)
	require.Equal(t, "Working...\n", status.String())

	status.Reset()
	_, err = run(c, out, "home")
	require.NoError(t, err)
	require.Empty(t, status.String(), "home does not touch the auth controller")

	_, err = run(c, out, "logout")
	require.NoError(t, err)
	_, err = run(c, out, "logout")
	require.Error(t, err)
	require.Equal(t, "Working...\nWorking...\n", status.String())
}
