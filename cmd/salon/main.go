// Command salon is the terminal client: every subcommand drives one screen
// and prints its final state.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/salonbook/salonbook/internal/app"
	"github.com/salonbook/salonbook/internal/config"
	"github.com/salonbook/salonbook/internal/uistate"
	"github.com/salonbook/salonbook/pkg/logger"
	"github.com/spf13/cobra"
)

func main() {
	logger.SetOutput(os.Stderr)
	logger.Init(os.Getenv("LOG_LEVEL"))

	c := &cli{out: os.Stdout, status: os.Stderr, newApp: appFromConfig}
	err := newRootCmd(c).ExecuteContext(context.Background())
	c.stopWatching()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type cli struct {
	out        io.Writer
	status     io.Writer
	properties string
	newApp     func(ctx context.Context, properties string) (*app.App, error)

	app     *app.App
	unwatch func()
}

// watchAuth reports auth progress on the status writer while a command runs.
func (c *cli) watchAuth() {
	c.stopWatching()
	states, cancel := c.app.Deps.Auth.State().Subscribe(8)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for s := range states {
			if !uistate.IsTerminal(s) {
				if c.status != nil {
					fmt.Fprintln(c.status, "Working...")
				}
				continue
			}
			logger.Debugf("auth finished: %s", uistate.Kind(s))
		}
	}()
	c.unwatch = func() {
		cancel()
		<-done
	}
}

// stopWatching ends the feed started by watchAuth once pending states are printed.
func (c *cli) stopWatching() {
	if c.unwatch != nil {
		c.unwatch()
		c.unwatch = nil
	}
}

func appFromConfig(ctx context.Context, properties string) (*app.App, error) {
	cfg, err := config.LoadConfig(properties)
	if err != nil {
		return nil, err
	}
	logger.Init(cfg.Log.Level)
	return app.New(ctx, cfg)
}

func newRootCmd(c *cli) *cobra.Command {
	root := &cobra.Command{
		Use:           "salon",
		Short:         "Book hair salon appointments",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if c.app == nil {
				a, err := c.newApp(cmd.Context(), c.properties)
				if err != nil {
					return err
				}
				c.app = a
			}
			c.watchAuth()
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			c.stopWatching()
		},
	}
	root.PersistentFlags().StringVar(&c.properties, "properties", config.DefaultPropertiesFile, "properties file with supabaseUrl and supabaseKey")

	root.AddCommand(
		signUpCmd(c),
		loginCmd(c),
		logoutCmd(c),
		statusCmd(c),
		homeCmd(c),
		bookCmd(c),
		reservationsCmd(c),
		adminCmd(c),
	)
	return root
}
