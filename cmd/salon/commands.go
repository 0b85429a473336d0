package main

import (
	"github.com/salonbook/salonbook/internal/screens"
	"github.com/spf13/cobra"
)

func signUpCmd(c *cli) *cobra.Command {
	var email, password, first, last string
	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account and sign in",
		RunE: func(cmd *cobra.Command, args []string) error {
			s := screens.NewRegisterScreen(cmd.Context(), c.app.Deps)
			defer s.Close()
			return c.printOutcome(screens.Last(s.SignUp(email, password, first, last)))
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.Flags().StringVar(&password, "password", "", "password (at least 6 characters)")
	cmd.Flags().StringVar(&first, "first-name", "", "first name")
	cmd.Flags().StringVar(&last, "last-name", "", "last name")
	return cmd
}

func loginCmd(c *cli) *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in with email and password",
		RunE: func(cmd *cobra.Command, args []string) error {
			s := screens.NewMainScreen(cmd.Context(), c.app.Deps)
			defer s.Close()
			return c.printOutcome(screens.Last(s.Login(email, password)))
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.Flags().StringVar(&password, "password", "", "password")
	return cmd
}

func logoutCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			s := screens.NewHomeScreen(cmd.Context(), c.app.Deps)
			defer s.Close()
			return c.printOutcome(screens.Last(s.Logout()))
		},
	}
}

func statusCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check and refresh the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			s := screens.NewMainScreen(cmd.Context(), c.app.Deps)
			defer s.Close()
			return c.printOutcome(screens.Last(s.Mount()))
		},
	}
}

func homeCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "home",
		Short: "Show the greeting and menu",
		RunE: func(cmd *cobra.Command, args []string) error {
			s := screens.NewHomeScreen(cmd.Context(), c.app.Deps)
			defer s.Close()
			return c.printHome(screens.Last(s.Load()))
		},
	}
}

func bookCmd(c *cli) *cobra.Command {
	var form screens.ReservationForm
	cmd := &cobra.Command{
		Use:   "book",
		Short: "Request an appointment",
		RunE: func(cmd *cobra.Command, args []string) error {
			s := screens.NewMakeReservationScreen(cmd.Context(), c.app.Deps)
			defer s.Close()
			return c.printState(screens.Last(s.Submit(form)))
		},
	}
	cmd.Flags().StringVar(&form.Date, "date", "", "day in YYYY-MM-DD format")
	cmd.Flags().StringVar(&form.Time, "time", "", "time in HH:MM format")
	cmd.Flags().StringVar(&form.Description, "description", "", "what you would like done")
	return cmd
}

func reservationsCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "reservations",
		Short: "List your reservations",
		RunE: func(cmd *cobra.Command, args []string) error {
			s := screens.NewReservationsScreen(cmd.Context(), c.app.Deps)
			defer s.Close()
			return c.printList(screens.Last(s.Load()), false)
		},
	}
}

func adminCmd(c *cli) *cobra.Command {
	admin := &cobra.Command{
		Use:   "admin",
		Short: "Review reservations (administrators only)",
	}
	admin.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List every reservation",
		RunE: func(cmd *cobra.Command, args []string) error {
			s := screens.NewAdminPanelScreen(cmd.Context(), c.app.Deps)
			defer s.Close()
			return c.printList(screens.Last(s.Load()), true)
		},
	})
	admin.AddCommand(&cobra.Command{
		Use:   "accept <id>",
		Short: "Accept a reservation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := screens.NewAdminPanelScreen(cmd.Context(), c.app.Deps)
			defer s.Close()
			return c.printState(screens.Last(s.Accept(args[0])))
		},
	})
	var reason string
	reject := &cobra.Command{
		Use:   "reject <id>",
		Short: "Reject a reservation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := screens.NewAdminPanelScreen(cmd.Context(), c.app.Deps)
			defer s.Close()
			return c.printState(screens.Last(s.Reject(args[0], reason)))
		},
	}
	reject.Flags().StringVar(&reason, "reason", "", "reason shown to the customer")
	admin.AddCommand(reject)
	return admin
}
