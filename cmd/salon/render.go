package main

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/salonbook/salonbook/internal/screens"
	"github.com/salonbook/salonbook/internal/uistate"
)

// printState writes a success message to stdout and turns an error state
// into the command's error, so the exit code reflects it.
func (c *cli) printState(st uistate.State) error {
	switch v := st.(type) {
	case uistate.Success:
		if v.Message != "" {
			fmt.Fprintln(c.out, v.Message)
		}
		return nil
	case uistate.Error:
		return errors.New(v.Message)
	}
	return fmt.Errorf("unexpected state %s", uistate.Kind(st))
}

func (c *cli) printOutcome(o screens.Outcome) error {
	if err := c.printState(o.State); err != nil {
		return err
	}
	if o.Navigate == screens.RouteHome {
		return c.printMenu(screens.Menu(false))
	}
	return nil
}

func (c *cli) printHome(v screens.HomeView) error {
	if err := c.printState(v.State); err != nil {
		return err
	}
	fmt.Fprintln(c.out, v.Greeting)
	return c.printMenu(v.Menu)
}

var commandFor = map[screens.Route]string{
	screens.RouteHome:            "salon home",
	screens.RouteMakeReservation: "salon book",
	screens.RouteReservations:    "salon reservations",
	screens.RouteAdminPanel:      "salon admin list",
}

func (c *cli) printMenu(items []screens.MenuItem) error {
	w := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	for _, it := range items {
		fmt.Fprintf(w, "  %s\t%s\n", it.Label, commandFor[it.Route])
	}
	return w.Flush()
}

func (c *cli) printList(v screens.ListView, withUser bool) error {
	if err := c.printState(v.State); err != nil {
		return err
	}
	if v.Empty != "" {
		fmt.Fprintln(c.out, v.Empty)
		return nil
	}
	w := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	if withUser {
		fmt.Fprintln(w, "ID\tDATE\tTIME\tSTATUS\tUSER\tDESCRIPTION")
	} else {
		fmt.Fprintln(w, "ID\tDATE\tTIME\tSTATUS\tDESCRIPTION")
	}
	for _, r := range v.Rows {
		if withUser {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n", r.ID, r.Date, r.Time, r.Status, r.UserID, r.Description)
		} else {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", r.ID, r.Date, r.Time, r.Status, r.Description)
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}
	for _, r := range v.Rows {
		if r.RejectionNote != "" {
			fmt.Fprintf(c.out, "%s: %s\n", r.ID, r.RejectionNote)
		}
	}
	return nil
}
