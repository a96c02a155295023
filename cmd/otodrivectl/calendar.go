package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/otodrive/otodrive-web/internal/booking"
	"github.com/otodrive/otodrive-web/internal/calendar"
)

func newCalendarCmd(d deps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "Check access to the Google Calendar",
	}
	cmd.AddCommand(newCalendarListCmd(d))
	cmd.AddCommand(newCalendarTestEventCmd(d))
	cmd.AddCommand(newCalendarDeleteCmd(d))
	return cmd
}

func newCalendarListCmd(d deps) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List calendars shared with the service account",
		RunE: func(cmd *cobra.Command, args []string) error {
			cal, err := d.newCalendar(cmd.Context(), d.loadConfig(), d.logger)
			if err != nil {
				return err
			}
			calendars, err := cal.ListCalendars(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(calendars) == 0 {
				fmt.Fprintln(out, "no calendars shared with the service account")
				return nil
			}
			for _, c := range calendars {
				marker := ""
				if c.ID == cal.CalendarID() {
					marker = " (configured)"
				}
				fmt.Fprintf(out, "%s\t%s\t%s%s\n", c.ID, c.Summary, c.AccessRole, marker)
			}
			return nil
		},
	}
}

func newCalendarTestEventCmd(d deps) *cobra.Command {
	var cleanup bool

	cmd := &cobra.Command{
		Use:   "test-event",
		Short: "Insert a one-hour test event starting in an hour",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := d.loadConfig()
			cal, err := d.newCalendar(cmd.Context(), cfg, d.logger)
			if err != nil {
				return err
			}
			start := time.Now().Add(time.Hour).Truncate(time.Minute)
			receipt, err := cal.InsertEvent(cmd.Context(), calendar.Event{
				Summary:     cfg.ShopName + " Test Event",
				Description: "Created by otodrivectl to verify calendar access.",
				Location:    cfg.ShopLocation,
				Start:       start,
				End:         start.Add(time.Hour),
				TimeZone:    cfg.ShopTimezone,
				Reminders:   booking.DefaultReminders(),
			})
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "created event %s\n%s\n", receipt.EventID, receipt.HTMLLink)

			if cleanup {
				if err := cal.DeleteEvent(cmd.Context(), receipt.EventID); err != nil {
					return err
				}
				fmt.Fprintf(out, "deleted event %s\n", receipt.EventID)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&cleanup, "cleanup", false, "delete the event after creating it")
	return cmd
}

func newCalendarDeleteCmd(d deps) *cobra.Command {
	var eventID string

	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete an event by id",
		RunE: func(cmd *cobra.Command, args []string) error {
			cal, err := d.newCalendar(cmd.Context(), d.loadConfig(), d.logger)
			if err != nil {
				return err
			}
			if err := cal.DeleteEvent(cmd.Context(), eventID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted event %s\n", eventID)
			return nil
		},
	}
	cmd.Flags().StringVar(&eventID, "event-id", "", "event to delete")
	_ = cmd.MarkFlagRequired("event-id")
	return cmd
}
