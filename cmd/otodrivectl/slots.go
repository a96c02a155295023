package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/otodrive/otodrive-web/internal/app/bootstrap"
	"github.com/otodrive/otodrive-web/internal/bookingclient"
	"github.com/otodrive/otodrive-web/internal/schedule"
)

func newSlotsCmd(d deps) *cobra.Command {
	var date, server string

	cmd := &cobra.Command{
		Use:   "slots",
		Short: "List the bookable slots for a date",
		RunE: func(cmd *cobra.Command, args []string) error {
			var slots []schedule.TimeSlot
			if server != "" {
				if date == "" {
					date = time.Now().Format("2006-01-02")
				}
				resp, err := bookingclient.NewClient(server, bookingclient.WithLogger(d.logger)).Slots(cmd.Context(), date)
				if err != nil {
					return err
				}
				slots = resp.Slots
			} else {
				policy, err := bootstrap.BuildPolicy(d.loadConfig())
				if err != nil {
					return err
				}
				if date == "" {
					date = time.Now().In(policy.Location()).Format("2006-01-02")
				}
				if _, err := policy.ParseDate(date); err != nil {
					return fmt.Errorf("invalid --date %q: expected YYYY-MM-DD", date)
				}
				slots = policy.DisplaySlots(date, time.Now())
			}

			out := cmd.OutOrStdout()
			if len(slots) == 0 {
				fmt.Fprintf(out, "%s: closed\n", date)
				return nil
			}
			for _, s := range slots {
				state := "available"
				if !s.Available {
					state = "unavailable"
				}
				fmt.Fprintf(out, "%s\t%s\n", s.Time, state)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "date to list (YYYY-MM-DD), default today in the shop timezone")
	cmd.Flags().StringVar(&server, "server", "", "query a running server instead of the local configuration")
	return cmd
}
