package main

import (
	"encoding/json"
	"errors"

	"github.com/spf13/cobra"

	"github.com/otodrive/otodrive-web/internal/booking"
	"github.com/otodrive/otodrive-web/internal/bookingclient"
)

func newBookCmd(d deps) *cobra.Command {
	var server string
	var req booking.Request

	cmd := &cobra.Command{
		Use:   "book",
		Short: "Submit a booking to a running server",
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := bookingclient.NewClient(server, bookingclient.WithLogger(d.logger)).Book(cmd.Context(), req)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(result); err != nil {
				return err
			}
			if !result.Success {
				return errors.New(result.Error)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&server, "server", "http://localhost:8080", "booking server base URL")
	cmd.Flags().StringVar(&req.Name, "name", "", "customer name")
	cmd.Flags().StringVar(&req.Phone, "phone", "", "customer phone")
	cmd.Flags().StringVar(&req.Vehicle, "vehicle", "", "vehicle make and model")
	cmd.Flags().StringVar(&req.Date, "date", "", "appointment date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&req.Time, "time", "", "appointment time (HH:MM)")
	cmd.Flags().StringVar(&req.Service, "service", "", "requested service")
	return cmd
}
