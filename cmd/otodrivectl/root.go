package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/otodrive/otodrive-web/internal/app/bootstrap"
	"github.com/otodrive/otodrive-web/internal/calendar"
	appconfig "github.com/otodrive/otodrive-web/internal/config"
	"github.com/otodrive/otodrive-web/pkg/logging"
)

var (
	Version   = "dev"
	CommitSHA = "none"
	BuildDate = "unknown"
)

// calendarAdmin is the subset of the Google integration the CLI drives.
type calendarAdmin interface {
	CalendarID() string
	ListCalendars(ctx context.Context) ([]calendar.CalendarSummary, error)
	InsertEvent(ctx context.Context, ev calendar.Event) (calendar.Receipt, error)
	DeleteEvent(ctx context.Context, eventID string) error
}

type deps struct {
	loadConfig  func() *appconfig.Config
	logger      *logging.Logger
	newCalendar func(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) (calendarAdmin, error)
}

func defaultDeps() deps {
	return deps{
		loadConfig: appconfig.Load,
		logger:     logging.NewWithOptions(logging.Options{Level: "warn", Format: "text"}),
		newCalendar: func(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) (calendarAdmin, error) {
			if !cfg.HasGoogleCredentials() {
				return nil, fmt.Errorf("no Google service account credentials: set GOOGLE_CREDENTIALS or GOOGLE_CREDENTIALS_FILE")
			}
			return calendar.NewGoogle(ctx, bootstrap.GoogleConfig(cfg), nil, logger)
		},
	}
}

func newRootCmd(d deps) *cobra.Command {
	root := &cobra.Command{
		Use:           "otodrivectl",
		Short:         "Operator tooling for the Otodrive booking backend",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newVersionCmd())
	root.AddCommand(newSlotsCmd(d))
	root.AddCommand(newCalendarCmd(d))
	root.AddCommand(newBookCmd(d))
	root.AddCommand(newContactCmd(d))

	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version info",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "otodrivectl %s (commit=%s, built=%s)\n", Version, CommitSHA, BuildDate)
		},
	}
}
