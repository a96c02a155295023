package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/otodrive/otodrive-web/internal/app/bootstrap"
)

func newContactCmd(d deps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "contact",
		Short: "Manage the contact form throttle",
	}
	cmd.AddCommand(newContactResetCmd(d))
	return cmd
}

func newContactResetCmd(d deps) *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Clear the hourly contact limit for a sender",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := d.loadConfig()
			if strings.TrimSpace(cfg.RedisAddr) == "" {
				return errors.New("REDIS_ADDR is not set; the contact throttle is disabled")
			}
			client := bootstrap.BuildRedisClient(cmd.Context(), cfg, d.logger, true)
			if client == nil {
				return fmt.Errorf("redis at %s is not reachable", cfg.RedisAddr)
			}
			defer client.Close()

			if err := bootstrap.BuildContactThrottle(client, cfg, d.logger).Reset(cmd.Context(), email); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "cleared contact limit for %s\n", email)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "sender email address")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}
