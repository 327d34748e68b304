package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"kontor/internal/amqp"
	"kontor/internal/cli"
)

var errEventsNotConfigured = errors.New("change events not available: set AMQP_URL and check the broker")

func newWatchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Print change events published by kontor clients until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			events := a.backend.Events
			if events == nil {
				return errEventsNotConfigured
			}

			ctx, done := cli.GracefulShutdown(a.logger, 5*time.Second, nil)
			w := cmd.OutOrStdout()
			err := events.ConsumeChanges(ctx, func(_ context.Context, ev *amqp.ChangeEvent) error {
				_, err := fmt.Fprintf(w, "%s %s.%s %d\n",
					ev.Timestamp.Format(time.RFC3339), ev.Entity, ev.Action, ev.ID)
				return err
			})
			if ctx.Err() != nil {
				<-done
				return nil
			}
			return err
		},
	}
}
