package main

import (
	"fmt"

	"convertflow/internal/adapters/eventbroker/nats"
	"convertflow/internal/config"
	"convertflow/internal/core/service/itemevent"

	"github.com/spf13/cobra"
)

func newWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Follow item events published by other convert runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := newLogger()

			natsCfg, err := config.LoadNATS()
			if err != nil {
				return fmt.Errorf("load nats config: %w", err)
			}
			consumer, err := nats.NewNATSConsumer(*natsCfg, logger)
			if err != nil {
				return err
			}
			defer consumer.Close()

			handler := itemevent.NewItemEventService(cmd.OutOrStdout(), logger)
			if err := consumer.Subscribe(ctx, handler); err != nil {
				return err
			}

			// runs until interrupted
			<-ctx.Done()
			return nil
		},
	}
}
