package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"

	"github.com/grovetool/appgraph/internal/config"
	"github.com/grovetool/appgraph/internal/events"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Stream diff events from NATS",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		if cfg.NATSURL == "" {
			return fmt.Errorf("APPGRAPH_NATS_URL is not set")
		}
		jsonOutput, _ := cmd.Flags().GetBool("json")

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		sub, err := events.NewNATSSubscriber(cfg.NATSURL)
		if err != nil {
			return fmt.Errorf("connecting to NATS: %w", err)
		}
		defer sub.Close()

		ch, cancel, err := sub.Subscribe("appgraph.>")
		if err != nil {
			return fmt.Errorf("subscribing to events: %w", err)
		}
		defer cancel()

		for {
			select {
			case <-ctx.Done():
				return nil
			case data, ok := <-ch:
				if !ok {
					return nil
				}
				if jsonOutput {
					fmt.Println(string(data))
					continue
				}
				var ev events.DiffCompleted
				if err := json.Unmarshal(data, &ev); err != nil {
					// Not a diff event; show it raw.
					fmt.Println(string(data))
					continue
				}
				fmt.Println(formatEvent(ev))
			}
		}
	},
}

func init() {
	watchCmd.Flags().Bool("json", false, "print raw event JSON")
}
