package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/grovetool/appgraph/internal/client"
	"github.com/grovetool/appgraph/internal/config"
	"github.com/spf13/cobra"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the health of an appgraph server",
	RunE: func(cmd *cobra.Command, args []string) error {
		remote, _ := cmd.Flags().GetString("remote")
		jsonOutput, _ := cmd.Flags().GetBool("json")

		cfg := config.Load()
		c := client.NewHTTPClient(remote, cfg.AuthToken)
		status, err := c.Health(cmd.Context())
		if err != nil {
			return fmt.Errorf("checking health: %w", err)
		}

		if jsonOutput {
			data, err := json.MarshalIndent(map[string]string{"status": status}, "", "  ")
			if err != nil {
				return fmt.Errorf("marshaling JSON: %w", err)
			}
			fmt.Println(string(data))
		} else {
			fmt.Printf("Health: %s\n", status)
		}

		if status != "ok" {
			return fmt.Errorf("unhealthy: %s", status)
		}
		return nil
	},
}

func defaultRemote() string {
	if s := os.Getenv("APPGRAPH_REMOTE"); s != "" {
		return s
	}
	return "http://localhost:8080"
}

func init() {
	healthCmd.Flags().String("remote", defaultRemote(), "appgraph server URL (env APPGRAPH_REMOTE)")
	healthCmd.Flags().Bool("json", false, "output as JSON")
}
