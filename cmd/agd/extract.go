package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/grovetool/appgraph/internal/bicep"
	"github.com/spf13/cobra"
)

var extractCmd = &cobra.Command{
	Use:   "extract <descriptor>",
	Short: "Extract an app graph snapshot from a Bicep descriptor",
	Long: `Scans a Bicep-style descriptor for resources and connections and writes
the equivalent app graph snapshot document. Repos without a graph-emitting
toolchain can commit the output as ` + "`.radius/app-graph.json`" + `.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		output, _ := cmd.Flags().GetString("output")

		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading descriptor: %w", err)
		}

		doc := bicep.Extract(path, content)
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling snapshot: %w", err)
		}
		data = append(data, '\n')

		if output == "" {
			_, err := os.Stdout.Write(data)
			return err
		}
		if dir := filepath.Dir(output); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("creating %s: %w", dir, err)
			}
		}
		if err := os.WriteFile(output, data, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", output, err)
		}
		fmt.Fprintf(os.Stderr, "Wrote %d resources to %s\n", len(doc.Resources), output)
		return nil
	},
}

func init() {
	extractCmd.Flags().StringP("output", "o", "", "write the snapshot to a file instead of stdout")
}
