package main

import (
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "agd <command>",
	Short: "Diff app graph snapshots between deployment revisions",
	Long: `agd compares the resource-and-connection graph of a deployment
descriptor between two revisions and renders the changes as Markdown,
suitable for posting as a pull request comment.`,
}

// defaultOwnerRepo splits the GITHUB_REPOSITORY convention ("owner/repo")
// used by CI environments into flag defaults.
func defaultOwnerRepo() (string, string) {
	if v := os.Getenv("GITHUB_REPOSITORY"); v != "" {
		if owner, repo, ok := strings.Cut(v, "/"); ok {
			return owner, repo
		}
	}
	return "", ""
}

func init() {
	cobra.EnableCommandSorting = false

	rootCmd.AddCommand(diffCmd)
	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(commentCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(healthCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
