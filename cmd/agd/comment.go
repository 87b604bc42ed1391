package main

import (
	"fmt"
	"io"
	"os"

	"github.com/grovetool/appgraph/internal/comment"
	"github.com/grovetool/appgraph/internal/config"
	"github.com/spf13/cobra"
)

var commentCmd = &cobra.Command{
	Use:   "comment",
	Short: "Create or update the diff comment on a pull request",
	Long: `Upserts a Markdown body as the marker-tagged comment on a pull request:
an existing comment carrying the hidden marker is edited in place, otherwise
a new comment is created. The body comes from --body-file, or stdin when the
flag is omitted or "-".`,
	RunE: func(cmd *cobra.Command, args []string) error {
		pr, _ := cmd.Flags().GetInt("pr")
		owner, _ := cmd.Flags().GetString("owner")
		repo, _ := cmd.Flags().GetString("repo")
		bodyFile, _ := cmd.Flags().GetString("body-file")
		marker, _ := cmd.Flags().GetString("marker")

		if pr <= 0 {
			return fmt.Errorf("--pr is required")
		}
		if owner == "" || repo == "" {
			return fmt.Errorf("--owner and --repo are required (or set GITHUB_REPOSITORY)")
		}
		cfg := config.Load()
		if cfg.GitHubToken == "" {
			return fmt.Errorf("no GitHub token (set APPGRAPH_GITHUB_TOKEN or GITHUB_TOKEN)")
		}

		body, err := readBody(bodyFile)
		if err != nil {
			return err
		}

		gh, err := comment.New(owner, repo, cfg.GitHubToken, cfg.GitHubAPIURL, marker)
		if err != nil {
			return err
		}
		updated, err := gh.Upsert(cmd.Context(), pr, string(body))
		if err != nil {
			return fmt.Errorf("upserting comment: %w", err)
		}
		if updated {
			fmt.Printf("Updated comment on PR #%d\n", pr)
		} else {
			fmt.Printf("Created comment on PR #%d\n", pr)
		}
		return nil
	},
}

func readBody(path string) ([]byte, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading body file: %w", err)
	}
	return data, nil
}

func init() {
	owner, repo := defaultOwnerRepo()

	commentCmd.Flags().Int("pr", 0, "pull request number (required)")
	commentCmd.Flags().String("owner", owner, "repository owner (env GITHUB_REPOSITORY)")
	commentCmd.Flags().String("repo", repo, "repository name (env GITHUB_REPOSITORY)")
	commentCmd.Flags().String("body-file", "", "Markdown body file (default stdin)")
	commentCmd.Flags().String("marker", "", "override the hidden marker comment")
}
