package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/grovetool/appgraph/internal/client"
	"github.com/grovetool/appgraph/internal/comment"
	"github.com/grovetool/appgraph/internal/config"
	"github.com/grovetool/appgraph/internal/diff"
	"github.com/grovetool/appgraph/internal/model"
	"github.com/grovetool/appgraph/internal/report"
	"github.com/grovetool/appgraph/internal/revision"
	"github.com/grovetool/appgraph/internal/ui"
	"github.com/spf13/cobra"
)

var diffCmd = &cobra.Command{
	Use:   "diff",
	Short: "Diff tracked app graph files between two revisions",
	Long: `Fetches every tracked snapshot file at the base and head revisions,
computes the resource and connection changes, and renders a single Markdown
document. A malformed snapshot aborts the run before anything is written.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		base, _ := cmd.Flags().GetString("base")
		head, _ := cmd.Flags().GetString("head")
		graphFiles, _ := cmd.Flags().GetString("graph-files")
		repoDir, _ := cmd.Flags().GetString("repo-dir")
		output, _ := cmd.Flags().GetString("output")
		configPath, _ := cmd.Flags().GetString("config")
		sourceKind, _ := cmd.Flags().GetString("source")
		remote, _ := cmd.Flags().GetString("remote")
		post, _ := cmd.Flags().GetBool("post")
		pr, _ := cmd.Flags().GetInt("pr")
		owner, _ := cmd.Flags().GetString("owner")
		repo, _ := cmd.Flags().GetString("repo")

		if base == "" || head == "" {
			return fmt.Errorf("--base and --head are required")
		}
		if !ui.ShouldUseColor() {
			ui.ForceNoColor()
		}

		cfg := config.Load()

		fileCfg, err := loadFileConfig(configPath)
		if err != nil {
			return err
		}
		files, labels, err := resolveFiles(graphFiles, fileCfg)
		if err != nil {
			return err
		}

		src, err := newSource(cmd.Context(), sourceKind, repoDir, cfg)
		if err != nil {
			return err
		}

		var doc string
		if remote != "" {
			docs, err := collectDocuments(cmd.Context(), src, base, head, files, labels)
			if err != nil {
				return err
			}
			c := client.NewHTTPClient(remote, cfg.AuthToken)
			doc, err = c.Report(cmd.Context(), docs)
			if err != nil {
				return fmt.Errorf("remote diff: %w", err)
			}
		} else {
			entries, err := collectEntries(cmd.Context(), src, base, head, files, labels)
			if err != nil {
				return err
			}
			for _, e := range entries {
				fmt.Fprintln(os.Stderr, statusLine(report.SectionLabel(e.Path), e.Result))
			}
			doc = report.Render(entries)
		}

		if output == "" {
			fmt.Print(doc)
		} else if err := os.WriteFile(output, []byte(doc), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", output, err)
		}

		if post {
			return postComment(cmd.Context(), cfg, fileCfg.Marker, owner, repo, pr, doc)
		}
		return nil
	},
}

// loadFileConfig reads the repo-level config file. A missing file is only an
// error when the path was given explicitly.
func loadFileConfig(path string) (*config.FileConfig, error) {
	explicit := path != ""
	if !explicit {
		path = config.DefaultFilePath
	}
	fc, err := config.LoadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return &config.FileConfig{}, nil
		}
		return nil, err
	}
	return fc, nil
}

// resolveFiles returns the tracked snapshot paths and any label overrides.
// An explicit --graph-files value wins over the config file list.
func resolveFiles(flagValue string, fc *config.FileConfig) ([]string, map[string]string, error) {
	if files := splitGraphFiles(flagValue); len(files) > 0 {
		return files, nil, nil
	}
	if len(fc.Files) > 0 {
		files := make([]string, 0, len(fc.Files))
		labels := make(map[string]string)
		for _, f := range fc.Files {
			files = append(files, f.Path)
			if f.Label != "" {
				labels[f.Path] = f.Label
			}
		}
		return files, labels, nil
	}
	return nil, nil, fmt.Errorf("no graph files: pass --graph-files or list [[files]] in %s", config.DefaultFilePath)
}

// splitGraphFiles parses the newline- or comma-separated list accepted by
// --graph-files and APPGRAPH_GRAPH_FILES.
func splitGraphFiles(s string) []string {
	var files []string
	for _, part := range strings.FieldsFunc(s, func(r rune) bool {
		return r == '\n' || r == ','
	}) {
		if p := strings.TrimSpace(part); p != "" {
			files = append(files, p)
		}
	}
	return files
}

func newSource(ctx context.Context, kind, repoDir string, cfg *config.Config) (revision.Source, error) {
	switch kind {
	case "git":
		return revision.NewGitSource(repoDir), nil
	case "s3":
		if cfg.S3Bucket == "" {
			return nil, fmt.Errorf("--source s3 requires APPGRAPH_S3_BUCKET")
		}
		return revision.NewS3Source(ctx, cfg.S3Bucket, cfg.S3Prefix, cfg.S3Region, cfg.S3Endpoint)
	default:
		return nil, fmt.Errorf("unknown source %q (must be git or s3)", kind)
	}
}

// collectEntries fetches and diffs every tracked file. Files absent at both
// revisions are skipped; any error aborts before output is written.
func collectEntries(ctx context.Context, src revision.Source, base, head string, files []string, labels map[string]string) ([]report.Entry, error) {
	var entries []report.Entry
	for _, path := range files {
		baseData, baseFound, err := src.Fetch(ctx, base, path)
		if err != nil {
			return nil, fmt.Errorf("fetching %s at %s: %w", path, base, err)
		}
		headData, headFound, err := src.Fetch(ctx, head, path)
		if err != nil {
			return nil, fmt.Errorf("fetching %s at %s: %w", path, head, err)
		}
		if !baseFound && !headFound {
			continue
		}

		baseSnap, err := parseSide("base", path, baseData, baseFound)
		if err != nil {
			return nil, err
		}
		headSnap, err := parseSide("head", path, headData, headFound)
		if err != nil {
			return nil, err
		}

		entry := report.Entry{
			Path:   path,
			Base:   baseSnap,
			Head:   headSnap,
			Result: diff.Diff(baseSnap, headSnap),
		}
		if label := labels[path]; label != "" {
			entry.Path = label
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// parseSide parses one revision's snapshot content. Absence yields the empty
// snapshot.
func parseSide(side, path string, data []byte, found bool) (*model.Snapshot, error) {
	if !found {
		return model.EmptySnapshot(), nil
	}
	snap, err := model.ParseSnapshot(data)
	if err != nil {
		return nil, fmt.Errorf("%s snapshot %s: %w", side, path, err)
	}
	return snap, nil
}

// collectDocuments fetches raw snapshot documents for a server-side diff.
// Files absent at both revisions are skipped; an absent side stays nil and
// encodes as null.
func collectDocuments(ctx context.Context, src revision.Source, base, head string, files []string, labels map[string]string) ([]client.DiffRequest, error) {
	var entries []client.DiffRequest
	for _, path := range files {
		baseData, baseFound, err := src.Fetch(ctx, base, path)
		if err != nil {
			return nil, fmt.Errorf("fetching %s at %s: %w", path, base, err)
		}
		headData, headFound, err := src.Fetch(ctx, head, path)
		if err != nil {
			return nil, fmt.Errorf("fetching %s at %s: %w", path, head, err)
		}
		if !baseFound && !headFound {
			continue
		}

		entry := client.DiffRequest{Label: path}
		if label := labels[path]; label != "" {
			entry.Label = label
		}
		if baseFound {
			if entry.Base, err = rawDocument(path, baseData); err != nil {
				return nil, err
			}
		}
		if headFound {
			if entry.Head, err = rawDocument(path, headData); err != nil {
				return nil, err
			}
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// rawDocument validates content for embedding in a request envelope. Empty
// content maps to null, which the server treats as the empty snapshot.
// Anything else must be a JSON value other than null, the same contract
// ParseSnapshot enforces locally.
func rawDocument(path string, data []byte) (json.RawMessage, error) {
	if len(data) == 0 {
		return json.RawMessage("null"), nil
	}
	if !json.Valid(data) || string(bytes.TrimSpace(data)) == "null" {
		return nil, fmt.Errorf("snapshot %s: %w", path, model.ErrMalformed)
	}
	return json.RawMessage(data), nil
}

func postComment(ctx context.Context, cfg *config.Config, marker, owner, repo string, pr int, doc string) error {
	if pr <= 0 {
		return fmt.Errorf("--post requires --pr")
	}
	if owner == "" || repo == "" {
		return fmt.Errorf("--post requires --owner and --repo (or GITHUB_REPOSITORY)")
	}
	if cfg.GitHubToken == "" {
		return fmt.Errorf("no GitHub token (set APPGRAPH_GITHUB_TOKEN or GITHUB_TOKEN)")
	}

	gh, err := comment.New(owner, repo, cfg.GitHubToken, cfg.GitHubAPIURL, marker)
	if err != nil {
		return err
	}
	updated, err := gh.Upsert(ctx, pr, doc)
	if err != nil {
		return fmt.Errorf("posting comment: %w", err)
	}
	if updated {
		fmt.Fprintf(os.Stderr, "Updated comment on PR #%d\n", pr)
	} else {
		fmt.Fprintf(os.Stderr, "Created comment on PR #%d\n", pr)
	}
	return nil
}

func init() {
	cfg := config.Load()
	owner, repo := defaultOwnerRepo()

	diffCmd.Flags().String("base", cfg.BaseSHA, "base revision (env APPGRAPH_BASE_SHA)")
	diffCmd.Flags().String("head", cfg.HeadSHA, "head revision (env APPGRAPH_HEAD_SHA)")
	diffCmd.Flags().String("graph-files", cfg.GraphFiles, "newline- or comma-separated snapshot paths (env APPGRAPH_GRAPH_FILES)")
	diffCmd.Flags().String("repo-dir", cfg.RepoDir, "path to the local clone (env APPGRAPH_REPO_DIR)")
	diffCmd.Flags().String("output", cfg.Output, "write the document to a file instead of stdout (env APPGRAPH_DIFF_OUTPUT)")
	diffCmd.Flags().String("config", "", "repo config path (default "+config.DefaultFilePath+")")
	diffCmd.Flags().String("source", "git", "snapshot source (git or s3)")
	diffCmd.Flags().String("remote", cfg.Remote, "diff on a running appgraph server instead of locally (env APPGRAPH_REMOTE)")
	diffCmd.Flags().Bool("post", false, "upsert the document as a PR comment")
	diffCmd.Flags().Int("pr", 0, "pull request number for --post")
	diffCmd.Flags().String("owner", owner, "repository owner for --post (env GITHUB_REPOSITORY)")
	diffCmd.Flags().String("repo", repo, "repository name for --post (env GITHUB_REPOSITORY)")
}
