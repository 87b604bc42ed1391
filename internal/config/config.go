package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Config holds process-level settings read from APPGRAPH_* environment
// variables. CLI flags default from these, so CI can configure runs without
// long argument lists.
type Config struct {
	HTTPAddr  string // APPGRAPH_HTTP_ADDR (default ":8080")
	NATSURL   string // APPGRAPH_NATS_URL (optional, empty = no events)
	AuthToken string // APPGRAPH_AUTH_TOKEN (optional, empty = auth disabled)

	BaseSHA    string // APPGRAPH_BASE_SHA
	HeadSHA    string // APPGRAPH_HEAD_SHA
	GraphFiles string // APPGRAPH_GRAPH_FILES (newline- or comma-separated)
	Output     string // APPGRAPH_DIFF_OUTPUT (empty = stdout)
	RepoDir    string // APPGRAPH_REPO_DIR (default ".")

	S3Bucket   string // APPGRAPH_S3_BUCKET (enables the S3 source when set)
	S3Prefix   string // APPGRAPH_S3_PREFIX (default "app-graphs")
	S3Region   string // APPGRAPH_S3_REGION (default "us-east-1")
	S3Endpoint string // APPGRAPH_S3_ENDPOINT (custom endpoint for MinIO)

	GitHubToken  string // APPGRAPH_GITHUB_TOKEN, falling back to GITHUB_TOKEN
	GitHubAPIURL string // APPGRAPH_GITHUB_API (optional, for GHE/tests)

	Remote string // APPGRAPH_REMOTE (appgraph server URL; switches diff to remote mode)
}

// Load reads the environment into a Config.
func Load() *Config {
	return &Config{
		HTTPAddr:  envOrDefault("APPGRAPH_HTTP_ADDR", ":8080"),
		NATSURL:   os.Getenv("APPGRAPH_NATS_URL"),
		AuthToken: os.Getenv("APPGRAPH_AUTH_TOKEN"),

		BaseSHA:    os.Getenv("APPGRAPH_BASE_SHA"),
		HeadSHA:    os.Getenv("APPGRAPH_HEAD_SHA"),
		GraphFiles: os.Getenv("APPGRAPH_GRAPH_FILES"),
		Output:     os.Getenv("APPGRAPH_DIFF_OUTPUT"),
		RepoDir:    envOrDefault("APPGRAPH_REPO_DIR", "."),

		S3Bucket:   os.Getenv("APPGRAPH_S3_BUCKET"),
		S3Prefix:   envOrDefault("APPGRAPH_S3_PREFIX", "app-graphs"),
		S3Region:   envOrDefault("APPGRAPH_S3_REGION", "us-east-1"),
		S3Endpoint: os.Getenv("APPGRAPH_S3_ENDPOINT"),

		GitHubToken:  envOrDefault("APPGRAPH_GITHUB_TOKEN", os.Getenv("GITHUB_TOKEN")),
		GitHubAPIURL: os.Getenv("APPGRAPH_GITHUB_API"),

		Remote: os.Getenv("APPGRAPH_REMOTE"),
	}
}

// DefaultFilePath is where LoadFile looks when no explicit path is given.
const DefaultFilePath = ".appgraph.toml"

// FileConfig is the optional repo-level .appgraph.toml:
//
//	marker = "<!-- appgraph-diff -->"
//
//	[[files]]
//	path = "apps/shop/.radius/app-graph.json"
//	label = "shop"
type FileConfig struct {
	Marker string      `toml:"marker"`
	Files  []GraphFile `toml:"files"`
}

// GraphFile is one tracked snapshot file. Label overrides the derived
// section label when set.
type GraphFile struct {
	Path  string `toml:"path"`
	Label string `toml:"label"`
}

// LoadFile reads a repo-level config file. The error chain preserves
// fs.ErrNotExist so callers can treat a missing default file as empty.
func LoadFile(path string) (*FileConfig, error) {
	var fc FileConfig
	if _, err := toml.DecodeFile(path, &fc); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	for i, f := range fc.Files {
		if f.Path == "" {
			return nil, fmt.Errorf("%s: files[%d] missing path", path, i)
		}
	}
	return &fc, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
