package comment

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/google/go-github/v74/github"
)

// DefaultMarker is the hidden HTML comment that tags the bot comment so a
// later run finds and edits it instead of stacking new comments on the PR.
const DefaultMarker = "<!-- appgraph-diff -->"

// Client upserts the diff report comment on a pull request.
type Client struct {
	gh     *github.Client
	owner  string
	repo   string
	marker string
}

// New creates a Client for the given repository. token may be empty for
// anonymous access (useful against test doubles); apiURL overrides the
// GitHub API base URL when non-empty; marker defaults to DefaultMarker.
func New(owner, repo, token, apiURL, marker string) (*Client, error) {
	gh := github.NewClient(nil)
	if token != "" {
		gh = gh.WithAuthToken(token)
	}
	if apiURL != "" {
		// go-github requires a trailing slash on the base URL.
		u, err := url.Parse(strings.TrimRight(apiURL, "/") + "/")
		if err != nil {
			return nil, fmt.Errorf("parsing API URL %s: %w", apiURL, err)
		}
		gh.BaseURL = u
	}
	if marker == "" {
		marker = DefaultMarker
	}
	return &Client{gh: gh, owner: owner, repo: repo, marker: marker}, nil
}

// Upsert posts body as the marker-tagged comment on the pull request,
// editing the existing tagged comment when one is found. The marker is
// prepended when the body does not already carry it. Returns true when an
// existing comment was edited rather than created.
func (c *Client) Upsert(ctx context.Context, prNumber int, body string) (bool, error) {
	if !strings.Contains(body, c.marker) {
		body = c.marker + "\n" + body
	}

	existingID, err := c.findTagged(ctx, prNumber)
	if err != nil {
		return false, err
	}

	payload := &github.IssueComment{Body: github.Ptr(body)}
	if existingID != 0 {
		if _, _, err := c.gh.Issues.EditComment(ctx, c.owner, c.repo, existingID, payload); err != nil {
			return false, fmt.Errorf("editing comment %d: %w", existingID, err)
		}
		return true, nil
	}
	if _, _, err := c.gh.Issues.CreateComment(ctx, c.owner, c.repo, prNumber, payload); err != nil {
		return false, fmt.Errorf("creating comment: %w", err)
	}
	return false, nil
}

// findTagged returns the ID of the first comment containing the marker, or
// zero when none exists. PR conversation comments live on the issues API.
func (c *Client) findTagged(ctx context.Context, prNumber int) (int64, error) {
	opts := &github.IssueListCommentsOptions{
		ListOptions: github.ListOptions{PerPage: 100},
	}
	for {
		comments, resp, err := c.gh.Issues.ListComments(ctx, c.owner, c.repo, prNumber, opts)
		if err != nil {
			return 0, fmt.Errorf("listing comments: %w", err)
		}
		for _, cm := range comments {
			if strings.Contains(cm.GetBody(), c.marker) {
				return cm.GetID(), nil
			}
		}
		if resp.NextPage == 0 {
			return 0, nil
		}
		opts.Page = resp.NextPage
	}
}
