package revision

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
)

// GitSource reads file content out of a local git clone via git show.
type GitSource struct {
	repo string // path to the local clone
}

// NewGitSource creates a git source. repo is the path to an existing local
// clone that already contains the revisions being compared.
func NewGitSource(repo string) *GitSource {
	return &GitSource{repo: repo}
}

// Fetch runs git show <rev>:<path>. A failing git invocation means the path
// does not exist at that revision (or the revision is unknown), which counts
// as absence, not an error.
func (s *GitSource) Fetch(ctx context.Context, rev, path string) ([]byte, bool, error) {
	cmd := exec.CommandContext(ctx, "git", "show", rev+":"+path)
	cmd.Dir = s.repo

	out, err := cmd.Output()
	if err != nil {
		if ctx.Err() != nil {
			return nil, false, ctx.Err()
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("git show %s:%s: %w", rev, path, err)
	}
	return out, true, nil
}
