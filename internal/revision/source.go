// Package revision retrieves descriptor content at specific revisions of a
// deployment repository.
package revision

import "context"

// Source fetches the bytes of a repository file at a given revision.
type Source interface {
	// Fetch returns the content of path at rev. found is false when the
	// file does not exist at that revision; err reports retrieval
	// failures.
	Fetch(ctx context.Context, rev, path string) (data []byte, found bool, err error)
}
