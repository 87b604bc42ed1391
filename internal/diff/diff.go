// Package diff computes the change set between two graph snapshots.
package diff

import (
	"sort"

	"github.com/grovetool/appgraph/internal/model"
)

// Result classifies every resource and connection of a base/head snapshot
// pair. Resource slices hold keys sorted lexicographically; connection slices
// are sorted by source then target. Added and modified entries should be
// looked up in the head snapshot, removed entries in the base snapshot.
type Result struct {
	Added     []string `json:"added"`
	Removed   []string `json:"removed"`
	Modified  []string `json:"modified"`
	Unchanged []string `json:"unchanged"`

	AddedConnections   []model.Connection `json:"added_connections"`
	RemovedConnections []model.Connection `json:"removed_connections"`
}

// HasChanges reports whether the result contains any change. Unchanged
// resources alone do not count.
func (r Result) HasChanges() bool {
	return len(r.Added) > 0 ||
		len(r.Removed) > 0 ||
		len(r.Modified) > 0 ||
		len(r.AddedConnections) > 0 ||
		len(r.RemovedConnections) > 0
}

// Diff compares two snapshots. Resources match by key; matched pairs compare
// by structural equality. Connections match by exact source/target pair.
func Diff(base, head *model.Snapshot) Result {
	var res Result

	for _, key := range head.Resources.Keys() {
		if !base.Resources.Has(key) {
			res.Added = append(res.Added, key)
		}
	}
	for _, key := range base.Resources.Keys() {
		h, ok := head.Resources.Get(key)
		if !ok {
			res.Removed = append(res.Removed, key)
			continue
		}
		b, _ := base.Resources.Get(key)
		if b.Equal(h) {
			res.Unchanged = append(res.Unchanged, key)
		} else {
			res.Modified = append(res.Modified, key)
		}
	}
	sort.Strings(res.Added)
	sort.Strings(res.Removed)
	sort.Strings(res.Modified)
	sort.Strings(res.Unchanged)

	for _, c := range head.Connections.Sorted() {
		if !base.Connections.Has(c) {
			res.AddedConnections = append(res.AddedConnections, c)
		}
	}
	for _, c := range base.Connections.Sorted() {
		if !head.Connections.Has(c) {
			res.RemovedConnections = append(res.RemovedConnections, c)
		}
	}
	return res
}
