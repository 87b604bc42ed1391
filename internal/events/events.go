package events

import (
	"context"

	"github.com/grovetool/appgraph/internal/diff"
)

// TopicDiffCompleted carries one event per successfully diffed graph file.
// Only serve mode publishes; the CLI stays silent.
const TopicDiffCompleted = "appgraph.diff.completed"

// DiffCompleted summarizes a finished diff: the per-run id from idgen, the
// section label, and the change counts. Resource keys are deliberately not
// included; subscribers wanting detail re-run the diff.
type DiffCompleted struct {
	RunID              string `json:"run_id"`
	Label              string `json:"label"`
	Added              int    `json:"added"`
	Removed            int    `json:"removed"`
	Modified           int    `json:"modified"`
	Unchanged          int    `json:"unchanged"`
	AddedConnections   int    `json:"added_connections"`
	RemovedConnections int    `json:"removed_connections"`
}

// NewDiffCompleted builds the event payload from a diff result.
func NewDiffCompleted(runID, label string, r diff.Result) DiffCompleted {
	return DiffCompleted{
		RunID:              runID,
		Label:              label,
		Added:              len(r.Added),
		Removed:            len(r.Removed),
		Modified:           len(r.Modified),
		Unchanged:          len(r.Unchanged),
		AddedConnections:   len(r.AddedConnections),
		RemovedConnections: len(r.RemovedConnections),
	}
}

// Publisher is the interface for emitting events.
type Publisher interface {
	Publish(ctx context.Context, topic string, event any) error
	Close() error
}

// NoopPublisher discards events. Serve mode falls back to it when
// APPGRAPH_NATS_URL is unset.
type NoopPublisher struct{}

func (n *NoopPublisher) Publish(ctx context.Context, topic string, event any) error {
	return nil
}

func (n *NoopPublisher) Close() error {
	return nil
}
