package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/grovetool/appgraph/internal/diff"
	"github.com/grovetool/appgraph/internal/events"
	"github.com/grovetool/appgraph/internal/metrics"
	"github.com/grovetool/appgraph/internal/model"
	"github.com/grovetool/appgraph/internal/report"
)

// DiffServer computes graph diffs for HTTP clients. CI systems without a
// local checkout post snapshot documents here instead of running the CLI.
type DiffServer struct {
	publisher events.Publisher
	metrics   *metrics.Registry
	stream    *sseHub
}

// NewDiffServer returns a DiffServer publishing events to p and recording
// metrics to m.
func NewDiffServer(p events.Publisher, m *metrics.Registry) *DiffServer {
	return &DiffServer{publisher: p, metrics: m, stream: newSSEHub()}
}

// diffEntry parses one base/head document pair, computes the diff, and
// returns the renderable entry. Malformed documents surface
// model.ErrMalformed; event publishing is best-effort.
func (s *DiffServer) diffEntry(ctx context.Context, runID, label string, baseDoc, headDoc json.RawMessage) (report.Entry, error) {
	start := time.Now()

	base, err := parseDocument(baseDoc)
	if err != nil {
		s.metrics.RecordDiff(metrics.OutcomeMalformed, 0, 0, time.Since(start))
		return report.Entry{}, fmt.Errorf("base snapshot for %q: %w", label, err)
	}
	head, err := parseDocument(headDoc)
	if err != nil {
		s.metrics.RecordDiff(metrics.OutcomeMalformed, 0, 0, time.Since(start))
		return report.Entry{}, fmt.Errorf("head snapshot for %q: %w", label, err)
	}

	result := diff.Diff(base, head)
	entry := report.Entry{Path: label, Base: base, Head: head, Result: result}

	resources := len(result.Added) + len(result.Removed) + len(result.Modified) + len(result.Unchanged)
	s.metrics.RecordDiff(metrics.OutcomeOK, resources, connectionsCompared(base, head), time.Since(start))

	event := events.NewDiffCompleted(runID, report.SectionLabel(label), result)
	if err := s.publisher.Publish(ctx, events.TopicDiffCompleted, event); err != nil {
		slog.Warn("failed to publish event",
			"topic", events.TopicDiffCompleted,
			"label", label,
			"error", err,
		)
	}
	s.broadcastDiff(event)

	return entry, nil
}

// parseDocument maps absent documents (missing key or JSON null) to the
// empty snapshot; present content goes through the strict parser.
func parseDocument(doc json.RawMessage) (*model.Snapshot, error) {
	trimmed := bytes.TrimSpace(doc)
	if len(trimmed) == 0 || string(trimmed) == "null" {
		return model.EmptySnapshot(), nil
	}
	return model.ParseSnapshot(doc)
}

// connectionsCompared counts the distinct connection pairs across both
// snapshots.
func connectionsCompared(base, head *model.Snapshot) int {
	union := model.ConnectionSet{}
	for c := range base.Connections {
		union.Add(c)
	}
	for c := range head.Connections {
		union.Add(c)
	}
	return union.Len()
}
