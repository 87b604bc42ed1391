package main

import (
	"fmt"
	"strings"

	"github.com/grovetool/appgraph/internal/diff"
	"github.com/grovetool/appgraph/internal/events"
	"github.com/grovetool/appgraph/internal/ui"
)

// statusLine formats the per-label progress line written to stderr.
func statusLine(label string, r diff.Result) string {
	if !r.HasChanges() {
		return fmt.Sprintf("%s: %s", label, ui.RenderMuted("no changes"))
	}
	var parts []string
	if n := len(r.Added); n > 0 {
		parts = append(parts, ui.RenderAdded(fmt.Sprintf("+%d added", n)))
	}
	if n := len(r.Removed); n > 0 {
		parts = append(parts, ui.RenderRemoved(fmt.Sprintf("-%d removed", n)))
	}
	if n := len(r.Modified); n > 0 {
		parts = append(parts, ui.RenderModified(fmt.Sprintf("~%d modified", n)))
	}
	if n := len(r.AddedConnections) + len(r.RemovedConnections); n > 0 {
		parts = append(parts, fmt.Sprintf("±%d connections", n))
	}
	return fmt.Sprintf("%s: %s", label, strings.Join(parts, ", "))
}

// formatEvent renders one diff event for the watch command.
func formatEvent(ev events.DiffCompleted) string {
	return fmt.Sprintf("[%s] %s: +%d -%d ~%d (%d unchanged), connections +%d -%d",
		ev.RunID, ev.Label, ev.Added, ev.Removed, ev.Modified, ev.Unchanged,
		ev.AddedConnections, ev.RemovedConnections)
}
