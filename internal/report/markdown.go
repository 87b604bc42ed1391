// Package report renders diff results as Markdown suitable for posting on a
// pull request. Output is byte-deterministic for a given input.
package report

import (
	"fmt"
	"strings"

	"github.com/grovetool/appgraph/internal/diff"
	"github.com/grovetool/appgraph/internal/model"
	"github.com/grovetool/appgraph/internal/resolve"
)

const (
	docHeader = "## 📊 App Graph Diff\n\n"
	docFooter = "\n---\n*Auto-generated by appgraph diff*\n"
)

// Entry is one graph file's diff, ready to render.
type Entry struct {
	Path   string
	Base   *model.Snapshot
	Head   *model.Snapshot
	Result diff.Result
}

// Render produces the full Markdown document for a set of entries. With no
// entries it renders the short no-changes document, which carries no footer.
func Render(entries []Entry) string {
	if len(entries) == 0 {
		return docHeader + "No app graph changes detected.\n"
	}
	sections := make([]string, 0, len(entries))
	for _, e := range entries {
		sections = append(sections, RenderSection(e))
	}
	return docHeader + strings.Join(sections, "\n") + docFooter
}

// RenderSection produces the Markdown section for a single entry: heading,
// change tables, and the summary line.
func RenderSection(e Entry) string {
	lines := []string{fmt.Sprintf("### 📦 `%s`\n", SectionLabel(e.Path))}

	if !e.Result.HasChanges() {
		lines = append(lines, "> No resource or connection changes.\n")
		return strings.Join(lines, "\n")
	}

	if len(e.Result.Added)+len(e.Result.Removed)+len(e.Result.Modified) > 0 {
		lines = append(lines,
			"#### Resources\n",
			"| Status | Resource |",
			"|--------|----------|",
		)
		for _, key := range e.Result.Added {
			lines = append(lines, resourceRow("🟢 Added", e.Head.Resources, key))
		}
		for _, key := range e.Result.Removed {
			lines = append(lines, resourceRow("🔴 Removed", e.Base.Resources, key))
		}
		for _, key := range e.Result.Modified {
			lines = append(lines, resourceRow("🟡 Modified", e.Head.Resources, key))
		}
		lines = append(lines, "")
	}

	if len(e.Result.AddedConnections)+len(e.Result.RemovedConnections) > 0 {
		// Endpoints resolve against both snapshots so a connection to a
		// removed resource still gets a readable name.
		all := e.Base.Resources.Union(e.Head.Resources)
		lines = append(lines,
			"#### Connections\n",
			"| Status | Connection |",
			"|--------|------------|",
		)
		for _, c := range e.Result.AddedConnections {
			lines = append(lines, connectionRow("🟢 Added", c, all))
		}
		for _, c := range e.Result.RemovedConnections {
			lines = append(lines, connectionRow("🔴 Removed", c, all))
		}
		lines = append(lines, "")
	}

	lines = append(lines, summaryLine(e.Result))
	return strings.Join(lines, "\n")
}

func resourceRow(status string, resources *model.ResourceSet, key string) string {
	r, _ := resources.Get(key)
	return fmt.Sprintf("| %s | %s |", status, resourceLabel(r))
}

func connectionRow(status string, c model.Connection, all *model.ResourceSet) string {
	return fmt.Sprintf("| %s | %s → %s |",
		status, resolve.Endpoint(c.Source, all), resolve.Endpoint(c.Target, all))
}

// resourceLabel formats a one-line description: bold name, short type in
// backticks, and the source location when known.
func resourceLabel(r *model.Resource) string {
	name := r.Name
	if name == "" {
		name = "?"
	}
	rtype := r.Type
	if i := strings.LastIndex(rtype, "/"); i >= 0 {
		rtype = rtype[i+1:]
	}
	parts := []string{fmt.Sprintf("**%s**", name), fmt.Sprintf("`%s`", rtype)}
	if r.Location.File != "" {
		loc := r.Location.File
		if r.Location.Line > 0 {
			loc = fmt.Sprintf("%s:%d", loc, r.Location.Line)
		}
		parts = append(parts, loc)
	}
	return strings.Join(parts, " — ")
}

func summaryLine(r diff.Result) string {
	var parts []string
	if n := len(r.Added); n > 0 {
		parts = append(parts, fmt.Sprintf("+%d added", n))
	}
	if n := len(r.Removed); n > 0 {
		parts = append(parts, fmt.Sprintf("-%d removed", n))
	}
	if n := len(r.Modified); n > 0 {
		parts = append(parts, fmt.Sprintf("~%d modified", n))
	}
	if n := len(r.Unchanged); n > 0 {
		parts = append(parts, fmt.Sprintf("%d unchanged", n))
	}
	return fmt.Sprintf("*Resources: %s*\n", strings.Join(parts, ", "))
}

// SectionLabel turns a descriptor path into the application label shown in
// the section heading. The well-known descriptor suffix is stripped; a
// descriptor at the repository root labels as "(root)".
func SectionLabel(path string) string {
	label := strings.TrimSuffix(path, "/"+model.DescriptorPath)
	switch label {
	case model.DescriptorPath, "app-graph.json":
		label = ""
	}
	if label == "" {
		return "(root)"
	}
	return label
}
