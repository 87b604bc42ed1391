// Package resolve maps raw connection references to human-readable resource
// names for rendering.
package resolve

import (
	"regexp"
	"strings"

	"github.com/grovetool/appgraph/internal/model"
)

var (
	symbolicRef = regexp.MustCompile(`^\[reference\('(\w+)'\)`)
	urlRef      = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9+.-]*://([^:/?#]+)`)
)

// Endpoint resolves a connection endpoint reference against the resources of
// a snapshot. Matching is tiered: exact resource key, then symbolic
// references, then URL host matching, then a path-segment fallback. Every
// reference resolves to something; unresolvable input comes back as itself.
func Endpoint(ref string, resources *model.ResourceSet) string {
	if r, ok := resources.Get(ref); ok {
		if r.Name != "" {
			return r.Name
		}
		return ref
	}

	if m := symbolicRef.FindStringSubmatch(ref); m != nil {
		return m[1]
	}

	if m := urlRef.FindStringSubmatch(ref); m != nil {
		host := m[1]
		// First resource whose name overlaps the host wins, in snapshot
		// order, so results are stable across runs.
		for _, r := range resources.Resources() {
			if r.Name == "" {
				continue
			}
			if strings.Contains(r.Name, host) || strings.Contains(host, r.Name) {
				return r.Name
			}
		}
		return host
	}

	seg := strings.TrimRight(ref, "/")
	if i := strings.LastIndex(seg, "/"); i >= 0 {
		seg = seg[i+1:]
	}
	if seg == "" {
		return ref
	}
	return seg
}
