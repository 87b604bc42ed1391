package model

import "sort"

// Connection is a directed edge between two resources, expressed as the raw
// references the descriptor used. References are resolved to display names
// only at render time.
type Connection struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// ConnectionSet is a deduplicated set of connections.
type ConnectionSet map[Connection]struct{}

// Add inserts the connection.
func (s ConnectionSet) Add(c Connection) {
	s[c] = struct{}{}
}

// Has reports whether the connection is in the set.
func (s ConnectionSet) Has(c Connection) bool {
	_, ok := s[c]
	return ok
}

// Len returns the number of connections in the set.
func (s ConnectionSet) Len() int {
	return len(s)
}

// Sorted returns the connections ordered by source then target.
func (s ConnectionSet) Sorted() []Connection {
	out := make([]Connection, 0, len(s))
	for c := range s {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Source != out[j].Source {
			return out[i].Source < out[j].Source
		}
		return out[i].Target < out[j].Target
	})
	return out
}
