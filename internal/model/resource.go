package model

import "reflect"

// Location points at the descriptor text a resource came from.
type Location struct {
	File string `json:"file,omitempty"`
	Line int    `json:"line,omitempty"`
}

// Resource is one infrastructure object in a snapshot.
//
// Key is the identity used to match the resource across snapshots: the id
// when non-empty, otherwise the name. Properties are opaque to the engine;
// they only participate in structural equality.
type Resource struct {
	Key        string
	ID         string
	Name       string
	Type       string
	Location   Location
	Properties map[string]any

	// raw holds the complete decoded document entry, used for structural
	// equality so fields this struct does not model still count as changes.
	raw map[string]any
}

// Equal reports whether two resources are structurally identical: mapping key
// order is irrelevant, sequence element order is significant, and scalar
// values must match exactly.
func (r *Resource) Equal(other *Resource) bool {
	return reflect.DeepEqual(r.raw, other.raw)
}

// ResourceSet holds a snapshot's resources keyed by identity. Insertion order
// is preserved so iteration (and therefore reference resolution) is
// deterministic. Adding an existing key replaces the value but keeps the
// original position, so last write wins on duplicate keys.
type ResourceSet struct {
	order []string
	byKey map[string]*Resource
}

// NewResourceSet returns an empty resource set.
func NewResourceSet() *ResourceSet {
	return &ResourceSet{byKey: make(map[string]*Resource)}
}

// Add inserts or replaces the resource under its key.
func (s *ResourceSet) Add(r *Resource) {
	if _, ok := s.byKey[r.Key]; !ok {
		s.order = append(s.order, r.Key)
	}
	s.byKey[r.Key] = r
}

// Get returns the resource stored under key.
func (s *ResourceSet) Get(key string) (*Resource, bool) {
	r, ok := s.byKey[key]
	return r, ok
}

// Has reports whether a resource is stored under key.
func (s *ResourceSet) Has(key string) bool {
	_, ok := s.byKey[key]
	return ok
}

// Len returns the number of resources in the set.
func (s *ResourceSet) Len() int {
	return len(s.order)
}

// Keys returns the resource keys in insertion order.
func (s *ResourceSet) Keys() []string {
	keys := make([]string, len(s.order))
	copy(keys, s.order)
	return keys
}

// Resources returns the resources in insertion order.
func (s *ResourceSet) Resources() []*Resource {
	out := make([]*Resource, 0, len(s.order))
	for _, k := range s.order {
		out = append(out, s.byKey[k])
	}
	return out
}

// Union merges two sets: s's entries in their order first, then other's
// entries. Keys present in both keep s's position but take other's value.
func (s *ResourceSet) Union(other *ResourceSet) *ResourceSet {
	merged := NewResourceSet()
	for _, r := range s.Resources() {
		merged.Add(r)
	}
	for _, r := range other.Resources() {
		merged.Add(r)
	}
	return merged
}
