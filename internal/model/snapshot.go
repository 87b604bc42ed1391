package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// DescriptorPath is the well-known location of an application's graph
// snapshot relative to its directory.
const DescriptorPath = ".radius/app-graph.json"

// ErrMalformed marks snapshot content that is present but not parseable as a
// graph document. It is distinct from absent content: an absent or empty file
// parses to an empty snapshot, while malformed content is a fatal error.
var ErrMalformed = errors.New("malformed graph snapshot")

// Snapshot is the parsed resource graph of one descriptor revision.
type Snapshot struct {
	Resources   *ResourceSet
	Connections ConnectionSet
}

// EmptySnapshot returns a snapshot with no resources and no connections.
func EmptySnapshot() *Snapshot {
	return &Snapshot{
		Resources:   NewResourceSet(),
		Connections: make(ConnectionSet),
	}
}

// Document is the serialized form of a snapshot, as written by extractors and
// read back by ParseSnapshot.
type Document struct {
	Resources   []ResourceDoc   `json:"resources"`
	Connections []ConnectionDoc `json:"connections"`
}

// ResourceDoc mirrors one resources[] entry of a snapshot document. File and
// Line carry the legacy top-level location fields still emitted by older
// extractors; SourceLocation wins when both are present.
type ResourceDoc struct {
	ID             string         `json:"id,omitempty"`
	Name           string         `json:"name,omitempty"`
	Type           string         `json:"type,omitempty"`
	SourceLocation *Location      `json:"sourceLocation,omitempty"`
	File           string         `json:"file,omitempty"`
	Line           int            `json:"line,omitempty"`
	Properties     map[string]any `json:"properties,omitempty"`
}

// ConnectionDoc mirrors one connections[] entry of a snapshot document.
type ConnectionDoc struct {
	SourceID string `json:"sourceId"`
	TargetID string `json:"targetId"`
	Type     string `json:"type,omitempty"`
}

// ParseSnapshot decodes snapshot document bytes into a Snapshot.
//
// Empty input yields an empty snapshot. Anything non-empty must decode as a
// graph document or the call fails with an error wrapping ErrMalformed.
// Resources are keyed by id, falling back to name; duplicate keys keep the
// last value at the first key's position. Connections typed "dependsOn" are
// implicit platform wiring and are dropped, and duplicate source/target pairs
// collapse into one.
func ParseSnapshot(data []byte) (*Snapshot, error) {
	if len(data) == 0 {
		return EmptySnapshot(), nil
	}
	if isJSONNull(data) {
		return nil, fmt.Errorf("%w: document is null", ErrMalformed)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc struct {
		Resources   []json.RawMessage `json:"resources"`
		Connections []json.RawMessage `json:"connections"`
	}
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if dec.More() {
		return nil, fmt.Errorf("%w: trailing data after document", ErrMalformed)
	}

	snap := EmptySnapshot()
	for i, entry := range doc.Resources {
		res, err := parseResource(entry)
		if err != nil {
			return nil, fmt.Errorf("%w: resources[%d]: %v", ErrMalformed, i, err)
		}
		snap.Resources.Add(res)
	}
	for i, entry := range doc.Connections {
		if isJSONNull(entry) {
			return nil, fmt.Errorf("%w: connections[%d]: entry is null", ErrMalformed, i)
		}
		var cd ConnectionDoc
		if err := json.Unmarshal(entry, &cd); err != nil {
			return nil, fmt.Errorf("%w: connections[%d]: %v", ErrMalformed, i, err)
		}
		if cd.Type == "dependsOn" {
			continue
		}
		snap.Connections.Add(Connection{Source: cd.SourceID, Target: cd.TargetID})
	}
	return snap, nil
}

func parseResource(entry json.RawMessage) (*Resource, error) {
	if isJSONNull(entry) {
		return nil, errors.New("entry is null")
	}
	var rd ResourceDoc
	if err := json.Unmarshal(entry, &rd); err != nil {
		return nil, err
	}
	dec := json.NewDecoder(bytes.NewReader(entry))
	dec.UseNumber()
	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}

	key := rd.ID
	if key == "" {
		key = rd.Name
	}
	loc := Location{File: rd.File, Line: rd.Line}
	if rd.SourceLocation != nil {
		loc = *rd.SourceLocation
	}
	return &Resource{
		Key:        key,
		ID:         rd.ID,
		Name:       rd.Name,
		Type:       rd.Type,
		Location:   loc,
		Properties: rd.Properties,
		raw:        raw,
	}, nil
}

func isJSONNull(data []byte) bool {
	return string(bytes.TrimSpace(data)) == "null"
}
