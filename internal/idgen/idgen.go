// Package idgen mints the short run ids that tag server request logs and
// diff events.
package idgen

import (
	"fmt"

	nanoid "github.com/matoous/go-nanoid/v2"
)

const (
	// Prefix marks an id as an appgraph run id.
	Prefix = "agr-"

	alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	length   = 10
)

// Generate returns a new run id, Prefix followed by ten URL-safe random
// characters. It fails only when the system entropy source does.
func Generate() (string, error) {
	id, err := nanoid.Generate(alphabet, length)
	if err != nil {
		return "", fmt.Errorf("generating run id: %w", err)
	}
	return Prefix + id, nil
}
