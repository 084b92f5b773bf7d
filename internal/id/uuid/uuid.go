// Package uuid generates run identifiers that tie log lines of one invocation together.
package uuid

import (
	"fmt"

	"github.com/google/uuid"
)

// Generator creates UUID v7 run IDs, which sort by creation time.
type Generator struct{}

// New creates a new Generator.
func New() *Generator {
	return &Generator{}
}

// NewID returns a UUID7 string.
func (Generator) NewID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("generate run id: %w", err)
	}
	return id.String(), nil
}

// Static always returns the same ID. Tests use it to assert on log fields.
type Static string

// NewID returns the fixed ID.
func (s Static) NewID() (string, error) {
	return string(s), nil
}
