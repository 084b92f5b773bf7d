// Package storage defines how site artifacts are read and rewritten.
// Updaters depend on Files so they can run against the host filesystem,
// an in-memory filesystem in tests, or a read-only view during dry runs.
package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned when an expected artifact does not exist.
var ErrNotFound = errors.New("file not found")

// Files reads and replaces whole files.
type Files interface {
	// Read returns the full contents of path.
	Read(ctx context.Context, path string) ([]byte, error)
	// Replace overwrites the contents of an existing path with data.
	Replace(ctx context.Context, path string, data []byte) error
}

// ReadOnly passes reads through to the wrapped Files and discards replacements.
// It backs dry runs, where updates are computed and reported but never persisted.
type ReadOnly struct {
	Files
}

// Replace for ReadOnly does nothing and always returns nil.
func (ReadOnly) Replace(_ context.Context, _ string, _ []byte) error {
	return nil
}
