// Package system provides clock implementations backed by the host or a pinned instant.
package system

import "time"

// Clock implements clock.Clock using time.Now.
type Clock struct{}

// New creates a new Clock.
func New() *Clock {
	return &Clock{}
}

// Now returns the current time in UTC.
func (Clock) Now() time.Time {
	return time.Now().UTC()
}

// Pinned always reports the same instant. It backs run.at overrides and tests.
type Pinned struct {
	at time.Time
}

// NewPinned returns a clock frozen at at.
func NewPinned(at time.Time) *Pinned {
	return &Pinned{at: at.UTC()}
}

// Now returns the pinned instant.
func (p Pinned) Now() time.Time {
	return p.at
}
