package stamp

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNewFormatsBothStamps checks the UTC and +09:00 renderings of one instant.
func TestNewFormatsBothStamps(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	got, err := New(now, DefaultOffset)
	require.NoError(t, err)

	assert.Equal(t, "2024-06-01T12:00:00+00:00", got.UTC)
	assert.Equal(t, "2024-06-01T21:00:00+09:00", got.Local)
	assert.True(t, got.At.Equal(now))
}

// TestNewTruncatesToSeconds drops sub-second precision from both stamps.
func TestNewTruncatesToSeconds(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 12, 31, 23, 59, 59, 999_999_999, time.UTC)
	got, err := New(now, DefaultOffset)
	require.NoError(t, err)

	assert.Equal(t, "2024-12-31T23:59:59+00:00", got.UTC)
	assert.Equal(t, "2025-01-01T08:59:59+09:00", got.Local)
	assert.Zero(t, got.At.Nanosecond())
}

// TestNewNormalizesInputZone ignores the location attached to now.
func TestNewNormalizesInputZone(t *testing.T) {
	t.Parallel()

	pst := time.FixedZone("PST", -8*3600)
	now := time.Date(2024, 6, 1, 4, 0, 0, 0, pst)
	got, err := New(now, DefaultOffset)
	require.NoError(t, err)

	assert.Equal(t, "2024-06-01T12:00:00+00:00", got.UTC)
	assert.Equal(t, "2024-06-01T21:00:00+09:00", got.Local)
}

func TestNewOffsets(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		name   string
		offset time.Duration
		want   string
	}{
		{name: "utc", offset: 0, want: "2024-06-01T12:00:00+00:00"},
		{name: "negative", offset: -5 * time.Hour, want: "2024-06-01T07:00:00-05:00"},
		{name: "half hour", offset: 5*time.Hour + 30*time.Minute, want: "2024-06-01T17:30:00+05:30"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := New(now, tt.offset)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Local)
		})
	}
}

func TestNewRejectsBadOffsets(t *testing.T) {
	t.Parallel()

	now := time.Now()
	_, err := New(now, 15*time.Hour)
	assert.Error(t, err)
	_, err = New(now, -15*time.Hour)
	assert.Error(t, err)
	_, err = New(now, 30*time.Second)
	assert.Error(t, err)
}
