// Package stamp computes the timestamp strings written into site artifacts.
package stamp

import (
	"fmt"
	"time"
)

const (
	// UTCLayout renders an instant with a literal +00:00 offset.
	UTCLayout = "2006-01-02T15:04:05+00:00"
	// LocalLayout renders an instant with its numeric zone offset.
	LocalLayout = "2006-01-02T15:04:05-07:00"

	// DefaultOffset is the fixed offset used for metadata dates (KST).
	DefaultOffset = 9 * time.Hour
	// MaxOffset bounds the accepted offsets to real-world zones.
	MaxOffset = 14 * time.Hour
)

// Stamps holds the two strings derived from a single clock reading.
type Stamps struct {
	// At is the instant the stamps were computed from, truncated to whole seconds.
	At time.Time
	// UTC is written to sitemap lastmod fields.
	UTC string
	// Local is written to datePublished/dateModified values.
	Local string
}

// New derives both stamps from now. The offset must be a whole number of minutes
// and lie within MaxOffset of UTC.
func New(now time.Time, offset time.Duration) (Stamps, error) {
	if offset%time.Minute != 0 {
		return Stamps{}, fmt.Errorf("offset %s is not a whole number of minutes", offset)
	}
	if offset > MaxOffset || offset < -MaxOffset {
		return Stamps{}, fmt.Errorf("offset %s out of range", offset)
	}
	at := now.Truncate(time.Second)
	zone := time.FixedZone(zoneName(offset), int(offset/time.Second))
	return Stamps{
		At:    at,
		UTC:   at.UTC().Format(UTCLayout),
		Local: at.In(zone).Format(LocalLayout),
	}, nil
}

func zoneName(offset time.Duration) string {
	if offset == 0 {
		return "UTC"
	}
	return "UTC" + time.Unix(0, 0).In(time.FixedZone("", int(offset/time.Second))).Format("-07:00")
}
