// Package clock defines the time source used to stamp site artifacts.
package clock

import "time"

// Clock reports the instant a run is stamped with.
type Clock interface {
	Now() time.Time
}
