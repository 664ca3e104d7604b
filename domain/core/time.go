package core

import (
	"fmt"
	"time"
)

// Resolution is the native sampling interval of a dataset bucket.
type Resolution string

const (
	Res15Min Resolution = "15min"
	Res30Min Resolution = "30min"
	Res60Min Resolution = "60min"
)

// Resolutions lists the supported buckets in ascending period order.
var Resolutions = []Resolution{Res15Min, Res30Min, Res60Min}

// ParseResolution validates a resolution string from configuration.
func ParseResolution(s string) (Resolution, error) {
	switch Resolution(s) {
	case Res15Min, Res30Min, Res60Min:
		return Resolution(s), nil
	}
	return "", fmt.Errorf("unknown resolution %q", s)
}

// Period returns the duration of one period at this resolution.
func (r Resolution) Period() time.Duration {
	switch r {
	case Res15Min:
		return 15 * time.Minute
	case Res30Min:
		return 30 * time.Minute
	case Res60Min:
		return time.Hour
	default:
		return time.Hour
	}
}

// PeriodsPerDay returns the number of periods in a normal (non-DST) day.
func (r Resolution) PeriodsPerDay() int {
	return int(24 * time.Hour / r.Period())
}

// PeriodsPerHour returns the number of periods in one hour.
func (r Resolution) PeriodsPerHour() int {
	return int(time.Hour / r.Period())
}

func (r Resolution) String() string {
	return string(r)
}
