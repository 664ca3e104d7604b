package series

import (
	"time"
)

// GapRecord describes one contiguous span of missing values in one column,
// strictly between the column's first and last real observation. Records are
// immutable; a new scan produces new records.
type GapRecord struct {
	Key   ColumnKey
	Start time.Time     // first missing timestamp
	Till  time.Time     // last missing timestamp
	Span  time.Duration // Till - Start + one period
	Count int           // Span / one period
}

// ColumnOverview carries the per-column descriptive statistics reported
// alongside each gap scan.
type ColumnOverview struct {
	Key                ColumnKey
	Count              int
	Mean               float64
	Std                float64
	Min                float64
	Max                float64
	First              time.Time
	Last               time.Time
	NaNCount           int
	NaNBlocks          int
	InterpolatedBlocks int
	InterpolatedValues int
}
