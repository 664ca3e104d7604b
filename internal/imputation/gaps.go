// Package imputation scans merged datasets for missing-value spans and
// applies the fill policy: short gaps are linearly interpolated, price
// columns are never touched, and long gaps in German generation data can
// optionally be estimated from sibling control areas. Every fill is recorded
// in a marker so downstream consumers can tell observed from computed cells.
package imputation

import (
	"math"
	"sort"
	"time"

	"powerts/domain/core"
	"powerts/domain/series"
)

// FindColumnGaps returns the missing-value blocks of one column, longest
// first. Only spans strictly between the first and last real observation
// count: leading and trailing emptiness is absence of coverage, not a gap.
func FindColumnGaps(key series.ColumnKey, index []time.Time, col []float64, res core.Resolution) []series.GapRecord {
	period := res.Period()
	first, last := validBounds(col)
	if first < 0 {
		return nil
	}

	var gaps []series.GapRecord
	inGap := false
	var start int
	for i := first; i <= last; i++ {
		missing := math.IsNaN(col[i])
		switch {
		case missing && !inGap:
			inGap = true
			start = i
		case !missing && inGap:
			inGap = false
			gaps = append(gaps, record(key, index, start, i-1, period))
		}
	}
	// A block cannot end open: col[last] is a real observation.

	sort.SliceStable(gaps, func(i, j int) bool { return gaps[i].Count > gaps[j].Count })
	return gaps
}

func record(key series.ColumnKey, index []time.Time, start, till int, period time.Duration) series.GapRecord {
	span := index[till].Sub(index[start]) + period
	return series.GapRecord{
		Key:   key,
		Start: index[start],
		Till:  index[till],
		Span:  span,
		Count: int(span / period),
	}
}

func validBounds(col []float64) (first, last int) {
	first, last = -1, -1
	for i, v := range col {
		if !math.IsNaN(v) {
			if first < 0 {
				first = i
			}
			last = i
		}
	}
	return first, last
}
