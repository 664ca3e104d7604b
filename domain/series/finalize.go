package series

import (
	"math"
	"time"

	"powerts/domain/core"
)

// Finalize prepares one merged resolution bucket for output:
//
//  1. re-index to the exact regular frequency, so residual gaps show up as
//     missing rows instead of being silently skipped;
//  2. restrict to [start, end]: start is the requested day's midnight in the
//     pipeline's reference zone, end is the requested day's last period in
//     UTC, so the full final calendar day is retained;
//  3. null out leading/trailing runs of exact zero per column, which
//     typically mean "not yet operational" rather than a true measurement.
//
// start and end are calendar dates; passing zero times skips that bound.
func Finalize(f *Frame, res core.Resolution, start, end time.Time, loc *time.Location) (*Frame, error) {
	out, err := Reindex(f, res)
	if err != nil || out.IsEmpty() {
		return out, err
	}

	var lo, hi time.Time
	if !start.IsZero() {
		local := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, loc)
		lo = local.UTC()
	}
	if !end.IsZero() {
		hi = time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC).
			Add(24*time.Hour - res.Period())
	}
	out = sliceRange(out, lo, hi)

	trimZeroRuns(out)
	return out, nil
}

func sliceRange(f *Frame, lo, hi time.Time) *Frame {
	i, j := 0, len(f.index)
	for i < j && !lo.IsZero() && f.index[i].Before(lo) {
		i++
	}
	for j > i && !hi.IsZero() && f.index[j-1].After(hi) {
		j--
	}
	out := withIndex(f.index[i:j])
	for _, key := range f.order {
		out.cols[key] = f.cols[key][i:j]
		out.order = append(out.order, key)
	}
	return out
}

// trimZeroRuns nulls exact-zero runs before each column's first non-zero
// value and after its last one, in place.
func trimZeroRuns(f *Frame) {
	for _, key := range f.order {
		col := f.cols[key]
		first, last := -1, -1
		for i, v := range col {
			if !math.IsNaN(v) && v != 0 {
				if first < 0 {
					first = i
				}
				last = i
			}
		}
		if first < 0 {
			// Column is all zeros and gaps: nothing ever operated.
			for i := range col {
				col[i] = math.NaN()
			}
			continue
		}
		for i := 0; i < first; i++ {
			if col[i] == 0 {
				col[i] = math.NaN()
			}
		}
		for i := last + 1; i < len(col); i++ {
			if col[i] == 0 {
				col[i] = math.NaN()
			}
		}
	}
}
