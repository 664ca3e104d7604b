package series

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// ErrMergeConflict is returned when two sources claim different non-missing
// values for the same column key at the same timestamp. Sources are assumed
// mutually exclusive per key, so a conflict is a configuration defect, not
// data to be reconciled.
var ErrMergeConflict = errors.New("merge conflict")

// CombineFirst merges incoming into existing as a non-destructive outer
// union: the row index becomes the sorted union of both indexes, and a cell
// from incoming is taken only where the corresponding cell in existing is
// missing. Existing non-missing values are never overwritten.
//
// The operation is idempotent and associative as long as the per-key source
// exclusivity holds; equal values on both sides are tolerated (that is what
// makes re-merging the same table a no-op), differing ones raise
// ErrMergeConflict.
func CombineFirst(existing, incoming *Frame) (*Frame, error) {
	if existing.IsEmpty() {
		return incoming.Copy(), nil
	}
	if incoming.IsEmpty() {
		return existing.Copy(), nil
	}

	index := unionIndex(existing.index, incoming.index)
	out := withIndex(index)

	rowOfA := rowLookup(existing.index)
	rowOfB := rowLookup(incoming.index)

	keys := append([]ColumnKey(nil), existing.order...)
	for _, key := range incoming.order {
		if _, ok := existing.cols[key]; !ok {
			keys = append(keys, key)
		}
	}

	for _, key := range keys {
		values := make([]float64, len(index))
		colA := existing.cols[key]
		colB := incoming.cols[key]
		for i, ts := range index {
			a := valueAt(colA, rowOfA, ts)
			b := valueAt(colB, rowOfB, ts)
			switch {
			case math.IsNaN(a):
				values[i] = b
			case math.IsNaN(b) || a == b:
				values[i] = a
			default:
				return nil, fmt.Errorf("%w: column %s at %s: %v vs %v",
					ErrMergeConflict, key, ts.Format(time.RFC3339), a, b)
			}
		}
		if err := out.AddColumn(key, values); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func valueAt(col []float64, rows map[int64]int, ts time.Time) float64 {
	if col == nil {
		return math.NaN()
	}
	i, ok := rows[ts.Unix()]
	if !ok {
		return math.NaN()
	}
	return col[i]
}

func rowLookup(index []time.Time) map[int64]int {
	m := make(map[int64]int, len(index))
	for i, ts := range index {
		m[ts.Unix()] = i
	}
	return m
}

func unionIndex(a, b []time.Time) []time.Time {
	out := make([]time.Time, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i].Before(b[j]):
			out = append(out, a[i])
			i++
		case b[j].Before(a[i]):
			out = append(out, b[j])
			j++
		default:
			out = append(out, a[i])
			i++
			j++
		}
	}
	out = append(out, a[i:]...)
	out = append(out, b[j:]...)
	return out
}
