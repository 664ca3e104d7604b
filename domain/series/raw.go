package series

import (
	"fmt"
	"sort"
	"time"
)

// RawTable accumulates parser output under raw source column names before
// tagging. Cells arrive in file order; the table sorts its index on demand.
// Timestamps must already be tz-naive UTC when they are set.
type RawTable struct {
	rows  map[int64]map[string]float64
	order []string
	seen  map[string]bool
}

// NewRawTable returns an empty raw table.
func NewRawTable() *RawTable {
	return &RawTable{
		rows: make(map[int64]map[string]float64),
		seen: make(map[string]bool),
	}
}

// Set records one cell. A second value for the same (column, timestamp) pair
// means the parser produced a duplicate UTC timestamp, which is always a bug
// in the time normalization for that source.
func (t *RawTable) Set(col string, ts time.Time, v float64) error {
	key := ts.Unix()
	row, ok := t.rows[key]
	if !ok {
		row = make(map[string]float64)
		t.rows[key] = row
	}
	if _, dup := row[col]; dup {
		return fmt.Errorf("duplicate timestamp %s in column %q", ts.UTC().Format(time.RFC3339), col)
	}
	row[col] = v
	if !t.seen[col] {
		t.seen[col] = true
		t.order = append(t.order, col)
	}
	return nil
}

// IsEmpty reports whether no cells were recorded.
func (t *RawTable) IsEmpty() bool {
	return len(t.rows) == 0
}

// Columns returns the raw column names in first-seen order.
func (t *RawTable) Columns() []string {
	return t.order
}

// ShiftIndex moves every timestamp by d. Sources that label a period by its
// end instant are shifted back one period so the index marks period starts.
func (t *RawTable) ShiftIndex(d time.Duration) {
	shifted := make(map[int64]map[string]float64, len(t.rows))
	for unix, row := range t.rows {
		shifted[time.Unix(unix, 0).Add(d).Unix()] = row
	}
	t.rows = shifted
}

// sortedTimes returns the distinct timestamps in ascending order.
func (t *RawTable) sortedTimes() []time.Time {
	keys := make([]int64, 0, len(t.rows))
	for unix := range t.rows {
		keys = append(keys, unix)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	out := make([]time.Time, len(keys))
	for i, unix := range keys {
		out[i] = time.Unix(unix, 0).UTC()
	}
	return out
}
