// Package series implements the tabular core of the pipeline: UTC-indexed
// frames with multi-level column keys, the non-destructive merge used to
// combine sources, and the resampling/trimming applied before output.
//
// All timestamps inside a Frame are tz-naive UTC. Source-local time handling
// ends at the parser boundary (see domain/timeline); everything past that
// point compares timestamps directly.
package series

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"
)

// Headers is the declared level order of the column index. Downstream
// serialization writes one header row per entry, in this order.
var Headers = []string{"variable", "region", "attribute", "source", "web", "unit"}

// ColumnKey uniquely identifies one logical time series across the whole
// system. No two columns may share an identical key within one resolution
// bucket after merge.
type ColumnKey struct {
	Variable  string
	Region    string
	Attribute string
	Source    string
	Web       string
	Unit      string
}

// Levels returns the key fields in Headers order.
func (k ColumnKey) Levels() []string {
	return []string{k.Variable, k.Region, k.Attribute, k.Source, k.Web, k.Unit}
}

// Name returns the compact identifier used in imputation markers and logs,
// e.g. "DE_wind_generation_actual". Empty levels are skipped.
func (k ColumnKey) Name() string {
	parts := make([]string, 0, 3)
	for _, level := range []string{k.Region, k.Variable, k.Attribute} {
		if level != "" {
			parts = append(parts, level)
		}
	}
	return strings.Join(parts, "_")
}

func (k ColumnKey) String() string {
	return "(" + strings.Join(k.Levels(), ", ") + ")"
}

// Frame is a 2-D structure keyed by (time index row, column key column).
// The index is strictly increasing with no duplicates; missing cells are NaN.
type Frame struct {
	index []time.Time
	cols  map[ColumnKey][]float64
	order []ColumnKey
}

// NewFrame returns an empty frame.
func NewFrame() *Frame {
	return &Frame{cols: make(map[ColumnKey][]float64)}
}

// NewIndexedFrame returns a column-less frame over a copy of index, which
// must be strictly increasing.
func NewIndexedFrame(index []time.Time) *Frame {
	return withIndex(append([]time.Time(nil), index...))
}

// Len returns the number of index rows.
func (f *Frame) Len() int {
	return len(f.index)
}

// IsEmpty reports whether the frame has no rows or no columns.
func (f *Frame) IsEmpty() bool {
	return len(f.index) == 0 || len(f.order) == 0
}

// Index returns the time index. Callers must not mutate it.
func (f *Frame) Index() []time.Time {
	return f.index
}

// Keys returns the column keys in insertion order.
func (f *Frame) Keys() []ColumnKey {
	return f.order
}

// Column returns the value slice for a key. Callers must not mutate it.
func (f *Frame) Column(key ColumnKey) ([]float64, bool) {
	col, ok := f.cols[key]
	return col, ok
}

// AddColumn attaches a value slice to the frame. The slice length must match
// the index and the key must not already be present: a duplicate key
// indicates a parser or configuration bug and is reported loudly.
func (f *Frame) AddColumn(key ColumnKey, values []float64) error {
	if len(values) != len(f.index) {
		return fmt.Errorf("column %s: %d values for %d index rows", key, len(values), len(f.index))
	}
	if _, exists := f.cols[key]; exists {
		return fmt.Errorf("duplicate column key %s", key)
	}
	f.cols[key] = values
	f.order = append(f.order, key)
	return nil
}

// At returns the value at row i of the column, or NaN if the key is absent.
func (f *Frame) At(key ColumnKey, i int) float64 {
	col, ok := f.cols[key]
	if !ok || i < 0 || i >= len(col) {
		return math.NaN()
	}
	return col[i]
}

// Value looks the column up at an exact timestamp.
func (f *Frame) Value(key ColumnKey, ts time.Time) float64 {
	i := f.rowAt(ts)
	if i < 0 {
		return math.NaN()
	}
	return f.At(key, i)
}

// rowAt returns the row for an exact timestamp, or -1.
func (f *Frame) rowAt(ts time.Time) int {
	i := sort.Search(len(f.index), func(i int) bool { return !f.index[i].Before(ts) })
	if i < len(f.index) && f.index[i].Equal(ts) {
		return i
	}
	return -1
}

// withIndex creates a frame sharing no storage with f, carrying a new index.
func withIndex(index []time.Time) *Frame {
	return &Frame{index: index, cols: make(map[ColumnKey][]float64)}
}

// Copy returns a deep copy of the frame.
func (f *Frame) Copy() *Frame {
	out := withIndex(append([]time.Time(nil), f.index...))
	for _, key := range f.order {
		out.cols[key] = append([]float64(nil), f.cols[key]...)
		out.order = append(out.order, key)
	}
	return out
}

// TruncateAfter drops all rows strictly after the cutoff.
func (f *Frame) TruncateAfter(cutoff time.Time) *Frame {
	n := sort.Search(len(f.index), func(i int) bool { return f.index[i].After(cutoff) })
	out := withIndex(f.index[:n])
	for _, key := range f.order {
		out.cols[key] = f.cols[key][:n]
		out.order = append(out.order, key)
	}
	return out
}

// FirstValid returns the index of the first non-NaN value, or -1.
func firstValid(col []float64) int {
	for i, v := range col {
		if !math.IsNaN(v) {
			return i
		}
	}
	return -1
}

// LastValid returns the index of the last non-NaN value, or -1.
func lastValid(col []float64) int {
	for i := len(col) - 1; i >= 0; i-- {
		if !math.IsNaN(col[i]) {
			return i
		}
	}
	return -1
}
