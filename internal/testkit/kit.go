// Package testkit provides fixture builders shared by the test suites:
// regular time grids, column keys and indexed frames without going through a
// parser.
package testkit

import (
	"fmt"
	"math"
	"time"

	"powerts/domain/core"
	"powerts/domain/series"
)

// NaN is the missing-value sentinel, aliased for readable fixture literals.
func NaN() float64 {
	return math.NaN()
}

// Key builds a column key with the levels tests usually care about.
func Key(region, variable, attribute string) series.ColumnKey {
	return series.ColumnKey{
		Variable:  variable,
		Region:    region,
		Attribute: attribute,
		Source:    "test",
		Web:       "http://example.invalid",
		Unit:      "MW",
	}
}

// Grid returns n timestamps starting at the RFC3339 instant start, stepped by
// one period of res. Panics on a malformed start; fixtures are literals.
func Grid(start string, res core.Resolution, n int) []time.Time {
	t, err := time.Parse(time.RFC3339, start)
	if err != nil {
		panic(fmt.Sprintf("testkit: bad grid start %q: %v", start, err))
	}
	t = t.UTC()
	out := make([]time.Time, n)
	for i := range out {
		out[i] = t.Add(time.Duration(i) * res.Period())
	}
	return out
}

// Frame builds an indexed frame from fixture columns. Every value slice must
// match the grid length; mismatches panic because they are fixture bugs, not
// conditions under test.
func Frame(index []time.Time, cols map[series.ColumnKey][]float64) *series.Frame {
	f := series.NewIndexedFrame(index)
	for key, values := range cols {
		if err := f.AddColumn(key, values); err != nil {
			panic(fmt.Sprintf("testkit: %v", err))
		}
	}
	return f
}

// Close reports whether two values agree within a small absolute tolerance,
// treating two NaNs as equal.
func Close(a, b float64) bool {
	if math.IsNaN(a) || math.IsNaN(b) {
		return math.IsNaN(a) && math.IsNaN(b)
	}
	return math.Abs(a-b) < 1e-9
}
