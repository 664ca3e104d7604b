package series_test

import (
	"math"
	"testing"
	"time"

	"powerts/domain/core"
	"powerts/domain/series"
	"powerts/internal/testkit"
)

func TestFinalizeTrimsLeadingAndTrailingZeros(t *testing.T) {
	index := testkit.Grid("2015-01-01T00:00:00Z", core.Res60Min, 8)
	key := testkit.Key("DE50hertz", "solar", "generation")
	f := testkit.Frame(index, map[series.ColumnKey][]float64{
		key: {0, 0, 5, 0, 7, 0, 0, 0},
	})

	out, err := series.Finalize(f, core.Res60Min, time.Time{}, time.Time{}, time.UTC)
	if err != nil {
		t.Fatalf("Finalize failed: %v", err)
	}
	// Leading zeros before the first real value and trailing zeros after the
	// last one become missing; the interior zero survives.
	wantNaN := []int{0, 1, 5, 6, 7}
	for _, i := range wantNaN {
		if got := out.Value(key, index[i]); !math.IsNaN(got) {
			t.Errorf("row %d = %v, want NaN", i, got)
		}
	}
	if got := out.Value(key, index[3]); got != 0 {
		t.Errorf("interior zero = %v, want 0", got)
	}
}

func TestFinalizeNullsAllZeroColumn(t *testing.T) {
	index := testkit.Grid("2015-01-01T00:00:00Z", core.Res60Min, 4)
	key := testkit.Key("DE50hertz", "solar", "generation")
	f := testkit.Frame(index, map[series.ColumnKey][]float64{
		key: {0, 0, 0, 0},
	})

	out, err := series.Finalize(f, core.Res60Min, time.Time{}, time.Time{}, time.UTC)
	if err != nil {
		t.Fatalf("Finalize failed: %v", err)
	}
	for i := range index {
		if got := out.At(key, i); !math.IsNaN(got) {
			t.Errorf("row %d = %v, want NaN for never-operational column", i, got)
		}
	}
}

func TestFinalizeSlicesUserRange(t *testing.T) {
	// Two full days of hourly data.
	index := testkit.Grid("2015-01-01T00:00:00Z", core.Res60Min, 48)
	values := make([]float64, 48)
	for i := range values {
		values[i] = float64(i + 1)
	}
	key := testkit.Key("SE", "load", "load")
	f := testkit.Frame(index, map[series.ColumnKey][]float64{key: values})

	start := time.Date(2015, 1, 2, 0, 0, 0, 0, time.UTC)
	end := time.Date(2015, 1, 2, 0, 0, 0, 0, time.UTC)
	out, err := series.Finalize(f, core.Res60Min, start, end, time.UTC)
	if err != nil {
		t.Fatalf("Finalize failed: %v", err)
	}
	// Exactly the requested calendar day survives, through its last hour.
	if out.Len() != 24 {
		t.Fatalf("sliced frame has %d rows, want 24", out.Len())
	}
	first := out.Index()[0]
	if !first.Equal(start) {
		t.Errorf("first row at %s, want %s", first, start)
	}
	last := out.Index()[out.Len()-1]
	wantLast := start.Add(23 * time.Hour)
	if !last.Equal(wantLast) {
		t.Errorf("last row at %s, want %s", last, wantLast)
	}
}

func TestFinalizeStartUsesReferenceZone(t *testing.T) {
	brussels, err := time.LoadLocation("Europe/Brussels")
	if err != nil {
		t.Fatal(err)
	}
	index := testkit.Grid("2015-06-01T00:00:00Z", core.Res60Min, 48)
	values := make([]float64, 48)
	for i := range values {
		values[i] = 1
	}
	key := testkit.Key("BE", "solar", "generation")
	f := testkit.Frame(index, map[series.ColumnKey][]float64{key: values})

	start := time.Date(2015, 6, 2, 0, 0, 0, 0, time.UTC)
	out, err := series.Finalize(f, core.Res60Min, start, time.Time{}, brussels)
	if err != nil {
		t.Fatalf("Finalize failed: %v", err)
	}
	// Brussels midnight in June is 22:00 UTC the previous day.
	want := time.Date(2015, 6, 1, 22, 0, 0, 0, time.UTC)
	if !out.Index()[0].Equal(want) {
		t.Errorf("first row at %s, want %s", out.Index()[0], want)
	}
}
