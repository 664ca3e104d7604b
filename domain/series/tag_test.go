package series_test

import (
	"testing"
	"time"

	"powerts/domain/series"
)

func TestTagResolvesPlaceholders(t *testing.T) {
	raw := series.NewRawTable()
	ts := time.Date(2015, 1, 1, 0, 0, 0, 0, time.UTC)
	if err := raw.Set("generation", ts, 42); err != nil {
		t.Fatal(err)
	}

	colmap := map[string]series.ColumnSpec{
		"generation": {
			Variable:  "{variable}",
			Region:    "DE50hertz",
			Attribute: "generation",
			Source:    "50Hertz",
			Web:       "{web}",
			Unit:      "MW",
		},
	}
	frame, dropped, err := series.Tag(raw, colmap, map[string]string{
		"variable": "wind",
		"web":      "http://example.invalid/wind",
	})
	if err != nil {
		t.Fatalf("Tag failed: %v", err)
	}
	if len(dropped) != 0 {
		t.Errorf("dropped %v, want none", dropped)
	}
	keys := frame.Keys()
	if len(keys) != 1 {
		t.Fatalf("got %d columns, want 1", len(keys))
	}
	if keys[0].Variable != "wind" || keys[0].Web != "http://example.invalid/wind" {
		t.Errorf("placeholders not resolved: %+v", keys[0])
	}
	if got := frame.Value(keys[0], ts); got != 42 {
		t.Errorf("value = %v, want 42", got)
	}
}

func TestTagDropsUnmappedColumns(t *testing.T) {
	raw := series.NewRawTable()
	ts := time.Date(2015, 1, 1, 0, 0, 0, 0, time.UTC)
	if err := raw.Set("generation", ts, 1); err != nil {
		t.Fatal(err)
	}
	if err := raw.Set("comment", ts, 2); err != nil {
		t.Fatal(err)
	}

	colmap := map[string]series.ColumnSpec{
		"generation": {Variable: "wind", Region: "DE", Attribute: "generation"},
	}
	frame, dropped, err := series.Tag(raw, colmap, nil)
	if err != nil {
		t.Fatalf("Tag failed: %v", err)
	}
	if len(frame.Keys()) != 1 {
		t.Errorf("got %d columns, want 1", len(frame.Keys()))
	}
	if len(dropped) != 1 || dropped[0] != "comment" {
		t.Errorf("dropped = %v, want [comment]", dropped)
	}
}

func TestTagFailsOnUnresolvedPlaceholder(t *testing.T) {
	raw := series.NewRawTable()
	ts := time.Date(2015, 1, 1, 0, 0, 0, 0, time.UTC)
	if err := raw.Set("generation", ts, 1); err != nil {
		t.Fatal(err)
	}

	colmap := map[string]series.ColumnSpec{
		"generation": {Variable: "{variable}", Region: "DE"},
	}
	if _, _, err := series.Tag(raw, colmap, nil); err == nil {
		t.Error("expected error for unresolved placeholder, got nil")
	}
}

func TestRawTableRejectsDuplicateTimestamp(t *testing.T) {
	raw := series.NewRawTable()
	ts := time.Date(2015, 10, 25, 1, 0, 0, 0, time.UTC)
	if err := raw.Set("generation", ts, 1); err != nil {
		t.Fatal(err)
	}
	if err := raw.Set("generation", ts, 2); err == nil {
		t.Error("expected error for duplicate (column, timestamp), got nil")
	}
}

func TestRawTableShiftIndex(t *testing.T) {
	raw := series.NewRawTable()
	ts := time.Date(2015, 1, 1, 0, 15, 0, 0, time.UTC)
	if err := raw.Set("generation", ts, 7); err != nil {
		t.Fatal(err)
	}
	raw.ShiftIndex(-15 * time.Minute)

	frame, _, err := series.Tag(raw, map[string]series.ColumnSpec{
		"generation": {Variable: "wind", Region: "DE", Attribute: "generation"},
	}, nil)
	if err != nil {
		t.Fatal(err)
	}
	want := time.Date(2015, 1, 1, 0, 0, 0, 0, time.UTC)
	if !frame.Index()[0].Equal(want) {
		t.Errorf("shifted index = %s, want %s", frame.Index()[0], want)
	}
}
