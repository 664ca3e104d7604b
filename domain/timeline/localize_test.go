package timeline

import (
	"testing"
	"time"
)

func berlin(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Europe/Berlin")
	if err != nil {
		t.Fatal(err)
	}
	return loc
}

// naive builds a wall-clock reading the way parsers encode them.
func naive(y int, m time.Month, d, h, min int) time.Time {
	return time.Date(y, m, d, h, min, 0, 0, time.UTC)
}

func TestCandidatesNormalHour(t *testing.T) {
	cands := Candidates(naive(2015, time.June, 1, 12, 0), berlin(t))
	if len(cands) != 1 {
		t.Fatalf("got %d candidates for a plain summer noon, want 1", len(cands))
	}
	want := time.Date(2015, time.June, 1, 10, 0, 0, 0, time.UTC)
	if !cands[0].Equal(want) {
		t.Errorf("candidate = %s, want %s", cands[0], want)
	}
}

func TestCandidatesAutumnRepeat(t *testing.T) {
	// 02:30 on 2015-10-25 happens twice in Berlin.
	cands := Candidates(naive(2015, time.October, 25, 2, 30), berlin(t))
	if len(cands) != 2 {
		t.Fatalf("got %d candidates for the repeated hour, want 2", len(cands))
	}
	first := time.Date(2015, time.October, 25, 0, 30, 0, 0, time.UTC)
	second := time.Date(2015, time.October, 25, 1, 30, 0, 0, time.UTC)
	if !cands[0].Equal(first) || !cands[1].Equal(second) {
		t.Errorf("candidates = %v, want [%s %s]", cands, first, second)
	}
}

func TestCandidatesSpringGap(t *testing.T) {
	// 02:30 on 2015-03-29 does not exist in Berlin.
	cands := Candidates(naive(2015, time.March, 29, 2, 30), berlin(t))
	if len(cands) != 0 {
		t.Errorf("got %d candidates for a nonexistent time, want 0", len(cands))
	}
}

func TestLocalizeSeriesInferResolvesAutumnPair(t *testing.T) {
	walls := []time.Time{
		naive(2015, time.October, 25, 1, 0),
		naive(2015, time.October, 25, 2, 0), // summer occurrence
		naive(2015, time.October, 25, 2, 0), // standard-time repeat
		naive(2015, time.October, 25, 3, 0),
	}
	utc, keep, dropped, err := LocalizeSeries(walls, berlin(t), AmbiguousInfer)
	if err != nil {
		t.Fatalf("LocalizeSeries failed: %v", err)
	}
	if len(dropped) != 0 {
		t.Fatalf("dropped %v, want none", dropped)
	}
	if len(keep) != 4 {
		t.Fatalf("kept %d rows, want 4", len(keep))
	}
	want := []time.Time{
		time.Date(2015, time.October, 24, 23, 0, 0, 0, time.UTC),
		time.Date(2015, time.October, 25, 0, 0, 0, 0, time.UTC),
		time.Date(2015, time.October, 25, 1, 0, 0, 0, time.UTC),
		time.Date(2015, time.October, 25, 2, 0, 0, 0, time.UTC),
	}
	for i := range want {
		if !utc[i].Equal(want[i]) {
			t.Errorf("row %d = %s, want %s", i, utc[i], want[i])
		}
	}
}

func TestLocalizeSeriesAllDSTAndAllSTD(t *testing.T) {
	walls := []time.Time{naive(2015, time.October, 25, 2, 0)}
	loc := berlin(t)

	utc, _, _, err := LocalizeSeries(walls, loc, AmbiguousAllDST)
	if err != nil {
		t.Fatal(err)
	}
	wantDST := time.Date(2015, time.October, 25, 0, 0, 0, 0, time.UTC)
	if !utc[0].Equal(wantDST) {
		t.Errorf("all-DST = %s, want %s", utc[0], wantDST)
	}

	utc, _, _, err = LocalizeSeries(walls, loc, AmbiguousAllSTD)
	if err != nil {
		t.Fatal(err)
	}
	wantSTD := time.Date(2015, time.October, 25, 1, 0, 0, 0, time.UTC)
	if !utc[0].Equal(wantSTD) {
		t.Errorf("all-STD = %s, want %s", utc[0], wantSTD)
	}
}

func TestLocalizeSeriesDropsSpringGapRows(t *testing.T) {
	walls := []time.Time{
		naive(2015, time.March, 29, 1, 45),
		naive(2015, time.March, 29, 2, 0), // inside the skipped hour
		naive(2015, time.March, 29, 3, 0),
	}
	utc, keep, dropped, err := LocalizeSeries(walls, berlin(t), AmbiguousInfer)
	if err != nil {
		t.Fatalf("LocalizeSeries failed: %v", err)
	}
	if len(dropped) != 1 || dropped[0].Row != 1 {
		t.Fatalf("dropped = %v, want exactly row 1", dropped)
	}
	if len(keep) != 2 || keep[0] != 0 || keep[1] != 2 {
		t.Fatalf("keep = %v, want [0 2]", keep)
	}
	// 03:00 CEST is 01:00 UTC; the index stays contiguous across the gap.
	want := time.Date(2015, time.March, 29, 1, 0, 0, 0, time.UTC)
	if !utc[1].Equal(want) {
		t.Errorf("row after gap = %s, want %s", utc[1], want)
	}
}

func TestLocalizeOne(t *testing.T) {
	loc := berlin(t)

	utc, err := LocalizeOne(naive(2015, time.October, 25, 2, 0), loc)
	if err != nil {
		t.Fatalf("LocalizeOne failed: %v", err)
	}
	// Without sequence context the repeat resolves to standard time.
	want := time.Date(2015, time.October, 25, 1, 0, 0, 0, time.UTC)
	if !utc.Equal(want) {
		t.Errorf("ambiguous LocalizeOne = %s, want %s", utc, want)
	}

	if _, err := LocalizeOne(naive(2015, time.March, 29, 2, 30), loc); err == nil {
		t.Error("expected error for nonexistent local time, got nil")
	}
}
