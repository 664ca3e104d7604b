package timeline

import (
	"testing"
)

func TestPositionClock(t *testing.T) {
	cases := []struct {
		pos    int
		hour   int
		minute int
	}{
		{1, 0, 0},
		{4, 0, 45},
		{5, 1, 0},
		{96, 23, 45},
	}
	for _, c := range cases {
		h, m := PositionClock(c.pos)
		if h != c.hour || m != c.minute {
			t.Errorf("PositionClock(%d) = %02d:%02d, want %02d:%02d", c.pos, h, m, c.hour, c.minute)
		}
	}
}

func seqDay(day string, n int) (days []string, pos []int) {
	for p := 1; p <= n; p++ {
		days = append(days, day)
		pos = append(pos, p)
	}
	return days, pos
}

func TestRepairPositionsSpringDay(t *testing.T) {
	days, pos := seqDay("25.03.2012", 92)
	out := RepairPositions(days, pos)

	// Positions 1..8 are untouched, 9..92 move to 13..96: the skipped hour
	// leaves 9..12 unoccupied and the day ends at 96.
	for i := 0; i < 8; i++ {
		if out[i] != i+1 {
			t.Errorf("row %d = %d, want %d", i, out[i], i+1)
		}
	}
	if out[8] != 13 {
		t.Errorf("first shifted row = %d, want 13", out[8])
	}
	if out[len(out)-1] != 96 {
		t.Errorf("last row = %d, want 96", out[len(out)-1])
	}
}

func TestRepairPositionsAutumnDay(t *testing.T) {
	days, pos := seqDay("28.10.2012", 100)
	out := RepairPositions(days, pos)

	// Rows 13..100 move back one hour, so 9..12 occur twice, matching the
	// repeated wall-clock hour the localizer disambiguates.
	if out[12] != 9 {
		t.Errorf("row 12 = %d, want repeated 9", out[12])
	}
	if out[len(out)-1] != 96 {
		t.Errorf("last row = %d, want 96", out[len(out)-1])
	}
	counts := make(map[int]int)
	for _, p := range out {
		counts[p]++
	}
	for p := 9; p <= 12; p++ {
		if counts[p] != 2 {
			t.Errorf("position %d occurs %d times, want 2", p, counts[p])
		}
	}
}

func TestRepairPositions101EntryDay(t *testing.T) {
	days, pos := seqDay("30.10.2011", 101)
	out := RepairPositions(days, pos)

	if out[12] != DroppedPos {
		t.Errorf("bogus 13th row = %d, want DroppedPos", out[12])
	}
	if out[13] != 9 {
		t.Errorf("row 13 = %d, want 9", out[13])
	}
	if out[len(out)-1] != 96 {
		t.Errorf("last row = %d, want 96", out[len(out)-1])
	}
}

func TestRepairPositionsNormalDayUntouched(t *testing.T) {
	days, pos := seqDay("01.06.2012", 96)
	out := RepairPositions(days, pos)
	for i, p := range out {
		if p != i+1 {
			t.Errorf("row %d = %d, want %d", i, p, i+1)
		}
	}
}

func TestRepairPositionsHandlesMultipleDays(t *testing.T) {
	days, pos := seqDay("24.03.2012", 96)
	d2, p2 := seqDay("25.03.2012", 92)
	days = append(days, d2...)
	pos = append(pos, p2...)

	out := RepairPositions(days, pos)
	// The normal day stays, the transition day gets repaired.
	if out[95] != 96 {
		t.Errorf("normal day last row = %d, want 96", out[95])
	}
	if out[96+8] != 13 {
		t.Errorf("transition day shifted row = %d, want 13", out[96+8])
	}
}

func TestApplyCorrectionDropAndRenumber(t *testing.T) {
	c, ok := CorrectionFor("TenneT", "2012-03-25")
	if !ok {
		t.Fatal("missing correction entry for TenneT 2012-03-25")
	}
	// 94 file rows numbered 1..94.
	pos := make([]int, 94)
	for i := range pos {
		pos[i] = i + 1
	}
	out := ApplyCorrection(c, pos)

	if out[7] != DroppedPos || out[9] != DroppedPos {
		t.Errorf("rows 8 and 10 = %d, %d, want both dropped", out[7], out[9])
	}
	if out[8] != 8 {
		t.Errorf("row 9 = %d, want renumbered 8", out[8])
	}
	if out[10] != 13 {
		t.Errorf("row 11 = %d, want renumbered 13", out[10])
	}
	if out[93] != 96 {
		t.Errorf("last row = %d, want 96", out[93])
	}
}

func TestDropsEmptyHour(t *testing.T) {
	if !DropsEmptyHour("TenneT", "2006-03-26", 2) {
		t.Error("expected empty-hour drop for TenneT 2006-03-26 hour 2")
	}
	if DropsEmptyHour("TenneT", "2006-03-26", 3) {
		t.Error("unexpected drop for hour 3")
	}
	if DropsEmptyHour("Amprion", "2006-03-26", 2) {
		t.Error("unexpected drop for other source")
	}
}
