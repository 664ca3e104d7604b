package timeline

// PositionClock converts a 1-based quarter-hour position counter to the wall
// clock it stands for: position 1 is 00:00, position 96 is 23:45.
func PositionClock(pos int) (hour, minute int) {
	return (pos - 1) / 4, ((pos - 1) % 4) * 15
}

// DroppedPos marks a repaired-away row in a position sequence.
const DroppedPos = -1

// RepairPositions normalizes a chronological sequence of per-day quarter-hour
// counters so every day ends at position 96. days[i] is the calendar day
// label of row i (equal labels mark one day's block); pos is modified into
// the returned slice, with DroppedPos for rows to discard.
//
// Repairs applied per day:
//   - a day ending at 92 is a spring transition day: positions >= 9 shift
//     forward by 4 (one hour), restoring the 1..96 range minus the skipped
//     hour;
//   - a day reaching 100 is an autumn transition day: positions >= 13 shift
//     back by 4;
//   - a day reaching 101 carries one extra quarter-hour; inspection of the
//     upstream data shows the 13th is the bogus one, so it is dropped and
//     positions >= 13 shift back by 5.
func RepairPositions(days []string, pos []int) []int {
	out := append([]int(nil), pos...)
	for start := 0; start < len(days); {
		end := start
		for end < len(days) && days[end] == days[start] {
			end++
		}
		repairDay(out[start:end])
		start = end
	}
	return out
}

func repairDay(pos []int) {
	if len(pos) == 0 {
		return
	}
	maxPos := pos[0]
	has101 := false
	for _, p := range pos {
		if p > maxPos {
			maxPos = p
		}
		if p == 101 {
			has101 = true
		}
	}
	switch {
	case pos[len(pos)-1] == 92 && maxPos == 92:
		for i, p := range pos {
			if p >= 9 {
				pos[i] = p + 4
			}
		}
	case has101:
		for i, p := range pos {
			switch {
			case p == 13:
				pos[i] = DroppedPos
			case p > 13:
				pos[i] = p - 5
			}
		}
	case maxPos == 100:
		for i, p := range pos {
			if p >= 13 {
				pos[i] = p - 4
			}
		}
	}
}
