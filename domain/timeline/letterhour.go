package timeline

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ParseLetterHour parses a 1-indexed raw hour label like "03:00:00",
// "3A:00:00" or "3B:00:00". The letter marks the first (A) or second (B)
// occurrence of the repeated hour during the autumn transition. Returns the
// 0-indexed hour and the suffix, 0 when there is none.
func ParseLetterHour(raw string) (hour int, suffix byte, err error) {
	head, _, ok := strings.Cut(raw, ":")
	if !ok {
		return 0, 0, fmt.Errorf("malformed hour label %q", raw)
	}
	if n := len(head); n > 0 {
		last := head[n-1]
		if last == 'A' || last == 'B' {
			suffix = last
			head = head[:n-1]
		}
	}
	h, err := strconv.Atoi(strings.TrimSpace(head))
	if err != nil {
		return 0, 0, fmt.Errorf("malformed hour label %q: %w", raw, err)
	}
	if h < 1 || h > 24 {
		return 0, 0, fmt.Errorf("hour label %q outside 1..24", raw)
	}
	return h - 1, suffix, nil
}

// IsSpringTransitionDay reports whether the local calendar day skips an hour
// (clocks move forward) in loc.
func IsSpringTransitionDay(year int, month time.Month, day int, loc *time.Location) bool {
	return dayOffsetShift(year, month, day, loc) > 0
}

// IsAutumnTransitionDay reports whether the local calendar day repeats an
// hour (clocks move back) in loc.
func IsAutumnTransitionDay(year int, month time.Month, day int, loc *time.Location) bool {
	return dayOffsetShift(year, month, day, loc) < 0
}

func dayOffsetShift(year int, month time.Month, day int, loc *time.Location) int {
	start := time.Date(year, month, day, 0, 30, 0, 0, loc)
	end := time.Date(year, month, day, 23, 30, 0, 0, loc)
	_, offStart := start.Zone()
	_, offEnd := end.Zone()
	return offEnd - offStart
}
