// Package timeline converts source-specific time representations into
// tz-naive UTC timestamps: quarter-hour position counters, letter-suffixed
// DST hour labels, and naive local timestamps that need disambiguation
// around daylight-saving transitions.
//
// Wall-clock inputs are modeled as time.Time values in the UTC location
// whose fields carry the local reading; the functions here resolve them
// against an IANA zone and hand back instants re-expressed as naive UTC.
package timeline

import (
	"fmt"
	"sort"
	"time"
)

// AmbiguityPolicy selects how a wall-clock time that occurs twice during the
// autumn transition is resolved.
type AmbiguityPolicy int

const (
	// AmbiguousInfer resolves repeated hours by file order: rows are assumed
	// chronological, so the first occurrence takes the summer-time offset
	// and the repeat the standard-time offset. Known fragility: a source
	// delivering rows out of order silently yields wrong UTC timestamps.
	AmbiguousInfer AmbiguityPolicy = iota

	// AmbiguousAllDST treats every ambiguous time as summer time. Used for
	// sources that report only one of the two repeated hours (the summer
	// one) in certain years.
	AmbiguousAllDST

	// AmbiguousAllSTD treats every ambiguous time as standard time.
	AmbiguousAllSTD
)

// Candidates returns the UTC instants at which loc's wall clock reads wall,
// sorted ascending. Zero results mean the time falls in a spring gap, two
// mean it is an autumn repeat.
func Candidates(wall time.Time, loc *time.Location) []time.Time {
	var out []time.Time
	seen := make(map[int64]bool)
	// Offsets in force shortly before and after the instant bracket every
	// transition relevant to this wall time.
	for _, probe := range []time.Duration{-26 * time.Hour, 0, 26 * time.Hour} {
		_, off := wall.Add(probe).In(loc).Zone()
		inst := wall.Add(-time.Duration(off) * time.Second)
		if _, check := inst.In(loc).Zone(); check == off && !seen[inst.Unix()] {
			seen[inst.Unix()] = true
			out = append(out, inst)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

// Dropped reports a wall-clock row that could not be localized and was
// removed from the series.
type Dropped struct {
	Row    int
	Wall   time.Time
	Reason string
}

// LocalizeSeries resolves a chronological sequence of naive local wall times
// against loc and returns them as naive UTC. Rows falling in a spring gap
// are dropped and reported, never kept with a guessed offset. The returned
// keep slice maps output rows back to input rows so callers can realign
// value columns.
func LocalizeSeries(wall []time.Time, loc *time.Location, policy AmbiguityPolicy) (utc []time.Time, keep []int, dropped []Dropped, err error) {
	var last time.Time
	for i, w := range wall {
		cands := Candidates(w, loc)
		var inst time.Time
		switch {
		case len(cands) == 0:
			dropped = append(dropped, Dropped{Row: i, Wall: w, Reason: "nonexistent local time (spring transition)"})
			continue
		case len(cands) == 1:
			inst = cands[0]
		default:
			switch policy {
			case AmbiguousAllDST:
				inst = cands[0]
			case AmbiguousAllSTD:
				inst = cands[len(cands)-1]
			case AmbiguousInfer:
				// First pass through the repeated hour resolves early,
				// the repeat resolves late.
				inst = cands[len(cands)-1]
				for _, c := range cands {
					if c.After(last) {
						inst = c
						break
					}
				}
			default:
				return nil, nil, nil, fmt.Errorf("unknown ambiguity policy %d", policy)
			}
		}
		last = inst
		utc = append(utc, inst.UTC())
		keep = append(keep, i)
	}
	return utc, keep, dropped, nil
}

// LocalizeOne resolves a single wall time with no ambiguity context. An
// ambiguous time resolves to standard time, a nonexistent one is an error.
func LocalizeOne(wall time.Time, loc *time.Location) (time.Time, error) {
	cands := Candidates(wall, loc)
	if len(cands) == 0 {
		return time.Time{}, fmt.Errorf("nonexistent local time %s in %s", wall.Format("2006-01-02 15:04"), loc)
	}
	return cands[len(cands)-1].UTC(), nil
}
