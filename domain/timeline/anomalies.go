package timeline

// The upstream files contain undocumented data-entry errors on specific
// dates. Rather than burying the fixes in parser conditionals, they live in
// version-controlled correction tables keyed by source and date, so each new
// discovery is one auditable entry.

// PositionCorrection repairs a position-counter sequence on one calendar day
// of one source: the listed positions are dropped, then the surviving rows
// with position >= From are renumbered to the exact Assign sequence.
type PositionCorrection struct {
	Source string
	Day    string // calendar day as it appears in the source, ISO formatted
	Drop   []int
	From   int
	Assign []int
}

// EmptyHourDrop removes rows for one local hour on one day. Some years
// represent the spring transition hour as empty rows that would otherwise
// break localization.
type EmptyHourDrop struct {
	Source string
	Day    string
	Hour   int
}

// PositionCorrections lists the known per-date counter errors.
var PositionCorrections = []PositionCorrection{
	// 94 entries on the 2012 spring transition day; entries 8 and 10 are
	// wrong, the rest renumber to 8, 13..96.
	{Source: "TenneT", Day: "2012-03-25", Drop: []int{8, 10}, From: 9, Assign: seq8then13to96()},
	// 97 entries on a plain September day; the 97th is spurious.
	{Source: "TenneT", Day: "2012-09-27", Drop: []int{97}},
}

// EmptyHourDrops lists the spring transition hours delivered as empty rows.
var EmptyHourDrops = []EmptyHourDrop{
	{Source: "TenneT", Day: "2006-03-26", Hour: 2},
	{Source: "TenneT", Day: "2008-03-30", Hour: 2},
	{Source: "TenneT", Day: "2009-03-29", Hour: 2},
}

func seq8then13to96() []int {
	out := []int{8}
	for p := 13; p <= 96; p++ {
		out = append(out, p)
	}
	return out
}

// CorrectionFor returns the position correction for a source/day pair, if any.
func CorrectionFor(source, day string) (PositionCorrection, bool) {
	for _, c := range PositionCorrections {
		if c.Source == source && c.Day == day {
			return c, true
		}
	}
	return PositionCorrection{}, false
}

// DropsEmptyHour reports whether rows at the given local hour of day must be
// discarded for this source.
func DropsEmptyHour(source, day string, hour int) bool {
	for _, d := range EmptyHourDrops {
		if d.Source == source && d.Day == day && d.Hour == hour {
			return true
		}
	}
	return false
}

// ApplyCorrection rewrites the position values of one day's rows according
// to c. pos holds that day's positions in file order; dropped rows become
// DroppedPos.
func ApplyCorrection(c PositionCorrection, pos []int) []int {
	out := append([]int(nil), pos...)
	for i, p := range out {
		for _, d := range c.Drop {
			if p == d {
				out[i] = DroppedPos
			}
		}
	}
	if c.From > 0 && len(c.Assign) > 0 {
		next := 0
		for i, p := range out {
			if p == DroppedPos || p < c.From {
				continue
			}
			if next < len(c.Assign) {
				out[i] = c.Assign[next]
				next++
			}
		}
	}
	return out
}
