package imputation

import (
	"sort"
	"strings"
	"time"

	"powerts/domain/core"
)

// MarkerDelimiter joins column names when one timestamp carries several
// markers in the serialized form.
const MarkerDelimiter = " | "

// Markers records, per timestamp, which columns were filled by the engine
// rather than observed. Internally a set of (timestamp, column-name) patch
// records; the delimited string form exists only at the output boundary.
type Markers struct {
	m map[int64]map[string]bool
}

// NewMarkers returns an empty marker set.
func NewMarkers() *Markers {
	return &Markers{m: make(map[int64]map[string]bool)}
}

// Add records that the named column was patched at ts.
func (mk *Markers) Add(ts time.Time, name string) {
	set, ok := mk.m[ts.Unix()]
	if !ok {
		set = make(map[string]bool)
		mk.m[ts.Unix()] = set
	}
	set[name] = true
}

// IsEmpty reports whether nothing was patched.
func (mk *Markers) IsEmpty() bool {
	return len(mk.m) == 0
}

// At serializes the marker for one timestamp, or "" when nothing was
// patched there. Names are sorted so output is deterministic.
func (mk *Markers) At(ts time.Time) string {
	set, ok := mk.m[ts.Unix()]
	if !ok {
		return ""
	}
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)
	return strings.Join(names, MarkerDelimiter)
}

// Glue merges another marker set into this one. Identical entries collapse;
// an absent marker is the identity element, so gluing changes nothing where
// other has no record.
func (mk *Markers) Glue(other *Markers) {
	if other == nil {
		return
	}
	for unix, set := range other.m {
		for name := range set {
			mk.Add(time.Unix(unix, 0).UTC(), name)
		}
	}
}

// ResampleTo collapses markers onto a coarser grid: every marker inside a
// target period attaches to that period's start, deduplicated.
func (mk *Markers) ResampleTo(to core.Resolution) *Markers {
	period := to.Period()
	out := NewMarkers()
	for unix, set := range mk.m {
		bucket := time.Unix(unix, 0).UTC().Truncate(period)
		for name := range set {
			out.Add(bucket, name)
		}
	}
	return out
}
