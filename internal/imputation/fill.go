package imputation

import (
	"math"
	"time"

	"powerts/domain/core"
	"powerts/domain/series"
	"powerts/internal"
)

// MaxInterpolationSpan is the longest missing span filled by linear
// interpolation. Anything longer is only recorded.
const MaxInterpolationSpan = 2 * time.Hour

// Engine applies the fill policy to one merged resolution bucket.
type Engine struct {
	log *internal.Logger

	// EstimateLongGaps activates the sibling-TSO estimator for long gaps in
	// German generation-actual columns. The upstream design sketches this
	// but never enabled it, so it ships off by default; enabling it is an
	// explicit, logged decision.
	EstimateLongGaps bool
}

// NewEngine creates an engine logging through log.
func NewEngine(log *internal.Logger) *Engine {
	return &Engine{log: log}
}

// Result is one pass over one resolution bucket.
type Result struct {
	Patched   *series.Frame
	Markers   *Markers
	Gaps      []series.GapRecord
	Overviews []series.ColumnOverview
}

// Patch scans every column of f for missing-value blocks and fills them
// according to the policy. f itself is never modified; gap records describe
// the state before patching.
func (e *Engine) Patch(f *series.Frame, res core.Resolution) (*Result, error) {
	result := &Result{
		Patched: f.Copy(),
		Markers: NewMarkers(),
	}
	if f.IsEmpty() {
		return result, nil
	}
	index := f.Index()

	for _, key := range f.Keys() {
		col, _ := result.Patched.Column(key)
		gaps := FindColumnGaps(key, index, col, res)
		overview := describeColumn(key, index, col, gaps)

		if len(gaps) == 0 {
			e.log.Debug("%s | %s | column already complete", res, key.Name())
			result.Overviews = append(result.Overviews, overview)
			continue
		}
		result.Gaps = append(result.Gaps, gaps...)

		interpolated := 0
		for _, gap := range gaps {
			switch {
			case key.Variable == "price":
				// Prices jump; interpolating them would invent market
				// signals. Never filled, whatever the span.
			case gap.Span <= MaxInterpolationSpan:
				e.interpolate(index, col, gap, key, result.Markers)
				interpolated++
				overview.InterpolatedValues += gap.Count
			case isGermanGeneration(key):
				if e.EstimateLongGaps {
					if e.estimateFromSiblings(f, index, col, key, gap, res, result.Markers) {
						overview.InterpolatedValues += gap.Count
						interpolated++
					}
				}
				// Otherwise recorded only, like every other long gap.
			}
		}
		overview.InterpolatedBlocks = interpolated
		result.Overviews = append(result.Overviews, overview)
		e.log.Info("%s | %s | %d gap blocks, %d filled", res, key.Name(), len(gaps), interpolated)
	}
	return result, nil
}

// interpolate fills one block linearly. One real observation on each side of
// the block serves as anchor; blocks are maximal runs strictly inside the
// column's valid range, so both anchors exist.
func (e *Engine) interpolate(index []time.Time, col []float64, gap series.GapRecord, key series.ColumnKey, markers *Markers) {
	start := searchTime(index, gap.Start)
	till := searchTime(index, gap.Till)
	if start <= 0 || till < 0 || till+1 >= len(col) {
		return
	}
	a := col[start-1]
	b := col[till+1]
	if math.IsNaN(a) || math.IsNaN(b) {
		return
	}
	n := till - start + 1
	step := (b - a) / float64(n+1)
	for k := 1; k <= n; k++ {
		col[start+k-1] = a + step*float64(k)
		markers.Add(index[start+k-1], key.Name())
	}
}

func isGermanGeneration(key series.ColumnKey) bool {
	return len(key.Region) >= 2 && key.Region[:2] == "DE" && key.Attribute == "generation"
}

func searchTime(index []time.Time, ts time.Time) int {
	lo, hi := 0, len(index)
	for lo < hi {
		mid := (lo + hi) / 2
		if index[mid].Before(ts) {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	if lo < len(index) && index[lo].Equal(ts) {
		return lo
	}
	return -1
}
