package imputation

import (
	"math"
	"time"

	"gonum.org/v1/gonum/floats"

	"powerts/domain/core"
	"powerts/domain/series"
)

// germanTSORegions are the four balancing areas whose in-feed data is
// mutually correlated enough to scale one from the others.
var germanTSORegions = []string{"DE50hertz", "DEamprion", "DEtennet", "DEtransnetbw"}

// estimateFromSiblings fills one long gap in a German generation column by
// scaling the summed in-feed of the sibling TSOs. The scaling factor comes
// from the 24 hours immediately preceding the gap: siblings without complete
// data over that window plus the gap itself are excluded. Returns false when
// no usable sibling remains or the factor degenerates.
//
// Experimental path, disabled unless Engine.EstimateLongGaps is set.
func (e *Engine) estimateFromSiblings(f *series.Frame, index []time.Time, col []float64, key series.ColumnKey, gap series.GapRecord, res core.Resolution, markers *Markers) bool {
	period := res.Period()

	lo := searchTime(index, gap.Start.Add(-24*time.Hour))
	start := searchTime(index, gap.Start)
	till := searchTime(index, gap.Till)
	if lo < 0 || start < 0 || till < 0 {
		return false
	}
	if start-lo != int(24*time.Hour/period) {
		// The preceding day is not fully on the grid.
		return false
	}

	// Sum the sibling columns that are complete over [day before, gap end].
	similar := make([]float64, till-lo+1)
	usable := 0
	for _, region := range germanTSORegions {
		if region == key.Region {
			continue
		}
		sibling := findSibling(f, key, region)
		if sibling == nil || !complete(sibling[lo:till+1]) {
			continue
		}
		floats.Add(similar, sibling[lo:till+1])
		usable++
	}
	if usable == 0 {
		e.log.Warn("%s: no complete sibling data to estimate gap at %s", key.Name(), gap.Start)
		return false
	}

	if !complete(col[lo:start]) {
		return false
	}
	factor := floats.Sum(similar[:start-lo]) / floats.Sum(col[lo:start])
	if math.IsNaN(factor) || math.IsInf(factor, 0) || factor == 0 {
		return false
	}

	for i := start; i <= till; i++ {
		col[i] = similar[i-lo] / factor
		markers.Add(index[i], key.Name())
	}

	e.log.Info("%s: guessed %d entries after %s, last known %.2f, first guess %.2f",
		key.Name(), gap.Count, gap.Start, col[start-1], col[start])
	return true
}

// findSibling scans for a column matching variable/attribute in the given
// region regardless of the source and web levels, which differ per TSO.
func findSibling(f *series.Frame, key series.ColumnKey, region string) []float64 {
	for _, k := range f.Keys() {
		if k.Variable == key.Variable && k.Attribute == key.Attribute && k.Region == region {
			col, _ := f.Column(k)
			return col
		}
	}
	return nil
}

func complete(window []float64) bool {
	for _, v := range window {
		if math.IsNaN(v) {
			return false
		}
	}
	return true
}
