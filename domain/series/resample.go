package series

import (
	"math"
	"time"

	"powerts/domain/core"
)

// DownsampleMean aggregates a frame to a coarser resolution by averaging the
// periods inside each target period, skipping missing values. A target
// period with no data at all stays missing. This is how quarter-hourly
// in-feed data becomes comparable to hourly load data.
func DownsampleMean(f *Frame, to core.Resolution) (*Frame, error) {
	if f.IsEmpty() {
		return NewFrame(), nil
	}
	period := to.Period()

	var buckets []time.Time
	bucketRow := make(map[int64]int)
	for _, ts := range f.index {
		b := ts.Truncate(period)
		if _, ok := bucketRow[b.Unix()]; !ok {
			bucketRow[b.Unix()] = len(buckets)
			buckets = append(buckets, b)
		}
	}

	out := withIndex(buckets)
	for _, key := range f.order {
		col := f.cols[key]
		sums := make([]float64, len(buckets))
		counts := make([]int, len(buckets))
		for i, ts := range f.index {
			v := col[i]
			if math.IsNaN(v) {
				continue
			}
			row := bucketRow[ts.Truncate(period).Unix()]
			sums[row] += v
			counts[row]++
		}
		values := make([]float64, len(buckets))
		for i := range values {
			if counts[i] == 0 {
				values[i] = math.NaN()
			} else {
				values[i] = sums[i] / float64(counts[i])
			}
		}
		if err := out.AddColumn(key, values); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// ForwardFill re-indexes the frame to a regular grid at res between its
// first and last timestamp and carries the last observation forward into
// every missing cell. Used to expand day-resolution capacity snapshots to
// the finer target resolution.
func ForwardFill(f *Frame, res core.Resolution) (*Frame, error) {
	if f.IsEmpty() {
		return NewFrame(), nil
	}
	grid := regularGrid(f.index[0], f.index[len(f.index)-1], res.Period())
	out := withIndex(grid)
	rows := rowLookup(f.index)
	for _, key := range f.order {
		col := f.cols[key]
		values := make([]float64, len(grid))
		last := math.NaN()
		for i, ts := range grid {
			if row, ok := rows[ts.Unix()]; ok && !math.IsNaN(col[row]) {
				last = col[row]
			}
			values[i] = last
		}
		if err := out.AddColumn(key, values); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// regularGrid returns [start, end] stepped by period.
func regularGrid(start, end time.Time, period time.Duration) []time.Time {
	if end.Before(start) {
		return nil
	}
	n := int(end.Sub(start)/period) + 1
	grid := make([]time.Time, 0, n)
	for ts := start; !ts.After(end); ts = ts.Add(period) {
		grid = append(grid, ts)
	}
	return grid
}

// Reindex exposes residual gaps: the frame is put on the strictly regular
// grid implied by res, missing rows becoming NaN instead of being skipped.
func Reindex(f *Frame, res core.Resolution) (*Frame, error) {
	if f.IsEmpty() {
		return NewFrame(), nil
	}
	grid := regularGrid(f.index[0], f.index[len(f.index)-1], res.Period())
	out := withIndex(grid)
	rows := rowLookup(f.index)
	for _, key := range f.order {
		col := f.cols[key]
		values := make([]float64, len(grid))
		for i, ts := range grid {
			if row, ok := rows[ts.Unix()]; ok {
				values[i] = col[row]
			} else {
				values[i] = math.NaN()
			}
		}
		if err := out.AddColumn(key, values); err != nil {
			return nil, err
		}
	}
	return out, nil
}
