package imputation

import (
	"math"
	"time"

	"github.com/montanaflynn/stats"

	"powerts/domain/series"
)

// describeColumn computes the per-column descriptive statistics reported
// next to each gap scan.
func describeColumn(key series.ColumnKey, index []time.Time, col []float64, gaps []series.GapRecord) series.ColumnOverview {
	overview := series.ColumnOverview{Key: key, NaNBlocks: len(gaps)}

	valid := make([]float64, 0, len(col))
	for i, v := range col {
		if math.IsNaN(v) {
			continue
		}
		if len(valid) == 0 {
			overview.First = index[i]
		}
		overview.Last = index[i]
		valid = append(valid, v)
	}
	overview.Count = len(valid)
	for _, gap := range gaps {
		overview.NaNCount += gap.Count
	}
	if len(valid) == 0 {
		return overview
	}

	data := stats.Float64Data(valid)
	overview.Mean, _ = data.Mean()
	overview.Std, _ = data.StandardDeviation()
	overview.Min, _ = data.Min()
	overview.Max, _ = data.Max()
	return overview
}
