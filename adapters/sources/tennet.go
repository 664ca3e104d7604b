package sources

import (
	"strconv"
	"strings"
	"time"

	"powerts/domain/series"
	"powerts/domain/timeline"
	"powerts/internal"
	"powerts/ports"
)

// TenneT reads the TenneT in-feed exports. The files carry no time column:
// each day's quarter-hours are numbered by position, 1..96 on normal days,
// 1..92 on spring transition days and 1..100 (or, in 2011/2012, 1..101) on
// autumn transition days. The date cell is only present on the first row of
// a day and must be forward-filled. Encoding is Latin-1.
type TenneT struct {
	base
}

// NewTenneT creates the TenneT parser.
func NewTenneT(log *internal.Logger) *TenneT {
	return &TenneT{base{log: log}}
}

// dateFFillLimit bounds the forward fill of the date cell; a day has at
// most 101 rows.
const dateFFillLimit = 100

var tennetColumns = map[string]series.ColumnSpec{
	"forecast": {
		Variable:  "{variable}",
		Region:    "DEtennet",
		Attribute: "forecast",
		Source:    "TenneT",
		Web:       "{web}",
		Unit:      "MW",
	},
	"generation": {
		Variable:  "{variable}",
		Region:    "DEtennet",
		Attribute: "generation",
		Source:    "TenneT",
		Web:       "{web}",
		Unit:      "MW",
	},
}

func (p *TenneT) Parse(req ports.ParseRequest) (*series.Frame, error) {
	if fileTooSmall(req.Filepath) {
		return series.NewFrame(), nil
	}
	loc, err := location(req.Timezone)
	if err != nil {
		return nil, err
	}
	rows, err := readDelimited(req.Filepath, ';', 4, "latin1")
	if err != nil {
		return nil, err
	}

	var days []string
	var pos []int
	var forecast, generation []float64
	lastDay := ""
	sinceDay := 0
	for i, row := range rows {
		if len(row) < 4 {
			continue
		}
		day := strings.TrimSpace(row[0])
		if day != "" {
			lastDay = day
			sinceDay = 0
		} else {
			sinceDay++
			if lastDay == "" || sinceDay > dateFFillLimit {
				p.log.Warn("TenneT: dropping row %d: no date to fill from", i)
				continue
			}
			day = lastDay
		}
		position, err := strconv.Atoi(strings.TrimSpace(row[1]))
		if err != nil {
			p.log.Warn("TenneT: dropping row %d: bad position %q", i, row[1])
			continue
		}
		fc, ok1 := parseNumber(row[2], false)
		gen, ok2 := parseNumber(row[3], false)
		if !ok1 || !ok2 {
			p.log.Warn("TenneT: dropping row %d: bad numbers", i)
			continue
		}
		days = append(days, day)
		pos = append(pos, position)
		forecast = append(forecast, fc)
		generation = append(generation, gen)
	}
	if len(days) == 0 {
		return series.NewFrame(), nil
	}

	pos = timeline.RepairPositions(days, pos)
	pos = p.applyCorrections(req.Source, days, pos)

	var walls []time.Time
	var keptRows []int
	for i, position := range pos {
		if position == timeline.DroppedPos {
			continue
		}
		if position < 1 || position > 96 {
			p.log.Warn("TenneT: dropping row %d: position %d outside 1..96 after repair on %s",
				i, position, days[i])
			continue
		}
		day, err := parseDay(days[i])
		if err != nil {
			p.log.Warn("TenneT: dropping rows for unparseable date %q", days[i])
			continue
		}
		h, m := timeline.PositionClock(position)
		if timeline.DropsEmptyHour(req.Source, day.Format("2006-01-02"), h) {
			// Spring transition hour delivered as empty rows; remove it so
			// localization does not see nonexistent times as data.
			continue
		}
		walls = append(walls, wall(day, h, m))
		keptRows = append(keptRows, i)
	}
	if len(walls) == 0 {
		return series.NewFrame(), nil
	}

	utc, keep, dropped, err := timeline.LocalizeSeries(walls, loc, timeline.AmbiguousInfer)
	if err != nil {
		return nil, err
	}
	p.logDropped("TenneT", dropped)

	raw := series.NewRawTable()
	for i, wallRow := range keep {
		src := keptRows[wallRow]
		if err := raw.Set("forecast", utc[i], forecast[src]); err != nil {
			return nil, err
		}
		if err := raw.Set("generation", utc[i], generation[src]); err != nil {
			return nil, err
		}
	}
	return p.tag(raw, pick(req.Columns, tennetColumns), map[string]string{
		"variable": req.Variable,
		"web":      req.Web,
	})
}

// applyCorrections rewrites one day's positions where the anomaly table has
// an entry for this source and date.
func (p *TenneT) applyCorrections(source string, days []string, pos []int) []int {
	out := append([]int(nil), pos...)
	for start := 0; start < len(days); {
		end := start
		for end < len(days) && days[end] == days[start] {
			end++
		}
		if day, err := parseDay(days[start]); err == nil {
			iso := day.Format("2006-01-02")
			if c, ok := timeline.CorrectionFor(source, iso); ok {
				p.log.Info("TenneT: applying position correction for %s", iso)
				fixed := timeline.ApplyCorrection(c, out[start:end])
				copy(out[start:end], fixed)
			}
		}
		start = end
	}
	return out
}
