package sources

import (
	"time"

	"powerts/domain/series"
	"powerts/domain/timeline"
	"powerts/internal"
	"powerts/ports"
)

// Amprion reads the Amprion in-feed exports: semicolon-separated with one
// caption line, columns date, period, forecast, actual, German decimal
// commas. Through 2009 both occurrences of the autumn repeated hour are in
// the file; afterwards only the summertime one is reported.
type Amprion struct {
	base
}

// NewAmprion creates the Amprion parser.
func NewAmprion(log *internal.Logger) *Amprion {
	return &Amprion{base{log: log}}
}

var amprionColumns = map[string]series.ColumnSpec{
	"forecast": {
		Variable:  "{variable}",
		Region:    "DEamprion",
		Attribute: "forecast",
		Source:    "Amprion",
		Web:       "{web}",
		Unit:      "MW",
	},
	"generation": {
		Variable:  "{variable}",
		Region:    "DEamprion",
		Attribute: "generation",
		Source:    "Amprion",
		Web:       "{web}",
		Unit:      "MW",
	},
}

func (p *Amprion) Parse(req ports.ParseRequest) (*series.Frame, error) {
	if fileTooSmall(req.Filepath) {
		return series.NewFrame(), nil
	}
	loc, err := location(req.Timezone)
	if err != nil {
		return nil, err
	}
	rows, err := readDelimited(req.Filepath, ';', 1, "")
	if err != nil {
		return nil, err
	}

	var walls []time.Time
	var forecast, generation []float64
	for i, row := range rows {
		if len(row) < 4 {
			continue
		}
		day, err := parseDay(row[0])
		if err != nil {
			p.log.Warn("Amprion: dropping row %d: bad date %q", i, row[0])
			continue
		}
		h, m, err := clockHHMM(row[1])
		if err != nil {
			p.log.Warn("Amprion: dropping row %d: bad time %q", i, row[1])
			continue
		}
		fc, ok1 := parseNumber(row[2], true)
		gen, ok2 := parseNumber(row[3], true)
		if !ok1 || !ok2 {
			p.log.Warn("Amprion: dropping row %d: bad numbers", i)
			continue
		}
		walls = append(walls, wall(day, h, m))
		forecast = append(forecast, fc)
		generation = append(generation, gen)
	}
	if len(walls) == 0 {
		return series.NewFrame(), nil
	}

	utc, keep, err := p.localize(walls, loc)
	if err != nil {
		return nil, err
	}

	raw := series.NewRawTable()
	for i, src := range keep {
		if err := raw.Set("forecast", utc[i], forecast[src]); err != nil {
			return nil, err
		}
		if err := raw.Set("generation", utc[i], generation[src]); err != nil {
			return nil, err
		}
	}
	return p.tag(raw, pick(req.Columns, amprionColumns), map[string]string{
		"variable": req.Variable,
		"web":      req.Web,
	})
}

// localize converts the wall times year by year. Through 2009 both
// occurrences of the autumn repeated hour are in the file and resolve in
// order; afterwards only the summertime one is reported, so ambiguous times
// are summer time by fiat. A file spanning the boundary gets both policies.
func (p *Amprion) localize(walls []time.Time, loc *time.Location) ([]time.Time, []int, error) {
	var utc []time.Time
	var keep []int
	for start := 0; start < len(walls); {
		year := walls[start].Year()
		end := start
		for end < len(walls) && walls[end].Year() == year {
			end++
		}
		policy := timeline.AmbiguousInfer
		if year > 2009 {
			policy = timeline.AmbiguousAllDST
		}
		segUTC, segKeep, dropped, err := timeline.LocalizeSeries(walls[start:end], loc, policy)
		if err != nil {
			return nil, nil, err
		}
		p.logDropped("Amprion", dropped)
		utc = append(utc, segUTC...)
		for _, k := range segKeep {
			keep = append(keep, k+start)
		}
		start = end
	}
	return utc, keep, nil
}
