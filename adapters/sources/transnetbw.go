package sources

import (
	"time"

	"powerts/domain/series"
	"powerts/domain/timeline"
	"powerts/internal"
	"powerts/ports"
)

// TransnetBW reads the TransnetBW in-feed exports: semicolon-separated, one
// caption line, German decimal commas, and the useful columns sitting at
// positions 2..5. The time cell labels the END of each period, so the whole
// index shifts back one period after conversion to UTC.
type TransnetBW struct {
	base
}

// NewTransnetBW creates the TransnetBW parser.
func NewTransnetBW(log *internal.Logger) *TransnetBW {
	return &TransnetBW{base{log: log}}
}

var transnetbwColumns = map[string]series.ColumnSpec{
	"forecast": {
		Variable:  "{variable}",
		Region:    "DEtransnetbw",
		Attribute: "forecast",
		Source:    "TransnetBW",
		Web:       "{web}",
		Unit:      "MW",
	},
	"generation": {
		Variable:  "{variable}",
		Region:    "DEtransnetbw",
		Attribute: "generation",
		Source:    "TransnetBW",
		Web:       "{web}",
		Unit:      "MW",
	},
}

func (p *TransnetBW) Parse(req ports.ParseRequest) (*series.Frame, error) {
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
		if len(row) < 6 {
			continue
		}
		day, err := parseDay(row[2])
		if err != nil {
			p.log.Warn("TransnetBW: dropping row %d: bad date %q", i, row[2])
			continue
		}
		h, m, err := clockHHMM(row[3])
		if err != nil {
			p.log.Warn("TransnetBW: dropping row %d: bad time %q", i, row[3])
			continue
		}
		fc, ok1 := parseNumber(row[4], true)
		gen, ok2 := parseNumber(row[5], true)
		if !ok1 || !ok2 {
			p.log.Warn("TransnetBW: dropping row %d: bad numbers", i)
			continue
		}
		walls = append(walls, wall(day, h, m))
		forecast = append(forecast, fc)
		generation = append(generation, gen)
	}
	if len(walls) == 0 {
		return series.NewFrame(), nil
	}

	utc, keep, dropped, err := timeline.LocalizeSeries(walls, loc, timeline.AmbiguousInfer)
	if err != nil {
		return nil, err
	}
	p.logDropped("TransnetBW", dropped)

	raw := series.NewRawTable()
	for i, src := range keep {
		if err := raw.Set("forecast", utc[i], forecast[src]); err != nil {
			return nil, err
		}
		if err := raw.Set("generation", utc[i], generation[src]); err != nil {
			return nil, err
		}
	}
	// End-of-period labels: shift back so the index marks period starts.
	raw.ShiftIndex(-req.Resolution.Period())

	return p.tag(raw, pick(req.Columns, transnetbwColumns), map[string]string{
		"variable": req.Variable,
		"web":      req.Web,
	})
}
