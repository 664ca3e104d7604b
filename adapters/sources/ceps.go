package sources

import (
	"strings"
	"time"

	"powerts/domain/series"
	"powerts/domain/timeline"
	"powerts/internal"
	"powerts/ports"
)

// CEPS reads the Czech TSO hourly generation exports: tab-separated with two
// caption lines and a combined "date hour" timestamp cell. Wind and solar
// in-feed sit in the third and fourth columns.
type CEPS struct {
	base
}

// NewCEPS creates the CEPS parser.
func NewCEPS(log *internal.Logger) *CEPS {
	return &CEPS{base{log: log}}
}

var cepsColumns = map[string]series.ColumnSpec{
	"wind": {
		Variable:  "wind",
		Region:    "CZ",
		Attribute: "generation",
		Source:    "CEPS",
		Web:       "{web}",
		Unit:      "MW",
	},
	"solar": {
		Variable:  "solar",
		Region:    "CZ",
		Attribute: "generation",
		Source:    "CEPS",
		Web:       "{web}",
		Unit:      "MW",
	},
}

func (p *CEPS) Parse(req ports.ParseRequest) (*series.Frame, error) {
	if fileTooSmall(req.Filepath) {
		return series.NewFrame(), nil
	}
	zone := req.Timezone
	if zone == "" {
		zone = "Europe/Prague"
	}
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return nil, err
	}
	rows, err := readDelimited(req.Filepath, '\t', 2, "")
	if err != nil {
		return nil, err
	}

	var walls []time.Time
	var windVals, solarVals []float64
	for i, row := range rows {
		if len(row) < 4 || strings.TrimSpace(row[0]) == "" {
			continue
		}
		// The first cell reads "DD.MM.YYYY HH:MM" (minutes always zero).
		dayCell, clockCell, found := strings.Cut(strings.TrimSpace(row[0]), " ")
		if !found {
			p.log.Warn("CEPS: dropping row %d: bad timestamp %q", i, row[0])
			continue
		}
		day, err := parseDay(dayCell)
		if err != nil {
			p.log.Warn("CEPS: dropping row %d: bad date %q", i, dayCell)
			continue
		}
		h, m, err := clockHHMM(clockCell)
		if err != nil {
			p.log.Warn("CEPS: dropping row %d: bad time %q", i, clockCell)
			continue
		}
		w, ok1 := parseNumber(row[2], true)
		s, ok2 := parseNumber(row[3], true)
		if !ok1 || !ok2 {
			p.log.Warn("CEPS: dropping row %d: bad numbers", i)
			continue
		}
		walls = append(walls, wall(day, h, m))
		windVals = append(windVals, w)
		solarVals = append(solarVals, s)
	}
	if len(walls) == 0 {
		return series.NewFrame(), nil
	}

	utc, keep, dropped, err := timeline.LocalizeSeries(walls, loc, timeline.AmbiguousInfer)
	if err != nil {
		return nil, err
	}
	p.logDropped("CEPS", dropped)

	raw := series.NewRawTable()
	for i, src := range keep {
		if err := raw.Set("wind", utc[i], windVals[src]); err != nil {
			return nil, err
		}
		if err := raw.Set("solar", utc[i], solarVals[src]); err != nil {
			return nil, err
		}
	}
	return p.tag(raw, pick(req.Columns, cepsColumns), map[string]string{
		"web": req.Web,
	})
}
