package sources

import (
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"powerts/domain/series"
	"powerts/domain/timeline"
	"powerts/internal"
	"powerts/internal/errors"
	"powerts/ports"
)

// Elia reads the Belgian TSO solar and wind workbooks: quarter-hourly rows
// with a combined timestamp cell, a day-ahead forecast column and a measured
// in-feed column below a handful of caption rows.
type Elia struct {
	base
}

// NewElia creates the Elia parser.
func NewElia(log *internal.Logger) *Elia {
	return &Elia{base{log: log}}
}

// eliaHeaderRows is the number of caption rows before data starts.
const eliaHeaderRows = 4

var eliaColumns = map[string]series.ColumnSpec{
	"forecast": {
		Variable:  "{variable}",
		Region:    "BE",
		Attribute: "forecast",
		Source:    "Elia",
		Web:       "{web}",
		Unit:      "MW",
	},
	"generation": {
		Variable:  "{variable}",
		Region:    "BE",
		Attribute: "generation",
		Source:    "Elia",
		Web:       "{web}",
		Unit:      "MW",
	},
}

func (p *Elia) Parse(req ports.ParseRequest) (*series.Frame, error) {
	if fileTooSmall(req.Filepath) {
		return series.NewFrame(), nil
	}
	zone := req.Timezone
	if zone == "" {
		zone = "Europe/Brussels"
	}
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return nil, err
	}

	f, err := excelize.OpenFile(req.Filepath)
	if err != nil {
		return nil, errors.WithCode(errors.CodeSkippableFile, fmt.Errorf("opening %s: %w", req.Filepath, err))
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return series.NewFrame(), nil
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, err
	}

	var walls []time.Time
	var forecast, generation []float64
	for i := eliaHeaderRows; i < len(rows); i++ {
		row := rows[i]
		if len(row) < 3 || strings.TrimSpace(row[0]) == "" {
			continue
		}
		// The timestamp cell reads "DD/MM/YYYY HH:MM".
		dayCell, clockCell, found := strings.Cut(strings.TrimSpace(row[0]), " ")
		if !found {
			p.log.Warn("Elia: dropping row %d: bad timestamp %q", i+1, row[0])
			continue
		}
		day, err := parseDay(dayCell)
		if err != nil {
			p.log.Warn("Elia: dropping row %d: bad date %q", i+1, dayCell)
			continue
		}
		h, m, err := clockHHMM(clockCell)
		if err != nil {
			p.log.Warn("Elia: dropping row %d: bad time %q", i+1, clockCell)
			continue
		}
		fc, ok1 := parseNumber(row[1], false)
		gen, ok2 := parseNumber(row[2], false)
		if !ok1 || !ok2 {
			p.log.Warn("Elia: dropping row %d: bad numbers", i+1)
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
	p.logDropped("Elia", dropped)

	raw := series.NewRawTable()
	for i, src := range keep {
		if err := raw.Set("forecast", utc[i], forecast[src]); err != nil {
			return nil, err
		}
		if err := raw.Set("generation", utc[i], generation[src]); err != nil {
			return nil, err
		}
	}
	return p.tag(raw, pick(req.Columns, eliaColumns), map[string]string{
		"variable": req.Variable,
		"web":      req.Web,
	})
}
