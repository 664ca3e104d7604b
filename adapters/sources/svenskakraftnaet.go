package sources

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"powerts/domain/series"
	"powerts/domain/timeline"
	"powerts/internal"
	"powerts/internal/errors"
	"powerts/ports"
)

// SvenskaKraftnaet reads the yearly statistics workbooks from Svenska
// Kraftnät: hourly rows with a date column, a 1-indexed hour column, total
// wind in-feed, offshore wind in-feed and country load. The offshore column
// only reports real data from 2015-03-01 on; earlier cells repeat zero
// placeholders and are discarded so offshore stays separate from (and never
// pollutes) total generation.
type SvenskaKraftnaet struct {
	base
}

// NewSvenskaKraftnaet creates the Svenska Kraftnät parser.
func NewSvenskaKraftnaet(log *internal.Logger) *SvenskaKraftnaet {
	return &SvenskaKraftnaet{base{log: log}}
}

// offshoreValidFrom is the first day with real offshore wind reporting.
var offshoreValidFrom = time.Date(2015, time.March, 1, 0, 0, 0, 0, time.UTC)

// svenskaHeaderRows is the number of caption rows before data starts.
const svenskaHeaderRows = 5

var svenskaColumns = map[string]series.ColumnSpec{
	"wind": {
		Variable:  "wind",
		Region:    "SE",
		Attribute: "generation",
		Source:    "Svenska Kraftnaet",
		Web:       "{web}",
		Unit:      "MW",
	},
	"wind_offshore": {
		Variable:  "wind_offshore",
		Region:    "SE",
		Attribute: "generation",
		Source:    "Svenska Kraftnaet",
		Web:       "{web}",
		Unit:      "MW",
	},
	"load": {
		Variable:  "load",
		Region:    "SE",
		Attribute: "load",
		Source:    "Svenska Kraftnaet",
		Web:       "{web}",
		Unit:      "MW",
	},
}

func (p *SvenskaKraftnaet) Parse(req ports.ParseRequest) (*series.Frame, error) {
	if fileTooSmall(req.Filepath) {
		return series.NewFrame(), nil
	}
	zone := req.Timezone
	if zone == "" {
		zone = "Europe/Stockholm"
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
	var wind, offshore, load []float64
	for i := svenskaHeaderRows; i < len(rows); i++ {
		row := rows[i]
		if len(row) < 5 || strings.TrimSpace(row[0]) == "" {
			continue
		}
		day, err := parseDay(row[0])
		if err != nil {
			p.log.Warn("Svenska Kraftnaet: dropping row %d: bad date %q", i+1, row[0])
			continue
		}
		hour, err := strconv.Atoi(strings.TrimSpace(row[1]))
		if err != nil || hour < 1 || hour > 24 {
			p.log.Warn("Svenska Kraftnaet: dropping row %d: bad hour %q", i+1, row[1])
			continue
		}
		w, ok1 := parseNumber(row[2], false)
		off, ok2 := parseNumber(row[3], false)
		ld, ok3 := parseNumber(row[4], false)
		if !ok1 || !ok2 || !ok3 {
			p.log.Warn("Svenska Kraftnaet: dropping row %d: bad numbers", i+1)
			continue
		}
		if day.Before(offshoreValidFrom) {
			off = math.NaN()
		}
		walls = append(walls, wall(day, hour-1, 0))
		wind = append(wind, w)
		offshore = append(offshore, off)
		load = append(load, ld)
	}
	if len(walls) == 0 {
		return series.NewFrame(), nil
	}

	utc, keep, dropped, err := timeline.LocalizeSeries(walls, loc, timeline.AmbiguousInfer)
	if err != nil {
		return nil, err
	}
	p.logDropped("Svenska Kraftnaet", dropped)

	raw := series.NewRawTable()
	for i, src := range keep {
		if err := raw.Set("wind", utc[i], wind[src]); err != nil {
			return nil, err
		}
		if err := raw.Set("wind_offshore", utc[i], offshore[src]); err != nil {
			return nil, err
		}
		if err := raw.Set("load", utc[i], load[src]); err != nil {
			return nil, err
		}
	}
	return p.tag(raw, pick(req.Columns, svenskaColumns), map[string]string{
		"web": req.Web,
	})
}
