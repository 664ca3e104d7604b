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

// PSE reads the Polish TSO wind generation exports: UTF-16 encoded,
// tab-separated, one caption line. Hours are 1-indexed with the autumn
// repeated hour written as "2A"; dates come as compact YYYYMMDD strings.
type PSE struct {
	base
}

// NewPSE creates the PSE parser.
func NewPSE(log *internal.Logger) *PSE {
	return &PSE{base{log: log}}
}

var pseColumns = map[string]series.ColumnSpec{
	"generation": {
		Variable:  "wind",
		Region:    "PL",
		Attribute: "generation",
		Source:    "PSE",
		Web:       "{web}",
		Unit:      "MW",
	},
}

// pseDay parses the compact YYYYMMDD date format used in these files.
func pseDay(s string) (time.Time, error) {
	return time.Parse("20060102", strings.TrimSpace(s))
}

// pseHour parses the 1-indexed hour cell. The autumn repeated hour appears
// as "2A"; the suffix is irrelevant because both occurrences are present in
// order and the infer policy resolves them chronologically.
func pseHour(s string) (int, error) {
	s = strings.TrimSuffix(strings.TrimSpace(s), "A")
	h, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if h < 1 || h > 24 {
		return 0, strconv.ErrRange
	}
	return h - 1, nil
}

func (p *PSE) Parse(req ports.ParseRequest) (*series.Frame, error) {
	if fileTooSmall(req.Filepath) {
		return series.NewFrame(), nil
	}
	zone := req.Timezone
	if zone == "" {
		zone = "Europe/Warsaw"
	}
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return nil, err
	}
	rows, err := readDelimited(req.Filepath, '\t', 1, "utf16")
	if err != nil {
		return nil, err
	}

	var walls []time.Time
	var values []float64
	for i, row := range rows {
		if len(row) < 3 || strings.TrimSpace(row[0]) == "" {
			continue
		}
		day, err := pseDay(row[0])
		if err != nil {
			p.log.Warn("PSE: dropping row %d: bad date %q", i, row[0])
			continue
		}
		hour, err := pseHour(row[1])
		if err != nil {
			p.log.Warn("PSE: dropping row %d: bad hour %q", i, row[1])
			continue
		}
		v, ok := parseNumber(row[2], true)
		if !ok {
			p.log.Warn("PSE: dropping row %d: bad number %q", i, row[2])
			continue
		}
		walls = append(walls, wall(day, hour, 0))
		values = append(values, v)
	}
	if len(walls) == 0 {
		return series.NewFrame(), nil
	}

	utc, keep, dropped, err := timeline.LocalizeSeries(walls, loc, timeline.AmbiguousInfer)
	if err != nil {
		return nil, err
	}
	p.logDropped("PSE", dropped)

	raw := series.NewRawTable()
	for i, src := range keep {
		if err := raw.Set("generation", utc[i], values[src]); err != nil {
			return nil, err
		}
	}
	return p.tag(raw, pick(req.Columns, pseColumns), map[string]string{
		"web": req.Web,
	})
}
