package sources

import (
	"time"

	"powerts/domain/core"
	"powerts/domain/series"
	"powerts/domain/timeline"
	"powerts/internal"
	"powerts/ports"
)

// Capacities reads the day-resolution installed-capacity snapshots: one row
// per calendar day with wind and solar capacity. The series is extended to
// the last quarter-hour of its final day and forward-filled to the target
// resolution; without the extension the final day would be dropped.
type Capacities struct {
	base
}

// NewCapacities creates the capacity-snapshot parser.
func NewCapacities(log *internal.Logger) *Capacities {
	return &Capacities{base{log: log}}
}

var capacityColumns = map[string]series.ColumnSpec{
	"wind": {
		Variable:  "wind",
		Region:    "DE",
		Attribute: "capacity",
		Source:    "own calculation",
		Web:       "{web}",
		Unit:      "MW",
	},
	"solar": {
		Variable:  "solar",
		Region:    "DE",
		Attribute: "capacity",
		Source:    "own calculation",
		Web:       "{web}",
		Unit:      "MW",
	},
}

func (p *Capacities) Parse(req ports.ParseRequest) (*series.Frame, error) {
	if fileTooSmall(req.Filepath) {
		return series.NewFrame(), nil
	}
	loc, err := location(req.Timezone)
	if err != nil {
		return nil, err
	}
	rows, err := readDelimited(req.Filepath, ',', 1, "")
	if err != nil {
		return nil, err
	}

	var days []time.Time
	var wind, solar []float64
	for i, row := range rows {
		if len(row) < 4 {
			continue
		}
		day, err := parseDay(row[0])
		if err != nil {
			p.log.Warn("capacities: dropping row %d: bad date %q", i, row[0])
			continue
		}
		w, ok1 := parseNumber(row[2], false)
		s, ok2 := parseNumber(row[3], false)
		if !ok1 || !ok2 {
			p.log.Warn("capacities: dropping row %d: bad numbers", i)
			continue
		}
		days = append(days, day)
		wind = append(wind, w)
		solar = append(solar, s)
	}
	if len(days) == 0 {
		return series.NewFrame(), nil
	}

	// Extend to the final day's last period, still in local time, so the
	// forward fill below covers the whole last calendar day.
	period := req.Resolution.Period()
	last := days[len(days)-1]
	days = append(days, last.Add(24*time.Hour-period))
	wind = append(wind, wind[len(wind)-1])
	solar = append(solar, solar[len(solar)-1])

	raw := series.NewRawTable()
	for i, day := range days {
		// Midnight snapshots are never DST-ambiguous.
		utc, err := timeline.LocalizeOne(wall(day, day.Hour(), day.Minute()), loc)
		if err != nil {
			p.log.Warn("capacities: dropping %s: %v", day.Format("2006-01-02"), err)
			continue
		}
		if err := raw.Set("wind", utc, wind[i]); err != nil {
			return nil, err
		}
		if err := raw.Set("solar", utc, solar[i]); err != nil {
			return nil, err
		}
	}

	frame, err := p.tag(raw, pick(req.Columns, capacityColumns), map[string]string{
		"web": req.Web,
	})
	if err != nil {
		return nil, err
	}
	res := req.Resolution
	if res == "" {
		res = core.Res15Min
	}
	return series.ForwardFill(frame, res)
}
