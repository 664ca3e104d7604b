package sources

import (
	"strings"
	"time"

	"powerts/domain/series"
	"powerts/internal"
	"powerts/ports"
)

// Aggregated reads long-format exports where each row carries its own zone
// label: timestamp, zone, value, one observation per row. The rows pivot
// into one column per zone. Timestamps are already UTC, so no localization
// runs here. Zones without a configured column mapping are dropped; the
// mapping doubles as the allow-list.
type Aggregated struct {
	base
}

// NewAggregated creates the long-format pivot parser.
func NewAggregated(log *internal.Logger) *Aggregated {
	return &Aggregated{base{log: log}}
}

// aggregatedLayouts are the UTC timestamp formats seen in these exports.
var aggregatedLayouts = []string{"2006-01-02T15:04:05Z", "2006-01-02 15:04:05", "2006-01-02 15:04"}

func parseAggregatedStamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	var firstErr error
	for _, layout := range aggregatedLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t.UTC(), nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return time.Time{}, firstErr
}

func (p *Aggregated) Parse(req ports.ParseRequest) (*series.Frame, error) {
	if fileTooSmall(req.Filepath) {
		return series.NewFrame(), nil
	}
	rows, err := readDelimited(req.Filepath, ',', 1, "")
	if err != nil {
		return nil, err
	}
	if len(req.Columns) == 0 {
		p.log.Warn("aggregated: no column mapping configured for %s/%s, nothing to keep",
			req.Source, req.Variable)
		return series.NewFrame(), nil
	}

	raw := series.NewRawTable()
	unknown := make(map[string]bool)
	for i, row := range rows {
		if len(row) < 3 || strings.TrimSpace(row[0]) == "" {
			continue
		}
		zone := strings.TrimSpace(row[1])
		if _, ok := req.Columns[zone]; !ok {
			unknown[zone] = true
			continue
		}
		stamp, err := parseAggregatedStamp(row[0])
		if err != nil {
			p.log.Warn("aggregated: dropping row %d: bad timestamp %q", i, row[0])
			continue
		}
		v, ok := parseNumber(row[2], false)
		if !ok {
			p.log.Warn("aggregated: dropping row %d: bad number %q", i, row[2])
			continue
		}
		if err := raw.Set(zone, stamp, v); err != nil {
			return nil, err
		}
	}
	for zone := range unknown {
		p.log.Debug("aggregated: dropping unlisted zone %q", zone)
	}
	return p.tag(raw, req.Columns, map[string]string{
		"variable": req.Variable,
		"web":      req.Web,
	})
}
