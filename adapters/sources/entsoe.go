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

// ENTSOE reads the monthly hourly-load workbooks from the ENTSO-E Data
// Portal. The sheet is a matrix with countries and days in the rows and the
// hours of the day in the columns, hours labelled 1-indexed with an A/B
// suffix marking the two occurrences of the repeated hour during the autumn
// transition. Missing cells read "n.a.".
type ENTSOE struct {
	base
}

// NewENTSOE creates the ENTSO-E Data Portal parser.
func NewENTSOE(log *internal.Logger) *ENTSOE {
	return &ENTSOE{base{log: log}}
}

// entsoeHeaderRow is the 1-based sheet row holding the column captions.
const entsoeHeaderRow = 10

// Some bidding zones are published under aliases that collide with the
// country codes used elsewhere; they are renamed on read.
var entsoeRenames = map[string]string{"DK_W": "DKw", "UA_W": "UAw"}

func entsoeSpec(country string) series.ColumnSpec {
	return series.ColumnSpec{
		Variable:  "load",
		Region:    country,
		Attribute: "load",
		Source:    "ENTSO-E",
		Web:       "{web}",
		Unit:      "MW",
	}
}

func (p *ENTSOE) Parse(req ports.ParseRequest) (*series.Frame, error) {
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
	if len(rows) <= entsoeHeaderRow {
		return series.NewFrame(), nil
	}
	header := rows[entsoeHeaderRow-1]
	if len(header) < 3 {
		return nil, fmt.Errorf("ENTSO-E header row has %d cells", len(header))
	}
	hourLabels := header[2:]

	// Unstack the matrix into per-country (wall time, value) sequences.
	// Rows run day-ascending and hours left to right, so each sequence is
	// chronological, which the infer policy depends on.
	countryWalls := make(map[string][]time.Time)
	countryValues := make(map[string][]float64)
	var countries []string

	for i := entsoeHeaderRow; i < len(rows); i++ {
		row := rows[i]
		if len(row) < 3 || strings.TrimSpace(row[0]) == "" {
			continue
		}
		country := strings.TrimSpace(row[0])
		if renamed, ok := entsoeRenames[country]; ok {
			country = renamed
		}
		day, err := parseDay(row[1])
		if err != nil {
			p.log.Warn("ENTSO-E: dropping row %d: bad day %q", i+1, row[1])
			continue
		}
		spring := timeline.IsSpringTransitionDay(day.Year(), day.Month(), day.Day(), loc)
		autumn := timeline.IsAutumnTransitionDay(day.Year(), day.Month(), day.Day(), loc)
		if _, seen := countryWalls[country]; !seen {
			countries = append(countries, country)
		}

		for j, label := range hourLabels {
			if strings.TrimSpace(label) == "" || 2+j >= len(row) {
				continue
			}
			hour, suffix, err := timeline.ParseLetterHour(label)
			if err != nil {
				p.log.Warn("ENTSO-E: skipping column %q: %v", label, err)
				continue
			}
			// The B column only carries data on the actual transition day;
			// in every other October row it duplicates the A hour.
			if suffix == 'B' && !autumn {
				continue
			}
			// On the spring transition day the unsuffixed label for the
			// skipped hour addresses a nonexistent time.
			if suffix == 0 && spring && hour == 2 {
				continue
			}
			v, ok := parseNumber(row[2+j], false)
			if !ok {
				p.log.Warn("ENTSO-E: dropping cell %s %s: bad number %q", country, label, row[2+j])
				continue
			}
			countryWalls[country] = append(countryWalls[country], wall(day, hour, 0))
			countryValues[country] = append(countryValues[country], v)
		}
	}
	if len(countries) == 0 {
		return series.NewFrame(), nil
	}

	raw := series.NewRawTable()
	for _, country := range countries {
		utc, keep, dropped, err := timeline.LocalizeSeries(countryWalls[country], loc, timeline.AmbiguousInfer)
		if err != nil {
			return nil, err
		}
		p.logDropped("ENTSO-E "+country, dropped)
		values := countryValues[country]
		for i, src := range keep {
			if err := raw.Set(country, utc[i], values[src]); err != nil {
				return nil, err
			}
		}
	}

	colmap := make(map[string]series.ColumnSpec)
	for _, name := range raw.Columns() {
		colmap[name] = entsoeSpec(name)
	}
	if len(req.Columns) > 0 {
		colmap = req.Columns
	}
	return p.tag(raw, colmap, map[string]string{"web": req.Web})
}
