package sources

import (
	"fmt"
	"strings"
	"time"

	"powerts/domain/series"
	"powerts/domain/timeline"
	"powerts/internal"
	"powerts/ports"
)

// Hertz reads the 50Hertz archive exports: semicolon-separated, three
// header lines plus column captions, German number formatting, and a time
// column whose cells carry a trailing period range that must be truncated to
// HH:MM. The variable name encodes technology and attribute, e.g.
// "wind_generation".
type Hertz struct {
	base
}

// NewHertz creates the 50Hertz parser.
func NewHertz(log *internal.Logger) *Hertz {
	return &Hertz{base{log: log}}
}

var hertzColumns = map[string]series.ColumnSpec{
	"value": {
		Variable:  "{variable}",
		Region:    "DE50hertz",
		Attribute: "{attribute}",
		Source:    "50Hertz",
		Web:       "{web}",
		Unit:      "MW",
	},
}

func (p *Hertz) Parse(req ports.ParseRequest) (*series.Frame, error) {
	if fileTooSmall(req.Filepath) {
		return series.NewFrame(), nil
	}
	tech, attribute, ok := strings.Cut(req.Variable, "_")
	if !ok {
		return nil, fmt.Errorf("50Hertz variable %q: want tech_attribute", req.Variable)
	}
	loc, err := location(req.Timezone)
	if err != nil {
		return nil, err
	}
	rows, err := readDelimited(req.Filepath, ';', 4, "")
	if err != nil {
		return nil, err
	}

	var walls []time.Time
	var values []float64
	for i, row := range rows {
		if len(row) < 4 {
			continue
		}
		day, err := parseDay(row[0])
		if err != nil {
			p.log.Warn("50Hertz: dropping row %d: bad date %q", i, row[0])
			continue
		}
		h, m, err := clockHHMM(row[1])
		if err != nil {
			p.log.Warn("50Hertz: dropping row %d: bad time %q", i, row[1])
			continue
		}
		v, ok := parseNumber(row[3], true)
		if !ok {
			p.log.Warn("50Hertz: dropping row %d: bad number %q", i, row[3])
			continue
		}
		walls = append(walls, wall(day, h, m))
		values = append(values, v)
	}
	if len(walls) == 0 {
		return series.NewFrame(), nil
	}

	// Until 2006 and again in 2015, only the wintertime hour of the autumn
	// transition is present in the file, so every ambiguous time is standard
	// time. In between, both hours are present and file order disambiguates.
	policy := timeline.AmbiguousInfer
	if y := walls[0].Year(); y < 2007 || y > 2014 {
		policy = timeline.AmbiguousAllSTD
	}
	utc, keep, dropped, err := timeline.LocalizeSeries(walls, loc, policy)
	if err != nil {
		return nil, err
	}
	p.logDropped("50Hertz", dropped)

	raw := series.NewRawTable()
	for i, src := range keep {
		if err := raw.Set("value", utc[i], values[src]); err != nil {
			return nil, err
		}
	}
	return p.tag(raw, pick(req.Columns, hertzColumns), map[string]string{
		"variable":  tech,
		"attribute": attribute,
		"web":       req.Web,
	})
}
