package sources

import (
	"time"

	"powerts/domain/series"
	"powerts/domain/timeline"
	"powerts/internal"
)

// base carries what every parser shares: the run's logger and the tagging
// step with its debug audit of dropped columns.
type base struct {
	log *internal.Logger
}

func (b base) tag(t *series.RawTable, colmap map[string]series.ColumnSpec, vars map[string]string) (*series.Frame, error) {
	frame, dropped, err := series.Tag(t, colmap, vars)
	if err != nil {
		return nil, err
	}
	for _, name := range dropped {
		b.log.Debug("dropping unmapped column %q", name)
	}
	return frame, nil
}

func (b base) logDropped(source string, dropped []timeline.Dropped) {
	for _, d := range dropped {
		b.log.Warn("%s: dropping row %d at %s: %s",
			source, d.Row, d.Wall.Format("2006-01-02 15:04"), d.Reason)
	}
}

// location resolves the configured zone, defaulting to Europe/Berlin where
// most of the covered control areas live.
func location(zone string) (*time.Location, error) {
	if zone == "" {
		zone = "Europe/Berlin"
	}
	return time.LoadLocation(zone)
}

// pick returns override when the configuration supplies a column mapping,
// falling back to the parser's documented default.
func pick(override, fallback map[string]series.ColumnSpec) map[string]series.ColumnSpec {
	if len(override) > 0 {
		return override
	}
	return fallback
}
