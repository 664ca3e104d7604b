package ports

import (
	"context"

	"powerts/domain/core"
	"powerts/domain/series"
)

// DiagnosticsSink persists the gap records and per-column overviews produced
// by a batch run for later audit. Persisting is optional: a nil sink means
// diagnostics go to the log only.
type DiagnosticsSink interface {
	SaveGaps(ctx context.Context, run core.RunID, res core.Resolution, records []series.GapRecord) error
	SaveOverviews(ctx context.Context, run core.RunID, res core.Resolution, overviews []series.ColumnOverview) error
}
