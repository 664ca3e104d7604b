// Package postgres persists batch diagnostics for later audit. The pipeline
// itself never reads these tables; they exist so gap and imputation history
// can be compared across runs.
package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"powerts/domain/core"
	"powerts/domain/series"
)

// DiagnosticsRepository stores gap records and column overviews keyed by run.
type DiagnosticsRepository struct {
	db *sqlx.DB
}

// Connect opens the database and makes sure the diagnostics tables exist.
func Connect(databaseURL string) (*DiagnosticsRepository, error) {
	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	repo := &DiagnosticsRepository{db: db}
	if err := repo.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return repo, nil
}

// NewDiagnosticsRepository wraps an existing connection, tests included.
func NewDiagnosticsRepository(db *sqlx.DB) *DiagnosticsRepository {
	return &DiagnosticsRepository{db: db}
}

const diagnosticsSchema = `
	CREATE TABLE IF NOT EXISTS gap_records (
		id          BIGSERIAL PRIMARY KEY,
		run_id      UUID NOT NULL,
		resolution  TEXT NOT NULL,
		column_name TEXT NOT NULL,
		region      TEXT NOT NULL,
		variable    TEXT NOT NULL,
		attribute   TEXT NOT NULL,
		source      TEXT NOT NULL,
		gap_start   TIMESTAMPTZ NOT NULL,
		gap_till    TIMESTAMPTZ NOT NULL,
		span_secs   BIGINT NOT NULL,
		gap_count   INT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS gap_records_run_idx ON gap_records (run_id);

	CREATE TABLE IF NOT EXISTS column_overviews (
		id                  BIGSERIAL PRIMARY KEY,
		run_id              UUID NOT NULL,
		resolution          TEXT NOT NULL,
		column_name         TEXT NOT NULL,
		region              TEXT NOT NULL,
		variable            TEXT NOT NULL,
		attribute           TEXT NOT NULL,
		source              TEXT NOT NULL,
		value_count         INT NOT NULL,
		mean                DOUBLE PRECISION,
		stddev              DOUBLE PRECISION,
		min                 DOUBLE PRECISION,
		max                 DOUBLE PRECISION,
		first_value         TIMESTAMPTZ,
		last_value          TIMESTAMPTZ,
		nan_count           INT NOT NULL,
		nan_blocks          INT NOT NULL,
		interpolated_blocks INT NOT NULL,
		interpolated_values INT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS column_overviews_run_idx ON column_overviews (run_id);
`

func (r *DiagnosticsRepository) migrate() error {
	if _, err := r.db.Exec(diagnosticsSchema); err != nil {
		return fmt.Errorf("failed to create diagnostics tables: %w", err)
	}
	return nil
}

// SaveGaps inserts one row per gap record for the given run and resolution.
func (r *DiagnosticsRepository) SaveGaps(ctx context.Context, run core.RunID, res core.Resolution, records []series.GapRecord) error {
	query := `
		INSERT INTO gap_records (
			run_id, resolution, column_name, region, variable, attribute,
			source, gap_start, gap_till, span_secs, gap_count
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	for _, rec := range records {
		_, err := r.db.ExecContext(ctx, query,
			run.String(),
			string(res),
			rec.Key.Name(),
			rec.Key.Region,
			rec.Key.Variable,
			rec.Key.Attribute,
			rec.Key.Source,
			rec.Start,
			rec.Till,
			int64(rec.Span.Seconds()),
			rec.Count,
		)
		if err != nil {
			return fmt.Errorf("failed to insert gap record for %s: %w", rec.Key.Name(), err)
		}
	}
	return nil
}

// SaveOverviews inserts one row per column overview for the given run.
func (r *DiagnosticsRepository) SaveOverviews(ctx context.Context, run core.RunID, res core.Resolution, overviews []series.ColumnOverview) error {
	query := `
		INSERT INTO column_overviews (
			run_id, resolution, column_name, region, variable, attribute,
			source, value_count, mean, stddev, min, max, first_value,
			last_value, nan_count, nan_blocks, interpolated_blocks,
			interpolated_values
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`

	for _, ov := range overviews {
		_, err := r.db.ExecContext(ctx, query,
			run.String(),
			string(res),
			ov.Key.Name(),
			ov.Key.Region,
			ov.Key.Variable,
			ov.Key.Attribute,
			ov.Key.Source,
			ov.Count,
			ov.Mean,
			ov.Std,
			ov.Min,
			ov.Max,
			ov.First,
			ov.Last,
			ov.NaNCount,
			ov.NaNBlocks,
			ov.InterpolatedBlocks,
			ov.InterpolatedValues,
		)
		if err != nil {
			return fmt.Errorf("failed to insert overview for %s: %w", ov.Key.Name(), err)
		}
	}
	return nil
}

// Close releases the underlying connection pool.
func (r *DiagnosticsRepository) Close() error {
	return r.db.Close()
}
