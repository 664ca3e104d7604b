package app

import (
	"context"
	"fmt"
	"math"

	"powerts/domain/core"
	"powerts/domain/series"
	"powerts/internal"
	"powerts/internal/config"
	"powerts/internal/imputation"
	"powerts/ports"
)

// ProcessService turns the merged per-resolution frames into the published
// datasets: patch gaps, derive the country-level aggregates and profiles,
// fold the finer resolutions into the hourly bucket, and trim to the
// requested window.
type ProcessService struct {
	log  *internal.Logger
	cfg  *config.Config
	sink ports.DiagnosticsSink // nil means log-only diagnostics
}

// NewProcessService creates a process service. sink may be nil.
func NewProcessService(log *internal.Logger, cfg *config.Config, sink ports.DiagnosticsSink) *ProcessService {
	return &ProcessService{log: log, cfg: cfg, sink: sink}
}

// ProcessResult is the finished output of one batch run.
type ProcessResult struct {
	Run     core.RunID
	Frames  map[core.Resolution]*series.Frame
	Markers map[core.Resolution]*imputation.Markers
}

// Process runs the full processing phase over the merged buckets.
func (s *ProcessService) Process(ctx context.Context, merged map[core.Resolution]*series.Frame) (*ProcessResult, error) {
	run := core.NewRunID()
	s.log.Info("processing run %s", run)

	result := &ProcessResult{
		Run:     run,
		Frames:  make(map[core.Resolution]*series.Frame),
		Markers: make(map[core.Resolution]*imputation.Markers),
	}

	engine := imputation.NewEngine(s.log)
	engine.EstimateLongGaps = s.cfg.EstimateLongGaps

	for _, res := range core.Resolutions {
		frame := merged[res]
		if frame == nil || frame.IsEmpty() {
			result.Frames[res] = series.NewFrame()
			result.Markers[res] = imputation.NewMarkers()
			continue
		}
		// Residual gaps must be visible rows before patching can see them.
		frame, err := series.Reindex(frame, res)
		if err != nil {
			return nil, err
		}
		if err := aggregateGermanTSOs(frame); err != nil {
			return nil, err
		}
		if res == core.Res15Min {
			if err := addCapacityProfiles(frame); err != nil {
				return nil, err
			}
		}

		markers := imputation.NewMarkers()
		if s.cfg.Patch {
			patched, err := engine.Patch(frame, res)
			if err != nil {
				return nil, err
			}
			frame = patched.Patched
			markers = patched.Markers
			if err := s.saveDiagnostics(ctx, run, res, patched); err != nil {
				return nil, err
			}
		}
		result.Frames[res] = frame
		result.Markers[res] = markers
	}

	if err := s.foldIntoHourly(result); err != nil {
		return nil, err
	}

	loc := s.cfg.Location()
	for _, res := range core.Resolutions {
		final, err := series.Finalize(result.Frames[res], res, s.cfg.StartFromUser, s.cfg.EndFromUser, loc)
		if err != nil {
			return nil, err
		}
		result.Frames[res] = final
		s.log.Info("%s: finalized, %d rows x %d columns", res, final.Len(), len(final.Keys()))
	}
	return result, nil
}

// foldIntoHourly downsamples the finer buckets to hourly means and merges
// them into the 60min frame, so every series is comparable at hourly
// resolution. Markers follow their values onto the coarser grid.
func (s *ProcessService) foldIntoHourly(result *ProcessResult) error {
	for _, res := range []core.Resolution{core.Res15Min, core.Res30Min} {
		frame := result.Frames[res]
		if frame.IsEmpty() {
			continue
		}
		hourly, err := series.DownsampleMean(frame, core.Res60Min)
		if err != nil {
			return err
		}
		merged, err := series.CombineFirst(result.Frames[core.Res60Min], hourly)
		if err != nil {
			return fmt.Errorf("folding %s into 60min: %w", res, err)
		}
		result.Frames[core.Res60Min] = merged
		result.Markers[core.Res60Min].Glue(result.Markers[res].ResampleTo(core.Res60Min))
	}
	return nil
}

func (s *ProcessService) saveDiagnostics(ctx context.Context, run core.RunID, res core.Resolution, patched *imputation.Result) error {
	if s.sink == nil {
		return nil
	}
	if err := s.sink.SaveGaps(ctx, run, res, patched.Gaps); err != nil {
		return fmt.Errorf("saving gap records: %w", err)
	}
	if err := s.sink.SaveOverviews(ctx, run, res, patched.Overviews); err != nil {
		return fmt.Errorf("saving overviews: %w", err)
	}
	return nil
}

// germanTSORegions are the four balancing areas summed into the country
// aggregate.
var germanTSORegions = []string{"DE50hertz", "DEamprion", "DEtennet", "DEtransnetbw"}

// aggregateGermanTSOs adds a DE column for every (variable, attribute) pair
// carried by all four balancing areas. The sum is strict: a timestamp where
// any area is missing stays missing, so the aggregate never understates
// country-wide in-feed.
func aggregateGermanTSOs(f *series.Frame) error {
	type pair struct{ variable, attribute string }
	found := make(map[pair][]series.ColumnKey)
	for _, key := range f.Keys() {
		for _, region := range germanTSORegions {
			if key.Region == region {
				p := pair{key.Variable, key.Attribute}
				found[p] = append(found[p], key)
			}
		}
	}

	for p, keys := range found {
		if len(keys) != len(germanTSORegions) {
			continue
		}
		values := make([]float64, f.Len())
		for i := range values {
			sum := 0.0
			for _, key := range keys {
				v := f.At(key, i)
				if math.IsNaN(v) {
					sum = math.NaN()
					break
				}
				sum += v
			}
			values[i] = sum
		}
		aggKey := series.ColumnKey{
			Variable:  p.variable,
			Region:    "DE",
			Attribute: p.attribute,
			Source:    "own calculation",
			Web:       "",
			Unit:      keys[0].Unit,
		}
		if err := f.AddColumn(aggKey, values); err != nil {
			return err
		}
	}
	return nil
}

// addCapacityProfiles derives a profile column (generation divided by
// installed capacity) wherever a region carries both a generation aggregate
// and a capacity series for the same variable.
func addCapacityProfiles(f *series.Frame) error {
	capacities := make(map[[2]string]series.ColumnKey)
	for _, key := range f.Keys() {
		if key.Attribute == "capacity" {
			capacities[[2]string{key.Variable, key.Region}] = key
		}
	}
	if len(capacities) == 0 {
		return nil
	}

	for _, key := range f.Keys() {
		if key.Attribute != "generation" {
			continue
		}
		capKey, ok := capacities[[2]string{key.Variable, key.Region}]
		if !ok {
			continue
		}
		gen, _ := f.Column(key)
		capa, _ := f.Column(capKey)
		values := make([]float64, f.Len())
		for i := range values {
			if math.IsNaN(gen[i]) || math.IsNaN(capa[i]) || capa[i] == 0 {
				values[i] = math.NaN()
				continue
			}
			values[i] = gen[i] / capa[i]
		}
		profileKey := series.ColumnKey{
			Variable:  key.Variable,
			Region:    key.Region,
			Attribute: "profile",
			Source:    "own calculation",
			Web:       "",
			Unit:      "fraction",
		}
		if err := f.AddColumn(profileKey, values); err != nil {
			return err
		}
	}
	return nil
}
