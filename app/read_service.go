// Package app wires the domain together into the two batch phases: reading
// every configured raw file into merged per-resolution frames, then
// processing those frames into the published datasets.
package app

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"powerts/adapters/sources"
	"powerts/domain/core"
	"powerts/domain/series"
	"powerts/internal"
	"powerts/internal/config"
	"powerts/internal/errors"
	"powerts/ports"
)

// ReadService walks the download layout, dispatches each file to its source
// parser and folds the results into one frame per resolution bucket.
type ReadService struct {
	log      *internal.Logger
	registry *sources.Registry
	cfg      *config.Config
	srcs     config.Sources
}

// NewReadService creates a read service over the given configuration.
func NewReadService(log *internal.Logger, registry *sources.Registry, cfg *config.Config, srcs config.Sources) *ReadService {
	return &ReadService{log: log, registry: registry, cfg: cfg, srcs: srcs}
}

// ReadAll reads every configured (source, variable) pair and returns the
// merged frames keyed by resolution. Skippable problems (missing directory,
// unexpected file count, empty downloads, failing parses) are logged and
// passed over; merge conflicts abort the batch.
func (s *ReadService) ReadAll() (map[core.Resolution]*series.Frame, error) {
	merged := map[core.Resolution]*series.Frame{
		core.Res15Min: series.NewFrame(),
		core.Res30Min: series.NewFrame(),
		core.Res60Min: series.NewFrame(),
	}

	for sourceName, variables := range s.srcs {
		parser, err := s.registry.Lookup(sourceName)
		if err != nil {
			return nil, err
		}
		for variableName, vc := range variables {
			res, err := vc.Bucket()
			if err != nil {
				return nil, err
			}
			frame, err := s.readVariable(parser, sourceName, variableName, vc, res)
			if err != nil {
				return nil, fmt.Errorf("%s/%s: %w", sourceName, variableName, err)
			}
			merged[res], err = series.CombineFirst(merged[res], frame)
			if err != nil {
				return nil, errors.WithCode(errors.CodeMergeConflict,
					fmt.Errorf("%s/%s: %w", sourceName, variableName, err))
			}
			s.log.Info("%s/%s: merged, %s bucket now %d rows x %d columns",
				sourceName, variableName, res, merged[res].Len(), len(merged[res].Keys()))
		}
	}
	return merged, nil
}

// readVariable reads every container of one (source, variable) pair. A
// failing parse skips that container; only merge failures abort, because a
// conflict means the already-merged data is unreliable.
func (s *ReadService) readVariable(parser ports.SourceParser, sourceName, variableName string, vc config.VariableConfig, res core.Resolution) (*series.Frame, error) {
	log := s.log.WithPrefix(sourceName + "/" + variableName)
	dir := filepath.Join(s.cfg.DataDir, sourceName, variableName)
	entries, err := os.ReadDir(dir)
	if err != nil {
		log.Warn("directory %s not found, skipping", dir)
		return series.NewFrame(), nil
	}

	out := series.NewFrame()
	found, processed := 0, 0
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		found++
		container := entry.Name()
		if skip, reason := s.outsideUserRange(container); skip {
			log.Debug("%s: %s", container, reason)
			continue
		}
		path, ok := s.containerFile(filepath.Join(dir, container), log)
		if !ok {
			continue
		}
		log.Debug("reading %s", container)
		frame, err := parser.Parse(ports.ParseRequest{
			Filepath:   path,
			Source:     sourceName,
			Variable:   variableName,
			Web:        vc.Web,
			Resolution: res,
			Timezone:   vc.Timezone,
			Columns:    vc.Columns,
		})
		if err != nil {
			if errors.IsSkippable(err) {
				log.Warn("container %s: %v, skipping", container, err)
			} else {
				log.Error("container %s: %v, skipping", container, err)
			}
			continue
		}
		out, err = series.CombineFirst(out, frame)
		if err != nil {
			return nil, errors.WithCode(errors.CodeMergeConflict,
				fmt.Errorf("container %s: %w", container, err))
		}
		processed++
	}
	log.Info("processed %d of %d containers", processed, found)
	return out, nil
}

// containerFile locates the single data file expected inside a container
// directory. Any other count is logged and skipped.
func (s *ReadService) containerFile(dir string, log *internal.Logger) (string, bool) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		log.Warn("cannot list %s: %v", dir, err)
		return "", false
	}
	var files []string
	for _, entry := range entries {
		if !entry.IsDir() {
			files = append(files, entry.Name())
		}
	}
	if len(files) != 1 {
		log.Warn("expected 1 file in %s, found %d, skipping", dir, len(files))
		return "", false
	}
	return filepath.Join(dir, files[0]), true
}

// outsideUserRange reports whether a container named "<start>_<end>" falls
// entirely outside the user-requested date window. Containers with
// unparseable names are kept; the parser decides what to do with them.
func (s *ReadService) outsideUserRange(container string) (bool, string) {
	startStr, endStr, found := strings.Cut(container, "_")
	if !found {
		return false, ""
	}
	start, err1 := time.Parse("2006-01-02", startStr)
	end, err2 := time.Parse("2006-01-02", endStr)
	if err1 != nil || err2 != nil {
		return false, ""
	}
	if !s.cfg.StartFromUser.IsZero() && end.Before(s.cfg.StartFromUser) {
		return true, "before requested range"
	}
	if !s.cfg.EndFromUser.IsZero() && start.After(s.cfg.EndFromUser) {
		return true, "after requested range"
	}
	return false, ""
}
