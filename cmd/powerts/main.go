package main

import (
	"context"
	"log"
	"strings"

	"github.com/joho/godotenv"

	"powerts/adapters/postgres"
	"powerts/adapters/sources"
	"powerts/app"
	"powerts/internal"
	"powerts/internal/config"
	"powerts/ports"
)

func main() {
	// Optional; the deployment may set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logger := internal.NewLogger(internal.ParseLogLevel(cfg.LogLevel))

	srcs, err := config.LoadSources(cfg.SourcesFile)
	if err != nil {
		log.Fatalf("Failed to load sources configuration: %v", err)
	}

	var sink ports.DiagnosticsSink
	if cfg.DatabaseURL != "" {
		repo, err := postgres.Connect(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Failed to connect diagnostics database: %v", err)
		}
		defer repo.Close()
		sink = repo
	}

	registry := sources.NewRegistry(logger)
	logger.Debug("registered parsers: %s", strings.Join(registry.Sources(), ", "))
	reader := app.NewReadService(logger, registry, cfg, srcs)
	processor := app.NewProcessService(logger, cfg, sink)

	logger.Info("reading %d sources from %s", len(srcs), cfg.DataDir)
	merged, err := reader.ReadAll()
	if err != nil {
		log.Fatalf("Read phase failed: %v", err)
	}

	result, err := processor.Process(context.Background(), merged)
	if err != nil {
		log.Fatalf("Processing failed: %v", err)
	}

	for res, frame := range result.Frames {
		logger.Info("run %s: %s dataset ready, %d rows x %d columns",
			result.Run, res, frame.Len(), len(frame.Keys()))
	}
}
