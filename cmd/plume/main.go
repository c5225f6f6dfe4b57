// Command plume is a desktop PDF annotation tool: open a PDF, click to
// place a text annotation, save the result. GUI only — no flags, no
// headless mode. Configuration comes from $PLUME_CONFIG (YAML) and
// PLUME_* environment variables.
package main

import (
	"context"
	"log/slog"
	"os"

	_ "modernc.org/sqlite"

	"github.com/hazyhaar/plume/config"
	"github.com/hazyhaar/plume/dbopen"
	"github.com/hazyhaar/plume/engine"
	"github.com/hazyhaar/plume/observability"
	"github.com/hazyhaar/plume/ui"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config", "error", err)
		os.Exit(1)
	}

	// Logging.
	var lvl slog.Level
	switch cfg.Log.Level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	var handler slog.Handler
	if cfg.Log.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})
	} else {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)

	// Optional session event log.
	var evlog *observability.EventLogger
	if cfg.EventLog.Path != "" {
		db, err := dbopen.Open(cfg.EventLog.Path, dbopen.WithMkdirAll())
		if err != nil {
			slog.Error("event log db", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		if err := observability.Init(db); err != nil {
			slog.Error("event log init", "error", err)
			os.Exit(1)
		}
		if err := observability.Cleanup(context.Background(), db, cfg.EventLog.RetentionDays); err != nil {
			slog.Warn("event log cleanup", "error", err)
		}
		evlog = observability.NewEventLogger(db)
	}

	eng := engine.NewHybrid(engine.Config{Logger: logger})

	if err := ui.Run(cfg, eng, evlog, logger); err != nil {
		slog.Error("ui", "error", err)
		os.Exit(1)
	}
}
