package main

import (
	"context"
	"log/slog"
	"os"
	"strings"

	"github.com/use-agent/dashprobe/config"
	"github.com/use-agent/dashprobe/inspector"
	"github.com/use-agent/dashprobe/preflight"
)

func main() {
	// ── 1. Load configuration ───────────────────────────────────────
	cfg := config.Load()

	// ── 2. Initialise structured logging ────────────────────────────
	initLogger(cfg.Log)
	slog.Info("dashprobe starting",
		"target", cfg.Inspector.Target,
		"output", cfg.Inspector.Output,
		"navTimeout", cfg.Inspector.NavTimeout,
		"settle", cfg.Inspector.InitialSettle+cfg.Inspector.FinalSettle,
	)

	// ── 3. Validate the probe selector table ────────────────────────
	if err := preflight.ValidateSelectors(inspector.ProbeSelectors()); err != nil {
		slog.Error("probe selector table invalid", "error", err)
		os.Exit(1)
	}

	// ── 4. Static preflight (local targets, best-effort) ────────────
	if !strings.HasPrefix(cfg.Inspector.Target, "http://") &&
		!strings.HasPrefix(cfg.Inspector.Target, "https://") {
		if scan, err := preflight.ScanFile(cfg.Inspector.Target, inspector.ProbeSelectors()); err != nil {
			slog.Warn("static preflight skipped", "error", err)
		} else {
			slog.Info("static preflight",
				"selectorsInMarkup", scan.FoundCount(),
				"selectorsTotal", len(scan.SelectorsFound),
				"scriptTags", scan.ScriptTags,
				"jsDriven", scan.JSDriven(),
			)
		}
	}

	// ── 5. Run the inspection ───────────────────────────────────────
	// All inspection failures end up inside the report; only a failure
	// to write the report itself is a process-level error.
	if err := inspector.Run(context.Background(), cfg.Browser, cfg.Inspector); err != nil {
		slog.Error("failed to persist report", "error", err)
		os.Exit(1)
	}

	slog.Info("dashprobe finished", "report", cfg.Inspector.Output)
}

// initLogger configures slog based on the LogConfig.
func initLogger(cfg config.LogConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	slog.SetDefault(slog.New(handler))
}
