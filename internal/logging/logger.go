package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"lexcurate/internal/config"
)

// LogFileName is the file written below paths.log_dir. Rotated copies carry
// it as a prefix.
const LogFileName = "lexcurate.log"

// Options describes logger construction parameters.
type Options struct {
	Level  string
	Format string
	// OutputPaths accepts "stdout", "stderr" or file paths; empty means stderr.
	OutputPaths []string
	Development bool
	// RunID, when set, is attached to every record.
	RunID string
	// ComponentLevels overrides Level for loggers built with NewComponentLogger.
	ComponentLevels map[string]string
}

// New constructs a slog logger using the provided options.
func New(opts Options) (*slog.Logger, error) {
	handler, err := newHandler(opts)
	if err != nil {
		return nil, err
	}
	return slog.New(handler), nil
}

func newHandler(opts Options) (slog.Handler, error) {
	level := parseLevel(opts.Level)
	overrides := make(map[string]slog.Level, len(opts.ComponentLevels))
	floor := level
	for component, value := range opts.ComponentLevels {
		lvl := parseLevel(value)
		overrides[strings.TrimSpace(component)] = lvl
		floor = min(floor, lvl)
	}

	w, err := openWriters(opts.OutputPaths)
	if err != nil {
		return nil, err
	}
	addSource := opts.Development || level <= slog.LevelDebug

	var handler slog.Handler
	switch format := strings.ToLower(strings.TrimSpace(opts.Format)); format {
	case "", "console":
		handler = newConsoleHandler(w, floor, addSource)
	case "json":
		handler = newJSONHandler(w, floor, addSource)
	default:
		return nil, fmt.Errorf("log format: unsupported value %q", opts.Format)
	}

	handler = newComponentLevelHandler(handler, level, overrides)
	if opts.RunID != "" {
		handler = newRunIDHandler(handler, opts.RunID)
	}
	return handler, nil
}

// NewFromConfig creates a logger using application config defaults. Console
// output goes to stderr; when paths.log_dir is set a JSON copy is appended to
// LogFileName in that directory.
func NewFromConfig(cfg *config.Config, runID string) (*slog.Logger, error) {
	if cfg == nil {
		return New(Options{Level: "info", RunID: runID})
	}
	console, err := newHandler(Options{
		Level:           cfg.Logging.Level,
		Format:          cfg.Logging.Format,
		RunID:           runID,
		ComponentLevels: cfg.Logging.ComponentOverrides,
	})
	if err != nil {
		return nil, err
	}
	if cfg.Paths.LogDir == "" {
		return slog.New(console), nil
	}

	file, err := newHandler(Options{
		Level:           cfg.Logging.Level,
		Format:          "json",
		OutputPaths:     []string{filepath.Join(cfg.Paths.LogDir, LogFileName)},
		RunID:           runID,
		ComponentLevels: cfg.Logging.ComponentOverrides,
	})
	if err != nil {
		return nil, err
	}
	return slog.New(newTeeHandler(console, file)), nil
}

// PruneLogs removes rotated log files older than logging.retention_days.
// Zero retention keeps everything.
func PruneLogs(cfg *config.Config, logger *slog.Logger) {
	if cfg == nil || cfg.Paths.LogDir == "" || cfg.Logging.RetentionDays <= 0 {
		return
	}
	pruneLogDir(logger, cfg.Paths.LogDir, time.Now().AddDate(0, 0, -cfg.Logging.RetentionDays))
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

func openWriters(paths []string) (io.Writer, error) {
	seen := make(map[string]bool, len(paths))
	var writers []io.Writer
	for _, path := range paths {
		path = strings.TrimSpace(path)
		if path == "" || seen[path] {
			continue
		}
		seen[path] = true
		switch path {
		case "stdout":
			writers = append(writers, os.Stdout)
		case "stderr":
			writers = append(writers, os.Stderr)
		default:
			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				return nil, fmt.Errorf("ensure log directory: %w", err)
			}
			file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
			if err != nil {
				return nil, fmt.Errorf("open log file %s: %w", path, err)
			}
			writers = append(writers, file)
		}
	}
	switch len(writers) {
	case 0:
		return os.Stderr, nil
	case 1:
		return writers[0], nil
	}
	return io.MultiWriter(writers...), nil
}
