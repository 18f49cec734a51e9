package logging

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// pruneLogDir removes rotated lexcurate logs in dir whose modification time
// is before cutoff. The active log file is never touched. It returns the
// number of files removed.
func pruneLogDir(logger *slog.Logger, dir string, cutoff time.Time) int {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0
	}
	removed := 0
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || name == LogFileName || !strings.HasPrefix(name, LogFileName) {
			continue
		}
		info, err := entry.Info()
		if err != nil || !info.ModTime().Before(cutoff) {
			continue
		}
		path := filepath.Join(dir, name)
		if err := os.Remove(path); err != nil {
			WarnWithContext(logger, "old log file could not be removed", "log_retention_failed",
				String("path", path),
				Error(err),
				String(FieldErrorHint, "check permissions on paths.log_dir"),
				String(FieldImpact, "old log file remains on disk"),
			)
			continue
		}
		removed++
	}
	if removed > 0 && logger != nil {
		logger.Debug("pruned old log files", Int("removed", removed), String(FieldEventType, "log_pruned"))
	}
	return removed
}
