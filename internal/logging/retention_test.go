package logging

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"lexcurate/internal/config"
)

func TestPruneLogsRemovesExpiredRotations(t *testing.T) {
	dir := t.TempDir()
	files := map[string]bool{
		LogFileName:        false,
		LogFileName + ".1": true,
		LogFileName + ".2": false,
		"notes.txt":        false,
	}
	past := time.Now().AddDate(0, 0, -10)
	for name := range files {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
		if name == LogFileName+".2" {
			continue
		}
		if err := os.Chtimes(path, past, past); err != nil {
			t.Fatalf("chtimes: %v", err)
		}
	}

	cfg := config.Default()
	cfg.Paths.LogDir = dir
	cfg.Logging.RetentionDays = 5
	PruneLogs(&cfg, NewNop())

	for name, gone := range files {
		_, err := os.Stat(filepath.Join(dir, name))
		if gone && !os.IsNotExist(err) {
			t.Errorf("%s: expected removal, stat err=%v", name, err)
		}
		if !gone && err != nil {
			t.Errorf("%s: expected kept: %v", name, err)
		}
	}
}

func TestPruneLogsDisabled(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, LogFileName+".1")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	past := time.Now().AddDate(0, 0, -100)
	if err := os.Chtimes(path, past, past); err != nil {
		t.Fatalf("chtimes: %v", err)
	}

	cfg := config.Default()
	cfg.Paths.LogDir = dir
	cfg.Logging.RetentionDays = 0
	PruneLogs(&cfg, nil)

	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected file kept when retention disabled: %v", err)
	}
}
