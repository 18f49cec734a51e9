package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestTeeHandlerRespectsEachLevel(t *testing.T) {
	var console, file bytes.Buffer
	h := newTeeHandler(
		slog.NewTextHandler(&console, &slog.HandlerOptions{Level: slog.LevelWarn}),
		slog.NewJSONHandler(&file, &slog.HandlerOptions{Level: slog.LevelDebug}),
	)
	logger := slog.New(h).With(FieldComponent, "align")

	logger.Debug("scoring columns")
	logger.Warn("width mismatch", String(FieldCognateSet, "S1"))

	if strings.Contains(console.String(), "scoring columns") {
		t.Fatalf("console should drop debug lines, got %q", console.String())
	}
	if !strings.Contains(console.String(), "width mismatch") {
		t.Fatalf("console missing warning: %q", console.String())
	}
	for _, want := range []string{"scoring columns", "width mismatch", `"component":"align"`, `"cognateset_id":"S1"`} {
		if !strings.Contains(file.String(), want) {
			t.Fatalf("file output missing %s: %q", want, file.String())
		}
	}
}

func TestNewTeeHandlerCollapsesMissingSides(t *testing.T) {
	base := slog.NewTextHandler(&bytes.Buffer{}, nil)
	tests := []struct {
		name          string
		console, file slog.Handler
		want          slog.Handler
	}{
		{name: "both nil", want: slog.DiscardHandler},
		{name: "console only", console: base, want: base},
		{name: "file only", file: base, want: base},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := newTeeHandler(tt.console, tt.file); got != tt.want {
				t.Fatalf("newTeeHandler = %T, want %T", got, tt.want)
			}
		})
	}
}
