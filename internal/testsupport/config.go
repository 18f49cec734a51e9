package testsupport

import (
	"path/filepath"
	"testing"

	"lexcurate/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.StateDir = filepath.Join(base, "state")
	cfgVal.Paths.LogDir = ""

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithDataset writes tables into the config's temp directory and points
// paths.metadata at them.
func WithDataset(tables Tables) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Paths.Metadata = WriteDataset(b.t, tables)
	}
}

// WithScope sets the cognate set ID scope.
func WithScope(scope string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Cognates.IDScope = scope
	}
}

// WithConceptGraph writes an edge list and points paths.concept_graph at it.
func WithConceptGraph(edges string) ConfigOption {
	return func(b *configBuilder) {
		path := filepath.Join(b.baseDir, "graph.csv")
		WriteText(b.t, path, edges)
		b.cfg.Paths.ConceptGraph = path
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.StateDir)
}
