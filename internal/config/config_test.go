package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"lexcurate/internal/config"
)

func TestLoadDefaultConfigUsesEnvMetadataAndExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("XDG_STATE_HOME", "")
	t.Setenv(config.MetadataEnv, "~/data/Wordlist-metadata.json")
	t.Chdir(t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantMetadata := filepath.Join(tempHome, "data", "Wordlist-metadata.json")
	if cfg.Paths.Metadata != wantMetadata {
		t.Fatalf("unexpected metadata path: got %q want %q", cfg.Paths.Metadata, wantMetadata)
	}
	wantState := filepath.Join(tempHome, ".local", "state", "lexcurate")
	if cfg.Paths.StateDir != wantState {
		t.Fatalf("unexpected state dir: got %q want %q", cfg.Paths.StateDir, wantState)
	}
	if cfg.Cognates.IDScope != "dataset" {
		t.Fatalf("unexpected id scope: %q", cfg.Cognates.IDScope)
	}
	if cfg.Overlap.Threshold != 0.5 || cfg.Overlap.Measure != "min" {
		t.Fatalf("unexpected overlap defaults: %+v", cfg.Overlap)
	}
	if cfg.Merge.TargetRule != "smallest" {
		t.Fatalf("unexpected target rule: %q", cfg.Merge.TargetRule)
	}
	if cfg.Align.Method != "progressive" {
		t.Fatalf("unexpected align method: %q", cfg.Align.Method)
	}
	if len(cfg.Cognates.Placeholders) != 2 {
		t.Fatalf("expected default placeholders, got %v", cfg.Cognates.Placeholders)
	}
	if cfg.StatusTag(cfg.Status.Merge) != "automatic merge" {
		t.Fatalf("unexpected merge tag: %q", cfg.StatusTag(cfg.Status.Merge))
	}
}

func TestLoadCustomPath(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv(config.MetadataEnv, filepath.Join(tempHome, "ignored.json"))

	path := filepath.Join(t.TempDir(), "lexcurate.toml")
	content := `
[paths]
metadata = "~/wordlist/metadata.json"
state_dir = "~/state"

[logging]
format = "JSON"
level = "Debug"

[cognates]
id_scope = "Concept"
placeholders = [" - ", "-", ""]
strict = true

[overlap]
threshold = 0.75
measure = "max"

[merge]
target_rule = "largest"

[merge.form_policies]
" comment " = "Concatenate"

[status]
enabled = false
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("expected config at %q, got %q (exists=%v)", path, resolved, exists)
	}
	if cfg.Paths.Metadata != filepath.Join(tempHome, "wordlist", "metadata.json") {
		t.Fatalf("file metadata should win over env, got %q", cfg.Paths.Metadata)
	}
	if cfg.Paths.StateDir != filepath.Join(tempHome, "state") {
		t.Fatalf("unexpected state dir: %q", cfg.Paths.StateDir)
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Fatalf("unexpected logging: %+v", cfg.Logging)
	}
	if cfg.Cognates.IDScope != "concept" || !cfg.Cognates.Strict {
		t.Fatalf("unexpected cognates: %+v", cfg.Cognates)
	}
	if len(cfg.Cognates.Placeholders) != 1 || cfg.Cognates.Placeholders[0] != "-" {
		t.Fatalf("placeholders not normalized: %q", cfg.Cognates.Placeholders)
	}
	if cfg.Overlap.Threshold != 0.75 || cfg.Overlap.Measure != "max" {
		t.Fatalf("unexpected overlap: %+v", cfg.Overlap)
	}
	if cfg.Merge.TargetRule != "largest" {
		t.Fatalf("unexpected target rule: %q", cfg.Merge.TargetRule)
	}
	if cfg.Merge.FormPolicies["comment"] != "concatenate" {
		t.Fatalf("form policies not normalized: %v", cfg.Merge.FormPolicies)
	}
	if cfg.StatusTag(cfg.Status.Merge) != "" {
		t.Fatal("expected no status tag when status is disabled")
	}
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lexcurate.toml")
	if err := os.WriteFile(path, []byte("[overlap]\ntreshold = 0.4\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, _, err := config.Load(path); err == nil {
		t.Fatal("expected error for misspelled key")
	}
}

func TestLoadFindsProjectConfig(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	dir := t.TempDir()
	t.Chdir(dir)
	if err := os.WriteFile("lexcurate.toml", []byte("[align]\nmethod = \"pad\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || filepath.Base(resolved) != "lexcurate.toml" {
		t.Fatalf("expected project config, got %q (exists=%v)", resolved, exists)
	}
	if cfg.Align.Method != "pad" {
		t.Fatalf("unexpected align method: %q", cfg.Align.Method)
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "sample.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}

	contents, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(contents), "id_scope") {
		t.Fatalf("sample config missing id_scope: %s", contents)
	}

	var cfg config.Config
	if err := toml.Unmarshal(contents, &cfg); err != nil {
		t.Fatalf("unmarshal sample: %v", err)
	}
	if !strings.Contains(cfg.Paths.StateDir, "lexcurate") {
		t.Fatalf("expected state dir to contain lexcurate, got %q", cfg.Paths.StateDir)
	}
	if cfg.Merge.FormPolicies["concepts"] != "union" {
		t.Fatalf("expected concepts union policy in sample, got %v", cfg.Merge.FormPolicies)
	}

	t.Setenv("HOME", t.TempDir())
	if _, _, _, err := config.Load(path); err != nil {
		t.Fatalf("sample config does not load: %v", err)
	}
}

func TestValidateDetectsInvalidValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"threshold zero", func(c *config.Config) { c.Overlap.Threshold = 0 }},
		{"threshold above one", func(c *config.Config) { c.Overlap.Threshold = 1.5 }},
		{"measure", func(c *config.Config) { c.Overlap.Measure = "mean" }},
		{"scope", func(c *config.Config) { c.Cognates.IDScope = "language" }},
		{"target rule", func(c *config.Config) { c.Merge.TargetRule = "oldest" }},
		{"align method", func(c *config.Config) { c.Align.Method = "muscle" }},
		{"log level", func(c *config.Config) { c.Logging.Level = "loud" }},
		{"empty policy", func(c *config.Config) { c.Merge.FormPolicies = map[string]string{"comment": ""} }},
		{"state dir", func(c *config.Config) { c.Paths.StateDir = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}

	cfg := config.Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
}
