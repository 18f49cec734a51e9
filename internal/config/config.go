package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths locates the dataset and the tool's own state.
type Paths struct {
	Metadata     string `toml:"metadata"`
	StateDir     string `toml:"state_dir"`
	ConceptGraph string `toml:"concept_graph"`
	LogDir       string `toml:"log_dir"`
}

// Storage controls how tables are written back.
type Storage struct {
	BackupSuffix string `toml:"backup_suffix"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format             string            `toml:"format"`
	Level              string            `toml:"level"`
	RetentionDays      int               `toml:"retention_days"`
	ComponentOverrides map[string]string `toml:"component_overrides"`
}

// Cognates configures the judgement index.
type Cognates struct {
	// IDScope is "dataset" for IDs unique across the dataset or "concept"
	// for cognate sets that belong to one concept.
	IDScope      string   `toml:"id_scope"`
	Placeholders []string `toml:"placeholders"`
	// Strict turns alignment width mismatches into errors.
	Strict bool `toml:"strict"`
}

// Overlap configures the overlap detector.
type Overlap struct {
	Threshold float64 `toml:"threshold"`
	Measure   string  `toml:"measure"`
}

// Merge configures the merge engine.
type Merge struct {
	TargetRule         string            `toml:"target_rule"`
	CognatesetPolicies map[string]string `toml:"cognateset_policies"`
	FormPolicies       map[string]string `toml:"form_policies"`
}

// Align configures the alignment builder.
type Align struct {
	Method      string `toml:"method"`
	OnlyInvalid bool   `toml:"only_invalid"`
}

// Status holds the tags written into the status column by each operation.
// An empty tag leaves the status column alone.
type Status struct {
	Enabled         bool   `toml:"enabled"`
	Align           string `toml:"align"`
	Merge           string `toml:"merge"`
	Singletons      string `toml:"singletons"`
	CentralConcepts string `toml:"central_concepts"`
	Segments        string `toml:"segments"`
}

// Segments configures the default segmenter.
type Segments struct {
	Replacements map[string]string `toml:"replacements"`
	Overwrite    bool              `toml:"overwrite"`
}

// Config encapsulates all configuration values for lexcurate.
type Config struct {
	Paths    Paths    `toml:"paths"`
	Storage  Storage  `toml:"storage"`
	Logging  Logging  `toml:"logging"`
	Cognates Cognates `toml:"cognates"`
	Overlap  Overlap  `toml:"overlap"`
	Merge    Merge    `toml:"merge"`
	Align    Align    `toml:"align"`
	Status   Status   `toml:"status"`
	Segments Segments `toml:"segments"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			var strict *toml.StrictMissingError
			if errors.As(err, &strict) {
				return nil, "", false, fmt.Errorf("parse config: %s", strict.String())
			}
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs(projectConfigName)
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the state directory and, when file logging is
// configured, the log directory.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.StateDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// StatusTag returns tag when status tagging is enabled, otherwise "".
func (c *Config) StatusTag(tag string) string {
	if !c.Status.Enabled {
		return ""
	}
	return tag
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

func defaultStateDir() string {
	if base, ok := os.LookupEnv("XDG_STATE_HOME"); ok && strings.TrimSpace(base) != "" {
		return filepath.Join(base, "lexcurate")
	}
	return "~/.local/state/lexcurate"
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

// Sample returns the embedded sample configuration.
func Sample() string {
	return sampleConfig
}
