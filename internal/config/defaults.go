package config

const (
	defaultConfigPath       = "~/.config/lexcurate/config.toml"
	projectConfigName       = "lexcurate.toml"
	defaultBackupSuffix     = ".bak"
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
	defaultLogRetentionDays = 30
	defaultIDScope          = "dataset"
	defaultOverlapThreshold = 0.5
	defaultOverlapMeasure   = "min"
	defaultTargetRule       = "smallest"
	defaultAlignMethod      = "progressive"

	// MetadataEnv names the environment variable consulted when no metadata
	// path is configured.
	MetadataEnv = "LEXCURATE_METADATA"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StateDir: defaultStateDir(),
		},
		Storage: Storage{
			BackupSuffix: defaultBackupSuffix,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultLogRetentionDays,
		},
		Cognates: Cognates{
			IDScope:      defaultIDScope,
			Placeholders: []string{"-", "NA"},
		},
		Overlap: Overlap{
			Threshold: defaultOverlapThreshold,
			Measure:   defaultOverlapMeasure,
		},
		Merge: Merge{
			TargetRule: defaultTargetRule,
		},
		Align: Align{
			Method: defaultAlignMethod,
		},
		Status: Status{
			Enabled:         true,
			Align:           "automatically aligned",
			Merge:           "automatic merge",
			Singletons:      "automatic singleton",
			CentralConcepts: "automatic central concepts",
			Segments:        "automatic segments",
		},
	}
}
