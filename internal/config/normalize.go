package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeLogging()
	c.normalizeCognates()
	c.normalizeEnums()
	c.Merge.CognatesetPolicies = normalizePolicies(c.Merge.CognatesetPolicies)
	c.Merge.FormPolicies = normalizePolicies(c.Merge.FormPolicies)
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.Metadata) == "" {
		if value, ok := os.LookupEnv(MetadataEnv); ok {
			c.Paths.Metadata = strings.TrimSpace(value)
		}
	}
	if c.Paths.Metadata, err = expandPath(c.Paths.Metadata); err != nil {
		return fmt.Errorf("paths.metadata: %w", err)
	}
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir()
	}
	if c.Paths.StateDir, err = expandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	if c.Paths.ConceptGraph, err = expandPath(c.Paths.ConceptGraph); err != nil {
		return fmt.Errorf("paths.concept_graph: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format != "json" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if c.Logging.RetentionDays < 0 {
		c.Logging.RetentionDays = 0
	}
}

func (c *Config) normalizeCognates() {
	seen := make(map[string]struct{}, len(c.Cognates.Placeholders))
	placeholders := make([]string, 0, len(c.Cognates.Placeholders))
	for _, value := range c.Cognates.Placeholders {
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		if _, ok := seen[value]; ok {
			continue
		}
		seen[value] = struct{}{}
		placeholders = append(placeholders, value)
	}
	c.Cognates.Placeholders = placeholders
}

func (c *Config) normalizeEnums() {
	c.Cognates.IDScope = lowerOr(c.Cognates.IDScope, defaultIDScope)
	c.Overlap.Measure = lowerOr(c.Overlap.Measure, defaultOverlapMeasure)
	if c.Overlap.Threshold == 0 {
		c.Overlap.Threshold = defaultOverlapThreshold
	}
	c.Merge.TargetRule = lowerOr(c.Merge.TargetRule, defaultTargetRule)
	c.Align.Method = lowerOr(c.Align.Method, defaultAlignMethod)
	if c.Storage.BackupSuffix = strings.TrimSpace(c.Storage.BackupSuffix); c.Storage.BackupSuffix == "" {
		c.Storage.BackupSuffix = defaultBackupSuffix
	}
}

func lowerOr(value, fallback string) string {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return fallback
	}
	return value
}

func normalizePolicies(policies map[string]string) map[string]string {
	if len(policies) == 0 {
		return nil
	}
	out := make(map[string]string, len(policies))
	for column, policy := range policies {
		column = strings.TrimSpace(column)
		if column == "" {
			continue
		}
		out[column] = strings.ToLower(strings.TrimSpace(policy))
	}
	return out
}
