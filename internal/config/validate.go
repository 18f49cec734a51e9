package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

var (
	idScopes     = []string{"dataset", "concept"}
	measures     = []string{"min", "max"}
	targetRules  = []string{"smallest", "largest"}
	alignMethods = []string{"progressive", "pad"}
	logLevels    = []string{"debug", "info", "warn", "warning", "error"}
)

// Validate ensures the configuration is usable. Merge policy names are
// checked by the merge engine when it is built.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	if err := c.validateCognates(); err != nil {
		return err
	}
	if err := c.validateOverlap(); err != nil {
		return err
	}
	if err := c.validateMerge(); err != nil {
		return err
	}
	return c.validateAlign()
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		return errors.New("paths.state_dir must be set")
	}
	return nil
}

func (c *Config) validateLogging() error {
	if !slices.Contains(logLevels, c.Logging.Level) {
		return fmt.Errorf("logging.level must be one of %s", strings.Join(logLevels, ", "))
	}
	for component, level := range c.Logging.ComponentOverrides {
		if !slices.Contains(logLevels, strings.ToLower(strings.TrimSpace(level))) {
			return fmt.Errorf("logging.component_overrides.%s must be one of %s", component, strings.Join(logLevels, ", "))
		}
	}
	return nil
}

func (c *Config) validateCognates() error {
	if err := oneOf("cognates.id_scope", c.Cognates.IDScope, idScopes); err != nil {
		return err
	}
	for _, value := range c.Cognates.Placeholders {
		if strings.ContainsAny(value, "\n\r") {
			return fmt.Errorf("cognates.placeholders: %q contains a line break", value)
		}
	}
	return nil
}

func (c *Config) validateOverlap() error {
	if c.Overlap.Threshold <= 0 || c.Overlap.Threshold > 1 {
		return errors.New("overlap.threshold must be greater than 0 and at most 1")
	}
	return oneOf("overlap.measure", c.Overlap.Measure, measures)
}

func (c *Config) validateMerge() error {
	if err := oneOf("merge.target_rule", c.Merge.TargetRule, targetRules); err != nil {
		return err
	}
	for section, policies := range map[string]map[string]string{
		"merge.cognateset_policies": c.Merge.CognatesetPolicies,
		"merge.form_policies":       c.Merge.FormPolicies,
	} {
		for column, policy := range policies {
			if policy == "" {
				return fmt.Errorf("%s.%s must name a policy", section, column)
			}
		}
	}
	return nil
}

func (c *Config) validateAlign() error {
	return oneOf("align.method", c.Align.Method, alignMethods)
}

func oneOf(field, value string, allowed []string) error {
	if slices.Contains(allowed, value) {
		return nil
	}
	return fmt.Errorf("%s must be one of %s (got %q)", field, strings.Join(allowed, ", "), value)
}
