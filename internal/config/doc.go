// Package config loads, normalizes, and validates lexcurate configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// LEXCURATE_METADATA. The Config type centralizes every knob the commands
// need: where the dataset and state live, how cognate set IDs are scoped,
// the overlap threshold, merge policies, and the status tags written by
// each operation.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical enum values, and clear validation errors.
package config
