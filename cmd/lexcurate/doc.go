// Package main hosts the lexcurate CLI entrypoint and command graph.
//
// The Cobra-based command tree runs one curation operation per invocation
// against a wordlist: integrity validation, overlap reports, cognate set and
// homophone merges, realignment, central concepts, singleton cognate sets,
// segmentation, Unicode normalization, and the manual-review queue. It
// centralizes configuration resolution, dataset locking, run IDs, and
// structured logging setup so subcommands can focus on their report.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
