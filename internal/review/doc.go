// Package review persists manual-review flags in SQLite.
//
// Mutating commands raise flags for situations a curator has to look at:
// a merge that left a form judged twice into the surviving cognate set,
// homophones fused into one form, or alignments that failed strict
// validation. Every flag records the run that raised it, so a curator can
// list what one invocation produced and resolve flags as they are handled.
//
// The database lives in the state directory, not next to the dataset.
// Schema changes bump the version in schema.go; users clear the database to
// adopt the new schema.
package review
