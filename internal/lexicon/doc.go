// Package lexicon defines the typed records of a comparative wordlist and the
// small value types the consistency core is built on.
//
// Forms, languages, concepts, cognate sets and cognate judgements are plain
// structs translated from table rows by the dataset adapter. Segment slices
// are half-open, 0-based ranges into a form's segments; alignments are token
// sequences in which GapToken marks an empty column. Every comparison of
// segment material goes through Normalize so stored text and computed text
// meet in NFC.
//
// The error types here (ConsistencyError, UnknownCognateSetError,
// UnknownFormError, AlignmentWidthMismatch) are shared by every mutating
// package; they implement ErrorKind so the CLI can classify failures without
// string matching.
package lexicon
