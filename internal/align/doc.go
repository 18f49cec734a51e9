// Package align validates and rebuilds the multiple alignments of cognate
// sets.
//
// Validation never fails: it returns every problem as a line-identified
// violation. Align rebuilds all alignments of one set from the segments the
// judgements address and writes them back in a single batch, so a set is
// either fully realigned or left as it was.
//
// The progressive method aligns each member against a running profile with
// Needleman-Wunsch (match +1, mismatch -1, gap -1). The pad method only
// appends gap tokens so that every row reaches the longest length.
package align
