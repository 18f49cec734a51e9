// Package cognates owns the cognate set registry and the cognate judgement
// index.
//
// The Index is the only writer of judgements. It keeps back-references to
// forms (through FormSource) and to the Registry but owns neither. Upsert and
// ReplaceAlignments validate every invariant before touching state, so a
// failed call leaves the index exactly as it was. Retarget rewrites set
// references without touching slices or alignments; merges rely on that.
//
// Reads return copies. Callers change judgements by passing modified copies
// back through the mutating methods.
package cognates
