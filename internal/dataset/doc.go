// Package dataset converts table rows into lexicon records and back.
//
// Load reads languages, concepts, forms, cognate sets and judgements from a
// tablestore.Store, normalizes segments and alignments to NFC and builds the
// cognate registry and judgement index. Cells that cannot be parsed do not
// abort loading: they are reported as Issues and written back unchanged by
// Save. Save replaces only the tables it is asked to write and adds the
// columns (status, alignment, central concept) and the cognate set table
// when the records need them.
package dataset
