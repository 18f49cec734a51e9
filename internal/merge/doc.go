// Package merge fuses clusters of cognate sets, or of homophonous forms,
// into one surviving record.
//
// A merge folds the metadata columns of the other members into the
// survivor with a per-column policy, moves their judgements to the survivor
// and removes them. Every batch runs on a copy of the dataset that replaces
// the original only when all requests of the batch succeeded, so a failing
// request leaves the dataset untouched.
//
// The package also reads and writes the indented cluster files that let a
// reviewer edit overlap and homophone reports before merging.
package merge
