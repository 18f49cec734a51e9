// Package overlap finds clusters of cognate sets whose judgements claim
// overlapping segments of the same form.
//
// Two judgements of one form in different cognate sets are linked when the
// share of segments they have in common reaches the threshold. The share is
// measured against the shorter slice by default, so a slice contained in
// another always reaches 1.0; the "max" measure uses the longer slice
// instead. Linked cognate sets form an undirected graph whose connected
// components of two or more sets are the clusters.
package overlap
