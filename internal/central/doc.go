// Package central picks the central concept of each cognate set: the
// concept its member forms mean most often, weighted by how central the
// concept is among the set's concepts in the relatedness graph.
package central
