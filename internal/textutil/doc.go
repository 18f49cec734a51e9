// Package textutil turns free-form labels into tokens safe for identifiers.
package textutil
