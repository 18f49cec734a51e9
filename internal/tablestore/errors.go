package tablestore

import (
	"errors"
	"fmt"
)

// ErrLocked is returned by Lock when another process holds the dataset.
var ErrLocked = errors.New("dataset is locked by another process")

// ErrNoTable reports a table that the metadata does not describe.
var ErrNoTable = errors.New("table not described by metadata")

// TableError wraps a failure reading or writing one table.
type TableError struct {
	Table string
	Path  string
	Line  int
	Err   error
}

func (e *TableError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s (%s) line %d: %v", e.Table, e.Path, e.Line, e.Err)
	}
	return fmt.Sprintf("%s (%s): %v", e.Table, e.Path, e.Err)
}

func (e *TableError) Unwrap() error { return e.Err }

// ErrorKind implements the lexicon error classifier.
func (e *TableError) ErrorKind() string { return "storage" }
