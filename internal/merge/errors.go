package merge

import (
	"fmt"
	"strings"
)

// ConflictError reports a request that cannot be merged as asked.
type ConflictError struct {
	Members []string
	Reason  string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("cannot merge %s: %s", strings.Join(e.Members, ", "), e.Reason)
}

// ErrorKind implements the lexicon error classifier.
func (e *ConflictError) ErrorKind() string { return "conflict" }
