package review

import "fmt"

// NotFoundError reports a flag ID that does not exist.
type NotFoundError struct {
	ID int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("review flag %d not found", e.ID)
}

// ErrorKind classifies the error for exit code mapping.
func (e *NotFoundError) ErrorKind() string { return "not_found" }
