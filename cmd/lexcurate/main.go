package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"lexcurate/internal/lexicon"
)

// Exit codes by error classification.
const (
	exitError       = 1
	exitConsistency = 2
	exitNotFound    = 3
	exitStorage     = 4
	exitConflict    = 5
)

func main() {
	cmd := newRootCommand()
	if err := cmd.Execute(); err != nil {
		if !errors.Is(err, context.Canceled) && !errors.Is(err, errReported) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(exitCode(err))
	}
}

func exitCode(err error) int {
	switch lexicon.Kind(err) {
	case "consistency", "segments":
		return exitConsistency
	case "not_found":
		return exitNotFound
	case "storage":
		return exitStorage
	case "conflict":
		return exitConflict
	default:
		return exitError
	}
}
