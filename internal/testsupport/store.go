package testsupport

import (
	"context"
	"testing"

	"lexcurate/internal/review"
)

// MustOpenReview opens a review.Store in a temp state directory and
// registers cleanup.
func MustOpenReview(t testing.TB) *review.Store {
	t.Helper()

	store, err := review.Open(context.Background(), t.TempDir())
	if err != nil {
		t.Fatalf("review.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}
