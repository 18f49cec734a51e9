package review

import (
	"context"
	"fmt"
	"os"
	"slices"
	"time"
)

var flagTableColumns = []string{
	"id", "run_id", "kind", "dataset", "subject_table", "subject_id",
	"related_ids", "message", "status", "resolution", "created_at", "resolved_at",
}

// CheckHealth reports whether the review database exists, is readable and
// carries the expected table. A missing file is not an error.
func (s *Store) CheckHealth(ctx context.Context) (DatabaseHealth, error) {
	h := DatabaseHealth{DBPath: s.path}
	info, err := os.Stat(s.path)
	switch {
	case os.IsNotExist(err):
		return h, nil
	case err != nil:
		return h, fmt.Errorf("stat review database: %w", err)
	case info.IsDir():
		return h, fmt.Errorf("review database path %q is a directory", s.path)
	}
	h.DatabaseExists = true

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	fail := func(step string, err error) (DatabaseHealth, error) {
		h.Error = err.Error()
		return h, fmt.Errorf("%s: %w", step, err)
	}
	if err := s.db.PingContext(ctx); err != nil {
		return fail("ping review database", err)
	}
	h.DatabaseReadable = true

	rows, err := s.db.QueryContext(ctx, "SELECT name FROM pragma_table_info('review_flags') ORDER BY cid")
	if err != nil {
		return fail("read table info", err)
	}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			rows.Close()
			return fail("read table info", err)
		}
		h.ColumnsPresent = append(h.ColumnsPresent, name)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fail("read table info", err)
	}

	h.TableExists = len(h.ColumnsPresent) > 0
	if h.TableExists {
		for _, col := range flagTableColumns {
			if !slices.Contains(h.ColumnsPresent, col) {
				h.MissingColumns = append(h.MissingColumns, col)
			}
		}
		if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM review_flags").Scan(&h.TotalFlags); err != nil {
			return fail("count review flags", err)
		}
	}

	var verdict string
	if err := s.db.QueryRowContext(ctx, "PRAGMA quick_check").Scan(&verdict); err != nil {
		return fail("integrity check", err)
	}
	h.IntegrityCheck = verdict == "ok"
	return h, nil
}
