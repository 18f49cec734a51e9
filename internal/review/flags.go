package review

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

const flagColumns = "id, run_id, kind, dataset, subject_table, subject_id, related_ids, message, status, resolution, created_at, resolved_at"

// relatedSeparator joins related IDs in one column; IDs never contain it.
const relatedSeparator = "\x1f"

func scanFlag(scanner interface{ Scan(dest ...any) error }) (*Flag, error) {
	var (
		flag        Flag
		kind        string
		related     string
		status      string
		resolution  sql.NullString
		createdRaw  string
		resolvedRaw sql.NullString
	)
	if err := scanner.Scan(
		&flag.ID,
		&flag.RunID,
		&kind,
		&flag.Dataset,
		&flag.SubjectTable,
		&flag.SubjectID,
		&related,
		&flag.Message,
		&status,
		&resolution,
		&createdRaw,
		&resolvedRaw,
	); err != nil {
		return nil, err
	}
	flag.Kind = Kind(kind)
	flag.Status = Status(status)
	flag.Resolution = resolution.String
	if related != "" {
		flag.RelatedIDs = strings.Split(related, relatedSeparator)
	}
	if created, err := parseTimeString(createdRaw); err == nil {
		flag.CreatedAt = created
	}
	if resolvedRaw.Valid {
		if resolved, err := parseTimeString(resolvedRaw.String); err == nil {
			flag.ResolvedAt = &resolved
		}
	}
	return &flag, nil
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}

// Add stores flags under runID and dataset in one transaction and returns
// their IDs.
func (s *Store) Add(ctx context.Context, runID, dataset string, flags ...Flag) ([]int64, error) {
	if len(flags) == 0 {
		return nil, nil
	}
	timestamp := time.Now().UTC().Format(time.RFC3339Nano)
	ids := make([]int64, 0, len(flags))
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `INSERT INTO review_flags (
            run_id, kind, dataset, subject_table, subject_id, related_ids, message, status, created_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()
		for _, f := range flags {
			res, err := stmt.ExecContext(ctx,
				runID,
				string(f.Kind),
				dataset,
				f.SubjectTable,
				f.SubjectID,
				strings.Join(f.RelatedIDs, relatedSeparator),
				f.Message,
				StatusPending,
				timestamp,
			)
			if err != nil {
				return err
			}
			id, err := res.LastInsertId()
			if err != nil {
				return err
			}
			ids = append(ids, id)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("insert review flags: %w", err)
	}
	return ids, nil
}

// Get fetches a flag by ID.
func (s *Store) Get(ctx context.Context, id int64) (*Flag, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+flagColumns+` FROM review_flags WHERE id = ?`, id)
	flag, err := scanFlag(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &NotFoundError{ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("get review flag: %w", err)
	}
	return flag, nil
}

// List returns the flags matching filter, oldest first.
func (s *Store) List(ctx context.Context, filter Filter) ([]*Flag, error) {
	query := `SELECT ` + flagColumns + ` FROM review_flags`
	var (
		clauses []string
		args    []any
	)
	if filter.Status != "" {
		clauses = append(clauses, "status = ?")
		args = append(args, string(filter.Status))
	}
	if filter.Kind != "" {
		clauses = append(clauses, "kind = ?")
		args = append(args, string(filter.Kind))
	}
	if filter.RunID != "" {
		clauses = append(clauses, "run_id = ?")
		args = append(args, filter.RunID)
	}
	if filter.Dataset != "" {
		clauses = append(clauses, "dataset = ?")
		args = append(args, filter.Dataset)
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list review flags: %w", err)
	}
	defer rows.Close()

	var flags []*Flag
	for rows.Next() {
		flag, err := scanFlag(rows)
		if err != nil {
			return nil, fmt.Errorf("scan review flag: %w", err)
		}
		flags = append(flags, flag)
	}
	return flags, rows.Err()
}

// Resolve marks a flag as handled with an optional note.
func (s *Store) Resolve(ctx context.Context, id int64, note string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE review_flags SET status = ?, resolution = ?, resolved_at = ? WHERE id = ?`,
		StatusResolved,
		nullableString(note),
		time.Now().UTC().Format(time.RFC3339Nano),
		id,
	)
	if err != nil {
		return fmt.Errorf("resolve review flag: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("resolve review flag: %w", err)
	}
	if affected == 0 {
		return &NotFoundError{ID: id}
	}
	return nil
}

// ResolveSubject resolves every pending flag about one row, for example
// after the row was fixed by hand. It returns the number of flags resolved.
func (s *Store) ResolveSubject(ctx context.Context, table, id, note string) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE review_flags SET status = ?, resolution = ?, resolved_at = ?
         WHERE subject_table = ? AND subject_id = ? AND status = ?`,
		StatusResolved,
		nullableString(note),
		time.Now().UTC().Format(time.RFC3339Nano),
		table,
		id,
		StatusPending,
	)
	if err != nil {
		return 0, fmt.Errorf("resolve review flags: %w", err)
	}
	return res.RowsAffected()
}

// Clear removes flags. With resolvedOnly, pending flags are kept.
func (s *Store) Clear(ctx context.Context, resolvedOnly bool) (int64, error) {
	query := `DELETE FROM review_flags`
	var args []any
	if resolvedOnly {
		query += ` WHERE status = ?`
		args = append(args, StatusResolved)
	}
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("clear review flags: %w", err)
	}
	return res.RowsAffected()
}

// Summary counts flags by status.
func (s *Store) Summary(ctx context.Context) (Summary, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT status, COUNT(1) FROM review_flags GROUP BY status`)
	if err != nil {
		return Summary{}, fmt.Errorf("review summary: %w", err)
	}
	defer rows.Close()

	var summary Summary
	for rows.Next() {
		var (
			status string
			count  int
		)
		if err := rows.Scan(&status, &count); err != nil {
			return Summary{}, err
		}
		switch Status(status) {
		case StatusPending:
			summary.Pending += count
		case StatusResolved:
			summary.Resolved += count
		}
		summary.Total += count
	}
	return summary, rows.Err()
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
