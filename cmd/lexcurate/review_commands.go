package main

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"lexcurate/internal/review"
)

type reviewFlagJSON struct {
	ID           int64    `json:"id"`
	RunID        string   `json:"run_id"`
	Kind         string   `json:"kind"`
	Dataset      string   `json:"dataset,omitempty"`
	SubjectTable string   `json:"subject_table"`
	SubjectID    string   `json:"subject_id"`
	RelatedIDs   []string `json:"related_ids,omitempty"`
	Message      string   `json:"message"`
	Status       string   `json:"status"`
	Resolution   string   `json:"resolution,omitempty"`
	CreatedAt    string   `json:"created_at"`
	ResolvedAt   string   `json:"resolved_at,omitempty"`
}

func newReviewCommand(ctx *commandContext) *cobra.Command {
	reviewCmd := &cobra.Command{
		Use:   "review",
		Short: "Inspect and resolve items flagged for manual review",
	}

	reviewCmd.AddCommand(newReviewStatusCommand(ctx))
	reviewCmd.AddCommand(newReviewListCommand(ctx))
	reviewCmd.AddCommand(newReviewResolveCommand(ctx))
	reviewCmd.AddCommand(newReviewClearCommand(ctx))
	reviewCmd.AddCommand(newReviewHealthCommand(ctx))

	return reviewCmd
}

func newReviewStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Count flags by status",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withReview(cmd, func(c context.Context, store *review.Store) error {
				summary, err := store.Summary(c)
				if err != nil {
					return err
				}
				if ctx.JSONMode() {
					return writeJSON(cmd, map[string]int{
						"pending":  summary.Pending,
						"resolved": summary.Resolved,
						"total":    summary.Total,
					})
				}
				if summary.Total == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No review flags")
					return nil
				}
				table := renderTable(
					[]string{"Status", "Count"},
					[][]string{
						{string(review.StatusPending), strconv.Itoa(summary.Pending)},
						{string(review.StatusResolved), strconv.Itoa(summary.Resolved)},
					},
					1,
				)
				fmt.Fprint(cmd.OutOrStdout(), table)
				return nil
			})
		},
	}
}

func newReviewListCommand(ctx *commandContext) *cobra.Command {
	var status string
	var kind string
	var runID string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List review flags",
		RunE: func(cmd *cobra.Command, args []string) error {
			parsed, err := review.ParseStatus(status)
			if err != nil {
				return err
			}
			return ctx.withReview(cmd, func(c context.Context, store *review.Store) error {
				flags, err := store.List(c, review.Filter{
					Status: parsed,
					Kind:   review.Kind(strings.TrimSpace(kind)),
					RunID:  strings.TrimSpace(runID),
				})
				if err != nil {
					return err
				}
				if ctx.JSONMode() {
					out := make([]reviewFlagJSON, 0, len(flags))
					for _, f := range flags {
						out = append(out, reviewFlagJSONOf(f))
					}
					return writeJSON(cmd, out)
				}
				if len(flags) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No review flags")
					return nil
				}
				rows := make([][]string, 0, len(flags))
				for _, f := range flags {
					rows = append(rows, []string{
						strconv.FormatInt(f.ID, 10),
						string(f.Kind),
						f.SubjectID,
						string(f.Status),
						f.CreatedAt.Local().Format("2006-01-02 15:04"),
						f.Message,
					})
				}
				table := renderTable(
					[]string{"ID", "Kind", "Subject", "Status", "Created", "Message"},
					rows,
					0,
				)
				fmt.Fprint(cmd.OutOrStdout(), table)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&status, "status", "s", "pending", "Filter by status: pending, resolved or all")
	cmd.Flags().StringVar(&kind, "kind", "", "Filter by flag kind")
	cmd.Flags().StringVar(&runID, "run", "", "Filter by run ID")
	return cmd
}

func newReviewResolveCommand(ctx *commandContext) *cobra.Command {
	var note string
	var subject string

	cmd := &cobra.Command{
		Use:   "resolve [id...]",
		Short: "Mark flags as resolved",
		Long: "Resolves flags by ID, or with --subject TABLE:ID every pending flag about one row.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if subject == "" && len(args) == 0 {
				return errors.New("give flag IDs or --subject")
			}
			ids := make([]int64, 0, len(args))
			for _, arg := range args {
				id, err := strconv.ParseInt(arg, 10, 64)
				if err != nil {
					return fmt.Errorf("invalid flag ID %q", arg)
				}
				ids = append(ids, id)
			}
			var table, rowID string
			if subject != "" {
				var ok bool
				table, rowID, ok = strings.Cut(subject, ":")
				if !ok || table == "" || rowID == "" {
					return fmt.Errorf("invalid subject %q (want TABLE:ID)", subject)
				}
			}
			return ctx.withReview(cmd, func(c context.Context, store *review.Store) error {
				out := cmd.OutOrStdout()
				for _, id := range ids {
					if err := store.Resolve(c, id, note); err != nil {
						return err
					}
					fmt.Fprintf(out, "Resolved flag %d\n", id)
				}
				if subject != "" {
					n, err := store.ResolveSubject(c, table, rowID, note)
					if err != nil {
						return err
					}
					fmt.Fprintf(out, "Resolved %d flag(s) about %s\n", n, rowID)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&note, "note", "", "Resolution note")
	cmd.Flags().StringVar(&subject, "subject", "", "Resolve every pending flag about TABLE:ID")
	return cmd
}

func newReviewClearCommand(ctx *commandContext) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete resolved flags",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withReview(cmd, func(c context.Context, store *review.Store) error {
				removed, err := store.Clear(c, !all)
				if err != nil {
					return err
				}
				if all {
					fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d review flags\n", removed)
				} else {
					fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d resolved flags\n", removed)
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Delete pending flags too")
	return cmd
}

func newReviewHealthCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check review database health (schema, integrity, columns)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withReview(cmd, func(c context.Context, store *review.Store) error {
				resp, err := store.CheckHealth(c)
				if err != nil && resp.Error == "" {
					resp.Error = err.Error()
				}
				if ctx.JSONMode() {
					return writeJSON(cmd, resp)
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Database path: %s\n", resp.DBPath)
				fmt.Fprintf(out, "Database exists: %s\n", yesNo(resp.DatabaseExists))
				fmt.Fprintf(out, "Readable: %s\n", yesNo(resp.DatabaseReadable))
				fmt.Fprintf(out, "review_flags table present: %s\n", yesNo(resp.TableExists))
				if len(resp.ColumnsPresent) > 0 {
					cols := append([]string(nil), resp.ColumnsPresent...)
					sort.Strings(cols)
					fmt.Fprintf(out, "Columns: %s\n", strings.Join(cols, ", "))
				}
				if len(resp.MissingColumns) > 0 {
					missing := append([]string(nil), resp.MissingColumns...)
					sort.Strings(missing)
					fmt.Fprintf(out, "Missing columns: %s\n", strings.Join(missing, ", "))
				} else {
					fmt.Fprintln(out, "Missing columns: none")
				}
				fmt.Fprintf(out, "Integrity check: %s\n", yesNo(resp.IntegrityCheck))
				fmt.Fprintf(out, "Total flags: %d\n", resp.TotalFlags)
				if resp.Error != "" {
					fmt.Fprintf(out, "Error: %s\n", resp.Error)
				}
				return nil
			})
		},
	}
}

func reviewFlagJSONOf(f *review.Flag) reviewFlagJSON {
	out := reviewFlagJSON{
		ID:           f.ID,
		RunID:        f.RunID,
		Kind:         string(f.Kind),
		Dataset:      f.Dataset,
		SubjectTable: f.SubjectTable,
		SubjectID:    f.SubjectID,
		RelatedIDs:   f.RelatedIDs,
		Message:      f.Message,
		Status:       string(f.Status),
		Resolution:   f.Resolution,
		CreatedAt:    f.CreatedAt.UTC().Format(time.RFC3339),
	}
	if f.ResolvedAt != nil {
		out.ResolvedAt = f.ResolvedAt.UTC().Format(time.RFC3339)
	}
	return out
}
