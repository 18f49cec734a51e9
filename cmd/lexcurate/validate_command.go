package main

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/spf13/cobra"

	"lexcurate/internal/integrity"
	"lexcurate/internal/lexicon"
	"lexcurate/internal/review"
)

type violationJSON struct {
	Severity     string `json:"severity"`
	Kind         string `json:"kind"`
	Table        string `json:"table"`
	Line         int    `json:"line,omitempty"`
	RowID        string `json:"row_id,omitempty"`
	FormID       string `json:"form_id,omitempty"`
	CognateSetID string `json:"cognateset_id,omitempty"`
	Message      string `json:"message"`
}

type validateJSON struct {
	Errors     int             `json:"errors"`
	Warnings   int             `json:"warnings"`
	Infos      int             `json:"infos"`
	Violations []violationJSON `json:"violations"`
}

func newValidateCommand(ctx *commandContext) *cobra.Command {
	var strict bool
	var minSeverity string
	var record bool

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check every judgement, alignment and reference of the dataset",
		Long: "Collects slice, alignment and reference problems across the dataset.\n" +
			"Exits non-zero when errors are found, and in strict mode also on alignment width mismatches.",
		RunE: func(cmd *cobra.Command, args []string) error {
			min, err := parseSeverity(minSeverity)
			if err != nil {
				return err
			}
			s, err := ctx.openDataset(cmd, "validate", false)
			if err != nil {
				return err
			}
			defer s.close()

			report := integrity.Check(s.ds)
			shown := report.Filter(min)

			if record {
				if err := ctx.recordFlags(s, validationFlags(s, report)); err != nil {
					return err
				}
			}

			if ctx.JSONMode() {
				if err := writeJSON(cmd, validateJSONOf(report, shown)); err != nil {
					return err
				}
			} else {
				printViolations(cmd, report, shown)
			}

			if report.Errors() > 0 {
				return errReported
			}
			if strict || s.cfg.Cognates.Strict {
				return report.Strict(s.ds)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "Fail on alignment width mismatches")
	cmd.Flags().StringVar(&minSeverity, "min-severity", "info", "Lowest severity to print: info, warning, error")
	cmd.Flags().BoolVar(&record, "record", false, "Store width mismatches and other errors as review flags")
	return cmd
}

func parseSeverity(value string) (lexicon.Severity, error) {
	switch value {
	case "", "info":
		return lexicon.SeverityInfo, nil
	case "warning", "warn":
		return lexicon.SeverityWarning, nil
	case "error":
		return lexicon.SeverityError, nil
	}
	return 0, fmt.Errorf("unknown severity %q (want info, warning or error)", value)
}

// validationFlags turns error-severity violations into review flags. Width
// mismatches get their own kind so they can be resolved per cognate set.
func validationFlags(s *session, report integrity.Report) []review.Flag {
	var flags []review.Flag
	seen := map[string]bool{}
	for _, v := range report.Violations {
		if v.Kind == lexicon.KindWidthMismatch {
			if seen[v.CognateSetID] {
				continue
			}
			seen[v.CognateSetID] = true
			flags = append(flags, review.WidthMismatchFlag(v.CognateSetID, sortedKeys(s.ds.Judgements.Widths(v.CognateSetID))))
			continue
		}
		if v.Severity < lexicon.SeverityError {
			continue
		}
		flags = append(flags, review.Flag{
			Kind:         review.KindValidation,
			SubjectTable: v.Table,
			SubjectID:    v.RowID,
			Message:      v.Message,
		})
	}
	return flags
}

func validateJSONOf(report integrity.Report, shown []lexicon.Violation) validateJSON {
	out := validateJSON{
		Errors:     report.Errors(),
		Warnings:   report.Count(lexicon.SeverityWarning),
		Infos:      report.Count(lexicon.SeverityInfo),
		Violations: make([]violationJSON, 0, len(shown)),
	}
	for _, v := range shown {
		out.Violations = append(out.Violations, violationJSON{
			Severity:     v.Severity.String(),
			Kind:         string(v.Kind),
			Table:        v.Table,
			Line:         v.Line,
			RowID:        v.RowID,
			FormID:       v.FormID,
			CognateSetID: v.CognateSetID,
			Message:      v.Message,
		})
	}
	return out
}

func printViolations(cmd *cobra.Command, report integrity.Report, shown []lexicon.Violation) {
	out := cmd.OutOrStdout()
	colorize := shouldColorize(out)
	if len(shown) > 0 {
		rows := make([][]string, 0, len(shown))
		for _, v := range shown {
			line := ""
			if v.Line > 0 {
				line = strconv.Itoa(v.Line)
			}
			rows = append(rows, []string{v.Severity.String(), string(v.Kind), v.Table, line, v.Message})
		}
		fmt.Fprintln(out, renderTable(
			[]string{"Severity", "Kind", "Table", "Line", "Message"},
			rows,
			3,
		))
	}
	writeSection(out, "Summary", colorize)
	counts := []struct {
		label    string
		severity lexicon.Severity
	}{
		{"Errors", lexicon.SeverityError},
		{"Warnings", lexicon.SeverityWarning},
		{"Notes", lexicon.SeverityInfo},
	}
	for _, c := range counts {
		n := report.Count(c.severity)
		kind := statusOK
		if n > 0 {
			kind = severityStatus(c.severity)
		}
		fmt.Fprintln(out, renderStatusLine(c.label, kind, strconv.Itoa(n), colorize))
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
