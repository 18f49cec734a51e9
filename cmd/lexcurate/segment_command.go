package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"lexcurate/internal/logging"
	"lexcurate/internal/segment"
	"lexcurate/internal/tablestore"
)

type segmentReportJSON struct {
	Changed []string             `json:"changed"`
	Symbols []segmentSymbolJSON `json:"symbols"`
}

type segmentSymbolJSON struct {
	LanguageID string `json:"language_id"`
	Symbol     string `json:"symbol"`
	Count      int    `json:"count"`
	Comment    string `json:"comment"`
}

func newSegmentCommand(ctx *commandContext) *cobra.Command {
	var overwrite bool
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "segment",
		Short: "Segment form values into sound tokens",
		Long: "Fills the segments of forms that have none. With --overwrite every form\n" +
			"is re-segmented; judgements of changed forms must then be checked with 'validate'.",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := ctx.openDataset(cmd, "segment", !dryRun)
			if err != nil {
				return err
			}
			defer s.close()

			over := s.cfg.Segments.Overwrite
			if cmd.Flags().Changed("overwrite") {
				over = overwrite
			}
			tokenizer := segment.NewTokenizer(s.cfg.Segments.Replacements)
			result, err := segment.Apply(s.ctx, tokenizer, s.ds.Forms, segment.Options{
				Overwrite:    over,
				Placeholders: s.ds.Placeholders(),
				Tag:          s.cfg.StatusTag(s.cfg.Status.Segments),
				Logger:       s.logger,
			})
			if err != nil {
				return err
			}

			judged := 0
			for _, id := range result.Changed {
				if len(s.ds.Judgements.ForForm(id)) > 0 {
					judged++
				}
			}
			if judged > 0 {
				logging.WarnWithContext(s.logger, "re-segmented forms carry judgements", "segments_changed",
					logging.Int("forms", judged),
					logging.String(logging.FieldImpact, "segment slices may no longer match"),
				)
			}

			if len(result.Changed) > 0 && !dryRun {
				if err := s.save(tablestore.FormTable); err != nil {
					return err
				}
			}

			entries := result.Report.Entries()
			if ctx.JSONMode() {
				out := segmentReportJSON{Changed: result.Changed, Symbols: make([]segmentSymbolJSON, 0, len(entries))}
				if out.Changed == nil {
					out.Changed = []string{}
				}
				for _, e := range entries {
					out.Symbols = append(out.Symbols, segmentSymbolJSON{
						LanguageID: e.LanguageID,
						Symbol:     e.Symbol,
						Count:      e.Count,
						Comment:    e.Comment,
					})
				}
				return writeJSON(cmd, out)
			}

			w := cmd.OutOrStdout()
			if len(entries) > 0 {
				rows := make([][]string, 0, len(entries))
				for _, e := range entries {
					rows = append(rows, []string{e.LanguageID, e.Symbol, strconv.Itoa(e.Count), e.Comment})
				}
				fmt.Fprintln(w, renderTable(
					[]string{"Language", "Symbol", "Count", "Comment"},
					rows,
					2,
				))
			}
			verb := "Segmented"
			if dryRun {
				verb = "Would segment"
			}
			fmt.Fprintf(w, "%s %d form(s)\n", verb, len(result.Changed))
			return nil
		},
	}

	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Re-segment forms that already have segments")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Report without writing the dataset")
	return cmd
}
