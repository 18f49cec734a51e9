package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"lexcurate/internal/tablestore"
)

type singletonJSON struct {
	CognateSetID string `json:"cognateset_id"`
	JudgementID  string `json:"judgement_id"`
	FormID       string `json:"form_id"`
	Slice        string `json:"slice"`
}

func newSingletonsCommand(ctx *commandContext) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "singletons",
		Short: "Give every uncovered run of segments its own cognate set",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := ctx.openDataset(cmd, "singletons", !dryRun)
			if err != nil {
				return err
			}
			defer s.close()

			created, err := s.ds.Judgements.AddSingletons(s.ds.Forms.All(), s.cfg.StatusTag(s.cfg.Status.Singletons))
			if err != nil {
				return err
			}
			if len(created) > 0 && !dryRun {
				if err := s.save(tablestore.CognatesetTable, tablestore.CognateTable); err != nil {
					return err
				}
			}

			if ctx.JSONMode() {
				out := make([]singletonJSON, 0, len(created))
				for _, c := range created {
					out = append(out, singletonJSON{
						CognateSetID: c.Set.ID,
						JudgementID:  c.Judgement.ID,
						FormID:       c.Judgement.FormID,
						Slice:        c.Judgement.Slice.String(),
					})
				}
				return writeJSON(cmd, out)
			}
			w := cmd.OutOrStdout()
			rows := make([][]string, 0, len(created))
			for _, c := range created {
				rows = append(rows, []string{c.Set.ID, c.Judgement.FormID, c.Judgement.Slice.String()})
			}
			if len(rows) > 0 {
				fmt.Fprintln(w, renderTable(
					[]string{"Cognate set", "Form", "Slice"},
					rows,
				))
			}
			verb := "Added"
			if dryRun {
				verb = "Would add"
			}
			fmt.Fprintf(w, "%s %d singleton cognate set(s)\n", verb, len(created))
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Report the singletons without writing the dataset")
	return cmd
}
