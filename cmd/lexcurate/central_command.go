package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"lexcurate/internal/central"
	"lexcurate/internal/tablestore"
)

type assignmentJSON struct {
	CognateSetID string             `json:"cognateset_id"`
	Concept      string             `json:"concept"`
	Previous     string             `json:"previous,omitempty"`
	Changed      bool               `json:"changed"`
	Scores       map[string]float64 `json:"scores,omitempty"`
}

func newCentralConceptsCommand(ctx *commandContext) *cobra.Command {
	var overwrite bool
	var all bool

	cmd := &cobra.Command{
		Use:     "central-concepts",
		Aliases: []string{"central"},
		Short:   "Choose the central concept of every cognate set",
		Long: "Scores the concepts of each set's forms by frequency, weighted by\n" +
			"betweenness centrality in the concept graph when one is configured.",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := ctx.openDataset(cmd, "central_concepts", true)
			if err != nil {
				return err
			}
			defer s.close()

			graph, err := s.conceptGraph()
			if err != nil {
				return err
			}
			assigner := central.NewAssigner(s.ds.Judgements, s.ds.Forms, graph, s.ds.ConceptOrder(), s.logger)
			assignments, err := assigner.AssignAll(overwrite, s.cfg.StatusTag(s.cfg.Status.CentralConcepts))
			if err != nil {
				return err
			}
			changed := 0
			for _, a := range assignments {
				if a.Changed {
					changed++
				}
			}
			if changed > 0 {
				if err := s.save(tablestore.CognatesetTable); err != nil {
					return err
				}
			}

			if ctx.JSONMode() {
				out := make([]assignmentJSON, 0, len(assignments))
				for _, a := range assignments {
					if !all && !a.Changed {
						continue
					}
					out = append(out, assignmentJSON{
						CognateSetID: a.SetID,
						Concept:      a.Concept,
						Previous:     a.Previous,
						Changed:      a.Changed,
						Scores:       a.Scores,
					})
				}
				return writeJSON(cmd, out)
			}

			w := cmd.OutOrStdout()
			var rows [][]string
			for _, a := range assignments {
				if !all && !a.Changed {
					continue
				}
				score := ""
				if v, ok := a.Scores[a.Concept]; ok {
					score = strconv.FormatFloat(v, 'f', 2, 64)
				}
				rows = append(rows, []string{a.SetID, a.Previous, a.Concept, score})
			}
			if len(rows) > 0 {
				fmt.Fprintln(w, renderTable(
					[]string{"Cognate set", "Previous", "Central concept", "Score"},
					rows,
					3,
				))
			}
			fmt.Fprintf(w, "Updated %d of %d cognate set(s)\n", changed, len(assignments))
			return nil
		},
	}

	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace central concepts that are already set")
	cmd.Flags().BoolVar(&all, "all", false, "List unchanged cognate sets too")
	return cmd
}
