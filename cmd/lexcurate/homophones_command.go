package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"lexcurate/internal/homophones"
	"lexcurate/internal/logging"
)

type homophoneGroupJSON struct {
	LanguageID string   `json:"language_id"`
	Value      string   `json:"value"`
	Class      string   `json:"class"`
	Partial    bool     `json:"partial,omitempty"`
	Forms      []string `json:"forms"`
	Concepts   []string `json:"concepts"`
}

func newHomophonesCommand(ctx *commandContext) *cobra.Command {
	var output string
	var byLanguage bool

	cmd := &cobra.Command{
		Use:   "homophones",
		Short: "List forms of one language that share a value",
		Long: "Groups forms by language and value and classifies each group with the\n" +
			"concept graph: Connected groups are likely one polysemous word.\n" +
			"Edit the --output file down to the groups to fuse, then run 'merge homophones --file'.",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := ctx.openDataset(cmd, "homophones", false)
			if err != nil {
				return err
			}
			defer s.close()

			var graph homophones.Graph
			if s.cfg.Paths.ConceptGraph != "" {
				concepts, err := s.conceptGraph()
				if err != nil {
					return err
				}
				graph = concepts
			}
			groups := homophones.Find(s.ds.Forms.All(), s.ds.Placeholders(), graph)
			if byLanguage {
				homophones.SortByLanguage(groups)
			}

			if output != "" {
				if err := writeClusterFile(output, homophones.ClusterGroups(groups)); err != nil {
					return err
				}
				s.logger.Info("homophone groups written",
					logging.String("path", output),
					logging.Int("groups", len(groups)),
				)
			}

			if ctx.JSONMode() {
				out := make([]homophoneGroupJSON, 0, len(groups))
				for _, g := range groups {
					item := homophoneGroupJSON{
						LanguageID: g.LanguageID,
						Value:      g.Value,
						Class:      string(g.Class),
						Partial:    g.Partial,
						Concepts:   g.Concepts(),
					}
					for _, f := range g.Forms {
						item.Forms = append(item.Forms, f.ID)
					}
					out = append(out, item)
				}
				return writeJSON(cmd, out)
			}

			w := cmd.OutOrStdout()
			rows := make([][]string, 0, len(groups))
			for _, g := range groups {
				ids := make([]string, 0, len(g.Forms))
				for _, f := range g.Forms {
					ids = append(ids, f.ID)
				}
				class := string(g.Class)
				if g.Partial {
					class += "*"
				}
				rows = append(rows, []string{g.LanguageID, g.Value, class, strings.Join(ids, ", "), strings.Join(g.Concepts(), ", ")})
			}
			if len(rows) > 0 {
				fmt.Fprintln(w, renderTable(
					[]string{"Language", "Value", "Class", "Forms", "Concepts"},
					rows,
				))
			}
			summary := homophones.Summary(groups)
			fmt.Fprintf(w, "%d group(s): %d connected, %d unconnected, %d unknown\n",
				len(groups), summary[homophones.Connected], summary[homophones.Unconnected], summary[homophones.Unknown])
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Write the groups to this cluster file")
	cmd.Flags().BoolVar(&byLanguage, "by-language", false, "Order groups by language and value instead of table order")
	return cmd
}
