package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"lexcurate/internal/align"
	"lexcurate/internal/lexicon"
	"lexcurate/internal/tablestore"
)

func newAlignCommand(ctx *commandContext) *cobra.Command {
	var method string
	var onlyInvalid bool

	cmd := &cobra.Command{
		Use:   "align [cognateset-id...]",
		Short: "Rebuild the alignments of cognate sets",
		Long: "Aligns the segments of every judgement of each named cognate set, or of\n" +
			"all sets when none is named. With --only-invalid only sets that fail validation are realigned.",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := ctx.openDataset(cmd, "align", true)
			if err != nil {
				return err
			}
			defer s.close()

			name := s.cfg.Align.Method
			if cmd.Flags().Changed("method") {
				name = method
			}
			m, err := align.ParseMethod(name)
			if err != nil {
				return err
			}
			only := s.cfg.Align.OnlyInvalid
			if cmd.Flags().Changed("only-invalid") {
				only = onlyInvalid
			}

			builder := align.NewBuilder(s.ds.Judgements, s.ds.Forms, m, s.logger)
			tag := s.cfg.StatusTag(s.cfg.Status.Align)
			var aligned []string
			if len(args) == 0 {
				aligned, err = builder.AlignAll(tag, only)
			} else {
				aligned, err = alignNamed(s, builder, args, tag, only)
			}
			if err != nil {
				return err
			}
			if len(aligned) > 0 {
				if err := s.save(tablestore.CognateTable); err != nil {
					return err
				}
			}

			if ctx.JSONMode() {
				return writeJSON(cmd, map[string]any{"method": string(m), "aligned": aligned})
			}
			w := cmd.OutOrStdout()
			if len(aligned) == 0 {
				fmt.Fprintln(w, "No cognate sets aligned")
				return nil
			}
			fmt.Fprintf(w, "Aligned %d cognate set(s) with %s: %s\n", len(aligned), m, strings.Join(aligned, ", "))
			return nil
		},
	}

	cmd.Flags().StringVar(&method, "method", "", "Alignment method: progressive or pad (default from config)")
	cmd.Flags().BoolVar(&onlyInvalid, "only-invalid", false, "Realign only sets whose alignments fail validation")
	return cmd
}

func alignNamed(s *session, builder *align.Builder, ids []string, tag string, onlyInvalid bool) ([]string, error) {
	if missing := s.ds.CognateSets.Missing(ids...); len(missing) > 0 {
		return nil, &lexicon.UnknownCognateSetError{IDs: missing}
	}
	var aligned []string
	for _, id := range ids {
		if onlyInvalid && len(builder.Validate(id)) == 0 {
			continue
		}
		if _, err := builder.Align(id, tag); err != nil {
			return aligned, fmt.Errorf("align cognate set %q: %w", id, err)
		}
		aligned = append(aligned, id)
	}
	return aligned, nil
}
