package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"lexcurate/internal/config"
	"lexcurate/internal/merge"
	"lexcurate/internal/overlap"
	"lexcurate/internal/review"
	"lexcurate/internal/tablestore"
)

type mergeResultJSON struct {
	Target        string   `json:"target"`
	Removed       []string `json:"removed"`
	Retargeted    int      `json:"retargeted"`
	Duplicates    int      `json:"duplicate_forms"`
	WidthMismatch bool     `json:"width_mismatch,omitempty"`
}

func newMergeCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "merge",
		Short: "Merge overlapping cognate sets or homophonous forms",
	}
	cmd.AddCommand(newMergeCognateSetsCommand(ctx))
	cmd.AddCommand(newMergeHomophonesCommand(ctx))
	return cmd
}

// newMergeEngine builds an engine from the configured rule and policies.
func newMergeEngine(cfg *config.Config, s *session, strict bool) (*merge.Engine, error) {
	rule, err := merge.ParseTargetRule(cfg.Merge.TargetRule)
	if err != nil {
		return nil, err
	}
	opts := merge.Options{
		Rule:   rule,
		Strict: strict || cfg.Cognates.Strict,
		Tag:    cfg.StatusTag(cfg.Status.Merge),
	}
	if len(cfg.Merge.CognatesetPolicies) > 0 {
		opts.CognateSetPolicies = merge.Policies(cfg.Merge.CognatesetPolicies)
	}
	if len(cfg.Merge.FormPolicies) > 0 {
		opts.FormPolicies = merge.Policies(cfg.Merge.FormPolicies)
	}
	if s != nil {
		opts.Logger = s.logger
	}
	return merge.NewEngine(opts)
}

func newMergeCognateSetsCommand(ctx *commandContext) *cobra.Command {
	var file string
	var firstIsTarget bool
	var strict bool
	var dryRun bool

	cmd := &cobra.Command{
		Use:     "cognatesets",
		Aliases: []string{"sets"},
		Short:   "Merge each cluster of cognate sets into one survivor",
		Long: "Merges the clusters listed in a cluster file, or every overlap cluster\n" +
			"currently detected when no file is given. All clusters are merged or none.",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := ctx.openDataset(cmd, "merge", !dryRun)
			if err != nil {
				return err
			}
			defer s.close()

			requests, err := cognateSetRequests(s, file, firstIsTarget)
			if err != nil {
				return err
			}
			if len(requests) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Nothing to merge")
				return nil
			}

			engine, err := newMergeEngine(s.cfg, s, strict)
			if err != nil {
				return err
			}
			results, err := engine.MergeAll(s.ds, requests)
			if err != nil {
				return err
			}

			if !dryRun {
				if err := s.save(tablestore.CognatesetTable, tablestore.CognateTable); err != nil {
					return err
				}
				if err := ctx.recordFlags(s, mergeFlags(results)); err != nil {
					return err
				}
			}

			if ctx.JSONMode() {
				return writeJSON(cmd, mergeJSONOf(results))
			}
			printMergeResults(cmd, results, dryRun)
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Cluster file to merge (default: detect overlaps now)")
	cmd.Flags().BoolVar(&firstIsTarget, "first-is-target", false, "Keep the first member of each cluster instead of applying the target rule")
	cmd.Flags().BoolVar(&strict, "strict", false, "Refuse clusters whose alignments differ in width")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Report the merges without writing the dataset")
	return cmd
}

func cognateSetRequests(s *session, file string, firstIsTarget bool) ([]merge.Request, error) {
	if file != "" {
		groups, err := readClusterFile(file)
		if err != nil {
			return nil, err
		}
		return merge.Requests(groups, firstIsTarget), nil
	}
	measure, err := overlap.ParseMeasure(s.cfg.Overlap.Measure)
	if err != nil {
		return nil, err
	}
	detector, err := overlap.NewDetector(s.ds.Judgements, s.ds.Forms, overlap.Options{
		Threshold: s.cfg.Overlap.Threshold,
		Measure:   measure,
	})
	if err != nil {
		return nil, err
	}
	var requests []merge.Request
	for c := range detector.Clusters() {
		requests = append(requests, merge.Request{Members: c.Members})
	}
	return requests, nil
}

func mergeFlags(results []merge.Result) []review.Flag {
	var flags []review.Flag
	for _, r := range results {
		flags = append(flags, review.DuplicateFlags(r.Target, r.Duplicates)...)
		if r.WidthMismatch != nil {
			flags = append(flags, review.WidthMismatchFlag(r.Target, sortedKeys(r.WidthMismatch.Widths)))
		}
	}
	return flags
}

func mergeJSONOf(results []merge.Result) []mergeResultJSON {
	out := make([]mergeResultJSON, 0, len(results))
	for _, r := range results {
		out = append(out, mergeResultJSON{
			Target:        r.Target,
			Removed:       r.Removed,
			Retargeted:    r.Retargeted,
			Duplicates:    len(r.Duplicates),
			WidthMismatch: r.WidthMismatch != nil,
		})
	}
	return out
}

func printMergeResults(cmd *cobra.Command, results []merge.Result, dryRun bool) {
	out := cmd.OutOrStdout()
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		notes := []string{}
		if len(r.Duplicates) > 0 {
			notes = append(notes, fmt.Sprintf("%d duplicate form(s)", len(r.Duplicates)))
		}
		if r.WidthMismatch != nil {
			notes = append(notes, "alignment widths differ")
		}
		rows = append(rows, []string{
			r.Target,
			strings.Join(r.Removed, ", "),
			strconv.Itoa(r.Retargeted),
			strings.Join(notes, "; "),
		})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"Target", "Removed", "Judgements", "Review"},
		rows,
		2,
	))
	verb := "Merged"
	if dryRun {
		verb = "Would merge"
	}
	fmt.Fprintf(out, "%s %d cluster(s)\n", verb, len(results))
}

func newMergeHomophonesCommand(ctx *commandContext) *cobra.Command {
	var file string
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "homophones",
		Short: "Fuse homophonous forms listed in a cluster file",
		Long: "Each group of the file names forms of one language with the same value\n" +
			"and segments. The first form of a group survives and takes over the judgements of the others.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if file == "" {
				return errors.New("--file is required")
			}
			groups, err := readClusterFile(file)
			if err != nil {
				return err
			}
			s, err := ctx.openDataset(cmd, "merge_homophones", !dryRun)
			if err != nil {
				return err
			}
			defer s.close()

			engine, err := newMergeEngine(s.cfg, s, false)
			if err != nil {
				return err
			}
			results, err := engine.MergeForms(s.ds, merge.FormRequests(groups))
			if err != nil {
				return err
			}

			if !dryRun {
				if err := s.save(tablestore.FormTable, tablestore.CognateTable); err != nil {
					return err
				}
				var flags []review.Flag
				for _, r := range results {
					flags = append(flags, review.MergedFormsFlag(r.Target, r.Removed))
					for _, setID := range sortedKeys(r.Duplicates) {
						flags = append(flags, review.DuplicateFlags(setID, map[string][]string{r.Target: r.Duplicates[setID]})...)
					}
				}
				if err := ctx.recordFlags(s, flags); err != nil {
					return err
				}
			}

			if ctx.JSONMode() {
				out := make([]mergeResultJSON, 0, len(results))
				for _, r := range results {
					out = append(out, mergeResultJSON{
						Target:     r.Target,
						Removed:    r.Removed,
						Retargeted: r.Retargeted,
						Duplicates: len(r.Duplicates),
					})
				}
				return writeJSON(cmd, out)
			}
			w := cmd.OutOrStdout()
			for _, r := range results {
				fmt.Fprintf(w, "%s <- %s (%d judgement(s) moved)\n", r.Target, strings.Join(r.Removed, ", "), r.Retargeted)
			}
			fmt.Fprintf(w, "Merged %d homophone group(s)\n", len(results))
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Cluster file listing homophone groups (see 'homophones --output')")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Report the merges without writing the dataset")
	return cmd
}
