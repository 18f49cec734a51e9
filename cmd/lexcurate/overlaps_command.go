package main

import (
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"lexcurate/internal/logging"
	"lexcurate/internal/merge"
	"lexcurate/internal/overlap"
)

type overlapEdgeJSON struct {
	FormID   string  `json:"form_id"`
	SetA     string  `json:"set_a"`
	SetB     string  `json:"set_b"`
	SliceA   string  `json:"slice_a"`
	SliceB   string  `json:"slice_b"`
	Fraction float64 `json:"fraction"`
}

type overlapClusterJSON struct {
	Members []string          `json:"members"`
	Edges   []overlapEdgeJSON `json:"edges"`
}

func newOverlapsCommand(ctx *commandContext) *cobra.Command {
	var threshold float64
	var measure string
	var output string

	cmd := &cobra.Command{
		Use:   "overlaps",
		Short: "List cognate sets whose judgements overlap on some form",
		Long: "Groups cognate sets that claim the same segments of a form.\n" +
			"With --output the clusters are written in the cluster-file format read by 'merge cognatesets --file'.",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := ctx.openDataset(cmd, "overlaps", false)
			if err != nil {
				return err
			}
			defer s.close()

			opts, err := overlapOptions(cmd, s, threshold, measure)
			if err != nil {
				return err
			}
			detector, err := overlap.NewDetector(s.ds.Judgements, s.ds.Forms, opts)
			if err != nil {
				return err
			}
			clusters := slices.Collect(detector.Clusters())

			if output != "" {
				if err := writeClusterFile(output, overlap.ClusterGroups(clusters, s.ds.CognateSets)); err != nil {
					return err
				}
				s.logger.Info("overlap clusters written",
					logging.String("path", output),
					logging.Int("clusters", len(clusters)),
					logging.Float64("threshold", opts.Threshold),
				)
			}

			if ctx.JSONMode() {
				return writeJSON(cmd, overlapJSONOf(clusters))
			}
			printClusters(cmd, clusters, opts)
			return nil
		},
	}

	cmd.Flags().Float64Var(&threshold, "threshold", 0, "Minimum shared fraction, in (0, 1] (default from config)")
	cmd.Flags().StringVar(&measure, "measure", "", "Fraction denominator: min or max (default from config)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write the clusters to this cluster file")
	return cmd
}

// overlapOptions merges flags over the configured defaults.
func overlapOptions(cmd *cobra.Command, s *session, threshold float64, measure string) (overlap.Options, error) {
	opts := overlap.Options{Threshold: s.cfg.Overlap.Threshold}
	if cmd.Flags().Changed("threshold") {
		opts.Threshold = threshold
	}
	name := s.cfg.Overlap.Measure
	if cmd.Flags().Changed("measure") {
		name = measure
	}
	m, err := overlap.ParseMeasure(name)
	if err != nil {
		return opts, err
	}
	opts.Measure = m
	return opts, nil
}

func writeClusterFile(path string, groups []merge.Group) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create cluster file: %w", err)
	}
	if err := merge.WriteGroups(f, groups); err != nil {
		_ = f.Close()
		return fmt.Errorf("write cluster file: %w", err)
	}
	return f.Close()
}

func readClusterFile(path string) ([]merge.Group, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open cluster file: %w", err)
	}
	defer f.Close()
	return merge.ParseGroups(f)
}

func overlapJSONOf(clusters []overlap.Cluster) []overlapClusterJSON {
	out := make([]overlapClusterJSON, 0, len(clusters))
	for _, c := range clusters {
		item := overlapClusterJSON{Members: c.Members, Edges: make([]overlapEdgeJSON, 0, len(c.Edges))}
		for _, e := range c.Edges {
			item.Edges = append(item.Edges, overlapEdgeJSON{
				FormID:   e.FormID,
				SetA:     e.SetA,
				SetB:     e.SetB,
				SliceA:   e.SliceA.String(),
				SliceB:   e.SliceB.String(),
				Fraction: e.Fraction,
			})
		}
		out = append(out, item)
	}
	return out
}

func printClusters(cmd *cobra.Command, clusters []overlap.Cluster, opts overlap.Options) {
	out := cmd.OutOrStdout()
	if len(clusters) == 0 {
		fmt.Fprintln(out, "No overlapping cognate sets")
		return
	}
	for i, c := range clusters {
		fmt.Fprintf(out, "Cluster %d: %s\n", i+1, strings.Join(c.Members, ", "))
		rows := make([][]string, 0, len(c.Edges))
		for _, e := range c.Edges {
			rows = append(rows, []string{
				e.FormID,
				e.SetA + " [" + e.SliceA.String() + "]",
				e.SetB + " [" + e.SliceB.String() + "]",
				strconv.FormatFloat(e.Fraction, 'f', 2, 64),
			})
		}
		fmt.Fprintln(out, renderTable(
			[]string{"Form", "Set A", "Set B", "Shared"},
			rows,
			3,
		))
	}
	fmt.Fprintf(out, "%d cluster(s) at threshold %.2f (%s measure)\n", len(clusters), opts.Threshold, opts.Measure)
}
