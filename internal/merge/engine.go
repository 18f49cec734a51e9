package merge

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"lexcurate/internal/cognates"
	"lexcurate/internal/dataset"
	"lexcurate/internal/lexicon"
	"lexcurate/internal/logging"
)

// TargetRule chooses the surviving cognate set of a cluster.
type TargetRule string

const (
	// TargetSmallest keeps the lexicographically smallest ID.
	TargetSmallest TargetRule = "smallest"
	// TargetLargest keeps the set with the most judgements, ties going to
	// the smallest ID.
	TargetLargest TargetRule = "largest"
)

// ParseTargetRule validates a configured rule.
func ParseTargetRule(value string) (TargetRule, error) {
	switch TargetRule(strings.ToLower(strings.TrimSpace(value))) {
	case "", TargetSmallest:
		return TargetSmallest, nil
	case TargetLargest:
		return TargetLargest, nil
	}
	return "", fmt.Errorf("unknown merge target rule %q (want smallest or largest)", value)
}

// Options configures an Engine.
type Options struct {
	Rule               TargetRule
	CognateSetPolicies Policies
	FormPolicies       Policies
	// Strict refuses cognate set merges whose members' alignments differ in
	// width.
	Strict bool
	// Tag becomes the status of every record the merge touches.
	Tag    string
	Logger *slog.Logger
}

// Engine merges cognate sets and forms.
type Engine struct {
	opts   Options
	logger *slog.Logger
}

// NewEngine validates the policies.
func NewEngine(opts Options) (*Engine, error) {
	if opts.Rule == "" {
		opts.Rule = TargetSmallest
	}
	if opts.Rule != TargetSmallest && opts.Rule != TargetLargest {
		return nil, fmt.Errorf("unknown merge target rule %q", opts.Rule)
	}
	if opts.CognateSetPolicies == nil {
		opts.CognateSetPolicies = DefaultCognateSetPolicies()
	}
	if opts.FormPolicies == nil {
		opts.FormPolicies = DefaultFormPolicies()
	}
	if err := opts.CognateSetPolicies.Validate(); err != nil {
		return nil, fmt.Errorf("cognate set policies: %w", err)
	}
	if err := opts.FormPolicies.Validate(); err != nil {
		return nil, fmt.Errorf("form policies: %w", err)
	}
	return &Engine{opts: opts, logger: logging.NewComponentLogger(opts.Logger, "merge")}, nil
}

// Request names the members of one cluster. Target, when set, overrides the
// engine's rule and must be a member.
type Request struct {
	Members []string
	Target  string
}

// Result describes one applied cognate set merge.
type Result struct {
	Target     string
	Removed    []string
	Retargeted int
	// Duplicates lists, per form, the judgements that now tie the form to
	// the survivor more than once. They are kept for manual review.
	Duplicates map[string][]string
	// WidthMismatch is set when the survivor's alignments differ in width.
	WidthMismatch *lexicon.AlignmentWidthMismatch
}

// Merge applies one cluster merge.
func (e *Engine) Merge(ds *dataset.Dataset, req Request) (*Result, error) {
	results, err := e.MergeAll(ds, []Request{req})
	if err != nil {
		return nil, err
	}
	return &results[0], nil
}

// MergeAll applies several cluster merges as one batch: either all succeed
// or ds is left unchanged.
func (e *Engine) MergeAll(ds *dataset.Dataset, reqs []Request) ([]Result, error) {
	work := ds.Clone()
	results := make([]Result, 0, len(reqs))
	for _, req := range reqs {
		result, err := e.mergeSets(work, req)
		if err != nil {
			return nil, err
		}
		results = append(results, *result)
	}
	ds.Commit(work)
	for _, r := range results {
		e.logger.Info("cognate sets merged",
			logging.String("target", r.Target),
			logging.IDs("removed", r.Removed),
			logging.Int("retargeted", r.Retargeted),
			logging.Int("duplicate_forms", len(r.Duplicates)),
		)
	}
	return results, nil
}

func (e *Engine) mergeSets(ds *dataset.Dataset, req Request) (*Result, error) {
	members := dedupe(req.Members)
	if len(members) < 2 {
		return nil, &ConflictError{Members: members, Reason: "a cluster needs at least two cognate sets"}
	}
	if missing := ds.CognateSets.Missing(members...); len(missing) > 0 {
		return nil, &lexicon.UnknownCognateSetError{IDs: missing}
	}
	target, err := e.target(ds, members, req.Target)
	if err != nil {
		return nil, err
	}

	sets := make([]*lexicon.CognateSet, 0, len(members))
	survivor, _ := ds.CognateSets.Get(target)
	sets = append(sets, survivor)
	for _, id := range members {
		if id != target {
			set, _ := ds.CognateSets.Get(id)
			sets = append(sets, set)
		}
	}

	if ds.CognateSets.Scope() == cognates.ScopeConcept {
		if concepts := distinctNonEmpty(sets, func(c *lexicon.CognateSet) string { return c.CentralConcept }); len(concepts) > 1 {
			return nil, &ConflictError{Members: members,
				Reason: fmt.Sprintf("cognate sets are numbered per concept and belong to different concepts (%s)", strings.Join(concepts, ", "))}
		}
	}

	widths := make(map[string]int)
	for _, id := range members {
		for judgementID, w := range ds.Judgements.Widths(id) {
			widths[judgementID] = w
		}
	}
	var mismatch *lexicon.AlignmentWidthMismatch
	if distinct(widths) > 1 {
		mismatch = &lexicon.AlignmentWidthMismatch{CognateSetID: target, Widths: widths}
		if e.opts.Strict {
			return nil, mismatch
		}
	}

	if err := fold(sets, e.opts.CognateSetPolicies); err != nil {
		return nil, &ConflictError{Members: members, Reason: err.Error()}
	}
	if e.opts.Tag != "" {
		survivor.Status = e.opts.Tag
	}
	if err := ds.CognateSets.Update(survivor); err != nil {
		return nil, err
	}

	result := &Result{Target: target, WidthMismatch: mismatch}
	for _, set := range sets[1:] {
		n, err := ds.Judgements.Retarget(set.ID, target, e.opts.Tag)
		if err != nil {
			return nil, err
		}
		result.Retargeted += n
		ds.CognateSets.Remove(set.ID)
		result.Removed = append(result.Removed, set.ID)
	}
	result.Duplicates = ds.Judgements.Duplicates(target)
	return result, nil
}

func (e *Engine) target(ds *dataset.Dataset, members []string, explicit string) (string, error) {
	if explicit != "" {
		if !slices.Contains(members, explicit) {
			return "", &ConflictError{Members: members, Reason: fmt.Sprintf("target %q is not a member of the cluster", explicit)}
		}
		return explicit, nil
	}
	if e.opts.Rule == TargetLargest {
		best := ""
		bestCount := -1
		for _, id := range members {
			n := ds.Judgements.CountForSet(id)
			if n > bestCount || (n == bestCount && id < best) {
				best, bestCount = id, n
			}
		}
		return best, nil
	}
	return cognates.SmallestID(members), nil
}

type record interface {
	Columns() []string
	Cell(column string) []string
	SetCell(column string, values []string)
}

// fold writes the policy result of every column into records[0], the
// survivor. Status is left to the caller.
func fold[R record](records []R, policies Policies) error {
	var columns []string
	for _, r := range records {
		for _, column := range r.Columns() {
			if column != lexicon.ColumnStatus && !slices.Contains(columns, column) {
				columns = append(columns, column)
			}
		}
	}
	survivor := records[0]
	for _, column := range columns {
		values := make([][]string, len(records))
		for i, r := range records {
			values[i] = r.Cell(column)
		}
		folded, err := policies.lookup(column)(values)
		if err != nil {
			return fmt.Errorf("column %q: %w", column, err)
		}
		survivor.SetCell(column, folded)
	}
	return nil
}

func dedupe(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id != "" && !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	return out
}

func distinct(widths map[string]int) int {
	seen := make(map[int]struct{})
	for _, w := range widths {
		seen[w] = struct{}{}
	}
	return len(seen)
}

func distinctNonEmpty[T any](records []T, value func(T) string) []string {
	var out []string
	for _, r := range records {
		if v := strings.TrimSpace(value(r)); v != "" && !slices.Contains(out, v) {
			out = append(out, v)
		}
	}
	return out
}
