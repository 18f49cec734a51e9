package review

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Kind classifies why a flag was raised.
type Kind string

const (
	// KindDuplicateJudgement: a merge left a form judged more than once into
	// the surviving cognate set.
	KindDuplicateJudgement Kind = "duplicate_judgement"
	// KindMergedForms: homophones were fused and their meanings need a check.
	KindMergedForms Kind = "merged_forms"
	// KindWidthMismatch: alignments of a cognate set differ in width.
	KindWidthMismatch Kind = "alignment_width_mismatch"
	// KindValidation: any other integrity violation kept for later.
	KindValidation Kind = "validation"
)

// Status is the lifecycle state of a flag.
type Status string

const (
	StatusPending  Status = "pending"
	StatusResolved Status = "resolved"
)

// ParseStatus validates a status filter value. The empty string matches all.
func ParseStatus(value string) (Status, error) {
	switch Status(strings.ToLower(strings.TrimSpace(value))) {
	case "", "all":
		return "", nil
	case StatusPending:
		return StatusPending, nil
	case StatusResolved:
		return StatusResolved, nil
	}
	return "", fmt.Errorf("unknown review status %q (want pending, resolved or all)", value)
}

// Flag is one item awaiting or having received manual review.
type Flag struct {
	ID           int64
	RunID        string
	Kind         Kind
	Dataset      string
	SubjectTable string
	SubjectID    string
	RelatedIDs   []string
	Message      string
	Status       Status
	Resolution   string
	CreatedAt    time.Time
	ResolvedAt   *time.Time
}

// Filter narrows List results. Zero fields match everything.
type Filter struct {
	Status  Status
	Kind    Kind
	RunID   string
	Dataset string
}

// DuplicateFlags builds one flag per form judged more than once into setID.
func DuplicateFlags(setID string, duplicates map[string][]string) []Flag {
	forms := make([]string, 0, len(duplicates))
	for formID := range duplicates {
		forms = append(forms, formID)
	}
	sort.Strings(forms)
	flags := make([]Flag, 0, len(forms))
	for _, formID := range forms {
		ids := duplicates[formID]
		flags = append(flags, Flag{
			Kind:         KindDuplicateJudgement,
			SubjectTable: "CognatesetTable",
			SubjectID:    setID,
			RelatedIDs:   append([]string{formID}, ids...),
			Message: fmt.Sprintf("form %s is judged into cognate set %s by %s",
				formID, setID, strings.Join(ids, ", ")),
		})
	}
	return flags
}

// MergedFormsFlag records a homophone merge.
func MergedFormsFlag(target string, removed []string) Flag {
	return Flag{
		Kind:         KindMergedForms,
		SubjectTable: "FormTable",
		SubjectID:    target,
		RelatedIDs:   append([]string(nil), removed...),
		Message:      fmt.Sprintf("forms %s were merged into %s", strings.Join(removed, ", "), target),
	}
}

// WidthMismatchFlag records a cognate set whose alignments differ in width.
func WidthMismatchFlag(setID string, judgementIDs []string) Flag {
	return Flag{
		Kind:         KindWidthMismatch,
		SubjectTable: "CognatesetTable",
		SubjectID:    setID,
		RelatedIDs:   append([]string(nil), judgementIDs...),
		Message:      fmt.Sprintf("alignments of cognate set %s differ in width", setID),
	}
}

// Summary counts flags by status.
type Summary struct {
	Pending  int
	Resolved int
	Total    int
}

// DatabaseHealth is the diagnostic output of CheckHealth.
type DatabaseHealth struct {
	DBPath           string
	DatabaseExists   bool
	DatabaseReadable bool
	TableExists      bool
	ColumnsPresent   []string
	MissingColumns   []string
	IntegrityCheck   bool
	TotalFlags       int
	Error            string
}
