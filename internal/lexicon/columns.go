package lexicon

import (
	"slices"
	"sort"
	"strings"
)

// ListSeparator joins list values folded into a single text column.
const ListSeparator = "; "

// Canonical column names used by merge policies. Any other name addresses an
// extra column by its table header.
const (
	ColumnName           = "name"
	ColumnComment        = "comment"
	ColumnSource         = "source"
	ColumnCentralConcept = "central_concept"
	ColumnStatus         = "status"
	ColumnConcepts       = "concepts"
	ColumnValue          = "value"
)

// Columns lists the mergeable columns of a cognate set.
func (c *CognateSet) Columns() []string {
	return withExtra([]string{ColumnName, ColumnCentralConcept, ColumnComment, ColumnSource, ColumnStatus}, c.Extra)
}

// Cell returns a column value; text columns yield at most one element.
func (c *CognateSet) Cell(column string) []string {
	switch strings.ToLower(column) {
	case ColumnName:
		return textCell(c.Name)
	case ColumnCentralConcept:
		return textCell(c.CentralConcept)
	case ColumnComment:
		return textCell(c.Comment)
	case ColumnSource:
		return cloneStrings(c.Sources)
	case ColumnStatus:
		return textCell(c.Status)
	}
	return textCell(c.Extra[column])
}

// SetCell stores a column value. Multiple values for a text column are joined
// with ListSeparator.
func (c *CognateSet) SetCell(column string, values []string) {
	switch strings.ToLower(column) {
	case ColumnName:
		c.Name = joinCell(values)
	case ColumnCentralConcept:
		c.CentralConcept = joinCell(values)
	case ColumnComment:
		c.Comment = joinCell(values)
	case ColumnSource:
		c.Sources = cloneStrings(values)
	case ColumnStatus:
		c.Status = joinCell(values)
	default:
		if c.Extra == nil {
			c.Extra = make(map[string]string)
		}
		c.Extra[column] = joinCell(values)
	}
}

// Columns lists the mergeable columns of a form. Value and segments are not
// mergeable: homophones share them by definition.
func (f *Form) Columns() []string {
	return withExtra([]string{ColumnConcepts, ColumnComment, ColumnSource, ColumnStatus}, f.Extra)
}

// Cell returns a column value; text columns yield at most one element.
func (f *Form) Cell(column string) []string {
	switch strings.ToLower(column) {
	case ColumnConcepts:
		return cloneStrings(f.ConceptIDs)
	case ColumnComment:
		return textCell(f.Comment)
	case ColumnSource:
		return cloneStrings(f.Sources)
	case ColumnStatus:
		return textCell(f.Status)
	case ColumnValue:
		return textCell(f.Value)
	}
	return textCell(f.Extra[column])
}

// SetCell stores a column value.
func (f *Form) SetCell(column string, values []string) {
	switch strings.ToLower(column) {
	case ColumnConcepts:
		f.ConceptIDs = cloneStrings(values)
	case ColumnComment:
		f.Comment = joinCell(values)
	case ColumnSource:
		f.Sources = cloneStrings(values)
	case ColumnStatus:
		f.Status = joinCell(values)
	case ColumnValue:
		f.Value = joinCell(values)
	default:
		if f.Extra == nil {
			f.Extra = make(map[string]string)
		}
		f.Extra[column] = joinCell(values)
	}
}

func textCell(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return []string{value}
}

func joinCell(values []string) string {
	return strings.Join(values, ListSeparator)
}

func withExtra(known []string, extra map[string]string) []string {
	names := make([]string, 0, len(extra))
	for name := range extra {
		if slices.Contains(known, strings.ToLower(name)) {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return append(known, names...)
}
