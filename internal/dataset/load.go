package dataset

import (
	"fmt"
	"slices"
	"strings"

	"lexcurate/internal/cognates"
	"lexcurate/internal/lexicon"
	"lexcurate/internal/tablestore"
)

// Options controls how a dataset is interpreted.
type Options struct {
	Scope        cognates.Scope
	Placeholders []string
}

var (
	formRoles = []string{
		tablestore.RoleID, tablestore.RoleLanguageReference, tablestore.RoleParameterReference,
		tablestore.RoleForm, tablestore.RoleSegments, tablestore.RoleComment, tablestore.RoleSource,
	}
	cognatesetRoles = []string{
		tablestore.RoleID, tablestore.RoleName, tablestore.RoleParameterReference,
		tablestore.RoleComment, tablestore.RoleSource,
	}
	judgementRoles = []string{
		tablestore.RoleID, tablestore.RoleFormReference, tablestore.RoleCognatesetReference,
		tablestore.RoleSegmentSlice, tablestore.RoleAlignment, tablestore.RoleComment,
	}
	languageRoles = []string{tablestore.RoleID, tablestore.RoleName}
	conceptRoles  = []string{tablestore.RoleID, tablestore.RoleName, tablestore.RoleConcepticonReference}
)

// Load reads the whole dataset from store.
func Load(store *tablestore.Store, opts Options) (*Dataset, error) {
	placeholders := lexicon.NewPlaceholders(opts.Placeholders...)
	if len(opts.Placeholders) == 0 {
		placeholders = lexicon.NewPlaceholders(lexicon.DefaultPlaceholders...)
	}
	l := &loader{store: store}

	languages, err := l.languages()
	if err != nil {
		return nil, err
	}
	concepts, err := l.concepts()
	if err != nil {
		return nil, err
	}
	forms, err := l.forms()
	if err != nil {
		return nil, err
	}
	judgements, err := l.judgements()
	if err != nil {
		return nil, err
	}
	sets, err := l.cognateSets(opts.Scope, judgements)
	if err != nil {
		return nil, err
	}
	ds, err := New(languages, concepts, forms, sets, judgements, placeholders)
	if err != nil {
		return nil, err
	}
	ds.Issues = l.issues
	return ds, nil
}

type loader struct {
	store  *tablestore.Store
	issues []lexicon.Violation
}

func (l *loader) issue(kind lexicon.ViolationKind, severity lexicon.Severity, table string, row tablestore.Row, id, format string, args ...any) {
	l.issues = append(l.issues, lexicon.Violation{
		Kind:     kind,
		Severity: severity,
		Table:    table,
		Line:     row.Line,
		RowID:    id,
		Message:  fmt.Sprintf(format, args...),
	})
}

func (l *loader) rows(table string, roles []string) (*tableColumns, []tablestore.Row, error) {
	if !l.store.HasTable(table) {
		return nil, nil, nil
	}
	cols, err := columnsOf(l.store, table, roles...)
	if err != nil {
		return nil, nil, err
	}
	rows, err := l.store.Rows(table)
	if err != nil {
		return nil, nil, err
	}
	return cols, rows, nil
}

func (l *loader) languages() ([]*lexicon.Language, error) {
	cols, rows, err := l.rows(tablestore.LanguageTable, languageRoles)
	if err != nil || cols == nil {
		return nil, err
	}
	out := make([]*lexicon.Language, 0, len(rows))
	for _, row := range rows {
		out = append(out, &lexicon.Language{
			ID:    cols.get(row, tablestore.RoleID),
			Name:  cols.get(row, tablestore.RoleName),
			Extra: cols.extra(row),
			Line:  row.Line,
		})
	}
	return out, nil
}

func (l *loader) concepts() ([]*lexicon.Concept, error) {
	cols, rows, err := l.rows(tablestore.ParameterTable, conceptRoles)
	if err != nil || cols == nil {
		return nil, err
	}
	out := make([]*lexicon.Concept, 0, len(rows))
	for _, row := range rows {
		out = append(out, &lexicon.Concept{
			ID:            cols.get(row, tablestore.RoleID),
			Name:          cols.get(row, tablestore.RoleName),
			ConcepticonID: strings.TrimSpace(cols.get(row, tablestore.RoleConcepticonReference)),
			Extra:         cols.extra(row),
			Line:          row.Line,
		})
	}
	return out, nil
}

func (l *loader) forms() ([]*lexicon.Form, error) {
	cols, rows, err := l.rows(tablestore.FormTable, formRoles)
	if err != nil {
		return nil, err
	}
	if cols == nil {
		return nil, fmt.Errorf("dataset has no %s", tablestore.FormTable)
	}
	out := make([]*lexicon.Form, 0, len(rows))
	for _, row := range rows {
		id := cols.get(row, tablestore.RoleID)
		raw := cols.list(row, tablestore.RoleSegments, " ")
		segments := lexicon.NormalizeAll(raw)
		if !slices.Equal(raw, segments) {
			l.issue(lexicon.KindNotNormalized, lexicon.SeverityWarning, tablestore.FormTable, row, id,
				"segments of form %q are not NFC normalized", id)
		}
		for _, segment := range segments {
			if segment == lexicon.GapToken {
				l.issue(lexicon.KindContentMismatch, lexicon.SeverityError, tablestore.FormTable, row, id,
					"form %q has a segment equal to the gap token %q", id, lexicon.GapToken)
				break
			}
		}
		out = append(out, &lexicon.Form{
			ID:         id,
			LanguageID: cols.get(row, tablestore.RoleLanguageReference),
			ConceptIDs: cols.list(row, tablestore.RoleParameterReference, ""),
			Value:      cols.get(row, tablestore.RoleForm),
			Segments:   segments,
			Comment:    cols.get(row, tablestore.RoleComment),
			Sources:    cols.list(row, tablestore.RoleSource, ";"),
			Status:     row.Get(cols.status),
			Extra:      cols.extra(row),
			Line:       row.Line,
		})
	}
	return out, nil
}

func (l *loader) judgements() ([]*lexicon.Judgement, error) {
	cols, rows, err := l.rows(tablestore.CognateTable, judgementRoles)
	if err != nil || cols == nil {
		return nil, err
	}
	out := make([]*lexicon.Judgement, 0, len(rows))
	for _, row := range rows {
		id := cols.get(row, tablestore.RoleID)
		j := &lexicon.Judgement{
			ID:           id,
			FormID:       cols.get(row, tablestore.RoleFormReference),
			CognateSetID: cols.get(row, tablestore.RoleCognatesetReference),
			Comment:      cols.get(row, tablestore.RoleComment),
			Status:       row.Get(cols.status),
			Extra:        cols.extra(row),
			Line:         row.Line,
		}
		sliceText := strings.Join(cols.list(row, tablestore.RoleSegmentSlice, lexicon.SliceSeparator), lexicon.SliceSeparator)
		rawSlice := cols.get(row, tablestore.RoleSegmentSlice)
		if strings.TrimSpace(rawSlice) == "" {
			rawSlice = sliceText
		}
		slice, err := lexicon.ParseSliceText(sliceText)
		if err != nil {
			j.RawSlice = rawSlice
			l.issue(lexicon.KindSliceRange, lexicon.SeverityError, tablestore.CognateTable, row, id,
				"cannot parse segment slice %q: %v", rawSlice, err)
		} else {
			j.Slice = slice
		}
		rawAlignment := cols.get(row, tablestore.RoleAlignment)
		j.Alignment = lexicon.ParseAlignment(rawAlignment)
		if !lexicon.IsNormalized(strings.TrimSpace(rawAlignment)) {
			l.issue(lexicon.KindNotNormalized, lexicon.SeverityWarning, tablestore.CognateTable, row, id,
				"alignment of judgement %q is not NFC normalized", id)
		}
		out = append(out, j)
	}
	return out, nil
}

// cognateSets reads the cognate set table. Without one, the registry is
// built from the IDs the judgements reference.
func (l *loader) cognateSets(scope cognates.Scope, judgements []*lexicon.Judgement) (*cognates.Registry, error) {
	cols, rows, err := l.rows(tablestore.CognatesetTable, cognatesetRoles)
	if err != nil {
		return nil, err
	}
	if cols == nil {
		registry, _ := cognates.NewRegistry(scope)
		for _, j := range judgements {
			if j.CognateSetID != "" && !registry.Has(j.CognateSetID) {
				_ = registry.Add(&lexicon.CognateSet{ID: j.CognateSetID})
			}
		}
		return registry, nil
	}
	sets := make([]*lexicon.CognateSet, 0, len(rows))
	for _, row := range rows {
		sets = append(sets, &lexicon.CognateSet{
			ID:             cols.get(row, tablestore.RoleID),
			Name:           cols.get(row, tablestore.RoleName),
			CentralConcept: cols.get(row, tablestore.RoleParameterReference),
			Comment:        cols.get(row, tablestore.RoleComment),
			Sources:        cols.list(row, tablestore.RoleSource, ";"),
			Status:         row.Get(cols.status),
			Extra:          cols.extra(row),
			Line:           row.Line,
		})
	}
	registry, err := cognates.NewRegistry(scope, sets...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", tablestore.CognatesetTable, err)
	}
	return registry, nil
}
