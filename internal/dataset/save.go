package dataset

import (
	"fmt"
	"maps"

	"lexcurate/internal/lexicon"
	"lexcurate/internal/tablestore"
)

// AllTables lists the tables Save writes when none are named.
var AllTables = []string{tablestore.FormTable, tablestore.CognatesetTable, tablestore.CognateTable}

// Save writes the named tables (all writable tables when none are given)
// into store. The caller flushes the store.
func (d *Dataset) Save(store *tablestore.Store, tables ...string) error {
	if len(tables) == 0 {
		tables = AllTables
	}
	for _, table := range tables {
		var err error
		switch table {
		case tablestore.FormTable:
			err = d.saveForms(store)
		case tablestore.CognatesetTable:
			err = d.saveCognateSets(store)
		case tablestore.CognateTable:
			err = d.saveJudgements(store)
		default:
			err = fmt.Errorf("table %s is read-only", table)
		}
		if err != nil {
			return fmt.Errorf("save %s: %w", table, err)
		}
	}
	return nil
}

func ensureStatus(store *tablestore.Store, table string, needed bool) error {
	if !needed {
		return nil
	}
	_, err := store.EnsureColumn(table, tablestore.Column{Name: StatusColumn})
	return err
}

func ensureRole(store *tablestore.Store, table string, needed bool, c tablestore.Column) error {
	if !needed {
		return nil
	}
	if _, ok := store.ColumnFor(table, c.Role()); ok {
		return nil
	}
	_, err := store.EnsureColumn(table, c)
	return err
}

func baseCells(extra map[string]string) map[string]string {
	cells := maps.Clone(extra)
	if cells == nil {
		cells = map[string]string{}
	}
	return cells
}

func (d *Dataset) saveForms(store *tablestore.Store) error {
	forms := d.Forms.All()
	needStatus := false
	for _, f := range forms {
		needStatus = needStatus || f.Status != ""
	}
	if err := ensureStatus(store, tablestore.FormTable, needStatus); err != nil {
		return err
	}
	cols, err := columnsOf(store, tablestore.FormTable, formRoles...)
	if err != nil {
		return err
	}
	rows := make([]tablestore.Row, 0, len(forms))
	for _, f := range forms {
		cells := baseCells(f.Extra)
		cols.set(cells, tablestore.RoleID, f.ID)
		cols.set(cells, tablestore.RoleLanguageReference, f.LanguageID)
		cols.setList(cells, tablestore.RoleParameterReference, f.ConceptIDs, ";")
		cols.set(cells, tablestore.RoleForm, f.Value)
		cols.setList(cells, tablestore.RoleSegments, f.Segments, " ")
		cols.set(cells, tablestore.RoleComment, f.Comment)
		cols.setList(cells, tablestore.RoleSource, f.Sources, ";")
		if cols.status != "" {
			cells[cols.status] = f.Status
		}
		rows = append(rows, tablestore.Row{Line: f.Line, Cells: cells})
	}
	return store.Replace(tablestore.FormTable, rows)
}

var cognatesetTableColumns = []tablestore.Column{
	{Name: "ID", PropertyURL: tablestore.TermsPrefix + tablestore.RoleID},
	{Name: "Name", PropertyURL: tablestore.TermsPrefix + tablestore.RoleName},
	{Name: "Comment", PropertyURL: tablestore.TermsPrefix + tablestore.RoleComment},
	{Name: "Source", PropertyURL: tablestore.TermsPrefix + tablestore.RoleSource, Separator: ";"},
}

func (d *Dataset) saveCognateSets(store *tablestore.Store) error {
	sets := d.CognateSets.All()
	if _, err := store.EnsureTable(tablestore.CognatesetTable, "", cognatesetTableColumns); err != nil {
		return err
	}
	needStatus, needCentral := false, false
	for _, c := range sets {
		needStatus = needStatus || c.Status != ""
		needCentral = needCentral || c.CentralConcept != ""
	}
	if err := ensureStatus(store, tablestore.CognatesetTable, needStatus); err != nil {
		return err
	}
	if err := ensureRole(store, tablestore.CognatesetTable, needCentral, tablestore.Column{
		Name:        "Central_Concept",
		PropertyURL: tablestore.TermsPrefix + tablestore.RoleParameterReference,
	}); err != nil {
		return err
	}
	cols, err := columnsOf(store, tablestore.CognatesetTable, cognatesetRoles...)
	if err != nil {
		return err
	}
	rows := make([]tablestore.Row, 0, len(sets))
	for _, c := range sets {
		cells := baseCells(c.Extra)
		cols.set(cells, tablestore.RoleID, c.ID)
		cols.set(cells, tablestore.RoleName, c.Name)
		cols.set(cells, tablestore.RoleParameterReference, c.CentralConcept)
		cols.set(cells, tablestore.RoleComment, c.Comment)
		cols.setList(cells, tablestore.RoleSource, c.Sources, ";")
		if cols.status != "" {
			cells[cols.status] = c.Status
		}
		rows = append(rows, tablestore.Row{Line: c.Line, Cells: cells})
	}
	return store.Replace(tablestore.CognatesetTable, rows)
}

func (d *Dataset) saveJudgements(store *tablestore.Store) error {
	if !store.HasTable(tablestore.CognateTable) {
		return fmt.Errorf("dataset has no %s", tablestore.CognateTable)
	}
	judgements := d.Judgements.All()
	needStatus, needSlice, needAlignment := false, false, false
	for _, j := range judgements {
		needStatus = needStatus || j.Status != ""
		needSlice = needSlice || len(j.Slice) > 0
		needAlignment = needAlignment || len(j.Alignment) > 0
	}
	if err := ensureStatus(store, tablestore.CognateTable, needStatus); err != nil {
		return err
	}
	if err := ensureRole(store, tablestore.CognateTable, needSlice, tablestore.Column{
		Name:        "Segment_Slice",
		PropertyURL: tablestore.TermsPrefix + tablestore.RoleSegmentSlice,
		Separator:   lexicon.SliceSeparator,
	}); err != nil {
		return err
	}
	if err := ensureRole(store, tablestore.CognateTable, needAlignment, tablestore.Column{
		Name:        "Alignment",
		PropertyURL: tablestore.TermsPrefix + tablestore.RoleAlignment,
		Separator:   " ",
	}); err != nil {
		return err
	}
	cols, err := columnsOf(store, tablestore.CognateTable, judgementRoles...)
	if err != nil {
		return err
	}
	rows := make([]tablestore.Row, 0, len(judgements))
	for _, j := range judgements {
		cells := baseCells(j.Extra)
		cols.set(cells, tablestore.RoleID, j.ID)
		cols.set(cells, tablestore.RoleFormReference, j.FormID)
		cols.set(cells, tablestore.RoleCognatesetReference, j.CognateSetID)
		if j.SliceUnparsed() {
			cols.set(cells, tablestore.RoleSegmentSlice, j.RawSlice)
		} else {
			cols.setList(cells, tablestore.RoleSegmentSlice, j.Slice.Strings(), lexicon.SliceSeparator)
		}
		cols.setList(cells, tablestore.RoleAlignment, j.Alignment, " ")
		cols.set(cells, tablestore.RoleComment, j.Comment)
		if cols.status != "" {
			cells[cols.status] = j.Status
		}
		rows = append(rows, tablestore.Row{Line: j.Line, Cells: cells})
	}
	return store.Replace(tablestore.CognateTable, rows)
}
