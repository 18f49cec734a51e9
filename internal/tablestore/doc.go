// Package tablestore reads and writes a wordlist dataset stored as CSV
// tables described by a CLDF-style metadata JSON file.
//
// Tables are addressed by their component type (FormTable, CognateTable,
// CognatesetTable, LanguageTable, ParameterTable) or by their URL. Column
// roles come from the propertyUrl term of each column. Tables load lazily on
// first access; Flush rewrites only modified tables, each through a
// temporary file and rename. Cells are kept as raw strings: splitting list
// cells is up to the caller, using Column.Separator.
//
// Mutating commands hold the dataset Lock for their whole run.
package tablestore
