package tablestore

import (
	"encoding/json"
	"fmt"
	"os"
	"path"
	"strings"
)

// Component type names.
const (
	FormTable       = "FormTable"
	CognateTable    = "CognateTable"
	CognatesetTable = "CognatesetTable"
	LanguageTable   = "LanguageTable"
	ParameterTable  = "ParameterTable"
)

// Column roles, the propertyUrl terms understood by the adapter.
const (
	RoleID                   = "id"
	RoleName                 = "name"
	RoleComment              = "comment"
	RoleSource               = "source"
	RoleForm                 = "form"
	RoleSegments             = "segments"
	RoleLanguageReference    = "languageReference"
	RoleParameterReference   = "parameterReference"
	RoleFormReference        = "formReference"
	RoleCognatesetReference  = "cognatesetReference"
	RoleSegmentSlice         = "segmentSlice"
	RoleAlignment            = "alignment"
	RoleConcepticonReference = "concepticonReference"
)

// TermsPrefix is the vocabulary namespace used for generated propertyUrls.
const TermsPrefix = "http://cldf.clld.org/v1.0/terms.rdf#"

var defaultURLs = map[string]string{
	FormTable:       "forms.csv",
	CognateTable:    "cognates.csv",
	CognatesetTable: "cognatesets.csv",
	LanguageTable:   "languages.csv",
	ParameterTable:  "parameters.csv",
}

// DefaultURL returns the conventional file name of a component table.
func DefaultURL(table string) string {
	return defaultURLs[table]
}

// Column describes one column of a table schema.
type Column struct {
	Name        string
	PropertyURL string
	Separator   string
	Datatype    string
}

// Role returns the vocabulary term of the column's propertyUrl, or "".
func (c Column) Role() string {
	return term(c.PropertyURL)
}

// Schema describes one table of the dataset.
type Schema struct {
	URL        string
	Type       string
	Columns    []Column
	PrimaryKey string

	raw map[string]any
}

// Column looks a column up by name.
func (s *Schema) Column(name string) (Column, bool) {
	for _, c := range s.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// ColumnForRole returns the first column carrying role.
func (s *Schema) ColumnForRole(role string) (Column, bool) {
	for _, c := range s.Columns {
		if c.Role() == role {
			return c, true
		}
	}
	return Column{}, false
}

// metadata is the parsed metadata document. The raw map is kept so unknown
// properties survive a rewrite.
type metadata struct {
	path   string
	raw    map[string]any
	tables []*Schema
}

func readMetadata(metadataPath string) (*metadata, error) {
	data, err := os.ReadFile(metadataPath)
	if err != nil {
		return nil, fmt.Errorf("read metadata: %w", err)
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse metadata %s: %w", metadataPath, err)
	}
	md := &metadata{path: metadataPath, raw: raw}
	tables, _ := raw["tables"].([]any)
	for i, entry := range tables {
		table, ok := entry.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("metadata table %d is not an object", i)
		}
		schema, err := parseSchema(table)
		if err != nil {
			return nil, fmt.Errorf("metadata table %d: %w", i, err)
		}
		md.tables = append(md.tables, schema)
	}
	return md, nil
}

func parseSchema(table map[string]any) (*Schema, error) {
	url, _ := table["url"].(string)
	if strings.TrimSpace(url) == "" {
		return nil, fmt.Errorf("table without url")
	}
	schema := &Schema{URL: url, raw: table}
	if conforms, ok := table["dc:conformsTo"].(string); ok {
		schema.Type = term(conforms)
	}
	if schema.Type == "" {
		for typ, def := range defaultURLs {
			if path.Base(url) == def {
				schema.Type = typ
			}
		}
	}
	tableSchema, _ := table["tableSchema"].(map[string]any)
	columns, _ := tableSchema["columns"].([]any)
	for _, entry := range columns {
		col, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		c := Column{}
		c.Name, _ = col["name"].(string)
		c.PropertyURL, _ = col["propertyUrl"].(string)
		c.Separator, _ = col["separator"].(string)
		switch dt := col["datatype"].(type) {
		case string:
			c.Datatype = dt
		case map[string]any:
			c.Datatype, _ = dt["base"].(string)
		}
		if c.Name == "" {
			c.Name = c.Role()
		}
		schema.Columns = append(schema.Columns, c)
	}
	switch pk := tableSchema["primaryKey"].(type) {
	case string:
		schema.PrimaryKey = pk
	case []any:
		if len(pk) > 0 {
			schema.PrimaryKey, _ = pk[0].(string)
		}
	}
	if schema.PrimaryKey == "" {
		if c, ok := schema.ColumnForRole(RoleID); ok {
			schema.PrimaryKey = c.Name
		} else if _, ok := schema.Column("ID"); ok {
			schema.PrimaryKey = "ID"
		}
	}
	return schema, nil
}

// addColumn appends a column to the schema and its raw description.
func (s *Schema) addColumn(c Column) {
	s.Columns = append(s.Columns, c)
	tableSchema, ok := s.raw["tableSchema"].(map[string]any)
	if !ok {
		tableSchema = map[string]any{}
		s.raw["tableSchema"] = tableSchema
	}
	columns, _ := tableSchema["columns"].([]any)
	entry := map[string]any{"name": c.Name}
	if c.PropertyURL != "" {
		entry["propertyUrl"] = c.PropertyURL
	}
	if c.Separator != "" {
		entry["separator"] = c.Separator
	}
	if c.Datatype != "" {
		entry["datatype"] = c.Datatype
	}
	tableSchema["columns"] = append(columns, entry)
}

func newSchema(table, url string, primaryKey string) *Schema {
	raw := map[string]any{
		"url":           url,
		"dc:conformsTo": TermsPrefix + table,
		"tableSchema": map[string]any{
			"columns":    []any{},
			"primaryKey": []any{primaryKey},
		},
	}
	return &Schema{URL: url, Type: table, PrimaryKey: primaryKey, raw: raw}
}

func (m *metadata) addTable(s *Schema) {
	m.tables = append(m.tables, s)
	tables, _ := m.raw["tables"].([]any)
	m.raw["tables"] = append(tables, s.raw)
}

func (m *metadata) encode() ([]byte, error) {
	data, err := json.MarshalIndent(m.raw, "", "    ")
	if err != nil {
		return nil, fmt.Errorf("encode metadata: %w", err)
	}
	return append(data, '\n'), nil
}

// term returns the fragment of a vocabulary URL ("...#formReference").
func term(url string) string {
	if i := strings.LastIndexAny(url, "#/"); i >= 0 {
		return url[i+1:]
	}
	return url
}
