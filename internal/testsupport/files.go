package testsupport

import (
	"os"
	"path/filepath"
	"testing"
)

// MetadataJSON describes the five tables written by WriteDataset.
const MetadataJSON = `{
    "@context": ["http://www.w3.org/ns/csvw", {"@language": "en"}],
    "dc:conformsTo": "http://cldf.clld.org/v1.0/terms.rdf#Wordlist",
    "tables": [
        {
            "url": "languages.csv",
            "dc:conformsTo": "http://cldf.clld.org/v1.0/terms.rdf#LanguageTable",
            "tableSchema": {
                "columns": [
                    {"name": "ID", "propertyUrl": "http://cldf.clld.org/v1.0/terms.rdf#id"},
                    {"name": "Name", "propertyUrl": "http://cldf.clld.org/v1.0/terms.rdf#name"}
                ],
                "primaryKey": ["ID"]
            }
        },
        {
            "url": "parameters.csv",
            "dc:conformsTo": "http://cldf.clld.org/v1.0/terms.rdf#ParameterTable",
            "tableSchema": {
                "columns": [
                    {"name": "ID", "propertyUrl": "http://cldf.clld.org/v1.0/terms.rdf#id"},
                    {"name": "Name", "propertyUrl": "http://cldf.clld.org/v1.0/terms.rdf#name"},
                    {"name": "Concepticon_ID", "propertyUrl": "http://cldf.clld.org/v1.0/terms.rdf#concepticonReference"}
                ],
                "primaryKey": ["ID"]
            }
        },
        {
            "url": "forms.csv",
            "dc:conformsTo": "http://cldf.clld.org/v1.0/terms.rdf#FormTable",
            "tableSchema": {
                "columns": [
                    {"name": "ID", "propertyUrl": "http://cldf.clld.org/v1.0/terms.rdf#id"},
                    {"name": "Language_ID", "propertyUrl": "http://cldf.clld.org/v1.0/terms.rdf#languageReference"},
                    {"name": "Parameter_ID", "propertyUrl": "http://cldf.clld.org/v1.0/terms.rdf#parameterReference", "separator": ";"},
                    {"name": "Form", "propertyUrl": "http://cldf.clld.org/v1.0/terms.rdf#form"},
                    {"name": "Segments", "propertyUrl": "http://cldf.clld.org/v1.0/terms.rdf#segments", "separator": " "},
                    {"name": "Comment", "propertyUrl": "http://cldf.clld.org/v1.0/terms.rdf#comment"},
                    {"name": "Source", "propertyUrl": "http://cldf.clld.org/v1.0/terms.rdf#source", "separator": ";"}
                ],
                "primaryKey": ["ID"]
            }
        },
        {
            "url": "cognatesets.csv",
            "dc:conformsTo": "http://cldf.clld.org/v1.0/terms.rdf#CognatesetTable",
            "tableSchema": {
                "columns": [
                    {"name": "ID", "propertyUrl": "http://cldf.clld.org/v1.0/terms.rdf#id"},
                    {"name": "Name", "propertyUrl": "http://cldf.clld.org/v1.0/terms.rdf#name"},
                    {"name": "Central_Concept", "propertyUrl": "http://cldf.clld.org/v1.0/terms.rdf#parameterReference"},
                    {"name": "Comment", "propertyUrl": "http://cldf.clld.org/v1.0/terms.rdf#comment"},
                    {"name": "Source", "propertyUrl": "http://cldf.clld.org/v1.0/terms.rdf#source", "separator": ";"}
                ],
                "primaryKey": ["ID"]
            }
        },
        {
            "url": "cognates.csv",
            "dc:conformsTo": "http://cldf.clld.org/v1.0/terms.rdf#CognateTable",
            "tableSchema": {
                "columns": [
                    {"name": "ID", "propertyUrl": "http://cldf.clld.org/v1.0/terms.rdf#id"},
                    {"name": "Form_ID", "propertyUrl": "http://cldf.clld.org/v1.0/terms.rdf#formReference"},
                    {"name": "Cognateset_ID", "propertyUrl": "http://cldf.clld.org/v1.0/terms.rdf#cognatesetReference"},
                    {"name": "Segment_Slice", "propertyUrl": "http://cldf.clld.org/v1.0/terms.rdf#segmentSlice", "separator": ","},
                    {"name": "Alignment", "propertyUrl": "http://cldf.clld.org/v1.0/terms.rdf#alignment", "separator": " "},
                    {"name": "Comment", "propertyUrl": "http://cldf.clld.org/v1.0/terms.rdf#comment"}
                ],
                "primaryKey": ["ID"]
            }
        }
    ]
}
`

// Tables holds CSV bodies, header line included, for WriteDataset. Empty
// fields get a header-only file.
type Tables struct {
	Languages   string
	Concepts    string
	Forms       string
	CognateSets string
	Judgements  string
}

// Header lines matching MetadataJSON.
const (
	LanguagesHeader   = "ID,Name\n"
	ConceptsHeader    = "ID,Name,Concepticon_ID\n"
	FormsHeader       = "ID,Language_ID,Parameter_ID,Form,Segments,Comment,Source\n"
	CognateSetsHeader = "ID,Name,Central_Concept,Comment,Source\n"
	JudgementsHeader  = "ID,Form_ID,Cognateset_ID,Segment_Slice,Alignment,Comment\n"
)

// WriteDataset writes the metadata and tables into a fresh temp directory
// and returns the metadata path.
func WriteDataset(t testing.TB, tables Tables) string {
	t.Helper()

	dir := t.TempDir()
	files := map[string]string{
		"Wordlist-metadata.json": MetadataJSON,
		"languages.csv":          orHeader(tables.Languages, LanguagesHeader),
		"parameters.csv":         orHeader(tables.Concepts, ConceptsHeader),
		"forms.csv":              orHeader(tables.Forms, FormsHeader),
		"cognatesets.csv":        orHeader(tables.CognateSets, CognateSetsHeader),
		"cognates.csv":           orHeader(tables.Judgements, JudgementsHeader),
	}
	for name, content := range files {
		WriteText(t, filepath.Join(dir, name), content)
	}
	return filepath.Join(dir, "Wordlist-metadata.json")
}

// WriteText writes content to path, creating parent directories.
func WriteText(t testing.TB, path, content string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// ReadText returns the content of path.
func ReadText(t testing.TB, path string) string {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}

func orHeader(body, header string) string {
	if body == "" {
		return header
	}
	return body
}
