package tablestore

import (
	"fmt"
	"io"
	"iter"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"

	"lexcurate/internal/fileutil"
	"lexcurate/internal/logging"
)

// Options tunes a Store.
type Options struct {
	// BackupSuffix, when set, keeps a copy of every file before its first
	// rewrite in this process.
	BackupSuffix string
	Logger       *slog.Logger
}

// Store gives row access to the tables of one dataset.
type Store struct {
	md            *metadata
	dir           string
	tables        map[*Schema]*table
	metadataDirty bool
	backedUp      map[string]bool
	opts          Options
	logger        *slog.Logger
}

// Open reads the metadata file. Tables are loaded on first use.
func Open(metadataPath string, opts Options) (*Store, error) {
	abs, err := filepath.Abs(metadataPath)
	if err != nil {
		return nil, fmt.Errorf("resolve metadata path: %w", err)
	}
	md, err := readMetadata(abs)
	if err != nil {
		return nil, err
	}
	s := &Store{
		md:       md,
		dir:      filepath.Dir(abs),
		tables:   make(map[*Schema]*table, len(md.tables)),
		backedUp: make(map[string]bool),
		opts:     opts,
		logger:   logging.NewComponentLogger(opts.Logger, "tablestore"),
	}
	for _, schema := range md.tables {
		s.tables[schema] = &table{schema: schema, path: filepath.Join(s.dir, filepath.FromSlash(schema.URL))}
	}
	return s, nil
}

// Dir returns the directory holding the metadata file.
func (s *Store) Dir() string {
	return s.dir
}

// MetadataPath returns the absolute metadata path.
func (s *Store) MetadataPath() string {
	return s.md.path
}

// Tables lists the component types (or URLs, for untyped tables) in
// metadata order.
func (s *Store) Tables() []string {
	out := make([]string, 0, len(s.md.tables))
	for _, schema := range s.md.tables {
		if schema.Type != "" {
			out = append(out, schema.Type)
		} else {
			out = append(out, schema.URL)
		}
	}
	return out
}

// HasTable reports whether the metadata describes table.
func (s *Store) HasTable(name string) bool {
	_, err := s.schema(name)
	return err == nil
}

// Schema returns the schema of a table.
func (s *Store) Schema(name string) (*Schema, error) {
	return s.schema(name)
}

func (s *Store) schema(name string) (*Schema, error) {
	for _, schema := range s.md.tables {
		if schema.Type == name {
			return schema, nil
		}
	}
	for _, schema := range s.md.tables {
		if schema.URL == name {
			return schema, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrNoTable, name)
}

func (s *Store) table(name string) (*table, error) {
	schema, err := s.schema(name)
	if err != nil {
		return nil, err
	}
	t := s.tables[schema]
	if err := t.load(); err != nil {
		return nil, err
	}
	return t, nil
}

// ColumnRole returns the vocabulary role of a column, "" for columns
// without a propertyUrl.
func (s *Store) ColumnRole(tableName, column string) (string, error) {
	schema, err := s.schema(tableName)
	if err != nil {
		return "", err
	}
	c, ok := schema.Column(column)
	if !ok {
		return "", fmt.Errorf("table %s has no column %q", tableName, column)
	}
	return c.Role(), nil
}

// ColumnFor returns the name of the column carrying role.
func (s *Store) ColumnFor(tableName, role string) (string, bool) {
	schema, err := s.schema(tableName)
	if err != nil {
		return "", false
	}
	c, ok := schema.ColumnForRole(role)
	return c.Name, ok
}

// Header returns the column order of a table as it will be written.
func (s *Store) Header(tableName string) ([]string, error) {
	t, err := s.table(tableName)
	if err != nil {
		return nil, err
	}
	return slices.Clone(t.header), nil
}

// Iterate yields copies of every row of a table in file order. A load error
// is yielded once with an empty row.
func (s *Store) Iterate(tableName string) iter.Seq2[Row, error] {
	return func(yield func(Row, error) bool) {
		t, err := s.table(tableName)
		if err != nil {
			yield(Row{}, err)
			return
		}
		for _, row := range t.rows {
			if !yield(row.Clone(), nil) {
				return
			}
		}
	}
}

// Rows returns copies of every row of a table.
func (s *Store) Rows(tableName string) ([]Row, error) {
	var rows []Row
	for row, err := range s.Iterate(tableName) {
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// Get returns a copy of the row with the given primary key.
func (s *Store) Get(tableName, id string) (Row, bool, error) {
	t, err := s.table(tableName)
	if err != nil {
		return Row{}, false, err
	}
	i, ok := t.index[id]
	if !ok {
		return Row{}, false, nil
	}
	return t.rows[i].Clone(), true, nil
}

// Put inserts a row, or replaces the row with the same primary key in place.
func (s *Store) Put(tableName string, row Row) error {
	t, err := s.table(tableName)
	if err != nil {
		return err
	}
	key := t.schema.PrimaryKey
	if key == "" {
		return fmt.Errorf("table %s has no primary key", tableName)
	}
	id := row.Get(key)
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("row for table %s has no %s", tableName, key)
	}
	s.addUnknownColumns(t, row)
	if i, ok := t.index[id]; ok {
		if row.Line == 0 {
			row.Line = t.rows[i].Line
		}
		t.rows[i] = row.Clone()
	} else {
		t.index[id] = len(t.rows)
		t.rows = append(t.rows, row.Clone())
	}
	t.dirty = true
	return nil
}

// Delete removes the row with the given primary key.
func (s *Store) Delete(tableName, id string) (bool, error) {
	t, err := s.table(tableName)
	if err != nil {
		return false, err
	}
	i, ok := t.index[id]
	if !ok {
		return false, nil
	}
	t.rows = slices.Delete(t.rows, i, i+1)
	t.reindex()
	t.dirty = true
	return true, nil
}

// Replace swaps the whole content of a table.
func (s *Store) Replace(tableName string, rows []Row) error {
	t, err := s.table(tableName)
	if err != nil {
		return err
	}
	t.rows = make([]Row, 0, len(rows))
	for _, row := range rows {
		s.addUnknownColumns(t, row)
		t.rows = append(t.rows, row.Clone())
	}
	t.reindex()
	t.dirty = true
	return nil
}

// addUnknownColumns extends the header with cells the file does not have
// yet. They are not described in the metadata; callers that need a role use
// EnsureColumn first.
func (s *Store) addUnknownColumns(t *table, row Row) {
	var extra []string
	for name := range row.Cells {
		if !slices.Contains(t.header, name) {
			extra = append(extra, name)
		}
	}
	slices.Sort(extra)
	t.header = append(t.header, extra...)
}

// EnsureColumn adds a column to a table's schema and header unless a column
// of that name exists. It reports whether the column was added.
func (s *Store) EnsureColumn(tableName string, c Column) (bool, error) {
	t, err := s.table(tableName)
	if err != nil {
		return false, err
	}
	if _, ok := t.schema.Column(c.Name); ok {
		return false, nil
	}
	t.schema.addColumn(c)
	if !slices.Contains(t.header, c.Name) {
		t.header = append(t.header, c.Name)
	}
	t.dirty = true
	s.metadataDirty = true
	s.logger.Info("added column",
		logging.String("table", tableName),
		logging.String("column", c.Name),
	)
	return true, nil
}

// EnsureTable adds an empty table of the given component type unless the
// metadata already describes one. An empty url selects the conventional
// file name.
func (s *Store) EnsureTable(tableName, url string, columns []Column) (bool, error) {
	if s.HasTable(tableName) {
		return false, nil
	}
	if url == "" {
		url = DefaultURL(tableName)
	}
	if url == "" {
		return false, fmt.Errorf("no file name for new table %s", tableName)
	}
	primaryKey := "ID"
	for _, c := range columns {
		if c.Role() == RoleID {
			primaryKey = c.Name
		}
	}
	schema := newSchema(tableName, url, primaryKey)
	for _, c := range columns {
		schema.addColumn(c)
	}
	s.md.addTable(schema)
	s.tables[schema] = &table{
		schema: schema,
		path:   filepath.Join(s.dir, filepath.FromSlash(url)),
		header: columnNames(columns),
		index:  map[string]int{},
		loaded: true,
		dirty:  true,
	}
	s.metadataDirty = true
	s.logger.Info("added table", logging.String("table", tableName), logging.String("url", url))
	return true, nil
}

// Dirty reports whether Flush has anything to write.
func (s *Store) Dirty() bool {
	if s.metadataDirty {
		return true
	}
	for _, t := range s.tables {
		if t.dirty {
			return true
		}
	}
	return false
}

// Flush writes every modified table, then the metadata when it changed.
func (s *Store) Flush() error {
	for _, schema := range s.md.tables {
		t := s.tables[schema]
		if !t.dirty {
			continue
		}
		if err := s.backup(t.path); err != nil {
			return err
		}
		if err := fileutil.WriteAtomic(t.path, t.write); err != nil {
			return &TableError{Table: schema.Type, Path: t.path, Err: err}
		}
		t.dirty = false
		s.logger.Debug("table written",
			logging.String("table", schema.Type),
			logging.Int("rows", len(t.rows)),
		)
	}
	if !s.metadataDirty {
		return nil
	}
	data, err := s.md.encode()
	if err != nil {
		return err
	}
	if err := s.backup(s.md.path); err != nil {
		return err
	}
	if err := fileutil.WriteAtomic(s.md.path, func(w io.Writer) error {
		_, err := w.Write(data)
		return err
	}); err != nil {
		return fmt.Errorf("write metadata: %w", err)
	}
	s.metadataDirty = false
	return nil
}

func (s *Store) backup(path string) error {
	if s.opts.BackupSuffix == "" || s.backedUp[path] {
		return nil
	}
	if _, err := fileutil.Backup(path, s.opts.BackupSuffix); err != nil {
		return err
	}
	s.backedUp[path] = true
	return nil
}
