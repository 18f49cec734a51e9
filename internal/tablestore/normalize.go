package tablestore

import (
	"golang.org/x/text/unicode/norm"

	"lexcurate/internal/logging"
)

// NormalizeUnicode rewrites every cell of the named tables (all described
// tables when none are named) to NFC. It returns the number of changed cells
// per table; tables without changes are not marked dirty.
func (s *Store) NormalizeUnicode(tables ...string) (map[string]int, error) {
	if len(tables) == 0 {
		tables = s.Tables()
	}
	changed := make(map[string]int, len(tables))
	for _, name := range tables {
		t, err := s.table(name)
		if err != nil {
			return nil, err
		}
		n := 0
		for _, row := range t.rows {
			for column, value := range row.Cells {
				if norm.NFC.IsNormalString(value) {
					continue
				}
				row.Cells[column] = norm.NFC.String(value)
				n++
			}
		}
		if n > 0 {
			t.dirty = true
			s.logger.Info("normalized cells",
				logging.String("table", name),
				logging.Int("changed", n),
			)
		}
		changed[name] = n
	}
	return changed, nil
}
