package dataset

import (
	"strings"

	"lexcurate/internal/tablestore"
)

// tableColumns maps roles to the column names of one table.
type tableColumns struct {
	table  string
	byRole map[string]tablestore.Column
	status string
	header []string
}

func columnsOf(store *tablestore.Store, table string, roles ...string) (*tableColumns, error) {
	schema, err := store.Schema(table)
	if err != nil {
		return nil, err
	}
	header, err := store.Header(table)
	if err != nil {
		return nil, err
	}
	c := &tableColumns{table: table, byRole: map[string]tablestore.Column{}, header: header}
	for _, role := range roles {
		if col, ok := schema.ColumnForRole(role); ok {
			c.byRole[role] = col
		}
	}
	if _, ok := c.byRole[tablestore.RoleID]; !ok && schema.PrimaryKey != "" {
		c.byRole[tablestore.RoleID] = tablestore.Column{Name: schema.PrimaryKey}
	}
	if _, ok := schema.Column(StatusColumn); ok {
		c.status = StatusColumn
	}
	return c, nil
}

func (c *tableColumns) has(role string) bool {
	_, ok := c.byRole[role]
	return ok
}

func (c *tableColumns) name(role string) string {
	return c.byRole[role].Name
}

func (c *tableColumns) get(row tablestore.Row, role string) string {
	col, ok := c.byRole[role]
	if !ok {
		return ""
	}
	return row.Get(col.Name)
}

// list splits a multi-valued cell on the column's separator, or on fallback
// when the metadata declares none.
func (c *tableColumns) list(row tablestore.Row, role, fallback string) []string {
	col, ok := c.byRole[role]
	if !ok {
		return nil
	}
	return splitCell(row.Get(col.Name), separatorOr(col.Separator, fallback))
}

// extra returns the cells of columns without a known role.
func (c *tableColumns) extra(row tablestore.Row) map[string]string {
	consumed := make(map[string]bool, len(c.byRole)+1)
	for _, col := range c.byRole {
		consumed[col.Name] = true
	}
	if c.status != "" {
		consumed[c.status] = true
	}
	var out map[string]string
	for _, name := range c.header {
		if consumed[name] {
			continue
		}
		value, ok := row.Cells[name]
		if !ok {
			continue
		}
		if out == nil {
			out = make(map[string]string)
		}
		out[name] = value
	}
	return out
}

func (c *tableColumns) set(cells map[string]string, role, value string) {
	if col, ok := c.byRole[role]; ok {
		cells[col.Name] = value
	}
}

func (c *tableColumns) setList(cells map[string]string, role string, values []string, fallback string) {
	if col, ok := c.byRole[role]; ok {
		cells[col.Name] = strings.Join(values, separatorOr(col.Separator, fallback))
	}
}

func separatorOr(separator, fallback string) string {
	if separator == "" {
		return fallback
	}
	return separator
}

func splitCell(value, separator string) []string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	if separator == "" {
		return []string{value}
	}
	var parts []string
	if strings.TrimSpace(separator) == "" {
		parts = strings.Fields(value)
	} else {
		parts = strings.Split(value, separator)
	}
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
