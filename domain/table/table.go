package table

import (
	"fmt"
	"strings"
)

// Table is an immutable, column-typed, row-ordered dataset snapshot. A new
// upload always produces a new Table; nothing mutates one in place.
type Table struct {
	columns []Column
	byName  map[string]int
	rows    int
}

// New builds a Table from row-aligned columns. All columns must share the
// same length and carry unique, non-empty names. A table with zero columns
// is valid and has zero rows.
func New(columns ...Column) (*Table, error) {
	t := &Table{
		columns: columns,
		byName:  make(map[string]int, len(columns)),
	}

	for i, col := range columns {
		if col.name == "" {
			return nil, fmt.Errorf("column %d has no name", i)
		}
		if _, exists := t.byName[col.name]; exists {
			return nil, fmt.Errorf("duplicate column name: %s", col.name)
		}
		t.byName[col.name] = i

		if i == 0 {
			t.rows = col.Len()
		} else if col.Len() != t.rows {
			return nil, fmt.Errorf("column %s has %d rows, expected %d", col.name, col.Len(), t.rows)
		}
	}

	return t, nil
}

// RowCount returns the number of rows
func (t *Table) RowCount() int { return t.rows }

// ColumnCount returns the number of columns
func (t *Table) ColumnCount() int { return len(t.columns) }

// Columns returns the columns in table order
func (t *Table) Columns() []Column { return t.columns }

// ColumnNames returns the column names in table order
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.columns))
	for i, col := range t.columns {
		names[i] = col.name
	}
	return names
}

// Column looks a column up by name
func (t *Table) Column(name string) (Column, bool) {
	idx, ok := t.byName[name]
	if !ok {
		return Column{}, false
	}
	return t.columns[idx], true
}

// NumericColumns returns the numeric columns in table order
func (t *Table) NumericColumns() []Column { return t.columnsOfType(Numeric) }

// CategoricalColumns returns the categorical columns in table order
func (t *Table) CategoricalColumns() []Column { return t.columnsOfType(Categorical) }

// DatetimeColumns returns the datetime columns in table order
func (t *Table) DatetimeColumns() []Column { return t.columnsOfType(Datetime) }

func (t *Table) columnsOfType(typ Type) []Column {
	var out []Column
	for _, col := range t.columns {
		if col.typ == typ {
			out = append(out, col)
		}
	}
	return out
}

// TotalCells returns rows x columns
func (t *Table) TotalCells() int {
	return t.rows * len(t.columns)
}

// MissingCells returns the total number of null cells across all columns
func (t *Table) MissingCells() int {
	total := 0
	for _, col := range t.columns {
		total += col.NullCount()
	}
	return total
}

// MemoryBytes estimates the in-memory footprint of the table's values
func (t *Table) MemoryBytes() int64 {
	var total int64
	for _, col := range t.columns {
		total += col.approxBytes()
	}
	return total
}

// RowKey returns a canonical string form of row i, used for duplicate
// detection. Null cells use a sentinel distinct from any real value.
func (t *Table) RowKey(i int) string {
	parts := make([]string, len(t.columns))
	for j, col := range t.columns {
		if col.IsNull(i) {
			parts[j] = "\x00"
		} else {
			parts[j] = col.CellString(i)
		}
	}
	return strings.Join(parts, "\x1f")
}

// RowComplete reports whether row i has no missing cells
func (t *Table) RowComplete(i int) bool {
	for _, col := range t.columns {
		if col.IsNull(i) {
			return false
		}
	}
	return true
}
