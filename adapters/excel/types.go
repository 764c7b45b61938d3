package excel

// RawSheet is a parsed worksheet before type inference: a header row and
// row-aligned string cells. Empty strings are treated as missing values.
type RawSheet struct {
	Name    string
	Headers []string
	Rows    [][]string
}

// RowCount returns the number of data rows
func (s *RawSheet) RowCount() int {
	return len(s.Rows)
}

// ColumnValues returns the values of one column by header index
func (s *RawSheet) ColumnValues(idx int) []string {
	values := make([]string, len(s.Rows))
	for i, row := range s.Rows {
		if idx < len(row) {
			values[i] = row[idx]
		}
	}
	return values
}
