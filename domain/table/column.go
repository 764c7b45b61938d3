package table

import (
	"strconv"
	"time"
)

// Type is the declared semantic type of a column
type Type string

const (
	Numeric     Type = "numeric"
	Categorical Type = "categorical"
	Datetime    Type = "datetime"
	Other       Type = "other"
)

// Column is one named, typed column of a Table. Values are row-aligned and
// nullable; a true entry in the null mask means the cell is missing.
type Column struct {
	name    string
	typ     Type
	numbers []float64
	times   []time.Time
	strings []string
	null    []bool
}

// NumericColumn builds a numeric column. The null mask may be nil when no
// values are missing.
func NumericColumn(name string, values []float64, null []bool) Column {
	return Column{name: name, typ: Numeric, numbers: values, null: normalizeNulls(null, len(values))}
}

// CategoricalColumn builds a categorical/text column.
func CategoricalColumn(name string, values []string, null []bool) Column {
	return Column{name: name, typ: Categorical, strings: values, null: normalizeNulls(null, len(values))}
}

// DatetimeColumn builds a datetime column.
func DatetimeColumn(name string, values []time.Time, null []bool) Column {
	return Column{name: name, typ: Datetime, times: values, null: normalizeNulls(null, len(values))}
}

// OtherColumn builds a column of unclassified values kept in string form.
func OtherColumn(name string, values []string, null []bool) Column {
	return Column{name: name, typ: Other, strings: values, null: normalizeNulls(null, len(values))}
}

func normalizeNulls(null []bool, n int) []bool {
	if null == nil {
		return make([]bool, n)
	}
	return null
}

// Name returns the column name
func (c Column) Name() string { return c.name }

// Type returns the declared semantic type
func (c Column) Type() Type { return c.typ }

// Len returns the number of rows in the column
func (c Column) Len() int {
	switch c.typ {
	case Numeric:
		return len(c.numbers)
	case Datetime:
		return len(c.times)
	default:
		return len(c.strings)
	}
}

// IsNull reports whether the cell at row i is missing
func (c Column) IsNull(i int) bool {
	return i < len(c.null) && c.null[i]
}

// Float returns the numeric value at row i; ok is false for nulls and
// non-numeric columns.
func (c Column) Float(i int) (float64, bool) {
	if c.typ != Numeric || c.IsNull(i) || i >= len(c.numbers) {
		return 0, false
	}
	return c.numbers[i], true
}

// Time returns the datetime value at row i; ok is false for nulls and
// non-datetime columns.
func (c Column) Time(i int) (time.Time, bool) {
	if c.typ != Datetime || c.IsNull(i) || i >= len(c.times) {
		return time.Time{}, false
	}
	return c.times[i], true
}

// CellString returns the canonical string form of the cell at row i.
// Null cells return the empty string.
func (c Column) CellString(i int) string {
	if c.IsNull(i) {
		return ""
	}
	switch c.typ {
	case Numeric:
		if i < len(c.numbers) {
			return strconv.FormatFloat(c.numbers[i], 'g', -1, 64)
		}
	case Datetime:
		if i < len(c.times) {
			return c.times[i].Format(time.RFC3339)
		}
	default:
		if i < len(c.strings) {
			return c.strings[i]
		}
	}
	return ""
}

// NonNullFloats returns the non-null numeric values in row order.
// Non-numeric columns return an empty slice.
func (c Column) NonNullFloats() []float64 {
	if c.typ != Numeric {
		return nil
	}
	out := make([]float64, 0, len(c.numbers))
	for i, v := range c.numbers {
		if !c.IsNull(i) {
			out = append(out, v)
		}
	}
	return out
}

// NullCount returns the number of missing cells
func (c Column) NullCount() int {
	count := 0
	for _, missing := range c.null {
		if missing {
			count++
		}
	}
	return count
}

// NonNullCount returns the number of populated cells
func (c Column) NonNullCount() int {
	return c.Len() - c.NullCount()
}

// DistinctCount returns the number of distinct non-null values, compared by
// their canonical string form.
func (c Column) DistinctCount() int {
	seen := make(map[string]struct{})
	for i := 0; i < c.Len(); i++ {
		if c.IsNull(i) {
			continue
		}
		seen[c.CellString(i)] = struct{}{}
	}
	return len(seen)
}

// approxBytes estimates the in-memory footprint of the column's values
func (c Column) approxBytes() int64 {
	var size int64
	switch c.typ {
	case Numeric:
		size = int64(len(c.numbers)) * 8
	case Datetime:
		size = int64(len(c.times)) * 24
	default:
		for _, s := range c.strings {
			size += int64(len(s)) + 16
		}
	}
	return size + int64(len(c.null)) + int64(len(c.name))
}
