package excel

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"tablekit/domain/table"
	"tablekit/internal/errors"
)

// Type inference works on a stratified sample of each column's non-empty
// string values: the dominant parseable representation wins. Unparseable
// cells of a typed column become nulls rather than failing the load.

const (
	maxSampleSize   = 500
	dominanceCutoff = 0.8
)

var datetimeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
	"01/02/2006",
	"2006/01/02",
	"01-02-2006 15:04",
	"1/2/06 15:04",
}

// BuildTable infers a semantic type per column and assembles an immutable
// Table from a raw sheet.
func BuildTable(raw *RawSheet) (*table.Table, error) {
	if raw == nil {
		return nil, errors.InvalidInput("raw sheet must not be nil")
	}

	columns := make([]table.Column, 0, len(raw.Headers))
	for idx, header := range raw.Headers {
		values := raw.ColumnValues(idx)
		columns = append(columns, buildColumn(header, values))
	}

	return table.New(columns...)
}

func buildColumn(name string, values []string) table.Column {
	switch inferType(values) {
	case table.Numeric:
		return numericColumn(name, values)
	case table.Datetime:
		return datetimeColumn(name, values)
	case table.Other:
		return otherColumn(name, values)
	default:
		return categoricalColumn(name, values)
	}
}

// inferType classifies a column from a sample of its non-empty values
func inferType(values []string) table.Type {
	sample := stratifiedSample(values, maxSampleSize)

	nonEmpty := 0
	numeric := 0
	datetimes := 0
	for _, v := range sample {
		if v == "" {
			continue
		}
		nonEmpty++
		if _, err := parseNumber(v); err == nil {
			numeric++
		} else if _, ok := parseDatetime(v); ok {
			datetimes++
		}
	}

	if nonEmpty == 0 {
		return table.Other
	}
	if float64(numeric)/float64(nonEmpty) >= dominanceCutoff {
		return table.Numeric
	}
	if float64(datetimes)/float64(nonEmpty) >= dominanceCutoff {
		return table.Datetime
	}
	return table.Categorical
}

func numericColumn(name string, values []string) table.Column {
	numbers := make([]float64, len(values))
	null := make([]bool, len(values))
	for i, v := range values {
		parsed, err := parseNumber(v)
		if v == "" || err != nil {
			null[i] = true
			continue
		}
		numbers[i] = parsed
	}
	return table.NumericColumn(name, numbers, null)
}

func datetimeColumn(name string, values []string) table.Column {
	times := make([]time.Time, len(values))
	null := make([]bool, len(values))
	for i, v := range values {
		parsed, ok := parseDatetime(v)
		if v == "" || !ok {
			null[i] = true
			continue
		}
		times[i] = parsed
	}
	return table.DatetimeColumn(name, times, null)
}

func categoricalColumn(name string, values []string) table.Column {
	null := make([]bool, len(values))
	for i, v := range values {
		null[i] = v == ""
	}
	return table.CategoricalColumn(name, values, null)
}

func otherColumn(name string, values []string) table.Column {
	null := make([]bool, len(values))
	for i, v := range values {
		null[i] = v == ""
	}
	return table.OtherColumn(name, values, null)
}

// parseNumber accepts finite numbers only; ParseFloat's "NaN" and "Inf"
// spellings are treated as unparseable so they cannot enter a numeric column.
func parseNumber(v string) (float64, error) {
	cleaned := strings.ReplaceAll(v, ",", "")
	parsed, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(parsed) || math.IsInf(parsed, 0) {
		return 0, fmt.Errorf("non-finite value: %s", v)
	}
	return parsed, nil
}

func parseDatetime(v string) (time.Time, bool) {
	for _, layout := range datetimeLayouts {
		if parsed, err := time.Parse(layout, v); err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}

// stratifiedSample takes evenly distributed values across the column
func stratifiedSample(values []string, size int) []string {
	if len(values) <= size {
		return values
	}

	sample := make([]string, 0, size)
	step := float64(len(values)) / float64(size)
	for i := 0; i < size; i++ {
		idx := int(math.Round(float64(i) * step))
		if idx < len(values) {
			sample = append(sample, values[idx])
		}
	}
	return sample
}
