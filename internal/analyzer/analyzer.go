package analyzer

import (
	"math"
	"sort"

	"github.com/montanaflynn/stats"

	"tablekit/domain/analysis"
	"tablekit/domain/table"
	"tablekit/internal/errors"
)

// Analyzer computes quality and structure metrics for one table snapshot.
// Every operation is a pure function of the table: safe to call repeatedly
// and in any order. Degenerate data (zero rows, zero numeric columns)
// produces explicitly-empty results, never an error.
type Analyzer struct {
	table *table.Table
}

// New creates an analyzer for a table. A nil table is a caller contract
// violation and the only rejected input.
func New(t *table.Table) (*Analyzer, error) {
	if t == nil {
		return nil, errors.InvalidInput("table must not be nil")
	}
	return &Analyzer{table: t}, nil
}

// BasicInfo returns the shape and type composition of the dataset
func (a *Analyzer) BasicInfo() analysis.BasicInfo {
	return analysis.BasicInfo{
		TotalRows:          a.table.RowCount(),
		TotalColumns:       a.table.ColumnCount(),
		MemoryUsageMB:      round2(float64(a.table.MemoryBytes()) / 1024 / 1024),
		NumericColumns:     len(a.table.NumericColumns()),
		CategoricalColumns: len(a.table.CategoricalColumns()),
		DatetimeColumns:    len(a.table.DatetimeColumns()),
	}
}

// ColumnInfo returns one profile per column, preserving table order
func (a *Analyzer) ColumnInfo() []analysis.ColumnProfile {
	profiles := make([]analysis.ColumnProfile, 0, a.table.ColumnCount())
	for _, col := range a.table.Columns() {
		profiles = append(profiles, analysis.ColumnProfile{
			Name:         col.Name(),
			DataType:     string(col.Type()),
			NonNullCount: col.NonNullCount(),
			NullCount:    col.NullCount(),
			UniqueValues: col.DistinctCount(),
		})
	}
	return profiles
}

// SummaryStatistics returns descriptive statistics per numeric column.
// Zero numeric columns yields an empty slice, not an error.
func (a *Analyzer) SummaryStatistics() []analysis.ColumnSummary {
	numeric := a.table.NumericColumns()
	summaries := make([]analysis.ColumnSummary, 0, len(numeric))

	for _, col := range numeric {
		values := col.NonNullFloats()
		summary := analysis.ColumnSummary{Name: col.Name(), Count: len(values)}

		if len(values) > 0 {
			summary.Mean, _ = stats.Mean(values)
			summary.Min, _ = stats.Min(values)
			summary.Max, _ = stats.Max(values)

			sorted := append([]float64(nil), values...)
			sort.Float64s(sorted)
			summary.Q25 = quantile(sorted, 0.25)
			summary.Median = quantile(sorted, 0.50)
			summary.Q75 = quantile(sorted, 0.75)
		}
		if len(values) > 1 {
			summary.Std, _ = stats.StandardDeviationSample(values)
		}

		summaries = append(summaries, summary)
	}

	return summaries
}

// QualityMetrics computes dataset-level quality measures. A zero-cell table
// reports zero percentages and 100% completeness rather than dividing by
// zero.
func (a *Analyzer) QualityMetrics() analysis.QualityMetrics {
	totalCells := a.table.TotalCells()
	missingCells := a.table.MissingCells()
	duplicates := a.duplicateRowCount()

	metrics := analysis.QualityMetrics{
		TotalCells:          totalCells,
		MissingCells:        missingCells,
		DuplicateRows:       duplicates,
		CompletenessPercent: 100,
	}

	if totalCells > 0 {
		metrics.MissingPercentage = round2(float64(missingCells) / float64(totalCells) * 100)
		metrics.CompletenessPercent = round2(float64(totalCells-missingCells) / float64(totalCells) * 100)
	}
	if rows := a.table.RowCount(); rows > 0 {
		metrics.DuplicatePercentage = round2(float64(duplicates) / float64(rows) * 100)
	}

	return metrics
}

// MissingValueReport lists columns with missing cells, sorted descending by
// missing count. An empty report means no missing data.
func (a *Analyzer) MissingValueReport() []analysis.MissingColumn {
	rows := a.table.RowCount()
	report := make([]analysis.MissingColumn, 0)

	for _, col := range a.table.Columns() {
		missing := col.NullCount()
		if missing == 0 {
			continue
		}
		entry := analysis.MissingColumn{Column: col.Name(), MissingCount: missing}
		if rows > 0 {
			entry.MissingPercentage = float64(missing) / float64(rows) * 100
		}
		report = append(report, entry)
	}

	sort.SliceStable(report, func(i, j int) bool {
		return report[i].MissingCount > report[j].MissingCount
	})

	return report
}

// CategoricalDistribution summarizes the value distribution of one
// categorical column. An unknown column is a caller contract violation.
func (a *Analyzer) CategoricalDistribution(column string) (analysis.CategoricalDistribution, error) {
	col, ok := a.table.Column(column)
	if !ok {
		return analysis.CategoricalDistribution{}, errors.InvalidInput("unknown column: " + column)
	}

	rows := a.table.RowCount()
	counts := make(map[string]int)
	order := make([]string, 0)
	for i := 0; i < col.Len(); i++ {
		if col.IsNull(i) {
			continue
		}
		value := col.CellString(i)
		if _, seen := counts[value]; !seen {
			order = append(order, value)
		}
		counts[value]++
	}

	// Sort by count descending, first encounter wins ties
	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})

	dist := analysis.CategoricalDistribution{
		Column:      column,
		UniqueCount: len(order),
		ValueCounts: make([]analysis.ValueCount, 0, len(order)),
	}
	for _, value := range order {
		vc := analysis.ValueCount{Value: value, Count: counts[value]}
		if rows > 0 {
			vc.Percentage = float64(counts[value]) / float64(rows) * 100
		}
		dist.ValueCounts = append(dist.ValueCounts, vc)
	}
	if len(order) > 0 {
		dist.MostFrequent = order[0]
	}

	return dist, nil
}

// DetectPatterns returns best-effort structural hints. Purely advisory.
func (a *Analyzer) DetectPatterns() analysis.PatternHints {
	hints := analysis.PatternHints{}

	for _, col := range a.table.DatetimeColumns() {
		hints.TimeSeriesColumns = append(hints.TimeSeriesColumns, col.Name())
	}

	rows := a.table.RowCount()
	for _, col := range a.table.Columns() {
		if looksLikeIdentifier(col.Name()) || (rows > 0 && col.DistinctCount() == rows) {
			hints.IDColumns = append(hints.IDColumns, col.Name())
		}
	}

	for _, col := range a.table.NumericColumns() {
		distinct := col.DistinctCount()
		if distinct > 1 && distinct <= 10 {
			hints.PotentialCategorical = append(hints.PotentialCategorical, col.Name())
		}
	}

	return hints
}

func (a *Analyzer) duplicateRowCount() int {
	seen := make(map[string]struct{}, a.table.RowCount())
	duplicates := 0
	for i := 0; i < a.table.RowCount(); i++ {
		key := a.table.RowKey(i)
		if _, ok := seen[key]; ok {
			duplicates++
		} else {
			seen[key] = struct{}{}
		}
	}
	return duplicates
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
