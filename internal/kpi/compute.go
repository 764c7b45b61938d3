package kpi

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/montanaflynn/stats"

	"tablekit/domain/analysis"
	"tablekit/domain/table"
)

// Evaluate resolves a bound KPI computation against the current table.
// Failures (zero denominators, all-null columns, unsortable dates) resolve to
// the unavailable sentinel; they never raise and never affect other KPIs.
func Evaluate(t *table.Table, comp analysis.Computation) analysis.KPIValue {
	if t == nil {
		return analysis.Unavailable()
	}

	switch comp.Kind {
	case analysis.ComputeMean:
		return columnMean(t, comp.Column)
	case analysis.ComputeVariabilityIndex:
		return variabilityIndex(t, comp.Column)
	case analysis.ComputeRangeRatio:
		return rangeRatio(t, comp.Column)
	case analysis.ComputeRowCount:
		return analysis.AvailableValue(float64(t.RowCount()))
	case analysis.ComputeDataDensity:
		return dataDensity(t)
	case analysis.ComputeDiversityIndex:
		return diversityIndex(t, comp.Column)
	case analysis.ComputeCompletenessRate:
		return completenessRate(t)
	case analysis.ComputeUniquenessRate:
		return uniquenessRate(t)
	case analysis.ComputeConsistencyScore:
		return consistencyScore(t)
	case analysis.ComputeTimeSpanDays:
		return timeSpanDays(t, comp.Column)
	case analysis.ComputeRecordFrequency:
		return recordFrequency(t, comp.Column)
	case analysis.ComputeGrowthRate:
		return growthRate(t, comp.Column, comp.DateColumn)
	case analysis.ComputeSum:
		return columnSum(t, comp.Column)
	case analysis.ComputeDistinctCount:
		return distinctCount(t, comp.Column)
	case analysis.ComputeSuccessRate:
		return successRate(t, comp.Column)
	default:
		return analysis.Unavailable()
	}
}

func columnMean(t *table.Table, name string) analysis.KPIValue {
	values := numericValues(t, name)
	mean, err := stats.Mean(values)
	if err != nil {
		return analysis.Unavailable()
	}
	return analysis.AvailableValue(mean)
}

// coefficientOfVariation returns std/mean*100; ok is false when the mean is
// zero or the deviation is undefined
func coefficientOfVariation(values []float64) (float64, bool) {
	if len(values) < 2 {
		return 0, false
	}
	mean, err := stats.Mean(values)
	if err != nil || mean == 0 {
		return 0, false
	}
	std, err := stats.StandardDeviationSample(values)
	if err != nil {
		return 0, false
	}
	return std / mean * 100, true
}

func variabilityIndex(t *table.Table, name string) analysis.KPIValue {
	cov, ok := coefficientOfVariation(numericValues(t, name))
	if !ok {
		return analysis.Unavailable()
	}
	return analysis.AvailableValue(cov)
}

func rangeRatio(t *table.Table, name string) analysis.KPIValue {
	values := numericValues(t, name)
	if len(values) == 0 {
		return analysis.Unavailable()
	}
	min, _ := stats.Min(values)
	max, _ := stats.Max(values)
	if min == 0 {
		return analysis.Unavailable()
	}
	return analysis.AvailableValue(max / min)
}

func dataDensity(t *table.Table) analysis.KPIValue {
	total := t.TotalCells()
	if total == 0 {
		return analysis.Unavailable()
	}
	nonNull := total - t.MissingCells()
	return analysis.AvailableValue(float64(nonNull) / float64(total) * 100)
}

func diversityIndex(t *table.Table, name string) analysis.KPIValue {
	col, ok := t.Column(name)
	if !ok || t.RowCount() == 0 {
		return analysis.Unavailable()
	}
	return analysis.AvailableValue(float64(col.DistinctCount()) / float64(t.RowCount()))
}

func completenessRate(t *table.Table) analysis.KPIValue {
	rows := t.RowCount()
	if rows == 0 {
		return analysis.Unavailable()
	}
	complete := 0
	for i := 0; i < rows; i++ {
		if t.RowComplete(i) {
			complete++
		}
	}
	return analysis.AvailableValue(float64(complete) / float64(rows) * 100)
}

func uniquenessRate(t *table.Table) analysis.KPIValue {
	rows := t.RowCount()
	if rows == 0 {
		return analysis.Unavailable()
	}
	seen := make(map[string]struct{}, rows)
	duplicates := 0
	for i := 0; i < rows; i++ {
		key := t.RowKey(i)
		if _, ok := seen[key]; ok {
			duplicates++
		} else {
			seen[key] = struct{}{}
		}
	}
	return analysis.AvailableValue(float64(rows-duplicates) / float64(rows) * 100)
}

// consistencyScore averages the coefficients of variation across all numeric
// columns; columns with an undefined CoV contribute 0 to the average rather
// than shrinking the denominator.
func consistencyScore(t *table.Table) analysis.KPIValue {
	numeric := t.NumericColumns()
	if len(numeric) == 0 {
		return analysis.Unavailable()
	}
	sum := 0.0
	for _, col := range numeric {
		if cov, ok := coefficientOfVariation(col.NonNullFloats()); ok {
			sum += cov / 100
		}
	}
	return analysis.AvailableValue(sum / float64(len(numeric)))
}

func timeSpanDays(t *table.Table, name string) analysis.KPIValue {
	min, max, ok := dateRange(t, name)
	if !ok {
		return analysis.Unavailable()
	}
	days := max.Sub(min).Hours() / 24
	return analysis.AvailableValue(math.Floor(days))
}

func recordFrequency(t *table.Table, name string) analysis.KPIValue {
	min, max, ok := dateRange(t, name)
	if !ok {
		return analysis.Unavailable()
	}
	days := math.Floor(max.Sub(min).Hours() / 24)
	if days < 1 {
		days = 1
	}
	return analysis.AvailableValue(float64(t.RowCount()) / days)
}

// growthRate computes (last - first) / first * 100 with rows ordered by the
// date column. First-value zero, null endpoints, or a non-finite result all
// resolve to unavailable.
func growthRate(t *table.Table, valueName, dateName string) analysis.KPIValue {
	valueCol, okV := t.Column(valueName)
	dateCol, okD := t.Column(dateName)
	if !okV || !okD {
		return analysis.Unavailable()
	}

	indices := make([]int, 0, t.RowCount())
	for i := 0; i < t.RowCount(); i++ {
		if _, ok := dateCol.Time(i); ok {
			indices = append(indices, i)
		}
	}
	if len(indices) == 0 {
		return analysis.Unavailable()
	}

	sort.SliceStable(indices, func(a, b int) bool {
		ta, _ := dateCol.Time(indices[a])
		tb, _ := dateCol.Time(indices[b])
		return ta.Before(tb)
	})

	first, okFirst := valueCol.Float(indices[0])
	last, okLast := valueCol.Float(indices[len(indices)-1])
	if !okFirst || !okLast || first == 0 {
		return analysis.Unavailable()
	}

	growth := (last - first) / first * 100
	if math.IsNaN(growth) || math.IsInf(growth, 0) {
		return analysis.Unavailable()
	}
	return analysis.AvailableValue(growth)
}

func columnSum(t *table.Table, name string) analysis.KPIValue {
	col, ok := t.Column(name)
	if !ok {
		return analysis.Unavailable()
	}
	sum := 0.0
	for _, v := range col.NonNullFloats() {
		sum += v
	}
	return analysis.AvailableValue(sum)
}

func distinctCount(t *table.Table, name string) analysis.KPIValue {
	col, ok := t.Column(name)
	if !ok {
		return analysis.Unavailable()
	}
	return analysis.AvailableValue(float64(col.DistinctCount()))
}

// successRate is the share of non-null values whose lowercased form is a
// success keyword. An empty or all-null column yields 0, not an error.
func successRate(t *table.Table, name string) analysis.KPIValue {
	col, ok := t.Column(name)
	if !ok {
		return analysis.Unavailable()
	}

	total := 0
	successes := 0
	for i := 0; i < col.Len(); i++ {
		if col.IsNull(i) {
			continue
		}
		total++
		if successValues[strings.ToLower(col.CellString(i))] {
			successes++
		}
	}
	if total == 0 {
		return analysis.AvailableValue(0)
	}
	return analysis.AvailableValue(float64(successes) / float64(total) * 100)
}

func numericValues(t *table.Table, name string) []float64 {
	col, ok := t.Column(name)
	if !ok {
		return nil
	}
	return col.NonNullFloats()
}

func dateRange(t *table.Table, name string) (min, max time.Time, ok bool) {
	col, found := t.Column(name)
	if !found {
		return min, max, false
	}
	seen := false
	for i := 0; i < col.Len(); i++ {
		v, okV := col.Time(i)
		if !okV {
			continue
		}
		if !seen || v.Before(min) {
			min = v
		}
		if !seen || v.After(max) {
			max = v
		}
		seen = true
	}
	return min, max, seen
}
