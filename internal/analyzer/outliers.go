package analyzer

import (
	"sort"

	"github.com/montanaflynn/stats"

	"tablekit/domain/analysis"
)

// DetectOutliers flags outlying values per numeric column. Columns with zero
// outliers, zero variance, or no non-null values are omitted from the result
// map entirely. An unknown method falls back to IQR.
func (a *Analyzer) DetectOutliers(method analysis.OutlierMethod) analysis.OutlierSet {
	outliers := make(analysis.OutlierSet)

	for _, col := range a.table.NumericColumns() {
		values := col.NonNullFloats()
		if len(values) == 0 || !hasVariance(values) {
			continue
		}

		var flagged []float64
		switch method {
		case analysis.OutlierZScore:
			flagged = zscoreOutliers(values)
		default:
			flagged = iqrOutliers(values)
		}

		if len(flagged) > 0 {
			outliers[col.Name()] = flagged
		}
	}

	return outliers
}

// IQRBounds returns the fence values used by the IQR method for one numeric
// column, for chart annotation. ok is false when the column has no usable
// values.
func (a *Analyzer) IQRBounds(column string) (lower, upper float64, ok bool) {
	col, found := a.table.Column(column)
	if !found {
		return 0, 0, false
	}
	values := col.NonNullFloats()
	if len(values) == 0 {
		return 0, 0, false
	}
	lower, upper = iqrFences(values)
	return lower, upper, true
}

func iqrFences(values []float64) (lower, upper float64) {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	q1 := quantile(sorted, 0.25)
	q3 := quantile(sorted, 0.75)
	iqr := q3 - q1

	return q1 - 1.5*iqr, q3 + 1.5*iqr
}

func iqrOutliers(values []float64) []float64 {
	lower, upper := iqrFences(values)

	var flagged []float64
	for _, v := range values {
		if v < lower || v > upper {
			flagged = append(flagged, v)
		}
	}
	return flagged
}

// zscoreOutliers flags values whose absolute standard score exceeds 3.0,
// computed on the non-null values with population deviation.
func zscoreOutliers(values []float64) []float64 {
	mean, err := stats.Mean(values)
	if err != nil {
		return nil
	}
	std, err := stats.StandardDeviationPopulation(values)
	if err != nil || std == 0 {
		return nil
	}

	var flagged []float64
	for _, v := range values {
		z := (v - mean) / std
		if z > 3.0 || z < -3.0 {
			flagged = append(flagged, v)
		}
	}
	return flagged
}

func hasVariance(values []float64) bool {
	for _, v := range values[1:] {
		if v != values[0] {
			return true
		}
	}
	return false
}
