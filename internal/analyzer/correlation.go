package analyzer

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"tablekit/domain/analysis"
	"tablekit/domain/table"
)

// DefaultCorrelationThreshold is the |r| cutoff for strong correlations
const DefaultCorrelationThreshold = 0.70

// CorrelationMatrix computes the Pearson correlation matrix over the numeric
// columns using pairwise-complete observations. Fewer than two numeric
// columns yields an empty matrix. Entries with zero variance are NaN.
func (a *Analyzer) CorrelationMatrix() analysis.CorrelationMatrix {
	numeric := a.table.NumericColumns()
	if len(numeric) < 2 {
		return analysis.CorrelationMatrix{}
	}

	names := make([]string, len(numeric))
	for i, col := range numeric {
		names[i] = col.Name()
	}

	values := make([][]float64, len(numeric))
	for i := range numeric {
		values[i] = make([]float64, len(numeric))
		for j := range numeric {
			switch {
			case i == j:
				values[i][j] = selfCorrelation(numeric[i])
			case j < i:
				values[i][j] = values[j][i]
			default:
				values[i][j] = pairwiseCorrelation(numeric[i], numeric[j])
			}
		}
	}

	return analysis.CorrelationMatrix{Columns: names, Values: values}
}

// StrongCorrelations returns the unordered pairs with |r| at or above the
// threshold, scanned over the strictly-upper triangle in column-major order
// and sorted by |r| descending. The scan order is the tie-break: ties keep
// first-encounter order.
func (a *Analyzer) StrongCorrelations(threshold float64) []analysis.StrongCorrelation {
	matrix := a.CorrelationMatrix()
	if matrix.Empty() {
		return nil
	}

	var pairs []analysis.StrongCorrelation
	for j := range matrix.Columns {
		for i := 0; i < j; i++ {
			r := matrix.Values[i][j]
			if math.IsNaN(r) || math.Abs(r) < threshold {
				continue
			}
			strength := "Strong Positive"
			if r < 0 {
				strength = "Strong Negative"
			}
			pairs = append(pairs, analysis.StrongCorrelation{
				VariableA:   matrix.Columns[i],
				VariableB:   matrix.Columns[j],
				Correlation: round3(r),
				Strength:    strength,
			})
		}
	}

	sort.SliceStable(pairs, func(i, j int) bool {
		return math.Abs(pairs[i].Correlation) > math.Abs(pairs[j].Correlation)
	})

	return pairs
}

// pairwiseCorrelation computes Pearson r over the rows where both columns
// are non-null
func pairwiseCorrelation(a, b table.Column) float64 {
	n := a.Len()
	x := make([]float64, 0, n)
	y := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		va, okA := a.Float(i)
		vb, okB := b.Float(i)
		if okA && okB {
			x = append(x, va)
			y = append(y, vb)
		}
	}
	if len(x) < 2 {
		return math.NaN()
	}
	return stat.Correlation(x, y, nil)
}

func selfCorrelation(col table.Column) float64 {
	values := col.NonNullFloats()
	if len(values) == 0 || !hasVariance(values) {
		return math.NaN()
	}
	return 1.0
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
