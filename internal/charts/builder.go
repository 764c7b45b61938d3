package charts

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"

	"tablekit/domain/analysis"
	"tablekit/domain/table"
	"tablekit/internal/errors"
)

// Builder turns computed aggregates and raw columns into chart specs
type Builder struct {
	table *table.Table
}

// NewBuilder creates a chart builder for a table
func NewBuilder(t *table.Table) (*Builder, error) {
	if t == nil {
		return nil, errors.InvalidInput("table must not be nil")
	}
	return &Builder{table: t}, nil
}

// Distribution builds the multi-panel distribution payload for one numeric
// column: histogram, box stats, and a summary table.
func (b *Builder) Distribution(column string) (DistributionSpec, error) {
	col, ok := b.table.Column(column)
	if !ok || col.Type() != table.Numeric {
		return DistributionSpec{}, errors.InvalidInput("numeric column required: " + column)
	}

	values := col.NonNullFloats()
	spec := DistributionSpec{
		Column: column,
		Title:  fmt.Sprintf("Distribution Analysis: %s", column),
		Values: values,
	}
	if len(values) == 0 {
		return spec, nil
	}

	spec.Histogram = histogram(column, values)
	spec.Box = boxStats(values)
	spec.Summary = summaryPoints(values)

	return spec, nil
}

// Categorical builds bar and pie views over one categorical column's value
// counts
func (b *Builder) Categorical(dist analysis.CategoricalDistribution) CategoricalSpec {
	points := make([]Point, 0, len(dist.ValueCounts))
	for _, vc := range dist.ValueCounts {
		points = append(points, Point{Label: vc.Value, Value: float64(vc.Count)})
	}

	series := []Series{{Name: "Count", Data: points}}
	return CategoricalSpec{
		Column: dist.Column,
		Title:  fmt.Sprintf("Categorical Analysis: %s", dist.Column),
		Bar: Spec{
			ChartType: "bar",
			Title:     fmt.Sprintf("%s - Bar Chart", dist.Column),
			XAxis:     dist.Column,
			YAxis:     "Count",
			ShowGrid:  true,
			Series:    series,
			Colors:    assignColors(1),
		},
		Pie: Spec{
			ChartType:  "pie",
			Title:      fmt.Sprintf("%s - Pie Chart", dist.Column),
			ShowLegend: true,
			Series:     series,
			Colors:     assignColors(len(points)),
		},
	}
}

// TimeSeries builds a date-ordered line chart of one numeric column over one
// datetime column, with a linear trend series when enough points exist.
func (b *Builder) TimeSeries(dateColumn, valueColumn string) (Spec, error) {
	dateCol, okDate := b.table.Column(dateColumn)
	valueCol, okValue := b.table.Column(valueColumn)
	if !okDate || dateCol.Type() != table.Datetime {
		return Spec{}, errors.InvalidInput("datetime column required: " + dateColumn)
	}
	if !okValue || valueCol.Type() != table.Numeric {
		return Spec{}, errors.InvalidInput("numeric column required: " + valueColumn)
	}

	type sample struct {
		at    time.Time
		value float64
	}
	samples := make([]sample, 0, b.table.RowCount())
	for i := 0; i < b.table.RowCount(); i++ {
		at, okT := dateCol.Time(i)
		v, okV := valueCol.Float(i)
		if okT && okV {
			samples = append(samples, sample{at: at, value: v})
		}
	}
	sort.SliceStable(samples, func(i, j int) bool { return samples[i].at.Before(samples[j].at) })

	points := make([]Point, len(samples))
	xs := make([]float64, len(samples))
	ys := make([]float64, len(samples))
	for i, s := range samples {
		points[i] = Point{Label: s.at.Format("2006-01-02"), Value: s.value}
		xs[i] = float64(s.at.Unix())
		ys[i] = s.value
	}

	spec := Spec{
		ChartType:  "line",
		Title:      fmt.Sprintf("%s over %s", valueColumn, dateColumn),
		XAxis:      dateColumn,
		YAxis:      valueColumn,
		ShowLegend: true,
		ShowGrid:   true,
		Series:     []Series{{Name: fmt.Sprintf("%s over time", valueColumn), Data: points}},
	}

	// Trend line only when a fit is meaningful
	if len(samples) > 2 {
		alpha, beta := stat.LinearRegression(xs, ys, nil, false)
		trend := make([]Point, len(samples))
		for i := range samples {
			trend[i] = Point{Label: points[i].Label, Value: alpha + beta*xs[i]}
		}
		spec.Series = append(spec.Series, Series{Name: "Trend", Data: trend, Color: "#EF4444"})
	}

	spec.Colors = assignColors(len(spec.Series))
	return spec, nil
}

// CorrelationHeatmap converts a correlation matrix into a labeled grid.
// Undefined entries (NaN) are rendered as zero so the payload stays within
// plain JSON numerics.
func (b *Builder) CorrelationHeatmap(matrix analysis.CorrelationMatrix) HeatmapSpec {
	values := make([][]float64, len(matrix.Values))
	for i, row := range matrix.Values {
		values[i] = make([]float64, len(row))
		for j, v := range row {
			if math.IsNaN(v) {
				values[i][j] = 0
			} else {
				values[i][j] = math.Round(v*1000) / 1000
			}
		}
	}

	return HeatmapSpec{
		Title:   "Correlation Matrix Heatmap",
		XLabels: matrix.Columns,
		YLabels: matrix.Columns,
		Values:  values,
	}
}

// Outliers builds an index scatter of one numeric column with its IQR
// fences, flagging points outside them
func (b *Builder) Outliers(column string) (OutlierSpec, error) {
	col, ok := b.table.Column(column)
	if !ok || col.Type() != table.Numeric {
		return OutlierSpec{}, errors.InvalidInput("numeric column required: " + column)
	}

	values := col.NonNullFloats()
	spec := OutlierSpec{
		Column: column,
		Title:  fmt.Sprintf("Outlier Detection: %s", column),
	}
	if len(values) == 0 {
		return spec, nil
	}

	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	q1 := interpolatedQuantile(sorted, 0.25)
	q3 := interpolatedQuantile(sorted, 0.75)
	iqr := q3 - q1
	spec.LowerBound = q1 - 1.5*iqr
	spec.UpperBound = q3 + 1.5*iqr

	spec.Points = make([]OutlierPoint, len(values))
	for i, v := range values {
		spec.Points[i] = OutlierPoint{
			Index:     i,
			Value:     v,
			IsOutlier: v < spec.LowerBound || v > spec.UpperBound,
		}
	}

	return spec, nil
}

// Comparison builds min-max normalized line series for several numeric
// columns on a shared 0-1 scale. Columns without spread are skipped.
func (b *Builder) Comparison(columns []string) Spec {
	spec := Spec{
		ChartType:  "line",
		Title:      "Normalized Comparison of Multiple Columns",
		XAxis:      "Index",
		YAxis:      "Normalized Value (0-1)",
		ShowLegend: true,
		ShowGrid:   true,
	}

	for _, name := range columns {
		col, ok := b.table.Column(name)
		if !ok || col.Type() != table.Numeric {
			continue
		}
		values := col.NonNullFloats()
		if len(values) == 0 {
			continue
		}
		min, _ := stats.Min(values)
		max, _ := stats.Max(values)
		if max == min {
			continue
		}

		points := make([]Point, len(values))
		for i, v := range values {
			points[i] = Point{Label: fmt.Sprintf("%d", i), Value: (v - min) / (max - min)}
		}
		spec.Series = append(spec.Series, Series{Name: name, Data: points})
	}

	spec.Colors = assignColors(len(spec.Series))
	return spec
}

func histogram(column string, values []float64) Spec {
	min, _ := stats.Min(values)
	max, _ := stats.Max(values)

	binCount := int(math.Ceil(math.Log2(float64(len(values))))) + 1
	if binCount < 1 {
		binCount = 1
	}
	if max == min {
		binCount = 1
	}

	counts := make([]int, binCount)
	width := (max - min) / float64(binCount)
	for _, v := range values {
		idx := binCount - 1
		if width > 0 {
			idx = int((v - min) / width)
			if idx >= binCount {
				idx = binCount - 1
			}
		}
		counts[idx]++
	}

	points := make([]Point, binCount)
	for i, count := range counts {
		lo := min + float64(i)*width
		hi := lo + width
		points[i] = Point{Label: fmt.Sprintf("%.2f–%.2f", lo, hi), Value: float64(count)}
	}

	return Spec{
		ChartType: "histogram",
		Title:     fmt.Sprintf("%s - Histogram", column),
		XAxis:     column,
		YAxis:     "Count",
		ShowGrid:  true,
		Series:    []Series{{Name: "Distribution", Data: points}},
		Colors:    assignColors(1),
	}
}

func boxStats(values []float64) BoxStats {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	return BoxStats{
		Min:    sorted[0],
		Q1:     interpolatedQuantile(sorted, 0.25),
		Median: interpolatedQuantile(sorted, 0.50),
		Q3:     interpolatedQuantile(sorted, 0.75),
		Max:    sorted[len(sorted)-1],
	}
}

func summaryPoints(values []float64) []Point {
	mean, _ := stats.Mean(values)
	min, _ := stats.Min(values)
	max, _ := stats.Max(values)
	std := 0.0
	if len(values) > 1 {
		std, _ = stats.StandardDeviationSample(values)
	}

	return []Point{
		{Label: "count", Value: float64(len(values))},
		{Label: "mean", Value: mean},
		{Label: "std", Value: std},
		{Label: "min", Value: min},
		{Label: "max", Value: max},
	}
}

// interpolatedQuantile computes a linear-interpolation quantile over an
// already-sorted slice
func interpolatedQuantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if len(sorted) == 1 {
		return sorted[0]
	}
	pos := q * float64(len(sorted)-1)
	lower := int(math.Floor(pos))
	upper := int(math.Ceil(pos))
	if lower == upper {
		return sorted[lower]
	}
	frac := pos - float64(lower)
	return sorted[lower] + frac*(sorted[upper]-sorted[lower])
}
