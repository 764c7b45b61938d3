package analyzer

import (
	"math"
	"testing"
	"time"

	"tablekit/domain/analysis"
	"tablekit/domain/table"
)

func mustTable(t *testing.T, columns ...table.Column) *table.Table {
	t.Helper()
	tbl, err := table.New(columns...)
	if err != nil {
		t.Fatalf("failed to build table: %v", err)
	}
	return tbl
}

func mustAnalyzer(t *testing.T, tbl *table.Table) *Analyzer {
	t.Helper()
	a, err := New(tbl)
	if err != nil {
		t.Fatalf("failed to create analyzer: %v", err)
	}
	return a
}

func TestNew_NilTable(t *testing.T) {
	if _, err := New(nil); err == nil {
		t.Fatal("expected error for nil table")
	}
}

func TestBasicInfo(t *testing.T) {
	tbl := mustTable(t,
		table.NumericColumn("amount", []float64{1, 2, 3}, nil),
		table.CategoricalColumn("status", []string{"a", "b", "a"}, nil),
		table.DatetimeColumn("when", []time.Time{
			time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
			time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC),
		}, nil),
	)
	a := mustAnalyzer(t, tbl)

	info := a.BasicInfo()
	if info.TotalRows != 3 {
		t.Errorf("TotalRows = %d, want 3", info.TotalRows)
	}
	if info.TotalColumns != 3 {
		t.Errorf("TotalColumns = %d, want 3", info.TotalColumns)
	}
	if info.NumericColumns != 1 || info.CategoricalColumns != 1 || info.DatetimeColumns != 1 {
		t.Errorf("column type counts = %d/%d/%d, want 1/1/1",
			info.NumericColumns, info.CategoricalColumns, info.DatetimeColumns)
	}
	if info.MemoryUsageMB < 0 {
		t.Errorf("MemoryUsageMB should not be negative, got %f", info.MemoryUsageMB)
	}
}

func TestSummaryStatistics(t *testing.T) {
	tbl := mustTable(t,
		table.NumericColumn("v", []float64{1, 2, 3, 4, 5}, nil),
	)
	a := mustAnalyzer(t, tbl)

	summaries := a.SummaryStatistics()
	if len(summaries) != 1 {
		t.Fatalf("expected 1 summary, got %d", len(summaries))
	}

	s := summaries[0]
	if s.Count != 5 {
		t.Errorf("Count = %d, want 5", s.Count)
	}
	if s.Mean != 3 {
		t.Errorf("Mean = %f, want 3", s.Mean)
	}
	if s.Min != 1 || s.Max != 5 {
		t.Errorf("Min/Max = %f/%f, want 1/5", s.Min, s.Max)
	}
	if s.Median != 3 {
		t.Errorf("Median = %f, want 3", s.Median)
	}
	if s.Q25 != 2 || s.Q75 != 4 {
		t.Errorf("Q25/Q75 = %f/%f, want 2/4", s.Q25, s.Q75)
	}
	// Sample standard deviation of 1..5
	if math.Abs(s.Std-math.Sqrt(2.5)) > 1e-9 {
		t.Errorf("Std = %f, want %f", s.Std, math.Sqrt(2.5))
	}
}

func TestSummaryStatistics_InterpolatedQuantiles(t *testing.T) {
	tbl := mustTable(t,
		table.NumericColumn("v", []float64{1, 2, 3, 4}, nil),
	)
	a := mustAnalyzer(t, tbl)

	s := a.SummaryStatistics()[0]
	// Linear interpolation: position (n-1)*q
	if math.Abs(s.Q25-1.75) > 1e-9 {
		t.Errorf("Q25 = %f, want 1.75", s.Q25)
	}
	if math.Abs(s.Median-2.5) > 1e-9 {
		t.Errorf("Median = %f, want 2.5", s.Median)
	}
	if math.Abs(s.Q75-3.25) > 1e-9 {
		t.Errorf("Q75 = %f, want 3.25", s.Q75)
	}
}

func TestSummaryStatistics_NoNumericColumns(t *testing.T) {
	tbl := mustTable(t,
		table.CategoricalColumn("c", []string{"x", "y"}, nil),
	)
	a := mustAnalyzer(t, tbl)

	if got := a.SummaryStatistics(); len(got) != 0 {
		t.Errorf("expected empty summary for non-numeric table, got %d entries", len(got))
	}
}

func TestQualityMetrics(t *testing.T) {
	tbl := mustTable(t,
		table.NumericColumn("a", []float64{1, 2, 0, 1}, []bool{false, false, true, false}),
		table.CategoricalColumn("b", []string{"x", "y", "x", "x"}, nil),
	)
	a := mustAnalyzer(t, tbl)

	m := a.QualityMetrics()
	if m.TotalCells != 8 {
		t.Errorf("TotalCells = %d, want 8", m.TotalCells)
	}
	if m.MissingCells != 1 {
		t.Errorf("MissingCells = %d, want 1", m.MissingCells)
	}
	if m.MissingPercentage != 12.5 {
		t.Errorf("MissingPercentage = %f, want 12.5", m.MissingPercentage)
	}
	if m.CompletenessPercent != 87.5 {
		t.Errorf("CompletenessPercent = %f, want 87.5", m.CompletenessPercent)
	}
	// Missing and completeness percentages always sum to 100
	if m.MissingPercentage+m.CompletenessPercent != 100 {
		t.Errorf("missing + completeness = %f, want 100", m.MissingPercentage+m.CompletenessPercent)
	}
}

func TestQualityMetrics_ZeroCellTable(t *testing.T) {
	tbl, err := table.New()
	if err != nil {
		t.Fatalf("building empty table: %v", err)
	}
	a := mustAnalyzer(t, tbl)

	metrics := a.QualityMetrics()
	if metrics.TotalCells != 0 || metrics.MissingCells != 0 {
		t.Errorf("cells = %d/%d, want 0/0", metrics.TotalCells, metrics.MissingCells)
	}
	if metrics.MissingPercentage != 0 {
		t.Errorf("missing percentage = %f, want 0", metrics.MissingPercentage)
	}
	if metrics.CompletenessPercent != 100 {
		t.Errorf("completeness = %f, want 100", metrics.CompletenessPercent)
	}
	if metrics.MissingPercentage+metrics.CompletenessPercent != 100 {
		t.Error("missing and completeness percentages must sum to 100")
	}
	if metrics.DuplicateRows != 0 || metrics.DuplicatePercentage != 0 {
		t.Errorf("duplicates = %d (%f%%), want none", metrics.DuplicateRows, metrics.DuplicatePercentage)
	}

	info := a.BasicInfo()
	if info.TotalRows != 0 || info.TotalColumns != 0 {
		t.Errorf("shape = %dx%d, want 0x0", info.TotalRows, info.TotalColumns)
	}
	if info.NumericColumns != 0 || info.CategoricalColumns != 0 || info.DatetimeColumns != 0 {
		t.Errorf("typed column counts = %+v, want zeros", info)
	}

	if got := a.DetectOutliers(analysis.OutlierIQR); len(got) != 0 {
		t.Errorf("outliers = %v, want empty map", got)
	}
	if got := a.DetectOutliers(analysis.OutlierZScore); len(got) != 0 {
		t.Errorf("zscore outliers = %v, want empty map", got)
	}
	if !a.CorrelationMatrix().Empty() {
		t.Error("correlation matrix should be empty with no numeric columns")
	}
	if got := a.MissingValueReport(); len(got) != 0 {
		t.Errorf("missing report = %v, want empty", got)
	}
}

func TestQualityMetrics_DuplicateRows(t *testing.T) {
	tbl := mustTable(t,
		table.NumericColumn("a", []float64{1, 1, 2, 1}, nil),
		table.CategoricalColumn("b", []string{"x", "x", "y", "x"}, nil),
	)
	a := mustAnalyzer(t, tbl)

	m := a.QualityMetrics()
	// Rows 1 and 3 repeat row 0
	if m.DuplicateRows != 2 {
		t.Errorf("DuplicateRows = %d, want 2", m.DuplicateRows)
	}
	if m.DuplicatePercentage != 50 {
		t.Errorf("DuplicatePercentage = %f, want 50", m.DuplicatePercentage)
	}
}

func TestQualityMetrics_NullsDistinctFromValues(t *testing.T) {
	// A null cell must not collide with a real empty string when
	// comparing rows for duplicates
	tbl := mustTable(t,
		table.CategoricalColumn("a", []string{"", ""}, []bool{true, false}),
	)
	a := mustAnalyzer(t, tbl)

	if got := a.QualityMetrics().DuplicateRows; got != 0 {
		t.Errorf("DuplicateRows = %d, want 0 (null and empty string differ)", got)
	}
}

func TestMissingValueReport_SortedDescending(t *testing.T) {
	tbl := mustTable(t,
		table.NumericColumn("few", []float64{1, 2, 3, 4}, []bool{true, false, false, false}),
		table.NumericColumn("many", []float64{1, 2, 3, 4}, []bool{true, true, true, false}),
		table.NumericColumn("none", []float64{1, 2, 3, 4}, nil),
	)
	a := mustAnalyzer(t, tbl)

	report := a.MissingValueReport()
	if len(report) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(report))
	}
	if report[0].Column != "many" || report[1].Column != "few" {
		t.Errorf("order = [%s, %s], want [many, few]", report[0].Column, report[1].Column)
	}
	if report[0].MissingCount != 3 {
		t.Errorf("many missing count = %d, want 3", report[0].MissingCount)
	}
	if report[0].MissingPercentage != 75 {
		t.Errorf("many missing pct = %f, want 75", report[0].MissingPercentage)
	}

	// Idempotent: a second call observes the same data
	again := a.MissingValueReport()
	if len(again) != len(report) || again[0].Column != report[0].Column {
		t.Error("MissingValueReport is not idempotent")
	}
}

func TestMissingValueReport_CleanTable(t *testing.T) {
	tbl := mustTable(t, table.NumericColumn("a", []float64{1, 2}, nil))
	a := mustAnalyzer(t, tbl)

	if got := a.MissingValueReport(); len(got) != 0 {
		t.Errorf("expected empty report, got %d entries", len(got))
	}
}

func TestCategoricalDistribution(t *testing.T) {
	tbl := mustTable(t,
		table.CategoricalColumn("status", []string{"done", "open", "done", "done", "open", ""},
			[]bool{false, false, false, false, false, true}),
	)
	a := mustAnalyzer(t, tbl)

	dist, err := a.CategoricalDistribution("status")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dist.UniqueCount != 2 {
		t.Errorf("UniqueCount = %d, want 2", dist.UniqueCount)
	}
	if dist.MostFrequent != "done" {
		t.Errorf("MostFrequent = %q, want done", dist.MostFrequent)
	}
	if len(dist.ValueCounts) != 2 {
		t.Fatalf("expected 2 value counts, got %d", len(dist.ValueCounts))
	}
	if dist.ValueCounts[0].Value != "done" || dist.ValueCounts[0].Count != 3 {
		t.Errorf("top value = %q/%d, want done/3", dist.ValueCounts[0].Value, dist.ValueCounts[0].Count)
	}
	// Percentages use the full row count, including nulls
	if dist.ValueCounts[0].Percentage != 50 {
		t.Errorf("top percentage = %f, want 50", dist.ValueCounts[0].Percentage)
	}
}

func TestCategoricalDistribution_UnknownColumn(t *testing.T) {
	tbl := mustTable(t, table.CategoricalColumn("a", []string{"x"}, nil))
	a := mustAnalyzer(t, tbl)

	if _, err := a.CategoricalDistribution("nope"); err == nil {
		t.Fatal("expected error for unknown column")
	}
}

func TestCategoricalDistribution_TieKeepsFirstEncounter(t *testing.T) {
	tbl := mustTable(t,
		table.CategoricalColumn("c", []string{"b", "a", "b", "a"}, nil),
	)
	a := mustAnalyzer(t, tbl)

	dist, err := a.CategoricalDistribution("c")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dist.ValueCounts[0].Value != "b" {
		t.Errorf("tie winner = %q, want b (first encountered)", dist.ValueCounts[0].Value)
	}
}

func TestDetectPatterns(t *testing.T) {
	tbl := mustTable(t,
		table.NumericColumn("user_id", []float64{1, 2, 3, 4}, nil),
		table.NumericColumn("rating", []float64{1, 2, 2, 3}, nil),
		table.NumericColumn("noise", []float64{0.17, 9.42, 3.33, 7.81}, nil),
		table.DatetimeColumn("created", []time.Time{
			time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
			time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC),
			time.Date(2024, 1, 4, 0, 0, 0, 0, time.UTC),
		}, nil),
	)
	a := mustAnalyzer(t, tbl)

	hints := a.DetectPatterns()

	if len(hints.TimeSeriesColumns) != 1 || hints.TimeSeriesColumns[0] != "created" {
		t.Errorf("TimeSeriesColumns = %v, want [created]", hints.TimeSeriesColumns)
	}

	foundUserID := false
	for _, name := range hints.IDColumns {
		if name == "user_id" {
			foundUserID = true
		}
	}
	if !foundUserID {
		t.Errorf("IDColumns = %v, want user_id present", hints.IDColumns)
	}

	// rating has 3 distinct values out of 4 rows: potential categorical
	foundRating := false
	for _, name := range hints.PotentialCategorical {
		if name == "rating" {
			foundRating = true
		}
	}
	if !foundRating {
		t.Errorf("PotentialCategorical = %v, want rating present", hints.PotentialCategorical)
	}
}

func TestColumnInfo_PreservesTableOrder(t *testing.T) {
	tbl := mustTable(t,
		table.CategoricalColumn("z", []string{"a"}, nil),
		table.NumericColumn("a", []float64{1}, nil),
	)
	a := mustAnalyzer(t, tbl)

	profiles := a.ColumnInfo()
	if len(profiles) != 2 || profiles[0].Name != "z" || profiles[1].Name != "a" {
		t.Errorf("profile order broken: %+v", profiles)
	}
}
