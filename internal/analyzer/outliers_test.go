package analyzer

import (
	"testing"

	"tablekit/domain/analysis"
	"tablekit/domain/table"
)

func TestDetectOutliers_IQR(t *testing.T) {
	tbl := mustTable(t,
		table.NumericColumn("v", []float64{1, 2, 3, 4, 5, 100}, nil),
	)
	a := mustAnalyzer(t, tbl)

	outliers := a.DetectOutliers(analysis.OutlierIQR)
	flagged, ok := outliers["v"]
	if !ok {
		t.Fatal("expected outliers for column v")
	}
	if len(flagged) != 1 || flagged[0] != 100 {
		t.Errorf("flagged = %v, want [100]", flagged)
	}
}

func TestDetectOutliers_ZScore(t *testing.T) {
	// 29 tight values and one extreme: |z| > 3 only for the extreme
	values := make([]float64, 30)
	for i := range values {
		values[i] = 10
	}
	values[0] = 9
	values[1] = 11
	values[29] = 1000

	tbl := mustTable(t, table.NumericColumn("v", values, nil))
	a := mustAnalyzer(t, tbl)

	outliers := a.DetectOutliers(analysis.OutlierZScore)
	flagged, ok := outliers["v"]
	if !ok {
		t.Fatal("expected outliers for column v")
	}
	if len(flagged) != 1 || flagged[0] != 1000 {
		t.Errorf("flagged = %v, want [1000]", flagged)
	}
}

func TestDetectOutliers_CleanColumnsOmitted(t *testing.T) {
	tbl := mustTable(t,
		table.NumericColumn("clean", []float64{1, 2, 3, 4, 5}, nil),
		table.NumericColumn("dirty", []float64{1, 2, 3, 4, 5, 0, 0, 0, 0, 100},
			[]bool{false, false, false, false, false, true, true, true, true, false}),
	)
	a := mustAnalyzer(t, tbl)

	outliers := a.DetectOutliers(analysis.OutlierIQR)
	if _, ok := outliers["clean"]; ok {
		t.Error("column with zero outliers must be omitted from the result")
	}
	if _, ok := outliers["dirty"]; !ok {
		t.Error("expected dirty column in result")
	}
}

func TestDetectOutliers_NoVarianceSkipped(t *testing.T) {
	tbl := mustTable(t,
		table.NumericColumn("constant", []float64{5, 5, 5, 5}, nil),
	)
	a := mustAnalyzer(t, tbl)

	for _, method := range []analysis.OutlierMethod{analysis.OutlierIQR, analysis.OutlierZScore} {
		if got := a.DetectOutliers(method); len(got) != 0 {
			t.Errorf("method %s: constant column should be skipped, got %v", method, got)
		}
	}
}

func TestDetectOutliers_AllNullSkipped(t *testing.T) {
	tbl := mustTable(t,
		table.NumericColumn("empty", []float64{0, 0}, []bool{true, true}),
	)
	a := mustAnalyzer(t, tbl)

	if got := a.DetectOutliers(analysis.OutlierIQR); len(got) != 0 {
		t.Errorf("all-null column should be skipped, got %v", got)
	}
}

func TestDetectOutliers_NullsExcludedFromStatistics(t *testing.T) {
	// The null fence computation must ignore missing cells entirely
	tbl := mustTable(t,
		table.NumericColumn("v", []float64{1, 2, 3, 4, 5, 100, 0},
			[]bool{false, false, false, false, false, false, true}),
	)
	a := mustAnalyzer(t, tbl)

	flagged := a.DetectOutliers(analysis.OutlierIQR)["v"]
	if len(flagged) != 1 || flagged[0] != 100 {
		t.Errorf("flagged = %v, want [100]", flagged)
	}
}

func TestIQRBounds(t *testing.T) {
	tbl := mustTable(t,
		table.NumericColumn("v", []float64{1, 2, 3, 4, 5, 100}, nil),
	)
	a := mustAnalyzer(t, tbl)

	lower, upper, ok := a.IQRBounds("v")
	if !ok {
		t.Fatal("expected bounds for column v")
	}
	if lower >= upper {
		t.Errorf("lower %f should be below upper %f", lower, upper)
	}
	// 100 sits outside the fences, 5 inside
	if upper >= 100 {
		t.Errorf("upper fence %f should exclude 100", upper)
	}
	if upper <= 5 {
		t.Errorf("upper fence %f should include 5", upper)
	}

	if _, _, ok := a.IQRBounds("missing"); ok {
		t.Error("expected ok=false for unknown column")
	}
}
