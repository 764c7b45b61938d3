package analyzer

import (
	"math"
	"testing"

	"tablekit/domain/table"
)

func TestCorrelationMatrix_SymmetryAndDiagonal(t *testing.T) {
	tbl := mustTable(t,
		table.NumericColumn("x", []float64{1, 2, 3, 4, 5}, nil),
		table.NumericColumn("y", []float64{2, 4, 6, 8, 10}, nil),
		table.NumericColumn("z", []float64{5, 3, 8, 1, 9}, nil),
	)
	a := mustAnalyzer(t, tbl)

	m := a.CorrelationMatrix()
	if m.Empty() {
		t.Fatal("matrix should not be empty")
	}
	if len(m.Columns) != 3 {
		t.Fatalf("expected 3 columns, got %d", len(m.Columns))
	}

	for i := range m.Columns {
		if m.Values[i][i] != 1.0 {
			t.Errorf("diagonal [%d][%d] = %f, want 1.0", i, i, m.Values[i][i])
		}
		for j := range m.Columns {
			if m.Values[i][j] != m.Values[j][i] {
				t.Errorf("matrix not symmetric at [%d][%d]", i, j)
			}
		}
	}

	// x and y are perfectly linear
	if math.Abs(m.Values[0][1]-1.0) > 1e-9 {
		t.Errorf("corr(x, y) = %f, want 1.0", m.Values[0][1])
	}
}

func TestCorrelationMatrix_FewerThanTwoNumeric(t *testing.T) {
	tbl := mustTable(t,
		table.NumericColumn("only", []float64{1, 2, 3}, nil),
		table.CategoricalColumn("c", []string{"a", "b", "c"}, nil),
	)
	a := mustAnalyzer(t, tbl)

	if !a.CorrelationMatrix().Empty() {
		t.Error("expected empty matrix with a single numeric column")
	}
	if got := a.StrongCorrelations(0.5); got != nil {
		t.Errorf("expected nil strong correlations, got %v", got)
	}
}

func TestCorrelationMatrix_ZeroVarianceIsNaN(t *testing.T) {
	tbl := mustTable(t,
		table.NumericColumn("constant", []float64{7, 7, 7}, nil),
		table.NumericColumn("v", []float64{1, 2, 3}, nil),
	)
	a := mustAnalyzer(t, tbl)

	m := a.CorrelationMatrix()
	if !math.IsNaN(m.Values[0][0]) {
		t.Errorf("diagonal of constant column = %f, want NaN", m.Values[0][0])
	}
	if !math.IsNaN(m.Values[0][1]) {
		t.Errorf("corr(constant, v) = %f, want NaN", m.Values[0][1])
	}
}

func TestCorrelationMatrix_PairwiseComplete(t *testing.T) {
	// Row 2 is missing in y; the pair must correlate over the remaining rows
	tbl := mustTable(t,
		table.NumericColumn("x", []float64{1, 2, 3, 4}, nil),
		table.NumericColumn("y", []float64{2, 4, 0, 8}, []bool{false, false, true, false}),
	)
	a := mustAnalyzer(t, tbl)

	m := a.CorrelationMatrix()
	if math.Abs(m.Values[0][1]-1.0) > 1e-9 {
		t.Errorf("pairwise-complete corr = %f, want 1.0", m.Values[0][1])
	}
}

func TestStrongCorrelations(t *testing.T) {
	tbl := mustTable(t,
		table.NumericColumn("a", []float64{1, 2, 3, 4, 5}, nil),
		table.NumericColumn("b", []float64{2, 4, 6, 8, 10}, nil),
		table.NumericColumn("c", []float64{10, 8, 6, 4, 2}, nil),
		table.NumericColumn("noise", []float64{3, -1, 4, -7, 2}, nil),
	)
	a := mustAnalyzer(t, tbl)

	pairs := a.StrongCorrelations(0.9)

	// a-b, a-c and b-c are all perfectly correlated
	if len(pairs) != 3 {
		t.Fatalf("expected 3 strong pairs, got %d: %+v", len(pairs), pairs)
	}

	for _, p := range pairs {
		if math.Abs(p.Correlation) != 1.0 {
			t.Errorf("pair %s-%s correlation = %f, want ±1", p.VariableA, p.VariableB, p.Correlation)
		}
		switch {
		case p.Correlation > 0 && p.Strength != "Strong Positive":
			t.Errorf("pair %s-%s strength = %q, want Strong Positive", p.VariableA, p.VariableB, p.Strength)
		case p.Correlation < 0 && p.Strength != "Strong Negative":
			t.Errorf("pair %s-%s strength = %q, want Strong Negative", p.VariableA, p.VariableB, p.Strength)
		}
	}

	// Each unordered pair appears exactly once
	seen := make(map[string]bool)
	for _, p := range pairs {
		key := p.VariableA + "|" + p.VariableB
		if seen[key] {
			t.Errorf("pair %s reported twice", key)
		}
		seen[key] = true
		if p.VariableA == p.VariableB {
			t.Errorf("self-pair reported: %s", p.VariableA)
		}
	}
}

func TestStrongCorrelations_SortedByMagnitude(t *testing.T) {
	tbl := mustTable(t,
		table.NumericColumn("a", []float64{1, 2, 3, 4, 5, 6}, nil),
		table.NumericColumn("b", []float64{2, 4, 6, 8, 10, 12}, nil),
		table.NumericColumn("c", []float64{1.1, 2.3, 2.8, 4.2, 4.9, 6.4}, nil),
	)
	a := mustAnalyzer(t, tbl)

	pairs := a.StrongCorrelations(0.7)
	for i := 1; i < len(pairs); i++ {
		if math.Abs(pairs[i].Correlation) > math.Abs(pairs[i-1].Correlation) {
			t.Errorf("pairs not sorted by |r| descending: %+v", pairs)
		}
	}
}

func TestStrongCorrelations_ThresholdExcludes(t *testing.T) {
	tbl := mustTable(t,
		table.NumericColumn("a", []float64{1, 2, 3, 4, 5}, nil),
		table.NumericColumn("b", []float64{3, -1, 4, -7, 2}, nil),
	)
	a := mustAnalyzer(t, tbl)

	if pairs := a.StrongCorrelations(0.99); len(pairs) != 0 {
		t.Errorf("weakly correlated pair should not be reported, got %+v", pairs)
	}
}
