package report

import (
	"fmt"
	"strings"
	"time"

	"tablekit/domain/analysis"
	"tablekit/internal/analyzer"
	"tablekit/internal/kpi"

	"tablekit/domain/table"
)

// Formatter serializes analysis outputs into a flat text report. Output is
// deterministic for a fixed table and timestamp: section order, grouping and
// line formats never vary between runs.
type Formatter struct {
	analyzer *analyzer.Analyzer
	engine   *kpi.Engine
	table    *table.Table
}

// New creates a report formatter over an analyzer and KPI engine bound to
// the same table
func New(t *table.Table, a *analyzer.Analyzer, e *kpi.Engine) *Formatter {
	return &Formatter{table: t, analyzer: a, engine: e}
}

// Build renders the full analysis report. The caller supplies the generation
// timestamp so repeated runs over an unchanged table produce byte-identical
// output.
func (f *Formatter) Build(generatedAt time.Time) string {
	var b strings.Builder

	writeLine(&b, strings.Repeat("=", 60))
	writeLine(&b, "TABULAR DATA ANALYSIS REPORT")
	writeLine(&b, strings.Repeat("=", 60))
	writeLine(&b, fmt.Sprintf("Generated on: %s", generatedAt.Format("2006-01-02 15:04:05")))
	writeLine(&b, "")

	f.writeBasicInfo(&b)
	f.writeQualityMetrics(&b)
	f.writeMissingValues(&b)
	f.writeKPIRecommendations(&b)

	return b.String()
}

func (f *Formatter) writeBasicInfo(b *strings.Builder) {
	writeLine(b, "1. BASIC INFORMATION")
	writeLine(b, strings.Repeat("-", 25))

	info := f.analyzer.BasicInfo()
	writeLine(b, fmt.Sprintf("Total Rows: %d", info.TotalRows))
	writeLine(b, fmt.Sprintf("Total Columns: %d", info.TotalColumns))
	writeLine(b, fmt.Sprintf("Memory Usage (MB): %.2f", info.MemoryUsageMB))
	writeLine(b, fmt.Sprintf("Numerical Columns: %d", info.NumericColumns))
	writeLine(b, fmt.Sprintf("Categorical Columns: %d", info.CategoricalColumns))
	writeLine(b, fmt.Sprintf("DateTime Columns: %d", info.DatetimeColumns))
	writeLine(b, "")
}

func (f *Formatter) writeQualityMetrics(b *strings.Builder) {
	writeLine(b, "2. DATA QUALITY METRICS")
	writeLine(b, strings.Repeat("-", 30))

	metrics := f.analyzer.QualityMetrics()
	writeLine(b, fmt.Sprintf("Total Cells: %d", metrics.TotalCells))
	writeLine(b, fmt.Sprintf("Missing Cells: %d", metrics.MissingCells))
	writeLine(b, fmt.Sprintf("Missing Percentage: %.2f", metrics.MissingPercentage))
	writeLine(b, fmt.Sprintf("Duplicate Rows: %d", metrics.DuplicateRows))
	writeLine(b, fmt.Sprintf("Duplicate Percentage: %.2f", metrics.DuplicatePercentage))
	writeLine(b, fmt.Sprintf("Data Completeness: %.2f", metrics.CompletenessPercent))
	writeLine(b, "")
}

func (f *Formatter) writeMissingValues(b *strings.Builder) {
	writeLine(b, "3. MISSING VALUES ANALYSIS")
	writeLine(b, strings.Repeat("-", 35))

	missing := f.analyzer.MissingValueReport()
	if len(missing) == 0 {
		writeLine(b, "No missing values found.")
	} else {
		for _, entry := range missing {
			writeLine(b, fmt.Sprintf("%s: %d missing (%.2f%%)",
				entry.Column, entry.MissingCount, entry.MissingPercentage))
		}
	}
	writeLine(b, "")
}

func (f *Formatter) writeKPIRecommendations(b *strings.Builder) {
	writeLine(b, "4. KPI RECOMMENDATIONS")
	writeLine(b, strings.Repeat("-", 25))

	for _, group := range f.engine.Generate() {
		writeLine(b, "")
		writeLine(b, strings.ToUpper(string(group.Category))+":")
		for _, definition := range group.KPIs {
			writeLine(b, fmt.Sprintf("  • %s: %s", definition.Name, definition.Description))
		}
	}
}

// WriteKPIValues appends evaluated KPI values; unavailable computations are
// reported as such rather than dropped silently.
func (f *Formatter) WriteKPIValues(b *strings.Builder, definitions []analysis.KPIDefinition) {
	for _, definition := range definitions {
		value := kpi.Evaluate(f.table, definition.Computation)
		if value.Available {
			writeLine(b, fmt.Sprintf("  %s: %.2f", definition.Name, value.Value))
		} else {
			writeLine(b, fmt.Sprintf("  %s: calculation unavailable", definition.Name))
		}
	}
}

func writeLine(b *strings.Builder, line string) {
	b.WriteString(line)
	b.WriteString("\n")
}
