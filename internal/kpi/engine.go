package kpi

import (
	"fmt"

	"tablekit/domain/analysis"
	"tablekit/domain/table"
	"tablekit/internal/errors"
)

// Engine derives a catalog of candidate KPIs from a table's schema. The five
// categories are always attempted in their fixed order; Statistical requires
// at least one numeric column and Time-based at least one datetime column.
// Within a category KPIs follow table column order.
type Engine struct {
	table *table.Table
}

// New creates a KPI engine for a table. Nil tables are rejected as a caller
// contract violation.
func New(t *table.Table) (*Engine, error) {
	if t == nil {
		return nil, errors.InvalidInput("table must not be nil")
	}
	return &Engine{table: t}, nil
}

// Generate produces the full KPI catalog for the current table. Definitions
// carry bound computations, not precomputed values; evaluate them with
// Evaluate against the same table.
func (e *Engine) Generate() []analysis.KPIGroup {
	groups := make([]analysis.KPIGroup, 0, len(analysis.Categories))

	if len(e.table.NumericColumns()) > 0 {
		groups = append(groups, analysis.KPIGroup{
			Category: analysis.CategoryStatistical,
			KPIs:     e.statisticalKPIs(),
		})
	}

	groups = append(groups, analysis.KPIGroup{
		Category: analysis.CategoryPerformance,
		KPIs:     e.performanceKPIs(),
	})

	groups = append(groups, analysis.KPIGroup{
		Category: analysis.CategoryDataQuality,
		KPIs:     e.qualityKPIs(),
	})

	if len(e.table.DatetimeColumns()) > 0 {
		groups = append(groups, analysis.KPIGroup{
			Category: analysis.CategoryTimeBased,
			KPIs:     e.timeBasedKPIs(),
		})
	}

	groups = append(groups, analysis.KPIGroup{
		Category: analysis.CategoryBusiness,
		KPIs:     e.businessKPIs(),
	})

	return groups
}

func (e *Engine) statisticalKPIs() []analysis.KPIDefinition {
	var kpis []analysis.KPIDefinition

	for _, col := range e.table.NumericColumns() {
		name := col.Name()

		kpis = append(kpis, analysis.KPIDefinition{
			Name:          fmt.Sprintf("Average %s", name),
			Category:      analysis.CategoryStatistical,
			Description:   fmt.Sprintf("Average value of %s across all records", name),
			Formula:       fmt.Sprintf("SUM(%s) / COUNT(%s)", name, name),
			BusinessValue: "Provides central tendency measure for decision making",
			Computation:   analysis.Computation{Kind: analysis.ComputeMean, Column: name},
		})

		kpis = append(kpis, analysis.KPIDefinition{
			Name:          fmt.Sprintf("%s Variability Index", name),
			Category:      analysis.CategoryStatistical,
			Description:   fmt.Sprintf("Coefficient of variation for %s to measure relative variability", name),
			Formula:       fmt.Sprintf("STDEV(%s) / MEAN(%s) * 100", name, name),
			BusinessValue: "Helps identify consistency and predictability in data",
			Computation:   analysis.Computation{Kind: analysis.ComputeVariabilityIndex, Column: name},
		})

		if e.table.RowCount() > 1 {
			kpis = append(kpis, analysis.KPIDefinition{
				Name:          fmt.Sprintf("%s Range Ratio", name),
				Category:      analysis.CategoryStatistical,
				Description:   fmt.Sprintf("Ratio of maximum to minimum values in %s", name),
				Formula:       fmt.Sprintf("MAX(%s) / MIN(%s)", name, name),
				BusinessValue: "Indicates the spread and potential outliers in the data",
				Computation:   analysis.Computation{Kind: analysis.ComputeRangeRatio, Column: name},
			})
		}
	}

	return kpis
}

func (e *Engine) performanceKPIs() []analysis.KPIDefinition {
	kpis := []analysis.KPIDefinition{
		{
			Name:          "Data Volume Index",
			Category:      analysis.CategoryPerformance,
			Description:   "Total number of records in the dataset",
			Formula:       "COUNT(records)",
			BusinessValue: "Measures data availability and sample size for analysis",
			Computation:   analysis.Computation{Kind: analysis.ComputeRowCount},
		},
		{
			Name:          "Data Density Score",
			Category:      analysis.CategoryPerformance,
			Description:   "Percentage of non-null values across all fields",
			Formula:       "(Total Non-Null Cells / Total Cells) * 100",
			BusinessValue: "Indicates data completeness and reliability",
			Computation:   analysis.Computation{Kind: analysis.ComputeDataDensity},
		},
	}

	for _, col := range e.table.CategoricalColumns() {
		name := col.Name()
		kpis = append(kpis, analysis.KPIDefinition{
			Name:          fmt.Sprintf("%s Diversity Index", name),
			Category:      analysis.CategoryPerformance,
			Description:   fmt.Sprintf("Ratio of unique values to total values in %s", name),
			Formula:       fmt.Sprintf("UNIQUE_COUNT(%s) / COUNT(%s)", name, name),
			BusinessValue: "Measures diversity and granularity of categorical data",
			Computation:   analysis.Computation{Kind: analysis.ComputeDiversityIndex, Column: name},
		})
	}

	return kpis
}

func (e *Engine) qualityKPIs() []analysis.KPIDefinition {
	kpis := []analysis.KPIDefinition{
		{
			Name:          "Data Completeness Rate",
			Category:      analysis.CategoryDataQuality,
			Description:   "Percentage of complete records (no missing values)",
			Formula:       "Complete Records / Total Records * 100",
			BusinessValue: "Ensures data reliability for business decisions",
			Computation:   analysis.Computation{Kind: analysis.ComputeCompletenessRate},
		},
		{
			Name:          "Data Uniqueness Rate",
			Category:      analysis.CategoryDataQuality,
			Description:   "Percentage of unique records in the dataset",
			Formula:       "(Total Records - Duplicate Records) / Total Records * 100",
			BusinessValue: "Identifies data redundancy and quality issues",
			Computation:   analysis.Computation{Kind: analysis.ComputeUniquenessRate},
		},
	}

	if len(e.table.NumericColumns()) > 0 {
		kpis = append(kpis, analysis.KPIDefinition{
			Name:          "Numerical Data Consistency Score",
			Category:      analysis.CategoryDataQuality,
			Description:   "Average coefficient of variation across all numerical columns",
			Formula:       "AVERAGE(STDEV(column) / MEAN(column)) for all numerical columns",
			BusinessValue: "Measures overall data consistency and reliability",
			Computation:   analysis.Computation{Kind: analysis.ComputeConsistencyScore},
		})
	}

	return kpis
}

func (e *Engine) timeBasedKPIs() []analysis.KPIDefinition {
	var kpis []analysis.KPIDefinition

	for _, col := range e.table.DatetimeColumns() {
		name := col.Name()

		kpis = append(kpis, analysis.KPIDefinition{
			Name:          fmt.Sprintf("%s Time Span", name),
			Category:      analysis.CategoryTimeBased,
			Description:   fmt.Sprintf("Total time period covered by %s", name),
			Formula:       fmt.Sprintf("MAX(%s) - MIN(%s)", name, name),
			BusinessValue: "Indicates the temporal coverage of the dataset",
			Computation:   analysis.Computation{Kind: analysis.ComputeTimeSpanDays, Column: name},
		})

		kpis = append(kpis, analysis.KPIDefinition{
			Name:          fmt.Sprintf("%s Data Frequency", name),
			Category:      analysis.CategoryTimeBased,
			Description:   fmt.Sprintf("Average number of records per day in %s", name),
			Formula:       fmt.Sprintf("COUNT(records) / DAYS_BETWEEN(MAX(%s), MIN(%s))", name, name),
			BusinessValue: "Measures data collection frequency and consistency",
			Computation:   analysis.Computation{Kind: analysis.ComputeRecordFrequency, Column: name},
		})
	}

	// Growth KPIs pair every numeric column with every datetime column,
	// numeric column order outermost
	for _, numCol := range e.table.NumericColumns() {
		for _, dateCol := range e.table.DatetimeColumns() {
			kpis = append(kpis, analysis.KPIDefinition{
				Name:          fmt.Sprintf("%s Growth Rate", numCol.Name()),
				Category:      analysis.CategoryTimeBased,
				Description:   fmt.Sprintf("Average change in %s over time period in %s", numCol.Name(), dateCol.Name()),
				Formula:       fmt.Sprintf("(LAST_VALUE(%s) - FIRST_VALUE(%s)) / FIRST_VALUE(%s) * 100", numCol.Name(), numCol.Name(), numCol.Name()),
				BusinessValue: "Tracks performance trends and growth patterns",
				Computation: analysis.Computation{
					Kind:       analysis.ComputeGrowthRate,
					Column:     numCol.Name(),
					DateColumn: dateCol.Name(),
				},
			})
		}
	}

	return kpis
}

func (e *Engine) businessKPIs() []analysis.KPIDefinition {
	kpis := make([]analysis.KPIDefinition, 0)

	// Revenue-like numeric columns get a total and a per-record average
	for _, col := range e.table.NumericColumns() {
		name := col.Name()
		if !matchesAny(name, revenueKeywords) {
			continue
		}

		kpis = append(kpis, analysis.KPIDefinition{
			Name:          fmt.Sprintf("Total %s", name),
			Category:      analysis.CategoryBusiness,
			Description:   fmt.Sprintf("Sum of all %s values", name),
			Formula:       fmt.Sprintf("SUM(%s)", name),
			BusinessValue: "Key performance indicator for business success",
			Computation:   analysis.Computation{Kind: analysis.ComputeSum, Column: name},
		})

		kpis = append(kpis, analysis.KPIDefinition{
			Name:          fmt.Sprintf("Average %s per Record", name),
			Category:      analysis.CategoryBusiness,
			Description:   fmt.Sprintf("Average %s value per transaction/record", name),
			Formula:       fmt.Sprintf("SUM(%s) / COUNT(records)", name),
			BusinessValue: "Measures average transaction value or efficiency",
			Computation:   analysis.Computation{Kind: analysis.ComputeMean, Column: name},
		})
	}

	// Count-like numeric columns get a total
	for _, col := range e.table.NumericColumns() {
		name := col.Name()
		if !matchesAny(name, countKeywords) {
			continue
		}

		kpis = append(kpis, analysis.KPIDefinition{
			Name:          fmt.Sprintf("Total %s", name),
			Category:      analysis.CategoryBusiness,
			Description:   fmt.Sprintf("Sum of all %s values", name),
			Formula:       fmt.Sprintf("SUM(%s)", name),
			BusinessValue: "Tracks volume and operational metrics",
			Computation:   analysis.Computation{Kind: analysis.ComputeSum, Column: name},
		})
	}

	// Customer-like columns: only the first match is used
	for _, col := range e.table.Columns() {
		if !matchesAny(col.Name(), customerKeywords) {
			continue
		}
		kpis = append(kpis, analysis.KPIDefinition{
			Name:          "Customer/User Diversity",
			Category:      analysis.CategoryBusiness,
			Description:   "Number of unique customers/users in the dataset",
			Formula:       fmt.Sprintf("UNIQUE_COUNT(%s)", col.Name()),
			BusinessValue: "Measures customer base size and market reach",
			Computation:   analysis.Computation{Kind: analysis.ComputeDistinctCount, Column: col.Name()},
		})
		break
	}

	// Status-like categorical columns: only the first match is used
	for _, col := range e.table.CategoricalColumns() {
		if !matchesAny(col.Name(), statusKeywords) {
			continue
		}
		kpis = append(kpis, analysis.KPIDefinition{
			Name:          fmt.Sprintf("%s Success Rate", col.Name()),
			Category:      analysis.CategoryBusiness,
			Description:   fmt.Sprintf("Percentage of successful outcomes in %s", col.Name()),
			Formula:       fmt.Sprintf("COUNT(successful %s) / COUNT(total %s) * 100", col.Name(), col.Name()),
			BusinessValue: "Measures success rate and operational efficiency",
			Computation:   analysis.Computation{Kind: analysis.ComputeSuccessRate, Column: col.Name()},
		})
		break
	}

	return kpis
}
