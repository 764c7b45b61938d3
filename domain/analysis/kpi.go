package analysis

// KPICategory is one of the fixed KPI taxonomy buckets. Categories are always
// produced in the order of Categories below.
type KPICategory string

const (
	CategoryStatistical KPICategory = "Statistical KPIs"
	CategoryPerformance KPICategory = "Performance KPIs"
	CategoryDataQuality KPICategory = "Data Quality KPIs"
	CategoryTimeBased   KPICategory = "Time-based KPIs"
	CategoryBusiness    KPICategory = "Business KPIs"
)

// Categories lists the taxonomy in its fixed production order
var Categories = []KPICategory{
	CategoryStatistical,
	CategoryPerformance,
	CategoryDataQuality,
	CategoryTimeBased,
	CategoryBusiness,
}

// ComputationKind tags how a KPI value is derived from a table. Keeping the
// computation as a tagged variant instead of an opaque closure lets failures
// be classified and suppressed uniformly.
type ComputationKind string

const (
	ComputeMean             ComputationKind = "mean"
	ComputeVariabilityIndex ComputationKind = "variability_index"
	ComputeRangeRatio       ComputationKind = "range_ratio"
	ComputeRowCount         ComputationKind = "row_count"
	ComputeDataDensity      ComputationKind = "data_density"
	ComputeDiversityIndex   ComputationKind = "diversity_index"
	ComputeCompletenessRate ComputationKind = "completeness_rate"
	ComputeUniquenessRate   ComputationKind = "uniqueness_rate"
	ComputeConsistencyScore ComputationKind = "consistency_score"
	ComputeTimeSpanDays     ComputationKind = "time_span_days"
	ComputeRecordFrequency  ComputationKind = "record_frequency"
	ComputeGrowthRate       ComputationKind = "growth_rate"
	ComputeSum              ComputationKind = "sum"
	ComputeDistinctCount    ComputationKind = "distinct_count"
	ComputeSuccessRate      ComputationKind = "success_rate"
)

// Computation binds a KPI to the column(s) it is evaluated against. It is
// re-evaluated on demand, never precomputed.
type Computation struct {
	Kind       ComputationKind `json:"kind"`
	Column     string          `json:"column,omitempty"`
	DateColumn string          `json:"date_column,omitempty"`
}

// KPIDefinition is one generated KPI suggestion. Definitions exist only for
// the lifetime of one analysis session and are regenerated when the table
// changes.
type KPIDefinition struct {
	Name          string      `json:"name"`
	Category      KPICategory `json:"category"`
	Description   string      `json:"description"`
	Formula       string      `json:"formula"`
	BusinessValue string      `json:"business_value"`
	Computation   Computation `json:"computation"`
}

// KPIGroup is one category's worth of KPI definitions, in generation order
type KPIGroup struct {
	Category KPICategory     `json:"category"`
	KPIs     []KPIDefinition `json:"kpis"`
}

// KPIValue is the result of evaluating a bound computation. Available is
// false when the computation is undefined for the current data (zero
// denominator, all-null column, unsortable dates).
type KPIValue struct {
	Value     float64 `json:"value"`
	Available bool    `json:"available"`
}

// Unavailable is the sentinel for computations that cannot produce a value
func Unavailable() KPIValue {
	return KPIValue{Available: false}
}

// Available wraps a computed value
func AvailableValue(v float64) KPIValue {
	return KPIValue{Value: v, Available: true}
}
