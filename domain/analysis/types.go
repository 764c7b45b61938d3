package analysis

// BasicInfo summarizes the shape and composition of a dataset
type BasicInfo struct {
	TotalRows          int     `json:"total_rows"`
	TotalColumns       int     `json:"total_columns"`
	MemoryUsageMB      float64 `json:"memory_usage_mb"`
	NumericColumns     int     `json:"numeric_columns"`
	CategoricalColumns int     `json:"categorical_columns"`
	DatetimeColumns    int     `json:"datetime_columns"`
}

// ColumnProfile describes a single column, recomputed on demand
type ColumnProfile struct {
	Name         string `json:"name"`
	DataType     string `json:"data_type"`
	NonNullCount int    `json:"non_null_count"`
	NullCount    int    `json:"null_count"`
	UniqueValues int    `json:"unique_values"`
}

// ColumnSummary carries standard descriptive statistics for a numeric column
type ColumnSummary struct {
	Name   string  `json:"name"`
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Std    float64 `json:"std"`
	Min    float64 `json:"min"`
	Q25    float64 `json:"q25"`
	Median float64 `json:"median"`
	Q75    float64 `json:"q75"`
	Max    float64 `json:"max"`
}

// QualityMetrics aggregates dataset-level quality measures. Percentages are
// zero when the table has no cells (the not-applicable sentinel).
type QualityMetrics struct {
	TotalCells          int     `json:"total_cells"`
	MissingCells        int     `json:"missing_cells"`
	MissingPercentage   float64 `json:"missing_percentage"`
	DuplicateRows       int     `json:"duplicate_rows"`
	DuplicatePercentage float64 `json:"duplicate_percentage"`
	CompletenessPercent float64 `json:"completeness_percent"`
}

// MissingColumn is one entry of the missing-value report
type MissingColumn struct {
	Column            string  `json:"column"`
	MissingCount      int     `json:"missing_count"`
	MissingPercentage float64 `json:"missing_percentage"`
}

// OutlierMethod selects the outlier detection algorithm
type OutlierMethod string

const (
	OutlierIQR    OutlierMethod = "iqr"
	OutlierZScore OutlierMethod = "zscore"
)

// OutlierSet maps numeric column names to their flagged values. Columns with
// zero outliers are omitted from the map entirely.
type OutlierSet map[string][]float64

// CorrelationMatrix is a symmetric Pearson correlation matrix over the
// numeric columns, with NaN marking undefined entries (zero variance).
type CorrelationMatrix struct {
	Columns []string    `json:"columns"`
	Values  [][]float64 `json:"values"`
}

// Empty reports whether the matrix is undefined (<2 numeric columns)
func (m CorrelationMatrix) Empty() bool {
	return len(m.Columns) < 2
}

// StrongCorrelation is one unordered pair above the correlation threshold
type StrongCorrelation struct {
	VariableA   string  `json:"variable_a"`
	VariableB   string  `json:"variable_b"`
	Correlation float64 `json:"correlation"`
	Strength    string  `json:"strength"` // "Strong Positive" or "Strong Negative"
}

// PatternHints carries best-effort structural hints about the dataset
type PatternHints struct {
	TimeSeriesColumns    []string `json:"time_series_columns,omitempty"`
	IDColumns            []string `json:"id_columns,omitempty"`
	PotentialCategorical []string `json:"potential_categorical,omitempty"`
}

// CategoricalDistribution summarizes the value distribution of one
// categorical column
type CategoricalDistribution struct {
	Column       string       `json:"column"`
	ValueCounts  []ValueCount `json:"value_counts"`
	UniqueCount  int          `json:"unique_count"`
	MostFrequent string       `json:"most_frequent"`
}

// ValueCount is one value of a categorical column and its frequency
type ValueCount struct {
	Value      string  `json:"value"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}
