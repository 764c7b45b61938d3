package charts

// Chart specifications use plain numeric/string primitives only, so any
// front-end renderer can consume them without knowledge of internal types.

// Point is one labeled value of a chart series
type Point struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// Series is one named data series
type Series struct {
	Name  string  `json:"name"`
	Data  []Point `json:"data"`
	Color string  `json:"color,omitempty"`
}

// Spec is a renderer-agnostic chart description
type Spec struct {
	ChartType  string   `json:"chart_type"` // "bar", "pie", "line", "scatter", "histogram"
	Title      string   `json:"title"`
	XAxis      string   `json:"x_axis,omitempty"`
	YAxis      string   `json:"y_axis,omitempty"`
	ShowLegend bool     `json:"show_legend"`
	ShowGrid   bool     `json:"show_grid"`
	Series     []Series `json:"series"`
	Colors     []string `json:"colors,omitempty"`
}

// BoxStats is the five-number summary behind a box plot
type BoxStats struct {
	Min    float64 `json:"min"`
	Q1     float64 `json:"q1"`
	Median float64 `json:"median"`
	Q3     float64 `json:"q3"`
	Max    float64 `json:"max"`
}

// DistributionSpec is the multi-panel payload for one numeric column:
// histogram, box plot, and the summary statistics table.
type DistributionSpec struct {
	Column    string    `json:"column"`
	Title     string    `json:"title"`
	Histogram Spec      `json:"histogram"`
	Box       BoxStats  `json:"box"`
	Summary   []Point   `json:"summary"`
	Values    []float64 `json:"values"`
}

// CategoricalSpec carries the bar and pie views of one categorical column
type CategoricalSpec struct {
	Column string `json:"column"`
	Title  string `json:"title"`
	Bar    Spec   `json:"bar"`
	Pie    Spec   `json:"pie"`
}

// HeatmapSpec is a labeled numeric grid for correlation rendering
type HeatmapSpec struct {
	Title   string      `json:"title"`
	XLabels []string    `json:"x_labels"`
	YLabels []string    `json:"y_labels"`
	Values  [][]float64 `json:"values"`
}

// OutlierPoint is one value of an outlier scatter, flagged when outside the
// IQR fences
type OutlierPoint struct {
	Index     int     `json:"index"`
	Value     float64 `json:"value"`
	IsOutlier bool    `json:"is_outlier"`
}

// OutlierSpec highlights outliers of one numeric column with its fences
type OutlierSpec struct {
	Column     string         `json:"column"`
	Title      string         `json:"title"`
	Points     []OutlierPoint `json:"points"`
	LowerBound float64        `json:"lower_bound"`
	UpperBound float64        `json:"upper_bound"`
}

// Default color palette for chart series
var defaultColors = []string{
	"#4F46E5", "#10B981", "#F59E0B", "#EF4444", "#8B5CF6",
	"#06B6D4", "#EC4899", "#84CC16", "#F97316", "#6366F1",
}

func assignColors(n int) []string {
	colors := make([]string, n)
	for i := range colors {
		colors[i] = defaultColors[i%len(defaultColors)]
	}
	return colors
}
