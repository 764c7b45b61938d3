package ui

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"tablekit/internal/charts"
)

// sessionCharts resolves the chart builder or writes the error response
func (s *Server) sessionCharts(c *gin.Context) (*charts.Builder, bool) {
	builder, err := s.session.Charts()
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	return builder, true
}

func (s *Server) handleDistributionChart(c *gin.Context) {
	builder, ok := s.sessionCharts(c)
	if !ok {
		return
	}

	spec, err := builder.Distribution(c.Param("column"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, spec)
}

func (s *Server) handleCategoricalChart(c *gin.Context) {
	az, ok := s.sessionAnalyzer(c)
	if !ok {
		return
	}
	builder, ok := s.sessionCharts(c)
	if !ok {
		return
	}

	dist, err := az.CategoricalDistribution(c.Param("column"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, builder.Categorical(dist))
}

func (s *Server) handleTimeSeriesChart(c *gin.Context) {
	builder, ok := s.sessionCharts(c)
	if !ok {
		return
	}

	dateColumn := c.Query("date")
	valueColumn := c.Query("value")
	if dateColumn == "" || valueColumn == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date and value query parameters required"})
		return
	}

	spec, err := builder.TimeSeries(dateColumn, valueColumn)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, spec)
}

func (s *Server) handleHeatmapChart(c *gin.Context) {
	az, ok := s.sessionAnalyzer(c)
	if !ok {
		return
	}
	builder, ok := s.sessionCharts(c)
	if !ok {
		return
	}

	matrix := az.CorrelationMatrix()
	if matrix.Empty() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "at least two numeric columns required for a heatmap"})
		return
	}
	c.JSON(http.StatusOK, builder.CorrelationHeatmap(matrix))
}

func (s *Server) handleOutlierChart(c *gin.Context) {
	builder, ok := s.sessionCharts(c)
	if !ok {
		return
	}

	spec, err := builder.Outliers(c.Param("column"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, spec)
}

func (s *Server) handleComparisonChart(c *gin.Context) {
	builder, ok := s.sessionCharts(c)
	if !ok {
		return
	}

	raw := c.Query("columns")
	if raw == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "columns query parameter required"})
		return
	}

	columns := strings.Split(raw, ",")
	for i := range columns {
		columns[i] = strings.TrimSpace(columns[i])
	}

	spec := builder.Comparison(columns)
	if len(spec.Series) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no plottable numeric columns in selection"})
		return
	}
	c.JSON(http.StatusOK, spec)
}
