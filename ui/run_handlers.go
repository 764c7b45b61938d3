package ui

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"tablekit/adapters/postgres"
	"tablekit/domain/core"
	"tablekit/internal/analyzer"
)

// handleSaveRun persists the current analysis for later review
func (s *Server) handleSaveRun(c *gin.Context) {
	az, err := s.session.Analyzer()
	if err != nil {
		respondError(c, err)
		return
	}
	engine, err := s.session.Engine()
	if err != nil {
		respondError(c, err)
		return
	}

	basic := az.BasicInfo()
	quality := az.QualityMetrics()

	rec := &postgres.AnalysisRecord{
		ID:                  core.NewID(),
		SessionID:           s.session.ID,
		FileName:            s.session.FileName(),
		SheetName:           s.session.SheetName(),
		RowCount:            basic.TotalRows,
		ColumnCount:         basic.TotalColumns,
		CompletenessPercent: quality.CompletenessPercent,
		DuplicateRows:       quality.DuplicateRows,
		Summary: postgres.AnalysisSummary{
			Quality:            quality,
			MissingValues:      az.MissingValueReport(),
			StrongCorrelations: az.StrongCorrelations(analyzer.DefaultCorrelationThreshold),
			KPIGroups:          engine.Generate(),
		},
		CreatedAt: time.Now(),
	}

	ctx, cancel := runContext()
	defer cancel()

	if err := s.runs.Save(ctx, rec); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": rec.ID})
}

func (s *Server) handleListRuns(c *gin.Context) {
	limit := 20
	if raw := c.Query("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 && v <= 100 {
			limit = v
		}
	}

	ctx, cancel := runContext()
	defer cancel()

	records, err := s.runs.ListRecent(ctx, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"runs": records})
}

func (s *Server) handleGetRun(c *gin.Context) {
	ctx, cancel := runContext()
	defer cancel()

	rec, err := s.runs.GetByID(ctx, core.ID(c.Param("id")))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, rec)
}

func (s *Server) handleDeleteRun(c *gin.Context) {
	ctx, cancel := runContext()
	defer cancel()

	if err := s.runs.Delete(ctx, core.ID(c.Param("id"))); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": c.Param("id")})
}
