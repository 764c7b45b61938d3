package ui

import (
	"context"
	"log"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"tablekit/adapters/excel"
	"tablekit/adapters/slides"
	"tablekit/domain/analysis"
	"tablekit/domain/table"
	"tablekit/internal/analyzer"
	apperrors "tablekit/internal/errors"
	"tablekit/internal/kpi"
)

// respondError maps application error codes to HTTP statuses
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch apperrors.GetCode(err) {
	case apperrors.CodeInvalidInput, apperrors.CodeUnsupportedFile:
		status = http.StatusBadRequest
	case apperrors.CodeNotFound:
		status = http.StatusNotFound
	case apperrors.CodeExternalService:
		status = http.StatusBadGateway
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// handleUpload ingests a workbook, CSV file or presentation
func (s *Server) handleUpload(c *gin.Context) {
	if !s.uploadSem.TryAcquire(1) {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "too many concurrent uploads, retry shortly"})
		return
	}
	defer s.uploadSem.Release(1)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing file field"})
		return
	}

	if fileHeader.Size > s.cfg.Upload.MaxBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{
			"error": "file exceeds upload limit",
			"limit": s.cfg.Upload.MaxBytes,
		})
		return
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	destPath := filepath.Join(s.cfg.Upload.TempDir, uuid.NewString()+ext)
	if err := c.SaveUploadedFile(fileHeader, destPath); err != nil {
		log.Printf("[Server] Failed to save upload: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store uploaded file"})
		return
	}

	switch ext {
	case ".csv", ".xlsx":
		s.loadWorkbook(c, destPath, fileHeader.Filename)
	case ".pptx":
		s.loadDeck(c, destPath, fileHeader.Filename)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported file type, expected .csv, .xlsx or .pptx"})
	}
}

func (s *Server) loadWorkbook(c *gin.Context, path, fileName string) {
	reader := excel.NewDataReader(path)

	sheets, err := reader.SheetNames()
	if err != nil {
		respondError(c, err)
		return
	}

	// Default to the first sheet; the client can re-select afterwards
	tbl, err := reader.ReadSheet(sheets[0])
	if err != nil {
		respondError(c, err)
		return
	}

	if err := s.session.Load(tbl, fileName, sheets[0]); err != nil {
		respondError(c, err)
		return
	}

	s.fileMutex.Lock()
	s.filePath = path
	s.fileName = fileName
	s.fileMutex.Unlock()

	s.invalidateTableInsights()

	az, _ := s.session.Analyzer()
	c.JSON(http.StatusOK, gin.H{
		"file":       fileName,
		"sheets":     sheets,
		"sheet":      sheets[0],
		"basic_info": az.BasicInfo(),
	})
}

func (s *Server) loadDeck(c *gin.Context, path, fileName string) {
	deck, err := slides.OpenDeck(path)
	if err != nil {
		respondError(c, err)
		return
	}

	deckAnalyzer := slides.NewAnalyzer(deck)

	s.deckMutex.Lock()
	s.deck = deckAnalyzer
	s.deckName = fileName
	s.deckMutex.Unlock()

	s.insightMutex.Lock()
	s.deckInsights = nil
	s.insightMutex.Unlock()

	c.JSON(http.StatusOK, gin.H{
		"file":     fileName,
		"overview": deckAnalyzer.Overview(),
	})
}

func (s *Server) invalidateTableInsights() {
	s.insightMutex.Lock()
	s.tableInsights = nil
	s.insightMutex.Unlock()
}

// handleSheetList lists the sheets of the active workbook
func (s *Server) handleSheetList(c *gin.Context) {
	s.fileMutex.RLock()
	path := s.filePath
	s.fileMutex.RUnlock()

	if path == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no workbook uploaded"})
		return
	}

	sheets, err := excel.NewDataReader(path).SheetNames()
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"sheets": sheets,
		"active": s.session.SheetName(),
	})
}

// handleSheetSelect re-reads the active workbook from another sheet
func (s *Server) handleSheetSelect(c *gin.Context) {
	var req struct {
		Sheet string `json:"sheet" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "sheet name required"})
		return
	}

	s.fileMutex.RLock()
	path := s.filePath
	fileName := s.fileName
	s.fileMutex.RUnlock()

	if path == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no workbook uploaded"})
		return
	}

	tbl, err := excel.NewDataReader(path).ReadSheet(req.Sheet)
	if err != nil {
		respondError(c, err)
		return
	}

	if err := s.session.Load(tbl, fileName, req.Sheet); err != nil {
		respondError(c, err)
		return
	}

	s.invalidateTableInsights()

	az, _ := s.session.Analyzer()
	c.JSON(http.StatusOK, gin.H{
		"sheet":      req.Sheet,
		"basic_info": az.BasicInfo(),
	})
}

// sessionAnalyzer resolves the analyzer or writes the error response
func (s *Server) sessionAnalyzer(c *gin.Context) (*analyzer.Analyzer, bool) {
	az, err := s.session.Analyzer()
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	return az, true
}

func (s *Server) handleBasicInfo(c *gin.Context) {
	az, ok := s.sessionAnalyzer(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, az.BasicInfo())
}

func (s *Server) handleColumnInfo(c *gin.Context) {
	az, ok := s.sessionAnalyzer(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"columns": az.ColumnInfo()})
}

func (s *Server) handleSummaryStatistics(c *gin.Context) {
	az, ok := s.sessionAnalyzer(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"summary": az.SummaryStatistics()})
}

func (s *Server) handleQualityMetrics(c *gin.Context) {
	az, ok := s.sessionAnalyzer(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, az.QualityMetrics())
}

func (s *Server) handleMissingValues(c *gin.Context) {
	az, ok := s.sessionAnalyzer(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"missing_values": az.MissingValueReport()})
}

func (s *Server) handlePatterns(c *gin.Context) {
	az, ok := s.sessionAnalyzer(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, az.DetectPatterns())
}

func (s *Server) handleOutliers(c *gin.Context) {
	az, ok := s.sessionAnalyzer(c)
	if !ok {
		return
	}

	method := analysis.OutlierIQR
	switch c.DefaultQuery("method", "iqr") {
	case "iqr":
		method = analysis.OutlierIQR
	case "zscore":
		method = analysis.OutlierZScore
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown method, expected iqr or zscore"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"method":   method,
		"outliers": az.DetectOutliers(method),
	})
}

func (s *Server) handleCorrelation(c *gin.Context) {
	az, ok := s.sessionAnalyzer(c)
	if !ok {
		return
	}

	threshold := analyzer.DefaultCorrelationThreshold
	if raw := c.Query("threshold"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v < 0 || v > 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "threshold must be a number between 0 and 1"})
			return
		}
		threshold = v
	}

	c.JSON(http.StatusOK, gin.H{
		"matrix": az.CorrelationMatrix(),
		"strong": az.StrongCorrelations(threshold),
	})
}

func (s *Server) handleCategorical(c *gin.Context) {
	az, ok := s.sessionAnalyzer(c)
	if !ok {
		return
	}

	dist, err := az.CategoricalDistribution(c.Param("column"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dist)
}

// handleKPIs returns all KPI groups with their computed values
func (s *Server) handleKPIs(c *gin.Context) {
	engine, err := s.session.Engine()
	if err != nil {
		respondError(c, err)
		return
	}
	tbl, err := s.session.Table()
	if err != nil {
		respondError(c, err)
		return
	}

	groups := engine.Generate()
	evaluated := make([]gin.H, 0, len(groups))
	for _, group := range groups {
		kpis := make([]gin.H, 0, len(group.KPIs))
		for _, def := range group.KPIs {
			kpis = append(kpis, evaluatedKPI(tbl, def))
		}
		evaluated = append(evaluated, gin.H{
			"category": group.Category,
			"kpis":     kpis,
		})
	}

	c.JSON(http.StatusOK, gin.H{"groups": evaluated})
}

// evaluatedKPI renders one KPI definition with its computed value
func evaluatedKPI(tbl *table.Table, def analysis.KPIDefinition) gin.H {
	value := kpi.Evaluate(tbl, def.Computation)

	view := gin.H{
		"name":           def.Name,
		"category":       def.Category,
		"description":    def.Description,
		"formula":        def.Formula,
		"business_value": def.BusinessValue,
		"available":      value.Available,
	}
	if value.Available {
		view["value"] = value.Value
	}
	return view
}

// runContext bounds background persistence work
func runContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 10*time.Second)
}
