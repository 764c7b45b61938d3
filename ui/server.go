package ui

import (
	"fmt"
	"html/template"
	"log"
	"sync"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/semaphore"

	"tablekit/adapters/llm"
	"tablekit/adapters/postgres"
	"tablekit/adapters/slides"
	"tablekit/domain/analysis"
	"tablekit/internal/config"
	"tablekit/internal/session"
)

// Upload parsing is bounded to keep memory predictable when several
// workbooks arrive at once.
const maxConcurrentUploads = 4

// Server hosts the data exploration dashboard
type Server struct {
	router   *gin.Engine
	cfg      *config.Config
	session  *session.Session
	insights *llm.InsightClient
	runs     *postgres.AnalysisRepository // nil when persistence is disabled

	uploadSem *semaphore.Weighted
	indexTmpl *template.Template

	// Active workbook state for sheet re-selection
	fileMutex sync.RWMutex
	filePath  string
	fileName  string

	// Presentation state, independent of the tabular session
	deckMutex sync.RWMutex
	deck      *slides.Analyzer
	deckName  string

	// Narrative insight caching, invalidated on upload
	insightMutex  sync.RWMutex
	tableInsights *analysis.NarrativeInsights
	deckInsights  *analysis.NarrativeInsights
}

// NewServer creates the dashboard server with its dependencies
func NewServer(cfg *config.Config, insights *llm.InsightClient, runs *postgres.AnalysisRepository) (*Server, error) {
	gin.SetMode(cfg.Server.GinMode)

	tmpl, err := template.New("index.html").Parse(indexHTML)
	if err != nil {
		return nil, fmt.Errorf("failed to parse index template: %w", err)
	}

	s := &Server{
		router:    gin.Default(),
		cfg:       cfg,
		session:   session.NewSession(),
		insights:  insights,
		runs:      runs,
		uploadSem: semaphore.NewWeighted(maxConcurrentUploads),
		indexTmpl: tmpl,
	}

	s.setupRoutes()
	return s, nil
}

func (s *Server) setupRoutes() {
	s.router.GET("/", s.handleIndex)

	api := s.router.Group("/api")
	{
		api.POST("/upload", s.handleUpload)
		api.GET("/sheets", s.handleSheetList)
		api.POST("/sheets/select", s.handleSheetSelect)

		api.GET("/analysis/basic", s.handleBasicInfo)
		api.GET("/analysis/columns", s.handleColumnInfo)
		api.GET("/analysis/summary", s.handleSummaryStatistics)
		api.GET("/analysis/quality", s.handleQualityMetrics)
		api.GET("/analysis/missing", s.handleMissingValues)
		api.GET("/analysis/patterns", s.handlePatterns)
		api.GET("/analysis/outliers", s.handleOutliers)
		api.GET("/analysis/correlation", s.handleCorrelation)
		api.GET("/analysis/categorical/:column", s.handleCategorical)
		api.GET("/analysis/kpis", s.handleKPIs)

		api.GET("/charts/distribution/:column", s.handleDistributionChart)
		api.GET("/charts/categorical/:column", s.handleCategoricalChart)
		api.GET("/charts/timeseries", s.handleTimeSeriesChart)
		api.GET("/charts/heatmap", s.handleHeatmapChart)
		api.GET("/charts/outliers/:column", s.handleOutlierChart)
		api.GET("/charts/comparison", s.handleComparisonChart)

		api.GET("/report", s.handleReport)
		api.GET("/report/download", s.handleReportDownload)
		api.GET("/insights", s.handleTableInsights)
		api.GET("/insights/html", s.handleInsightsHTML)

		api.GET("/slides", s.handleSlideList)
		api.GET("/slides/overview", s.handleSlideOverview)
		api.GET("/slides/structure", s.handleSlideStructure)
		api.GET("/slides/kpis", s.handleSlideKPIs)
		api.GET("/slides/insights", s.handleSlideInsights)

		if s.runs != nil {
			api.POST("/runs", s.handleSaveRun)
			api.GET("/runs", s.handleListRuns)
			api.GET("/runs/:id", s.handleGetRun)
			api.DELETE("/runs/:id", s.handleDeleteRun)
		}
	}
}

// Start runs the HTTP server until it fails or is shut down
func (s *Server) Start(addr string) error {
	log.Printf("[Server] Starting dashboard on http://%s", addr)
	return s.router.Run(addr)
}

// Router exposes the gin engine, used by tests
func (s *Server) Router() *gin.Engine {
	return s.router
}

func (s *Server) handleIndex(c *gin.Context) {
	s.fileMutex.RLock()
	fileName := s.fileName
	s.fileMutex.RUnlock()

	s.deckMutex.RLock()
	deckName := s.deckName
	s.deckMutex.RUnlock()

	data := map[string]interface{}{
		"HasTable": s.session.HasTable(),
		"FileName": fileName,
		"Sheet":    s.session.SheetName(),
		"DeckName": deckName,
		"HasDeck":  deckName != "",
	}

	c.Header("Content-Type", "text/html")
	if err := s.indexTmpl.Execute(c.Writer, data); err != nil {
		log.Printf("[Server] Template error: %v", err)
		c.AbortWithStatus(500)
	}
}
