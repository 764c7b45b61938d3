package ui

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gomarkdown/markdown"
	mdhtml "github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"tablekit/adapters/slides"
	"tablekit/domain/analysis"
)

func (s *Server) handleReport(c *gin.Context) {
	formatter, err := s.session.Formatter()
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"report": formatter.Build(time.Now()),
	})
}

// handleReportDownload serves the text report as a timestamped attachment
func (s *Server) handleReportDownload(c *gin.Context) {
	formatter, err := s.session.Formatter()
	if err != nil {
		respondError(c, err)
		return
	}

	now := time.Now()
	fileName := fmt.Sprintf("data_analysis_report_%s.txt", now.Format("20060102_150405"))

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, fileName))
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(formatter.Build(now)))
}

// handleTableInsights generates (or returns cached) narrative insights
// for the loaded dataset
func (s *Server) handleTableInsights(c *gin.Context) {
	formatter, err := s.session.Formatter()
	if err != nil {
		respondError(c, err)
		return
	}

	s.insightMutex.RLock()
	cached := s.tableInsights
	s.insightMutex.RUnlock()
	if cached != nil {
		c.JSON(http.StatusOK, cached)
		return
	}

	insights := s.insights.TableInsights(c.Request.Context(), formatter.Build(time.Now()))

	// Only successful generations are cached so a transient failure
	// can be retried on the next request
	if insights.Available {
		s.insightMutex.Lock()
		s.tableInsights = &insights
		s.insightMutex.Unlock()
	}

	c.JSON(http.StatusOK, insights)
}

// handleInsightsHTML renders the latest insights as an HTML fragment
func (s *Server) handleInsightsHTML(c *gin.Context) {
	s.insightMutex.RLock()
	cached := s.tableInsights
	s.insightMutex.RUnlock()

	if cached == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no insights generated yet"})
		return
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8", renderInsightsHTML(*cached))
}

// renderInsightsHTML converts insights to markdown and then to HTML
func renderInsightsHTML(insights analysis.NarrativeInsights) []byte {
	var b strings.Builder
	b.WriteString("## Summary\n\n")
	b.WriteString(insights.Summary)
	b.WriteString("\n\n## Key Themes\n\n")
	for _, theme := range insights.KeyThemes {
		fmt.Fprintf(&b, "- %s\n", theme)
	}
	b.WriteString("\n## Content Quality\n\n")
	b.WriteString(insights.ContentQuality)
	b.WriteString("\n\n## Recommendations\n\n")
	for _, rec := range insights.Recommendations {
		fmt.Fprintf(&b, "- %s\n", rec)
	}

	p := parser.NewWithExtensions(parser.CommonExtensions)
	renderer := mdhtml.NewRenderer(mdhtml.RendererOptions{Flags: mdhtml.CommonFlags})
	return markdown.ToHTML([]byte(b.String()), p, renderer)
}

// sessionDeck resolves the presentation analyzer or writes the error response
func (s *Server) sessionDeck(c *gin.Context) (*slides.Analyzer, bool) {
	s.deckMutex.RLock()
	deck := s.deck
	s.deckMutex.RUnlock()

	if deck == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no presentation uploaded"})
		return nil, false
	}
	return deck, true
}

func (s *Server) handleSlideList(c *gin.Context) {
	deck, ok := s.sessionDeck(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"slides": deck.Slides()})
}

func (s *Server) handleSlideOverview(c *gin.Context) {
	deck, ok := s.sessionDeck(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, deck.Overview())
}

func (s *Server) handleSlideStructure(c *gin.Context) {
	deck, ok := s.sessionDeck(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, deck.Structure())
}

func (s *Server) handleSlideKPIs(c *gin.Context) {
	deck, ok := s.sessionDeck(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"kpis": deck.KPIs()})
}

func (s *Server) handleSlideInsights(c *gin.Context) {
	deck, ok := s.sessionDeck(c)
	if !ok {
		return
	}

	s.insightMutex.RLock()
	cached := s.deckInsights
	s.insightMutex.RUnlock()
	if cached != nil {
		c.JSON(http.StatusOK, cached)
		return
	}

	insights := s.insights.SlideInsights(c.Request.Context(), deck.NarrativeText())
	if insights.Available {
		s.insightMutex.Lock()
		s.deckInsights = &insights
		s.insightMutex.Unlock()
	}

	c.JSON(http.StatusOK, insights)
}
