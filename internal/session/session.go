package session

import (
	"log"
	"sync"
	"time"

	"tablekit/domain/core"
	"tablekit/domain/table"
	"tablekit/internal/analyzer"
	"tablekit/internal/charts"
	apperrors "tablekit/internal/errors"
	"tablekit/internal/kpi"
	"tablekit/internal/report"
)

// Session holds the state of one interactive analysis: the loaded table,
// where it came from, and the collaborators bound to it. A new upload
// replaces the session's table and rebinds every collaborator.
type Session struct {
	ID        core.SessionID
	CreatedAt time.Time

	mu        sync.RWMutex
	fileName  string
	sheetName string
	loadedAt  time.Time
	tbl       *table.Table
	analyzer  *analyzer.Analyzer
	engine    *kpi.Engine
	charts    *charts.Builder
	formatter *report.Formatter
}

// NewSession creates an empty session with no table loaded
func NewSession() *Session {
	return &Session{
		ID:        core.NewSessionID(),
		CreatedAt: time.Now(),
	}
}

// Load replaces the session's table and rebinds all collaborators.
// Any state from a previous upload is discarded.
func (s *Session) Load(tbl *table.Table, fileName, sheetName string) error {
	az, err := analyzer.New(tbl)
	if err != nil {
		return err
	}
	engine, err := kpi.New(tbl)
	if err != nil {
		return err
	}
	builder, err := charts.NewBuilder(tbl)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.tbl != nil {
		log.Printf("[Session] Replacing dataset %s with %s (session %s)", s.fileName, fileName, s.ID)
	} else {
		log.Printf("[Session] Loading dataset %s (session %s)", fileName, s.ID)
	}

	s.fileName = fileName
	s.sheetName = sheetName
	s.loadedAt = time.Now()
	s.tbl = tbl
	s.analyzer = az
	s.engine = engine
	s.charts = builder
	s.formatter = report.New(tbl, az, engine)

	return nil
}

// HasTable reports whether a dataset has been loaded
func (s *Session) HasTable() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tbl != nil
}

// Table returns the loaded table, or an error when nothing is loaded
func (s *Session) Table() (*table.Table, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.tbl == nil {
		return nil, apperrors.InvalidInput("no dataset loaded in session")
	}
	return s.tbl, nil
}

// Analyzer returns the analyzer bound to the loaded table
func (s *Session) Analyzer() (*analyzer.Analyzer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.analyzer == nil {
		return nil, apperrors.InvalidInput("no dataset loaded in session")
	}
	return s.analyzer, nil
}

// Engine returns the KPI engine bound to the loaded table
func (s *Session) Engine() (*kpi.Engine, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.engine == nil {
		return nil, apperrors.InvalidInput("no dataset loaded in session")
	}
	return s.engine, nil
}

// Charts returns the chart builder bound to the loaded table
func (s *Session) Charts() (*charts.Builder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.charts == nil {
		return nil, apperrors.InvalidInput("no dataset loaded in session")
	}
	return s.charts, nil
}

// Formatter returns the report formatter bound to the loaded table
func (s *Session) Formatter() (*report.Formatter, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.formatter == nil {
		return nil, apperrors.InvalidInput("no dataset loaded in session")
	}
	return s.formatter, nil
}

// FileName returns the source file name of the loaded dataset
func (s *Session) FileName() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fileName
}

// SheetName returns the sheet the loaded dataset was read from
func (s *Session) SheetName() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sheetName
}

// LoadedAt returns when the current dataset was loaded
func (s *Session) LoadedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadedAt
}
