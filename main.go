package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"tablekit/adapters/llm"
	pgadapter "tablekit/adapters/postgres"
	"tablekit/internal/config"
	"tablekit/ui"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := os.MkdirAll(cfg.Upload.TempDir, 0o755); err != nil {
		log.Fatalf("Failed to create upload directory %s: %v", cfg.Upload.TempDir, err)
	}

	insights := llm.NewInsightClient(cfg.AI)
	if !insights.Enabled() {
		log.Println("OPENAI_API_KEY not set, narrative insights will be unavailable")
	}

	// Persistence is optional: without DATABASE_URL the dashboard runs
	// fully in memory
	var runs *pgadapter.AnalysisRepository
	if cfg.Database.Enabled() {
		db, err := pgadapter.Connect(cfg.Database.URL)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()

		if err := pgadapter.EnsureSchema(context.Background(), db); err != nil {
			log.Fatalf("Failed to prepare database schema: %v", err)
		}
		runs = pgadapter.NewAnalysisRepository(db)
	} else {
		log.Println("DATABASE_URL not set, analysis runs will not be persisted")
	}

	server, err := ui.NewServer(cfg, insights, runs)
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	if err := server.Start(addr); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}
