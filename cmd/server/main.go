package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"triage-chatbot/internal/core"
	"triage-chatbot/internal/db"
	httpserver "triage-chatbot/internal/http"
	"triage-chatbot/internal/llm"
)

func main() {
	// Load .env if present; real environments set variables directly.
	_ = godotenv.Load()

	// Severity rules default to the built-in table; TRIAGE_RULES may point
	// at a JSON override for clinical tuning.
	markers := core.DefaultMarkers
	if path := os.Getenv("TRIAGE_RULES"); path != "" {
		loaded, err := core.LoadMarkers(path)
		if err != nil {
			log.Fatalf("failed to load severity rules from %s: %v", path, err)
		}
		markers = loaded
	}

	maxQuestions := 3
	if v := os.Getenv("MAX_CLARIFYING_QUESTIONS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			maxQuestions = n
		}
	}

	llmTimeout := 30 * time.Second
	if v := os.Getenv("LLM_TIMEOUT_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			llmTimeout = time.Duration(n) * time.Second
		}
	}

	store := core.NewConversationStore(0)
	scorer := core.NewScorer(markers)
	composer := core.NewComposer(maxQuestions)
	model := llm.NewOpenAIClient()
	triage := core.NewTriageService(store, scorer, composer, model, llmTimeout)

	// The audit store is optional: without DATABASE_URL the service runs
	// fully in-memory.
	auditEnabled := false
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		conn, err := sql.Open("postgres", dbURL)
		if err != nil {
			log.Fatalf("failed to open database: %v", err)
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := conn.PingContext(ctx); err != nil {
			log.Fatalf("failed to ping database: %v", err)
		}
		cancel()
		if err := db.Migrate(context.Background(), conn); err != nil {
			log.Fatalf("failed to run migrations: %v", err)
		}
		channel := os.Getenv("POSTGRES_NOTIFY_CHANNEL")
		if channel == "" {
			channel = "triage_escalations"
		}
		triage.Audit = db.NewAudit(conn, channel)
		auditEnabled = true
	}

	srv := httpserver.NewServer(triage, store, auditEnabled)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	addr := ":" + port
	log.Printf("Listening on %s", addr)
	if err := http.ListenAndServe(addr, srv); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
