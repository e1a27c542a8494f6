// Package main implements the AutoHawk search API server.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/AutoHawkAI/autohawk-mvp/engine/domain"
	"github.com/AutoHawkAI/autohawk-mvp/engine/enrich"
	"github.com/AutoHawkAI/autohawk-mvp/engine/fetch"
	"github.com/AutoHawkAI/autohawk-mvp/engine/pipeline"
	"github.com/AutoHawkAI/autohawk-mvp/pkg/metrics"
	"github.com/AutoHawkAI/autohawk-mvp/pkg/mid"
	"github.com/AutoHawkAI/autohawk-mvp/pkg/openaix"
)

// Config holds all environment-based configuration.
type Config struct {
	Port          string
	NATSURL       string
	OpenAIBaseURL string
	OpenAIKey     string
	OpenAIModel   string
	CORSOrigin    string
	Workers       int
}

func loadConfig() Config {
	return Config{
		Port:          envOr("PORT", "8080"),
		NATSURL:       os.Getenv("NATS_URL"),
		OpenAIBaseURL: envOr("OPENAI_BASE_URL", "https://api.openai.com"),
		OpenAIKey:     os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:   envOr("OPENAI_MODEL", openaix.DefaultModel),
		CORSOrigin:    envOr("CORS_ORIGIN", "*"),
		Workers:       envIntOr("SCRAPE_WORKERS", 4),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg := loadConfig()

	if err := run(cfg, logger); err != nil {
		logger.Error("server exited with error", "err", err)
		os.Exit(1)
	}
}

func run(cfg Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reg := metrics.New()

	// --- Enrichment clients ---
	// Without an API key the enricher falls back to the heuristic valuation
	// and the UNKNOWN plate, so the pipeline works fully offline.
	var vision enrich.VisionClient
	var valuation enrich.ValuationClient
	if cfg.OpenAIKey != "" {
		client := openaix.New(cfg.OpenAIBaseURL, cfg.OpenAIKey, cfg.OpenAIModel)
		vision, valuation = client, client
	} else {
		logger.Warn("OPENAI_API_KEY not set, using heuristic enrichment only")
	}
	enricher := enrich.New(vision, valuation, enrich.Options{}, logger)

	// --- Job runner ---
	runner := pipeline.NewRunner(pipeline.Deps{
		Fetcher:  fetch.New(fetch.Options{}, logger),
		Enricher: enricher,
		Metrics:  reg,
		Logger:   logger,
		Workers:  cfg.Workers,
	})

	// --- Optional NATS queue ---
	// When NATS_URL is set, jobs are published for a worker process instead
	// of running inline in the request goroutine.
	var nc *nats.Conn
	if cfg.NATSURL != "" {
		var err error
		nc, err = nats.Connect(cfg.NATSURL, nats.Name("autohawk-api"))
		if err != nil {
			return fmt.Errorf("nats connect: %w", err)
		}
		defer nc.Close()
		logger.Info("nats connected", "url", cfg.NATSURL)
	}

	// --- Build HTTP server ---
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/health", handleHealth)
	mux.HandleFunc("POST /api/search/start", handleSearchStart(runner, nc, logger))
	mux.HandleFunc("GET /api/search/{job_id}/results", handleSearchResults(runner))
	mux.Handle("GET /metrics", reg.Handler())

	handler := mid.Chain(mux,
		mid.Recover(logger),
		mid.Logger(logger),
		mid.CORS(cfg.CORSOrigin),
		mid.OTel("autohawk-api"),
	)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// --- Graceful shutdown ---
	errCh := make(chan error, 1)
	go func() {
		logger.Info("api server starting", "port", cfg.Port)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return err
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutCtx)
}

// --- Handlers ---

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// SearchRequest is the JSON body for POST /api/search/start.
type SearchRequest struct {
	Criteria domain.SearchCriteria `json:"criteria"`
	Websites []string              `json:"websites"`
}

// SearchStartResponse is the JSON response for POST /api/search/start.
type SearchStartResponse struct {
	JobID string `json:"job_id"`
}

func handleSearchStart(runner *pipeline.Runner, nc *nats.Conn, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SearchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		var jobID string
		var err error
		if nc != nil {
			jobID, err = runner.Enqueue(r.Context(), nc, req.Criteria, req.Websites)
		} else {
			jobID, err = runner.StartJob(r.Context(), req.Criteria, req.Websites)
		}
		if err != nil {
			var verr *domain.ValidationError
			if errors.As(err, &verr) {
				writeError(w, http.StatusBadRequest, verr.Error())
				return
			}
			logger.Error("search job failed to start", "err", err)
			writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(SearchStartResponse{JobID: jobID})
	}
}

func handleSearchResults(runner *pipeline.Runner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		job, err := runner.GetJobResults(r.PathValue("job_id"))
		if err != nil {
			if errors.Is(err, domain.ErrJobNotFound) {
				writeError(w, http.StatusNotFound, "job not found")
				return
			}
			writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(job)
	}
}

func writeError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
