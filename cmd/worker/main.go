// Package main implements the AutoHawk scrape worker. It consumes queued
// search jobs from NATS and executes them with the same pipeline the API
// server uses inline.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/nats-io/nats.go"

	"github.com/AutoHawkAI/autohawk-mvp/engine/enrich"
	"github.com/AutoHawkAI/autohawk-mvp/engine/fetch"
	"github.com/AutoHawkAI/autohawk-mvp/engine/pipeline"
	"github.com/AutoHawkAI/autohawk-mvp/pkg/metrics"
	"github.com/AutoHawkAI/autohawk-mvp/pkg/openaix"
)

// Config holds all environment-based configuration.
type Config struct {
	NATSURL       string
	MetricsPort   string
	OpenAIBaseURL string
	OpenAIKey     string
	OpenAIModel   string
	Workers       int
}

func loadConfig() Config {
	return Config{
		NATSURL:       envOr("NATS_URL", nats.DefaultURL),
		MetricsPort:   envOr("METRICS_PORT", "9090"),
		OpenAIBaseURL: envOr("OPENAI_BASE_URL", "https://api.openai.com"),
		OpenAIKey:     os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:   envOr("OPENAI_MODEL", openaix.DefaultModel),
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
		logger.Error("worker exited with error", "err", err)
		os.Exit(1)
	}
}

func run(cfg Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	nc, err := nats.Connect(cfg.NATSURL, nats.Name("autohawk-worker"))
	if err != nil {
		return fmt.Errorf("nats connect: %w", err)
	}
	defer nc.Close()

	reg := metrics.New()

	var vision enrich.VisionClient
	var valuation enrich.ValuationClient
	if cfg.OpenAIKey != "" {
		client := openaix.New(cfg.OpenAIBaseURL, cfg.OpenAIKey, cfg.OpenAIModel)
		vision, valuation = client, client
	} else {
		logger.Warn("OPENAI_API_KEY not set, using heuristic enrichment only")
	}

	runner := pipeline.NewRunner(pipeline.Deps{
		Fetcher:  fetch.New(fetch.Options{}, logger),
		Enricher: enrich.New(vision, valuation, enrich.Options{}, logger),
		Metrics:  reg,
		Logger:   logger,
		Workers:  cfg.Workers,
	})

	sub, err := pipeline.StartConsumer(nc, runner)
	if err != nil {
		return fmt.Errorf("subscribe: %w", err)
	}
	defer sub.Unsubscribe()

	// Metrics endpoint so worker throughput is scrapeable.
	go func() {
		mux := http.NewServeMux()
		mux.Handle("GET /metrics", reg.Handler())
		if err := http.ListenAndServe(":"+cfg.MetricsPort, mux); err != nil {
			logger.Error("metrics server failed", "err", err)
		}
	}()

	logger.Info("worker started", "subject", pipeline.SearchSubject, "nats", cfg.NATSURL)
	<-ctx.Done()
	logger.Info("shutdown signal received")
	return nil
}
