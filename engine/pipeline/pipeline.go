// Package pipeline orchestrates a scrape-and-value job: resolve the
// requested sites, drive each adapter through the fetch boundary, enrich
// every extracted record, and store the assembled results under a job id.
//
// A job only fails on a defect in the orchestration itself; individual
// adapter or enrichment failures are logged and skipped.
package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/AutoHawkAI/autohawk-mvp/engine/adapters"
	"github.com/AutoHawkAI/autohawk-mvp/engine/domain"
	"github.com/AutoHawkAI/autohawk-mvp/pkg/fn"
	"github.com/AutoHawkAI/autohawk-mvp/pkg/metrics"
)

// FallbackSite is scraped when a job requests no sites at all.
const FallbackSite = "generic"

// PageFetcher abstracts the network boundary so tests can stub it.
type PageFetcher interface {
	Fetch(ctx context.Context, site, url string) (string, error)
}

// Enricher abstracts the enrichment step.
type Enricher interface {
	Enrich(ctx context.Context, rec domain.ListingRecord) domain.EnrichedListing
}

// Deps holds the external dependencies of the job pipeline.
type Deps struct {
	Store    *Store
	Registry *adapters.Registry
	Fetcher  PageFetcher
	Enricher Enricher
	Metrics  *metrics.Registry
	Logger   *slog.Logger
	// Workers bounds the fan-out across sites. 1 (the default) keeps the
	// original strictly sequential behavior. Result order is positional and
	// holds for any worker count; per-site extraction and per-record
	// enrichment always stay sequential because adapter instances are not
	// safe for concurrent use.
	Workers int
}

// Runner executes scrape-and-value jobs against a Store.
type Runner struct {
	store    *Store
	registry *adapters.Registry
	fetcher  PageFetcher
	enricher Enricher
	metrics  *metrics.Registry
	logger   *slog.Logger
	workers  int
}

// NewRunner wires a Runner from its dependencies. Store and Registry are
// created when nil; Metrics may stay nil to disable counters.
func NewRunner(deps Deps) *Runner {
	if deps.Store == nil {
		deps.Store = NewStore()
	}
	if deps.Registry == nil {
		deps.Registry = adapters.NewRegistry()
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Workers <= 0 {
		deps.Workers = 1
	}
	return &Runner{
		store:    deps.Store,
		registry: deps.Registry,
		fetcher:  deps.Fetcher,
		enricher: deps.Enricher,
		metrics:  deps.Metrics,
		logger:   deps.Logger,
		workers:  deps.Workers,
	}
}

// StartJob creates a job for the criteria/site-list pair and executes it to
// completion before returning the generated job id.
func (r *Runner) StartJob(ctx context.Context, criteria domain.SearchCriteria, websites []string) (string, error) {
	if err := domain.ValidateCriteria(criteria); err != nil {
		return "", err
	}
	jobID := uuid.NewString()
	r.store.Create(jobID)
	r.Execute(ctx, jobID, criteria, websites)
	return jobID, nil
}

// GetJobResults returns the stored job, including its current status and
// whatever results are present.
func (r *Runner) GetJobResults(jobID string) (domain.Job, error) {
	return r.store.Get(jobID)
}

// Execute runs an already-created job. Per-site failures are skipped; only a
// panic escaping the orchestration marks the job failed.
func (r *Runner) Execute(ctx context.Context, jobID string, criteria domain.SearchCriteria, websites []string) {
	defer func() {
		if p := recover(); p != nil {
			r.logger.Error("pipeline fatal error", "job_id", jobID, "panic", p)
			r.store.Fail(jobID)
			r.countJob("failed")
		}
	}()

	ctx, span := otel.Tracer("engine/pipeline").Start(ctx, "pipeline.job")
	span.SetAttributes(attribute.String("job_id", jobID))
	defer span.End()

	start := time.Now()
	if r.metrics != nil {
		running := r.metrics.Gauge("scrape_jobs_running", "Jobs currently executing")
		running.Inc()
		defer running.Dec()
		defer r.metrics.Histogram("scrape_job_duration_seconds", "Job wall time", nil).Since(start)
	}

	r.store.SetStatus(jobID, domain.JobRunning)

	sites := websites
	if len(sites) == 0 {
		sites = []string{FallbackSite}
	}

	perSite := fn.ParMap(sites, r.workers, func(site string) []domain.EnrichedListing {
		return r.scrapeAndEnrich(ctx, site, criteria)
	})
	results := fn.FlatMap(perSite, func(listings []domain.EnrichedListing) []domain.EnrichedListing {
		return listings
	})

	r.store.Complete(jobID, results)
	r.countJob("completed")
	r.logger.Info("job completed", "job_id", jobID, "sites", len(sites), "listings", len(results))
}

// scrapeAndEnrich handles one site end to end. Any failure is absorbed here:
// the site contributes nothing and the job moves on. This includes panics;
// each site runs on its own goroutine, so a panic escaping here would kill
// the process, not the job.
func (r *Runner) scrapeAndEnrich(ctx context.Context, site string, criteria domain.SearchCriteria) (out []domain.EnrichedListing) {
	defer func() {
		if p := recover(); p != nil {
			r.logger.Error("site adapter panicked, skipping", "site", site, "panic", p)
			r.countSkipped(site)
			out = nil
		}
	}()

	ctx, span := otel.Tracer("engine/pipeline").Start(ctx, "pipeline.scrape")
	span.SetAttributes(attribute.String("site", site))
	defer span.End()

	adapter := r.registry.Get(site)
	records, err := r.scrape(ctx, adapter, criteria)
	if err != nil {
		span.RecordError(err)
		r.logger.Warn("site adapter failed, skipping", "site", site, "err", err)
		r.countSkipped(site)
		return nil
	}

	enriched := make([]domain.EnrichedListing, len(records))
	for i, rec := range records {
		enriched[i] = r.enricher.Enrich(ctx, rec)
	}
	if r.metrics != nil {
		r.metrics.Counter(metrics.WithLabels("listings_scraped_total", "site", site),
			"Listings extracted per site").Add(int64(len(enriched)))
	}
	return enriched
}

// scrape is fetch + extract for one adapter, or direct synthesis for
// adapters that work offline.
func (r *Runner) scrape(ctx context.Context, adapter adapters.Adapter, criteria domain.SearchCriteria) ([]domain.ListingRecord, error) {
	if s, ok := adapter.(adapters.Synthesizer); ok {
		return s.Synthesize(criteria), nil
	}

	url := adapter.BuildSearchURL(criteria)
	page, err := r.fetcher.Fetch(ctx, adapter.Site(), url)
	if err != nil {
		return nil, err
	}
	return adapter.ExtractListings(page, criteria)
}

func (r *Runner) countSkipped(site string) {
	if r.metrics != nil {
		r.metrics.Counter(metrics.WithLabels("scrape_sites_skipped_total", "site", site),
			"Sites skipped after an adapter failure").Inc()
	}
}

func (r *Runner) countJob(status string) {
	if r.metrics != nil {
		r.metrics.Counter(metrics.WithLabels("scrape_jobs_total", "status", status),
			"Jobs by terminal status").Inc()
	}
}
