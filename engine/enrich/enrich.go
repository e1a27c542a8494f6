// Package enrich attaches a license-plate identifier and a valuation
// estimate to normalized listing records. Both external model calls are
// best-effort: any failure degrades to a documented fallback and never
// reaches the caller.
package enrich

import (
	"context"
	"log/slog"
	"math"
	"time"

	"github.com/AutoHawkAI/autohawk-mvp/engine/domain"
	"github.com/AutoHawkAI/autohawk-mvp/engine/extract"
)

// UnknownPlate is the sentinel used when no plate can be identified.
const UnknownPlate = "UNKNOWN"

// heuristicNote marks a valuation computed without a model.
const heuristicNote = "Heuristic fallback valuation."

// VisionClient reads a license plate from a car photo.
type VisionClient interface {
	ReadPlate(ctx context.Context, imageURL string) (string, error)
}

// ValuationRequest is the structured listing summary sent to the valuation
// model.
type ValuationRequest struct {
	Title        string  `json:"title"`
	Price        float64 `json:"price"`
	MileageKM    *int    `json:"mileage_km"`
	Location     string  `json:"location"`
	LicensePlate string  `json:"license_plate"`
}

// Valuation is the five-field payload a valuation model must return.
type Valuation struct {
	FairPrice  float64 `json:"fair_price"`
	RangeLow   float64 `json:"range_low"`
	RangeHigh  float64 `json:"range_high"`
	Confidence float64 `json:"confidence"`
	Notes      string  `json:"notes"`
}

// ValuationClient estimates a fair market price for a listing.
type ValuationClient interface {
	ValueListing(ctx context.Context, req ValuationRequest) (Valuation, error)
}

// Options configures the Enricher.
type Options struct {
	// CallTimeout bounds each individual model call.
	CallTimeout time.Duration
}

// DefaultOptions returns sensible defaults.
func DefaultOptions() Options {
	return Options{CallTimeout: 30 * time.Second}
}

// Enricher runs the plate-identification and valuation steps. A nil vision
// or valuation client is the normal "no model available" state, not an
// error: the corresponding step falls back immediately.
type Enricher struct {
	vision    VisionClient
	valuation ValuationClient
	opts      Options
	logger    *slog.Logger
}

// New creates an Enricher. Either client may be nil.
func New(vision VisionClient, valuation ValuationClient, opts Options, logger *slog.Logger) *Enricher {
	if opts.CallTimeout <= 0 {
		opts.CallTimeout = DefaultOptions().CallTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Enricher{vision: vision, valuation: valuation, opts: opts, logger: logger}
}

// Enrich produces the EnrichedListing for exactly one record. It never
// fails: plate defaults to UNKNOWN and valuation to the price heuristic.
func (e *Enricher) Enrich(ctx context.Context, rec domain.ListingRecord) domain.EnrichedListing {
	plate := e.readPlate(ctx, rec.Images)
	valuation := e.valueListing(ctx, rec, plate)

	enriched := domain.EnrichedListing{
		ListingRecord: rec,
		Currency:      domain.DefaultCurrency,
	}
	fair := valuation.FairPrice
	enriched.Valuation = &fair
	enriched.Title = rec.Title + " (Plate: " + plate + ")"
	return enriched
}

// readPlate submits the first image to the vision model. No images or no
// client means no call at all.
func (e *Enricher) readPlate(ctx context.Context, images []string) string {
	if len(images) == 0 || e.vision == nil {
		return UnknownPlate
	}

	callCtx, cancel := context.WithTimeout(ctx, e.opts.CallTimeout)
	defer cancel()

	text, err := e.vision.ReadPlate(callCtx, images[0])
	if err != nil {
		e.logger.Warn("vision model failed to read plate", "err", err)
		return UnknownPlate
	}
	plate := extract.CleanText(text)
	if plate == "" {
		return UnknownPlate
	}
	return plate
}

// valueListing computes the heuristic payload first and replaces it with the
// model's answer only when the call fully succeeds.
func (e *Enricher) valueListing(ctx context.Context, rec domain.ListingRecord, plate string) Valuation {
	payload := Heuristic(rec.Price)

	if e.valuation == nil {
		return payload
	}

	callCtx, cancel := context.WithTimeout(ctx, e.opts.CallTimeout)
	defer cancel()

	modeled, err := e.valuation.ValueListing(callCtx, ValuationRequest{
		Title:        rec.Title,
		Price:        rec.Price,
		MileageKM:    rec.MileageKM,
		Location:     rec.Location,
		LicensePlate: plate,
	})
	if err != nil {
		e.logger.Warn("valuation model failed, keeping heuristic", "err", err, "listing_id", rec.ListingID)
		return payload
	}
	return modeled
}

// Heuristic is the deterministic valuation used whenever no model answer is
// available: fair at 98% of asking, a 90%..105% range, low confidence.
func Heuristic(price float64) Valuation {
	return Valuation{
		FairPrice:  round2(price * 0.98),
		RangeLow:   round2(price * 0.90),
		RangeHigh:  round2(price * 1.05),
		Confidence: 0.35,
		Notes:      heuristicNote,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
