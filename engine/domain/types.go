// Package domain defines the core domain types, errors, and validation for
// the AutoHawk scrape-and-value pipeline. Every adapter normalizes into these
// types; every API response is built from them.
package domain

// SearchCriteria describes the vehicle the user is looking for. All fields
// are optional and combine conjunctively when an adapter translates them
// into a site query. Criteria are immutable once a job starts.
type SearchCriteria struct {
	Make     string   `json:"make,omitempty"`
	Model    string   `json:"model,omitempty"`
	MinYear  *int     `json:"min_year,omitempty"`
	MaxYear  *int     `json:"max_year,omitempty"`
	MinPrice *float64 `json:"min_price,omitempty"`
	MaxPrice *float64 `json:"max_price,omitempty"`
	Location string   `json:"location,omitempty"`
	Keywords []string `json:"keywords,omitempty"`
}

// ListingRecord is the normalized output unit of every site adapter.
// ListingID is unique within one adapter's result set for one scrape;
// adapters that cannot derive a stable id synthesize "{site}-{ordinal}".
type ListingRecord struct {
	ListingID string   `json:"listing_id"`
	Website   string   `json:"website"`
	Title     string   `json:"title"`
	Price     float64  `json:"price"`
	MileageKM *int     `json:"mileage_km,omitempty"`
	Location  string   `json:"location,omitempty"`
	Images    []string `json:"images,omitempty"`
}

// EnrichedListing is a ListingRecord with valuation info attached. It is
// created once by the enrichment step and never mutated afterwards.
type EnrichedListing struct {
	ListingRecord
	Currency  string   `json:"currency"`
	Valuation *float64 `json:"valuation,omitempty"`
}

// DefaultCurrency is attached to every enriched listing.
const DefaultCurrency = "USD"

// JobStatus is the lifecycle state of a scraping/valuation job.
type JobStatus string

const (
	JobPending   JobStatus = "pending"
	JobRunning   JobStatus = "running"
	JobCompleted JobStatus = "completed"
	JobFailed    JobStatus = "failed"
)

// Job holds the aggregated results of one pipeline execution. The status
// transitions monotonically pending → running → completed (or failed on a
// pipeline-level fatal error); individual adapter failures never fail a job.
type Job struct {
	ID      string            `json:"job_id"`
	Status  JobStatus         `json:"status"`
	Results []EnrichedListing `json:"results"`
}
