// Package adapters contains the per-marketplace scraping adapters. Each
// adapter knows how to build a search URL for its site and how to extract
// normalized listing records from that site's raw page markup.
//
// Adapters are stateless aside from static selector/parameter configuration,
// so a single instance can be reused across jobs. Adding a marketplace means
// adding one implementation and one registry entry.
package adapters

import (
	"sync"

	"github.com/PuerkitoBio/goquery"

	"github.com/AutoHawkAI/autohawk-mvp/engine/domain"
)

// Adapter is the capability contract every marketplace variant implements.
//
// BuildSearchURL maps criteria deterministically into a fully-qualified
// request URL; absent criteria fields are omitted entirely, never emitted as
// empty parameters.
//
// ExtractListings locates every listing card in already-fetched page content
// and produces one ListingRecord per card. Missing or malformed fields on a
// card degrade per-field (default title, price 0.0, synthesized id, empty
// images); an error is returned only when the input is not parseable as
// markup at all.
type Adapter interface {
	Site() string
	BuildSearchURL(criteria domain.SearchCriteria) string
	ExtractListings(page string, criteria domain.SearchCriteria) ([]domain.ListingRecord, error)
}

// Synthesizer is implemented by adapters that produce listings without a
// network round-trip. The pipeline skips the fetch boundary for these.
type Synthesizer interface {
	Synthesize(criteria domain.SearchCriteria) []domain.ListingRecord
}

// listingID returns the card's id attribute, falling back to synthesized
// when the attribute is missing or empty. Sites sometimes emit the attribute
// with no value, and an empty id would collide across cards.
func listingID(card *goquery.Selection, attr, synthesized string) string {
	if id, ok := card.Attr(attr); ok && id != "" {
		return id
	}
	return synthesized
}

// Registry resolves site identifiers to adapter instances. Instances are
// created lazily and reused across jobs. Unknown site identifiers resolve to
// a demo adapter under that name, so a job never fails on an unrecognized
// site.
type Registry struct {
	mu        sync.Mutex
	factories map[string]func() Adapter
	adapters  map[string]Adapter
}

// NewRegistry creates a registry with the standard marketplace adapters.
func NewRegistry() *Registry {
	return &Registry{
		factories: map[string]func() Adapter{
			SiteEbay:       func() Adapter { return NewEbayAdapter() },
			SiteAutoTrader: func() Adapter { return NewAutoTraderAdapter() },
			SiteGumtree:    func() Adapter { return NewGumtreeAdapter() },
		},
		adapters: make(map[string]Adapter),
	}
}

// Register installs (or replaces) the adapter for a site identifier.
func (r *Registry) Register(site string, a Adapter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.adapters[site] = a
}

// Get returns the adapter for a site, creating it on first use.
func (r *Registry) Get(site string) Adapter {
	r.mu.Lock()
	defer r.mu.Unlock()
	if a, ok := r.adapters[site]; ok {
		return a
	}
	var a Adapter
	if factory, ok := r.factories[site]; ok {
		a = factory()
	} else {
		a = NewDemoAdapter(site)
	}
	r.adapters[site] = a
	return a
}
