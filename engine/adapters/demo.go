package adapters

import (
	"fmt"
	"strings"

	"github.com/AutoHawkAI/autohawk-mvp/engine/domain"
)

// demoImage is a public-domain photo with a readable license plate, so the
// vision step has something to work with in demos.
const demoImage = "https://upload.wikimedia.org/wikipedia/commons/thumb/5/5d/" +
	"License_Plate_with_sample_text.jpg/640px-License_Plate_with_sample_text.jpg"

// DemoAdapter produces deterministic synthetic listings derived from the
// search criteria. It backs the fallback site and any unknown site
// identifier, keeping the pipeline exercisable without network access.
type DemoAdapter struct {
	site string
}

// NewDemoAdapter creates a demo adapter answering for the given site name.
func NewDemoAdapter(site string) *DemoAdapter {
	return &DemoAdapter{site: site}
}

// Site implements Adapter.
func (a *DemoAdapter) Site() string { return a.site }

// BuildSearchURL implements Adapter. The URL is never fetched; the pipeline
// recognizes the Synthesizer capability and skips the fetch boundary.
func (a *DemoAdapter) BuildSearchURL(domain.SearchCriteria) string {
	return fmt.Sprintf("https://%s.example.com/search", a.site)
}

// ExtractListings implements Adapter by ignoring the page content and
// synthesizing from the criteria.
func (a *DemoAdapter) ExtractListings(_ string, criteria domain.SearchCriteria) ([]domain.ListingRecord, error) {
	return a.Synthesize(criteria), nil
}

// Synthesize implements Synthesizer. It returns two deterministic listings
// priced off the requested minimum.
func (a *DemoAdapter) Synthesize(criteria domain.SearchCriteria) []domain.ListingRecord {
	baseTitle := strings.TrimSpace(strings.Join([]string{criteria.Make, criteria.Model, "Listing"}, " "))
	baseTitle = strings.Join(strings.Fields(baseTitle), " ")
	if baseTitle == "Listing" {
		baseTitle = "Used Car"
	}

	location := criteria.Location
	if location == "" {
		location = "Online"
	}

	minPrice := 10000.0
	if criteria.MinPrice != nil {
		minPrice = *criteria.MinPrice
	}

	var listings []domain.ListingRecord
	for idx := 1; idx <= 2; idx++ {
		mileage := 80000 - idx*5000
		if mileage < 5000 {
			mileage = 5000
		}
		m := mileage
		listings = append(listings, domain.ListingRecord{
			ListingID: fmt.Sprintf("%s-%d", a.site, idx),
			Website:   a.site,
			Title:     fmt.Sprintf("%s #%d", baseTitle, idx),
			Price:     minPrice + float64(idx)*2500,
			MileageKM: &m,
			Location:  location,
			Images:    []string{demoImage},
		})
	}
	return listings
}
