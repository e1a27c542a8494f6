package adapters

import (
	"net/url"
	"strings"
	"testing"

	"github.com/AutoHawkAI/autohawk-mvp/engine/domain"
)

func intp(v int) *int           { return &v }
func floatp(v float64) *float64 { return &v }

func TestEbayBuildSearchURLEmptyCriteria(t *testing.T) {
	a := NewEbayAdapter()
	got := a.BuildSearchURL(domain.SearchCriteria{})
	if got != a.baseURL {
		t.Fatalf("empty criteria should yield bare base URL, got %s", got)
	}
	if strings.Contains(got, "?") {
		t.Fatalf("empty criteria must not produce a query string: %s", got)
	}
}

func TestEbayBuildSearchURLKeywordsCombined(t *testing.T) {
	a := NewEbayAdapter()
	got := a.BuildSearchURL(domain.SearchCriteria{
		Make:     "Honda",
		Model:    "Civic",
		Keywords: []string{"low miles"},
		MinPrice: floatp(5000.9),
		MaxPrice: floatp(15000),
	})

	u, err := url.Parse(got)
	if err != nil {
		t.Fatalf("unparseable URL: %v", err)
	}
	q := u.Query()
	if q.Get("_nkw") != "Honda Civic low miles" {
		t.Fatalf("unexpected _nkw: %q", q.Get("_nkw"))
	}
	if q.Get("_udlo") != "5000" {
		t.Fatalf("min price should serialize as whole units, got %q", q.Get("_udlo"))
	}
	if q.Get("_udhi") != "15000" {
		t.Fatalf("unexpected _udhi: %q", q.Get("_udhi"))
	}
}

const ebayPage = `
<html><body><ul>
  <li class="s-item" data-view="mi:1686|iid:101">
    <div class="s-item__title">2018 Honda Civic EX</div>
    <span class="s-item__price">$18,500.00</span>
    <span class="s-item__dynamic">42,000 miles</span>
    <span class="s-item__location">from Dallas, TX</span>
    <img class="s-item__image-img" src="https://i.ebayimg.com/images/1.jpg"/>
  </li>
  <li class="s-item">
    <div class="s-item__title"></div>
    <span class="s-item__price">Contact seller</span>
  </li>
  <li class="s-item">
    <div class="s-item__title">Project car, spares or repair</div>
    <img class="s-item__image-img" data-src="https://i.ebayimg.com/images/lazy.jpg"/>
  </li>
</ul></body></html>`

func TestEbayExtractListings(t *testing.T) {
	a := NewEbayAdapter()
	listings, err := a.ExtractListings(ebayPage, domain.SearchCriteria{Location: "Texas"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(listings) != 3 {
		t.Fatalf("expected 3 listings, got %d", len(listings))
	}

	first := listings[0]
	if first.ListingID != "mi:1686|iid:101" {
		t.Fatalf("expected id from markup, got %q", first.ListingID)
	}
	if first.Title != "2018 Honda Civic EX" || first.Price != 18500.0 {
		t.Fatalf("unexpected first listing: %+v", first)
	}
	if first.MileageKM == nil || *first.MileageKM != 42000 {
		t.Fatalf("unexpected mileage: %v", first.MileageKM)
	}
	if first.Location != "from Dallas, TX" {
		t.Fatalf("unexpected location: %q", first.Location)
	}
	if len(first.Images) != 1 || first.Images[0] != "https://i.ebayimg.com/images/1.jpg" {
		t.Fatalf("unexpected images: %v", first.Images)
	}

	// Card with no title, no parseable price, no id, no image.
	second := listings[1]
	if second.Title != "eBay Listing" {
		t.Fatalf("missing title should fall back to default, got %q", second.Title)
	}
	if second.Price != 0.0 {
		t.Fatalf("unparsable price should yield 0.0, got %v", second.Price)
	}
	if second.ListingID != "ebay-2" {
		t.Fatalf("expected synthesized positional id, got %q", second.ListingID)
	}
	if second.MileageKM != nil {
		t.Fatal("missing mileage should stay absent")
	}
	if second.Location != "Texas" {
		t.Fatalf("missing location should fall back to criteria, got %q", second.Location)
	}
	if len(second.Images) != 0 {
		t.Fatalf("missing image should yield empty images, got %v", second.Images)
	}

	// Lazy-loaded image and another synthesized id.
	third := listings[2]
	if third.ListingID != "ebay-3" {
		t.Fatalf("expected synthesized id ebay-3, got %q", third.ListingID)
	}
	if third.ListingID == second.ListingID {
		t.Fatal("synthesized ids must be unique within one extraction")
	}
	if len(third.Images) != 1 || third.Images[0] != "https://i.ebayimg.com/images/lazy.jpg" {
		t.Fatalf("data-src image not picked up: %v", third.Images)
	}
}

func TestEbayExtractListingsEmptyIDAttribute(t *testing.T) {
	page := `
<html><body><ul>
  <li class="s-item" data-view="">
    <div class="s-item__title">First</div>
  </li>
  <li class="s-item" data-view="">
    <div class="s-item__title">Second</div>
  </li>
</ul></body></html>`

	a := NewEbayAdapter()
	listings, err := a.ExtractListings(page, domain.SearchCriteria{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(listings) != 2 {
		t.Fatalf("expected 2 listings, got %d", len(listings))
	}
	if listings[0].ListingID != "ebay-1" || listings[1].ListingID != "ebay-2" {
		t.Fatalf("empty id attribute must synthesize unique ids, got %q and %q",
			listings[0].ListingID, listings[1].ListingID)
	}
}

func TestEbayExtractListingsEmptyPage(t *testing.T) {
	a := NewEbayAdapter()
	listings, err := a.ExtractListings("<html><body></body></html>", domain.SearchCriteria{})
	if err != nil {
		t.Fatalf("empty card set must not error: %v", err)
	}
	if len(listings) != 0 {
		t.Fatalf("expected no listings, got %d", len(listings))
	}
}
