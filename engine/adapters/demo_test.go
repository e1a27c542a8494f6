package adapters

import (
	"testing"

	"github.com/AutoHawkAI/autohawk-mvp/engine/domain"
)

func TestDemoSynthesizeDeterministic(t *testing.T) {
	a := NewDemoAdapter("generic")
	criteria := domain.SearchCriteria{Make: "Toyota", Model: "Yaris", MinPrice: floatp(6000), Location: "Cardiff"}

	first := a.Synthesize(criteria)
	second := a.Synthesize(criteria)
	if len(first) != 2 || len(second) != 2 {
		t.Fatalf("expected 2 listings per scrape, got %d and %d", len(first), len(second))
	}

	for i := range first {
		if first[i].ListingID != second[i].ListingID || first[i].Price != second[i].Price {
			t.Fatalf("synthesis must be deterministic: %+v vs %+v", first[i], second[i])
		}
	}

	if first[0].ListingID != "generic-1" || first[1].ListingID != "generic-2" {
		t.Fatalf("unexpected ids: %s, %s", first[0].ListingID, first[1].ListingID)
	}
	if first[0].Title != "Toyota Yaris Listing #1" {
		t.Fatalf("unexpected title: %q", first[0].Title)
	}
	if first[0].Price != 8500 || first[1].Price != 11000 {
		t.Fatalf("prices should step off the requested minimum: %v, %v", first[0].Price, first[1].Price)
	}
	if first[0].Location != "Cardiff" {
		t.Fatalf("unexpected location: %q", first[0].Location)
	}
	if len(first[0].Images) != 1 {
		t.Fatal("demo listings should carry one image for the vision step")
	}
}

func TestDemoSynthesizeDefaults(t *testing.T) {
	a := NewDemoAdapter("generic")
	listings := a.Synthesize(domain.SearchCriteria{})
	if listings[0].Title != "Used Car #1" {
		t.Fatalf("unexpected default title: %q", listings[0].Title)
	}
	if listings[0].Location != "Online" {
		t.Fatalf("unexpected default location: %q", listings[0].Location)
	}
	if listings[0].Price != 12500 {
		t.Fatalf("default min price should be 10000, got first price %v", listings[0].Price)
	}
}

func TestRegistryLazyReuse(t *testing.T) {
	r := NewRegistry()
	a := r.Get(SiteEbay)
	b := r.Get(SiteEbay)
	if a != b {
		t.Fatal("registry must reuse one adapter instance per site")
	}
	if _, ok := a.(*EbayAdapter); !ok {
		t.Fatalf("unexpected adapter type %T", a)
	}
}

func TestRegistryUnknownSiteGetsDemo(t *testing.T) {
	r := NewRegistry()
	a := r.Get("craigslist")
	if a.Site() != "craigslist" {
		t.Fatalf("unexpected site: %s", a.Site())
	}
	if _, ok := a.(*DemoAdapter); !ok {
		t.Fatalf("unknown sites should resolve to the demo adapter, got %T", a)
	}
}

func TestRegistryRegisterOverride(t *testing.T) {
	r := NewRegistry()
	custom := NewDemoAdapter(SiteEbay)
	r.Register(SiteEbay, custom)
	if got := r.Get(SiteEbay); got != Adapter(custom) {
		t.Fatal("registered adapter should take precedence")
	}
}
