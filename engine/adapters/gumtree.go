package adapters

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/AutoHawkAI/autohawk-mvp/engine/domain"
	"github.com/AutoHawkAI/autohawk-mvp/engine/extract"
)

// SiteGumtree is the site identifier for the Gumtree adapter.
const SiteGumtree = "gumtree"

var (
	gumtreePriceRe   = regexp.MustCompile(`£[\d,]+(?:\.\d+)?`)
	gumtreeMileageRe = regexp.MustCompile(`(?i)([\d,]+)\s*miles`)
)

// GumtreeAdapter scrapes car listings from gumtree.com. Gumtree encodes make
// and model as URL path segments rather than query parameters, and prices as
// a single "min_max" range parameter.
type GumtreeAdapter struct {
	baseURL string
}

// NewGumtreeAdapter creates the Gumtree adapter.
func NewGumtreeAdapter() *GumtreeAdapter {
	return &GumtreeAdapter{baseURL: "https://www.gumtree.com/cars/uk"}
}

// Site implements Adapter.
func (a *GumtreeAdapter) Site() string { return SiteGumtree }

// BuildSearchURL implements Adapter. Keywords and location have no Gumtree
// search parameter and are omitted.
func (a *GumtreeAdapter) BuildSearchURL(criteria domain.SearchCriteria) string {
	base := a.baseURL
	if slug := slugify(criteria.Make); slug != "" {
		base += "/" + slug
		if slug := slugify(criteria.Model); slug != "" {
			base += "/" + slug
		}
	}

	params := url.Values{}
	if criteria.MinPrice != nil || criteria.MaxPrice != nil {
		min := 0
		if criteria.MinPrice != nil {
			min = int(*criteria.MinPrice)
		}
		max := ""
		if criteria.MaxPrice != nil {
			max = fmt.Sprint(int(*criteria.MaxPrice))
		}
		params.Set("price", fmt.Sprintf("%d_%s", min, max))
		params.Set("sort", "date")
	}

	if len(params) == 0 {
		return base
	}
	return base + "?" + params.Encode()
}

// ExtractListings implements Adapter. Gumtree cards carry most attributes as
// free text, so price and mileage are pulled out of the card text by pattern.
func (a *GumtreeAdapter) ExtractListings(page string, criteria domain.SearchCriteria) ([]domain.ListingRecord, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		return nil, domain.NewExtractionError(SiteGumtree, err)
	}

	var listings []domain.ListingRecord
	doc.Find("article[data-q=search-result]").Each(func(i int, card *goquery.Selection) {
		anchor := card.Find("a[data-q=search-result-anchor]").First()
		title := extract.CleanText(anchor.Find("[class*=title]").First().Text())
		if title == "" {
			title = extract.CleanText(anchor.Text())
		}
		if title == "" {
			title = "Gumtree Listing"
		}

		cardText := extract.CleanText(card.Text())

		var price float64
		if m := gumtreePriceRe.FindString(cardText); m != "" {
			price, _ = extract.Price(m)
		}

		rec := domain.ListingRecord{
			ListingID: listingID(card, "data-ad-id", fmt.Sprintf("%s-%d", SiteGumtree, i+1)),
			Website:   SiteGumtree,
			Title:     title,
			Price:     price,
		}

		if m := gumtreeMileageRe.FindStringSubmatch(cardText); m != nil {
			if mileage, ok := extract.Int(m[1]); ok {
				rec.MileageKM = &mileage
			}
		}

		rec.Location = extract.CleanText(card.Find("[class*=location]").First().Text())
		if rec.Location == "" {
			rec.Location = criteria.Location
		}

		if src := card.Find("img").First().AttrOr("src", ""); src != "" {
			rec.Images = []string{src}
		}

		listings = append(listings, rec)
	})
	return listings, nil
}

// slugify lowercases s and joins its words with dashes for use as a URL
// path segment.
func slugify(s string) string {
	fields := strings.Fields(strings.ToLower(strings.TrimSpace(s)))
	return strings.Join(fields, "-")
}
