package adapters

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/AutoHawkAI/autohawk-mvp/engine/domain"
	"github.com/AutoHawkAI/autohawk-mvp/engine/extract"
)

// SiteEbay is the site identifier for the eBay Motors adapter.
const SiteEbay = "ebay"

// ebaySelectors describe the structure of an eBay search result card.
type ebaySelectors struct {
	card     string
	title    string
	price    string
	mileage  string
	location string
	image    string
}

// EbayAdapter scrapes eBay Motors car listings.
type EbayAdapter struct {
	baseURL string
	sel     ebaySelectors
}

// NewEbayAdapter creates the eBay Motors adapter.
func NewEbayAdapter() *EbayAdapter {
	return &EbayAdapter{
		baseURL: "https://www.ebay.com/sch/Cars-Trucks/6001",
		sel: ebaySelectors{
			card:     "li.s-item",
			title:    ".s-item__title",
			price:    ".s-item__price",
			mileage:  ".s-item__dynamic",
			location: ".s-item__location",
			image:    ".s-item__image-img",
		},
	}
}

// Site implements Adapter.
func (a *EbayAdapter) Site() string { return SiteEbay }

// BuildSearchURL implements Adapter. Make, model, and free keywords are
// folded into the single _nkw query parameter per eBay convention; prices
// are serialized as whole units.
func (a *EbayAdapter) BuildSearchURL(criteria domain.SearchCriteria) string {
	params := url.Values{}

	var keywords []string
	if criteria.Make != "" {
		keywords = append(keywords, criteria.Make)
	}
	if criteria.Model != "" {
		keywords = append(keywords, criteria.Model)
	}
	keywords = append(keywords, criteria.Keywords...)
	if len(keywords) > 0 {
		params.Set("_nkw", strings.Join(keywords, " "))
	}
	if criteria.MinPrice != nil {
		params.Set("_udlo", fmt.Sprint(int(*criteria.MinPrice)))
	}
	if criteria.MaxPrice != nil {
		params.Set("_udhi", fmt.Sprint(int(*criteria.MaxPrice)))
	}

	if len(params) == 0 {
		return a.baseURL
	}
	return a.baseURL + "?" + params.Encode()
}

// ExtractListings implements Adapter.
func (a *EbayAdapter) ExtractListings(page string, criteria domain.SearchCriteria) ([]domain.ListingRecord, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		return nil, domain.NewExtractionError(SiteEbay, err)
	}

	var listings []domain.ListingRecord
	doc.Find(a.sel.card).Each(func(i int, card *goquery.Selection) {
		title := extract.CleanText(card.Find(a.sel.title).First().Text())
		if title == "" {
			title = "eBay Listing"
		}

		price, _ := extract.Price(extract.CleanText(card.Find(a.sel.price).First().Text()))

		rec := domain.ListingRecord{
			ListingID: listingID(card, "data-view", fmt.Sprintf("%s-%d", SiteEbay, i+1)),
			Website:   SiteEbay,
			Title:     title,
			Price:     price,
		}

		if mileage, ok := extract.Int(extract.CleanText(card.Find(a.sel.mileage).First().Text())); ok {
			rec.MileageKM = &mileage
		}

		rec.Location = extract.CleanText(card.Find(a.sel.location).First().Text())
		if rec.Location == "" {
			rec.Location = criteria.Location
		}

		img := card.Find(a.sel.image).First()
		src := img.AttrOr("src", img.AttrOr("data-src", ""))
		if src != "" {
			rec.Images = []string{src}
		}

		listings = append(listings, rec)
	})
	return listings, nil
}
