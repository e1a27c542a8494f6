package adapters

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/AutoHawkAI/autohawk-mvp/engine/domain"
	"github.com/AutoHawkAI/autohawk-mvp/engine/extract"
)

// SiteAutoTrader is the site identifier for the AutoTrader adapter.
const SiteAutoTrader = "autotrader"

// autoTraderSelectors describe the structure of an AutoTrader result card.
// TODO: confirm these against live autotrader.co.uk markup.
type autoTraderSelectors struct {
	card     string
	title    string
	price    string
	mileage  string
	location string
	image    string
}

// AutoTraderAdapter scrapes search results from autotrader.co.uk.
type AutoTraderAdapter struct {
	baseURL string
	sel     autoTraderSelectors
}

// NewAutoTraderAdapter creates the AutoTrader adapter.
func NewAutoTraderAdapter() *AutoTraderAdapter {
	return &AutoTraderAdapter{
		baseURL: "https://www.autotrader.co.uk/car-search",
		sel: autoTraderSelectors{
			card:     ".search-results .listing",
			title:    ".listing-title",
			price:    ".listing-price",
			mileage:  ".listing-mileage",
			location: ".listing-location",
			image:    "img",
		},
	}
}

// Site implements Adapter.
func (a *AutoTraderAdapter) Site() string { return SiteAutoTrader }

// BuildSearchURL implements Adapter.
func (a *AutoTraderAdapter) BuildSearchURL(criteria domain.SearchCriteria) string {
	params := url.Values{}
	if criteria.Make != "" {
		params.Set("makeCodeList", criteria.Make)
	}
	if criteria.Model != "" {
		params.Set("modelCodeList", criteria.Model)
	}
	if criteria.MinYear != nil {
		params.Set("startYear", fmt.Sprint(*criteria.MinYear))
	}
	if criteria.MaxYear != nil {
		params.Set("endYear", fmt.Sprint(*criteria.MaxYear))
	}
	if criteria.MinPrice != nil {
		params.Set("minPrice", fmt.Sprint(int(*criteria.MinPrice)))
	}
	if criteria.MaxPrice != nil {
		params.Set("maxPrice", fmt.Sprint(int(*criteria.MaxPrice)))
	}
	if criteria.Location != "" {
		params.Set("zip", criteria.Location)
	}
	if len(criteria.Keywords) > 0 {
		params.Set("keywordPhrases", strings.Join(criteria.Keywords, " "))
	}

	if len(params) == 0 {
		return a.baseURL
	}
	return a.baseURL + "?" + params.Encode()
}

// ExtractListings implements Adapter.
func (a *AutoTraderAdapter) ExtractListings(page string, criteria domain.SearchCriteria) ([]domain.ListingRecord, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		return nil, domain.NewExtractionError(SiteAutoTrader, err)
	}

	var listings []domain.ListingRecord
	doc.Find(a.sel.card).Each(func(i int, card *goquery.Selection) {
		title := extract.CleanText(card.Find(a.sel.title).First().Text())
		if title == "" {
			title = "AutoTrader Listing"
		}

		price, _ := extract.Price(extract.CleanText(card.Find(a.sel.price).First().Text()))

		rec := domain.ListingRecord{
			ListingID: listingID(card, "data-listingid", fmt.Sprintf("%s-%d", SiteAutoTrader, i+1)),
			Website:   SiteAutoTrader,
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

		if src := card.Find(a.sel.image).First().AttrOr("src", ""); src != "" {
			rec.Images = []string{src}
		}

		listings = append(listings, rec)
	})
	return listings, nil
}
