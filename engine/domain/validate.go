package domain

import "fmt"

// firstModelYear is the earliest acceptable model year (Benz Patent-Motorwagen).
const firstModelYear = 1886

// ValidateCriteria checks a SearchCriteria before a job starts. All fields
// are optional; only the fields that are present are checked.
func ValidateCriteria(c SearchCriteria) error {
	if c.MinYear != nil && *c.MinYear < firstModelYear {
		return NewValidationError("min_year", fmt.Sprint(*c.MinYear), ErrYearTooEarly)
	}
	if c.MaxYear != nil && *c.MaxYear < firstModelYear {
		return NewValidationError("max_year", fmt.Sprint(*c.MaxYear), ErrYearTooEarly)
	}
	if c.MinYear != nil && c.MaxYear != nil && *c.MinYear > *c.MaxYear {
		return NewValidationError("min_year", fmt.Sprint(*c.MinYear), ErrInvertedRange)
	}
	if c.MinPrice != nil && *c.MinPrice < 0 {
		return NewValidationError("min_price", fmt.Sprint(*c.MinPrice), ErrNegativePrice)
	}
	if c.MaxPrice != nil && *c.MaxPrice < 0 {
		return NewValidationError("max_price", fmt.Sprint(*c.MaxPrice), ErrNegativePrice)
	}
	if c.MinPrice != nil && c.MaxPrice != nil && *c.MinPrice > *c.MaxPrice {
		return NewValidationError("min_price", fmt.Sprint(*c.MinPrice), ErrInvertedRange)
	}
	return nil
}
