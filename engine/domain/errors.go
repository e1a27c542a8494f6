package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors.
var (
	ErrJobNotFound   = errors.New("job not found")
	ErrYearTooEarly  = errors.New("year before first production car")
	ErrNegativePrice = errors.New("price must be non-negative")
	ErrInvertedRange = errors.New("minimum exceeds maximum")
)

// FetchError reports a transport-level failure (timeout, connection error,
// non-success status) against a target site. The pipeline catches it at the
// per-site boundary and skips the site.
type FetchError struct {
	Site string
	Err  error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.Site, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// NewFetchError wraps err with the originating site name.
func NewFetchError(site string, err error) *FetchError {
	return &FetchError{Site: site, Err: err}
}

// ExtractionError reports raw page content that cannot be parsed as markup
// at all. Missing or malformed individual fields degrade per-field instead
// and never produce this error.
type ExtractionError struct {
	Site string
	Err  error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extract %s: %v", e.Site, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// NewExtractionError wraps err with the originating site name.
func NewExtractionError(site string, err error) *ExtractionError {
	return &ExtractionError{Site: site, Err: err}
}

// ValidationError wraps a sentinel with the offending field and value.
type ValidationError struct {
	Field   string
	Value   string
	Wrapped error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation: %s: %s (value=%q)", e.Wrapped, e.Field, e.Value)
}

func (e *ValidationError) Unwrap() error { return e.Wrapped }

// NewValidationError creates a ValidationError.
func NewValidationError(field, value string, wrapped error) *ValidationError {
	return &ValidationError{Field: field, Value: value, Wrapped: wrapped}
}
