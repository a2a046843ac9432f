package models

import (
	"errors"
	"fmt"
)

// ErrCountryList marks a failed country list load. Selectors show an error
// state and no series fetching is attempted for the affected request.
var ErrCountryList = errors.New("country list unavailable")

// RequestFailure is a non-success response from the indicator source.
type RequestFailure struct {
	Status int
}

func (e *RequestFailure) Error() string {
	return fmt.Sprintf("indicator source returned status %d", e.Status)
}

// ParseFailure is a response body that could not be decoded.
type ParseFailure struct {
	Err error
}

func (e *ParseFailure) Error() string {
	return fmt.Sprintf("malformed indicator response: %v", e.Err)
}

func (e *ParseFailure) Unwrap() error { return e.Err }

// IndicatorFetchError fails a whole aggregation: one indicator request for
// one country did not complete, so no partial bundle is cached.
type IndicatorFetchError struct {
	Country   string
	Indicator string
	Err       error
}

func (e *IndicatorFetchError) Error() string {
	return fmt.Sprintf("load %s for %s: %v", e.Indicator, e.Country, e.Err)
}

func (e *IndicatorFetchError) Unwrap() error { return e.Err }
