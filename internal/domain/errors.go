package domain

import (
	"errors"
	"fmt"
)

// classification
var (
	ErrUnknownMarketplace = errors.New("unknown marketplace")
	ErrMissingAppID       = errors.New("missing app id")
	ErrMissingAppName     = errors.New("missing app name")
)

var ErrInvalidCriteria = errors.New("invalid filter criteria")

// remote status classes, returned by the outbound transport
var (
	ErrNotFound     = errors.New("remote: not found")
	ErrUnauthorized = errors.New("remote: unauthorized")
	ErrForbidden    = errors.New("remote: forbidden")
)

// FetchError is a backend failure for one marketplace. It never aborts the
// process; the request boundary converts it into a warning.
type FetchError struct {
	Marketplace Marketplace
	Err         error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s reviews: %v", e.Marketplace, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// IsClassification reports whether err rejects the input URL.
func IsClassification(err error) bool {
	return errors.Is(err, ErrUnknownMarketplace) ||
		errors.Is(err, ErrMissingAppID) ||
		errors.Is(err, ErrMissingAppName)
}
