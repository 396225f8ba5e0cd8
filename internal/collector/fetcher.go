package collector

import (
	"context"
	"errors"
	"fmt"

	"StonksPoller/internal/model"
)

// Fetcher defines the interface for fetching one symbol's quote.
type Fetcher interface {
	Fetch(ctx context.Context, symbol model.Symbol) (map[string]any, error)
	Name() string
}

var (
	// ErrNotObject is returned when the body is valid JSON but not an object.
	ErrNotObject = errors.New("response body is not a JSON object")
	// ErrEmptyRecord is returned for an empty JSON object.
	ErrEmptyRecord = errors.New("response body has no fields")
)

// FetchError describes why a symbol produced no record.
// StatusCode is zero when the request never got a response.
type FetchError struct {
	Symbol     model.Symbol
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 && e.Err == nil {
		return fmt.Sprintf("fetch %s: status %d", e.Symbol, e.StatusCode)
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: status %d: %v", e.Symbol, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetch %s: %v", e.Symbol, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }
