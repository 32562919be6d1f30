package collector

import (
	"context"
	"errors"

	"SoftWork/internal/model"
)

// ErrNoQuote is returned when the API answers without a usable quote object.
var ErrNoQuote = errors.New("no quote data")

// Fetcher defines the interface for fetching a single market quote.
type Fetcher interface {
	FetchQuote(ctx context.Context, symbol string) (*model.Quote, error)
	Name() string
}
