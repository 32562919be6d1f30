package collector

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"SoftWork/internal/metrics"
	"SoftWork/internal/model"
	"SoftWork/internal/strategy"
)

// DefaultSymbols is the fixed request order for tip collection.
var DefaultSymbols = []string{"AAPL", "MSFT", "GOOGL", "TSLA", "NVDA"}

// DefaultRequestDelay spaces consecutive quote requests for the free API tier.
const DefaultRequestDelay = 200 * time.Millisecond

// MockFetcher returns canned quotes for development and testing.
// Symbols missing from Quotes fail with ErrNoQuote unless Errors says otherwise.
type MockFetcher struct {
	Quotes map[string]*model.Quote
	Errors map[string]error
	Calls  []string
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchQuote(_ context.Context, symbol string) (*model.Quote, error) {
	m.Calls = append(m.Calls, symbol)
	if err, ok := m.Errors[symbol]; ok {
		return nil, err
	}
	if q, ok := m.Quotes[symbol]; ok {
		return q, nil
	}
	return nil, ErrNoQuote
}

// Collector turns per-symbol quotes into tip records.
type Collector struct {
	Fetcher Fetcher
	Symbols []string
	Delay   time.Duration
	Log     zerolog.Logger

	sleep func(ctx context.Context, d time.Duration) error
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher, symbols []string, delay time.Duration, log zerolog.Logger) *Collector {
	if len(symbols) == 0 {
		symbols = DefaultSymbols
	}
	return &Collector{
		Fetcher: fetcher,
		Symbols: symbols,
		Delay:   delay,
		Log:     log.With().Str("component", "collector").Str("source", fetcher.Name()).Logger(),
		sleep:   sleepContext,
	}
}

// Collect requests every symbol in order, one at a time, and returns the
// tips that could be built. It never fails: bad symbols are skipped and a
// panic in the fetcher yields an empty batch.
func (c *Collector) Collect(ctx context.Context) (tips []model.TipRecord) {
	defer func() {
		if r := recover(); r != nil {
			c.Log.Error().Interface("panic", r).Msg("tip collection aborted")
			tips = nil
		}
	}()

	c.Log.Info().Strs("symbols", c.Symbols).Msg("fetching trading tips")
	for i, symbol := range c.Symbols {
		if tip, err := c.collectOne(ctx, symbol); err != nil {
			c.Log.Warn().Err(err).Str("symbol", symbol).Msg("skipping symbol")
		} else {
			tips = append(tips, tip)
		}

		if i < len(c.Symbols)-1 && c.Delay > 0 {
			if err := c.sleep(ctx, c.Delay); err != nil {
				c.Log.Warn().Err(err).Int("collected", len(tips)).Msg("tip collection interrupted")
				return tips
			}
		}
	}
	c.Log.Info().Int("count", len(tips)).Msg("fetched tips from api")
	return tips
}

func (c *Collector) collectOne(ctx context.Context, symbol string) (model.TipRecord, error) {
	q, err := c.Fetcher.FetchQuote(ctx, symbol)
	if err != nil {
		outcome := "error"
		if errors.Is(err, ErrNoQuote) {
			outcome = "empty"
		}
		metrics.QuoteRequestsTotal.WithLabelValues(symbol, outcome).Inc()
		return model.TipRecord{}, err
	}
	if q == nil {
		metrics.QuoteRequestsTotal.WithLabelValues(symbol, "empty").Inc()
		return model.TipRecord{}, fmt.Errorf("%s: %w", symbol, ErrNoQuote)
	}
	metrics.QuoteRequestsTotal.WithLabelValues(symbol, "ok").Inc()
	q.Symbol = symbol
	return strategy.Classify(q), nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
