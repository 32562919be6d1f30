package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"SoftWork/internal/model"
)

// DefaultBaseURL is the public Alpha Vantage endpoint.
const DefaultBaseURL = "https://www.alphavantage.co"

// AlphaVantageFetcher implements Fetcher using the GLOBAL_QUOTE function.
type AlphaVantageFetcher struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

// NewAlphaVantageFetcher creates a new fetcher with optional proxy support.
func NewAlphaVantageFetcher(baseURL, apiKey, proxyURL string) *AlphaVantageFetcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &AlphaVantageFetcher{
		BaseURL: strings.TrimRight(baseURL, "/"),
		APIKey:  apiKey,
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
	}
}

func (f *AlphaVantageFetcher) Name() string { return "alphavantage" }

// globalQuoteResponse is the expected JSON shape. Rate-limited answers carry
// Note or Information instead of a quote.
type globalQuoteResponse struct {
	GlobalQuote map[string]string `json:"Global Quote"`
	Note        string            `json:"Note"`
	Information string            `json:"Information"`
}

func (f *AlphaVantageFetcher) FetchQuote(ctx context.Context, symbol string) (*model.Quote, error) {
	q := url.Values{}
	q.Set("function", "GLOBAL_QUOTE")
	q.Set("symbol", symbol)
	q.Set("apikey", f.APIKey)
	endpoint := f.BaseURL + "/query?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch quote: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("fetch quote: status %d, body: %s", resp.StatusCode, string(body))
	}

	var result globalQuoteResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode quote: %w", err)
	}
	return parseGlobalQuote(symbol, &result)
}

func parseGlobalQuote(symbol string, r *globalQuoteResponse) (*model.Quote, error) {
	if len(r.GlobalQuote) == 0 {
		switch {
		case r.Note != "":
			return nil, fmt.Errorf("%w: %s", ErrNoQuote, r.Note)
		case r.Information != "":
			return nil, fmt.Errorf("%w: %s", ErrNoQuote, r.Information)
		}
		return nil, ErrNoQuote
	}

	price, err := decimal.NewFromString(strings.TrimSpace(r.GlobalQuote["05. price"]))
	if err != nil {
		return nil, fmt.Errorf("parse price: %w", err)
	}
	change, err := decimal.NewFromString(strings.TrimSpace(r.GlobalQuote["09. change"]))
	if err != nil {
		return nil, fmt.Errorf("parse change: %w", err)
	}
	return &model.Quote{
		Symbol:        symbol,
		Price:         price,
		Change:        change,
		ChangePercent: r.GlobalQuote["10. change percent"],
	}, nil
}
