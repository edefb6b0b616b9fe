// Package brapi implements domain.PriceProvider against the brapi.dev
// quote API. Timeout, short-TTL caching and payload validation live here;
// callers only ever see a price or an error.
package brapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/oliveirafelipe/carteira-backend/internal/domain"
)

const defaultBaseURL = "https://brapi.dev/api"

type cachedQuote struct {
	price   decimal.Decimal
	fetched time.Time
}

// Client fetches quotes from brapi.dev with an in-memory TTL cache.
// The cache is explicit per-client state; constructing two clients gives
// two independent caches.
type Client struct {
	baseURL string
	token   string
	cli     *http.Client
	ttl     time.Duration

	mu    sync.RWMutex
	cache map[string]cachedQuote
}

// NewClient creates a brapi client. token may be empty for the public
// rate-limited tier. timeout bounds each quote request; ttl bounds how
// long a fetched quote is reused.
func NewClient(baseURL, token string, timeout, ttl time.Duration) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		cli:     &http.Client{Timeout: timeout},
		ttl:     ttl,
		cache:   make(map[string]cachedQuote),
	}
}

// GetCurrentPrice returns the latest regular market price for a ticker.
// Cache hits inside the TTL never touch the network.
func (c *Client) GetCurrentPrice(ctx context.Context, ticker string) (decimal.Decimal, error) {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	if ticker == "" {
		return decimal.Zero, domain.ErrPriceNotFound
	}

	c.mu.RLock()
	if q, ok := c.cache[ticker]; ok && time.Since(q.fetched) < c.ttl {
		c.mu.RUnlock()
		return q.price, nil
	}
	c.mu.RUnlock()

	url := fmt.Sprintf("%s/quote/%s", c.baseURL, ticker)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return decimal.Zero, err
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.cli.Do(req)
	if err != nil {
		return decimal.Zero, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return decimal.Zero, domain.ErrPriceNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return decimal.Zero, fmt.Errorf("brapi http %d", resp.StatusCode)
	}

	var raw struct {
		Results []struct {
			Symbol             string          `json:"symbol"`
			RegularMarketPrice decimal.Decimal `json:"regularMarketPrice"`
		} `json:"results"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return decimal.Zero, err
	}
	if len(raw.Results) == 0 {
		return decimal.Zero, domain.ErrPriceNotFound
	}

	price := raw.Results[0].RegularMarketPrice
	if !price.IsPositive() {
		return decimal.Zero, domain.ErrPriceNotFound
	}

	c.mu.Lock()
	c.cache[ticker] = cachedQuote{price: price, fetched: time.Now()}
	c.mu.Unlock()

	return price, nil
}
