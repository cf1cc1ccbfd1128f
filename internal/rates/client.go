// Package rates fetches current currency exchange rates from public
// providers. Lookups are best-effort and independent of the ledger: a
// provider outage never affects movement recording or reporting.
package rates

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Leobor91/Finanzas-Personales/internal/cache"
)

const (
	defaultPrimaryURL  = "https://api.exchangerate.host/latest"
	defaultFallbackURL = "https://open.er-api.com/v6/latest"
	defaultTimeout     = 5 * time.Second

	cacheSize = 32
	cacheTTL  = 10 * time.Minute
)

// Latest is a snapshot of exchange rates for one base currency.
type Latest struct {
	Base  string                     `json:"base"`
	Date  string                     `json:"date"`
	Rates map[string]decimal.Decimal `json:"rates"`
}

// Client queries exchangerate.host first and falls back to
// open.er-api.com when the primary is unavailable or rejects the request.
type Client struct {
	httpClient  *http.Client
	primaryURL  string
	fallbackURL string
	snapshots   *cache.LRUCache[Latest]
}

func NewClient(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		httpClient:  &http.Client{Timeout: timeout},
		primaryURL:  defaultPrimaryURL,
		fallbackURL: defaultFallbackURL,
		snapshots:   cache.NewLRUCache[Latest](cacheSize, cacheTTL),
	}
}

// Fetch returns the latest rates for base against the requested symbols.
func (c *Client) Fetch(ctx context.Context, base string, symbols []string) (Latest, error) {
	if base == "" {
		base = "COP"
	}
	if len(symbols) == 0 {
		symbols = []string{"USD", "EUR"}
	}

	key := base + "/" + strings.Join(symbols, ",")
	if cached, ok := c.snapshots.Get(key); ok {
		return cached, nil
	}

	latest, err := c.fetchPrimary(ctx, base, symbols)
	if err == nil {
		c.snapshots.Set(key, latest)
		return latest, nil
	}
	slog.WarnContext(ctx, "Primary rates provider failed, trying fallback",
		"base", base, "error", err)

	latest, fbErr := c.fetchFallback(ctx, base, symbols)
	if fbErr != nil {
		return Latest{}, fmt.Errorf("fetch rates for %s: %w", base, fbErr)
	}
	c.snapshots.Set(key, latest)
	return latest, nil
}

func (c *Client) fetchPrimary(ctx context.Context, base string, symbols []string) (Latest, error) {
	q := url.Values{}
	q.Set("base", base)
	q.Set("symbols", strings.Join(symbols, ","))

	var payload struct {
		Success *bool                      `json:"success"`
		Base    string                     `json:"base"`
		Date    string                     `json:"date"`
		Rates   map[string]decimal.Decimal `json:"rates"`
	}
	if err := c.getJSON(ctx, c.primaryURL+"?"+q.Encode(), &payload); err != nil {
		return Latest{}, err
	}
	if payload.Success != nil && !*payload.Success {
		return Latest{}, fmt.Errorf("provider reported failure")
	}
	if len(payload.Rates) == 0 {
		return Latest{}, fmt.Errorf("provider returned no rates")
	}
	if payload.Base == "" {
		payload.Base = base
	}
	return Latest{Base: payload.Base, Date: payload.Date, Rates: payload.Rates}, nil
}

func (c *Client) fetchFallback(ctx context.Context, base string, symbols []string) (Latest, error) {
	var payload struct {
		Result            string                     `json:"result"`
		TimeLastUpdateUTC string                     `json:"time_last_update_utc"`
		Rates             map[string]decimal.Decimal `json:"rates"`
	}
	if err := c.getJSON(ctx, c.fallbackURL+"/"+url.PathEscape(base), &payload); err != nil {
		return Latest{}, err
	}
	if len(payload.Rates) == 0 {
		return Latest{}, fmt.Errorf("fallback returned no rates")
	}

	wanted := make(map[string]decimal.Decimal, len(symbols))
	for _, s := range symbols {
		if rate, ok := payload.Rates[s]; ok {
			wanted[s] = rate
		}
	}
	return Latest{Base: base, Date: payload.TimeLastUpdateUTC, Rates: wanted}, nil
}

func (c *Client) getJSON(ctx context.Context, rawURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request rates: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("rates provider returned status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode rates: %w", err)
	}
	return nil
}
