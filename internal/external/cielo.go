// Package external contains clients for third-party data providers.
package external

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/solsmart/solsmart-backend/internal/httputil"
	"github.com/solsmart/solsmart-backend/internal/models"
)

const cieloBaseURL = "https://feed-api.cielo.finance/api/v1"

// ErrWalletNotFound means Cielo has no record of the address. Callers
// treat this as "no trading history", not as a provider failure.
var ErrWalletNotFound = errors.New("wallet not found in Cielo")

// StatusError carries a non-success provider status code.
type StatusError struct {
	Status int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("cielo returned status %d", e.Status)
}

type CieloOptions struct {
	BaseURL string        // defaults to the production feed API
	Timeout time.Duration // defaults to 15s
}

// CieloClient issues authenticated read-only requests to the Cielo feed
// API. An empty API key puts the client in disabled mode: Enabled()
// returns false and callers must not invoke the fetch methods.
type CieloClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

func NewCieloClient(apiKey string, opts CieloOptions) *CieloClient {
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = cieloBaseURL
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	return &CieloClient{
		apiKey:     apiKey,
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Enabled reports whether a provider credential is configured. When false
// the whole validation pipeline runs in a deterministic disabled mode and
// no network calls are made.
func (c *CieloClient) Enabled() bool {
	return c.apiKey != ""
}

// GetPortfolio fetches the wallet's current total USD valuation.
// Single attempt: validation queries are never retried.
func (c *CieloClient) GetPortfolio(ctx context.Context, address string) (*models.Portfolio, error) {
	var envelope struct {
		Data models.Portfolio `json:"data"`
	}
	if err := c.get(ctx, "/"+url.PathEscape(address)+"/portfolio", httputil.NoRetry, &envelope); err != nil {
		return nil, fmt.Errorf("cielo portfolio: %w", err)
	}
	return &envelope.Data, nil
}

// GetTokenPnl fetches the wallet's per-token PnL records (order as
// returned by the provider). Single attempt, same as GetPortfolio.
func (c *CieloClient) GetTokenPnl(ctx context.Context, address string) ([]models.TokenPnl, error) {
	var envelope struct {
		Data struct {
			Items []models.TokenPnl `json:"items"`
		} `json:"data"`
	}
	if err := c.get(ctx, "/"+url.PathEscape(address)+"/pnl/tokens", httputil.NoRetry, &envelope); err != nil {
		return nil, fmt.Errorf("cielo token pnl: %w", err)
	}
	return envelope.Data.Items, nil
}

// GetTokenPnlWithRetry is the retrying variant used by the read-only
// analytics routes, where a transient 5xx is worth another attempt.
func (c *CieloClient) GetTokenPnlWithRetry(ctx context.Context, address string) ([]models.TokenPnl, error) {
	var envelope struct {
		Data struct {
			Items []models.TokenPnl `json:"items"`
		} `json:"data"`
	}
	if err := c.get(ctx, "/"+url.PathEscape(address)+"/pnl/tokens", httputil.DefaultRetry, &envelope); err != nil {
		return nil, fmt.Errorf("cielo token pnl: %w", err)
	}
	return envelope.Data.Items, nil
}

// GetTransactions fetches a page of the wallet's transaction feed.
// Pass-through route only, so it retries like the other analytics fetches.
func (c *CieloClient) GetTransactions(ctx context.Context, address string, limit int, cursor string) ([]models.Transaction, error) {
	q := url.Values{}
	q.Set("wallet", address)
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	if cursor != "" {
		q.Set("cursor", cursor)
	}

	var envelope struct {
		Data []models.Transaction `json:"data"`
	}
	if err := c.get(ctx, "/transactions?"+q.Encode(), httputil.DefaultRetry, &envelope); err != nil {
		return nil, fmt.Errorf("cielo transactions: %w", err)
	}
	return envelope.Data, nil
}

// GetRelatedWallets fetches wallets Cielo links to the address. The entry
// shape is undocumented, so records pass through untyped; the envelope key
// has appeared as both related_wallets and wallets.
func (c *CieloClient) GetRelatedWallets(ctx context.Context, address string) ([]json.RawMessage, int, error) {
	var envelope struct {
		RelatedWallets []json.RawMessage `json:"related_wallets"`
		Wallets        []json.RawMessage `json:"wallets"`
		Count          int               `json:"count"`
	}
	if err := c.get(ctx, "/"+url.PathEscape(address)+"/related-wallets", httputil.DefaultRetry, &envelope); err != nil {
		return nil, 0, fmt.Errorf("cielo related wallets: %w", err)
	}

	wallets := envelope.RelatedWallets
	if wallets == nil {
		wallets = envelope.Wallets
	}
	return wallets, envelope.Count, nil
}

func (c *CieloClient) get(ctx context.Context, path string, retry httputil.RetryConfig, out any) error {
	if c.apiKey == "" {
		return errors.New("API key not configured")
	}

	resp, err := httputil.Do(ctx, c.httpClient, retry, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("X-API-KEY", c.apiKey)
		req.Header.Set("Content-Type", "application/json")
		return req, nil
	})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrWalletNotFound
	case resp.StatusCode != http.StatusOK:
		return &StatusError{Status: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	return nil
}
