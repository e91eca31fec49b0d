// Package lnbits is a read-only client for the LNbits wallet API and its
// LNURLp extension.
package lnbits

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/rocjay1/piggy-notifier/internal/models"
)

var (
	// ErrUnavailable covers every failure to get a usable answer: transport
	// errors, timeouts, non-200 statuses and undecodable bodies. Callers skip
	// the current cycle and never treat it as an empty or zero result.
	ErrUnavailable = errors.New("wallet service unavailable")

	// ErrUnexpectedFormat is returned when a list endpoint answers with
	// something other than a JSON array.
	ErrUnexpectedFormat = errors.New("unexpected response format")

	// ErrPayLinkNotFound is returned when no pay link has the requested id.
	ErrPayLinkNotFound = errors.New("pay link not found")
)

const requestTimeout = 10 * time.Second

// Client talks to one LNbits wallet with its read-only API key.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a Client for the instance at baseURL.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: requestTimeout},
	}
}

// FetchWallet returns the wallet summary, including its balance in msat.
func (c *Client) FetchWallet(ctx context.Context) (*models.Wallet, error) {
	var wallet models.Wallet
	if err := c.get(ctx, "/api/v1/wallet", &wallet); err != nil {
		return nil, err
	}
	return &wallet, nil
}

// FetchPayments returns the wallet's payment list in API order.
func (c *Client) FetchPayments(ctx context.Context) ([]models.Payment, error) {
	var raw json.RawMessage
	if err := c.get(ctx, "/api/v1/payments", &raw); err != nil {
		return nil, err
	}
	if !isJSONArray(raw) {
		slog.Error("unexpected data format for payments", "endpoint", "/api/v1/payments")
		return nil, fmt.Errorf("payments: %w", ErrUnexpectedFormat)
	}

	var payments []models.Payment
	if err := json.Unmarshal(raw, &payments); err != nil {
		slog.Error("failed to decode payments", "error", err)
		return nil, fmt.Errorf("%w: failed to decode payments: %v", ErrUnavailable, err)
	}
	return payments, nil
}

// FetchPayLinks returns all LNURLp pay links of the wallet.
func (c *Client) FetchPayLinks(ctx context.Context) ([]models.PayLink, error) {
	var raw json.RawMessage
	if err := c.get(ctx, "/lnurlp/api/v1/links", &raw); err != nil {
		return nil, err
	}
	if !isJSONArray(raw) {
		slog.Error("unexpected data format for pay links", "endpoint", "/lnurlp/api/v1/links")
		return nil, fmt.Errorf("pay links: %w", ErrUnexpectedFormat)
	}

	var links []models.PayLink
	if err := json.Unmarshal(raw, &links); err != nil {
		slog.Error("failed to decode pay links", "error", err)
		return nil, fmt.Errorf("%w: failed to decode pay links: %v", ErrUnavailable, err)
	}
	return links, nil
}

// ResolvePayLink finds the pay link with the given id.
func (c *Client) ResolvePayLink(ctx context.Context, id string) (*models.PayLink, error) {
	links, err := c.FetchPayLinks(ctx)
	if err != nil {
		slog.Error("could not retrieve pay links", "error", err)
		return nil, err
	}

	for i := range links {
		if links[i].ID.String() == id {
			slog.Debug("found matching pay link", "pay_link_id", id)
			return &links[i], nil
		}
	}

	slog.Error("no pay link found", "pay_link_id", id)
	return nil, fmt.Errorf("%w: %s", ErrPayLinkNotFound, id)
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	url := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		slog.Error("failed to create wallet request", "endpoint", path, "error", err)
		return fmt.Errorf("%w: failed to create request for %s: %v", ErrUnavailable, path, err)
	}
	req.Header.Set("X-Api-Key", c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		slog.Error("error fetching from wallet", "endpoint", path, "error", err)
		return fmt.Errorf("%w: failed to fetch %s: %v", ErrUnavailable, path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		slog.Error("failed to read wallet response", "endpoint", path, "error", err)
		return fmt.Errorf("%w: failed to read %s: %v", ErrUnavailable, path, err)
	}

	if resp.StatusCode != http.StatusOK {
		slog.Error("failed to fetch from wallet", "endpoint", path, "status_code", resp.StatusCode)
		return fmt.Errorf("%w: %s returned status %d", ErrUnavailable, path, resp.StatusCode)
	}

	if err := json.Unmarshal(body, out); err != nil {
		slog.Error("failed to decode wallet response", "endpoint", path, "error", err)
		return fmt.Errorf("%w: failed to decode %s: %v", ErrUnavailable, path, err)
	}

	slog.Debug("fetched data from wallet", "endpoint", path, "size_bytes", len(body))
	return nil
}

func isJSONArray(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '['
}
