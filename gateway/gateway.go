// Package gateway wraps the price-comparison backend API. Every call is
// bounded by a fixed timeout and validates the response envelope before
// handing offers back: a missing or non-array results field is just as
// much a failure as a refused connection. Retry policy belongs to the
// caller — the gateway reports one attempt's outcome and nothing more.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/hazyhaar/pricepanel/market"
)

// DefaultTimeout bounds one request/response exchange.
const DefaultTimeout = 10 * time.Second

// maxResponseBytes caps response reads to prevent runaway downloads.
const maxResponseBytes = 4 << 20

// Client talks to the comparison backend.
type Client struct {
	base   string
	client *http.Client
	logger *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client. The caller owns its timeout.
func WithHTTPClient(c *http.Client) Option {
	return func(g *Client) { g.client = c }
}

// WithTimeout overrides the per-call timeout. Default: DefaultTimeout.
func WithTimeout(d time.Duration) Option {
	return func(g *Client) { g.client.Timeout = d }
}

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) Option {
	return func(g *Client) { g.logger = l }
}

// New creates a Client for the backend at baseURL.
func New(baseURL string, opts ...Option) *Client {
	g := &Client{
		base:   strings.TrimRight(baseURL, "/"),
		client: &http.Client{Timeout: DefaultTimeout},
		logger: slog.Default(),
	}
	for _, o := range opts {
		o(g)
	}
	return g
}

// ResolveRequest identifies a product by store-local fields when no direct
// cross-store identifier exists. The backend chains an identifier
// resolution step before comparing.
type ResolveRequest struct {
	Store    string `json:"store"`
	StoreSKU string `json:"storeSku"`
	Title    string `json:"title"`
}

// Observation is one sighted price, reported as telemetry.
type Observation struct {
	Store      string `json:"store"`
	StoreSKU   string `json:"storeSku"`
	Title      string `json:"title,omitempty"`
	PriceCents int    `json:"priceCents"`
	URL        string `json:"url,omitempty"`
}

type compareRequest struct {
	ProductID string `json:"productId"`
}

// compareResponse is the backend envelope. Results must be present and be
// an array for the response to count as well-formed; a pointer
// distinguishes "absent" from "empty".
type compareResponse struct {
	Results *[]market.Offer `json:"results"`
}

// CompareByProductID looks up cross-store offers by a direct identifier
// (an ASIN). Returns an error for any transport failure, non-2xx status,
// or malformed envelope.
func (g *Client) CompareByProductID(ctx context.Context, id string) ([]market.Offer, error) {
	return g.compare(ctx, "/api/compare", compareRequest{ProductID: id})
}

// ResolveAndCompare resolves a store-local SKU and title to a cross-store
// identifier and compares in one backend call.
func (g *Client) ResolveAndCompare(ctx context.Context, req ResolveRequest) ([]market.Offer, error) {
	return g.compare(ctx, "/api/resolve", req)
}

// ObservePrice reports a sighted price. A nil return means the backend
// accepted the event; only then should the caller remember the emission.
func (g *Client) ObservePrice(ctx context.Context, obs Observation) error {
	resp, err := g.post(ctx, "/api/observe", obs)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("gateway: observe: status %d", resp.StatusCode)
	}
	return nil
}

func (g *Client) compare(ctx context.Context, path string, payload any) ([]market.Offer, error) {
	resp, err := g.post(ctx, path, payload)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("gateway: %s: status %d", path, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("gateway: %s: read body: %w", path, err)
	}

	var env compareResponse
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("gateway: %s: decode: %w", path, err)
	}
	if env.Results == nil {
		return nil, fmt.Errorf("gateway: %s: malformed response: missing results", path)
	}

	g.logger.Debug("gateway: compare ok", "path", path, "offers", len(*env.Results))
	return *env.Results, nil
}

func (g *Client) post(ctx context.Context, path string, payload any) (*http.Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("gateway: %s: marshal: %w", path, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.base+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("gateway: %s: new request: %w", path, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gateway: %s: do: %w", path, err)
	}
	return resp, nil
}
