// Package api is the HTTP client for the remote storefront service. It owns
// the wire types, the request plumbing, and the classification of failures;
// the packages above it only ever see typed results or classified errors.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/qkart/qkart/pkg/config"
	"github.com/qkart/qkart/pkg/web"
	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Client talks to the storefront service. Safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client
	breaker *gobreaker.CircuitBreaker[*http.Response]
	logger  *slog.Logger
}

// NewClient creates a Client for the configured base URL. The transport is
// instrumented so spans are emitted when a tracer provider is installed, and
// outbound calls run through a circuit breaker: only system failures
// (transport errors, 5xx) count against it, server verdicts like 4xx do not.
func NewClient(cfg config.APIConfig, logger *slog.Logger) *Client {
	breaker := gobreaker.NewCircuitBreaker[*http.Response](gobreaker.Settings{
		Name:        "storefront-api",
		MaxRequests: 3,
		Timeout:     5 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 3
		},
	})
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		breaker: breaker,
		logger:  logger.With("component", "api"),
	}
}

// Products fetches the full catalog.
func (c *Client) Products(ctx context.Context) ([]Product, error) {
	var products []Product
	if err := c.do(ctx, http.MethodGet, "/products", "", nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// SearchProducts fetches the catalog filtered by the given text.
// Returns ErrNoMatch when nothing matches the query.
func (c *Client) SearchProducts(ctx context.Context, value string) ([]Product, error) {
	path := "/products/search?value=" + url.QueryEscape(value)
	var products []Product
	if err := c.do(ctx, http.MethodGet, path, "", nil, &products); err != nil {
		var statusErr *StatusError
		if errors.As(err, &statusErr) && statusErr.Code == http.StatusNotFound {
			return nil, ErrNoMatch
		}
		return nil, err
	}
	return products, nil
}

// Login authenticates and returns the session credentials.
func (c *Client) Login(ctx context.Context, username, password string) (*Credentials, error) {
	var creds Credentials
	body := loginRequest{Username: username, Password: password}
	if err := c.do(ctx, http.MethodPost, "/auth/login", "", body, &creds); err != nil {
		return nil, err
	}
	return &creds, nil
}

// Register creates a new account.
func (c *Client) Register(ctx context.Context, username, password string) error {
	body := loginRequest{Username: username, Password: password}
	return c.do(ctx, http.MethodPost, "/auth/register", "", body, nil)
}

// FetchCart retrieves the authenticated user's raw cart.
func (c *Client) FetchCart(ctx context.Context, token string) ([]CartEntry, error) {
	var entries []CartEntry
	if err := c.do(ctx, http.MethodGet, "/cart", token, nil, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// UpsertCart sets the quantity for one product in the authenticated user's
// cart. The response is the full, authoritative raw cart after the change.
func (c *Client) UpsertCart(ctx context.Context, token, productID string, quantity int) ([]CartEntry, error) {
	var entries []CartEntry
	body := upsertCartRequest{ProductID: productID, Quantity: quantity}
	if err := c.do(ctx, http.MethodPost, "/cart", token, body, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// do issues one request and decodes the response into out (when non-nil).
// Failures are classified: 4xx with a parseable message becomes *StatusError,
// everything else wraps ErrUnavailable. Transport errors and 5xx also count
// against the circuit breaker; once it opens, calls fail fast without
// touching the network until the breaker half-opens again.
func (c *Client) do(ctx context.Context, method, path, token string, body, out any) error {
	reqID := uuid.NewString()
	ctx = web.WithRequestID(ctx, reqID)

	var reqBody *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	} else {
		reqBody = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("X-Request-Id", reqID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.breaker.Execute(func() (*http.Response, error) {
		resp, err := c.http.Do(req)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode >= http.StatusInternalServerError {
			resp.Body.Close()
			return nil, fmt.Errorf("status %d", resp.StatusCode)
		}
		return resp, nil
	})
	if err != nil {
		c.logger.WarnContext(ctx, "Request failed", "method", method, "path", path, "error", err)
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil {
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			c.logger.WarnContext(ctx, "Malformed response body", "method", method, "path", path, "error", err)
			return fmt.Errorf("%w: malformed response: %v", ErrUnavailable, err)
		}
		return nil
	}

	var errBody web.ErrorBody
	if err := json.NewDecoder(resp.Body).Decode(&errBody); err != nil || errBody.Message == "" {
		return fmt.Errorf("%w: status %d with unreadable error body", ErrUnavailable, resp.StatusCode)
	}
	return &StatusError{Code: resp.StatusCode, Message: errBody.Message}
}
