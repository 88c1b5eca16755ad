// Package upstream implements the HTTP client for the finance backend API.
// All calls are plain JSON over HTTPS, authenticated with a bearer token taken
// from configuration. The client normalizes raw upstream records into
// domain entities at the response boundary.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/adeyinka/paydesk/internal/domain"
)

// Client talks to the finance backend.
type Client struct {
	baseURL string
	token   string
	client  *http.Client
	log     zerolog.Logger
}

// Config holds client configuration.
type Config struct {
	BaseURL string
	Token   string
	Timeout time.Duration // default per-call deadline, callers may shorten via context
}

// NewClient creates a finance API client.
func NewClient(cfg Config, log zerolog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}

	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		token:   cfg.Token,
		client:  &http.Client{Timeout: timeout},
		log:     log.With().Str("client", "finance-api").Logger(),
	}
}

// envelope is the common upstream response wrapper. Data stays raw so each
// endpoint can decode its own payload shape.
type envelope struct {
	Status     bool               `json:"status"`
	Success    *bool              `json:"success,omitempty"` // webhook-resend endpoints use `success` instead of `status`
	Message    string             `json:"message,omitempty"`
	Data       json.RawMessage    `json:"data,omitempty"`
	Pagination *domain.Pagination `json:"pagination,omitempty"`
}

// ok reports whether the envelope signals success, accounting for the two
// field names upstream uses.
func (e *envelope) ok() bool {
	if e.Success != nil {
		return *e.Success
	}
	return e.Status
}

// get issues a GET request and decodes the response envelope. Non-2xx
// responses and transport failures are returned as *domain.TransportError,
// with the server-supplied message preserved when the body is parseable.
func (c *Client) get(ctx context.Context, path string, query url.Values) (*envelope, error) {
	return c.do(ctx, http.MethodGet, path, query, nil)
}

// post issues a POST request with a JSON body.
func (c *Client) post(ctx context.Context, path string, body any) (*envelope, error) {
	return c.do(ctx, http.MethodPost, path, nil, body)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any) (*envelope, error) {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	c.log.Debug().Str("method", method).Str("path", path).Msg("Calling finance API")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &domain.TransportError{Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return nil, &domain.TransportError{StatusCode: resp.StatusCode, Err: err}
	}

	var env envelope
	if len(raw) > 0 {
		// Ignore decode errors here so a non-JSON error page still produces a
		// useful TransportError below.
		_ = json.Unmarshal(raw, &env)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.log.Warn().
			Int("status", resp.StatusCode).
			Str("path", path).
			Str("message", env.Message).
			Msg("Finance API returned error status")
		return nil, &domain.TransportError{StatusCode: resp.StatusCode, Message: env.Message}
	}

	return &env, nil
}
