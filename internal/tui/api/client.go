// Package api is the console's client for the paydesk gateway. It speaks the
// gateway's JSON envelope and carries the workflow session header so the
// console shares one search session across calls.
package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/adeyinka/paydesk/internal/domain"
	"github.com/adeyinka/paydesk/internal/present"
	"github.com/adeyinka/paydesk/internal/search"
)

const sessionHeader = "X-Paydesk-Session"

// Client talks to a running paydesk gateway.
type Client struct {
	baseURL   string
	sessionID string
	http      *http.Client
}

// NewClient creates a gateway client.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 65 * time.Second},
	}
}

type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

func (c *Client) do(method, path string, out any) error {
	req, err := http.NewRequest(method, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	if c.sessionID != "" {
		req.Header.Set(sessionHeader, c.sessionID)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if id := resp.Header.Get(sessionHeader); id != "" {
		c.sessionID = id
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return err
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return fmt.Errorf("gateway returned %d with unreadable body", resp.StatusCode)
	}
	if !env.Status {
		msg := env.Message
		if msg == "" {
			msg = fmt.Sprintf("gateway returned %d", resp.StatusCode)
		}
		return fmt.Errorf("%s", msg)
	}

	if out != nil && len(env.Data) > 0 {
		return json.Unmarshal(env.Data, out)
	}
	return nil
}

// Search runs one search and returns the derived view of the matched record.
func (c *Client) Search(kind domain.Kind, query string) (*present.View, error) {
	var view present.View
	path := fmt.Sprintf("/api/search/%s?q=%s", kind, url.QueryEscape(query))
	if err := c.do(http.MethodGet, path, &view); err != nil {
		return nil, err
	}
	return &view, nil
}

// History fetches the session's recent searches for one entity kind.
func (c *Client) History(kind domain.Kind) ([]search.HistoryEntry, error) {
	var entries []search.HistoryEntry
	path := fmt.Sprintf("/api/history?kind=%s", kind)
	if err := c.do(http.MethodGet, path, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// Replay returns the original query text of a history entry.
func (c *Client) Replay(entryID string) (string, error) {
	var out struct {
		Query string `json:"query"`
		Kind  string `json:"kind"`
	}
	path := fmt.Sprintf("/api/history/%s/replay", url.PathEscape(entryID))
	if err := c.do(http.MethodGet, path, &out); err != nil {
		return "", err
	}
	return out.Query, nil
}

// ResendWebhook asks upstream to redeliver the webhook for the loaded result.
func (c *Client) ResendWebhook(kind domain.Kind) (string, error) {
	req, err := http.NewRequest(http.MethodPost, c.baseURL+fmt.Sprintf("/api/search/%s/resend-webhook", kind), nil)
	if err != nil {
		return "", err
	}
	if c.sessionID != "" {
		req.Header.Set(sessionHeader, c.sessionID)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if id := resp.Header.Get(sessionHeader); id != "" {
		c.sessionID = id
	}

	var env envelope
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&env); err != nil {
		return "", fmt.Errorf("gateway returned %d with unreadable body", resp.StatusCode)
	}
	if !env.Status {
		return "", fmt.Errorf("%s", env.Message)
	}
	return env.Message, nil
}

// Export downloads the JSON export of the loaded result. It returns the
// suggested filename and the document bytes.
func (c *Client) Export(kind domain.Kind) (string, []byte, error) {
	req, err := http.NewRequest(http.MethodGet, c.baseURL+fmt.Sprintf("/api/search/%s/export", kind), nil)
	if err != nil {
		return "", nil, err
	}
	if c.sessionID != "" {
		req.Header.Set(sessionHeader, c.sessionID)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return "", nil, err
	}

	if resp.StatusCode != http.StatusOK {
		var env envelope
		if json.Unmarshal(body, &env) == nil && env.Message != "" {
			return "", nil, fmt.Errorf("%s", env.Message)
		}
		return "", nil, fmt.Errorf("gateway returned %d", resp.StatusCode)
	}

	filename := "export.json"
	if cd := resp.Header.Get("Content-Disposition"); cd != "" {
		if idx := strings.Index(cd, "filename="); idx >= 0 {
			filename = strings.Trim(cd[idx+len("filename="):], `"`)
		}
	}

	return filename, body, nil
}

// Health probes the gateway's health endpoint.
func (c *Client) Health() (string, error) {
	var out struct {
		Status string `json:"status"`
	}
	if err := c.do(http.MethodGet, "/api/system/health", &out); err != nil {
		return "", err
	}
	return out.Status, nil
}
