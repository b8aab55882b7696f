// Package sheets talks to the spreadsheet web app: a single HTTPS endpoint
// that reads via GET query actions and mutates via JSON POST bodies, always
// answering with a {success, data, error} envelope.
//
// Reads have two transports. The direct one is a plain GET. When it fails
// at the network level the client switches to the callback transport — a
// GET carrying a callback parameter whose response wraps the envelope in a
// function call — and stays on it for the life of the client. The callback
// transport carries its own fixed timeout. Mutations always POST directly;
// the callback transport cannot carry a body.
package sheets

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// CallbackTimeout bounds a single callback-transport request.
const CallbackTimeout = 30 * time.Second

// envelope is the wire response shape shared by every action.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// Config holds client settings.
type Config struct {
	// BaseURL is the deployed web app URL.
	BaseURL string

	// Timeout for direct HTTP requests (default: 30s).
	Timeout time.Duration

	// Logger for transport activity (default: stderr with [sheets] prefix).
	Logger *log.Logger
}

// Client is a remote tabular source backed by the spreadsheet web app.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *log.Logger

	mu          sync.Mutex
	useCallback bool

	callbackSeq atomic.Int64
}

// New creates a client for the web app at cfg.BaseURL.
func New(cfg *Config) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = log.New(os.Stderr, "[sheets] ", log.LstdFlags)
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    &http.Client{Timeout: cfg.Timeout},
		logger:  cfg.Logger,
	}
}

// UsingCallback reports whether the client has fallen back to the
// callback transport.
func (c *Client) UsingCallback() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.useCallback
}

// GetStructure fetches the list of sheet names. It doubles as the
// connection probe.
func (c *Client) GetStructure(ctx context.Context) ([]string, error) {
	q := url.Values{"action": {"getStructure"}}
	data, err := c.get(ctx, "getStructure", q)
	if err != nil {
		return nil, &ConnectError{Err: err}
	}
	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		return nil, &ConnectError{Err: fmt.Errorf("unexpected structure payload: %w", err)}
	}
	return names, nil
}

// GetData fetches every row of one sheet, header row included.
func (c *Client) GetData(ctx context.Context, sheet string) ([][]any, error) {
	q := url.Values{"action": {"getData"}, "sheet": {sheet}}
	data, err := c.get(ctx, "getData", q)
	if err != nil {
		return nil, &ReadError{Sheet: sheet, Err: err}
	}
	var rows [][]any
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, &ReadError{Sheet: sheet, Err: fmt.Errorf("unexpected data payload: %w", err)}
	}
	return rows, nil
}

// AppendData appends one row to a sheet.
func (c *Client) AppendData(ctx context.Context, sheet string, row []any) error {
	_, err := c.post(ctx, "appendData", map[string]any{
		"action": "appendData",
		"sheet":  sheet,
		"row":    row,
	})
	if err != nil {
		return &WriteError{Action: "appendData", Sheet: sheet, Err: err}
	}
	return nil
}

// UpdateData rewrites the cells of one range ("A2:F10" style) in a sheet.
func (c *Client) UpdateData(ctx context.Context, sheet, cellRange string, values [][]any) error {
	_, err := c.post(ctx, "updateData", map[string]any{
		"action": "updateData",
		"sheet":  sheet,
		"range":  cellRange,
		"values": values,
	})
	if err != nil {
		return &WriteError{Action: "updateData", Sheet: sheet, Err: err}
	}
	return nil
}

// ClearData removes every data row from a sheet, keeping headers.
func (c *Client) ClearData(ctx context.Context, sheet string) error {
	_, err := c.post(ctx, "clearData", map[string]any{
		"action": "clearData",
		"sheet":  sheet,
	})
	if err != nil {
		return &WriteError{Action: "clearData", Sheet: sheet, Err: err}
	}
	return nil
}

// SyncAll replaces the data rows of every listed sheet in one request.
func (c *Client) SyncAll(ctx context.Context, data map[string][][]any) error {
	_, err := c.post(ctx, "syncAll", map[string]any{
		"action": "syncAll",
		"data":   data,
	})
	if err != nil {
		return &WriteError{Action: "syncAll", Err: err}
	}
	return nil
}

// get runs a read action, falling back to the callback transport on
// network failure and staying there once engaged.
func (c *Client) get(ctx context.Context, action string, q url.Values) (json.RawMessage, error) {
	c.mu.Lock()
	useCallback := c.useCallback
	c.mu.Unlock()

	if !useCallback {
		data, err := c.directGet(ctx, action, q)
		if err == nil {
			return data, nil
		}
		var remoteErr *apiError
		if errors.As(err, &remoteErr) {
			// The endpoint answered; switching transports would not help.
			return nil, err
		}
		c.logger.Printf("Direct request failed (%v), switching to callback transport", err)
		c.mu.Lock()
		c.useCallback = true
		c.mu.Unlock()
	}

	return c.callbackGet(ctx, action, q)
}

func (c *Client) directGet(ctx context.Context, action string, q url.Values) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return c.unwrap(action, body)
}

// callbackGet performs the padded-callback request: the response body is
// the envelope wrapped in callbackName(...).
func (c *Client) callbackGet(ctx context.Context, action string, q url.Values) (json.RawMessage, error) {
	name := fmt.Sprintf("fs_cb_%d", c.callbackSeq.Add(1))
	q = cloneValues(q)
	q.Set("callback", name)

	ctx, cancel := context.WithTimeout(ctx, CallbackTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build callback request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || ctx.Err() == context.DeadlineExceeded {
			return nil, ErrTimeout
		}
		return nil, fmt.Errorf("callback request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read callback response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected callback status %d", resp.StatusCode)
	}

	payload, err := stripCallback(body, name)
	if err != nil {
		return nil, err
	}
	return c.unwrap(action, payload)
}

// stripCallback extracts the envelope from a name(...) wrapped body.
func stripCallback(body []byte, name string) ([]byte, error) {
	s := strings.TrimSpace(string(body))
	prefix := name + "("
	if !strings.HasPrefix(s, prefix) {
		return nil, fmt.Errorf("callback response missing %s wrapper", name)
	}
	s = strings.TrimPrefix(s, prefix)
	s = strings.TrimSuffix(s, ";")
	s = strings.TrimSuffix(s, ")")
	return []byte(s), nil
}

func (c *Client) post(ctx context.Context, action string, payload any) (json.RawMessage, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	// text/plain sidesteps the endpoint's preflight handling; the body is
	// still JSON.
	req.Header.Set("Content-Type", "text/plain;charset=utf-8")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return c.unwrap(action, respBody)
}

// unwrap parses the envelope and surfaces remote-reported failures.
func (c *Client) unwrap(action string, body []byte) (json.RawMessage, error) {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("malformed response: %w", err)
	}
	if !env.Success {
		msg := env.Error
		if msg == "" {
			msg = "no error message"
		}
		return nil, &apiError{Action: action, Message: msg}
	}
	return env.Data, nil
}

func cloneValues(q url.Values) url.Values {
	out := make(url.Values, len(q))
	for k, vs := range q {
		out[k] = append([]string(nil), vs...)
	}
	return out
}
