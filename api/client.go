// Package api wraps the library backend's REST endpoints in typed calls.
//
// All calls share one Client carrying the base address and the default
// Authorization header. A call is a single round trip: no retries, no caching.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/google/uuid"

	"library-client/library"
)

// maxErrorBody bounds how much of an error response is decoded.
const maxErrorBody = 64 << 10

// Options allows overriding the client's dependencies.
type Options struct {
	HTTPClient *http.Client
	Logger     *slog.Logger
	// OnError runs after every failed round trip (transport error, non-2xx
	// status or undecodable body). It is the client's response interceptor.
	// Calls abandoned through their own context do not reach it.
	OnError func(*Error)
}

// Client talks to the library backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
	onError    func(*Error)

	mu            sync.RWMutex
	authorization string
}

// New creates a client for the backend at baseURL.
func New(baseURL string, opts Options) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("baseURL is empty")
	}
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse baseURL: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("baseURL %q is not absolute", baseURL)
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		logger:     logger,
		onError:    opts.OnError,
	}, nil
}

// BaseURL returns the backend address without a trailing slash.
func (c *Client) BaseURL() string { return c.baseURL }

// SetToken makes "Bearer <token>" the default Authorization header.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.authorization = "Bearer " + token
}

// ClearToken empties the default Authorization header.
func (c *Client) ClearToken() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.authorization = ""
}

// Authorization returns the current default Authorization header value.
func (c *Client) Authorization() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.authorization
}

type call struct {
	op      string
	method  string
	path    string
	query   url.Values
	payload any
	out     any
}

func (c *Client) do(ctx context.Context, cl call) error {
	var body io.Reader
	if cl.payload != nil {
		data, err := json.Marshal(cl.payload)
		if err != nil {
			return invalidInput(cl.op, err)
		}
		body = bytes.NewReader(data)
	}

	target := c.baseURL + cl.path
	if len(cl.query) > 0 {
		target += "?" + cl.query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, cl.method, target, body)
	if err != nil {
		return invalidInput(cl.op, err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth := c.Authorization(); auth != "" {
		req.Header.Set("Authorization", auth)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil && ctx.Err() != nil {
		c.logger.Debug("api call canceled", "op", cl.op, "request_id", requestID, "error", err)
		return &Error{Op: cl.op, Kind: ErrorKindCanceled, RequestID: requestID, Err: err}
	}
	if err != nil {
		return c.fail(&Error{Op: cl.op, Kind: ErrorKindNetwork, RequestID: requestID, Err: err})
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var msg library.MessageResponse
		_ = json.NewDecoder(io.LimitReader(resp.Body, maxErrorBody)).Decode(&msg)
		return c.fail(&Error{
			Op:        cl.op,
			Kind:      kindForStatus(resp.StatusCode),
			Status:    resp.StatusCode,
			Message:   strings.TrimSpace(msg.Message),
			RequestID: requestID,
		})
	}

	c.logger.Debug("api call", "op", cl.op, "method", cl.method, "path", cl.path, "status", resp.StatusCode, "request_id", requestID)
	if cl.out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(cl.out); err != nil {
		return c.fail(&Error{Op: cl.op, Kind: ErrorKindDecode, Status: resp.StatusCode, RequestID: requestID, Err: err})
	}
	return nil
}

func (c *Client) fail(e *Error) error {
	attrs := []any{"op", e.Op, "kind", e.Kind, "request_id", e.RequestID}
	if e.Status != 0 {
		attrs = append(attrs, "status", e.Status)
	}
	if e.Message != "" {
		attrs = append(attrs, "message", e.Message)
	}
	if e.Err != nil {
		attrs = append(attrs, "error", e.Err)
	}
	c.logger.Warn("api call failed", attrs...)
	if c.onError != nil {
		c.onError(e)
	}
	return e
}

func resourcePath(prefix string, id int64) string {
	return fmt.Sprintf("%s/%d", prefix, id)
}

func requireID(op string, id int64) error {
	if id <= 0 {
		return invalidInput(op, fmt.Errorf("invalid id %d", id))
	}
	return nil
}
