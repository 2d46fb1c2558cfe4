/*
Package api is the portal's client for the remote events service.

Every call is classified into one of three failure kinds (see Kind) or a raw JSON success
body. Calls are never retried; the caller decides what a failure means for the user.
*/
package api

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

	"buzzportal/internal/pkg/logx"
)

// maxResponseBytes caps how much of a response body is read.
const maxResponseBytes = 8 << 20

// Request describes one call.
type Request struct {
	Method string

	// Path is relative to the base URL and starts with "/".
	Path  string
	Query url.Values

	// Body is JSON-encoded when non-nil.
	Body any

	// Public marks calls that may go out without a credential (login, signup).
	Public bool

	// Fallback replaces a missing server message on rejection.
	Fallback string
}

// Client sends requests to the remote events service.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     zerolog.Logger
}

// New returns a Client for baseURL with a per-call timeout.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logx.Component("api"),
	}
}

// Call performs req with the given credential and returns the raw JSON body of a 2xx response.
// Non-public calls without a credential fail with Unauthenticated before any I/O.
func (c *Client) Call(ctx context.Context, credential string, req Request) (json.RawMessage, error) {
	body, err := c.call(ctx, credential, req)
	callsTotal.WithLabelValues(req.Method, outcomeLabel(err)).Inc()
	return body, err
}

func (c *Client) call(ctx context.Context, credential string, req Request) (json.RawMessage, error) {
	if !req.Public && credential == "" {
		return nil, &Error{Kind: Unauthenticated}
	}

	httpReq, err := c.newRequest(ctx, credential, req)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	res, err := c.httpClient.Do(httpReq)
	callDuration.WithLabelValues(req.Method).Observe(time.Since(start).Seconds())
	if err != nil {
		c.logger.Warn().Err(err).Str("method", req.Method).Str("path", req.Path).Msg("Remote service unreachable.")
		return nil, &Error{Kind: Unreachable, Err: err}
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(res.Body, maxResponseBytes))
	if err != nil {
		return nil, &Error{Kind: Unreachable, Err: fmt.Errorf("read response body: %w", err)}
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		message := rejectionMessage(raw, req.Fallback)
		c.logger.Info().
			Str("method", req.Method).
			Str("path", req.Path).
			Int("status", res.StatusCode).
			Str("message", message).
			Msg("Remote service rejected the call.")
		return nil, &Error{Kind: Rejected, Status: res.StatusCode, Message: message}
	}

	if len(bytes.TrimSpace(raw)) == 0 {
		return json.RawMessage("null"), nil
	}
	return json.RawMessage(raw), nil
}

func (c *Client) newRequest(ctx context.Context, credential string, req Request) (*http.Request, error) {
	target := c.baseURL + req.Path
	if len(req.Query) > 0 {
		target += "?" + req.Query.Encode()
	}

	var body io.Reader
	if req.Body != nil {
		encoded, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("encode %s %s body: %w", req.Method, req.Path, err)
		}
		body = bytes.NewReader(encoded)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, body)
	if err != nil {
		return nil, fmt.Errorf("build %s %s request: %w", req.Method, req.Path, err)
	}

	httpReq.Header.Set("Accept", "application/json")
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if credential != "" {
		httpReq.Header.Set("Authorization", "Bearer "+credential)
	}
	return httpReq, nil
}

// rejectionMessage extracts the optional "message" field of an error body.
func rejectionMessage(raw []byte, fallback string) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &payload); err == nil && strings.TrimSpace(payload.Message) != "" {
		return payload.Message
	}
	if fallback != "" {
		return fallback
	}
	return GenericFailure
}
