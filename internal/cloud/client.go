// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cloud

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/jeranaias/rigchat/internal/model"
)

const (
	// MaxResponseSize is the maximum accepted response body size.
	MaxResponseSize = 10 * 1024 * 1024 // 10MB limit

	// DefaultUserAgent is sent when the client has no explicit user agent.
	DefaultUserAgent = "rigchat/dev"

	// RequestIDHeader carries a per-exchange id for correlating server logs.
	RequestIDHeader = "X-Request-ID"
)

// ErrResponseTooLarge is returned when a reply exceeds MaxResponseSize.
var ErrResponseTooLarge = errors.New("response exceeded maximum size")

// TransportError is a failure to obtain a response body at all: connection
// refused, DNS failure, cancelled context, unreadable body.
type TransportError struct {
	Op  string
	URL string
	Err error
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.URL, e.Err)
}

// Unwrap returns the underlying error.
func (e *TransportError) Unwrap() error {
	return e.Err
}

// =============================================================================
// WIRE TYPES
// =============================================================================

// ChatMessage is a single {role, content} entry of a request.
type ChatMessage struct {
	Role    string `json:"role"`    // "user" or "assistant"
	Content string `json:"content"`
}

// ChatRequest is the chat-completions request body.
type ChatRequest struct {
	Model    string        `json:"model"`
	Messages []ChatMessage `json:"messages"`
}

// =============================================================================
// CLIENT
// =============================================================================

// Client posts chat-completions requests. It has no timeout and never
// retries; cancellation is the caller's context.
type Client struct {
	httpClient *http.Client
	userAgent  string
	logger     *slog.Logger
}

// NewClient creates a client using a dedicated http.Client without timeout.
func NewClient(logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Client{
		httpClient: &http.Client{},
		userAgent:  DefaultUserAgent,
		logger:     logger,
	}
}

// WithHTTPClient replaces the underlying http.Client.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	if hc != nil {
		c.httpClient = hc
	}
	return c
}

// WithUserAgent sets the User-Agent header value.
func (c *Client) WithUserAgent(ua string) *Client {
	if ua != "" {
		c.userAgent = ua
	}
	return c
}

// Complete POSTs req to endpoint and returns the raw response body. The HTTP
// status is logged but not interpreted; any body is handed to the caller.
func (c *Client) Complete(ctx context.Context, endpoint, credential string, req ChatRequest) ([]byte, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, &TransportError{Op: "build", URL: endpoint, Err: err}
	}

	requestID := uuid.NewString()
	httpReq.Header.Set("Authorization", "Bearer "+credential)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("User-Agent", c.userAgent)
	httpReq.Header.Set(RequestIDHeader, requestID)

	c.logRequest(httpReq, requestID, credential, len(req.Messages))
	start := time.Now()

	resp, err := c.httpClient.Do(httpReq)
	httpReq.Header.Del("Authorization")
	if err != nil {
		c.logger.Warn("api request failed",
			"request_id", requestID,
			"duration", time.Since(start),
			"error", err)
		return nil, &TransportError{Op: http.MethodPost, URL: endpoint, Err: err}
	}
	defer resp.Body.Close()

	body, err := readResponse(resp)
	c.logResponse(resp, requestID, time.Since(start), len(body))
	if err != nil {
		return nil, &TransportError{Op: "read", URL: endpoint, Err: err}
	}
	return body, nil
}

// readResponse reads at most MaxResponseSize bytes of the body.
func readResponse(resp *http.Response) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if len(body) > MaxResponseSize {
		return nil, fmt.Errorf("%w (%d bytes)", ErrResponseTooLarge, MaxResponseSize)
	}
	return body, nil
}

// logRequest logs the method, path and message count. Headers and body are
// never logged; the credential is reduced to a fingerprint.
func (c *Client) logRequest(req *http.Request, requestID, credential string, messages int) {
	c.logger.Debug("api request",
		"request_id", requestID,
		"method", req.Method,
		"host", req.URL.Host,
		"path", req.URL.Path,
		"messages", messages,
		"key", model.Fingerprint(credential))
}

// logResponse logs the status and duration only.
func (c *Client) logResponse(resp *http.Response, requestID string, d time.Duration, size int) {
	c.logger.Debug("api response",
		"request_id", requestID,
		"status", resp.StatusCode,
		"duration", d,
		"bytes", size)
}

