// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"encoding/json"
	"io"
	"time"
)

// JSONResponse is the response envelope for --json output.
type JSONResponse struct {
	Success   bool    `json:"success"`
	Data      any     `json:"data"`
	Error     *string `json:"error"`
	Timestamp string  `json:"timestamp"`
	Command   string  `json:"command,omitempty"`
}

// NewJSONResponse creates a successful response.
func NewJSONResponse(command string, data any) *JSONResponse {
	return &JSONResponse{
		Success:   true,
		Data:      data,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Command:   command,
	}
}

// NewJSONErrorResponse creates an error response.
func NewJSONErrorResponse(command string, err error) *JSONResponse {
	msg := err.Error()
	return &JSONResponse{
		Error:     &msg,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Command:   command,
	}
}

// Write encodes the response as indented JSON.
func (r *JSONResponse) Write(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// =============================================================================
// COMMAND DATA STRUCTURES
// =============================================================================

// ProviderData is a provider as shown by `provider list --json`. The
// credential is never printed.
type ProviderData struct {
	Index          int    `json:"index"`
	Name           string `json:"name"`
	URL            string `json:"url"`
	Model          string `json:"model"`
	KeyFingerprint string `json:"key_fingerprint"`
	Active         bool   `json:"active"`
}

// SessionData is a session summary.
type SessionData struct {
	Index    int    `json:"index"`
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Messages int    `json:"messages"`
	Preview  string `json:"preview,omitempty"`
	Active   bool   `json:"active"`
}

// AskData is the result of `ask --json`.
type AskData struct {
	Session  string `json:"session"`
	Provider string `json:"provider"`
	State    string `json:"state"`
	Reply    string `json:"reply"`
	Duration string `json:"duration"`
}
