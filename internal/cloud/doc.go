// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cloud is the HTTP transport for OpenAI-compatible chat-completions
// endpoints.
//
// # Key Types
//
//   - Client: posts a ChatRequest with bearer auth and returns the raw body
//   - ChatRequest / ChatMessage: the {model, messages:[{role, content}]} body
//   - TransportError: the request produced no body (network, context, read)
//
// # Usage
//
//	client := cloud.NewClient(logger).WithUserAgent("rigchat/1.0.0")
//	body, err := client.Complete(ctx, url, key, cloud.ChatRequest{
//	    Model:    "gpt-4o-mini",
//	    Messages: []cloud.ChatMessage{{Role: "user", Content: "Hello"}},
//	})
//	if err != nil {
//	    return err
//	}
//	reply, err := cloud.ParseReply(body)
//
// # Logging
//
// Requests are logged by method, host, path, status and duration. Headers and
// bodies are never logged; credentials appear only as a SHA-256 fingerprint.
package cloud
