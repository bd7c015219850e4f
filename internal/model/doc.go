// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for sessions, messages and providers.
//
// # Key Types
//
//   - Session: a named, ordered transcript of messages
//   - Message: a single transcript entry with a Role and content
//   - ProviderConfig: a remote chat-completions endpoint, credential and model
//   - Role: message role enumeration (user, assistant, system)
//
// # Serialization
//
// Sessions serialize as {"id", "name", "messages": [{"sender", "content"}]} and
// providers as {"api_name", "api_url", "api_key", "model"}. The assistant sender
// is written as "API".
//
// # Usage
//
//	s := model.NewSession(0, "")      // named "Session 1"
//	s.Append(model.NewUserMessage("hi"))
//	role := s.Messages[0].Role.WireRole() // "user"
package model
