// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for sessions, messages and providers.
package model

import (
	"encoding/json"
	"fmt"
)

// =============================================================================
// ROLE TYPE
// =============================================================================

// Role represents the sender of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Sender strings as written to the session file. The assistant is stored as
// "API" for compatibility with existing session files.
const (
	senderUser      = "user"
	senderAssistant = "API"
	senderSystem    = "system"
)

// ErrorPrefix is prepended to transport failures recorded in a transcript.
const ErrorPrefix = "Error: "

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// DisplayName returns a human-readable name for the role.
func (r Role) DisplayName() string {
	switch r {
	case RoleUser:
		return "You"
	case RoleAssistant:
		return "Assistant"
	case RoleSystem:
		return "System"
	default:
		return string(r)
	}
}

// Sender returns the on-disk sender string for the role.
func (r Role) Sender() string {
	switch r {
	case RoleUser:
		return senderUser
	case RoleSystem:
		return senderSystem
	default:
		return senderAssistant
	}
}

// WireRole returns the role sent to the remote API. Only user messages keep
// their role; everything else, system errors included, is replayed as
// assistant output.
func (r Role) WireRole() string {
	if r == RoleUser {
		return "user"
	}
	return "assistant"
}

// RoleFromSender maps an on-disk sender string back to a Role.
// Unknown senders are treated as assistant output.
func RoleFromSender(sender string) Role {
	switch sender {
	case senderUser:
		return RoleUser
	case senderSystem:
		return RoleSystem
	default:
		return RoleAssistant
	}
}

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// Message is a single transcript entry. Messages are never edited after creation.
type Message struct {
	Role    Role
	Content string
}

// storedMessage is the serialized form of a Message.
type storedMessage struct {
	Sender  string `json:"sender"`
	Content string `json:"content"`
}

// NewMessage creates a message with the given role.
func NewMessage(role Role, content string) Message {
	return Message{Role: role, Content: content}
}

// NewUserMessage creates a new user message.
func NewUserMessage(content string) Message {
	return NewMessage(RoleUser, content)
}

// NewAssistantMessage creates a new assistant message.
func NewAssistantMessage(content string) Message {
	return NewMessage(RoleAssistant, content)
}

// NewSystemMessage creates a new system message.
func NewSystemMessage(content string) Message {
	return NewMessage(RoleSystem, content)
}

// NewErrorMessage creates a system message describing a failure.
func NewErrorMessage(err error) Message {
	return NewSystemMessage(fmt.Sprintf("%s%v", ErrorPrefix, err))
}

// IsUser reports whether the message was written by the user.
func (m Message) IsUser() bool {
	return m.Role == RoleUser
}

// MarshalJSON writes the message as {"sender", "content"}.
func (m Message) MarshalJSON() ([]byte, error) {
	return json.Marshal(storedMessage{
		Sender:  m.Role.Sender(),
		Content: m.Content,
	})
}

// UnmarshalJSON reads the {"sender", "content"} form.
func (m *Message) UnmarshalJSON(data []byte) error {
	var stored storedMessage
	if err := json.Unmarshal(data, &stored); err != nil {
		return err
	}
	m.Role = RoleFromSender(stored.Sender)
	m.Content = stored.Content
	return nil
}
