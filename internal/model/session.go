// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"fmt"
	"strings"
)

// DefaultSessionName names the session that exists when nothing else does.
const DefaultSessionName = "Default Session"

// =============================================================================
// SESSION TYPE
// =============================================================================

// Session is a named, ordered conversation transcript.
//
// ID is the session count at creation time. It is not unique once sessions
// have been removed and new ones created.
type Session struct {
	ID       int       `json:"id"`
	Name     string    `json:"name"`
	Messages []Message `json:"messages"`
}

// DefaultName returns the name given to a session created without one.
func DefaultName(id int) string {
	return fmt.Sprintf("Session %d", id+1)
}

// NewSession creates an empty session. An empty name falls back to DefaultName.
func NewSession(id int, name string) *Session {
	if strings.TrimSpace(name) == "" {
		name = DefaultName(id)
	}
	return &Session{
		ID:       id,
		Name:     name,
		Messages: []Message{},
	}
}

// NewDefaultSession returns the single session used for a fresh or reset store.
func NewDefaultSession() *Session {
	return NewSession(0, DefaultSessionName)
}

// Append adds a message to the end of the transcript.
func (s *Session) Append(msg Message) {
	s.Messages = append(s.Messages, msg)
}

// Reset clears the transcript and renames the session.
func (s *Session) Reset(name string) {
	s.Messages = []Message{}
	s.Name = name
}

// Len returns the number of messages in the transcript.
func (s *Session) Len() int {
	return len(s.Messages)
}

// IsEmpty returns true if the transcript has no messages.
func (s *Session) IsEmpty() bool {
	return len(s.Messages) == 0
}

// LastMessage returns the final transcript entry, if any.
func (s *Session) LastMessage() (Message, bool) {
	if len(s.Messages) == 0 {
		return Message{}, false
	}
	return s.Messages[len(s.Messages)-1], true
}

// LastOfRole returns the most recent message with the given role.
func (s *Session) LastOfRole(role Role) (Message, bool) {
	for i := len(s.Messages) - 1; i >= 0; i-- {
		if s.Messages[i].Role == role {
			return s.Messages[i], true
		}
	}
	return Message{}, false
}

// Preview returns the first user message, flattened to one line.
func (s *Session) Preview() string {
	for _, msg := range s.Messages {
		if msg.IsUser() && msg.Content != "" {
			content := strings.ReplaceAll(msg.Content, "\n", " ")
			return strings.ReplaceAll(content, "\r", "")
		}
	}
	return ""
}

// Clone returns a deep copy of the session.
func (s *Session) Clone() *Session {
	msgs := make([]Message, len(s.Messages))
	copy(msgs, s.Messages)
	return &Session{
		ID:       s.ID,
		Name:     s.Name,
		Messages: msgs,
	}
}
