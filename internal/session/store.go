// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session holds the ordered collection of chat sessions.
package session

import (
	"errors"
	"fmt"
	"sync"

	"github.com/jeranaias/rigchat/internal/model"
)

// ErrIndexOutOfRange is returned when selecting a session that does not exist.
var ErrIndexOutOfRange = errors.New("session index out of range")

// =============================================================================
// SESSION STORE
// =============================================================================

// Store is the ordered collection of sessions plus the active index.
//
// The store is never empty and the active index is always valid. Store does
// not persist anything itself; callers flush it after mutating.
type Store struct {
	mu       sync.RWMutex
	sessions []*model.Session
	active   int
}

// NewStore creates a store holding a single default session.
func NewStore() *Store {
	return &Store{
		sessions: []*model.Session{model.NewDefaultSession()},
	}
}

// =============================================================================
// SESSION LIFECYCLE
// =============================================================================

// Create appends a new empty session and makes it active. Its id is the
// session count before the append; an empty name becomes "Session <id+1>".
func (s *Store) Create(name string) *model.Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := model.NewSession(len(s.sessions), name)
	s.sessions = append(s.sessions, sess)
	s.active = len(s.sessions) - 1
	return sess.Clone()
}

// RemoveActive deletes the active session. The last remaining session is
// never deleted; it is cleared and renamed to the default name instead.
func (s *Store) RemoveActive() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.sessions) <= 1 {
		s.sessions[s.active].Reset(model.DefaultSessionName)
		return
	}

	s.sessions = append(s.sessions[:s.active], s.sessions[s.active+1:]...)
	if s.active >= len(s.sessions) {
		s.active = len(s.sessions) - 1
	}
}

// ClearAll replaces every session with a single fresh default session.
func (s *Store) ClearAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions = []*model.Session{model.NewDefaultSession()}
	s.active = 0
}

// Replace swaps in a loaded collection. An empty collection collapses to the
// default session. The active index resets to the first session.
func (s *Store) Replace(sessions []*model.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]*model.Session, 0, len(sessions))
	for _, sess := range sessions {
		if sess != nil {
			next = append(next, sess.Clone())
		}
	}
	if len(next) == 0 {
		next = append(next, model.NewDefaultSession())
	}
	s.sessions = next
	s.active = 0
}

// Select makes the session at index active.
func (s *Store) Select(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.sessions) {
		return fmt.Errorf("%w: %d (have %d)", ErrIndexOutOfRange, index, len(s.sessions))
	}
	s.active = index
	return nil
}

// Rename changes the name of the active session. Empty names fall back to
// the session's default name.
func (s *Store) Rename(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.sessions[s.active]
	if name == "" {
		name = model.DefaultName(sess.ID)
	}
	sess.Name = name
}

// =============================================================================
// TRANSCRIPT
// =============================================================================

// Append adds a message to the active session's transcript.
func (s *Store) Append(role model.Role, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[s.active].Append(model.NewMessage(role, content))
}

// ActiveMessages returns a copy of the active transcript.
func (s *Store) ActiveMessages() []model.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()

	src := s.sessions[s.active].Messages
	out := make([]model.Message, len(src))
	copy(out, src)
	return out
}

// =============================================================================
// ACCESSORS
// =============================================================================

// Active returns a copy of the active session.
func (s *Store) Active() *model.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sessions[s.active].Clone()
}

// ActiveIndex returns the index of the active session.
func (s *Store) ActiveIndex() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

// Len returns the number of sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Sessions returns a deep copy of every session, in order.
func (s *Store) Sessions() []*model.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*model.Session, len(s.sessions))
	for i, sess := range s.sessions {
		out[i] = sess.Clone()
	}
	return out
}

// Get returns a copy of the session at index.
func (s *Store) Get(index int) (*model.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if index < 0 || index >= len(s.sessions) {
		return nil, fmt.Errorf("%w: %d (have %d)", ErrIndexOutOfRange, index, len(s.sessions))
	}
	return s.sessions[index].Clone(), nil
}
