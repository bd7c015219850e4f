// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session holds the ordered collection of chat sessions.
//
// # Invariants
//
//   - The store always contains at least one session.
//   - The active index always points at an existing session.
//   - A new session's id is the session count at creation time; ids are not
//     reused-safe and may repeat after removals.
//   - Transcripts only grow through Append; ClearAll and RemoveActive on the
//     last session reset them.
//
// # Usage
//
//	store := session.NewStore()
//	store.Create("")                       // "Session 2", now active
//	store.Append(model.RoleUser, "hello")
//	store.RemoveActive()                   // back to "Default Session"
package session
