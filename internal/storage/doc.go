// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage persists the provider and session collections.
//
// Collections are serialized as JSON and written whole into a BlobStore, an
// opaque key-value store. Two backends exist:
//
//   - FileStore: one file per key in the data directory, written atomically
//   - SQLiteStore: a single SQLite database (modernc.org/sqlite)
//
// # Key Types
//
//   - Gateway: save/load of both collections over a BlobStore
//   - Watcher: fsnotify watcher reporting external edits to FileStore keys
//
// # Usage
//
//	fs, err := storage.NewFileStore(dataDir)
//	gw := storage.NewGateway(fs)
//	sessions, found, err := gw.LoadSessions(ctx)
//	if !found {
//	    // nothing stored yet, not an error
//	}
//
// # Storage Location
//
// By default the files live in ~/.rigchat/ as api_list.json and sessions.json.
package storage
