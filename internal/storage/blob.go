// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jeranaias/rigchat/internal/util"
)

// =============================================================================
// BLOB STORE INTERFACE
// =============================================================================

// ErrBlobNotFound is returned by BlobStore.Get when the key has never been written.
var ErrBlobNotFound = errors.New("blob not found")

// BlobStore is an opaque key-value store for serialized collections.
// Put replaces the value for a key entirely.
type BlobStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, data []byte) error
	Close() error
}

// =============================================================================
// FILE STORE
// =============================================================================

// FileStore keeps each key in its own file under Dir.
type FileStore struct {
	// Dir is the directory holding one file per key
	Dir string

	// Perm is the permission used for written files (default 0600, they hold API keys)
	Perm os.FileMode
}

// NewFileStore creates a file-backed store rooted at dir, creating it if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return &FileStore{Dir: dir, Perm: 0600}, nil
}

// Path returns the file used for key.
func (s *FileStore) Path(key string) string {
	return filepath.Join(s.Dir, key)
}

// Get reads the file for key.
func (s *FileStore) Get(ctx context.Context, key string) ([]byte, error) {
	if err := validKey(key); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.Path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrBlobNotFound
		}
		return nil, err
	}
	return data, nil
}

// Put overwrites the file for key.
func (s *FileStore) Put(ctx context.Context, key string, data []byte) error {
	if err := validKey(key); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	perm := s.Perm
	if perm == 0 {
		perm = 0600
	}
	return util.AtomicWriteFile(s.Path(key), data, perm)
}

// Close is a no-op for files.
func (s *FileStore) Close() error {
	return nil
}

// validKey rejects keys that would escape the store directory.
func validKey(key string) error {
	if key == "" || strings.ContainsAny(key, `/\`) || key == "." || key == ".." {
		return fmt.Errorf("invalid storage key %q", key)
	}
	return nil
}
