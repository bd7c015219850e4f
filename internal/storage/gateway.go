// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jeranaias/rigchat/internal/model"
)

// Default keys for the two persisted collections.
const (
	ProvidersKey = "api_list.json"
	SessionsKey  = "sessions.json"
)

// ErrMalformed wraps decode failures of a stored collection.
var ErrMalformed = errors.New("malformed collection")

// =============================================================================
// GATEWAY
// =============================================================================

// Gateway reads and writes the provider and session collections as JSON.
// Every save overwrites the whole collection.
type Gateway struct {
	store        BlobStore
	providersKey string
	sessionsKey  string
}

// NewGateway creates a gateway over store using the default keys.
func NewGateway(store BlobStore) *Gateway {
	return &Gateway{
		store:        store,
		providersKey: ProvidersKey,
		sessionsKey:  SessionsKey,
	}
}

// WithKeys overrides the keys used for the two collections. Empty values keep the default.
func (g *Gateway) WithKeys(providersKey, sessionsKey string) *Gateway {
	if providersKey != "" {
		g.providersKey = providersKey
	}
	if sessionsKey != "" {
		g.sessionsKey = sessionsKey
	}
	return g
}

// Store returns the underlying blob store.
func (g *Gateway) Store() BlobStore {
	return g.store
}

// ProvidersKey returns the key the provider collection is stored under.
func (g *Gateway) ProvidersKey() string {
	return g.providersKey
}

// SessionsKey returns the key the session collection is stored under.
func (g *Gateway) SessionsKey() string {
	return g.sessionsKey
}

// Close releases the underlying store.
func (g *Gateway) Close() error {
	return g.store.Close()
}

// =============================================================================
// SAVE OPERATIONS
// =============================================================================

// SaveProviders overwrites the stored provider collection.
func (g *Gateway) SaveProviders(ctx context.Context, providers []model.ProviderConfig) error {
	if providers == nil {
		providers = []model.ProviderConfig{}
	}
	return g.save(ctx, g.providersKey, providers)
}

// SaveSessions overwrites the stored session collection.
func (g *Gateway) SaveSessions(ctx context.Context, sessions []*model.Session) error {
	if sessions == nil {
		sessions = []*model.Session{}
	}
	return g.save(ctx, g.sessionsKey, sessions)
}

func (g *Gateway) save(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	if err := g.store.Put(ctx, key, data); err != nil {
		return fmt.Errorf("failed to save %s: %w", key, err)
	}
	return nil
}

// =============================================================================
// LOAD OPERATIONS
// =============================================================================

// LoadProviders reads the provider collection. found is false when nothing
// has been stored yet; that case returns an empty list and no error.
func (g *Gateway) LoadProviders(ctx context.Context) (providers []model.ProviderConfig, found bool, err error) {
	found, err = g.load(ctx, g.providersKey, &providers)
	if providers == nil {
		providers = []model.ProviderConfig{}
	}
	return providers, found, err
}

// LoadSessions reads the session collection. found is false when nothing has
// been stored yet; that case returns an empty list and no error.
func (g *Gateway) LoadSessions(ctx context.Context) (sessions []*model.Session, found bool, err error) {
	found, err = g.load(ctx, g.sessionsKey, &sessions)
	if err != nil {
		return []*model.Session{}, found, err
	}
	out := make([]*model.Session, 0, len(sessions))
	for _, s := range sessions {
		if s == nil {
			continue
		}
		if s.Messages == nil {
			s.Messages = []model.Message{}
		}
		out = append(out, s)
	}
	return out, found, nil
}

func (g *Gateway) load(ctx context.Context, key string, v any) (bool, error) {
	data, err := g.store.Get(ctx, key)
	if errors.Is(err, ErrBlobNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return true, fmt.Errorf("%w: %s: %v", ErrMalformed, key, err)
	}
	return true, nil
}
