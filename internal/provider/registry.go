// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package provider

import (
	"errors"
	"fmt"
	"sync"

	"github.com/jeranaias/rigchat/internal/model"
)

// ErrIndexOutOfRange is returned when selecting a provider that does not exist.
var ErrIndexOutOfRange = errors.New("provider index out of range")

// Registry is the ordered provider list plus the active index. The active
// index may point past the end when the list is empty; Active reports that
// case instead of failing.
type Registry struct {
	mu        sync.RWMutex
	providers []model.ProviderConfig
	active    int
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Add appends a provider. The active index is left alone.
func (r *Registry) Add(cfg model.ProviderConfig) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.providers = append(r.providers, cfg)
	return len(r.providers) - 1
}

// Select makes the provider at index active.
func (r *Registry) Select(index int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if index < 0 || index >= len(r.providers) {
		return fmt.Errorf("%w: %d (have %d)", ErrIndexOutOfRange, index, len(r.providers))
	}
	r.active = index
	return nil
}

// Replace swaps the whole list. The active index is kept when still in
// range and otherwise reset to 0.
func (r *Registry) Replace(providers []model.ProviderConfig) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.providers = append([]model.ProviderConfig(nil), providers...)
	if r.active >= len(r.providers) {
		r.active = 0
	}
}

// Active returns the selected provider, or false if there is none.
func (r *Registry) Active() (model.ProviderConfig, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.active < 0 || r.active >= len(r.providers) {
		return model.ProviderConfig{}, false
	}
	return r.providers[r.active], true
}

// ActiveIndex returns the selected index, which may be out of range.
func (r *Registry) ActiveIndex() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.active
}

// List returns a copy of the provider list.
func (r *Registry) List() []model.ProviderConfig {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]model.ProviderConfig{}, r.providers...)
}

// Len returns the number of providers.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.providers)
}
