// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/jeranaias/rigchat/internal/exchange"
	"github.com/jeranaias/rigchat/internal/logging"
	"github.com/jeranaias/rigchat/internal/model"
	"github.com/jeranaias/rigchat/internal/provider"
	"github.com/jeranaias/rigchat/internal/session"
	"github.com/jeranaias/rigchat/internal/storage"
)

// ErrBusy is returned for operations that would disturb an in-flight exchange.
var ErrBusy = exchange.ErrBusy

// Deps are the collaborators of a Controller.
type Deps struct {
	Gateway   *storage.Gateway
	Transport exchange.Transport
	Logger    *slog.Logger
	Observer  logging.Observer

	// ReplaySystemMessages sends System entries back to the API.
	ReplaySystemMessages bool
	// PersistFailures saves sessions after failed exchanges too.
	PersistFailures bool
}

// Controller owns the application state: the provider registry, the session
// store and the input buffer. It is the only mutator of that state and
// persists every collection change immediately.
type Controller struct {
	gateway  *storage.Gateway
	logger   *slog.Logger
	sessions *session.Store
	registry *provider.Registry
	engine   *exchange.Engine

	persistFailures bool

	// saveMu is held from a collection mutation through its write so the
	// stored collections always match memory. Lock order: saveMu, then mu.
	saveMu sync.Mutex

	mu       sync.Mutex
	input    string
	busy     bool
	watcher  *storage.Watcher
	onReload func()
}

// New creates a controller with a single default session and no providers.
func New(deps Deps) *Controller {
	logger := deps.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	sessions := session.NewStore()
	return &Controller{
		gateway:  deps.Gateway,
		logger:   logger,
		sessions: sessions,
		registry: provider.NewRegistry(),
		engine: exchange.NewEngine(sessions, deps.Transport, exchange.Options{
			ReplaySystemMessages: deps.ReplaySystemMessages,
			Observer:             deps.Observer,
			Logger:               logger,
		}),
		persistFailures: deps.PersistFailures,
	}
}

// =============================================================================
// STARTUP
// =============================================================================

// LoadReport describes what Startup found.
type LoadReport struct {
	ProvidersFound bool
	SessionsFound  bool
	Providers      int
	Sessions       int
	// Errors holds malformed-collection errors. Startup continues with
	// defaults for the affected collection.
	Errors []error
}

// Startup loads both collections. A missing collection is informational; a
// malformed one is logged and the defaults are kept. It never fails.
func (c *Controller) Startup(ctx context.Context) LoadReport {
	var report LoadReport

	providers, found, err := c.gateway.LoadProviders(ctx)
	switch {
	case err != nil:
		c.logger.Error("failed to load API configurations", "key", c.gateway.ProvidersKey(), "error", err)
		report.Errors = append(report.Errors, err)
	case !found:
		c.logger.Info("no saved API configurations", "key", c.gateway.ProvidersKey())
	default:
		c.registry.Replace(providers)
		report.ProvidersFound = true
		c.logger.Info("loaded API configurations", "count", len(providers))
	}

	sessions, found, err := c.gateway.LoadSessions(ctx)
	switch {
	case err != nil:
		c.logger.Error("failed to load sessions", "key", c.gateway.SessionsKey(), "error", err)
		report.Errors = append(report.Errors, err)
	case !found:
		c.logger.Info("no saved sessions", "key", c.gateway.SessionsKey())
	default:
		c.sessions.Replace(sessions)
		report.SessionsFound = true
		c.logger.Info("loaded sessions", "count", len(sessions))
	}

	report.Providers = c.registry.Len()
	report.Sessions = c.sessions.Len()
	return report
}

// =============================================================================
// SESSION OPERATIONS
// =============================================================================

// NewSession creates and activates a session and clears the input buffer.
// An empty name gets the default "Session N" name.
func (c *Controller) NewSession(ctx context.Context, name string) (*model.Session, error) {
	var created *model.Session
	err := c.mutateSessions(ctx, func() {
		created = c.sessions.Create(name)
		c.input = ""
	})
	return created, err
}

// RemoveSession deletes the active session, or resets it when it is the
// only one.
func (c *Controller) RemoveSession(ctx context.Context) error {
	return c.mutateSessions(ctx, c.sessions.RemoveActive)
}

// ClearSessions replaces every session with one empty default session.
func (c *Controller) ClearSessions(ctx context.Context) error {
	return c.mutateSessions(ctx, c.sessions.ClearAll)
}

// RenameSession renames the active session.
func (c *Controller) RenameSession(ctx context.Context, name string) error {
	return c.mutateSessions(ctx, func() {
		c.sessions.Rename(name)
	})
}

// SelectSession activates the session at index. The active index is not
// persisted.
func (c *Controller) SelectSession(index int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.busy {
		return ErrBusy
	}
	return c.sessions.Select(index)
}

// mutateSessions applies fn unless an exchange is in flight, then persists.
func (c *Controller) mutateSessions(ctx context.Context, fn func()) error {
	c.saveMu.Lock()
	defer c.saveMu.Unlock()

	c.mu.Lock()
	if c.busy {
		c.mu.Unlock()
		return ErrBusy
	}
	fn()
	sessions := c.sessions.Sessions()
	c.mu.Unlock()

	return c.saveSessions(ctx, sessions)
}

// persistSessions writes the current sessions.
func (c *Controller) persistSessions(ctx context.Context) error {
	c.saveMu.Lock()
	defer c.saveMu.Unlock()

	c.mu.Lock()
	sessions := c.sessions.Sessions()
	c.mu.Unlock()

	return c.saveSessions(ctx, sessions)
}

// saveSessions writes sessions. The caller holds saveMu.
func (c *Controller) saveSessions(ctx context.Context, sessions []*model.Session) error {
	if err := c.gateway.SaveSessions(ctx, sessions); err != nil {
		c.logger.Error("failed to save sessions", "error", err)
		return fmt.Errorf("save sessions: %w", err)
	}
	return nil
}

// =============================================================================
// PROVIDER OPERATIONS
// =============================================================================

// AddProvider validates and appends a provider, then persists the list.
// It returns the new provider's index.
func (c *Controller) AddProvider(ctx context.Context, cfg model.ProviderConfig) (int, error) {
	cfg = cfg.Normalized()
	if err := cfg.Validate(); err != nil {
		return -1, err
	}

	c.saveMu.Lock()
	defer c.saveMu.Unlock()

	c.mu.Lock()
	index := c.registry.Add(cfg)
	providers := c.registry.List()
	c.mu.Unlock()

	c.logger.Info("added API configuration",
		"name", cfg.DisplayName,
		"model", cfg.Model,
		"key", cfg.CredentialFingerprint())
	return index, c.saveProviders(ctx, providers)
}

// SelectProvider activates the provider at index.
func (c *Controller) SelectProvider(index int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.registry.Select(index)
}

// ReloadProviders replaces the registry with the stored list. Used when the
// provider file changes on disk. A malformed file leaves the registry as is.
func (c *Controller) ReloadProviders(ctx context.Context) error {
	notify, err := c.reloadProviders(ctx)
	if notify != nil {
		notify()
	}
	return err
}

// reloadProviders loads and replaces the list under saveMu so a reload
// cannot interleave with AddProvider's append and write. It returns the
// listener to run once the lock is released.
func (c *Controller) reloadProviders(ctx context.Context) (func(), error) {
	c.saveMu.Lock()
	defer c.saveMu.Unlock()

	providers, found, err := c.gateway.LoadProviders(ctx)
	if err != nil {
		c.logger.Error("failed to reload API configurations", "error", err)
		return nil, err
	}
	if !found {
		c.logger.Info("API configuration file removed; keeping current list")
		return nil, nil
	}

	c.mu.Lock()
	c.registry.Replace(providers)
	notify := c.onReload
	c.mu.Unlock()

	c.logger.Info("reloaded API configurations", "count", len(providers))
	return notify, nil
}

// saveProviders writes providers. The caller holds saveMu.
func (c *Controller) saveProviders(ctx context.Context, providers []model.ProviderConfig) error {
	c.mu.Lock()
	w := c.watcher
	c.mu.Unlock()
	if w != nil {
		w.Mute(c.gateway.ProvidersKey())
	}

	if err := c.gateway.SaveProviders(ctx, providers); err != nil {
		c.logger.Error("failed to save API configurations", "error", err)
		return fmt.Errorf("save providers: %w", err)
	}
	return nil
}

// WatchProviders reloads the registry whenever the provider file is edited
// by another process. Only file-backed stores can be watched.
func (c *Controller) WatchProviders(ctx context.Context) error {
	fs, ok := c.gateway.Store().(*storage.FileStore)
	if !ok {
		return errors.New("provider watching requires the file storage backend")
	}

	key := c.gateway.ProvidersKey()
	w, err := storage.NewWatcher(fs, []string{key}, func(string) {
		_ = c.ReloadProviders(ctx)
	}, c.logger)
	if err != nil {
		return err
	}
	if err := w.Start(ctx); err != nil {
		w.Close()
		return err
	}

	c.mu.Lock()
	c.watcher = w
	c.mu.Unlock()
	return nil
}

// OnProvidersReloaded registers a callback run after ReloadProviders
// succeeds.
func (c *Controller) OnProvidersReloaded(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onReload = fn
}

// =============================================================================
// INPUT AND EXCHANGE
// =============================================================================

// Input returns the input buffer.
func (c *Controller) Input() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.input
}

// SetInput replaces the input buffer.
func (c *Controller) SetInput(s string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.input = s
}

// Busy reports whether an exchange is in flight.
func (c *Controller) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.busy
}

// Send runs one exchange for the current input against the active provider.
// The returned error is ErrBusy or a persistence failure; the exchange
// result itself is in the Outcome. On success the input is cleared.
func (c *Controller) Send(ctx context.Context) (exchange.Outcome, error) {
	c.mu.Lock()
	if c.busy {
		c.mu.Unlock()
		return exchange.Outcome{State: exchange.StateSending, Err: ErrBusy}, ErrBusy
	}
	input := c.input
	prov, ok := c.registry.Active()
	c.busy = true
	c.mu.Unlock()

	out := c.engine.Send(ctx, input, prov, ok)

	c.mu.Lock()
	c.busy = false
	if out.Succeeded() {
		c.input = ""
	}
	c.mu.Unlock()

	if !out.Started() {
		return out, nil
	}
	if out.Succeeded() || c.persistFailures {
		return out, c.persistSessions(ctx)
	}
	return out, nil
}

// SendText sets the input buffer to text and sends it.
func (c *Controller) SendText(ctx context.Context, text string) (exchange.Outcome, error) {
	c.mu.Lock()
	if c.busy {
		c.mu.Unlock()
		return exchange.Outcome{State: exchange.StateSending, Err: ErrBusy}, ErrBusy
	}
	c.input = text
	c.mu.Unlock()
	return c.Send(ctx)
}

// =============================================================================
// SNAPSHOT
// =============================================================================

// State is a read-only copy of the application state for rendering.
type State struct {
	Providers      []model.ProviderConfig
	ActiveProvider int
	Sessions       []*model.Session
	ActiveSession  int
	Input          string
	Busy           bool
	Exchange       exchange.State
}

// Active returns the active session.
func (s State) Active() *model.Session {
	return s.Sessions[s.ActiveSession]
}

// Provider returns the active provider, or false if none is selected.
func (s State) Provider() (model.ProviderConfig, bool) {
	if s.ActiveProvider < 0 || s.ActiveProvider >= len(s.Providers) {
		return model.ProviderConfig{}, false
	}
	return s.Providers[s.ActiveProvider], true
}

// Snapshot copies the current state.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	return State{
		Providers:      c.registry.List(),
		ActiveProvider: c.registry.ActiveIndex(),
		Sessions:       c.sessions.Sessions(),
		ActiveSession:  c.sessions.ActiveIndex(),
		Input:          c.input,
		Busy:           c.busy,
		Exchange:       c.engine.State(),
	}
}

// Close stops the provider watcher and closes storage.
func (c *Controller) Close() error {
	c.mu.Lock()
	w := c.watcher
	c.watcher = nil
	c.mu.Unlock()

	var errs []error
	if w != nil {
		errs = append(errs, w.Close())
	}
	errs = append(errs, c.gateway.Close())
	return errors.Join(errs...)
}
