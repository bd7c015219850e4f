// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/jeranaias/rigchat/internal/app"
	"github.com/jeranaias/rigchat/internal/cloud"
	"github.com/jeranaias/rigchat/internal/config"
	"github.com/jeranaias/rigchat/internal/logging"
	"github.com/jeranaias/rigchat/internal/storage"
)

// Env is everything a command needs: configuration, logger and, for
// commands that touch stored state, a started Controller.
type Env struct {
	Config     *config.Config
	ConfigPath string
	Logger     *slog.Logger
	Controller *app.Controller
	Report     app.LoadReport

	logCloser io.Closer
}

// Close stops the controller and flushes the log file.
func (e *Env) Close() error {
	var errs []error
	if e.Controller != nil {
		errs = append(errs, e.Controller.Close())
	}
	if e.logCloser != nil {
		errs = append(errs, e.logCloser.Close())
	}
	return errors.Join(errs...)
}

// =============================================================================
// BOOTSTRAP
// =============================================================================

// LoadConfig resolves the config path, loads the file (defaults when it
// does not exist) and applies command-line overrides.
func LoadConfig(args Args) (*config.Config, string, error) {
	path := args.ConfigPath
	if path == "" {
		p, err := config.ConfigPath()
		if err != nil {
			return nil, "", err
		}
		path = p
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, path, err
	}

	if args.DataDir != "" {
		cfg.DataDir = args.DataDir
	}
	if args.SQLite {
		cfg.Storage.Backend = "sqlite"
	}
	if args.Verbose {
		cfg.Log.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return nil, path, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, path, nil
}

// Bootstrap builds the Env for cmd: config, then logging, then storage,
// transport and controller. The controller is started (both collections
// loaded) before Bootstrap returns.
func Bootstrap(ctx context.Context, cmd Command, args Args) (*Env, error) {
	cfg, path, err := LoadConfig(args)
	if err != nil {
		return nil, err
	}
	env := &Env{Config: cfg, ConfigPath: path, Logger: logging.Discard()}

	if !cmd.NeedsController() {
		return env, nil
	}

	logFile, err := cfg.LogPath()
	if err != nil {
		return nil, err
	}
	if logFile == "-" && cmd == CmdTUI {
		// The TUI owns the terminal
		logFile = ""
		if dir, derr := cfg.ResolvedDataDir(); derr == nil {
			logFile = filepath.Join(dir, config.Default().Log.File)
		}
	}
	logger, closer, err := logging.New(logging.Options{
		Level:  cfg.Log.Level,
		Format: logging.Format(cfg.Log.Format),
		File:   logFile,
	})
	if err != nil {
		return nil, err
	}
	env.Logger = logger
	env.logCloser = closer

	store, err := OpenStore(cfg)
	if err != nil {
		env.Close()
		return nil, err
	}
	gateway := storage.NewGateway(store).WithKeys(cfg.Storage.ProvidersKey, cfg.Storage.SessionsKey)

	transport := cloud.NewClient(logger).WithUserAgent("rigchat/" + Version)
	env.Controller = app.New(app.Deps{
		Gateway:              gateway,
		Transport:            transport,
		Logger:               logger,
		Observer:             logging.NewSlogObserver(logger),
		ReplaySystemMessages: cfg.Exchange.ReplaySystemMessages,
		PersistFailures:      cfg.Exchange.PersistFailures,
	})
	env.Report = env.Controller.Startup(ctx)

	if err := applySelection(env.Controller, args); err != nil {
		env.Close()
		return nil, err
	}

	if cmd == CmdTUI && cfg.Storage.WatchProviders && cfg.Storage.Backend == "file" {
		if err := env.Controller.WatchProviders(ctx); err != nil {
			logger.Warn("provider watching disabled", "error", err)
		}
	}
	return env, nil
}

// OpenStore opens the blob store selected by storage.backend.
func OpenStore(cfg *config.Config) (storage.BlobStore, error) {
	if cfg.Storage.Backend == "sqlite" {
		path, err := cfg.SQLitePath()
		if err != nil {
			return nil, err
		}
		return storage.OpenSQLiteStore(path)
	}

	dir, err := cfg.ResolvedDataDir()
	if err != nil {
		return nil, err
	}
	return storage.NewFileStore(dir)
}

// applySelection activates the --session and --api entries.
func applySelection(ctrl *app.Controller, args Args) error {
	if args.Session > 0 {
		if err := ctrl.SelectSession(args.Session - 1); err != nil {
			return fmt.Errorf("--session %d: %w", args.Session, err)
		}
	}
	if args.Provider > 0 {
		if err := ctrl.SelectProvider(args.Provider - 1); err != nil {
			return fmt.Errorf("--api %d: %w", args.Provider, err)
		}
	}
	return nil
}
