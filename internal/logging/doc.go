// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package logging builds the application's slog logger and carries the
// lifecycle event observer used by the exchange engine.
//
// # Key Types
//
//   - Options: level, format and destination file
//   - Observer: receives Events (exchange.start, exchange.complete, ...)
//   - SlogObserver / NoOpObserver: Observer implementations
//
// # Usage
//
//	logger, closer, err := logging.New(logging.Options{
//	    Level:  "info",
//	    Format: logging.FormatText,
//	    File:   filepath.Join(dataDir, "rigchat.log"),
//	})
//	defer closer.Close()
//	obs := logging.NewSlogObserver(logger)
//
// The TUI owns the terminal, so the default destination is a file.
package logging
