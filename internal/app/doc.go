// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package app holds the Controller, the single owner of rigchat's state.
//
// Both surfaces (the bubbletea TUI and the line REPL) drive the same
// Controller. It serializes mutations, persists each collection change
// through the storage gateway, and keeps a busy flag so only one exchange
// is in flight. While busy, operations that change the session list or the
// active session return ErrBusy so a late reply cannot land in the wrong
// session.
//
// # Usage
//
//	ctrl := app.New(app.Deps{Gateway: gw, Transport: client, Logger: logger})
//	report := ctrl.Startup(ctx)
//	ctrl.SetInput("hi")
//	out, err := ctrl.Send(ctx)
package app
