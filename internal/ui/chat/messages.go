// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"github.com/jeranaias/rigchat/internal/exchange"
)

// =============================================================================
// EXCHANGE MESSAGES
// =============================================================================

// ExchangeDoneMsg carries the result of a Send run in the background.
// Err is a busy or persistence error; the exchange result is in Outcome.
type ExchangeDoneMsg struct {
	Outcome exchange.Outcome
	Err     error
}

// =============================================================================
// STATE MESSAGES
// =============================================================================

// ProvidersReloadedMsg signals that the provider list changed on disk.
type ProvidersReloadedMsg struct{}

// SessionExportedMsg reports an export result.
type SessionExportedMsg struct {
	Path string
	Err  error
}

// CopiedMsg reports a clipboard copy result.
type CopiedMsg struct {
	Chars int
	Err   error
}

// NoticeMsg sets the status line.
type NoticeMsg struct {
	Text    string
	IsError bool
}
