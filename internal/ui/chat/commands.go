// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"errors"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/rigchat/internal/app"
	"github.com/jeranaias/rigchat/internal/export"
	"github.com/jeranaias/rigchat/internal/model"
)

// errNothingToCopy is reported when the session has no assistant reply.
var errNothingToCopy = errors.New("no assistant reply to copy")

// =============================================================================
// COMMAND CREATORS
// =============================================================================

// sendCmd runs one exchange off the UI goroutine.
func sendCmd(ctx context.Context, ctrl *app.Controller) tea.Cmd {
	return func() tea.Msg {
		out, err := ctrl.Send(ctx)
		return ExchangeDoneMsg{Outcome: out, Err: err}
	}
}

// waitForReload blocks until the provider watcher fires.
func waitForReload(ch <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return ProvidersReloadedMsg{}
	}
}

// exportCmd writes the session to disk in the background.
func exportCmd(sess *model.Session, format string, opts *export.Options) tea.Cmd {
	return func() tea.Msg {
		exporter, err := export.ForFormat(format, opts)
		if err != nil {
			return SessionExportedMsg{Err: err}
		}
		path, err := export.ExportToFile(sess, exporter, opts)
		return SessionExportedMsg{Path: path, Err: err}
	}
}

// copyCmd copies the last assistant reply of a session to the clipboard.
func copyCmd(sess *model.Session, write func(string) error) tea.Cmd {
	return func() tea.Msg {
		msg, ok := sess.LastOfRole(model.RoleAssistant)
		if !ok || msg.Content == "" {
			return CopiedMsg{Err: errNothingToCopy}
		}
		if err := write(msg.Content); err != nil {
			return CopiedMsg{Err: err}
		}
		return CopiedMsg{Chars: len([]rune(msg.Content))}
	}
}

// copyToClipboard copies the given text to the system clipboard.
func copyToClipboard(text string) error {
	return clipboard.WriteAll(text)
}
