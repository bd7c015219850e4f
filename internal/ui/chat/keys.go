// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"github.com/charmbracelet/bubbles/key"
)

// =============================================================================
// KEY MAP DEFINITION
// =============================================================================

// KeyMap defines all keyboard bindings for the chat interface.
type KeyMap struct {
	Submit        key.Binding
	NewSession    key.Binding
	RemoveSession key.Binding
	ClearSessions key.Binding
	RenameSession key.Binding
	NextSession   key.Binding
	PrevSession   key.Binding
	AddProvider   key.Binding
	PickProvider  key.Binding
	Copy          key.Binding
	Export        key.Binding
	PageUp        key.Binding
	PageDown      key.Binding
	Help          key.Binding
	Cancel        key.Binding
	Quit          key.Binding
}

// DefaultKeyMap returns the default key bindings. None of them collide with
// the text input's editing keys.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "send"),
		),
		NewSession: key.NewBinding(
			key.WithKeys("ctrl+n"),
			key.WithHelp("^N", "new session"),
		),
		RemoveSession: key.NewBinding(
			key.WithKeys("ctrl+w"),
			key.WithHelp("^W", "remove session"),
		),
		ClearSessions: key.NewBinding(
			key.WithKeys("ctrl+x"),
			key.WithHelp("^X", "clear all"),
		),
		RenameSession: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("^R", "rename"),
		),
		NextSession: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next session"),
		),
		PrevSession: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("S-tab", "prev session"),
		),
		AddProvider: key.NewBinding(
			key.WithKeys("ctrl+t"),
			key.WithHelp("^T", "add API"),
		),
		PickProvider: key.NewBinding(
			key.WithKeys("ctrl+p"),
			key.WithHelp("^P", "select API"),
		),
		Copy: key.NewBinding(
			key.WithKeys("ctrl+y"),
			key.WithHelp("^Y", "copy reply"),
		),
		Export: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("^S", "export"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("PgUp", "scroll up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown"),
			key.WithHelp("PgDn", "scroll down"),
		),
		Help: key.NewBinding(
			key.WithKeys("f1"),
			key.WithHelp("F1", "help"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "close"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("^C", "quit"),
		),
	}
}

// =============================================================================
// KEY BINDING HELPERS
// =============================================================================

// ShortHelp returns the bindings shown in the status bar.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Submit, k.NewSession, k.PickProvider, k.Help, k.Quit}
}

// FullHelp returns the bindings shown in the help overlay, grouped.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		// Sessions
		{k.NewSession, k.RenameSession, k.RemoveSession, k.ClearSessions, k.NextSession, k.PrevSession},
		// APIs
		{k.AddProvider, k.PickProvider},
		// Transcript
		{k.Submit, k.Copy, k.Export, k.PageUp, k.PageDown},
		// App
		{k.Help, k.Cancel, k.Quit},
	}
}

// setBusy disables the bindings that would disturb an in-flight exchange.
func (k *KeyMap) setBusy(busy bool) {
	for _, b := range []*key.Binding{
		&k.Submit, &k.NewSession, &k.RemoveSession, &k.ClearSessions,
		&k.RenameSession, &k.NextSession, &k.PrevSession,
	} {
		b.SetEnabled(!busy)
	}
}
