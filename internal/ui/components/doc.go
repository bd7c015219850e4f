// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package components provides reusable UI components for the rigchat TUI.

# Components

  - Header (header.go) - title bar with the active session and API
  - SessionList (sessionlist.go) - sidebar of sessions, active one highlighted
  - MessageRenderer (message.go) - role-colored transcript entries, glamour
    markdown for assistant replies
  - CodeBlock (codeblock.go) - chroma-highlighted fenced code
  - StatusBar (statusbar.go) - busy spinner, notices and shortcut hints

# Usage

	r := components.NewMessageRenderer(theme, 80)
	view := r.RenderAll(session.Messages)
*/
package components
