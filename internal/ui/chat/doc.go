// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package chat implements the rigchat terminal UI on Bubble Tea.

The Model is a thin surface over an *app.Controller: it renders snapshots of
the application state and turns key presses into controller calls. Exchanges
run inside a tea.Cmd; their completion arrives as ExchangeDoneMsg, and the
input stays read-only until then.

# Layout

	+---------------------------------------------------+
	| rigchat  <session name>          <API name - url> |
	+-----------+---------------------------------------+
	| Sessions  | You                                   |
	| ...       |   question                            |
	|           | Assistant                             |
	|           |   answer                              |
	+-----------+---------------------------------------+
	| > input                                           |
	| status / shortcuts                                |
	+---------------------------------------------------+

# Overlays

  - provider form (ctrl+t): name, URL, key, model
  - provider picker (ctrl+p): entries labelled "<name> - <url>"
  - new session (ctrl+n) and rename (ctrl+r) name boxes
  - clear-all confirmation (ctrl+x)
  - help (f1)

# Usage

	m := chat.New(ctrl, theme, chat.Options{RenderMarkdown: true})
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
*/
package chat
