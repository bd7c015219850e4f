// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the visual styling system for the rigchat TUI.

# Color System (colors.go)

Transcript entries are colored by role:

	UserColor      - green
	AssistantColor - blue
	SystemColor    - red (errors and invalid replies)

Accent, surface and text colors are Lip Gloss AdaptiveColor values, so the
same palette works on light and dark terminals.

# Theme System (theme.go)

Theme detects the terminal's color profile with termenv and holds every
lipgloss.Style the TUI draws with. The background can be forced with the
ui.theme setting:

	mode, err := styles.ParseMode(cfg.UI.Theme) // auto, dark or light
	theme := styles.NewThemeWithMode(mode)
	theme.SetSize(width, height)

# Animations (animations.go)

SpinnerConfig describes ASCII spinner frames and converts to a bubbles
spinner for the busy indicator.
*/
package styles
