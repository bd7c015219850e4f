// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/rigchat/internal/ui/styles"
	"github.com/jeranaias/rigchat/internal/util"
)

// =============================================================================
// HEADER COMPONENT
// =============================================================================

// Header is the single-line title bar: app name, active session and
// active provider.
type Header struct {
	Title    string
	Session  string
	Provider string
	Width    int

	theme *styles.Theme
}

// NewHeader creates a header.
func NewHeader(theme *styles.Theme) *Header {
	return &Header{
		Title: "rigchat",
		Width: 80,
		theme: theme,
	}
}

// SetWidth sets the header width.
func (h *Header) SetWidth(width int) {
	h.Width = width
}

// View renders the header. The session name is truncated first when the
// terminal is narrow.
func (h *Header) View() string {
	title := h.theme.HeaderTitle.Render(h.Title)

	provider := h.Provider
	if provider == "" {
		provider = "no API selected"
	}
	right := h.theme.HeaderInfo.Render(util.TruncateWidth(provider, h.Width/3))

	avail := h.Width - lipgloss.Width(title) - lipgloss.Width(right) - 6
	session := h.theme.HeaderInfo.Render(util.TruncateWidth(util.SingleLine(h.Session), avail))

	left := title + "  " + session
	gap := h.Width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	line := left + strings.Repeat(" ", gap) + right
	return h.theme.Header.Width(h.Width).Render(line)
}
