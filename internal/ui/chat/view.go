// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"github.com/charmbracelet/lipgloss"
)

// =============================================================================
// VIEW
// =============================================================================

// View renders the chat screen.
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	body := m.viewport.View()
	if m.sidebar.Width > 0 {
		body = lipgloss.JoinHorizontal(lipgloss.Top, m.sidebar.View(), body)
	}

	screen := lipgloss.JoinVertical(lipgloss.Left,
		m.header.View(),
		body,
		m.renderInput(),
		m.renderStatus(),
	)

	if m.overlay == overlayNone {
		return screen
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
		m.theme.Overlay.Render(m.renderOverlay()))
}

func (m Model) renderInput() string {
	style := m.theme.InputContainer
	if m.input.Focused() {
		style = m.theme.InputFocused
	}
	return style.Width(m.width - 2).Render(m.input.View())
}

func (m Model) renderStatus() string {
	m.status.Busy = m.busy()
	m.status.Spinner = m.spinner.View()
	m.status.Notice = m.notice
	m.status.IsError = m.noticeErr
	return m.status.View()
}

func (m Model) renderOverlay() string {
	switch m.overlay {
	case overlayProviderForm:
		return m.form.View(m.theme)
	case overlayProviderPicker:
		return m.picker.View(m.theme)
	case overlayNewSession:
		return m.theme.FormTitle.Render("New session") + "\n" + m.nameBox.View()
	case overlayRename:
		return m.theme.FormTitle.Render("Rename session") + "\n" + m.nameBox.View()
	case overlayConfirmClear:
		return m.theme.FormTitle.Render("Clear all sessions?") + "\n" +
			m.theme.Muted.Render("Every session will be replaced by one empty session. (y/n)")
	case overlayHelp:
		return m.theme.FormTitle.Render("Keys") + "\n" + m.help.FullHelpView(m.keys.FullHelp())
	}
	return ""
}
