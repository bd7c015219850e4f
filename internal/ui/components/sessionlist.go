// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"strings"

	"github.com/jeranaias/rigchat/internal/model"
	"github.com/jeranaias/rigchat/internal/ui/styles"
	"github.com/jeranaias/rigchat/internal/util"
)

// =============================================================================
// SESSION LIST COMPONENT
// =============================================================================

// SessionList renders the sidebar of sessions with the active one
// highlighted. Names and previews are cut to the column width.
type SessionList struct {
	Sessions []*model.Session
	Active   int
	Width    int
	Height   int

	theme *styles.Theme
}

// NewSessionList creates a session list.
func NewSessionList(theme *styles.Theme) *SessionList {
	return &SessionList{Width: 30, Height: 20, theme: theme}
}

// View renders the list. When the list is taller than Height it scrolls so
// the active session stays visible.
func (l *SessionList) View() string {
	inner := l.Width - 3
	if inner < 4 {
		inner = 4
	}

	lines := []string{l.theme.SidebarTitle.Render(fmt.Sprintf("Sessions (%d)", len(l.Sessions)))}

	rows := l.Height - 2
	if rows < 1 {
		rows = 1
	}
	perItem := 2
	visible := rows / perItem
	if visible < 1 {
		visible = 1
	}
	start := 0
	if l.Active >= visible {
		start = l.Active - visible + 1
	}

	for i := start; i < len(l.Sessions) && i < start+visible; i++ {
		s := l.Sessions[i]
		name := util.PadWidth(util.SingleLine(s.Name), inner)
		if i == l.Active {
			lines = append(lines, l.theme.SessionSelected.Render(name))
		} else {
			lines = append(lines, l.theme.SessionItem.Render(name))
		}

		preview := s.Preview()
		if preview == "" {
			preview = fmt.Sprintf("%d messages", s.Len())
		}
		lines = append(lines, l.theme.SessionPreview.Render(util.TruncateWidth(preview, inner)))
	}

	return l.theme.Sidebar.Width(l.Width).Height(l.Height).Render(strings.Join(lines, "\n"))
}
