// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/jeranaias/rigchat/internal/model"
	"github.com/jeranaias/rigchat/internal/ui/styles"
)

// =============================================================================
// MESSAGE RENDERER
// =============================================================================

// MessageRenderer draws transcript entries. Assistant prose goes through
// glamour when Markdown is on; fenced code is drawn as CodeBlocks for every
// role.
type MessageRenderer struct {
	Markdown  bool
	Highlight bool

	theme    *styles.Theme
	width    int
	markdown *glamour.TermRenderer
}

// NewMessageRenderer creates a renderer for the given width.
func NewMessageRenderer(theme *styles.Theme, width int) *MessageRenderer {
	r := &MessageRenderer{
		Markdown:  true,
		Highlight: true,
		theme:     theme,
	}
	r.SetWidth(width)
	return r
}

// SetWidth updates the wrap width. The markdown renderer is rebuilt lazily.
func (r *MessageRenderer) SetWidth(width int) {
	if width < 20 {
		width = 20
	}
	if width != r.width {
		r.width = width
		r.markdown = nil
	}
}

// Width returns the wrap width.
func (r *MessageRenderer) Width() int {
	return r.width
}

// Render draws one message: a colored role label followed by its body.
func (r *MessageRenderer) Render(msg model.Message) string {
	var b strings.Builder
	b.WriteString(r.theme.RoleLabel(msg.Role).Render(msg.Role.DisplayName()))
	b.WriteString("\n")

	for i, seg := range SplitSegments(msg.Content) {
		if i > 0 {
			b.WriteString("\n")
		}
		if seg.Code {
			cb := NewCodeBlock(seg.Language, seg.Text)
			cb.MaxWidth = r.width
			cb.Highlight = r.Highlight
			b.WriteString(cb.Render(r.theme))
			continue
		}
		b.WriteString(r.renderProse(msg.Role, seg.Text))
	}
	return b.String()
}

// RenderAll draws a transcript separated by blank lines.
func (r *MessageRenderer) RenderAll(msgs []model.Message) string {
	parts := make([]string, len(msgs))
	for i, msg := range msgs {
		parts[i] = r.Render(msg)
	}
	return strings.Join(parts, "\n\n")
}

func (r *MessageRenderer) renderProse(role model.Role, text string) string {
	text = strings.Trim(text, "\n")
	if text == "" {
		return ""
	}

	body := r.theme.MessageBody
	if role == model.RoleSystem {
		body = r.theme.SystemBody
	}

	if role == model.RoleAssistant && r.Markdown {
		if out, err := r.renderMarkdown(text); err == nil {
			return strings.Trim(out, "\n")
		}
	}
	return body.Width(r.width).Render(text)
}

func (r *MessageRenderer) renderMarkdown(text string) (string, error) {
	if r.markdown == nil {
		style := "light"
		if r.theme.IsDark {
			style = "dark"
		}
		tr, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(style),
			glamour.WithWordWrap(r.width),
		)
		if err != nil {
			return "", err
		}
		r.markdown = tr
	}
	return r.markdown.Render(text)
}
