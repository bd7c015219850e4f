// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/jeranaias/rigchat/internal/config"
)

// replyRenderer renders assistant replies for line-mode output.
type replyRenderer struct {
	markdown *glamour.TermRenderer
}

// newReplyRenderer returns a markdown renderer when colors are on and
// ui.render_markdown is set, and a plain passthrough otherwise.
func newReplyRenderer(cfg *config.Config) *replyRenderer {
	r := &replyRenderer{}
	if !cfg.UI.RenderMarkdown || !ColorsEnabled() {
		return r
	}
	tr, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(GetTerminalWidth()-2),
	)
	if err == nil {
		r.markdown = tr
	}
	return r
}

// Render returns the reply ready to print. Rendering failures fall back to
// the raw text.
func (r *replyRenderer) Render(content string) string {
	if r.markdown == nil {
		return content
	}
	out, err := r.markdown.Render(content)
	if err != nil {
		return content
	}
	return strings.Trim(out, "\n")
}
