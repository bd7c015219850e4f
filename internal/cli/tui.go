// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/rigchat/internal/ui/chat"
	"github.com/jeranaias/rigchat/internal/ui/styles"
)

// RunTUI starts the full-screen chat interface.
func RunTUI(ctx context.Context, env *Env) error {
	if err := RequiresTTY("run the TUI"); err != nil {
		return err
	}

	mode, err := styles.ParseMode(env.Config.UI.Theme)
	if err != nil {
		return err
	}
	theme := styles.NewThemeWithMode(mode)

	m := chat.New(ctx, env.Controller, theme, chat.Options{
		RenderMarkdown: env.Config.UI.RenderMarkdown,
		HighlightCode:  env.Config.UI.HighlightCode,
		ShowHelp:       env.Config.UI.ShowHelp,
		ExportDir:      ".",
		ExportFormat:   "md",
	})

	p := tea.NewProgram(m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
