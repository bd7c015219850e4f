// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/rigchat/internal/app"
	"github.com/jeranaias/rigchat/internal/export"
	"github.com/jeranaias/rigchat/internal/model"
	"github.com/jeranaias/rigchat/internal/ui/components"
	"github.com/jeranaias/rigchat/internal/ui/styles"
)

// =============================================================================
// OVERLAYS
// =============================================================================

type overlay int

const (
	overlayNone overlay = iota
	overlayProviderForm
	overlayProviderPicker
	overlayNewSession
	overlayRename
	overlayConfirmClear
	overlayHelp
)

// =============================================================================
// OPTIONS
// =============================================================================

// Options configures the chat model.
type Options struct {
	RenderMarkdown bool
	HighlightCode  bool
	ShowHelp       bool

	// ExportDir and ExportFormat control ctrl+s.
	ExportDir    string
	ExportFormat string

	// Clipboard replaces the system clipboard, mainly for tests.
	Clipboard func(string) error
}

// =============================================================================
// MODEL
// =============================================================================

// Model is the Bubble Tea model for the chat screen.
type Model struct {
	ctrl  *app.Controller
	ctx   context.Context
	theme *styles.Theme
	keys  KeyMap
	opts  Options

	// Bubbles
	viewport viewport.Model
	input    textinput.Model
	spinner  spinner.Model
	help     help.Model

	// Components
	header   *components.Header
	sidebar  *components.SessionList
	status   *components.StatusBar
	renderer *components.MessageRenderer

	// Overlays
	overlay overlay
	form    ProviderForm
	picker  ProviderPicker
	nameBox textinput.Model

	// State
	state     app.State
	sending   bool
	pending   string
	notice    string
	noticeErr bool
	width     int
	height    int
	reloadCh  chan struct{}
}

// New creates a chat model over ctrl. The context bounds every exchange.
func New(ctx context.Context, ctrl *app.Controller, theme *styles.Theme, opts Options) Model {
	if opts.ExportFormat == "" {
		opts.ExportFormat = "md"
	}
	if opts.ExportDir == "" {
		opts.ExportDir = "."
	}
	if opts.Clipboard == nil {
		opts.Clipboard = copyToClipboard
	}

	ti := textinput.New()
	ti.Prompt = "> "
	ti.PromptStyle = theme.InputPrompt
	ti.Placeholder = "Type a message..."
	ti.CharLimit = 0
	ti.Focus()

	renderer := components.NewMessageRenderer(theme, 80)
	renderer.Markdown = opts.RenderMarkdown
	renderer.Highlight = opts.HighlightCode

	status := components.NewStatusBar(theme)
	keys := DefaultKeyMap()
	if opts.ShowHelp {
		status.Shortcuts = keys.ShortHelp()
	}

	m := Model{
		ctrl:     ctrl,
		ctx:      ctx,
		theme:    theme,
		keys:     keys,
		opts:     opts,
		viewport: viewport.New(80, 20),
		input:    ti,
		spinner:  theme.NewSpinner(styles.LineSpinner),
		help:     help.New(),
		header:   components.NewHeader(theme),
		sidebar:  components.NewSessionList(theme),
		status:   status,
		renderer: renderer,
		reloadCh: make(chan struct{}, 1),
	}

	ctrl.OnProvidersReloaded(func() {
		select {
		case m.reloadCh <- struct{}{}:
		default:
		}
	})

	m.refresh()
	return m
}

// Init starts the cursor blink and the provider reload listener.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, waitForReload(m.reloadCh))
}

// =============================================================================
// STATE SYNC
// =============================================================================

// refresh copies controller state into the model and re-renders the
// transcript.
func (m *Model) refresh() {
	m.state = m.ctrl.Snapshot()
	m.keys.setBusy(m.busy())

	m.sidebar.Sessions = m.state.Sessions
	m.sidebar.Active = m.state.ActiveSession

	m.header.Session = m.state.Active().Name
	m.header.Provider = ""
	if p, ok := m.state.Provider(); ok {
		m.header.Provider = p.Label()
	}

	m.updateViewport()
}

// updateViewport re-renders the active transcript and scrolls to the end.
func (m *Model) updateViewport() {
	sess := m.state.Active()
	msgs := sess.Messages
	if m.sending && !m.state.Busy {
		msgs = append(msgs[:len(msgs):len(msgs)], model.NewUserMessage(m.pending))
	}
	if len(msgs) == 0 {
		m.viewport.SetContent(m.theme.EmptyState.Render(emptyHint(len(m.state.Providers) > 0)))
		return
	}
	m.viewport.SetContent(m.renderer.RenderAll(msgs))
	m.viewport.GotoBottom()
}

// busy reports whether an exchange is pending or in flight.
func (m Model) busy() bool {
	return m.sending || m.state.Busy
}

func emptyHint(hasProviders bool) string {
	if !hasProviders {
		return "No API configured yet. Press ctrl+t to add one."
	}
	return "Start typing to chat. Press F1 for help."
}

func (m *Model) setNotice(text string, isErr bool) {
	m.notice = text
	m.noticeErr = isErr
}

// exportOptions builds export options for the active provider.
func (m Model) exportOptions() *export.Options {
	opts := export.DefaultOptions()
	opts.OutputDir = m.opts.ExportDir
	if p, ok := m.state.Provider(); ok {
		opts.Provider = p.Label()
	}
	if !m.theme.IsDark {
		opts.Theme = "light"
	}
	return opts
}
