// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/rigchat/internal/app"
	"github.com/jeranaias/rigchat/internal/exchange"
)

// Layout heights of the fixed rows.
const (
	headerHeight = 1
	inputHeight  = 3
	statusHeight = 1
)

// =============================================================================
// UPDATE
// =============================================================================

// Update handles incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd

	case spinner.TickMsg:
		if !m.busy() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case ExchangeDoneMsg:
		return m.handleExchangeDone(msg)

	case ProvidersReloadedMsg:
		m.refresh()
		m.setNotice(fmt.Sprintf("API list reloaded (%d)", len(m.state.Providers)), false)
		return m, waitForReload(m.reloadCh)

	case SessionExportedMsg:
		if msg.Err != nil {
			m.setNotice("Export failed: "+msg.Err.Error(), true)
		} else {
			m.setNotice("Exported to "+msg.Path, false)
		}
		return m, nil

	case CopiedMsg:
		if msg.Err != nil {
			m.setNotice("Copy failed: "+msg.Err.Error(), true)
		} else {
			m.setNotice(fmt.Sprintf("Copied reply (%d chars)", msg.Chars), false)
		}
		return m, nil

	case NoticeMsg:
		m.setNotice(msg.Text, msg.IsError)
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// resize lays out the viewport and components for a new terminal size.
func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height
	m.theme.SetSize(width, height)

	sidebar := m.theme.SidebarWidth()
	bodyHeight := height - headerHeight - inputHeight - statusHeight
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	vpWidth := width - sidebar
	if vpWidth < 1 {
		vpWidth = 1
	}

	m.header.SetWidth(width)
	m.status.SetWidth(width)
	m.sidebar.Width = sidebar
	m.sidebar.Height = bodyHeight
	m.viewport.Width = vpWidth
	m.viewport.Height = bodyHeight
	m.input.Width = width - 6
	m.help.Width = width
	m.renderer.SetWidth(vpWidth - 2)

	m.updateViewport()
}

// =============================================================================
// KEY HANDLING
// =============================================================================

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}
	if m.overlay != overlayNone {
		return m.handleOverlayKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Submit):
		return m.submit()

	case key.Matches(msg, m.keys.NewSession):
		m.overlay = overlayNewSession
		m.nameBox = newNameInput("empty for default name", "")
		return m, nil

	case key.Matches(msg, m.keys.RenameSession):
		m.overlay = overlayRename
		m.nameBox = newNameInput("", m.state.Active().Name)
		return m, nil

	case key.Matches(msg, m.keys.RemoveSession):
		m.report(m.ctrl.RemoveSession(m.ctx), "Session removed")
		return m, nil

	case key.Matches(msg, m.keys.ClearSessions):
		m.overlay = overlayConfirmClear
		return m, nil

	case key.Matches(msg, m.keys.NextSession):
		m.cycleSession(1)
		return m, nil

	case key.Matches(msg, m.keys.PrevSession):
		m.cycleSession(-1)
		return m, nil

	case key.Matches(msg, m.keys.AddProvider):
		m.overlay = overlayProviderForm
		m.form = NewProviderForm()
		return m, nil

	case key.Matches(msg, m.keys.PickProvider):
		m.overlay = overlayProviderPicker
		m.picker = NewProviderPicker(m.state.Providers, m.state.ActiveProvider)
		return m, nil

	case key.Matches(msg, m.keys.Copy):
		return m, copyCmd(m.state.Active().Clone(), m.opts.Clipboard)

	case key.Matches(msg, m.keys.Export):
		return m, exportCmd(m.state.Active().Clone(), m.opts.ExportFormat, m.exportOptions())

	case key.Matches(msg, m.keys.PageUp):
		m.viewport.HalfViewUp()
		return m, nil

	case key.Matches(msg, m.keys.PageDown):
		m.viewport.HalfViewDown()
		return m, nil

	case key.Matches(msg, m.keys.Help):
		m.overlay = overlayHelp
		return m, nil
	}

	if m.busy() {
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit starts an exchange for the current input. Blank input is ignored.
func (m Model) submit() (tea.Model, tea.Cmd) {
	text := m.input.Value()
	if strings.TrimSpace(text) == "" {
		return m, nil
	}
	if _, ok := m.state.Provider(); !ok {
		m.setNotice("No API selected. Press ctrl+p to pick one or ctrl+t to add one.", true)
		return m, nil
	}

	m.ctrl.SetInput(text)
	m.sending = true
	m.pending = text
	m.input.Blur()
	m.setNotice("", false)
	m.refresh()
	return m, tea.Batch(sendCmd(m.ctx, m.ctrl), m.spinner.Tick)
}

func (m Model) handleExchangeDone(msg ExchangeDoneMsg) (tea.Model, tea.Cmd) {
	m.sending = false
	m.pending = ""
	m.input.Focus()

	out := msg.Outcome
	switch {
	case errors.Is(msg.Err, app.ErrBusy):
		m.setNotice("An exchange is already in progress", true)
	case msg.Err != nil:
		m.setNotice(msg.Err.Error(), true)
	case errors.Is(out.Err, exchange.ErrNoProvider):
		m.setNotice("No API selected", true)
	case out.Succeeded():
		m.input.SetValue(m.ctrl.Input())
		m.setNotice(fmt.Sprintf("Reply received in %s", out.Duration.Round(10*time.Millisecond)), false)
	default:
		m.setNotice("Exchange failed", true)
	}

	m.refresh()
	return m, nil
}

func (m *Model) cycleSession(delta int) {
	n := len(m.state.Sessions)
	next := (m.state.ActiveSession + delta + n) % n
	if err := m.ctrl.SelectSession(next); err != nil {
		m.setNotice(err.Error(), true)
	}
	m.refresh()
}

// report shows the result of a controller mutation and refreshes.
func (m *Model) report(err error, success string) {
	if err != nil {
		m.setNotice(err.Error(), true)
	} else {
		m.setNotice(success, false)
	}
	m.refresh()
}

// =============================================================================
// OVERLAY KEYS
// =============================================================================

func (m Model) handleOverlayKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Cancel) {
		m.overlay = overlayNone
		return m, nil
	}

	switch m.overlay {
	case overlayProviderForm:
		return m.handleFormKey(msg)

	case overlayProviderPicker:
		switch msg.String() {
		case "up", "k":
			m.picker.Move(-1)
		case "down", "j":
			m.picker.Move(1)
		case "enter":
			if i := m.picker.Selected(); i >= 0 {
				if err := m.ctrl.SelectProvider(i); err != nil {
					m.setNotice(err.Error(), true)
				} else {
					m.setNotice("Using "+m.state.Providers[i].DisplayName, false)
				}
			}
			m.overlay = overlayNone
			m.refresh()
		}
		return m, nil

	case overlayNewSession, overlayRename:
		if msg.Type == tea.KeyEnter {
			name := strings.TrimSpace(m.nameBox.Value())
			if m.overlay == overlayNewSession {
				_, err := m.ctrl.NewSession(m.ctx, name)
				if err == nil {
					m.input.SetValue(m.ctrl.Input())
				}
				m.report(err, "Session created")
			} else if name != "" {
				m.report(m.ctrl.RenameSession(m.ctx, name), "Session renamed")
			}
			m.overlay = overlayNone
			return m, nil
		}
		var cmd tea.Cmd
		m.nameBox, cmd = m.nameBox.Update(msg)
		return m, cmd

	case overlayConfirmClear:
		switch msg.String() {
		case "y", "Y":
			m.report(m.ctrl.ClearSessions(m.ctx), "All sessions cleared")
			m.overlay = overlayNone
		case "n", "N":
			m.overlay = overlayNone
		}
		return m, nil

	case overlayHelp:
		m.overlay = overlayNone
		return m, nil
	}
	return m, nil
}

func (m Model) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyTab, tea.KeyDown:
		m.form.Next()
		return m, nil
	case tea.KeyShiftTab, tea.KeyUp:
		m.form.Prev()
		return m, nil
	case tea.KeyEnter:
		if !m.form.OnLastField() {
			m.form.Next()
			return m, nil
		}
		cfg := m.form.Config()
		index, err := m.ctrl.AddProvider(m.ctx, cfg)
		if index < 0 {
			m.form.SetError(err.Error())
			return m, nil
		}
		m.overlay = overlayNone
		m.report(err, "Added "+strings.TrimSpace(cfg.DisplayName))
		return m, nil
	}

	var cmd tea.Cmd
	m.form, cmd = m.form.Update(msg)
	return m, cmd
}
