// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/rigchat/internal/model"
	"github.com/jeranaias/rigchat/internal/ui/styles"
)

// =============================================================================
// PROVIDER FORM
// =============================================================================

const (
	fieldName = iota
	fieldURL
	fieldKey
	fieldModel
	fieldCount
)

var fieldLabels = [fieldCount]string{"Name", "URL", "Key", "Model"}

// ProviderForm collects a new API configuration.
type ProviderForm struct {
	inputs [fieldCount]textinput.Model
	focus  int
	err    string
}

// NewProviderForm creates an empty form focused on the name field.
func NewProviderForm() ProviderForm {
	var f ProviderForm
	placeholders := [fieldCount]string{
		"My API",
		"https://api.example.com/v1/chat/completions",
		"sk-...",
		"gpt-4o-mini",
	}
	for i := range f.inputs {
		ti := textinput.New()
		ti.Prompt = ""
		ti.Placeholder = placeholders[i]
		ti.CharLimit = 1024
		f.inputs[i] = ti
	}
	f.inputs[fieldKey].EchoMode = textinput.EchoPassword
	f.inputs[fieldKey].EchoCharacter = '*'
	f.inputs[fieldName].Focus()
	return f
}

// Config returns the entered configuration.
func (f ProviderForm) Config() model.ProviderConfig {
	return model.ProviderConfig{
		DisplayName: f.inputs[fieldName].Value(),
		EndpointURL: f.inputs[fieldURL].Value(),
		Credential:  f.inputs[fieldKey].Value(),
		Model:       f.inputs[fieldModel].Value(),
	}
}

// SetError shows a validation message under the fields.
func (f *ProviderForm) SetError(msg string) {
	f.err = msg
}

// Next moves focus to the next field, wrapping around.
func (f *ProviderForm) Next() {
	f.setFocus((f.focus + 1) % fieldCount)
}

// Prev moves focus to the previous field, wrapping around.
func (f *ProviderForm) Prev() {
	f.setFocus((f.focus + fieldCount - 1) % fieldCount)
}

// OnLastField reports whether the model field is focused.
func (f ProviderForm) OnLastField() bool {
	return f.focus == fieldModel
}

func (f *ProviderForm) setFocus(i int) {
	f.inputs[f.focus].Blur()
	f.focus = i
	f.inputs[f.focus].Focus()
}

// Update forwards a message to the focused field.
func (f ProviderForm) Update(msg tea.Msg) (ProviderForm, tea.Cmd) {
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return f, cmd
}

// View renders the form.
func (f ProviderForm) View(theme *styles.Theme) string {
	var b strings.Builder
	b.WriteString(theme.FormTitle.Render("Add API configuration"))
	b.WriteString("\n")
	for i, in := range f.inputs {
		label := theme.FormLabel
		if i == f.focus {
			label = theme.FormActive
		}
		b.WriteString(label.Render(fieldLabels[i]))
		b.WriteString(in.View())
		b.WriteString("\n")
	}
	if f.err != "" {
		b.WriteString("\n")
		b.WriteString(theme.ErrorText.Render(f.err))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(theme.Muted.Render("tab next field, enter save, esc cancel"))
	return b.String()
}

// =============================================================================
// PROVIDER PICKER
// =============================================================================

// ProviderPicker lists the configured APIs by "<name> - <url>".
type ProviderPicker struct {
	labels []string
	cursor int
}

// NewProviderPicker creates a picker with the cursor on the active entry.
func NewProviderPicker(providers []model.ProviderConfig, active int) ProviderPicker {
	labels := make([]string, len(providers))
	for i, p := range providers {
		labels[i] = p.Label()
	}
	if active < 0 || active >= len(labels) {
		active = 0
	}
	return ProviderPicker{labels: labels, cursor: active}
}

// Move shifts the cursor by delta, clamped to the list.
func (p *ProviderPicker) Move(delta int) {
	p.cursor += delta
	if p.cursor < 0 {
		p.cursor = 0
	}
	if p.cursor >= len(p.labels) {
		p.cursor = len(p.labels) - 1
	}
}

// Selected returns the cursor index, or -1 for an empty list.
func (p ProviderPicker) Selected() int {
	if len(p.labels) == 0 {
		return -1
	}
	return p.cursor
}

// View renders the picker.
func (p ProviderPicker) View(theme *styles.Theme) string {
	var b strings.Builder
	b.WriteString(theme.FormTitle.Render("Select API"))
	b.WriteString("\n")
	if len(p.labels) == 0 {
		b.WriteString(theme.Muted.Render("No APIs configured. Press ctrl+t to add one."))
		return b.String()
	}
	for i, label := range p.labels {
		if i == p.cursor {
			b.WriteString(theme.PickerActive.Render("> " + label))
		} else {
			b.WriteString(theme.PickerItem.Render(label))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(theme.Muted.Render("up/down move, enter select, esc cancel"))
	return b.String()
}

// =============================================================================
// NAME BOX
// =============================================================================

// newNameInput creates the single-line box used for new and renamed
// sessions.
func newNameInput(placeholder, value string) textinput.Model {
	ti := textinput.New()
	ti.Prompt = "Name: "
	ti.Placeholder = placeholder
	ti.CharLimit = 128
	ti.SetValue(value)
	ti.Focus()
	return ti
}
