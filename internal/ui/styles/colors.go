// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for the rigchat TUI.
// All colors use Lip Gloss AdaptiveColor for automatic light/dark detection.
package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/rigchat/internal/model"
)

// =============================================================================
// ROLE COLORS
// =============================================================================

// UserColor - User messages (green)
var UserColor = lipgloss.AdaptiveColor{Light: "#15803D", Dark: "#4ADE80"}

// AssistantColor - Assistant replies (blue)
var AssistantColor = lipgloss.AdaptiveColor{Light: "#1D4ED8", Dark: "#60A5FA"}

// SystemColor - System entries and errors (red)
var SystemColor = lipgloss.AdaptiveColor{Light: "#B91C1C", Dark: "#F87171"}

// =============================================================================
// ACCENT COLORS
// =============================================================================

// Purple - Primary accent, selections, focus
var Purple = lipgloss.AdaptiveColor{Light: "#7C3AED", Dark: "#A78BFA"}

// Cyan - Brand color, header, commands
var Cyan = lipgloss.AdaptiveColor{Light: "#0891B2", Dark: "#22D3EE"}

// Emerald - Success states
var Emerald = lipgloss.AdaptiveColor{Light: "#059669", Dark: "#34D399"}

// Rose - Errors
var Rose = lipgloss.AdaptiveColor{Light: "#E11D48", Dark: "#FB7185"}

// Amber - Warnings, busy indicator
var Amber = lipgloss.AdaptiveColor{Light: "#D97706", Dark: "#FBBF24"}

// =============================================================================
// SURFACE AND TEXT COLORS
// =============================================================================

var (
	SurfaceDim    = lipgloss.AdaptiveColor{Light: "#F5F5F5", Dark: "#181825"}
	SurfaceBright = lipgloss.AdaptiveColor{Light: "#FAFAFA", Dark: "#313244"}
	Overlay       = lipgloss.AdaptiveColor{Light: "#E5E5E5", Dark: "#313244"}
	CodeBg        = lipgloss.AdaptiveColor{Light: "#F3F4F6", Dark: "#11111B"}
	SelectionBg   = lipgloss.AdaptiveColor{Light: "#BFDBFE", Dark: "#1E3A5F"}

	TextPrimary   = lipgloss.AdaptiveColor{Light: "#1F2937", Dark: "#CDD6F4"}
	TextSecondary = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#A6ADC8"}
	TextMuted     = lipgloss.AdaptiveColor{Light: "#9CA3AF", Dark: "#6C7086"}
)

// RoleColor returns the transcript color for a message role.
func RoleColor(role model.Role) lipgloss.AdaptiveColor {
	switch role {
	case model.RoleUser:
		return UserColor
	case model.RoleSystem:
		return SystemColor
	default:
		return AssistantColor
	}
}

// =============================================================================
// STATUS HELPERS
// =============================================================================

// Status prefixes carry meaning without relying on color alone.
const (
	IconSuccess = "[OK]"
	IconError   = "[ERR]"
	IconInfo    = "[i]"
)

// RenderSuccess renders a success line with a text prefix.
func RenderSuccess(message string) string {
	return lipgloss.NewStyle().Foreground(Emerald).Render(IconSuccess + " " + message)
}

// RenderError renders an error line with a text prefix.
func RenderError(message string) string {
	return lipgloss.NewStyle().Foreground(Rose).Bold(true).Render(IconError + " " + message)
}

// RenderInfo renders an informational line with a text prefix.
func RenderInfo(message string) string {
	return lipgloss.NewStyle().Foreground(Cyan).Render(IconInfo + " " + message)
}
