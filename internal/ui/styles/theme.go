// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme names accepted by NewTheme.
const (
	ThemeAuto  = "auto"
	ThemeDark  = "dark"
	ThemeLight = "light"
)

// Theme holds the styled components for the chat screen.
type Theme struct {
	IsDark bool

	// Header
	Header      lipgloss.Style
	HeaderTitle lipgloss.Style
	Badge       lipgloss.Style

	// Probe button, one per status
	ButtonNeutral lipgloss.Style
	ButtonLoading lipgloss.Style
	ButtonSuccess lipgloss.Style
	ButtonError   lipgloss.Style

	// Clock bar
	ClockBar lipgloss.Style

	// Messages
	UserLabel      lipgloss.Style
	UserBubble     lipgloss.Style
	AssistantLabel lipgloss.Style
	AssistantBody  lipgloss.Style
	TokenCount     lipgloss.Style
	Thinking       lipgloss.Style
	EmptyState     lipgloss.Style

	// Errors
	ErrorBanner lipgloss.Style
	ProbeError  lipgloss.Style

	// Input and help
	InputContainer lipgloss.Style
	InputPrompt    lipgloss.Style
	HelpKey        lipgloss.Style
	HelpDesc       lipgloss.Style
	StatusLine     lipgloss.Style
}

// ResolveDark reports whether name selects the dark palette. "auto" and
// unknown names ask the terminal.
func ResolveDark(name string) bool {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case ThemeDark:
		return true
	case ThemeLight:
		return false
	default:
		return termenv.HasDarkBackground()
	}
}

// NewTheme creates the theme for name and pins lipgloss's adaptive colors to
// the resolved background.
func NewTheme(name string) *Theme {
	isDark := ResolveDark(name)
	lipgloss.SetHasDarkBackground(isDark)

	t := &Theme{IsDark: isDark}
	t.initStyles()
	return t
}

func (t *Theme) initStyles() {
	t.Header = lipgloss.NewStyle().
		Background(SurfaceDim).
		Padding(0, 1)

	t.HeaderTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(Purple)

	t.Badge = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Padding(0, 1)

	button := lipgloss.NewStyle().
		Bold(true).
		Padding(0, 1).
		Foreground(TextInverse)
	t.ButtonNeutral = button.Background(Cyan)
	t.ButtonLoading = button.Background(Amber)
	t.ButtonSuccess = button.Background(Emerald)
	t.ButtonError = button.Background(Rose)

	t.ClockBar = lipgloss.NewStyle().
		Foreground(TextPrimary).
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(Overlay).
		Padding(0, 1)

	t.UserLabel = lipgloss.NewStyle().Bold(true).Foreground(Cyan)
	t.UserBubble = lipgloss.NewStyle().
		Foreground(UserBubbleFg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(UserBubbleBorder).
		Padding(0, 1)

	t.AssistantLabel = lipgloss.NewStyle().Bold(true).Foreground(Purple)
	t.AssistantBody = lipgloss.NewStyle().
		Foreground(AssistantBubbleFg).
		BorderStyle(lipgloss.NormalBorder()).
		BorderLeft(true).
		BorderForeground(AssistantBubbleBorder).
		PaddingLeft(1)

	t.TokenCount = lipgloss.NewStyle().Foreground(TextMuted).Italic(true)
	t.Thinking = lipgloss.NewStyle().Foreground(Amber).Italic(true)
	t.EmptyState = lipgloss.NewStyle().Foreground(TextMuted).Italic(true)

	t.ErrorBanner = lipgloss.NewStyle().
		Bold(true).
		Foreground(Rose).
		Background(RoseDeep).
		Padding(0, 1)
	t.ProbeError = lipgloss.NewStyle().Foreground(Rose)

	t.InputContainer = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderTop(true).
		BorderForeground(Overlay).
		Padding(0, 1)
	t.InputPrompt = lipgloss.NewStyle().Foreground(Cyan).Bold(true)

	t.HelpKey = lipgloss.NewStyle().Foreground(TextSecondary).Bold(true)
	t.HelpDesc = lipgloss.NewStyle().Foreground(TextMuted)
	t.StatusLine = lipgloss.NewStyle().Foreground(TextMuted)
}
