// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"strings"
	"testing"
)

func TestResolveDark_Explicit(t *testing.T) {
	if !ResolveDark("dark") || !ResolveDark(" DARK ") {
		t.Error("dark theme should resolve to dark")
	}
	if ResolveDark("light") {
		t.Error("light theme should resolve to light")
	}
}

func TestNewTheme_PinsBackground(t *testing.T) {
	if theme := NewTheme(ThemeLight); theme.IsDark {
		t.Error("light theme reported IsDark")
	}
	if theme := NewTheme(ThemeDark); !theme.IsDark {
		t.Error("dark theme reported !IsDark")
	}
}

func TestTheme_StylesRender(t *testing.T) {
	theme := NewTheme(ThemeDark)

	styles := map[string]func(...string) string{
		"Header":        theme.Header.Render,
		"ButtonNeutral": theme.ButtonNeutral.Render,
		"ButtonLoading": theme.ButtonLoading.Render,
		"ButtonSuccess": theme.ButtonSuccess.Render,
		"ButtonError":   theme.ButtonError.Render,
		"ClockBar":      theme.ClockBar.Render,
		"UserBubble":    theme.UserBubble.Render,
		"AssistantBody": theme.AssistantBody.Render,
		"ErrorBanner":   theme.ErrorBanner.Render,
		"InputPrompt":   theme.InputPrompt.Render,
	}
	for name, render := range styles {
		if out := render("text"); !strings.Contains(out, "text") {
			t.Errorf("%s.Render dropped content: %q", name, out)
		}
	}
}

func TestRenderStatus(t *testing.T) {
	if got := RenderStatus(true, "Connected"); !strings.Contains(got, "[OK] Connected") {
		t.Errorf("RenderStatus(true) = %q", got)
	}
	if got := RenderStatus(false, "Unreachable"); !strings.Contains(got, "[X] Unreachable") {
		t.Errorf("RenderStatus(false) = %q", got)
	}
}
