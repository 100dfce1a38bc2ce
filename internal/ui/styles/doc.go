// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling for the chatapp TUI.
//
// Colors are lipgloss.AdaptiveColor values; NewTheme pins the light or dark
// variant when the user picks a theme explicitly and otherwise lets termenv
// detect the terminal background.
package styles
