// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package util

import (
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const ellipsis = "..."

// TruncateWidth shortens s to at most maxWidth terminal cells, ending with
// "..." when anything was cut. Wide runes (CJK, emoji) count as two cells.
func TruncateWidth(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= maxWidth {
		return s
	}
	if maxWidth <= len(ellipsis) {
		return runewidth.Truncate(s, maxWidth, "")
	}
	return runewidth.Truncate(s, maxWidth, ellipsis)
}

// Width returns the number of terminal cells s occupies.
func Width(s string) int {
	return runewidth.StringWidth(s)
}

// PadRight pads s with spaces to width cells.
func PadRight(s string, width int) string {
	return runewidth.FillRight(s, width)
}

// JoinFit joins parts with sep, dropping trailing parts that would push the
// line past maxWidth. It returns the joined line and how many parts fit.
func JoinFit(parts []string, sep string, maxWidth int) (string, int) {
	var b strings.Builder
	used := 0
	n := 0
	for _, p := range parts {
		w := runewidth.StringWidth(p)
		if n > 0 {
			w += runewidth.StringWidth(sep)
		}
		if used+w > maxWidth {
			break
		}
		if n > 0 {
			b.WriteString(sep)
		}
		b.WriteString(p)
		used += w
		n++
	}
	return b.String(), n
}

var printer = message.NewPrinter(language.English)

// FormatCount renders n with thousands separators, e.g. 12,345.
func FormatCount(n int) string {
	return printer.Sprintf("%d", n)
}
