// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"log"
	"strings"

	"github.com/charmbracelet/glamour"
)

// markdownRenderer renders assistant replies, caching by message ID since
// committed messages never change.
type markdownRenderer struct {
	r     *glamour.TermRenderer
	width int
	cache map[string]string
}

func newMarkdownRenderer(dark bool, width int) *markdownRenderer {
	style := "light"
	if dark {
		style = "dark"
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		log.Printf("chat: markdown renderer unavailable: %v", err)
		r = nil
	}
	return &markdownRenderer{r: r, width: width, cache: make(map[string]string)}
}

// render returns content as styled terminal text, falling back to the raw
// text when rendering fails.
func (mr *markdownRenderer) render(id, content string) string {
	if mr == nil || mr.r == nil {
		return content
	}
	if out, ok := mr.cache[id]; ok {
		return out
	}
	out, err := mr.r.Render(content)
	if err != nil {
		log.Printf("chat: markdown render failed: %v", err)
		return content
	}
	out = strings.Trim(out, "\n")
	mr.cache[id] = out
	return out
}
