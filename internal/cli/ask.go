// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/jeranaias/chatapp-tui/internal/chat"
	"github.com/jeranaias/chatapp-tui/internal/model"
	"github.com/jeranaias/chatapp-tui/internal/util"
)

// Output controls how replies are printed.
type Output struct {
	W          io.Writer
	Markdown   bool // render replies with glamour
	Width      int  // wrap width for markdown, 0 for DefaultTerminalWidth
	ShowTokens bool
}

// StdoutOutput returns an Output for the process's stdout. Markdown is used
// only on a terminal so piped output stays plain.
func StdoutOutput(w io.Writer, raw, showTokens bool) Output {
	tty := IsStdoutTTY()
	return Output{
		W:          w,
		Markdown:   tty && !raw,
		Width:      TerminalWidth(),
		ShowTokens: showTokens,
	}
}

// RunAsk sends query as a single exchange and prints the reply.
// A failed exchange returns *ReplyError with the text the TUI would show.
func RunAsk(ctx context.Context, coord *chat.Coordinator, query string, out Output) error {
	if !coord.SendMessage(ctx, query) {
		return usageErrorf("ask requires a message")
	}
	if text := coord.Error(); text != "" {
		return &ReplyError{Text: text}
	}

	reply, ok := lastReply(coord.History())
	if !ok {
		return &ReplyError{Text: chat.FallbackError}
	}
	out.printReply(reply)
	return nil
}

func lastReply(history []model.Message) (model.Message, bool) {
	if len(history) == 0 {
		return model.Message{}, false
	}
	last := history[len(history)-1]
	if last.Role != model.RoleAssistant {
		return model.Message{}, false
	}
	return last, true
}

// printReply writes the reply content followed by an optional token line.
func (o Output) printReply(msg model.Message) {
	body := msg.Content
	if o.Markdown {
		body = renderMarkdown(body, o.Width)
	}
	fmt.Fprintln(o.W, strings.TrimRight(body, "\n"))
	if o.ShowTokens && msg.HasUsage() {
		fmt.Fprintln(o.W, DimStyle.Render("Tokens: "+util.FormatCount(msg.TotalTokens())))
	}
}

// renderMarkdown renders content with glamour, returning content unchanged
// when the renderer cannot be built or fails.
func renderMarkdown(content string, width int) string {
	if width <= 0 {
		width = DefaultTerminalWidth
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return content
	}
	rendered, err := r.Render(content)
	if err != nil {
		return content
	}
	return strings.Trim(rendered, "\n")
}
