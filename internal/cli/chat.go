// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"github.com/jeranaias/chatapp-tui/internal/chat"
	"github.com/jeranaias/chatapp-tui/internal/config"
	"github.com/jeranaias/chatapp-tui/internal/probe"
	"github.com/jeranaias/chatapp-tui/internal/ui/styles"
	"github.com/jeranaias/chatapp-tui/internal/util"
)

const (
	historyFileName = "chat_history"
	userPrompt      = "you> "
)

// =============================================================================
// INPUT HISTORY
// =============================================================================

// LineReader reads one line of input per call. io.EOF ends the session.
type LineReader interface {
	Prompt(prompt string) (string, error)
	AppendHistory(item string)
}

// LineEditor wraps liner with a persisted history file.
type LineEditor struct {
	line        *liner.State
	historyFile string
}

// NewLineEditor creates a LineEditor and loads history from the config
// directory.
func NewLineEditor() *LineEditor {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	dir, err := config.ConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	e := &LineEditor{line: line, historyFile: filepath.Join(dir, historyFileName)}

	if f, err := os.Open(e.historyFile); err == nil {
		_, _ = line.ReadHistory(f)
		f.Close()
	}
	return e
}

// Prompt implements LineReader. Ctrl+C is reported as io.EOF.
func (e *LineEditor) Prompt(prompt string) (string, error) {
	s, err := e.line.Prompt(prompt)
	if errors.Is(err, liner.ErrPromptAborted) {
		return "", io.EOF
	}
	return s, err
}

// AppendHistory implements LineReader.
func (e *LineEditor) AppendHistory(item string) {
	e.line.AppendHistory(item)
}

// Close saves history (0600) and restores the terminal.
func (e *LineEditor) Close() error {
	var buf bytes.Buffer
	_, _ = e.line.WriteHistory(&buf)
	saveErr := util.AtomicWriteFile(e.historyFile, buf.Bytes(), 0600)
	closeErr := e.line.Close()
	return errors.Join(saveErr, closeErr)
}

// =============================================================================
// SESSION
// =============================================================================

// Session is a line-mode conversation driving the same coordinator and
// probe as the TUI.
type Session struct {
	Coordinator *chat.Coordinator
	Probe       *probe.Probe
	Reader      LineReader
	Out         Output
}

// Run reads lines until EOF or /quit.
func (s *Session) Run(ctx context.Context) error {
	w := s.Out.W
	fmt.Fprintln(w, TitleStyle.Render("chatapp")+" "+DimStyle.Render("model "+s.Coordinator.Model()))
	fmt.Fprintln(w, DimStyle.Render("Type a message, or /help for commands."))

	for {
		if err := ctx.Err(); err != nil {
			return nil
		}
		line, err := s.Reader.Prompt(userPrompt)
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(w)
			return nil
		}
		if err != nil {
			return fmt.Errorf("read input: %w", err)
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		s.Reader.AppendHistory(line)

		if strings.HasPrefix(line, "/") {
			if quit := s.handleSlash(ctx, line); quit {
				return nil
			}
			continue
		}
		s.send(ctx, line)
	}
}

func (s *Session) send(ctx context.Context, text string) {
	if !s.Coordinator.SendMessage(ctx, text) {
		return
	}
	w := s.Out.W
	if msg := s.Coordinator.Error(); msg != "" {
		fmt.Fprintln(w, styles.RenderError(msg))
		return
	}
	if reply, ok := lastReply(s.Coordinator.History()); ok {
		fmt.Fprintln(w, assistantStyle.Render("AI:"))
		s.Out.printReply(reply)
	}
}

// handleSlash runs a slash command and reports whether the session should
// end.
func (s *Session) handleSlash(ctx context.Context, line string) bool {
	w := s.Out.W
	cmd := strings.ToLower(strings.Fields(line)[0])

	switch cmd {
	case "/quit", "/q", "/exit":
		return true
	case "/help", "/h", "/?":
		printSlashHelp(w)
	case "/test", "/t":
		s.runProbe(ctx)
	case "/history":
		history := s.Coordinator.History()
		if len(history) == 0 {
			fmt.Fprintln(w, DimStyle.Render("No messages yet."))
		}
		for _, msg := range history {
			fmt.Fprintf(w, "%s %s\n", promptStyle.Render(msg.Role.DisplayName()+":"), msg.Preview(60))
		}
	case "/status", "/s":
		history := s.Coordinator.History()
		total := 0
		for _, msg := range history {
			total += msg.TotalTokens()
		}
		fmt.Fprintln(w, field("Model", s.Coordinator.Model()))
		fmt.Fprintln(w, field("Messages", util.FormatCount(len(history))))
		fmt.Fprintln(w, field("Tokens", util.FormatCount(total)))
	default:
		fmt.Fprintln(w, warningStyle.Render("Unknown command: "+cmd+" (try /help)"))
	}
	return false
}

func (s *Session) runProbe(ctx context.Context) {
	w := s.Out.W
	if s.Probe == nil {
		fmt.Fprintln(w, warningStyle.Render("Connectivity test unavailable"))
		return
	}
	if !s.Probe.TestConnectivity(ctx) {
		fmt.Fprintln(w, warningStyle.Render("A connectivity test is already running"))
		return
	}
	// ErrorText survives the reset to neutral; Status may not.
	if msg := s.Probe.ErrorText(); msg != "" {
		fmt.Fprintln(w, styles.RenderError(msg))
		return
	}
	fmt.Fprintln(w, styles.RenderSuccess(probe.StatusSuccess.Label()))
}

func printSlashHelp(w io.Writer) {
	rows := [][2]string{
		{"/test", "Test backend connectivity"},
		{"/history", "Show the conversation"},
		{"/status", "Show model and token totals"},
		{"/help", "Show this help"},
		{"/quit", "Leave the session (Ctrl+D)"},
	}
	for _, r := range rows {
		fmt.Fprintf(w, "  %s %s\n", commandStyle.Render(util.PadRight(r[0], 10)), r[1])
	}
}
