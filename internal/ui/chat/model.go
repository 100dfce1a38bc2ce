// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	coord "github.com/jeranaias/chatapp-tui/internal/chat"
	"github.com/jeranaias/chatapp-tui/internal/clock"
	"github.com/jeranaias/chatapp-tui/internal/probe"
	"github.com/jeranaias/chatapp-tui/internal/ui/styles"
)

const (
	defaultWidth  = 80
	defaultHeight = 24

	// Title and badges shown in the header.
	Title = "Chat App"
)

// Deps are the components the screen reads from.
type Deps struct {
	// Ctx bounds every request started from the screen.
	Ctx context.Context

	Coordinator *coord.Coordinator
	Probe       *probe.Probe
	Clock       *clock.Ticker // may be nil
	Theme       *styles.Theme

	Version        string
	Badge          string
	ShowTokens     bool
	RenderMarkdown bool

	// Clipboard writes text to the system clipboard. Defaults to
	// clipboard.WriteAll.
	Clipboard func(string) error
}

// Model is the Bubble Tea model for the chat screen.
type Model struct {
	ctx         context.Context
	coordinator *coord.Coordinator
	probe       *probe.Probe
	clock       *clock.Ticker
	theme       *styles.Theme
	clipboard   func(string) error

	version        string
	badge          string
	showTokens     bool
	renderMarkdown bool

	keys     KeyMap
	input    textinput.Model
	viewport viewport.Model
	spinner  spinner.Model
	markdown *markdownRenderer

	width  int
	height int

	// lastCount and lastBusy detect content growth for auto-scroll.
	lastCount int
	lastBusy  bool

	notice string
}

// New creates the chat screen.
func New(deps Deps) Model {
	ctx := deps.Ctx
	if ctx == nil {
		ctx = context.Background()
	}
	theme := deps.Theme
	if theme == nil {
		theme = styles.NewTheme(styles.ThemeAuto)
	}
	copyFn := deps.Clipboard
	if copyFn == nil {
		copyFn = clipboard.WriteAll
	}

	ti := textinput.New()
	ti.Prompt = "> "
	ti.PromptStyle = theme.InputPrompt
	ti.Placeholder = "Type your message..."
	ti.CharLimit = 4096
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Spinner{
		Frames: []string{"|", "/", "-", "\\"},
		FPS:    time.Second / 10,
	}
	sp.Style = theme.Thinking

	m := Model{
		ctx:            ctx,
		coordinator:    deps.Coordinator,
		probe:          deps.Probe,
		clock:          deps.Clock,
		theme:          theme,
		clipboard:      copyFn,
		version:        deps.Version,
		badge:          deps.Badge,
		showTokens:     deps.ShowTokens,
		renderMarkdown: deps.RenderMarkdown,
		keys:           DefaultKeyMap(),
		input:          ti,
		viewport:       viewport.New(defaultWidth, defaultHeight),
		spinner:        sp,
	}
	m.resize(defaultWidth, defaultHeight)
	return m
}

// Init starts the cursor blink.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Input returns the current input text.
func (m Model) Input() string {
	return m.input.Value()
}

// Notice returns the transient status message, e.g. after a copy.
func (m Model) Notice() string {
	return m.notice
}

func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height

	const promptLen = 2
	inputWidth := width - 4 - promptLen
	if inputWidth < 10 {
		inputWidth = 10
	}
	m.input.Width = inputWidth

	wrap := width - 4
	if wrap < 20 {
		wrap = 20
	}
	if m.renderMarkdown && (m.markdown == nil || m.markdown.width != wrap) {
		m.markdown = newMarkdownRenderer(m.theme.IsDark, wrap)
	}

	m.viewport.Width = width
	m.layout()
}

// layout sizes the viewport to the space the fixed rows leave and refreshes
// its content.
func (m *Model) layout() {
	h := m.height - m.chromeHeight()
	if h < 1 {
		h = 1
	}
	m.viewport.Height = h

	count := len(m.coordinator.History())
	busy := m.coordinator.Busy()
	m.viewport.SetContent(m.renderMessages())
	if count != m.lastCount || busy != m.lastBusy {
		m.viewport.GotoBottom()
	}
	m.lastCount = count
	m.lastBusy = busy
}

// animating reports whether the spinner has something to show.
func (m Model) animating() bool {
	return m.coordinator.Busy() || (m.probe != nil && m.probe.Status() == probe.StatusLoading)
}
