// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	coord "github.com/jeranaias/chatapp-tui/internal/chat"
	"github.com/jeranaias/chatapp-tui/internal/model"
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case ExchangeResultMsg:
		msg.Exchange.Resolve(msg.Response, msg.Err)
		m.layout()
		return m, nil

	case ProbeDoneMsg, RefreshMsg:
		m.layout()
		return m, nil

	case ClockZonesMsg:
		if m.clock != nil {
			if err := m.clock.Reconfigure(msg.Entries); err != nil {
				m.notice = fmt.Sprintf("Clock not updated: %v", err)
			}
		}
		return m, nil

	case ConfigErrorMsg:
		m.notice = fmt.Sprintf("Config reload failed: %v", msg.Err)
		return m, nil

	case CopyResultMsg:
		if msg.Err != nil {
			m.notice = fmt.Sprintf("Copy failed: %v", msg.Err)
		} else {
			m.notice = "Copied reply to clipboard"
		}
		return m, nil

	case spinner.TickMsg:
		if !m.animating() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		m.layout()
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Test):
		return m.startProbe()

	case key.Matches(msg, m.keys.Copy):
		return m.copyLastReply()

	case key.Matches(msg, m.keys.DismissErr):
		m.coordinator.ClearError()
		m.layout()
		return m, nil

	case key.Matches(msg, m.keys.ScrollUp), key.Matches(msg, m.keys.ScrollDown):
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	// The input is locked while a send is in flight.
	if m.coordinator.Busy() {
		return m, nil
	}

	if key.Matches(msg, m.keys.Submit) {
		return m.submit()
	}

	m.notice = ""
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit opens an exchange and returns the command that performs it.
func (m Model) submit() (tea.Model, tea.Cmd) {
	ex, ok := m.coordinator.Begin(m.input.Value())
	if !ok {
		return m, nil
	}
	m.input.Reset()
	m.layout()
	return m, tea.Batch(callCmd(m, ex), m.spinner.Tick)
}

func callCmd(m Model, ex *coord.Exchange) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		resp, err := ex.Call(ctx)
		return ExchangeResultMsg{Exchange: ex, Response: resp, Err: err}
	}
}

func (m Model) startProbe() (tea.Model, tea.Cmd) {
	if m.probe == nil || m.probe.Disabled() {
		return m, nil
	}
	p, ctx := m.probe, m.ctx
	check := func() tea.Msg {
		return ProbeDoneMsg{Accepted: p.TestConnectivity(ctx)}
	}
	return m, tea.Batch(check, m.spinner.Tick)
}

func (m Model) copyLastReply() (tea.Model, tea.Cmd) {
	history := m.coordinator.History()
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Role != model.RoleAssistant {
			continue
		}
		content, copyFn := history[i].Content, m.clipboard
		return m, func() tea.Msg {
			return CopyResultMsg{Err: copyFn(content)}
		}
	}
	m.notice = "Nothing to copy yet"
	return m, nil
}
