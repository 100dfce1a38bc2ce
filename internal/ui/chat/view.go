// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/chatapp-tui/internal/model"
	"github.com/jeranaias/chatapp-tui/internal/probe"
	"github.com/jeranaias/chatapp-tui/internal/util"
)

const clockSeparator = "  |  "

// View renders the screen.
func (m Model) View() string {
	rows := []string{m.renderHeader()}
	if line := m.renderProbeError(); line != "" {
		rows = append(rows, line)
	}
	if bar := m.renderClockBar(); bar != "" {
		rows = append(rows, bar)
	}
	rows = append(rows, m.viewport.View())
	if banner := m.renderErrorBanner(); banner != "" {
		rows = append(rows, banner)
	}
	rows = append(rows, m.renderInput(), m.renderHelp())
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// chromeHeight is the number of rows outside the viewport. It must match
// the rows View emits.
func (m Model) chromeHeight() int {
	h := 1 + 2 + 1 // header, input (border + line), help
	if m.renderProbeError() != "" {
		h++
	}
	if m.clock != nil {
		h += 2 // clock line + border
	}
	if m.coordinator.Error() != "" {
		h++
	}
	return h
}

// =============================================================================
// HEADER
// =============================================================================

func (m Model) renderHeader() string {
	left := m.theme.HeaderTitle.Render(Title)
	if m.version != "" {
		left += m.theme.Badge.Render("v" + strings.TrimPrefix(m.version, "v"))
	}
	if m.badge != "" {
		left += m.theme.Badge.Render(m.badge)
	}

	button := m.renderProbeButton()
	gap := m.width - 2 - lipgloss.Width(left) - lipgloss.Width(button)
	if gap < 1 {
		gap = 1
	}
	return m.theme.Header.Width(m.width).Render(left + strings.Repeat(" ", gap) + button)
}

func (m Model) renderProbeButton() string {
	if m.probe == nil {
		return ""
	}
	status := m.probe.Status()
	label := status.Label()
	switch status {
	case probe.StatusLoading:
		return m.theme.ButtonLoading.Render(m.spinner.View() + " " + label)
	case probe.StatusSuccess:
		return m.theme.ButtonSuccess.Render(label)
	case probe.StatusError:
		return m.theme.ButtonError.Render(label)
	default:
		return m.theme.ButtonNeutral.Render(label)
	}
}

// renderProbeError shows the failure text while the probe is in its error
// state.
func (m Model) renderProbeError() string {
	if m.probe == nil || m.probe.Status() != probe.StatusError {
		return ""
	}
	text := m.probe.ErrorText()
	if text == "" {
		return ""
	}
	return m.theme.ProbeError.Render(util.TruncateWidth(text, m.width))
}

// =============================================================================
// CLOCK BAR
// =============================================================================

func (m Model) renderClockBar() string {
	if m.clock == nil {
		return ""
	}
	readings := m.clock.Readings()
	parts := make([]string, 0, len(readings))
	for _, r := range readings {
		part := r.City + " " + r.CurrentTime
		if r.Glyph != "" {
			part = r.Glyph + " " + part
		}
		parts = append(parts, part)
	}
	line, _ := util.JoinFit(parts, clockSeparator, m.width-2)
	return m.theme.ClockBar.Width(m.width).Render(line)
}

// =============================================================================
// MESSAGES
// =============================================================================

func (m Model) renderMessages() string {
	history := m.coordinator.History()
	if len(history) == 0 && !m.coordinator.Busy() {
		return m.theme.EmptyState.Render("Start a conversation\nSend a message to begin chatting with AI")
	}

	blocks := make([]string, 0, len(history)+1)
	for _, msg := range history {
		blocks = append(blocks, m.renderMessage(msg))
	}
	if m.coordinator.Busy() {
		blocks = append(blocks, m.theme.Thinking.Render(m.spinner.View()+" AI is thinking..."))
	}
	return strings.Join(blocks, "\n\n")
}

func (m Model) renderMessage(msg model.Message) string {
	bodyWidth := m.width - 4
	if bodyWidth < 10 {
		bodyWidth = 10
	}

	if msg.Role == model.RoleUser {
		label := m.theme.UserLabel.Render(msg.Role.DisplayName())
		body := m.theme.UserBubble.Width(bodyWidth).Render(msg.Content)
		return label + "\n" + body
	}

	label := m.theme.AssistantLabel.Render(msg.Role.DisplayName())
	content := msg.Content
	if m.renderMarkdown {
		content = m.markdown.render(msg.ID, msg.Content)
	}
	body := m.theme.AssistantBody.Width(bodyWidth).Render(content)
	if m.showTokens && msg.HasUsage() {
		body += "\n" + m.theme.TokenCount.Render("Tokens: "+util.FormatCount(msg.TotalTokens()))
	}
	return label + "\n" + body
}

// =============================================================================
// ERROR, INPUT, HELP
// =============================================================================

func (m Model) renderErrorBanner() string {
	text := m.coordinator.Error()
	if text == "" {
		return ""
	}
	line := util.TruncateWidth("[X] "+text, m.width-2)
	return m.theme.ErrorBanner.Width(m.width).Render(line)
}

func (m Model) renderInput() string {
	return m.theme.InputContainer.Width(m.width).Render(m.input.View())
}

func (m Model) renderHelp() string {
	var parts []string
	for _, b := range m.keys.ShortHelp() {
		h := b.Help()
		parts = append(parts, m.theme.HelpKey.Render(h.Key)+" "+m.theme.HelpDesc.Render(h.Desc))
	}
	help := strings.Join(parts, "  ")

	status := m.coordinator.Model()
	if m.showTokens {
		if total := m.totalTokens(); total > 0 {
			status += fmt.Sprintf(" | Tokens: %s", util.FormatCount(total))
		}
	}
	if m.notice != "" {
		status += " | " + m.notice
	}

	line := help + "  " + m.theme.StatusLine.Render(status)
	if lipgloss.Width(line) > m.width {
		line = m.theme.StatusLine.Render(util.TruncateWidth(status, m.width))
	}
	return line
}

func (m Model) totalTokens() int {
	total := 0
	for _, msg := range m.coordinator.History() {
		total += msg.TotalTokens()
	}
	return total
}
