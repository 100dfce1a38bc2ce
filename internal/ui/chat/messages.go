// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"github.com/jeranaias/chatapp-tui/internal/api"
	coord "github.com/jeranaias/chatapp-tui/internal/chat"
	"github.com/jeranaias/chatapp-tui/internal/clock"
)

// RefreshMsg asks the model to re-read its components and redraw.
type RefreshMsg struct{}

// ExchangeResultMsg carries the outcome of a chat request back to Update,
// which resolves the exchange.
type ExchangeResultMsg struct {
	Exchange *coord.Exchange
	Response *api.ChatResponse
	Err      error
}

// ProbeDoneMsg signals that a connectivity check finished.
type ProbeDoneMsg struct {
	Accepted bool
}

// ClockZonesMsg replaces the clock bar's city list, e.g. after a config
// reload.
type ClockZonesMsg struct {
	Entries []clock.Entry
}

// ConfigErrorMsg reports a failed config reload.
type ConfigErrorMsg struct {
	Err error
}

// CopyResultMsg reports the result of copying a reply to the clipboard.
type CopyResultMsg struct {
	Err error
}
