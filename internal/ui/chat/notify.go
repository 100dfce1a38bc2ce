// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"
)

// Sender is the part of *tea.Program the notifier needs.
type Sender interface {
	Send(msg tea.Msg)
}

// Notifier wakes the running program when a component changes on a timer
// or worker goroutine. It is safe to call before a program is attached.
type Notifier struct {
	mu     sync.Mutex
	sender Sender
}

// Attach sets the program to notify. Passing nil detaches.
func (n *Notifier) Attach(s Sender) {
	n.mu.Lock()
	n.sender = s
	n.mu.Unlock()
}

// Notify sends a RefreshMsg without blocking. Observers may fire from inside
// Update, where a blocking Send would deadlock the event loop.
func (n *Notifier) Notify() {
	n.mu.Lock()
	s := n.sender
	n.mu.Unlock()
	if s != nil {
		go s.Send(RefreshMsg{})
	}
}
