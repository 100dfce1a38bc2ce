// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations and messages.
package model

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// CONVERSATION TYPE
// =============================================================================

// Conversation holds the ordered message history of one session.
//
// It does no validation of its own. Callers append in send order and only
// remove the most recent entry when compensating a failed send. It is never
// persisted.
type Conversation struct {
	mu sync.RWMutex

	id        string
	createdAt time.Time
	updatedAt time.Time
	messages  []Message
}

// NewConversation creates an empty conversation with a generated ID.
func NewConversation() *Conversation {
	now := time.Now()
	return &Conversation{
		id:        "conv_" + uuid.NewString(),
		createdAt: now,
		updatedAt: now,
		messages:  make([]Message, 0),
	}
}

// ID returns the conversation identifier.
func (c *Conversation) ID() string {
	return c.id
}

// CreatedAt returns when the conversation was created.
func (c *Conversation) CreatedAt() time.Time {
	return c.createdAt
}

// UpdatedAt returns the time of the last mutation.
func (c *Conversation) UpdatedAt() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.updatedAt
}

// =============================================================================
// MESSAGE MANAGEMENT
// =============================================================================

// Append adds a message to the end of the conversation.
func (c *Conversation) Append(msg Message) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = append(c.messages, msg.clone())
	c.updatedAt = time.Now()
}

// RemoveLast removes the most recently appended message and returns it.
// Only valid directly after the matching Append; it never undoes a
// committed exchange.
func (c *Conversation) RemoveLast() (Message, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.messages) == 0 {
		return Message{}, false
	}
	last := c.messages[len(c.messages)-1]
	c.messages[len(c.messages)-1] = Message{}
	c.messages = c.messages[:len(c.messages)-1]
	c.updatedAt = time.Now()
	return last, true
}

// RemoveByID removes a message by ID.
func (c *Conversation) RemoveByID(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := len(c.messages) - 1; i >= 0; i-- {
		if c.messages[i].ID == id {
			c.messages = append(c.messages[:i], c.messages[i+1:]...)
			c.updatedAt = time.Now()
			return true
		}
	}
	return false
}

// Snapshot returns a copy of the ordered history. Mutating the returned
// slice does not affect the conversation.
func (c *Conversation) Snapshot() []Message {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Message, len(c.messages))
	for i, msg := range c.messages {
		out[i] = msg.clone()
	}
	return out
}

// Last returns the most recent message.
func (c *Conversation) Last() (Message, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if len(c.messages) == 0 {
		return Message{}, false
	}
	return c.messages[len(c.messages)-1].clone(), true
}

// LastAssistant returns the most recent assistant reply.
func (c *Conversation) LastAssistant() (Message, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for i := len(c.messages) - 1; i >= 0; i-- {
		if c.messages[i].Role == RoleAssistant {
			return c.messages[i].clone(), true
		}
	}
	return Message{}, false
}

// Len returns the number of messages.
func (c *Conversation) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.messages)
}

// IsEmpty returns true if there are no messages.
func (c *Conversation) IsEmpty() bool {
	return c.Len() == 0
}

// =============================================================================
// TOKEN TRACKING
// =============================================================================

// TotalTokens sums the usage the backend reported across all replies.
func (c *Conversation) TotalTokens() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	total := 0
	for _, msg := range c.messages {
		total += msg.TotalTokens()
	}
	return total
}
