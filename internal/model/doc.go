// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations and messages.
//
// This package defines the core domain types shared by the request
// coordinator, the TUI and the line-mode CLI.
//
// # Key Types
//
//   - Conversation: Ordered message history with append and compensation
//   - Message: Single immutable message with role, content and token usage
//   - Usage: Token accounting reported by the chat backend
//   - Role: Message role enumeration (user, assistant)
//
// # Usage
//
// Record an exchange:
//
//	conv := model.NewConversation()
//	conv.Append(model.NewUserMessage("Hello"))
//	conv.Append(model.NewAssistantMessage("Hi there", &model.Usage{TotalTokens: 5}))
//	for _, msg := range conv.Snapshot() {
//	    fmt.Printf("%s: %s\n", msg.Role.DisplayName(), msg.Content)
//	}
//
// The conversation only ever shrinks through RemoveLast or RemoveByID, and
// only the request coordinator calls those, to undo an optimistic insert
// after a failed send.
package model
