// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the Bubble Tea model for the chatapp screen.
//
// The model owns no conversation state of its own. It reads the coordinator,
// probe and clock on every render, and those components report changes
// through a Notifier that wakes the program with a RefreshMsg.
package chat
