// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli provides command-line parsing and the non-TUI commands.
//
// # Commands
//
//   - tui: full-screen interface (default)
//   - ask: one exchange, reply printed to stdout
//   - chat: line-mode session with history and slash commands
//   - status: backend /health and /test report
//   - clock: print every configured zone once
//   - version, help
//
// Global flags --config and --url are accepted before or after the command.
// Every command handler takes its writer and collaborators explicitly so
// tests can drive them against httptest servers.
package cli
