// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api provides the HTTP client for the chat backend.
//
// The backend exposes three endpoints relative to a configured base address:
//
//   - GET  /test    connectivity probe, any 2xx means reachable
//   - GET  /health  liveness and environment name
//   - POST /chat    {message, model} -> {response, usage}
//
// Error bodies carry a {"detail": ...} field. APIError keeps it, and Detail
// extracts it for display.
//
// # Usage
//
//	client := api.NewClient("http://localhost:8000")
//	resp, err := client.Chat(ctx, api.ChatRequest{
//	    Message: "Hello",
//	    Model:   api.DefaultModel,
//	})
//	if detail, ok := api.Detail(err); ok {
//	    fmt.Println("backend said:", detail)
//	}
//
// The client never retries. Request and response lines are logged without
// headers or bodies.
package api
