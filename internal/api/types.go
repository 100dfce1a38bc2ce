// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import "github.com/jeranaias/chatapp-tui/internal/model"

// ChatRequest is the body of POST /chat.
type ChatRequest struct {
	Message string `json:"message"`
	Model   string `json:"model"`
}

// ChatResponse is a successful POST /chat body.
type ChatResponse struct {
	Status   string       `json:"status,omitempty"`
	Response string       `json:"response"`
	Model    string       `json:"model,omitempty"`
	Usage    *model.Usage `json:"usage,omitempty"`
}

// TestResponse is the GET /test body.
type TestResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// HealthResponse is the GET /health body.
type HealthResponse struct {
	Status      string `json:"status"`
	Environment string `json:"environment"`
}

// chatResponseWire detects a missing "response" field, which a plain
// string cannot distinguish from an empty reply.
type chatResponseWire struct {
	Status   string       `json:"status"`
	Response *string      `json:"response"`
	Model    string       `json:"model"`
	Usage    *model.Usage `json:"usage"`
}
