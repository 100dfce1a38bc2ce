// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat coordinates sending a message to the backend.
//
// A send is a two-phase exchange. Begin appends the user's message tentatively
// and takes the in-flight gate; Resolve either commits the assistant's reply or
// removes the tentative entry and records an error. Only one exchange may be
// open at a time.
package chat
