// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config loads and validates the chatapp configuration.
//
// # Configuration Precedence
//
// Configuration is resolved from (highest first):
//   - Command-line flags (--url)
//   - Environment variables (CHATAPP_API_URL)
//   - ~/.chatapp/config.toml, or the file named by --config
//   - Built-in defaults
//
// # Usage
//
//	cfg, err := config.Load("")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	client := api.NewClient(cfg.API.BaseURL)
//
// Watch reloads the file when it changes on disk.
package config
