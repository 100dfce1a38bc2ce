// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/jeranaias/chatapp-tui/internal/api"
	"github.com/jeranaias/chatapp-tui/internal/config"
)

// =============================================================================
// EXIT CODES
// =============================================================================

const (
	ExitSuccess      = 0
	ExitGeneralError = 1
	ExitUsageError   = 2
	ExitConfigError  = 3
	ExitNetworkError = 5
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// UsageError is a malformed command line.
type UsageError struct {
	Message string
}

func (e *UsageError) Error() string {
	return e.Message
}

func usageErrorf(format string, a ...any) error {
	return &UsageError{Message: fmt.Sprintf(format, a...)}
}

// ReplyError carries the text the coordinator surfaced for a failed send.
type ReplyError struct {
	Text string
}

func (e *ReplyError) Error() string {
	return e.Text
}

// ConfigError wraps a configuration load failure.
type ConfigError struct {
	Path string
	Err  error
}

func (e *ConfigError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("invalid configuration: %v", e.Err)
	}
	return fmt.Sprintf("invalid configuration in %s: %v", e.Path, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// ExitCode maps an error to a process exit status.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var usage *UsageError
	var cfg *ConfigError
	var validate config.ValidateErrors
	var reply *ReplyError
	var apiErr *api.APIError
	var urlErr *url.Error

	switch {
	case errors.As(err, &usage):
		return ExitUsageError
	case errors.As(err, &cfg), errors.As(err, &validate):
		return ExitConfigError
	case errors.As(err, &reply), errors.As(err, &apiErr), errors.As(err, &urlErr),
		errors.Is(err, api.ErrMalformedResponse), errors.Is(err, api.ErrResponseTooLarge):
		return ExitNetworkError
	default:
		return ExitGeneralError
	}
}
