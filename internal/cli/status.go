// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/jeranaias/chatapp-tui/internal/api"
	"github.com/jeranaias/chatapp-tui/internal/config"
	"github.com/jeranaias/chatapp-tui/internal/ui/styles"
)

// StatusTimeout bounds each request made by the status command.
const StatusTimeout = 5 * time.Second

// Backend is the subset of the API client the status command uses.
type Backend interface {
	BaseURL() string
	Health(ctx context.Context) (*api.HealthResponse, error)
	TestInfo(ctx context.Context) (*api.TestResponse, error)
}

// RunStatus reports the backend's /health and /test results. It returns an
// error when /test fails, since that is what the connectivity probe checks.
func RunStatus(ctx context.Context, w io.Writer, backend Backend, cfg *config.Config) error {
	fmt.Fprintln(w, TitleStyle.Render("chatapp status"))
	fmt.Fprintln(w, field("Backend", backend.BaseURL()))
	if cfg != nil {
		fmt.Fprintln(w, field("Model", cfg.API.Model))
	}
	fmt.Fprintln(w)

	hctx, cancel := context.WithTimeout(ctx, StatusTimeout)
	health, err := backend.Health(hctx)
	cancel()
	if err != nil {
		fmt.Fprintln(w, styles.RenderError("Health: "+describe(err)))
	} else {
		line := "Health: " + health.Status
		if health.Environment != "" {
			line += " (" + health.Environment + ")"
		}
		fmt.Fprintln(w, styles.RenderStatus(health.Status == "healthy" || health.Status == "ok", line))
	}

	tctx, cancel := context.WithTimeout(ctx, StatusTimeout)
	info, testErr := backend.TestInfo(tctx)
	cancel()
	if testErr != nil {
		fmt.Fprintln(w, styles.RenderError("Connectivity: "+describe(testErr)))
		return testErr
	}
	line := "Connectivity: reachable"
	if info.Message != "" {
		line += " - " + info.Message
	}
	fmt.Fprintln(w, styles.RenderSuccess(line))
	return nil
}

// describe prefers the backend's detail over the wrapped transport error.
func describe(err error) string {
	if detail, ok := api.Detail(err); ok {
		return detail
	}
	return err.Error()
}
