// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"io"

	"github.com/jeranaias/chatapp-tui/internal/clock"
	"github.com/jeranaias/chatapp-tui/internal/sched"
	"github.com/jeranaias/chatapp-tui/internal/util"
)

// RunClock prints one reading per configured zone. The ticker is started
// for a single computation and stopped before returning.
func RunClock(w io.Writer, entries []clock.Entry, s sched.Scheduler) error {
	t, err := clock.NewTicker(entries, s)
	if err != nil {
		return &ConfigError{Err: err}
	}
	t.Start()
	readings := t.Readings()
	t.Stop()

	width := 0
	for _, r := range readings {
		if n := util.Width(r.City); n > width {
			width = n
		}
	}
	for _, r := range readings {
		fmt.Fprintf(w, "%s %s  %s  %s\n",
			r.Glyph,
			util.PadRight(r.City, width),
			ValueStyle.Render(r.CurrentTime),
			DimStyle.Render(r.TimezoneID))
	}
	return nil
}
