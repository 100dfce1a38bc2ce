// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package sched

import "time"

// Handle identifies a scheduled task. The zero Handle never refers to a task.
type Handle uint64

// Scheduler schedules one-shot and repeating callbacks.
//
// Callbacks run outside any scheduler lock and may call back into the
// scheduler. Cancel reports whether the task was still pending; cancelling a
// fired one-shot or an unknown handle is a no-op.
type Scheduler interface {
	// Now returns the scheduler's current time.
	Now() time.Time

	// Every runs fn every interval until cancelled. The first run happens
	// one interval from now.
	Every(interval time.Duration, fn func()) Handle

	// After runs fn once, delay from now.
	After(delay time.Duration, fn func()) Handle

	// Cancel stops a pending task.
	Cancel(h Handle) bool
}
