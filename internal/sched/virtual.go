// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package sched

import (
	"sync"
	"time"
)

// =============================================================================
// SIMULATED SCHEDULER
// =============================================================================

// Virtual is a Scheduler whose clock only moves when Advance is called.
type Virtual struct {
	mu    sync.Mutex
	now   time.Time
	next  Handle
	tasks map[Handle]*virtualTask
}

type virtualTask struct {
	due      time.Time
	interval time.Duration // zero for one-shot tasks
	fn       func()
}

// NewVirtual creates a simulated scheduler starting at start.
func NewVirtual(start time.Time) *Virtual {
	return &Virtual{
		now:   start,
		tasks: make(map[Handle]*virtualTask),
	}
}

// Now returns the simulated time.
func (v *Virtual) Now() time.Time {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.now
}

// After runs fn once, delay after the current simulated time.
func (v *Virtual) After(delay time.Duration, fn func()) Handle {
	if delay < 0 {
		delay = 0
	}
	return v.add(&virtualTask{fn: fn}, delay)
}

// Every runs fn every interval of simulated time until cancelled.
func (v *Virtual) Every(interval time.Duration, fn func()) Handle {
	if interval <= 0 {
		return 0
	}
	return v.add(&virtualTask{fn: fn, interval: interval}, interval)
}

func (v *Virtual) add(task *virtualTask, delay time.Duration) Handle {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.next++
	task.due = v.now.Add(delay)
	v.tasks[v.next] = task
	return v.next
}

// Cancel removes a pending task.
func (v *Virtual) Cancel(h Handle) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if _, ok := v.tasks[h]; !ok {
		return false
	}
	delete(v.tasks, h)
	return true
}

// Pending returns the number of scheduled tasks.
func (v *Virtual) Pending() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.tasks)
}

// Advance moves the clock forward by d, running every task that falls due
// on the way. Tasks run in due-time order, ties in scheduling order, with
// the clock set to each task's due time while it runs.
func (v *Virtual) Advance(d time.Duration) {
	v.mu.Lock()
	target := v.now.Add(d)
	for {
		h, task := v.earliestLocked(target)
		if task == nil {
			break
		}
		v.now = task.due
		if task.interval > 0 {
			task.due = task.due.Add(task.interval)
		} else {
			delete(v.tasks, h)
		}
		fn := task.fn

		v.mu.Unlock()
		fn()
		v.mu.Lock()
	}
	v.now = target
	v.mu.Unlock()
}

// earliestLocked returns the first task due at or before target.
func (v *Virtual) earliestLocked(target time.Time) (Handle, *virtualTask) {
	var (
		bestHandle Handle
		best       *virtualTask
	)
	for h, task := range v.tasks {
		if task.due.After(target) {
			continue
		}
		if best == nil || task.due.Before(best.due) || (task.due.Equal(best.due) && h < bestHandle) {
			bestHandle, best = h, task
		}
	}
	return bestHandle, best
}
