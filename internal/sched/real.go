// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package sched

import (
	"sync"
	"time"
)

// =============================================================================
// WALL-CLOCK SCHEDULER
// =============================================================================

// Real is a Scheduler backed by time.AfterFunc and time.Ticker.
type Real struct {
	mu     sync.Mutex
	next   Handle
	stops  map[Handle]func()
	closed bool
}

// NewReal creates a wall-clock scheduler.
func NewReal() *Real {
	return &Real{stops: make(map[Handle]func())}
}

// Now returns the wall-clock time.
func (r *Real) Now() time.Time {
	return time.Now()
}

// After runs fn once after delay.
func (r *Real) After(delay time.Duration, fn func()) Handle {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return 0
	}

	r.next++
	h := r.next

	// The callback takes r.mu, so it cannot observe the map before the
	// stop func below is registered.
	t := time.AfterFunc(delay, func() {
		r.mu.Lock()
		_, live := r.stops[h]
		delete(r.stops, h)
		r.mu.Unlock()

		if live {
			fn()
		}
	})
	r.stops[h] = func() { t.Stop() }
	return h
}

// Every runs fn every interval until cancelled.
func (r *Real) Every(interval time.Duration, fn func()) Handle {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed || interval <= 0 {
		return 0
	}

	r.next++
	h := r.next

	ticker := time.NewTicker(interval)
	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				select {
				case <-done:
					return
				default:
				}
				fn()
			}
		}
	}()

	r.stops[h] = func() {
		ticker.Stop()
		close(done)
	}
	return h
}

// Cancel stops a pending task.
func (r *Real) Cancel(h Handle) bool {
	r.mu.Lock()
	stop, ok := r.stops[h]
	delete(r.stops, h)
	r.mu.Unlock()

	if !ok {
		return false
	}
	stop()
	return true
}

// Pending returns the number of tasks that have not fired or been cancelled.
func (r *Real) Pending() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.stops)
}

// Close cancels every pending task. Scheduling after Close returns the zero
// Handle and never runs.
func (r *Real) Close() {
	r.mu.Lock()
	stops := r.stops
	r.stops = make(map[Handle]func())
	r.closed = true
	r.mu.Unlock()

	for _, stop := range stops {
		stop()
	}
}
