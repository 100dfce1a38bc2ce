// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package probe implements the self-resetting backend connectivity check.
package probe

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/jeranaias/chatapp-tui/internal/sched"
)

const (
	// DefaultResetDelay is how long success or error stays visible.
	DefaultResetDelay = 3000 * time.Millisecond

	// DefaultTimeout bounds a single check.
	DefaultTimeout = 10 * time.Second

	// FailureText is the error text shown after a failed check.
	FailureText = "Failed to connect to backend"
)

// Status is the probe's visible state.
type Status int

const (
	StatusNeutral Status = iota
	StatusLoading
	StatusSuccess
	StatusError
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusNeutral:
		return "neutral"
	case StatusLoading:
		return "loading"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Label returns the button text for the status.
func (s Status) Label() string {
	switch s {
	case StatusLoading:
		return "Testing..."
	case StatusSuccess:
		return "Connected!"
	case StatusError:
		return "Failed"
	default:
		return "Test Backend"
	}
}

// Checker performs the connectivity check. A nil error means reachable.
type Checker interface {
	Test(ctx context.Context) error
}

// CheckerFunc adapts a function to Checker.
type CheckerFunc func(ctx context.Context) error

// Test calls f.
func (f CheckerFunc) Test(ctx context.Context) error { return f(ctx) }

// Option configures a Probe.
type Option func(*Probe)

// WithResetDelay sets how long a result stays before reverting to neutral.
func WithResetDelay(d time.Duration) Option {
	return func(p *Probe) {
		if d > 0 {
			p.resetDelay = d
		}
	}
}

// WithTimeout bounds each check. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(p *Probe) {
		if d >= 0 {
			p.timeout = d
		}
	}
}

// WithObserver registers fn to be called after every status change.
// fn runs without the probe's lock held.
func WithObserver(fn func(Status)) Option {
	return func(p *Probe) {
		if fn != nil {
			p.observers = append(p.observers, fn)
		}
	}
}

// Probe tracks the connectivity status.
type Probe struct {
	checker    Checker
	sched      sched.Scheduler
	resetDelay time.Duration
	timeout    time.Duration
	observers  []func(Status)

	mu      sync.Mutex
	status  Status
	errText string
	gen     uint64
	resets  map[sched.Handle]struct{}
	closed  bool
}

// New creates a probe in the neutral state.
func New(checker Checker, s sched.Scheduler, opts ...Option) *Probe {
	p := &Probe{
		checker:    checker,
		sched:      s,
		resetDelay: DefaultResetDelay,
		timeout:    DefaultTimeout,
		resets:     make(map[sched.Handle]struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// TestConnectivity runs one check and blocks until it finishes. It returns
// false without doing anything when a check is already running or the probe
// is closed.
//
// Whatever the outcome, a reset to neutral is scheduled after the reset
// delay. A reset belonging to an older check does not override the status of
// a newer one.
func (p *Probe) TestConnectivity(ctx context.Context) bool {
	p.mu.Lock()
	if p.closed || p.status == StatusLoading {
		p.mu.Unlock()
		return false
	}
	p.gen++
	gen := p.gen
	p.status = StatusLoading
	p.errText = ""
	p.mu.Unlock()
	p.notify(StatusLoading)

	err := p.check(ctx)

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return true
	}
	if err != nil {
		log.Printf("probe: connectivity check failed: %v", err)
		p.status = StatusError
		p.errText = FailureText
	} else {
		p.status = StatusSuccess
	}
	result := p.status
	p.scheduleResetLocked(gen)
	p.mu.Unlock()
	p.notify(result)
	return true
}

func (p *Probe) check(ctx context.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("checker panic: %v", r)
		}
	}()
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}
	return p.checker.Test(ctx)
}

// scheduleResetLocked arms the reset for check gen. Must hold p.mu.
func (p *Probe) scheduleResetLocked(gen uint64) {
	var h sched.Handle
	fire := func() {
		p.mu.Lock()
		delete(p.resets, h)
		if p.closed || gen != p.gen {
			p.mu.Unlock()
			return
		}
		p.status = StatusNeutral
		p.mu.Unlock()
		p.notify(StatusNeutral)
	}
	// h is assigned under p.mu, which fire takes before reading it.
	h = p.sched.After(p.resetDelay, fire)
	if h != 0 {
		p.resets[h] = struct{}{}
	}
}

func (p *Probe) notify(s Status) {
	for _, fn := range p.observers {
		fn(s)
	}
}

// Status returns the current status.
func (p *Probe) Status() Status {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.status
}

// ErrorText returns the error text of the last failed check. It is cleared
// when a new check starts.
func (p *Probe) ErrorText() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.errText
}

// Disabled reports whether the probe button should be disabled.
func (p *Probe) Disabled() bool {
	return p.Status() == StatusLoading
}

// Pending returns the number of armed resets.
func (p *Probe) Pending() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.resets)
}

// Close cancels every pending reset. Further checks are rejected.
func (p *Probe) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	handles := make([]sched.Handle, 0, len(p.resets))
	for h := range p.resets {
		handles = append(handles, h)
	}
	p.resets = make(map[sched.Handle]struct{})
	p.mu.Unlock()

	for _, h := range handles {
		p.sched.Cancel(h)
	}
}
