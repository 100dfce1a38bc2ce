// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package clock keeps the world-clock readings current.
package clock

import (
	"errors"
	"fmt"
	"sync"
	"time"

	// Embedded zoneinfo so lookups work on hosts without /usr/share/zoneinfo.
	_ "time/tzdata"

	"github.com/jeranaias/chatapp-tui/internal/sched"
)

const (
	// DefaultInterval is the recomputation period.
	DefaultInterval = time.Second

	// Placeholder is shown before the first computation.
	Placeholder = "--:--:--"

	// TimeLayout is the 12-hour display format.
	TimeLayout = "03:04:05 PM"
)

// ErrUnknownTimezone is returned for an identifier the zone database lacks.
var ErrUnknownTimezone = errors.New("unknown timezone")

// Entry is one configured city.
type Entry struct {
	City       string
	TimezoneID string
	Glyph      string
}

// Reading is an entry with its latest formatted time.
type Reading struct {
	Entry
	CurrentTime string
}

// DefaultEntries returns the built-in city list.
func DefaultEntries() []Entry {
	return []Entry{
		{City: "San Jose", TimezoneID: "America/Los_Angeles", Glyph: "🌉"},
		{City: "Dallas", TimezoneID: "America/Chicago", Glyph: "🤠"},
		{City: "New York", TimezoneID: "America/New_York", Glyph: "🗽"},
		{City: "Hyderabad", TimezoneID: "Asia/Kolkata", Glyph: "🇮🇳"},
	}
}

// Option configures a Ticker.
type Option func(*Ticker)

// WithInterval sets the recomputation period.
func WithInterval(d time.Duration) Option {
	return func(t *Ticker) {
		if d > 0 {
			t.interval = d
		}
	}
}

// WithOnChange registers fn to run after every recomputation, without the
// ticker's lock held.
func WithOnChange(fn func()) Option {
	return func(t *Ticker) {
		t.onChange = fn
	}
}

type zone struct {
	entry Entry
	loc   *time.Location
}

// Ticker recomputes the readings on a schedule.
type Ticker struct {
	sched    sched.Scheduler
	interval time.Duration
	onChange func()

	mu       sync.Mutex
	zones    []zone
	readings []Reading
	handle   sched.Handle
	active   bool
}

// NewTicker resolves every entry's timezone. An unknown identifier is an
// error wrapping ErrUnknownTimezone.
func NewTicker(entries []Entry, s sched.Scheduler, opts ...Option) (*Ticker, error) {
	zones, err := resolve(entries)
	if err != nil {
		return nil, err
	}
	t := &Ticker{
		sched:    s,
		interval: DefaultInterval,
		zones:    zones,
		readings: placeholders(zones),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

func resolve(entries []Entry) ([]zone, error) {
	zones := make([]zone, 0, len(entries))
	for _, e := range entries {
		loc, err := time.LoadLocation(e.TimezoneID)
		if err != nil || e.TimezoneID == "" {
			return nil, fmt.Errorf("%w %q for %s", ErrUnknownTimezone, e.TimezoneID, e.City)
		}
		zones = append(zones, zone{entry: e, loc: loc})
	}
	return zones, nil
}

func placeholders(zones []zone) []Reading {
	out := make([]Reading, len(zones))
	for i, z := range zones {
		out[i] = Reading{Entry: z.entry, CurrentTime: Placeholder}
	}
	return out
}

// Format renders instant in loc using TimeLayout.
func Format(instant time.Time, loc *time.Location) string {
	return instant.In(loc).Format(TimeLayout)
}

// Start computes every reading immediately and then once per interval.
// Calling Start on an active ticker does nothing.
func (t *Ticker) Start() {
	t.mu.Lock()
	if t.active {
		t.mu.Unlock()
		return
	}
	t.active = true
	t.computeLocked()
	t.handle = t.sched.Every(t.interval, t.tick)
	t.mu.Unlock()
	t.changed()
}

// Stop cancels the recurring computation. No reading changes after Stop
// returns.
func (t *Ticker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.active {
		return
	}
	t.active = false
	t.sched.Cancel(t.handle)
	t.handle = 0
}

// Active reports whether the ticker is running.
func (t *Ticker) Active() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.active
}

func (t *Ticker) tick() {
	t.mu.Lock()
	if !t.active {
		t.mu.Unlock()
		return
	}
	t.computeLocked()
	t.mu.Unlock()
	t.changed()
}

func (t *Ticker) computeLocked() {
	now := t.sched.Now()
	readings := make([]Reading, len(t.zones))
	for i, z := range t.zones {
		readings[i] = Reading{Entry: z.entry, CurrentTime: Format(now, z.loc)}
	}
	t.readings = readings
}

func (t *Ticker) changed() {
	if t.onChange != nil {
		t.onChange()
	}
}

// Readings returns a copy of the current readings in configured order.
func (t *Ticker) Readings() []Reading {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]Reading(nil), t.readings...)
}

// Reading returns the reading for city.
func (t *Ticker) Reading(city string) (Reading, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, r := range t.readings {
		if r.City == city {
			return r, true
		}
	}
	return Reading{}, false
}

// Reconfigure replaces the city list. On error the current list is kept.
// An active ticker recomputes immediately.
func (t *Ticker) Reconfigure(entries []Entry) error {
	zones, err := resolve(entries)
	if err != nil {
		return err
	}
	t.mu.Lock()
	t.zones = zones
	active := t.active
	if active {
		t.computeLocked()
	} else {
		t.readings = placeholders(zones)
	}
	t.mu.Unlock()
	if active {
		t.changed()
	}
	return nil
}
