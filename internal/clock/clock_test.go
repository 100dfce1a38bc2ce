// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package clock

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/chatapp-tui/internal/sched"
)

var epoch = time.Date(2024, 1, 15, 17, 30, 45, 0, time.UTC)

func newYork() []Entry {
	return []Entry{{City: "New York", TimezoneID: "America/New_York", Glyph: "🗽"}}
}

func TestTicker_NewYorkTwelveHour(t *testing.T) {
	v := sched.NewVirtual(epoch)
	tk, err := NewTicker(newYork(), v)
	require.NoError(t, err)

	r, ok := tk.Reading("New York")
	require.True(t, ok)
	assert.Equal(t, Placeholder, r.CurrentTime, "placeholder before Start")

	tk.Start()
	defer tk.Stop()
	r, _ = tk.Reading("New York")
	assert.Equal(t, "12:30:45 PM", r.CurrentTime)

	v.Advance(time.Second)
	r, _ = tk.Reading("New York")
	assert.Equal(t, "12:30:46 PM", r.CurrentTime)
}

func TestTicker_DefaultEntries(t *testing.T) {
	v := sched.NewVirtual(epoch)
	tk, err := NewTicker(DefaultEntries(), v)
	require.NoError(t, err)
	tk.Start()
	defer tk.Stop()

	want := map[string]string{
		"San Jose":  "09:30:45 AM",
		"Dallas":    "11:30:45 AM",
		"New York":  "12:30:45 PM",
		"Hyderabad": "11:00:45 PM",
	}
	readings := tk.Readings()
	require.Len(t, readings, 4)
	for _, r := range readings {
		assert.Equal(t, want[r.City], r.CurrentTime, r.City)
		assert.NotEmpty(t, r.Glyph)
	}
	assert.Equal(t, "San Jose", readings[0].City, "configured order is kept")
}

func TestFormat_TwoDigitHour(t *testing.T) {
	morning := time.Date(2024, 7, 4, 13, 5, 9, 0, time.UTC)
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	assert.Equal(t, "09:05:09 AM", Format(morning, loc), "EDT in July")
}

func TestTicker_StopHaltsUpdates(t *testing.T) {
	v := sched.NewVirtual(epoch)
	changes := 0
	tk, err := NewTicker(newYork(), v, WithOnChange(func() { changes++ }))
	require.NoError(t, err)

	tk.Start()
	v.Advance(2 * time.Second)
	require.Equal(t, 3, changes)
	tk.Stop()
	assert.False(t, tk.Active())
	assert.Equal(t, 0, v.Pending(), "no timer may be left running")

	before, _ := tk.Reading("New York")
	v.Advance(10 * time.Second)
	after, _ := tk.Reading("New York")
	assert.Equal(t, before, after)
	assert.Equal(t, 3, changes)

	tk.Stop()
}

func TestTicker_StartTwiceSchedulesOnce(t *testing.T) {
	v := sched.NewVirtual(epoch)
	tk, err := NewTicker(newYork(), v)
	require.NoError(t, err)
	tk.Start()
	tk.Start()
	assert.Equal(t, 1, v.Pending())
	tk.Stop()
}

func TestTicker_CustomInterval(t *testing.T) {
	v := sched.NewVirtual(epoch)
	tk, err := NewTicker(newYork(), v, WithInterval(5*time.Second))
	require.NoError(t, err)
	tk.Start()
	defer tk.Stop()

	v.Advance(4 * time.Second)
	r, _ := tk.Reading("New York")
	assert.Equal(t, "12:30:45 PM", r.CurrentTime)
	v.Advance(time.Second)
	r, _ = tk.Reading("New York")
	assert.Equal(t, "12:30:50 PM", r.CurrentTime)
}

func TestNewTicker_UnknownTimezone(t *testing.T) {
	v := sched.NewVirtual(epoch)
	for _, id := range []string{"Mars/Olympus_Mons", ""} {
		_, err := NewTicker([]Entry{{City: "Nowhere", TimezoneID: id}}, v)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrUnknownTimezone), "id %q", id)
	}
}

func TestTicker_Reconfigure(t *testing.T) {
	v := sched.NewVirtual(epoch)
	tk, err := NewTicker(newYork(), v)
	require.NoError(t, err)
	tk.Start()
	defer tk.Stop()

	err = tk.Reconfigure([]Entry{{City: "Tokyo", TimezoneID: "Asia/Tokyo", Glyph: "🗼"}})
	require.NoError(t, err)
	r, ok := tk.Reading("Tokyo")
	require.True(t, ok)
	assert.Equal(t, "02:30:45 AM", r.CurrentTime)
	_, ok = tk.Reading("New York")
	assert.False(t, ok)

	err = tk.Reconfigure([]Entry{{City: "Bad", TimezoneID: "Nope/Nope"}})
	assert.ErrorIs(t, err, ErrUnknownTimezone)
	_, ok = tk.Reading("Tokyo")
	assert.True(t, ok, "failed reconfigure keeps the old list")
}

func TestTicker_ReconfigureInactiveShowsPlaceholders(t *testing.T) {
	v := sched.NewVirtual(epoch)
	tk, err := NewTicker(newYork(), v)
	require.NoError(t, err)
	require.NoError(t, tk.Reconfigure(DefaultEntries()))
	for _, r := range tk.Readings() {
		assert.Equal(t, Placeholder, r.CurrentTime)
	}
}
