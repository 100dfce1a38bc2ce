// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package sched

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2024, 1, 15, 17, 30, 45, 0, time.UTC)

// =============================================================================
// VIRTUAL SCHEDULER TESTS
// =============================================================================

func TestVirtual_AfterFiresOnceAtDueTime(t *testing.T) {
	v := NewVirtual(epoch)
	var fired []time.Time
	v.After(3*time.Second, func() { fired = append(fired, v.Now()) })

	v.Advance(2999 * time.Millisecond)
	assert.Empty(t, fired, "task must not fire before its delay")

	v.Advance(time.Millisecond)
	require.Len(t, fired, 1)
	assert.Equal(t, epoch.Add(3*time.Second), fired[0])

	v.Advance(time.Hour)
	assert.Len(t, fired, 1, "one-shot task must fire exactly once")
	assert.Equal(t, 0, v.Pending())
}

func TestVirtual_EveryRepeatsUntilCancelled(t *testing.T) {
	v := NewVirtual(epoch)
	count := 0
	h := v.Every(time.Second, func() { count++ })

	v.Advance(5 * time.Second)
	assert.Equal(t, 5, count)

	assert.True(t, v.Cancel(h))
	assert.False(t, v.Cancel(h), "second cancel must report false")

	v.Advance(5 * time.Second)
	assert.Equal(t, 5, count, "cancelled task must not run")
}

func TestVirtual_OrderingByDueTimeThenSchedulingOrder(t *testing.T) {
	v := NewVirtual(epoch)
	var order []string
	v.After(2*time.Second, func() { order = append(order, "late") })
	v.After(time.Second, func() { order = append(order, "first") })
	v.After(time.Second, func() { order = append(order, "second") })

	v.Advance(2 * time.Second)
	assert.Equal(t, []string{"first", "second", "late"}, order)
}

func TestVirtual_CallbackMayScheduleAndCancel(t *testing.T) {
	v := NewVirtual(epoch)
	var h Handle
	runs := 0
	h = v.Every(time.Second, func() {
		runs++
		if runs == 2 {
			v.Cancel(h)
			v.After(500*time.Millisecond, func() { runs += 10 })
		}
	})

	v.Advance(10 * time.Second)
	assert.Equal(t, 12, runs)
	assert.Equal(t, epoch.Add(10*time.Second), v.Now())
}

func TestVirtual_EveryRejectsNonPositiveInterval(t *testing.T) {
	v := NewVirtual(epoch)
	assert.Equal(t, Handle(0), v.Every(0, func() {}))
	assert.Equal(t, 0, v.Pending())
}

// =============================================================================
// REAL SCHEDULER TESTS
// =============================================================================

func TestReal_AfterFires(t *testing.T) {
	r := NewReal()
	defer r.Close()

	done := make(chan struct{})
	r.After(5*time.Millisecond, func() { close(done) })

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("After callback did not fire")
	}
	assert.Eventually(t, func() bool { return r.Pending() == 0 }, time.Second, 5*time.Millisecond)
}

func TestReal_CancelPreventsFire(t *testing.T) {
	r := NewReal()
	defer r.Close()

	var fired atomic.Bool
	h := r.After(50*time.Millisecond, func() { fired.Store(true) })
	require.True(t, r.Cancel(h))

	time.Sleep(100 * time.Millisecond)
	assert.False(t, fired.Load())
	assert.False(t, r.Cancel(h))
}

func TestReal_EveryAndClose(t *testing.T) {
	r := NewReal()

	var ticks atomic.Int32
	r.Every(5*time.Millisecond, func() { ticks.Add(1) })
	assert.Eventually(t, func() bool { return ticks.Load() >= 2 }, 2*time.Second, 5*time.Millisecond)

	r.Close()
	assert.Equal(t, 0, r.Pending())
	time.Sleep(20 * time.Millisecond)
	after := ticks.Load()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, after, ticks.Load(), "no ticks after Close")

	assert.Equal(t, Handle(0), r.After(time.Millisecond, func() {}), "scheduling after Close is refused")
}
