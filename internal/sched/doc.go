// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package sched provides the timer capability used by the clock bar and the
// connectivity probe.
//
// Components never call time.AfterFunc or time.NewTicker directly. They take
// a Scheduler at construction, so tests can swap the wall clock for a
// Virtual one and step simulated time instead of sleeping.
//
// # Key Types
//
//   - Scheduler: Now, Every, After and Cancel
//   - Real: wall-clock implementation backed by the time package
//   - Virtual: simulated clock advanced explicitly by tests
//
// # Usage
//
//	s := sched.NewReal()
//	defer s.Close()
//	h := s.Every(time.Second, func() { fmt.Println(s.Now()) })
//	...
//	s.Cancel(h)
package sched
