// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"testing"
	"time"
)

func TestFakeClock(t *testing.T) {
	t.Parallel()

	c := NewFakeClock(time.Time{})
	start := c.Now()
	if !start.Equal(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("default start = %v", start)
	}
	if !c.Now().Equal(start) {
		t.Error("Now() advanced without a step")
	}

	c.Advance(time.Minute)
	if got := c.Now(); !got.Equal(start.Add(time.Minute)) {
		t.Errorf("after Advance, Now() = %v, want %v", got, start.Add(time.Minute))
	}

	later := start.Add(24 * time.Hour)
	c.Set(later)
	if got := c.Now(); !got.Equal(later) {
		t.Errorf("after Set, Now() = %v, want %v", got, later)
	}
}

func TestSteppingClock(t *testing.T) {
	t.Parallel()

	c := NewSteppingClock(time.Time{}, time.Second)
	first := c.Now()
	second := c.Now()
	if got := second.Sub(first); got != time.Second {
		t.Errorf("step between reads = %v, want 1s", got)
	}
}
