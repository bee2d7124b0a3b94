package core

import (
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestTimerIsBefore(t *testing.T) {
	tests := []struct {
		a, b uint32
		want bool
	}{
		{1, 2, true},
		{2, 1, false},
		{5, 5, false},
		{0xFFFFFF00, 0x00000100, true},
		{0x00000100, 0xFFFFFF00, false},
		{0x7FFFFFFF, 0x80000000, true},
	}
	for _, tt := range tests {
		if got := timerIsBefore(tt.a, tt.b); got != tt.want {
			t.Errorf("timerIsBefore(0x%08x, 0x%08x) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestTimersOrderedAcrossClockWrap(t *testing.T) {
	c := qt.New(t)
	ResetTimers()
	SetTime(0xFFFFFF00)

	var fired []uint32
	record := func(t *Timer) uint8 {
		fired = append(fired, t.WakeTime)
		return SF_DONE
	}
	// Scheduled out of order, two of them past the wrap
	timers := []*Timer{
		{WakeTime: 0x00000080, Handler: record},
		{WakeTime: 0xFFFFFF80, Handler: record},
		{WakeTime: 0x00000010, Handler: record},
		{WakeTime: 0xFFFFFFF0, Handler: record},
	}
	for _, tm := range timers {
		ScheduleTimer(tm)
	}

	// Nothing past the wrap is due before the clock gets there
	SetTime(0xFFFFFFFF)
	ProcessTimers()
	c.Assert(fired, qt.DeepEquals, []uint32{0xFFFFFF80, 0xFFFFFFF0})

	RunUntil(0x00000100)
	c.Assert(fired, qt.DeepEquals, []uint32{0xFFFFFF80, 0xFFFFFFF0, 0x00000010, 0x00000080})
	c.Assert(GetTime(), qt.Equals, uint32(0x00000100))
}
