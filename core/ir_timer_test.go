package core

import (
	"testing"

	"irlink/protocol"
)

type recordingHandler struct {
	events []string
	times  []uint32
}

func (h *recordingHandler) HandleMarkEnd() {
	h.events = append(h.events, "mark")
	h.times = append(h.times, GetTime())
}

func (h *recordingHandler) HandleSpaceEnd() {
	h.events = append(h.events, "space")
	h.times = append(h.times, GetTime())
}

func TestTimerIRDriverDeadlines(t *testing.T) {
	ResetTimers()
	capture := NewFrameCapture(0)
	d := NewTimerIRDriver(capture, protocol.CarrierHz)
	h := &recordingHandler{}
	d.Attach(h)

	// 6 cycles at 38 kHz = 157.9 us
	d.Mark(protocol.MarkCycles)
	RunUntil(1000)
	if len(h.events) != 1 || h.events[0] != "mark" {
		t.Fatalf("expected one mark event, got %v", h.events)
	}
	if h.times[0] != 158 {
		t.Errorf("expected mark end at 158, got %d", h.times[0])
	}

	// Deadlines are taken from the cycle total, so 608 cycles is exactly 16 ms
	d.Space(protocol.FrameSlotCycles - protocol.MarkCycles)
	RunUntil(20000)
	if len(h.events) != 2 || h.events[1] != "space" {
		t.Fatalf("expected a space event, got %v", h.events)
	}
	if h.times[1] != 16000 {
		t.Errorf("expected space end at 16000, got %d", h.times[1])
	}

	if capture.Marks != 1 {
		t.Errorf("expected 1 carrier burst, got %d", capture.Marks)
	}
	if capture.Cycles != protocol.FrameSlotCycles {
		t.Errorf("expected %d cycles, got %d", protocol.FrameSlotCycles, capture.Cycles)
	}
}

func TestTimerIRDriverReset(t *testing.T) {
	ResetTimers()
	d := NewTimerIRDriver(NewFrameCapture(0), TimerFreq)
	h := &recordingHandler{}
	d.Attach(h)

	d.Space(100)
	d.Reset()
	RunUntil(500)
	if len(h.events) != 0 {
		t.Errorf("cancelled event fired: %v", h.events)
	}

	// The time base restarts at the reset
	d.Reset()
	d.Space(100)
	RunUntil(1000)
	if len(h.events) != 1 || h.times[0] != 600 {
		t.Errorf("expected space end at 600, got %v %v", h.events, h.times)
	}
}

func TestTimerIRDriverAcrossClockWrap(t *testing.T) {
	tests := []struct {
		name      string
		carrierHz uint32
		cycles    uint16
		ticks     uint32
		count     int
	}{
		{"cycle-ticks", TimerFreq, 60000, 60000, 40},
		{"38kHz", protocol.CarrierHz, protocol.FrameSlotCycles, 16000, 200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ResetTimers()
			base := uint32(0xFFFFFFFF - 10*tt.ticks)
			SetTime(base)
			d := NewTimerIRDriver(NewFrameCapture(0), tt.carrierHz)
			h := &recordingHandler{}
			d.Attach(h)

			// More than a second of carrier, so the time base is folded several times
			for i := 0; i < tt.count; i++ {
				d.Space(tt.cycles)
				RunUntil(GetTime() + tt.ticks)
			}

			if len(h.times) != tt.count {
				t.Fatalf("expected %d events, got %d", tt.count, len(h.times))
			}
			for i, ts := range h.times {
				want := base + uint32(i+1)*tt.ticks
				if ts != want {
					t.Fatalf("event %d at 0x%08x, want 0x%08x", i, ts, want)
				}
			}
		})
	}
}
