package core

import (
	"testing"

	"irlink/protocol"
)

func TestNewChannelRegistry(t *testing.T) {
	r := NewChannelRegistry([NumChannels]uint8{5, 0, 7, 0})
	snap := r.Snapshot()

	wantPeriods := [NumChannels]uint8{5, DefaultPeriods[1], 7, DefaultPeriods[3]}
	for i, ch := range snap.Channels {
		if ch.Enabled {
			t.Errorf("channel %d: expected disabled at power-up", i)
		}
		if ch.PWM != 0 {
			t.Errorf("channel %d: expected PWM 0, got %d", i, ch.PWM)
		}
		if ch.Period != wantPeriods[i] {
			t.Errorf("channel %d: expected period %d, got %d", i, wantPeriods[i], ch.Period)
		}
		if ch.Countdown != uint8(i+1) {
			t.Errorf("channel %d: expected countdown %d, got %d", i, i+1, ch.Countdown)
		}
	}
	if !snap.Waiting {
		t.Error("expected waiting at power-up")
	}
	if got := r.Status(); got != protocol.StatusWaiting {
		t.Errorf("expected status 0x%02x, got 0x%02x", protocol.StatusWaiting, got)
	}
}

func TestChannelRegistryEnableDisable(t *testing.T) {
	r := NewChannelRegistry(DefaultPeriods)

	r.Enable(0x05)
	if got := r.EnableBits(); got != 0x05 {
		t.Errorf("after Enable(0x05): expected 0x05, got 0x%02x", got)
	}

	// Clear bits never enable or disable anything
	r.Enable(0x02)
	if got := r.EnableBits(); got != 0x07 {
		t.Errorf("after Enable(0x02): expected 0x07, got 0x%02x", got)
	}

	r.Disable(0x04)
	if got := r.EnableBits(); got != 0x03 {
		t.Errorf("after Disable(0x04): expected 0x03, got 0x%02x", got)
	}
	if r.Enabled(2) {
		t.Error("channel 2 should be disabled")
	}
	if !r.Enabled(1) {
		t.Error("channel 1 should still be enabled")
	}

	// Bits above the channel count are ignored
	r.Enable(0xF0)
	if got := r.EnableBits(); got != 0x03 {
		t.Errorf("after Enable(0xF0): expected 0x03, got 0x%02x", got)
	}

	r.SetEnableBits(0x0C)
	if got := r.EnableBits(); got != 0x0C {
		t.Errorf("after SetEnableBits(0x0C): expected 0x0C, got 0x%02x", got)
	}
}

func TestChannelRegistryStatus(t *testing.T) {
	r := NewChannelRegistry(DefaultPeriods)
	r.SetEnableBits(0x0A)

	r.mu.Lock()
	r.current = 3
	r.waiting = false
	r.mu.Unlock()

	// bits 0-1 current, bit 2 waiting, bits 4-7 enabled
	if got := r.Status(); got != 0xA3 {
		t.Errorf("expected status 0xA3, got 0x%02x", got)
	}

	r.mu.Lock()
	r.waiting = true
	r.mu.Unlock()
	if got := r.Status(); got != 0xA7 {
		t.Errorf("expected status 0xA7, got 0x%02x", got)
	}
}

func TestChannelRegistryPWM(t *testing.T) {
	r := NewChannelRegistry(DefaultPeriods)
	for ch := uint8(0); ch < NumChannels; ch++ {
		r.SetPWM(ch, 0x10+ch)
	}
	for ch := uint8(0); ch < NumChannels; ch++ {
		if got := r.PWM(ch); got != 0x10+ch {
			t.Errorf("channel %d: expected PWM 0x%02x, got 0x%02x", ch, 0x10+ch, got)
		}
	}
}
