package core

import (
	"sync"

	"irlink/protocol"
)

// NumChannels is the number of infrared output channels
const NumChannels = protocol.NumChannels

// DefaultPeriods are the per-channel re-arm periods in frame slots.
// Distinct values stagger retransmissions when several channels are on.
var DefaultPeriods = [NumChannels]uint8{8, 10, 12, 14}

// Channel is the state of one infrared output channel
type Channel struct {
	Enabled   bool
	PWM       uint8 // raw speed byte; only the low nibble is transmitted
	Period    uint8 // frame slots between eligibility windows
	Countdown uint8 // frame slots until the next eligibility window

	// due is set when Countdown wraps and cleared when the channel is served
	due bool
}

// ChannelRegistry is the state shared by the infrared frame engine and the
// register engine. Every multi-step update happens under mu, which stands in
// for the run-to-completion guarantee of interrupt handlers.
type ChannelRegistry struct {
	mu       sync.Mutex
	channels [NumChannels]Channel
	current  uint8 // channel last selected for transmission
	waiting  bool  // no channel selected since the last frame
}

// RegistrySnapshot is a consistent copy of the registry
type RegistrySnapshot struct {
	Channels [NumChannels]Channel
	Current  uint8
	Waiting  bool
}

// NewChannelRegistry creates a registry with every channel disabled and PWM zero.
// Countdowns start staggered at 1, 2, 3, 4 frame slots.
func NewChannelRegistry(periods [NumChannels]uint8) *ChannelRegistry {
	r := &ChannelRegistry{waiting: true}
	for i := range r.channels {
		p := periods[i]
		if p == 0 {
			p = DefaultPeriods[i]
		}
		r.channels[i] = Channel{
			Period:    p,
			Countdown: uint8(i + 1),
		}
	}
	return r
}

// Status packs the registry into the status register byte:
// bits 0-1 current channel, bit 2 waiting, bits 4-7 enabled flags.
func (r *ChannelRegistry) Status() uint8 {
	r.mu.Lock()
	defer r.mu.Unlock()

	status := r.current & protocol.StatusChannelMask
	if r.waiting {
		status |= protocol.StatusWaiting
	}
	return status | r.enableBitsLocked()<<protocol.StatusEnableShift
}

// EnableBits returns the enabled flags as a nibble, bit k = channel k
func (r *ChannelRegistry) EnableBits() uint8 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.enableBitsLocked()
}

func (r *ChannelRegistry) enableBitsLocked() uint8 {
	bits := uint8(0)
	for i := range r.channels {
		if r.channels[i].Enabled {
			bits |= 1 << i
		}
	}
	return bits
}

// SetEnableBits replaces every channel's enabled flag from the low nibble of bits
func (r *ChannelRegistry) SetEnableBits(bits uint8) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.channels {
		r.channels[i].Enabled = bits&(1<<i) != 0
	}
}

// Enable sets the enabled flag of every channel whose bit is set in mask.
// Clear bits leave their channel untouched.
func (r *ChannelRegistry) Enable(mask uint8) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.channels {
		if mask&(1<<i) != 0 {
			r.channels[i].Enabled = true
		}
	}
}

// Disable clears the enabled flag of every channel whose bit is set in mask.
// Clear bits leave their channel untouched.
func (r *ChannelRegistry) Disable(mask uint8) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.channels {
		if mask&(1<<i) != 0 {
			r.channels[i].Enabled = false
		}
	}
}

// Enabled reports whether channel ch is enabled
func (r *ChannelRegistry) Enabled(ch uint8) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.channels[ch%NumChannels].Enabled
}

// SetPWM stores the raw speed byte for channel ch
func (r *ChannelRegistry) SetPWM(ch uint8, value uint8) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.channels[ch%NumChannels].PWM = value
}

// PWM returns the raw speed byte of channel ch
func (r *ChannelRegistry) PWM(ch uint8) uint8 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.channels[ch%NumChannels].PWM
}

// Snapshot returns a consistent copy of the registry
func (r *ChannelRegistry) Snapshot() RegistrySnapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return RegistrySnapshot{
		Channels: r.channels,
		Current:  r.current,
		Waiting:  r.waiting,
	}
}
