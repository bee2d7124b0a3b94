package core

import "irlink/protocol"

// TimingState is the position of the infrared engine within a frame
type TimingState uint8

const (
	StateStopped TimingState = iota
	StateStarting
	StateStartMark
	StateBit
	StateStopMark
)

func (s TimingState) String() string {
	switch s {
	case StateStopped:
		return "stopped"
	case StateStarting:
		return "starting"
	case StateStartMark:
		return "start-mark"
	case StateBit:
		return "bit"
	case StateStopMark:
		return "stop-mark"
	}
	return "unknown"
}

// IRFrameEngine emits one command frame per 16 ms slot and schedules the
// channel that transmits next. It is driven entirely by the compare events
// of its IRDriver and keeps no state beyond the frame in flight.
type IRFrameEngine struct {
	registry *ChannelRegistry
	driver   IRDriver

	state   TimingState
	bit     bool  // value of the bit being sent
	pos     uint8 // position of the bit being sent, 15 down to 0
	channel uint8 // channel of the frame in flight
	frame   protocol.Frame
	numLow  uint8 // logical 0 bits sent in this frame

	frames uint32
	idle   uint32

	// OnFrame, if set, is called as each frame's start mark begins
	OnFrame func(ch uint8, f protocol.Frame)
}

// NewIRFrameEngine creates an engine and attaches it to driver.
// The engine is idle until Start.
func NewIRFrameEngine(registry *ChannelRegistry, driver IRDriver) *IRFrameEngine {
	e := &IRFrameEngine{
		registry: registry,
		driver:   driver,
	}
	driver.Attach(e)
	return e
}

// Start arms the first frame slot. The scheduler first runs at its end.
func (e *IRFrameEngine) Start() {
	e.state = StateStopped
	e.numLow = 0
	e.driver.Space(protocol.FrameSlotCycles)
}

// State returns the current timing state
func (e *IRFrameEngine) State() TimingState {
	return e.state
}

// Frames returns the number of frames started since creation
func (e *IRFrameEngine) Frames() uint32 {
	return e.frames
}

// IdleSlots returns the number of slots in which no channel was selected
func (e *IRFrameEngine) IdleSlots() uint32 {
	return e.idle
}

// HandleMarkEnd ends a carrier burst and starts the gap that encodes the symbol
func (e *IRFrameEngine) HandleMarkEnd() {
	switch e.state {
	case StateStartMark, StateStopMark:
		e.driver.Space(protocol.StartGapCycles)
	case StateBit:
		if !e.bit {
			e.numLow++
		}
		e.driver.Space(protocol.GapCycles(e.bit))
	}
}

// HandleSpaceEnd runs at each symbol boundary and advances the state machine
func (e *IRFrameEngine) HandleSpaceEnd() {
	switch e.state {
	case StateStopped:
		e.schedule()
		if e.state == StateStarting {
			e.beginFrame()
			return
		}
		e.driver.Space(protocol.FrameSlotCycles)

	case StateStarting:
		e.beginFrame()

	case StateStartMark:
		e.pos = protocol.FrameBits - 1
		e.bit = e.frame.Bit(e.pos)
		e.state = StateBit
		e.driver.Mark(protocol.MarkCycles)

	case StateBit:
		if e.pos == 0 {
			e.state = StateStopMark
		} else {
			e.pos--
			e.bit = e.frame.Bit(e.pos)
		}
		e.driver.Mark(protocol.MarkCycles)

	case StateStopMark:
		e.finishFrame()
	}
}

// beginFrame builds the frame from live registry state and sends the start mark
func (e *IRFrameEngine) beginFrame() {
	e.registry.mu.Lock()
	pwm := e.registry.channels[e.channel].PWM
	e.registry.mu.Unlock()

	e.frame = protocol.NewFrame(e.channel, pwm)
	e.numLow = 0
	e.frames++
	e.state = StateStartMark
	RecordTiming(EvtFrameStart, e.channel, GetTime(), uint32(e.frame), 0)
	probePulse()
	if e.OnFrame != nil {
		e.OnFrame(e.channel, e.frame)
	}
	e.driver.Mark(protocol.MarkCycles)
}

// finishFrame pads the slot to its fixed length and immediately runs the
// scheduler step for the next slot.
func (e *IRFrameEngine) finishFrame() {
	gap := protocol.TrailingGapCycles(e.numLow)
	RecordTiming(EvtFrameDone, e.channel, GetTime(), uint32(e.numLow), uint32(gap))
	e.numLow = 0
	e.state = StateStopped

	e.registry.mu.Lock()
	e.registry.waiting = true
	e.registry.mu.Unlock()

	e.schedule()
	if e.state != StateStarting {
		// The scheduler already ran for the next slot; sleep through it
		gap += protocol.FrameSlotCycles
	}
	e.driver.Space(gap)
}

// schedule is the per-slot scheduler step. Every countdown ticks once; a
// channel whose countdown expires is re-armed to its period and becomes due.
// The next due, enabled channel after the current one, in round-robin order,
// is selected. A due flag survives until its channel is served or disabled.
func (e *IRFrameEngine) schedule() {
	r := e.registry
	r.mu.Lock()

	for i := range r.channels {
		ch := &r.channels[i]
		if ch.Countdown > 0 {
			ch.Countdown--
		}
		if ch.Countdown == 0 {
			ch.Countdown = ch.Period
			ch.due = true
		}
		if !ch.Enabled {
			ch.due = false
		}
	}

	picked := false
	for k := uint8(1); k <= NumChannels; k++ {
		idx := (r.current + k) % NumChannels
		ch := &r.channels[idx]
		if ch.Enabled && ch.due {
			ch.due = false
			r.current = idx
			r.waiting = false
			e.channel = idx
			picked = true
			break
		}
	}
	if !picked {
		r.waiting = true
	}
	bits := r.enableBitsLocked()
	r.mu.Unlock()

	if picked {
		e.state = StateStarting
		return
	}
	e.idle++
	RecordTiming(EvtIdleSlot, 0, GetTime(), uint32(bits), 0)
}
