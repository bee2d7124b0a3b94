package core

import "irlink/protocol"

// FrameCapture is a Carrier that records nothing on the wire but decodes the
// pulse train it is asked to emit back into frames. Host builds use it in
// place of an IR LED.
type FrameCapture struct {
	decoder     protocol.Decoder
	pendingMark uint16
	hasMark     bool

	// OnFrame, if set, is called for every decoded frame
	OnFrame func(f protocol.Frame)

	frames []protocol.Frame
	keep   int

	// Marks counts carrier bursts; Cycles counts every emitted carrier cycle, on or off
	Marks  uint32
	Cycles uint64
}

// NewFrameCapture keeps the last keep decoded frames (0 keeps none)
func NewFrameCapture(keep int) *FrameCapture {
	return &FrameCapture{keep: keep}
}

// On records the start of a carrier burst
func (c *FrameCapture) On(cycles uint16) {
	c.pendingMark = cycles
	c.hasMark = true
	c.Marks++
	c.Cycles += uint64(cycles)
}

// Off closes the pending burst with its gap. Gaps without a preceding burst
// (trailing gaps, idle slots) only advance the cycle count.
func (c *FrameCapture) Off(cycles uint16) {
	c.Cycles += uint64(cycles)
	if !c.hasMark {
		return
	}
	c.hasMark = false
	f, ok := c.decoder.Feed(c.pendingMark, cycles)
	if !ok {
		return
	}
	if c.keep > 0 {
		if len(c.frames) == c.keep {
			copy(c.frames, c.frames[1:])
			c.frames = c.frames[:c.keep-1]
		}
		c.frames = append(c.frames, f)
	}
	if c.OnFrame != nil {
		c.OnFrame(f)
	}
}

// Frames returns the decoded frames kept so far, oldest first
func (c *FrameCapture) Frames() []protocol.Frame {
	out := make([]protocol.Frame, len(c.frames))
	copy(out, c.frames)
	return out
}
