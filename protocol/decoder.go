package protocol

// Tolerance bands in carrier cycles
const (
	markMin = 3
	markMax = 12

	lowGapMin   = 4
	highGapMin  = 16
	startGapMin = 31
)

type symbol uint8

const (
	symInvalid symbol = iota
	symLow
	symHigh
	symStartStop
)

func classifyGap(gap uint16) symbol {
	switch {
	case gap >= startGapMin:
		return symStartStop
	case gap >= highGapMin:
		return symHigh
	case gap >= lowGapMin:
		return symLow
	default:
		return symInvalid
	}
}

// Decoder reassembles frames from a pulse train of (mark, gap) pairs.
// A gap of any length above the start threshold closes a frame, so the
// stop gap and the trailing gap may be passed merged or separately.
type Decoder struct {
	started bool
	bits    uint8
	word    uint16
}

// Feed consumes one symbol. It returns the frame when a stop symbol completes 16 bits.
// Frames are returned whether or not their checksum matches; use Frame.Valid.
func (d *Decoder) Feed(mark, gap uint16) (Frame, bool) {
	if mark < markMin || mark > markMax {
		d.Reset()
		return 0, false
	}

	switch classifyGap(gap) {
	case symStartStop:
		if d.started && d.bits == FrameBits {
			f := Frame(d.word)
			d.Reset()
			return f, true
		}
		// Start symbol (or a stop after a truncated frame): begin afresh
		d.started = true
		d.bits = 0
		d.word = 0
	case symLow, symHigh:
		if !d.started || d.bits == FrameBits {
			d.Reset()
			return 0, false
		}
		d.word <<= 1
		if classifyGap(gap) == symHigh {
			d.word |= 1
		}
		d.bits++
	default:
		d.Reset()
	}
	return 0, false
}

// Reset drops any partially received frame.
func (d *Decoder) Reset() {
	d.started = false
	d.bits = 0
	d.word = 0
}
