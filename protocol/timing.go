package protocol

import "time"

// Infrared timing, counted in carrier cycles.
// Every symbol is a carrier burst of MarkCycles followed by a gap whose
// length encodes the symbol.
const (
	// Carrier is modulated at 38 kHz
	CarrierHz = 38_000

	MarkCycles      = 6   // carrier burst
	LowGapCycles    = 10  // gap after a logical 0
	HighGapCycles   = 21  // gap after a logical 1
	StartGapCycles  = 39  // gap after the start and stop marks
	FrameSlotCycles = 608 // 16 ms frame slot

	FrameBits = 16

	LowBitCycles   = MarkCycles + LowGapCycles   // 16
	HighBitCycles  = MarkCycles + HighGapCycles  // 27
	StartBitCycles = MarkCycles + StartGapCycles // 45

	// BitDelta is how much shorter a logical 0 is than a logical 1
	BitDelta = HighBitCycles - LowBitCycles // 11

	// longestFrameCycles is start + 16 high bits + stop
	longestFrameCycles = 2*StartBitCycles + FrameBits*HighBitCycles // 522
)

// FrameDuration is the total length of a frame slot.
const FrameDuration = 16 * time.Millisecond

// TrailingGapCycles returns the gap that follows the stop symbol so that the
// frame occupies exactly FrameSlotCycles, given how many logical 0 bits were sent.
func TrailingGapCycles(numLow uint8) uint16 {
	return FrameSlotCycles - longestFrameCycles + uint16(numLow)*BitDelta
}

// GapCycles returns the gap length that follows a data bit.
func GapCycles(bit bool) uint16 {
	if bit {
		return HighGapCycles
	}
	return LowGapCycles
}

// CyclesToDuration converts carrier cycles to wall time at carrierHz.
func CyclesToDuration(cycles uint32, carrierHz uint32) time.Duration {
	if carrierHz == 0 {
		carrierHz = CarrierHz
	}
	return time.Duration(uint64(cycles) * uint64(time.Second) / uint64(carrierHz))
}
