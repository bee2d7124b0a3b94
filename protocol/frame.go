package protocol

// Frame is a 16-bit infrared command word, sent MSB first:
//
//	bits 15-12: marker (always FrameMarker)
//	bits 11-8:  channel index
//	bits 7-4:   data (low nibble of the channel PWM byte)
//	bits 3-0:   checksum = 0xF ^ marker ^ channel ^ data
type Frame uint16

// FrameMarker is the fixed protocol marker nibble.
const FrameMarker = 0x4

// NewFrame builds the checksummed frame for a channel and its PWM byte.
// Only the low 4 bits of pwm are transmitted.
func NewFrame(channel uint8, pwm uint8) Frame {
	f := Frame(FrameMarker)<<12 | Frame(channel&0x0F)<<8 | Frame(pwm&0x0F)<<4
	return f | Frame(Checksum(f))
}

// Checksum computes the checksum nibble from the upper three nibbles of f.
func Checksum(f Frame) uint8 {
	return 0x0F ^ uint8(f>>12)&0x0F ^ uint8(f>>8)&0x0F ^ uint8(f>>4)&0x0F
}

// Marker returns the marker nibble.
func (f Frame) Marker() uint8 { return uint8(f>>12) & 0x0F }

// Channel returns the channel nibble.
func (f Frame) Channel() uint8 { return uint8(f>>8) & 0x0F }

// Data returns the data nibble.
func (f Frame) Data() uint8 { return uint8(f>>4) & 0x0F }

// Checksum returns the checksum nibble carried in the frame.
func (f Frame) Checksum() uint8 { return uint8(f) & 0x0F }

// Valid reports whether the frame carries the marker and a matching checksum.
func (f Frame) Valid() bool {
	return f.Marker() == FrameMarker && f.Checksum() == Checksum(f)
}

// Bit returns bit i of the frame (0 = LSB).
func (f Frame) Bit(i uint8) bool {
	return f&(1<<i) != 0
}

// LowBits counts the logical-0 bits in the frame.
func (f Frame) LowBits() uint8 {
	n := uint8(0)
	for i := uint8(0); i < FrameBits; i++ {
		if !f.Bit(i) {
			n++
		}
	}
	return n
}
