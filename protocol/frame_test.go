package protocol

import (
	"fmt"
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestNewFrame(t *testing.T) {
	c := qt.New(t)

	tests := []struct {
		channel uint8
		pwm     uint8
		want    Frame
	}{
		// 0xF ^ 0x4 ^ 0x0 ^ 0x0 = 0xB
		{channel: 0, pwm: 0x00, want: 0x400B},
		// 0xF ^ 0x4 ^ 0x1 ^ 0x7 = 0xD
		{channel: 1, pwm: 0x07, want: 0x417D},
		// high nibble of pwm is dropped
		{channel: 2, pwm: 0xA5, want: 0x425C},
		{channel: 3, pwm: 0xFF, want: 0x43F7},
	}

	for _, tt := range tests {
		name := fmt.Sprintf("ch%d-pwm%02x", tt.channel, tt.pwm)
		c.Run(name, func(c *qt.C) {
			f := NewFrame(tt.channel, tt.pwm)
			c.Assert(f, qt.Equals, tt.want)
			c.Assert(f.Marker(), qt.Equals, uint8(FrameMarker))
			c.Assert(f.Channel(), qt.Equals, tt.channel)
			c.Assert(f.Data(), qt.Equals, tt.pwm&0x0F)
			c.Assert(f.Checksum(), qt.Equals, uint8(0x0F^FrameMarker^tt.channel^(tt.pwm&0x0F)))
			c.Assert(f.Valid(), qt.IsTrue)
		})
	}
}

func TestFrameChecksumAllValues(t *testing.T) {
	for ch := uint8(0); ch < NumChannels; ch++ {
		for pwm := 0; pwm < 256; pwm++ {
			f := NewFrame(ch, uint8(pwm))
			if !f.Valid() {
				t.Fatalf("frame %04X for ch=%d pwm=%d is not valid", uint16(f), ch, pwm)
			}
			if f.Data() != uint8(pwm)&0x0F {
				t.Errorf("frame %04X: data nibble %X, want %X", uint16(f), f.Data(), pwm&0x0F)
			}
		}
	}
}

func TestFrameInvalid(t *testing.T) {
	c := qt.New(t)

	f := NewFrame(1, 3)
	c.Assert((f ^ 0x0001).Valid(), qt.IsFalse)
	c.Assert((f ^ 0x0010).Valid(), qt.IsFalse)
	c.Assert((f ^ 0x8000).Valid(), qt.IsFalse)
}

func TestFrameLowBits(t *testing.T) {
	c := qt.New(t)

	c.Assert(Frame(0xFFFF).LowBits(), qt.Equals, uint8(0))
	c.Assert(Frame(0x0000).LowBits(), qt.Equals, uint8(16))
	// 0x400B = 0100 0000 0000 1011 -> 4 ones
	c.Assert(Frame(0x400B).LowBits(), qt.Equals, uint8(12))
}
