package i2cbus

import (
	"testing"

	qt "github.com/frankban/quicktest"
	"periph.io/x/conn/v3/i2c/i2ctest"
)

func TestTx(t *testing.T) {
	c := qt.New(t)

	playback := &i2ctest.Playback{
		Ops: []i2ctest.IO{
			{Addr: 0x01, W: []byte{0x42}, R: []byte{0x34}},
			{Addr: 0x01, W: []byte{0x50, 0x07}},
		},
	}
	bus := New(playback)

	var status [1]byte
	c.Assert(bus.Tx(0x01, []byte{0x42}, status[:]), qt.IsNil)
	c.Assert(status[0], qt.Equals, byte(0x34))
	c.Assert(bus.Tx(0x01, []byte{0x50, 0x07}, nil), qt.IsNil)
	c.Assert(bus.Close(), qt.IsNil)
	c.Assert(playback.Close(), qt.IsNil)
}

func TestTxError(t *testing.T) {
	c := qt.New(t)

	playback := &i2ctest.Playback{DontPanic: true}
	bus := New(playback)

	err := bus.Tx(0x01, []byte{0x42}, make([]byte, 1))
	c.Assert(err, qt.ErrorMatches, "i2c tx to 0x01: .*")
}
