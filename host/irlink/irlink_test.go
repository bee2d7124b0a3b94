package irlink

import (
	"testing"

	qt "github.com/frankban/quicktest"
	"periph.io/x/conn/v3/i2c/i2ctest"

	"irlink/core"
	"irlink/host/i2cbus"
	"irlink/protocol"
)

func newLoopbackDevice() (*core.ChannelRegistry, Device) {
	r := core.NewChannelRegistry(core.DefaultPeriods)
	e := core.NewRegisterEngine(r, protocol.DefaultAddress, core.DefaultIdentity())
	return r, New(core.NewLoopbackBus(e))
}

func TestIdentity(t *testing.T) {
	c := qt.New(t)
	_, dev := newLoopbackDevice()

	c.Assert(dev.Connected(), qt.IsTrue)

	product, err := dev.Identify()
	c.Assert(err, qt.IsNil)
	c.Assert(product, qt.Equals, protocol.DefaultProductID)

	version, err := dev.Version()
	c.Assert(err, qt.IsNil)
	c.Assert(version, qt.Equals, protocol.DefaultVersion)
}

func TestNotConnected(t *testing.T) {
	c := qt.New(t)
	_, dev := newLoopbackDevice()
	dev.Address = 0x22

	c.Assert(dev.Connected(), qt.IsFalse)
	_, err := dev.Identify()
	c.Assert(err, qt.ErrorIs, ErrNotConnected)
	c.Assert(err, qt.ErrorMatches, "irlink: device not found at address 0x22")
}

func TestChannelControl(t *testing.T) {
	c := qt.New(t)
	r, dev := newLoopbackDevice()

	c.Assert(dev.EnableChannels(0x05), qt.IsNil)
	c.Assert(r.EnableBits(), qt.Equals, uint8(0x05))

	c.Assert(dev.DisableChannels(0x04), qt.IsNil)
	c.Assert(r.EnableBits(), qt.Equals, uint8(0x01))

	c.Assert(dev.SetEnabled(0x0A), qt.IsNil)
	status, err := dev.Status()
	c.Assert(err, qt.IsNil)
	c.Assert(status.Enabled, qt.Equals, [protocol.NumChannels]bool{false, true, false, true})
	c.Assert(status.EnabledMask(), qt.Equals, uint8(0x0A))
	c.Assert(status.Waiting, qt.IsTrue)
}

func TestPWM(t *testing.T) {
	c := qt.New(t)
	r, dev := newLoopbackDevice()

	for ch := uint8(0); ch < protocol.NumChannels; ch++ {
		c.Assert(dev.SetPWM(ch, 0xA0|ch), qt.IsNil)
		got, err := dev.PWM(ch)
		c.Assert(err, qt.IsNil)
		c.Assert(got, qt.Equals, 0xA0|ch)
		c.Assert(r.PWM(ch), qt.Equals, 0xA0|ch)
	}

	c.Assert(dev.SetPWM(4, 1), qt.ErrorIs, ErrBadChannel)
	_, err := dev.PWM(7)
	c.Assert(err, qt.ErrorIs, ErrBadChannel)
}

func TestSpeed(t *testing.T) {
	tests := []struct {
		speed int
		want  uint8
	}{
		{0, SpeedFloat},
		{1, 0x1},
		{7, 0x7},
		{-1, 0xF},
		{-7, 0x9},
	}

	c := qt.New(t)
	r, dev := newLoopbackDevice()
	for _, tt := range tests {
		got, err := SpeedNibble(tt.speed)
		c.Assert(err, qt.IsNil)
		c.Assert(got, qt.Equals, tt.want, qt.Commentf("speed %d", tt.speed))

		c.Assert(dev.SetSpeed(1, tt.speed), qt.IsNil)
		c.Assert(r.PWM(1), qt.Equals, tt.want)
	}

	c.Assert(dev.Brake(1), qt.IsNil)
	c.Assert(r.PWM(1), qt.Equals, uint8(SpeedBrake))

	_, err := SpeedNibble(8)
	c.Assert(err, qt.ErrorIs, ErrSpeedRange)
	c.Assert(dev.SetSpeed(0, -9), qt.ErrorIs, ErrSpeedRange)
}

func TestParseStatus(t *testing.T) {
	c := qt.New(t)

	s := ParseStatus(0x96)
	c.Assert(s, qt.Equals, Status{
		Current: 2,
		Waiting: true,
		Enabled: [protocol.NumChannels]bool{true, false, false, true},
	})
}

// The driver works on any drivers.I2C; here over a periph bus replaying
// the expected transactions.
func TestOverPeriphBus(t *testing.T) {
	c := qt.New(t)

	playback := &i2ctest.Playback{
		Ops: []i2ctest.IO{
			{Addr: 0x01, W: []byte{protocol.RegVendorID}, R: []byte("TURTLMKR")},
			{Addr: 0x01, W: []byte{protocol.RegEnable, 0x03}},
			{Addr: 0x01, W: []byte{protocol.RegPWM1, 0x0F}},
			{Addr: 0x01, W: []byte{protocol.RegStatus}, R: []byte{0x35}},
		},
	}
	dev := New(i2cbus.New(playback))

	c.Assert(dev.Connected(), qt.IsTrue)
	c.Assert(dev.EnableChannels(0x03), qt.IsNil)
	c.Assert(dev.SetSpeed(1, -1), qt.IsNil)

	status, err := dev.Status()
	c.Assert(err, qt.IsNil)
	c.Assert(status.Current, qt.Equals, uint8(1))
	c.Assert(status.Waiting, qt.IsTrue)
	c.Assert(status.EnabledMask(), qt.Equals, uint8(0x03))
	c.Assert(playback.Close(), qt.IsNil)
}
