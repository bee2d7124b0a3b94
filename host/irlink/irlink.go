// Package irlink is a host-side driver for the IR link bridge.
//
// The device sits on an I2C bus and rebroadcasts per-channel speed
// commands as infrared frames to up to four receivers.
package irlink

import (
	"errors"
	"fmt"

	"tinygo.org/x/drivers"

	"irlink/protocol"
)

var (
	// ErrBadChannel is returned for channel numbers above 3
	ErrBadChannel = errors.New("irlink: channel out of range")

	// ErrNotConnected is returned when the device does not identify as an IR link
	ErrNotConnected = errors.New("irlink: device not found")

	// ErrSpeedRange is returned for speeds outside -7..7
	ErrSpeedRange = errors.New("irlink: speed out of range")
)

// Speed nibble values of the receivers
const (
	SpeedFloat = 0x0
	SpeedBrake = 0x8
	MaxSpeed   = 7
)

// Device wraps an I2C connection to an IR link device.
type Device struct {
	bus     drivers.I2C
	Address uint16
}

// Status is the decoded status register
type Status struct {
	Current uint8 // channel last selected for transmission
	Waiting bool  // no channel selected since the last frame
	Enabled [protocol.NumChannels]bool
}

// New creates a new IR link connection. The I2C bus must already be
// configured.
//
// This function only creates the Device object, it does not touch the device.
func New(bus drivers.I2C) Device {
	return Device{
		bus:     bus,
		Address: protocol.DefaultAddress,
	}
}

// Connected returns whether the device answers with the expected vendor ID.
func (d *Device) Connected() bool {
	vendor, err := d.VendorID()
	return err == nil && vendor == protocol.DefaultVendorID
}

// Identify checks the vendor ID and returns the product ID
func (d *Device) Identify() (string, error) {
	if !d.Connected() {
		return "", fmt.Errorf("%w at address 0x%02x", ErrNotConnected, d.Address)
	}
	return d.ProductID()
}

// Version returns the firmware version string
func (d *Device) Version() (string, error) {
	return d.readIdentity(protocol.RegVersion)
}

// VendorID returns the vendor identity string
func (d *Device) VendorID() (string, error) {
	return d.readIdentity(protocol.RegVendorID)
}

// ProductID returns the product identity string
func (d *Device) ProductID() (string, error) {
	return d.readIdentity(protocol.RegProductID)
}

func (d *Device) readIdentity(reg uint8) (string, error) {
	var buf [protocol.IdentityLen]byte
	if err := d.readRegister(reg, buf[:]); err != nil {
		return "", err
	}
	return string(buf[:]), nil
}

// Status reads the status register
func (d *Device) Status() (Status, error) {
	var buf [1]byte
	if err := d.readRegister(protocol.RegStatus, buf[:]); err != nil {
		return Status{}, err
	}
	return ParseStatus(buf[0]), nil
}

// ParseStatus decodes a status register byte
func ParseStatus(b uint8) Status {
	s := Status{
		Current: b & protocol.StatusChannelMask,
		Waiting: b&protocol.StatusWaiting != 0,
	}
	for i := range s.Enabled {
		s.Enabled[i] = b&(1<<(protocol.StatusEnableShift+i)) != 0
	}
	return s
}

// EnabledMask returns the enabled channels as a bit mask, bit k = channel k
func (s Status) EnabledMask() uint8 {
	mask := uint8(0)
	for i, on := range s.Enabled {
		if on {
			mask |= 1 << i
		}
	}
	return mask
}

// EnableChannels enables every channel whose bit is set in mask
func (d *Device) EnableChannels(mask uint8) error {
	return d.writeRegister(protocol.RegEnable, mask&0x0F)
}

// DisableChannels disables every channel whose bit is set in mask
func (d *Device) DisableChannels(mask uint8) error {
	return d.writeRegister(protocol.RegDisable, mask&0x0F)
}

// SetEnabled replaces the set of enabled channels with mask
func (d *Device) SetEnabled(mask uint8) error {
	return d.writeRegister(protocol.RegStatus, (mask&0x0F)<<protocol.StatusEnableShift)
}

// SetPWM writes the raw speed byte of channel ch.
// Only the low nibble reaches the receiver.
func (d *Device) SetPWM(ch uint8, value uint8) error {
	if ch >= protocol.NumChannels {
		return ErrBadChannel
	}
	return d.writeRegister(protocol.RegPWM0+ch, value)
}

// PWM reads back the raw speed byte of channel ch
func (d *Device) PWM(ch uint8) (uint8, error) {
	if ch >= protocol.NumChannels {
		return 0, ErrBadChannel
	}
	var buf [1]byte
	if err := d.readRegister(protocol.RegPWM0+ch, buf[:]); err != nil {
		return 0, err
	}
	return buf[0], nil
}

// SetSpeed sets channel ch to a signed speed step: 1..7 forward,
// -1..-7 backward, 0 float.
func (d *Device) SetSpeed(ch uint8, speed int) error {
	nibble, err := SpeedNibble(speed)
	if err != nil {
		return err
	}
	return d.SetPWM(ch, nibble)
}

// Brake stops channel ch actively
func (d *Device) Brake(ch uint8) error {
	return d.SetPWM(ch, SpeedBrake)
}

// SpeedNibble converts a signed speed step to the receiver's speed nibble
func SpeedNibble(speed int) (uint8, error) {
	switch {
	case speed < -MaxSpeed || speed > MaxSpeed:
		return 0, fmt.Errorf("%w: %d", ErrSpeedRange, speed)
	case speed >= 0:
		return uint8(speed), nil
	default:
		// Backward steps count down from 0xF
		return uint8(16 + speed), nil
	}
}

func (d *Device) readRegister(reg uint8, buf []byte) error {
	return d.bus.Tx(d.Address, []byte{reg}, buf)
}

func (d *Device) writeRegister(reg, value uint8) error {
	return d.bus.Tx(d.Address, []byte{reg, value}, nil)
}
