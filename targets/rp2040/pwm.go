//go:build rp2040 || rp2350

package main

import (
	"machine"
)

// carrierDutyDivisor sets the carrier duty cycle to 1/3
const carrierDutyDivisor = 3

// pwmPeripheral is an interface for PWM hardware peripherals
// This abstracts over TinyGo's unexported *pwmGroup type
type pwmPeripheral interface {
	Configure(config machine.PWMConfig) error
	Channel(pin machine.Pin) (uint8, error)
	Top() uint32
	Set(channel uint8, value uint32)
}

// PWMCarrier implements core.Carrier on one hardware PWM slice.
// The slice free-runs at the carrier frequency; On and Off only
// change the compare value, so bursts start on a carrier edge.
type PWMCarrier struct {
	pwm     pwmPeripheral
	channel uint8
	duty    uint32
}

// NewPWMCarrier configures pin as a carrier output at carrierHz, initially off
func NewPWMCarrier(pin machine.Pin, carrierHz uint32) (*PWMCarrier, error) {
	// RP2040: GPIO pin N maps to:
	//   Slice: (N >> 1) & 0x7  (divide by 2, mod 8)
	//   Channel: N & 1          (even=A, odd=B)
	sliceNum := uint8((uint32(pin) >> 1) & 0x7)
	pwm := getPWMPeripheral(sliceNum)

	err := pwm.Configure(machine.PWMConfig{
		Period: uint64(1e9) / uint64(carrierHz),
	})
	if err != nil {
		return nil, err
	}

	channel, err := pwm.Channel(pin)
	if err != nil {
		return nil, err
	}

	c := &PWMCarrier{
		pwm:     pwm,
		channel: channel,
		duty:    pwm.Top() / carrierDutyDivisor,
	}
	c.Off(0)
	return c, nil
}

// On starts the carrier
func (c *PWMCarrier) On(cycles uint16) {
	c.pwm.Set(c.channel, c.duty)
}

// Off stops the carrier, leaving the output low
func (c *PWMCarrier) Off(cycles uint16) {
	c.pwm.Set(c.channel, 0)
}

// getPWMPeripheral returns the PWM peripheral for a slice number
func getPWMPeripheral(sliceNum uint8) pwmPeripheral {
	// TinyGo defines PWM0-PWM7 as global variables of type *pwmGroup
	// We return them via the pwmPeripheral interface
	switch sliceNum {
	case 0:
		return machine.PWM0
	case 1:
		return machine.PWM1
	case 2:
		return machine.PWM2
	case 3:
		return machine.PWM3
	case 4:
		return machine.PWM4
	case 5:
		return machine.PWM5
	case 6:
		return machine.PWM6
	case 7:
		return machine.PWM7
	default:
		// Should never happen with proper masking
		return machine.PWM0
	}
}
