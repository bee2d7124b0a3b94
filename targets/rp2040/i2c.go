//go:build rp2040 || rp2350

package main

import (
	"fmt"
	"machine"

	"irlink/core"
)

// RPI2CTarget implements core.I2CTarget on TinyGo's machine.I2C in target mode.
type RPI2CTarget struct {
	i2c *machine.I2C
}

// NewRPI2CTarget configures bus as an I2C target listening at the 7-bit address
func NewRPI2CTarget(bus *machine.I2C, sda, scl machine.Pin, address uint8) (*RPI2CTarget, error) {
	err := bus.Configure(machine.I2CConfig{
		Mode: machine.I2CModeTarget,
		SDA:  sda,
		SCL:  scl,
	})
	if err != nil {
		return nil, fmt.Errorf("configure i2c target: %w", err)
	}

	if err := bus.Listen(uint16(address)); err != nil {
		return nil, fmt.Errorf("listen on i2c address 0x%02x: %w", address, err)
	}
	return &RPI2CTarget{i2c: bus}, nil
}

// WaitForEvent blocks until the controller addresses us
func (t *RPI2CTarget) WaitForEvent(buf []byte) (core.I2CTargetEvent, int, error) {
	for {
		evt, n, err := t.i2c.WaitForEvent(buf)
		if err != nil {
			return 0, 0, err
		}
		switch evt {
		case machine.I2CReceive:
			return core.I2CReceive, n, nil
		case machine.I2CRequest:
			return core.I2CRequest, 0, nil
		case machine.I2CFinish:
			return core.I2CFinish, 0, nil
		}
	}
}

// Reply answers a read request
func (t *RPI2CTarget) Reply(buf []byte) error {
	return t.i2c.Reply(buf)
}

// i2cBus returns the peripheral that owns the SDA/SCL pair
func i2cBus(sda machine.Pin) *machine.I2C {
	// I2C0 on GP0/1, 4/5, 8/9, ...; I2C1 on GP2/3, 6/7, 10/11, ...
	if (sda/2)%2 == 1 {
		return machine.I2C1
	}
	return machine.I2C0
}
