// Package i2cbus opens Linux I2C buses through periph.io and exposes them
// with the Tx signature of tinygo.org/x/drivers.I2C.
package i2cbus

import (
	"fmt"
	"sync"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"
)

// DefaultSpeed is the bus clock used by Open: standard mode
const DefaultSpeed = 100 * physic.KiloHertz

var (
	initOnce sync.Once
	initErr  error
)

// Bus is a host I2C bus
type Bus struct {
	bus    i2c.Bus
	closer func() error
}

// Open initializes the host drivers and opens the named bus.
// An empty name opens the first bus found.
func Open(name string) (*Bus, error) {
	initOnce.Do(func() {
		_, initErr = host.Init()
	})
	if initErr != nil {
		return nil, fmt.Errorf("periph host init: %w", initErr)
	}

	bc, err := i2creg.Open(name)
	if err != nil {
		return nil, fmt.Errorf("open i2c bus %q: %w", name, err)
	}
	b := &Bus{bus: bc, closer: bc.Close}
	if err := b.SetSpeed(DefaultSpeed); err != nil {
		bc.Close()
		return nil, err
	}
	return b, nil
}

// New wraps an already open bus
func New(bus i2c.Bus) *Bus {
	return &Bus{bus: bus}
}

// Tx writes w then reads into r, with a repeated start in between
func (b *Bus) Tx(addr uint16, w, r []byte) error {
	if err := b.bus.Tx(addr, w, r); err != nil {
		return fmt.Errorf("i2c tx to 0x%02x: %w", addr, err)
	}
	return nil
}

// SetSpeed changes the bus clock
func (b *Bus) SetSpeed(f physic.Frequency) error {
	if err := b.bus.SetSpeed(f); err != nil {
		return fmt.Errorf("set i2c speed %s: %w", f, err)
	}
	return nil
}

// String returns the bus name
func (b *Bus) String() string {
	return b.bus.String()
}

// Close releases the bus if Open created it
func (b *Bus) Close() error {
	if b.closer == nil {
		return nil
	}
	return b.closer()
}
