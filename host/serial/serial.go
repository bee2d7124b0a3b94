// Package serial reads the device's USB debug console.
package serial

import (
	"errors"
	"io"
)

// ErrNoDevice is returned by Open when no device path is configured
var ErrNoDevice = errors.New("serial: no device configured")

// Port is the read side of a debug console. The device never reads its
// console, so nothing is written back.
type Port interface {
	io.ReadCloser

	// Name returns the device path
	Name() string
}

// Config holds serial port configuration
type Config struct {
	// Device path (e.g., "/dev/ttyACM0", "COM3")
	Device string

	// Baud rate (USB CDC ignores this)
	Baud int

	// Read timeout in milliseconds. Monitor needs a finite timeout to
	// notice cancellation; 0 selects DefaultReadTimeout.
	ReadTimeout int
}

// DefaultReadTimeout bounds how long Monitor waits before checking its context
const DefaultReadTimeout = 100

// DefaultConfig returns a default configuration for the device's USB debug console
func DefaultConfig(device string) *Config {
	return &Config{
		Device:      device,
		Baud:        115200,
		ReadTimeout: DefaultReadTimeout,
	}
}
