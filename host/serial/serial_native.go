package serial

import (
	"fmt"
	"time"

	"github.com/tarm/serial"
)

// NativePort is a debug console opened through tarm/serial
type NativePort struct {
	port *serial.Port
	name string
}

// Open opens the debug console described by cfg
func Open(cfg *Config) (*NativePort, error) {
	if cfg == nil || cfg.Device == "" {
		return nil, ErrNoDevice
	}

	timeout := cfg.ReadTimeout
	if timeout <= 0 {
		timeout = DefaultReadTimeout
	}

	port, err := serial.OpenPort(&serial.Config{
		Name:        cfg.Device,
		Baud:        cfg.Baud,
		ReadTimeout: time.Duration(timeout) * time.Millisecond,
	})
	if err != nil {
		return nil, fmt.Errorf("serial: open console %s: %w", cfg.Device, err)
	}
	return &NativePort{port: port, name: cfg.Device}, nil
}

// Read reads console bytes. A read timeout returns 0, io.EOF.
func (p *NativePort) Read(b []byte) (int, error) {
	return p.port.Read(b)
}

// Name returns the device path
func (p *NativePort) Name() string {
	return p.name
}

// Close closes the console
func (p *NativePort) Close() error {
	if err := p.port.Close(); err != nil {
		return fmt.Errorf("serial: close console %s: %w", p.name, err)
	}
	return nil
}

var _ Port = (*NativePort)(nil)
