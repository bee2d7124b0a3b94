package core

import "sync/atomic"

// The probe pin gives a logic analyzer a trigger: a short high pulse at
// every frame start and every refused bus byte.
var (
	probePin     GPIOPin
	probeEnabled bool
	probePulses  uint32
)

// EnableProbe configures pin as the probe output on the registered GPIO driver
func EnableProbe(pin GPIOPin) error {
	if err := MustGPIO().ConfigureOutput(pin); err != nil {
		return err
	}
	if err := gpioDriver.SetPin(pin, false); err != nil {
		return err
	}
	probePin = pin
	probeEnabled = true
	return nil
}

// DisableProbe stops driving the probe pin
func DisableProbe() {
	probeEnabled = false
}

// ProbePulses returns the number of pulses emitted
func ProbePulses() uint32 {
	return atomic.LoadUint32(&probePulses)
}

// probePulse emits one pulse. It runs from timer and bus handlers, so errors are dropped.
func probePulse() {
	if !probeEnabled {
		return
	}
	atomic.AddUint32(&probePulses, 1)
	_ = gpioDriver.SetPin(probePin, true)
	_ = gpioDriver.SetPin(probePin, false)
}
