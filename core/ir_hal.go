package core

// IRHandler receives the two compare events of the carrier timer:
// the end of a carrier burst, and the end of the gap that follows it.
type IRHandler interface {
	HandleMarkEnd()
	HandleSpaceEnd()
}

// IRDriver is the abstract infrared output interface the frame engine drives.
// Platform-specific implementations handle the carrier and the compare timer.
type IRDriver interface {
	// Attach registers the handler that receives compare events
	Attach(h IRHandler)

	// Mark turns the carrier on for the given number of carrier cycles,
	// then calls HandleMarkEnd. Must not call back before returning.
	Mark(cycles uint16)

	// Space holds the carrier off for the given number of carrier cycles,
	// then calls HandleSpaceEnd. Must not call back before returning.
	Space(cycles uint16)
}

// Carrier switches the modulated output on and off.
// cycles is the length of the interval being started; PWM carriers may
// ignore it, burst generators use it to emit an exact number of periods.
type Carrier interface {
	On(cycles uint16)
	Off(cycles uint16)
}

// Global singleton used by core code.
var irDriver IRDriver

// SetIRDriver is called by target-specific code to register its driver.
func SetIRDriver(d IRDriver) {
	irDriver = d
}

// MustIR returns the configured driver or panics if missing.
func MustIR() IRDriver {
	if irDriver == nil {
		panic("IR driver not configured")
	}
	return irDriver
}
