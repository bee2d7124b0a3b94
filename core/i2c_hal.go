package core

// I2CTargetEvent is a transaction-level event of an I2C target peripheral
type I2CTargetEvent uint8

const (
	// I2CReceive: the controller wrote bytes to us
	I2CReceive I2CTargetEvent = iota
	// I2CRequest: the controller wants to read; answer with Reply
	I2CRequest
	// I2CFinish: stop condition
	I2CFinish
)

// I2CTarget is the abstract I2C target interface that core code uses.
// The peripheral matches the address and drives the acknowledge bits itself;
// platform code adapts it to these events.
type I2CTarget interface {
	// WaitForEvent blocks until the next bus event. For I2CReceive,
	// buf holds the n bytes written by the controller.
	WaitForEvent(buf []byte) (evt I2CTargetEvent, n int, err error)

	// Reply sends the bytes answering an I2CRequest
	Reply(buf []byte) error
}

// Global singleton used by core code.
var i2cTarget I2CTarget

// SetI2CTarget is called by target-specific code to register its peripheral.
func SetI2CTarget(t I2CTarget) {
	i2cTarget = t
}

// MustI2CTarget returns the configured peripheral or panics if missing.
func MustI2CTarget() I2CTarget {
	if i2cTarget == nil {
		panic("I2C target not configured")
	}
	return i2cTarget
}
