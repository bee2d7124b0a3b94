package core

import (
	"errors"

	"irlink/protocol"
)

// ErrTargetWait wraps the error that ended ServeI2CTarget
var ErrTargetWait = errors.New("irlink: wait for i2c event")

// ServeI2CTarget feeds the register engine from a transaction-level target
// peripheral until WaitForEvent fails. Bytes the engine refuses cannot be
// NACKed by such peripherals; the engine still resets as if they had been.
func ServeI2CTarget(t I2CTarget, e *RegisterEngine) error {
	var buf [16]byte
	var reply [protocol.IdentityLen]byte
	for {
		evt, n, err := t.WaitForEvent(buf[:])
		if err != nil {
			return errors.Join(ErrTargetWait, err)
		}

		switch evt {
		case I2CReceive:
			if n > len(buf) {
				n = len(buf)
			}
			writeBytes(e, buf[:n])

		case I2CRequest:
			e.Start()
			k := 0
			if e.Receive(e.Address()<<1 | 1) {
				k = readBytes(e, reply[:])
			}
			if k == 0 {
				reply[0] = 0xFF
				k = 1
			}
			if err := t.Reply(reply[:k]); err != nil {
				DebugAsync("i2c reply: " + err.Error())
			}

		case I2CFinish:
			e.Stop()
		}
	}
}

// writeBytes runs one write transaction through the engine.
// It returns how many bytes were acknowledged before the first NACK,
// or -1 if the address itself was refused.
func writeBytes(e *RegisterEngine, data []byte) int {
	e.Start()
	if !e.Receive(e.Address() << 1) {
		return -1
	}
	for i, b := range data {
		if !e.Receive(b) {
			return i
		}
	}
	return len(data)
}

// readBytes streams from an open read into buf, one register width at most,
// and ends the read with a NACK. It returns the number of bytes read.
func readBytes(e *RegisterEngine, buf []byte) int {
	n := int(e.ReadLen())
	if n > len(buf) {
		n = len(buf)
	}
	for i := 0; i < n; i++ {
		buf[i] = e.Transmit()
		e.Acknowledge(i < n-1)
	}
	return n
}
