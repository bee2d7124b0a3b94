package core

import "sync"

// LoopbackBus is an in-memory I2C controller wired straight to a
// RegisterEngine, bit-for-bit in acknowledge semantics. It satisfies the
// tinygo.org/x/drivers I2C interface.
type LoopbackBus struct {
	mu     sync.Mutex
	engine *RegisterEngine
}

// NewLoopbackBus creates a bus with a single target, e
func NewLoopbackBus(e *RegisterEngine) *LoopbackBus {
	return &LoopbackBus{engine: e}
}

// Tx writes w, then reads len(r) bytes after a repeated start.
// Every byte of r is acknowledged except the last.
func (b *LoopbackBus) Tx(addr uint16, w, r []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	e := b.engine
	defer e.Stop()

	if len(w) > 0 {
		e.Start()
		if !e.Receive(uint8(addr) << 1) {
			return ErrAddressNack
		}
		for _, c := range w {
			if !e.Receive(c) {
				return ErrDataNack
			}
		}
	}

	if len(r) > 0 {
		e.Start()
		if !e.Receive(uint8(addr)<<1 | 1) {
			return ErrAddressNack
		}
		for i := range r {
			r[i] = e.Transmit()
			e.Acknowledge(i < len(r)-1)
		}
	}
	return nil
}

// ReadRegister reads len(data) bytes from reg
func (b *LoopbackBus) ReadRegister(addr uint8, reg uint8, data []byte) error {
	return b.Tx(uint16(addr), []byte{reg}, data)
}

// WriteRegister writes data to reg in one transaction
func (b *LoopbackBus) WriteRegister(addr uint8, reg uint8, data []byte) error {
	return b.Tx(uint16(addr), append([]byte{reg}, data...), nil)
}
