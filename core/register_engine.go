package core

import "irlink/protocol"

// ProtocolState is the position of the register engine within a bus transaction
type ProtocolState uint8

const (
	AwaitingAddress ProtocolState = iota
	AwaitingRegisterSelect
	AwaitingWriteData
	StreamingReadData
)

func (s ProtocolState) String() string {
	switch s {
	case AwaitingAddress:
		return "awaiting-address"
	case AwaitingRegisterSelect:
		return "awaiting-register"
	case AwaitingWriteData:
		return "awaiting-write-data"
	case StreamingReadData:
		return "streaming-read"
	}
	return "unknown"
}

// Identity holds the three fixed identity registers
type Identity struct {
	Version   [protocol.IdentityLen]byte
	VendorID  [protocol.IdentityLen]byte
	ProductID [protocol.IdentityLen]byte
}

// DefaultIdentity returns the stock identity strings
func DefaultIdentity() Identity {
	return Identity{
		Version:   protocol.PadIdentity(protocol.DefaultVersion),
		VendorID:  protocol.PadIdentity(protocol.DefaultVendorID),
		ProductID: protocol.PadIdentity(protocol.DefaultProductID),
	}
}

// RegisterEngine is the bus target side of the register protocol.
// It is fed one event at a time by the bus peripheral: start and stop
// conditions, received bytes, bytes to transmit and the host's acknowledge
// bit after each transmitted byte. It never blocks.
type RegisterEngine struct {
	registry *ChannelRegistry
	ident    Identity
	address  uint8

	state  ProtocolState
	reg    uint8 // selected register, protocol.RegNone if none
	buf    [protocol.IdentityLen]byte
	n      uint8 // valid bytes in buf
	cursor uint8

	nacks uint32
}

// NewRegisterEngine creates an engine answering at the 7-bit address
func NewRegisterEngine(registry *ChannelRegistry, address uint8, ident Identity) *RegisterEngine {
	return &RegisterEngine{
		registry: registry,
		ident:    ident,
		address:  address & 0x7F,
		state:    AwaitingAddress,
		reg:      protocol.RegNone,
	}
}

// Address returns the 7-bit bus address
func (e *RegisterEngine) Address() uint8 {
	return e.address
}

// State returns the protocol state
func (e *RegisterEngine) State() ProtocolState {
	return e.state
}

// Selected returns the selected register, protocol.RegNone if none
func (e *RegisterEngine) Selected() uint8 {
	return e.reg
}

// ReadLen returns the width of the register being streamed, 0 outside a read
func (e *RegisterEngine) ReadLen() uint8 {
	if e.state != StreamingReadData {
		return 0
	}
	return e.n
}

// Nacks returns the number of bytes the engine refused. A host NACK that
// ends a read is the normal end of a read and is not counted.
func (e *RegisterEngine) Nacks() uint32 {
	return e.nacks
}

// Start handles a start or repeated start condition.
// The register selection survives so a write-then-read can follow.
func (e *RegisterEngine) Start() {
	e.state = AwaitingAddress
}

// Stop handles a stop condition
func (e *RegisterEngine) Stop() {
	e.state = AwaitingAddress
}

// Receive handles a byte written by the host and returns the acknowledge
// bit to drive: true for ACK, false for NACK.
func (e *RegisterEngine) Receive(b uint8) bool {
	switch e.state {
	case AwaitingAddress:
		return e.receiveAddress(b)

	case AwaitingRegisterSelect:
		if !protocol.IsRegister(b) {
			return e.nack(b)
		}
		e.reg = b
		e.state = AwaitingWriteData
		RecordTiming(EvtRegSelect, b, GetTime(), 0, 0)
		return true

	case AwaitingWriteData:
		if !protocol.IsWritable(e.reg) {
			return e.nack(b)
		}
		e.write(e.reg, b)
		e.reg = protocol.RegNone
		e.state = AwaitingAddress
		return true
	}

	// The host is not supposed to write while we are transmitting
	return e.nack(b)
}

func (e *RegisterEngine) receiveAddress(b uint8) bool {
	if b>>1 != e.address {
		return e.nack(b)
	}

	if b&1 != 0 {
		if e.reg == protocol.RegNone || !protocol.IsReadable(e.reg) {
			return e.nack(b)
		}
		e.load(e.reg)
		e.cursor = 0
		e.state = StreamingReadData
		RecordTiming(EvtReadStart, e.reg, GetTime(), uint32(e.n), 0)
		return true
	}

	if e.reg != protocol.RegNone {
		e.state = AwaitingWriteData
	} else {
		e.state = AwaitingRegisterSelect
	}
	return true
}

// Transmit returns the byte to send to the host. Outside a read it
// returns 0xFF, the idle level of the bus.
func (e *RegisterEngine) Transmit() uint8 {
	if e.state != StreamingReadData || e.n == 0 {
		return 0xFF
	}
	return e.buf[e.cursor]
}

// Acknowledge handles the host's acknowledge bit after a transmitted byte.
// ACK advances to the next byte, wrapping over the register's width.
// NACK ends the read and clears the selection.
func (e *RegisterEngine) Acknowledge(ack bool) {
	if e.state != StreamingReadData {
		return
	}
	if !ack {
		RecordTiming(EvtReadAbort, e.reg, GetTime(), uint32(e.cursor)+1, 0)
		e.reset()
		return
	}
	e.cursor++
	if e.cursor >= e.n {
		e.cursor = 0
	}
}

// Reset returns the engine to its power-up state
func (e *RegisterEngine) Reset() {
	e.reset()
}

func (e *RegisterEngine) reset() {
	e.state = AwaitingAddress
	e.reg = protocol.RegNone
	e.cursor = 0
	e.n = 0
}

func (e *RegisterEngine) nack(b uint8) bool {
	RecordTiming(EvtNack, uint8(e.state), GetTime(), uint32(b), uint32(e.reg))
	e.nacks++
	probePulse()
	e.reset()
	return false
}

// load fills the read buffer from the selected register
func (e *RegisterEngine) load(reg uint8) {
	switch reg {
	case protocol.RegVersion:
		e.n = uint8(copy(e.buf[:], e.ident.Version[:]))
	case protocol.RegVendorID:
		e.n = uint8(copy(e.buf[:], e.ident.VendorID[:]))
	case protocol.RegProductID:
		e.n = uint8(copy(e.buf[:], e.ident.ProductID[:]))
	case protocol.RegStatus:
		e.buf[0] = e.registry.Status()
		e.n = 1
	default:
		e.buf[0] = e.registry.PWM(reg & 0x03)
		e.n = 1
	}
}

func (e *RegisterEngine) write(reg, b uint8) {
	switch reg {
	case protocol.RegStatus:
		e.registry.SetEnableBits(b >> protocol.StatusEnableShift)
	case protocol.RegDisable:
		e.registry.Disable(b & 0x0F)
	case protocol.RegEnable:
		e.registry.Enable(b & 0x0F)
	default:
		e.registry.SetPWM(reg&0x03, b)
	}
	RecordTiming(EvtRegWrite, reg, GetTime(), uint32(b), 0)
}
