//go:build rp2040 || rp2350

package pio

// PIO carrier backend using tinygo-org/pio package
// Emits an exact number of carrier periods per burst, independent of CPU load

import (
	"machine"

	rp2pio "github.com/tinygo-org/pio/rp2-pio"
)

// PIO program for carrier bursts
// Each FIFO word is the number of carrier periods minus one.
// One carrier period is three PIO cycles: one high, two low (1/3 duty).
//
// Program flow:
//  1. Pull the period count into X
//  2. Drive the pin high for one cycle, low for two
//  3. Repeat X+1 times, then wait for the next word with the pin low
//
// buildCarrierProgram creates the carrier PIO program using AssemblerV0
func buildCarrierProgram() []uint16 {
	asm := rp2pio.AssemblerV0{SidesetBits: 0}
	return []uint16{
		// .wrap_target
		asm.Pull(false, true).Encode(),        // 0: pull block
		asm.Out(rp2pio.OutDestX, 32).Encode(), // 1: out x, 32 (periods - 1)
		// period_loop:
		asm.Set(rp2pio.SetDestPins, 1).Encode(), // 2: set pins, 1
		asm.Set(rp2pio.SetDestPins, 0).Encode(), // 3: set pins, 0
		asm.Jmp(2, rp2pio.JmpXNZeroDec).Encode(), // 4: jmp x--, 2
		// .wrap
	}
}

const (
	carrierPIOOrigin = 0 // Load at offset 0 for correct jump addresses
	cyclesPerPeriod  = 3
)

// PIOCarrier implements core.Carrier with a PIO state machine
type PIOCarrier struct {
	pio    *rp2pio.PIO
	sm     rp2pio.StateMachine
	pin    machine.Pin
	offset uint8
}

// NewPIOCarrier creates a new PIO carrier on the given block and state machine
// pioNum: 0 for PIO0, 1 for PIO1
// smNum: 0-3 for state machine number
func NewPIOCarrier(pioNum, smNum uint8) *PIOCarrier {
	var pioHW *rp2pio.PIO
	if pioNum == 0 {
		pioHW = rp2pio.PIO0
	} else {
		pioHW = rp2pio.PIO1
	}

	return &PIOCarrier{
		pio: pioHW,
		sm:  pioHW.StateMachine(smNum),
	}
}

// Init loads the program and starts the state machine with the output low
func (c *PIOCarrier) Init(pin uint8, carrierHz uint32) error {
	c.pin = machine.Pin(pin)

	// Claim the state machine first
	c.sm.TryClaim()

	program := buildCarrierProgram()
	offset, err := c.pio.AddProgram(program, carrierPIOOrigin)
	if err != nil {
		return err
	}
	c.offset = offset

	c.pin.Configure(machine.PinConfig{Mode: c.pio.PinMode()})

	cfg := rp2pio.DefaultStateMachineConfig()
	cfg.SetSetPins(c.pin, 1)

	// Shift right, explicit PULL, 32-bit threshold
	cfg.SetOutShift(true, false, 32)
	cfg.SetWrap(offset+uint8(len(program))-1, offset)

	// Three PIO cycles per carrier period
	whole, frac, err := rp2pio.ClkDivFromFrequency(carrierHz*cyclesPerPeriod, machine.CPUFrequency())
	if err != nil {
		return err
	}
	cfg.SetClkDivIntFrac(whole, frac)

	// Initialize state machine before setting pin directions
	c.sm.Init(offset, cfg)
	c.sm.SetPindirsConsecutive(c.pin, 1, true)
	c.sm.SetPinsConsecutive(c.pin, 1, false)

	c.sm.SetEnabled(true)
	return nil
}

// On queues a burst of the given number of carrier periods
func (c *PIOCarrier) On(cycles uint16) {
	if cycles == 0 {
		return
	}
	// Wait for FIFO space; the FIFO holds four bursts
	for c.sm.IsTxFIFOFull() {
	}
	c.sm.TxPut(uint32(cycles) - 1)
}

// Off does nothing: the state machine parks low after each burst
func (c *PIOCarrier) Off(cycles uint16) {}
