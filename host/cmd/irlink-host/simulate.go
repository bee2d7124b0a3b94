package main

import (
	"fmt"
	"io"

	"irlink/core"
	"irlink/host/irlink"
	"irlink/protocol"
)

// simulation runs the firmware core in-process: registry, both engines, the
// soft timer IR driver with a decoding capture, and the host driver talking
// to the register engine over the loopback bus.
type simulation struct {
	registry *core.ChannelRegistry
	ir       *core.IRFrameEngine
	capture  *core.FrameCapture
	device   irlink.Device
	out      io.Writer

	// Simulated time is kept in 64 bits; the timer clock wraps every 71 minutes
	elapsedUS  uint64
	chunkStart uint32
}

// simChunkSlots bounds each RunUntil call well inside the timer clock's range
const simChunkSlots = 1000

// maxSimSlots is about 18 days of simulated transmission
const maxSimSlots = 100_000_000

func newSimulation(out io.Writer) *simulation {
	core.ResetTimers()
	core.ClearTimingRing()

	s := &simulation{out: out}
	s.registry = core.NewChannelRegistry(core.DefaultPeriods)
	s.capture = core.NewFrameCapture(0)
	s.capture.OnFrame = s.printFrame

	driver := core.NewTimerIRDriver(s.capture, protocol.CarrierHz)
	s.ir = core.NewIRFrameEngine(s.registry, driver)

	regs := core.NewRegisterEngine(s.registry, protocol.DefaultAddress, core.DefaultIdentity())
	s.device = irlink.New(core.NewLoopbackBus(regs))
	return s
}

func (s *simulation) printFrame(f protocol.Frame) {
	ms := float64(s.elapsedUS+uint64(core.TimerToUS(core.GetTime()-s.chunkStart))) / 1000
	check := "ok"
	if !f.Valid() {
		check = "BAD"
	}
	fmt.Fprintf(s.out, "%9.3f ms  frame 0x%04x  ch=%d data=0x%x checksum=%s\n",
		ms, uint16(f), f.Channel(), f.Data(), check)
}

// run configures the device over the bus and transmits for the given number of frame slots
func (s *simulation) run(enable uint8, speeds [protocol.NumChannels]int, slots uint32) error {
	if slots == 0 || slots > maxSimSlots {
		return fmt.Errorf("slots must be between 1 and %d, got %d", maxSimSlots, slots)
	}

	product, err := s.device.Identify()
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "simulating %s, %d slots\n", product, slots)

	for ch, speed := range speeds {
		if err := s.device.SetSpeed(uint8(ch), speed); err != nil {
			return fmt.Errorf("channel %d: %w", ch, err)
		}
	}
	if err := s.device.EnableChannels(enable); err != nil {
		return err
	}

	s.ir.Start()
	s.chunkStart = core.GetTime()
	for slots > 0 {
		n := min(slots, simChunkSlots)
		ticks := core.TimerFromCycles(n*protocol.FrameSlotCycles, protocol.CarrierHz)
		core.RunUntil(s.chunkStart + ticks)
		s.elapsedUS += uint64(core.TimerToUS(ticks))
		s.chunkStart += ticks
		slots -= n
	}

	status, err := s.device.Status()
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "%d frames, %d idle slots, status current=%d waiting=%v enabled=%04b\n",
		s.ir.Frames(), s.ir.IdleSlots(), status.Current, status.Waiting, status.EnabledMask())
	return nil
}
