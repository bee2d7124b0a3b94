package core

// TimerIRDriver implements IRDriver on the soft timer list. The carrier is
// switched through a Carrier and every compare event is a scheduled Timer.
// Deadlines are derived from the total number of carrier cycles elapsed
// since Reset, so per-interval rounding never accumulates.
type TimerIRDriver struct {
	carrier   Carrier
	carrierHz uint32
	handler   IRHandler

	timer   Timer
	inMark  bool
	origin  uint32
	elapsed uint64 // carrier cycles since origin, below carrierHz after each arm
}

// NewTimerIRDriver creates a driver emitting through carrier at carrierHz
func NewTimerIRDriver(carrier Carrier, carrierHz uint32) *TimerIRDriver {
	d := &TimerIRDriver{
		carrier:   carrier,
		carrierHz: carrierHz,
	}
	d.timer.Handler = d.fire
	d.Reset()
	return d
}

// Reset cancels any pending event and restarts the time base at the current time
func (d *TimerIRDriver) Reset() {
	CancelTimer(&d.timer)
	d.origin = GetTime()
	d.elapsed = 0
}

// Attach registers the compare event handler
func (d *TimerIRDriver) Attach(h IRHandler) {
	d.handler = h
}

// Mark starts a carrier burst of the given length
func (d *TimerIRDriver) Mark(cycles uint16) {
	d.carrier.On(cycles)
	d.arm(cycles, true)
}

// Space holds the carrier off for the given length
func (d *TimerIRDriver) Space(cycles uint16) {
	d.carrier.Off(cycles)
	d.arm(cycles, false)
}

func (d *TimerIRDriver) arm(cycles uint16, mark bool) {
	d.elapsed += uint64(cycles)
	// Whole seconds move into the origin: carrierHz cycles are exactly TimerFreq ticks
	if d.elapsed >= uint64(d.carrierHz) {
		secs := d.elapsed / uint64(d.carrierHz)
		d.origin += uint32(secs * TimerFreq)
		d.elapsed -= secs * uint64(d.carrierHz)
	}
	d.inMark = mark
	offset := (d.elapsed*TimerFreq + uint64(d.carrierHz)/2) / uint64(d.carrierHz)
	d.timer.WakeTime = d.origin + uint32(offset)
	ScheduleTimer(&d.timer)
}

func (d *TimerIRDriver) fire(t *Timer) uint8 {
	if d.handler == nil {
		return SF_DONE
	}
	if d.inMark {
		d.handler.HandleMarkEnd()
	} else {
		d.handler.HandleSpaceEnd()
	}
	return SF_DONE
}
