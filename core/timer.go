package core

// TimerFreq is the system timer frequency (RP2040 microsecond timer)
const TimerFreq = 1000000

var systemTicks uint32

// GetTime returns the current system time in timer ticks
func GetTime() uint32 {
	return getSystemTicks()
}

// SetTime sets the current system time (hardware clock or simulation)
func SetTime(ticks uint32) {
	setSystemTicks(ticks)
}

// TimerFromUS converts microseconds to timer ticks
func TimerFromUS(us uint32) uint32 {
	return uint32(uint64(us) * TimerFreq / 1000000)
}

// TimerToUS converts timer ticks to microseconds
func TimerToUS(ticks uint32) uint32 {
	return uint32(uint64(ticks) * 1000000 / TimerFreq)
}

// TimerFromCycles converts carrier cycles to timer ticks, rounded to nearest.
func TimerFromCycles(cycles uint32, carrierHz uint32) uint32 {
	return uint32((uint64(cycles)*TimerFreq + uint64(carrierHz)/2) / uint64(carrierHz))
}

// ProcessTimers runs every timer that is due at the current system time
func ProcessTimers() {
	currentTime = GetTime()
	TimerDispatch()
}

// RunUntil advances simulated time timer by timer up to deadline, dispatching
// each one at its own wake time. Used by host builds where no hardware clock runs.
func RunUntil(deadline uint32) {
	for {
		wake, ok := NextWakeTime()
		if !ok || timerIsBefore(deadline, wake) {
			break
		}
		SetTime(wake)
		ProcessTimers()
	}
	SetTime(deadline)
	currentTime = deadline
}
