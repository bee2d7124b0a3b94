package core

import "sync/atomic"

// getSystemTicks returns the current system ticks. The clock is written by
// the main loop and read from handlers, so it is always accessed atomically.
func getSystemTicks() uint32 {
	return atomic.LoadUint32(&systemTicks)
}

// setSystemTicks sets the system ticks
func setSystemTicks(ticks uint32) {
	atomic.StoreUint32(&systemTicks, ticks)
}
