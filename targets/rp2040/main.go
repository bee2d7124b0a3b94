//go:build rp2040 || rp2350

package main

import (
	_ "embed"
	"machine"
	"runtime"
	"time"

	"irlink/config"
	"irlink/core"
	"irlink/targets/pio"
)

//go:embed config.json
var configJSON []byte

var (
	// Debug counters
	loopPanics   uint32
	serveRetries uint32
)

func main() {
	// Disable watchdog on boot to clear any previous state
	err := machine.Watchdog.Configure(machine.WatchdogConfig{TimeoutMillis: 0})
	if err != nil {
		return
	}

	// Initialize USB CDC immediately so the debug console is up
	InitUSB()
	core.SetDebugWriter(USBWriteLine)

	cfg, err := config.LoadConfig(configJSON)
	if err != nil {
		core.SetDebugEnabled(true)
		core.DebugPrintln("config: " + err.Error() + ", using defaults")
		cfg = config.DefaultConfig()
	}
	core.SetDebugEnabled(cfg.Debug)
	core.InitAsyncDebug()

	UpdateSystemTime()

	if cfg.ProbePin != "" {
		pin, _ := config.ParsePin(cfg.ProbePin)
		core.SetGPIODriver(NewRPGPIODriver())
		if err := core.EnableProbe(core.GPIOPin(pin)); err != nil {
			core.DebugPrintln("probe: " + err.Error())
		}
	}

	registry := core.NewChannelRegistry(cfg.Periods)

	// Infrared output
	carrier, err := newCarrier(cfg)
	if err != nil {
		halt("carrier: " + err.Error())
	}
	core.SetIRDriver(core.NewTimerIRDriver(carrier, cfg.CarrierHz))
	ir := core.NewIRFrameEngine(registry, core.MustIR())

	// Host register interface
	sda, _ := config.ParsePin(cfg.SDAPin)
	scl, _ := config.ParsePin(cfg.SCLPin)
	target, err := NewRPI2CTarget(i2cBus(machine.Pin(sda)), machine.Pin(sda), machine.Pin(scl), cfg.Address)
	if err != nil {
		halt(err.Error())
	}
	core.SetI2CTarget(target)
	regs := core.NewRegisterEngine(registry, cfg.Address, cfg.Identity())
	go serveLoop(regs)

	core.DebugAsync("irlink ready")
	ir.Start()

	// Main loop
	for {
		// Recover from panics in the main loop to prevent a firmware crash
		func() {
			defer func() {
				if r := recover(); r != nil {
					loopPanics++
					core.DumpTimingRing()
				}
			}()

			// Update system time from hardware
			UpdateSystemTime()

			// Process scheduled timers
			core.ProcessTimers()
		}()

		// Yield to the I2C goroutine
		runtime.Gosched()
	}
}

// newCarrier builds the carrier backend selected by the configuration
func newCarrier(cfg *config.DeviceConfig) (core.Carrier, error) {
	pin, err := config.ParsePin(cfg.IRPin)
	if err != nil {
		return nil, err
	}

	if cfg.Carrier == config.CarrierPIO {
		c := pio.NewPIOCarrier(0, 0)
		if err := c.Init(pin, cfg.CarrierHz); err != nil {
			return nil, err
		}
		return c, nil
	}
	return NewPWMCarrier(machine.Pin(pin), cfg.CarrierHz)
}

// serveLoop runs the register engine on the I2C target, restarting on errors
func serveLoop(regs *core.RegisterEngine) {
	for {
		err := core.ServeI2CTarget(core.MustI2CTarget(), regs)
		serveRetries++
		core.DebugAsync("i2c: " + err.Error())
		regs.Reset()
		time.Sleep(10 * time.Millisecond)
	}
}

// halt reports a fatal setup error forever
func halt(msg string) {
	core.SetDebugEnabled(true)
	for {
		core.DebugPrintln("fatal: " + msg)
		time.Sleep(time.Second)
	}
}
