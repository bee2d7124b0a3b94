package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"irlink/host/i2cbus"
	"irlink/host/irlink"
	"irlink/host/serial"
	"irlink/protocol"
)

var (
	configPath = flag.String("config", "", "YAML configuration file")
	busName    = flag.String("bus", "", "I2C bus name (overrides config)")
	address    = flag.Uint("addr", 0, "7-bit device address (overrides config)")
	device     = flag.String("device", "", "Serial debug console device (overrides config)")
	slots      = flag.Uint("slots", 100, "Frame slots to run in simulate")
	verbose    = flag.Bool("verbose", false, "Enable verbose output")
)

func main() {
	flag.Usage = printHelp
	flag.Parse()

	if flag.NArg() == 0 {
		printHelp()
		os.Exit(2)
	}

	cfg, err := loadHostConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *busName != "" {
		cfg.Bus = *busName
	}
	if *address != 0 {
		cfg.Address = uint16(*address)
	}
	if *device != "" {
		cfg.Serial.Device = *device
	}

	if err := run(cfg, flag.Arg(0), flag.Args()[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg *HostConfig, cmd string, args []string) error {
	switch cmd {
	case "help":
		printHelp()
		return nil
	case "simulate":
		return runSimulate(args)
	case "monitor":
		return runMonitor(cfg)
	}

	bus, err := i2cbus.Open(cfg.Bus)
	if err != nil {
		return err
	}
	defer bus.Close()
	if *verbose {
		fmt.Printf("Using bus %s, address 0x%02x\n", bus, cfg.Address)
	}

	dev := irlink.New(bus)
	dev.Address = cfg.Address
	return runDevice(&dev, cmd, args)
}

func runDevice(dev *irlink.Device, cmd string, args []string) error {
	switch cmd {
	case "info":
		product, err := dev.Identify()
		if err != nil {
			return err
		}
		version, err := dev.Version()
		if err != nil {
			return err
		}
		fmt.Printf("Product: %s\nVersion: %s\n", product, strings.TrimSpace(version))
		return nil

	case "status":
		status, err := dev.Status()
		if err != nil {
			return err
		}
		fmt.Printf("Current channel: %d\nWaiting: %v\n", status.Current, status.Waiting)
		for ch := uint8(0); ch < protocol.NumChannels; ch++ {
			pwm, err := dev.PWM(ch)
			if err != nil {
				return err
			}
			fmt.Printf("  ch%d enabled=%-5v pwm=0x%02x\n", ch, status.Enabled[ch], pwm)
		}
		return nil

	case "enable", "disable":
		if len(args) != 1 {
			return fmt.Errorf("usage: %s <mask>", cmd)
		}
		mask, err := strconv.ParseUint(args[0], 0, 4)
		if err != nil {
			return fmt.Errorf("bad mask %q: %w", args[0], err)
		}
		if cmd == "enable" {
			return dev.EnableChannels(uint8(mask))
		}
		return dev.DisableChannels(uint8(mask))

	case "pwm":
		if len(args) != 2 {
			return fmt.Errorf("usage: pwm <channel> <value>")
		}
		ch, err := strconv.ParseUint(args[0], 0, 8)
		if err != nil {
			return fmt.Errorf("bad channel %q: %w", args[0], err)
		}
		value, err := strconv.ParseUint(args[1], 0, 8)
		if err != nil {
			return fmt.Errorf("bad value %q: %w", args[1], err)
		}
		return dev.SetPWM(uint8(ch), uint8(value))

	case "speed":
		if len(args) != 2 {
			return fmt.Errorf("usage: speed <channel> <-7..7|brake>")
		}
		ch, err := strconv.ParseUint(args[0], 0, 8)
		if err != nil {
			return fmt.Errorf("bad channel %q: %w", args[0], err)
		}
		if args[1] == "brake" {
			return dev.Brake(uint8(ch))
		}
		speed, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("bad speed %q: %w", args[1], err)
		}
		return dev.SetSpeed(uint8(ch), speed)
	}

	return fmt.Errorf("unknown command: %s (try 'help')", cmd)
}

func runMonitor(cfg *HostConfig) error {
	serialCfg := serial.DefaultConfig(cfg.Serial.Device)
	if cfg.Serial.Baud != 0 {
		serialCfg.Baud = cfg.Serial.Baud
	}

	port, err := serial.Open(serialCfg)
	if err != nil {
		return err
	}
	defer port.Close()

	fmt.Printf("Monitoring %s (Ctrl-C to exit)\n", port.Name())
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err = serial.Monitor(ctx, port, func(line string) {
		fmt.Println(line)
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// runSimulate takes an optional enable mask and up to four signed speeds
func runSimulate(args []string) error {
	enable := uint64(0x0F)
	if len(args) > 0 {
		var err error
		enable, err = strconv.ParseUint(args[0], 0, 4)
		if err != nil {
			return fmt.Errorf("bad mask %q: %w", args[0], err)
		}
		args = args[1:]
	}

	speeds := [protocol.NumChannels]int{1, 3, -2, 7}
	for i := 0; i < len(args) && i < len(speeds); i++ {
		v, err := strconv.Atoi(args[i])
		if err != nil {
			return fmt.Errorf("bad speed %q: %w", args[i], err)
		}
		speeds[i] = v
	}

	if *slots > maxSimSlots {
		return fmt.Errorf("-slots %d is above the limit of %d", *slots, maxSimSlots)
	}
	return newSimulation(os.Stdout).run(uint8(enable), speeds, uint32(*slots))
}

func printHelp() {
	fmt.Println("irlink-host - control an IR link bridge")
	fmt.Println("\nUsage: irlink-host [flags] <command> [args]")
	fmt.Println("\nCommands:")
	fmt.Println("  info                      - Show product, vendor and version")
	fmt.Println("  status                    - Show channel state")
	fmt.Println("  enable <mask>             - Enable channels (bit k = channel k)")
	fmt.Println("  disable <mask>            - Disable channels")
	fmt.Println("  pwm <channel> <value>     - Write a raw PWM byte")
	fmt.Println("  speed <channel> <n|brake> - Set a speed step, -7..7")
	fmt.Println("  monitor                   - Print the USB debug console")
	fmt.Println("  simulate [mask] [speeds]  - Run the firmware core in-process")
	fmt.Println("\nFlags:")
	flag.PrintDefaults()
}
