// Package config loads the device configuration embedded in the firmware image.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"irlink/core"
	"irlink/protocol"
)

// Carrier backends
const (
	CarrierPWM = "pwm"
	CarrierPIO = "pio"
)

// DeviceConfig is the full device configuration
type DeviceConfig struct {
	Address uint8 `json:"address"` // 7-bit bus address

	// Identity registers, up to 8 ASCII characters each
	Version   string `json:"version"`
	VendorID  string `json:"vendor_id"`
	ProductID string `json:"product_id"`

	Periods [core.NumChannels]uint8 `json:"periods"` // re-arm period per channel, in frame slots

	CarrierHz uint32 `json:"carrier_hz"`
	Carrier   string `json:"carrier"` // "pwm" or "pio"

	IRPin  string `json:"ir_pin"`  // e.g. "gpio15"
	SDAPin string `json:"sda_pin"` // I2C target data
	SCLPin string `json:"scl_pin"` // I2C target clock

	ProbePin string `json:"probe_pin"` // optional logic analyzer trigger, "" for none

	Debug bool `json:"debug"` // debug output on the USB console
}

var (
	ErrAddress  = errors.New("address must be a 7-bit value between 0x01 and 0x7f")
	ErrIdentity = errors.New("identity strings must be at most 8 ASCII characters")
	ErrCarrier  = errors.New("carrier must be \"pwm\" or \"pio\"")
	ErrPin      = errors.New("pin names must look like gpioN")
)

// LoadConfig parses a JSON configuration string and returns a DeviceConfig
func LoadConfig(jsonData []byte) (*DeviceConfig, error) {
	var config DeviceConfig

	err := json.Unmarshal(jsonData, &config)
	if err != nil {
		return nil, err
	}

	// Apply defaults
	applyDefaults(&config)

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// applyDefaults fills in missing configuration values with sensible defaults
func applyDefaults(config *DeviceConfig) {
	if config.Address == 0 {
		config.Address = protocol.DefaultAddress
	}

	// Identity strings
	if config.Version == "" {
		config.Version = protocol.DefaultVersion
	}
	if config.VendorID == "" {
		config.VendorID = protocol.DefaultVendorID
	}
	if config.ProductID == "" {
		config.ProductID = protocol.DefaultProductID
	}

	// Staggered periods
	for i := range config.Periods {
		if config.Periods[i] == 0 {
			config.Periods[i] = core.DefaultPeriods[i]
		}
	}

	if config.CarrierHz == 0 {
		config.CarrierHz = protocol.CarrierHz
	}
	if config.Carrier == "" {
		config.Carrier = CarrierPWM
	}

	// Pico pinout: IR LED driver on GP15, I2C0 on GP4/GP5
	if config.IRPin == "" {
		config.IRPin = "gpio15"
	}
	if config.SDAPin == "" {
		config.SDAPin = "gpio4"
	}
	if config.SCLPin == "" {
		config.SCLPin = "gpio5"
	}
}

// Validate checks a configuration with defaults already applied
func (c *DeviceConfig) Validate() error {
	if c.Address == 0 || c.Address > 0x7F {
		return fmt.Errorf("%w: got 0x%02x", ErrAddress, c.Address)
	}

	for _, s := range []string{c.Version, c.VendorID, c.ProductID} {
		if len(s) > protocol.IdentityLen {
			return fmt.Errorf("%w: %q", ErrIdentity, s)
		}
		for i := 0; i < len(s); i++ {
			if s[i] < 0x20 || s[i] > 0x7E {
				return fmt.Errorf("%w: %q", ErrIdentity, s)
			}
		}
	}

	// 20-60 kHz covers every IR receiver module in use
	if c.CarrierHz < 20_000 || c.CarrierHz > 60_000 {
		return fmt.Errorf("carrier_hz %d out of range", c.CarrierHz)
	}

	switch c.Carrier {
	case CarrierPWM, CarrierPIO:
	default:
		return fmt.Errorf("%w: got %q", ErrCarrier, c.Carrier)
	}

	for _, pin := range []string{c.IRPin, c.SDAPin, c.SCLPin} {
		if _, err := ParsePin(pin); err != nil {
			return err
		}
	}
	if c.ProbePin != "" {
		if _, err := ParsePin(c.ProbePin); err != nil {
			return err
		}
	}
	return nil
}

// Identity returns the identity registers, space padded
func (c *DeviceConfig) Identity() core.Identity {
	return core.Identity{
		Version:   protocol.PadIdentity(c.Version),
		VendorID:  protocol.PadIdentity(c.VendorID),
		ProductID: protocol.PadIdentity(c.ProductID),
	}
}

// ParsePin converts a pin name such as "gpio15" to its number
func ParsePin(name string) (uint8, error) {
	num, ok := strings.CutPrefix(strings.ToLower(name), "gpio")
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrPin, name)
	}
	n, err := strconv.ParseUint(num, 10, 8)
	if err != nil || n > 47 {
		return 0, fmt.Errorf("%w: %q", ErrPin, name)
	}
	return uint8(n), nil
}

// DefaultConfig returns the configuration used when the image carries none
func DefaultConfig() *DeviceConfig {
	config := &DeviceConfig{}
	applyDefaults(config)
	return config
}
