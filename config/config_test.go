package config

import (
	"testing"

	qt "github.com/frankban/quicktest"

	"irlink/core"
	"irlink/protocol"
)

func TestLoadConfigDefaults(t *testing.T) {
	c := qt.New(t)

	config, err := LoadConfig([]byte(`{}`))
	c.Assert(err, qt.IsNil)
	c.Assert(config, qt.DeepEquals, DefaultConfig())

	c.Assert(config.Address, qt.Equals, uint8(protocol.DefaultAddress))
	c.Assert(config.Periods, qt.Equals, core.DefaultPeriods)
	c.Assert(config.CarrierHz, qt.Equals, uint32(protocol.CarrierHz))
	c.Assert(config.Carrier, qt.Equals, CarrierPWM)

	ident := config.Identity()
	c.Assert(string(ident.VendorID[:]), qt.Equals, protocol.DefaultVendorID)
	c.Assert(ident, qt.Equals, core.DefaultIdentity())
}

func TestLoadConfig(t *testing.T) {
	c := qt.New(t)

	config, err := LoadConfig([]byte(`{
		"address": 16,
		"version": "V2.1",
		"periods": [4, 0, 6, 0],
		"carrier": "pio",
		"ir_pin": "GPIO2",
		"debug": true
	}`))
	c.Assert(err, qt.IsNil)
	c.Assert(config.Address, qt.Equals, uint8(0x10))
	c.Assert(config.Periods, qt.Equals, [core.NumChannels]uint8{4, 10, 6, 14})
	c.Assert(config.Carrier, qt.Equals, CarrierPIO)
	c.Assert(config.Debug, qt.IsTrue)

	ident := config.Identity()
	c.Assert(string(ident.Version[:]), qt.Equals, "V2.1    ")

	pin, err := ParsePin(config.IRPin)
	c.Assert(err, qt.IsNil)
	c.Assert(pin, qt.Equals, uint8(2))
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		json string
		err  error
	}{
		{"address", `{"address": 128}`, ErrAddress},
		{"long-identity", `{"vendor_id": "TOOLONGNAME"}`, ErrIdentity},
		{"non-ascii", `{"product_id": "IRé"}`, ErrIdentity},
		{"carrier", `{"carrier": "bitbang"}`, ErrCarrier},
		{"pin", `{"sda_pin": "D4"}`, ErrPin},
		{"pin-range", `{"scl_pin": "gpio99"}`, ErrPin},
		{"probe-pin", `{"probe_pin": "led"}`, ErrPin},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := qt.New(t)
			_, err := LoadConfig([]byte(tt.json))
			c.Assert(err, qt.ErrorIs, tt.err)
		})
	}
}

func TestLoadConfigBadJSON(t *testing.T) {
	c := qt.New(t)
	_, err := LoadConfig([]byte(`{"address":`))
	c.Assert(err, qt.IsNotNil)

	_, err = LoadConfig([]byte(`{"carrier_hz": 1000}`))
	c.Assert(err, qt.ErrorMatches, "carrier_hz 1000 out of range")
}
