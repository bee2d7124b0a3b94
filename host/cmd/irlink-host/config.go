package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"irlink/protocol"
)

// HostConfig is the optional YAML configuration of irlink-host
type HostConfig struct {
	Bus     string `yaml:"bus"`     // periph bus name, "" for the first bus
	Address uint16 `yaml:"address"` // 7-bit device address

	Serial struct {
		Device string `yaml:"device"`
		Baud   int    `yaml:"baud"`
	} `yaml:"serial"`
}

func defaultHostConfig() *HostConfig {
	cfg := &HostConfig{Address: protocol.DefaultAddress}
	cfg.Serial.Device = "/dev/ttyACM0"
	cfg.Serial.Baud = 115200
	return cfg
}

// loadHostConfig reads path over the defaults. An empty path yields the defaults.
func loadHostConfig(path string) (*HostConfig, error) {
	cfg := defaultHostConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg.Address == 0 || cfg.Address > 0x7F {
		return nil, fmt.Errorf("config %s: address 0x%02x is not a 7-bit address", path, cfg.Address)
	}
	return cfg, nil
}
