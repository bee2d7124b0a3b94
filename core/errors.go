package core

import "errors"

var (
	// ErrAddressNack is returned when the device refused the address byte
	ErrAddressNack = errors.New("irlink: address not acknowledged")

	// ErrDataNack is returned when the device refused a register or data byte
	ErrDataNack = errors.New("irlink: data not acknowledged")
)
