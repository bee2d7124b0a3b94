// Package protocol implements the wire formats of the IR link:
// the register map seen by the host controller and the 16-bit
// infrared command frame sent to the receivers.
package protocol

// Version represents the irlink firmware version
const Version = "0.1.0"

// DefaultAddress is the 7-bit bus address of the device.
// On the wire the address byte is 0x02 (write) / 0x03 (read).
const DefaultAddress = 0x01

// Register map
const (
	RegVersion   = 0x00 // 8 bytes, identity text
	RegVendorID  = 0x08 // 8 bytes, identity text
	RegProductID = 0x10 // 8 bytes, identity text
	RegStatus    = 0x42 // read: status byte, write: replace enable flags (bits 4-7)
	RegDisable   = 0x43 // write: bits 0-3 disable channels, clear bits are no-ops
	RegEnable    = 0x44 // write: bits 0-3 enable channels, clear bits are no-ops
	RegPWM0      = 0x50 // channel 0-3 PWM at 0x50-0x53
	RegPWM1      = 0x51
	RegPWM2      = 0x52
	RegPWM3      = 0x53

	// RegNone marks "no register selected". Bit 7 is never set in a valid register.
	RegNone = 0x80
)

// IdentityLen is the fixed length of the identity registers, sent without a terminator.
const IdentityLen = 8

// Default identity strings
const (
	DefaultVersion   = "V1.0    "
	DefaultVendorID  = "TURTLMKR"
	DefaultProductID = "IRPFLINK"
)

// Status byte layout
const (
	StatusChannelMask = 0x03 // current channel
	StatusWaiting     = 0x04 // scheduler has no channel selected
	StatusEnableShift = 4    // bit 4+k = channel k enabled
)

// NumChannels is the number of infrared output channels.
const NumChannels = 4

// IsRegister reports whether reg is a selectable register.
func IsRegister(reg uint8) bool {
	switch reg {
	case RegVersion, RegVendorID, RegProductID, RegStatus, RegDisable, RegEnable:
		return true
	}
	return IsPWMRegister(reg)
}

// IsPWMRegister reports whether reg is one of the per-channel PWM registers.
func IsPWMRegister(reg uint8) bool {
	return reg&0xFC == RegPWM0
}

// IsWritable reports whether reg accepts a data byte.
func IsWritable(reg uint8) bool {
	switch reg {
	case RegStatus, RegDisable, RegEnable:
		return true
	}
	return IsPWMRegister(reg)
}

// IsReadable reports whether reg can be streamed back to the host.
func IsReadable(reg uint8) bool {
	switch reg {
	case RegVersion, RegVendorID, RegProductID, RegStatus:
		return true
	}
	return IsPWMRegister(reg)
}

// PadIdentity pads s with spaces to IdentityLen. Longer strings are truncated.
func PadIdentity(s string) [IdentityLen]byte {
	var out [IdentityLen]byte
	for i := range out {
		out[i] = ' '
	}
	copy(out[:], s)
	return out
}
