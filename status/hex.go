// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package status renders the observable transfer state as hexadecimal text
// on a character console.
package status

import (
	"fmt"
)

// Hex16 renders a word as 4 uppercase hex digits.
func Hex16(value uint16) string {
	return fmt.Sprintf("%04X", value)
}

// Hex32 renders a long as 8 uppercase hex digits.
func Hex32(value uint32) string {
	return fmt.Sprintf("%08X", value)
}

// Pointer renders a 24-bit bus address as a 32-bit value, 8 digits.
func Pointer(addr uint32) string {
	return Hex32(addr & 0xff_ffff)
}
