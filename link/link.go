// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package link drives the bit-serial link of the two controller ports.
//
// Both ports share a single latch line, driven by writes to the primary port
// register. Each port has its own data line, and every read of a port
// register clocks one bit out of the attached device. Values are accumulated
// LSB first: the bit of read i lands in bit i of the result.
//
// The driver performs no buffering and no retries. A device that is stuck or
// disconnected just yields a stable bit pattern; detecting that is left to
// the checksum of the block protocol.
package link

import (
	"log"
)

const (
	MAX_BITS = 32 // Maximum bits accumulated by a single read.
)

// Device is a serial device attached to a controller port.
type Device interface {
	// Latch drives the shared latch line to a level.
	Latch(level bool)
	// Sample performs one strobed read of the port's data register,
	// returning the data bit and clocking the device's shift register.
	Sample() bool
}

// Driver exchanges bits with the devices on the primary and secondary ports.
type Driver struct {
	Verbose bool // If set, logs every strobe pulse.

	Primary   Device // Locally attached input device.
	Secondary Device // Remote transfer peer.

	Strobes int // Strobe pulses emitted since reset.
	Samples int // Register reads performed since reset.
}

// Reset zeros the driver statistics.
func (drv *Driver) Reset() {
	drv.Strobes = 0
	drv.Samples = 0
}

// PulseStrobe drives the latch line high then low. The remote peer sees this
// as one protocol tick.
func (drv *Driver) PulseStrobe() {
	drv.latch(true)
	drv.latch(false)
	drv.Strobes++

	if drv.Verbose {
		log.Printf("link: strobe %d", drv.Strobes)
	}
}

func (drv *Driver) latch(level bool) {
	if drv.Primary != nil {
		drv.Primary.Latch(level)
	}
	if drv.Secondary != nil {
		drv.Secondary.Latch(level)
	}
}

// ReadPrimary accumulates n bits from the primary port, LSB first.
func (drv *Driver) ReadPrimary(n int) uint32 {
	return drv.read(drv.Primary, n)
}

// ReadSecondary accumulates n bits from the secondary port, LSB first.
func (drv *Driver) ReadSecondary(n int) uint32 {
	return drv.read(drv.Secondary, n)
}

func (drv *Driver) read(dev Device, n int) (value uint32) {
	n = min(n, MAX_BITS)
	for bitpos := range n {
		drv.Samples++
		if dev == nil {
			continue
		}
		if dev.Sample() {
			value |= 1 << bitpos
		}
	}

	return
}
