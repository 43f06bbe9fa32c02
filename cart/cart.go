// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package cart models the RAM cassette being flashed: a battery backed SRAM
// bank behind a write protect flip-flop.
//
// Each write of a non-zero value to the lock register toggles the
// flip-flop. The cassette powers up protected, which is why the loader
// issues an odd number of unlock writes and a single relock write.
package cart

import (
	"io"
	"log"

	"github.com/ezrec/sfcload/memory"
)

const (
	SRAM_BASE     = 0xc0_0000  // First SRAM address.
	SRAM_SIZE     = 512 * 1024 // SRAM size in bytes.
	LOCK_REGISTER = 0x20_6000  // Write protect register.
)

// Cartridge is the SRAM bank and its write protect register.
type Cartridge struct {
	Verbose bool

	SRAM memory.RAM

	Writes   int // SRAM writes accepted.
	Rejected int // SRAM writes dropped while protected.
	Toggles  int // Lock register toggles.

	unlocked bool
}

// NewCartridge returns a protected cartridge with erased SRAM.
func NewCartridge() (cart *Cartridge) {
	cart = &Cartridge{
		SRAM: make(memory.RAM, SRAM_SIZE),
	}

	return
}

// Attach decodes the SRAM and the lock register on the bus map.
func (cart *Cartridge) Attach(mm *memory.Map, sramBase uint32, lockRegister uint32) (err error) {
	err = mm.Attach("sram", sramBase, uint32(len(cart.SRAM)), (*sramPort)(cart))
	if err != nil {
		return
	}

	err = mm.Attach("lock", lockRegister, 1, (*lockPort)(cart))
	return
}

// WriteEnabled reports whether the SRAM currently accepts writes.
func (cart *Cartridge) WriteEnabled() bool {
	return cart.unlocked
}

// Reset protects the SRAM and clears the statistics. SRAM contents survive.
func (cart *Cartridge) Reset() {
	cart.unlocked = false
	cart.Writes = 0
	cart.Rejected = 0
	cart.Toggles = 0
}

// Load fills SRAM from r, as a battery would have preserved it.
func (cart *Cartridge) Load(r io.Reader) (err error) {
	_, err = io.ReadFull(r, cart.SRAM)
	if err == io.ErrUnexpectedEOF || err == io.EOF {
		err = nil
	}
	return
}

// Dump writes the SRAM contents to w.
func (cart *Cartridge) Dump(w io.Writer) (err error) {
	_, err = w.Write(cart.SRAM)
	return
}

func (cart *Cartridge) toggle() {
	cart.unlocked = !cart.unlocked
	cart.Toggles++

	if cart.Verbose {
		state := "protected"
		if cart.unlocked {
			state = "writable"
		}
		log.Printf("cart: lock toggle %d, sram %v", cart.Toggles, state)
	}
}

// sramPort is the bus view of the SRAM.
type sramPort Cartridge

func (port *sramPort) Read(addr uint32) uint8 {
	return port.SRAM.Read(addr)
}

func (port *sramPort) Write(addr uint32, value uint8) {
	if !port.unlocked {
		port.Rejected++
		return
	}
	port.SRAM.Write(addr, value)
	port.Writes++
}

// lockPort is the bus view of the lock register.
type lockPort Cartridge

func (port *lockPort) Read(addr uint32) uint8 {
	if port.unlocked {
		return 1
	}
	return 0
}

func (port *lockPort) Write(addr uint32, value uint8) {
	if value != 0 {
		(*Cartridge)(port).toggle()
	}
}
