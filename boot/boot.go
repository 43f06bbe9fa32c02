// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package boot moves the resident program out of the memory it is about to
// disturb and restarts it from a scratch copy.
//
// Relocation is a pure transformation over the program image: every long
// call (JSL) whose target bank is the bank of the original image is retargeted
// at the bank of the scratch copy. Since only the bank byte is rewritten, the
// copy must sit at the same offset within its bank as the original.
package boot

import (
	"log"

	"github.com/ezrec/sfcload/memory"
)

const (
	OP_JSL   = 0x22 // JSL long call opcode.
	JSL_SIZE = 4    // Opcode, offset low, offset high, bank.
	JSL_BANK = 3    // Position of the target bank within a JSL.

	SOURCE_BASE  = 0x00_8000 // Resident program image.
	SCRATCH_BASE = 0x7f_8000 // Work RAM the image is relocated into.
	IMAGE_SIZE   = 0x7fff    // Bytes copied.

	NMITIMEN = 0x4200 // Interrupt enable register.
)

// Relocate returns a copy of image with the bank byte of every JSL into
// sourceBank replaced by scratchBank. Windows are examined at every byte
// offset in ascending order, against the copy as it is being patched.
func Relocate(image []byte, sourceBank uint8, scratchBank uint8) (relocated []byte) {
	relocated = make([]byte, len(image))
	copy(relocated, image)

	for n := 0; n+JSL_SIZE <= len(relocated); n++ {
		if relocated[n] == OP_JSL && relocated[n+JSL_BANK] == sourceBank {
			relocated[n+JSL_BANK] = scratchBank
		}
	}

	return
}

// CallSites returns the offsets of every JSL into bank.
func CallSites(image []byte, bank uint8) (sites []int) {
	for n := 0; n+JSL_SIZE <= len(image); n++ {
		if image[n] == OP_JSL && image[n+JSL_BANK] == bank {
			sites = append(sites, n)
		}
	}
	return
}

// EntryPoint returns where entry lands once the image is relocated to scratch.
func EntryPoint(scratch uint32, entry uint32) uint32 {
	return memory.Address(memory.Bank(scratch), memory.Offset(entry))
}

// Interrupts gates the interrupt that would resume the original image.
type Interrupts interface {
	DisableNMI()
}

// Register is an interrupt enable register on the bus.
type Register struct {
	Bus  memory.Bus
	Addr uint32
}

var _ Interrupts = (*Register)(nil)

// DisableNMI clears the whole interrupt enable register.
func (reg *Register) DisableNMI() {
	reg.Bus.Write(reg.Addr, 0x00)
}

// Bootstrap copies the resident image into scratch memory and transfers
// control into the copy.
type Bootstrap struct {
	Verbose bool

	Bus        memory.Bus
	Interrupts Interrupts

	Source  uint32 // Base of the resident image.
	Scratch uint32 // Base of the scratch copy.
	Size    int    // Bytes to copy.

	Image []byte // Relocated image, once Run has copied it.
	Sites []int  // Patched call sites.
}

// NewBootstrap returns a bootstrap with the default memory layout.
func NewBootstrap(bus memory.Bus, irq Interrupts) (bs *Bootstrap) {
	bs = &Bootstrap{
		Bus:        bus,
		Interrupts: irq,
		Source:     SOURCE_BASE,
		Scratch:    SCRATCH_BASE,
		Size:       IMAGE_SIZE,
	}
	return
}

// Check validates the layout of the source and scratch regions.
func (bs *Bootstrap) Check() (err error) {
	switch {
	case bs.Size <= 0:
		err = ErrImageEmpty
	case memory.Bank(bs.Source) == memory.Bank(bs.Scratch):
		err = ErrScratchOverlap
	case memory.Offset(bs.Source) != memory.Offset(bs.Scratch):
		err = ErrScratchOffset
	case int(memory.Offset(bs.Scratch))+bs.Size > memory.OFFSET_MASK+1:
		err = ErrScratchSize
	}

	if err != nil {
		err = &ErrBootstrap{Source: bs.Source, Scratch: bs.Scratch, Size: bs.Size, Err: err}
	}

	return
}

// Run relocates the image, disables the interrupt and calls jump with the
// relocated entry point. On hardware jump never returns; Run returns when it
// does.
func (bs *Bootstrap) Run(entry uint32, jump func(addr uint32)) (err error) {
	err = bs.Check()
	if err != nil {
		return
	}

	image := memory.Copy(bs.Bus, bs.Source, bs.Size)
	bs.Sites = CallSites(image, memory.Bank(bs.Source))
	bs.Image = Relocate(image, memory.Bank(bs.Source), memory.Bank(bs.Scratch))

	cur := &memory.Cursor{Bus: bs.Bus, Addr: bs.Scratch}
	cur.Write(bs.Image)

	for n, value := range memory.Copy(bs.Bus, bs.Scratch, bs.Size) {
		if value != bs.Image[n] {
			err = &ErrBootstrap{Source: bs.Source, Scratch: bs.Scratch, Size: bs.Size,
				Err: ErrScratchVerify{Addr: bs.Scratch + uint32(n)}}
			return
		}
	}

	if bs.Verbose {
		log.Printf("boot: copied $%06X-$%06X to $%06X, %d call sites patched",
			bs.Source, bs.Source+uint32(bs.Size)-1, bs.Scratch, len(bs.Sites))
	}

	bs.Interrupts.DisableNMI()

	target := EntryPoint(bs.Scratch, entry)
	if bs.Verbose {
		log.Printf("boot: jump $%06X", target)
	}

	jump(target)

	return
}
