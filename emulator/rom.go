package emulator

import (
	"github.com/ezrec/sfcload/boot"
	"github.com/ezrec/sfcload/memory"
)

const (
	ROM_SIZE = 0x8000 // One LoROM bank.

	OP_SEI = 0x78
	OP_CLC = 0x18
	OP_XCE = 0xfb
	OP_RTL = 0x6b
	OP_BRA = 0x80
	OP_NOP = 0xea

	HEADER       = 0x7fc0 // Cartridge header, from the image base.
	HEADER_TITLE = 21     // Title length.
	VECTOR_RESET = 0x7ffc // Emulation mode reset vector.

	stubSubroutine = 0x0100
)

// StubROM assembles a resident image for a loader whose main loop begins at
// entry. The main loop makes long calls into its own bank, which the
// bootstrap relocates, and one call into the fast mirror at bank $80, which
// it leaves alone. An entry outside the first page starts the image.
func StubROM(entry uint32) (rom []byte) {
	rom = make([]byte, ROM_SIZE)
	for n := range rom {
		rom[n] = OP_NOP
	}

	base := memory.Offset(boot.SOURCE_BASE)
	sub := base + stubSubroutine

	jsl := func(code []byte, bank uint8, offset uint16) []byte {
		return append(code, boot.OP_JSL, uint8(offset), uint8(offset>>8), bank)
	}

	pc := int(memory.Offset(entry)) - int(base)
	if pc < 0 || pc > stubSubroutine-0x20 {
		pc = 0
	}
	code := []byte{OP_SEI, OP_CLC, OP_XCE}
	code = jsl(code, memory.Bank(entry), sub)
	code = jsl(code, memory.Bank(entry), sub+1)
	code = jsl(code, memory.Bank(entry)|0x80, sub+2)
	code = append(code, OP_BRA, 0x100-2)
	copy(rom[pc:], code)

	copy(rom[stubSubroutine:], []byte{OP_RTL, OP_RTL, OP_RTL})

	title := rom[HEADER : HEADER+HEADER_TITLE]
	for n := range title {
		title[n] = ' '
	}
	copy(title, TITLE)

	reset := base + uint16(pc)
	rom[VECTOR_RESET] = uint8(reset)
	rom[VECTOR_RESET+1] = uint8(reset >> 8)

	return
}
