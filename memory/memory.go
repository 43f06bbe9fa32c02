// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package memory models the console's 24-bit banked address space.
//
// An address is a bank byte followed by a 16-bit offset. Devices are attached
// to regions of the address space through a Map, and the transfer core reads
// and writes through the Bus interface only.
package memory

const (
	ADDRESS_MASK = 0xff_ffff // 24-bit address space.
	BANK_SHIFT   = 16        // Bank byte position in an address.
	OFFSET_MASK  = 0xffff    // Offset within a bank.

	BLOCK_SHIFT     = 6                               // log2 of the transfer block size.
	BLOCK_MASK      = (1 << BLOCK_SHIFT) - 1          // Offset within a block.
	BLOCKS_PER_BANK = 1 << (BANK_SHIFT - BLOCK_SHIFT) // Blocks in one bank window.
)

// Bus is a byte addressable device.
type Bus interface {
	Read(addr uint32) uint8
	Write(addr uint32, value uint8)
}

// Bank returns the bank byte of an address.
func Bank(addr uint32) uint8 {
	return uint8(addr >> BANK_SHIFT)
}

// Offset returns the offset of an address within its bank.
func Offset(addr uint32) uint16 {
	return uint16(addr & OFFSET_MASK)
}

// Address composes a bank and offset.
func Address(bank uint8, offset uint16) uint32 {
	return uint32(bank)<<BANK_SHIFT | uint32(offset)
}

// BlockAddress returns the address of transfer block index in the bank
// window starting at base. The low bits of the index select the block within
// a bank, the high bits select the bank, counted up from the bank of base.
// Only the sub-block bits of the base offset are kept.
func BlockAddress(base uint32, index int) uint32 {
	bank := Bank(base) + uint8(index/BLOCKS_PER_BANK)
	offset := Offset(base)&BLOCK_MASK | uint16(index%BLOCKS_PER_BANK)<<BLOCK_SHIFT
	return Address(bank, offset)
}
