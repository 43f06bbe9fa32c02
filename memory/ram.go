package memory

// RAM is read/write storage. Addresses wrap at its length.
type RAM []byte

var _ Bus = RAM(nil)

// Read a byte.
func (ram RAM) Read(addr uint32) uint8 {
	if len(ram) == 0 {
		return 0
	}
	return ram[int(addr)%len(ram)]
}

// Write a byte.
func (ram RAM) Write(addr uint32, value uint8) {
	if len(ram) == 0 {
		return
	}
	ram[int(addr)%len(ram)] = value
}

// ROM is read-only storage. Writes are ignored.
type ROM []byte

var _ Bus = ROM(nil)

// Read a byte.
func (rom ROM) Read(addr uint32) uint8 {
	return RAM(rom).Read(addr)
}

// Write is ignored.
func (rom ROM) Write(addr uint32, value uint8) {
}
