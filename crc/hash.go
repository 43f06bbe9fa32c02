package crc

import (
	"hash"
)

// Hash accumulates the block checksum as a hash.Hash.
type Hash struct {
	crc uint16
}

var _ hash.Hash = (*Hash)(nil)

// New returns a Hash seeded with INITIAL.
func New() *Hash {
	return &Hash{crc: INITIAL}
}

// Write adds data to the running checksum. It never returns an error.
func (h *Hash) Write(data []byte) (n int, err error) {
	h.crc = Update(h.crc, data)
	n = len(data)
	return
}

// Sum appends the big-endian checksum to b.
func (h *Hash) Sum(b []byte) []byte {
	return append(b, byte(h.crc>>8), byte(h.crc))
}

// Sum16 returns the checksum.
func (h *Hash) Sum16() uint16 {
	return h.crc
}

// Reset restores the seed.
func (h *Hash) Reset() {
	h.crc = INITIAL
}

// Size returns SIZE.
func (h *Hash) Size() int {
	return SIZE
}

// BlockSize is one byte; the table consumes a byte at a time.
func (h *Hash) BlockSize() int {
	return 1
}
