package crc

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

// bitwise computes the same checksum without the table.
func bitwise(seed uint16, data []byte) uint16 {
	crc := seed
	for _, b := range data {
		crc ^= uint16(b)
		for range 8 {
			if crc&1 != 0 {
				crc = (crc >> 1) ^ POLYNOMIAL
			} else {
				crc >>= 1
			}
		}
	}
	return crc
}

func TestTable(t *testing.T) {
	assert := assert.New(t)

	for n := range 256 {
		assert.Equal(bitwise(0, []byte{byte(n)}), TABLE[n], "entry %d", n)
	}

	assert.Equal(uint16(0x0000), TABLE[0x00])
	assert.Equal(uint16(0xc0c1), TABLE[0x01])
	assert.Equal(uint16(0x4040), TABLE[0xff])
}

func TestChecksum(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		expected uint16
	}{
		{"empty", nil, 0xc0de},
		{"single zero", []byte{0x00}, 0x5840},
		{"zero block", make([]byte, 64), 0xc876},
		{"ones block", bytes.Repeat([]byte{0xff}, 64), 0x5837},
		{"check string", []byte("123456789"), 0x4ee0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert := assert.New(t)
			assert.Equal(tt.expected, Checksum(tt.data))
			assert.Equal(bitwise(INITIAL, tt.data), Checksum(tt.data))
		})
	}
}

func TestChecksum_ArcSeed(t *testing.T) {
	assert := assert.New(t)

	// With a zero seed this is plain CRC-16/ARC.
	assert.Equal(uint16(0xbb3d), Update(0, []byte("123456789")))
}

func TestChecksum_Random(t *testing.T) {
	assert := assert.New(t)

	rng := rand.New(rand.NewSource(0xc0de))
	for range 100 {
		data := make([]byte, rng.Intn(300))
		rng.Read(data)
		assert.Equal(bitwise(INITIAL, data), Checksum(data))
	}
}

func TestUpdate_Split(t *testing.T) {
	assert := assert.New(t)

	data := []byte("the quick brown fox jumps over the lazy dog")
	for n := range len(data) {
		assert.Equal(Checksum(data), Update(Checksum(data[:n]), data[n:]))
	}
}

func TestHash(t *testing.T) {
	assert := assert.New(t)

	h := New()
	assert.Equal(uint16(INITIAL), h.Sum16())
	assert.Equal(SIZE, h.Size())
	assert.Equal(1, h.BlockSize())

	n, err := h.Write(make([]byte, 32))
	assert.NoError(err)
	assert.Equal(32, n)
	h.Write(make([]byte, 32))

	assert.Equal(uint16(0xc876), h.Sum16())
	assert.Equal([]byte{0xaa, 0xc8, 0x76}, h.Sum([]byte{0xaa}))

	h.Reset()
	assert.Equal(uint16(INITIAL), h.Sum16())
}
