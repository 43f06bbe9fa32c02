package link

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type failSender struct {
	calls int
}

func (fs *failSender) Send(value bool) error {
	fs.calls++
	return ErrLinkFull
}

func TestSendAsUint8(t *testing.T) {
	tests := []struct {
		name     string
		value    uint8
		expected []bool
	}{
		{"zero", 0x00, []bool{false, false, false, false, false, false, false, false}},
		{"all bits set", 0xff, []bool{true, true, true, true, true, true, true, true}},
		{"0x55", 0x55, []bool{true, false, true, false, true, false, true, false}},
		{"0x80", 0x80, []bool{false, false, false, false, false, false, false, true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert := assert.New(t)

			bits := &Bits{}
			assert.NoError(SendAsUint8(bits, tt.value))

			var got []bool
			for bit, ok := bits.Next(); ok; bit, ok = bits.Next() {
				got = append(got, bit)
			}
			assert.Equal(tt.expected, got)
		})
	}
}

func TestSendAsUint16(t *testing.T) {
	assert := assert.New(t)

	bits := &Bits{}
	assert.NoError(SendAsUint16(bits, 0x8001))
	assert.Equal(16, bits.Len())

	var value uint16
	for n := range 16 {
		bit, _ := bits.Next()
		if bit {
			value |= 1 << n
		}
	}
	assert.Equal(uint16(0x8001), value)
}

func TestSendAsUint_Error(t *testing.T) {
	assert := assert.New(t)

	fs := &failSender{}
	assert.Equal(ErrLinkFull, SendAsUint8(fs, 0x42))
	assert.Equal(1, fs.calls)

	fs = &failSender{}
	assert.Equal(ErrLinkFull, SendAsUint16(fs, 0x4242))
	assert.Equal(1, fs.calls)
}
