package cart

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/sfcload/memory"
)

func attached(t *testing.T) (cart *Cartridge, mm *memory.Map) {
	cart = NewCartridge()
	mm = &memory.Map{}
	err := cart.Attach(mm, SRAM_BASE, LOCK_REGISTER)
	assert.NoError(t, err)
	return
}

func TestCartridge_Protected(t *testing.T) {
	assert := assert.New(t)

	cart, mm := attached(t)
	assert.False(cart.WriteEnabled())

	mm.Write(SRAM_BASE, 0x42)
	assert.Equal(uint8(0), mm.Read(SRAM_BASE))
	assert.Equal(1, cart.Rejected)
	assert.Equal(0, cart.Writes)
}

func TestCartridge_Unlock(t *testing.T) {
	assert := assert.New(t)

	cart, mm := attached(t)

	for range 15 {
		mm.Write(LOCK_REGISTER, 1)
	}
	assert.True(cart.WriteEnabled())
	assert.Equal(uint8(1), mm.Read(LOCK_REGISTER))

	mm.Write(SRAM_BASE+SRAM_SIZE-1, 0x5a)
	assert.Equal(uint8(0x5a), cart.SRAM[SRAM_SIZE-1])
	assert.Equal(1, cart.Writes)

	mm.Write(LOCK_REGISTER, 1)
	assert.False(cart.WriteEnabled())

	mm.Write(LOCK_REGISTER, 0)
	assert.False(cart.WriteEnabled(), "zero writes are ignored")
	assert.Equal(16, cart.Toggles)
}

func TestCartridge_Reset(t *testing.T) {
	assert := assert.New(t)

	cart, mm := attached(t)
	mm.Write(LOCK_REGISTER, 1)
	mm.Write(SRAM_BASE, 0x77)

	cart.Reset()
	assert.False(cart.WriteEnabled())
	assert.Equal(0, cart.Writes)
	assert.Equal(uint8(0x77), cart.SRAM[0])
}

func TestCartridge_LoadDump(t *testing.T) {
	assert := assert.New(t)

	cart := NewCartridge()
	assert.NoError(cart.Load(bytes.NewReader([]byte{1, 2, 3})))
	assert.Equal([]byte{1, 2, 3, 0}, []byte(cart.SRAM[:4]))

	out := &bytes.Buffer{}
	assert.NoError(cart.Dump(out))
	assert.Equal(SRAM_SIZE, out.Len())
}
