package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMap_Attach(t *testing.T) {
	assert := assert.New(t)

	mm := &Map{}
	assert.NoError(mm.Attach("wram", 0x7e_0000, 0x2_0000, make(RAM, 0x2_0000)))
	assert.NoError(mm.Attach("rom", 0x00_8000, 0x8000, make(ROM, 0x8000)))

	err := mm.Attach("bad", 0x7f_ff00, 0x200, make(RAM, 0x200))
	assert.Equal(ErrRegionOverlap{Name: "bad", Existing: "wram"}, err)

	assert.Equal(ErrRegionEmpty, mm.Attach("empty", 0x10_0000, 0, nil))
	assert.Equal(ErrRegionRange, mm.Attach("huge", 0xff_ff00, 0x200, nil))
	assert.Len(mm.Regions, 2)
}

func TestMap_ReadWrite(t *testing.T) {
	assert := assert.New(t)

	wram := make(RAM, 0x2_0000)
	rom := ROM{0x11, 0x22, 0x33, 0x44}

	mm := &Map{}
	mm.Attach("wram", 0x7e_0000, 0x2_0000, wram)
	mm.Attach("rom", 0x00_8000, 4, rom)

	mm.Write(0x7f_8000, 0xa5)
	assert.Equal(uint8(0xa5), wram[0x1_8000])
	assert.Equal(uint8(0xa5), mm.Read(0x7f_8000))

	assert.Equal(uint8(0x33), mm.Read(0x00_8002))
	mm.Write(0x00_8002, 0x00)
	assert.Equal(uint8(0x33), mm.Read(0x00_8002), "rom is read only")

	// Open bus returns the last value on the data bus.
	assert.Equal(uint8(0x33), mm.Read(0x40_0000))

	_, err := mm.Lookup(0x40_0000)
	assert.Equal(ErrUnmapped(0x40_0000), err)
}

func TestCursor(t *testing.T) {
	assert := assert.New(t)

	ram := make(RAM, 0x100)
	mm := &Map{}
	mm.Attach("ram", 0xc0_0000, 0x100, ram)

	cur := &Cursor{Bus: mm, Addr: 0xc0_0010}
	n, err := cur.Write([]byte{1, 2, 3})
	assert.NoError(err)
	assert.Equal(3, n)
	assert.Equal(uint32(0xc0_0013), cur.Addr)
	assert.Equal([]byte{1, 2, 3}, []byte(ram[0x10:0x13]))

	assert.Equal([]byte{0, 1, 2, 3}, Copy(mm, 0xc0_000f, 4))
}

func TestCursor_Wrap(t *testing.T) {
	assert := assert.New(t)

	ram := make(RAM, 16)
	cur := &Cursor{Bus: ram, Addr: ADDRESS_MASK}
	cur.Store(0x5a)
	assert.Equal(uint32(0), cur.Addr)
	assert.Equal(uint8(0x5a), ram[15])
}
