package memory

import (
	"io"
)

// Cursor reads and writes consecutive bus addresses.
type Cursor struct {
	Bus  Bus
	Addr uint32 // Next address accessed.
}

var (
	_ io.Reader = (*Cursor)(nil)
	_ io.Writer = (*Cursor)(nil)
)

// Store writes one byte and advances. Bus writes cannot fail.
func (cur *Cursor) Store(value byte) {
	cur.Bus.Write(cur.Addr, value)
	cur.Addr = (cur.Addr + 1) & ADDRESS_MASK
}

// Write stores p and advances past it. It never returns an error.
func (cur *Cursor) Write(p []byte) (n int, err error) {
	for _, value := range p {
		cur.Store(value)
	}
	n = len(p)
	return
}

// Read fills p from the bus and advances past it. The bus never ends.
func (cur *Cursor) Read(p []byte) (n int, err error) {
	for n = range p {
		p[n] = cur.Bus.Read(cur.Addr)
		cur.Addr = (cur.Addr + 1) & ADDRESS_MASK
	}
	n = len(p)
	return
}

// Copy reads size bytes starting at addr.
func Copy(bus Bus, addr uint32, size int) (data []byte) {
	data = make([]byte, size)
	cur := &Cursor{Bus: bus, Addr: addr}
	cur.Read(data)
	return
}
