package link

// Bits is a bit FIFO. Peers use it to serialize frames before clocking them
// out of a port.
type Bits struct {
	Capacity int // Capacity in bits. Zero is unbounded.

	data []bool
	head int
}

// Rewind discards all buffered bits.
func (bits *Bits) Rewind() {
	bits.data = bits.data[:0]
	bits.head = 0
}

// Len returns the number of unread bits.
func (bits *Bits) Len() int {
	return len(bits.data) - bits.head
}

// Send appends a bit. Returns ErrLinkFull if Capacity bits are pending.
func (bits *Bits) Send(value bool) (err error) {
	if bits.Capacity > 0 && bits.Len() >= bits.Capacity {
		err = ErrLinkFull
		return
	}

	if bits.head > 0 && bits.head == len(bits.data) {
		bits.Rewind()
	}

	bits.data = append(bits.data, value)

	return
}

// Next pops the next bit. ok is false when the buffer is empty.
func (bits *Bits) Next() (value bool, ok bool) {
	if bits.head >= len(bits.data) {
		return
	}

	value = bits.data[bits.head]
	bits.head++
	ok = true

	return
}
