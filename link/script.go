package link

// Script is a Device that replays a scripted bit sequence and records the
// latch activity it observes. Once the script runs out it samples false.
type Script struct {
	Bits Bits

	Pulses int // Completed latch pulses (high then low).
	Reads  int // Samples taken.

	level bool
}

var _ Device = (*Script)(nil)

// Latch records a pulse on every high to low transition.
func (sc *Script) Latch(level bool) {
	if sc.level && !level {
		sc.Pulses++
	}
	sc.level = level
}

// Sample pops the next scripted bit.
func (sc *Script) Sample() bool {
	sc.Reads++
	bit, _ := sc.Bits.Next()
	return bit
}

// Queue8 appends bytes to the script, LSB first.
func (sc *Script) Queue8(values ...uint8) {
	for _, value := range values {
		SendAsUint8(&sc.Bits, value)
	}
}

// Queue16 appends 16-bit words to the script, LSB first.
func (sc *Script) Queue16(values ...uint16) {
	for _, value := range values {
		SendAsUint16(&sc.Bits, value)
	}
}
