package link

// Sender accepts bits.
type Sender interface {
	Send(value bool) error
}

// SendAsUint8 sends an 8-bit unsigned integer as 8 bits, LSB first.
func SendAsUint8(ch Sender, value uint8) (err error) {
	for n := range 8 {
		err = ch.Send(((value >> n) & 1) == 1)
		if err != nil {
			return
		}
	}
	return
}

// SendAsUint16 sends a 16-bit unsigned integer as 16 bits, LSB first.
func SendAsUint16(ch Sender, value uint16) (err error) {
	for n := range 16 {
		err = ch.Send(((value >> n) & 1) == 1)
		if err != nil {
			return
		}
	}
	return
}
