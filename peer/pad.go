package peer

import (
	"github.com/ezrec/sfcload/link"
)

// Joypad buttons, in the order they are shifted out.
const (
	BUTTON_B      = 1 << 0
	BUTTON_Y      = 1 << 1
	BUTTON_SELECT = 1 << 2
	BUTTON_START  = 1 << 3
	BUTTON_UP     = 1 << 4
	BUTTON_DOWN   = 1 << 5
	BUTTON_LEFT   = 1 << 6
	BUTTON_RIGHT  = 1 << 7
	BUTTON_A      = 1 << 8
	BUTTON_X      = 1 << 9
	BUTTON_L      = 1 << 10
	BUTTON_R      = 1 << 11
)

// Buttons names every joypad button.
var Buttons = map[string]uint16{
	"BUTTON_B":      BUTTON_B,
	"BUTTON_Y":      BUTTON_Y,
	"BUTTON_SELECT": BUTTON_SELECT,
	"BUTTON_START":  BUTTON_START,
	"BUTTON_UP":     BUTTON_UP,
	"BUTTON_DOWN":   BUTTON_DOWN,
	"BUTTON_LEFT":   BUTTON_LEFT,
	"BUTTON_RIGHT":  BUTTON_RIGHT,
	"BUTTON_A":      BUTTON_A,
	"BUTTON_X":      BUTTON_X,
	"BUTTON_L":      BUTTON_L,
	"BUTTON_R":      BUTTON_R,
}

// Pad is a joypad on the primary port. The button state is captured while
// the latch is high and shifted out LSB first; once the 16 button bits are
// exhausted it reads 1.
type Pad struct {
	Buttons uint16   // Buttons currently held.
	Script  []uint16 // Button states applied one per latch pulse, if any.

	Latches int // Latch pulses seen.

	shift uint32
	level bool
}

var _ link.Device = (*Pad)(nil)

// Latch captures the button state.
func (pad *Pad) Latch(level bool) {
	if level {
		if !pad.level && len(pad.Script) > 0 {
			pad.Buttons = pad.Script[0]
			pad.Script = pad.Script[1:]
		}
		pad.shift = 0xffff_0000 | uint32(pad.Buttons)
	} else if pad.level {
		pad.Latches++
	}
	pad.level = level
}

// Sample shifts out the next button.
func (pad *Pad) Sample() (bit bool) {
	bit = pad.shift&1 != 0
	pad.shift = pad.shift>>1 | 0x8000_0000
	return
}
