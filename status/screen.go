package status

import (
	"strings"
)

const (
	COLUMNS = 32 // Text columns.
	ROWS    = 28 // Text rows.
)

// Console is the sink status text is printed to.
type Console interface {
	// Print places text at a character cell.
	Print(x, y int, text string)
	// VBlank waits for the next display refresh.
	VBlank()
}

// Screen is a character grid Console.
type Screen struct {
	Frames int  // Display refreshes waited for.
	Dirty  bool // Set by Print, cleared by VBlank.

	cell [ROWS][COLUMNS]byte
}

var _ Console = (*Screen)(nil)

// NewScreen returns a blank screen.
func NewScreen() (scr *Screen) {
	scr = &Screen{}
	scr.Clear()
	return
}

// Clear blanks every cell.
func (scr *Screen) Clear() {
	for y := range scr.cell {
		for x := range scr.cell[y] {
			scr.cell[y][x] = ' '
		}
	}
	scr.Dirty = true
}

// Print places text at column x, row y. Text past the right edge is clipped.
func (scr *Screen) Print(x, y int, text string) {
	if y < 0 || y >= ROWS {
		return
	}
	for n := range len(text) {
		if x+n < 0 || x+n >= COLUMNS {
			continue
		}
		scr.cell[y][x+n] = text[n]
	}
	scr.Dirty = true
}

// VBlank counts a refresh.
func (scr *Screen) VBlank() {
	scr.Frames++
	scr.Dirty = false
}

// Line returns row y with trailing blanks removed.
func (scr *Screen) Line(y int) string {
	if y < 0 || y >= ROWS {
		return ""
	}
	return strings.TrimRight(string(scr.cell[y][:]), " ")
}

// String renders all rows.
func (scr *Screen) String() string {
	var sb strings.Builder
	for y := range ROWS {
		sb.WriteString(scr.Line(y))
		sb.WriteByte('\n')
	}
	return sb.String()
}
