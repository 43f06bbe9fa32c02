package status

// Rows the loader reports on.
const (
	ROW_FRAME    = 1
	ROW_ENTRY    = 3
	ROW_INPUT    = 5
	ROW_TITLE    = 10
	ROW_SUBTITLE = 11
	ROW_CHECKSUM = 14
	ROW_CURSOR   = 15
	ROW_START    = 16
	ROW_BLOCK    = 17

	COLUMN       = 1
	COLUMN_TITLE = 5
)

// Report prints loader state to a Console.
type Report struct {
	Console Console
}

// Banner prints the title lines.
func (rp Report) Banner(title, subtitle string) {
	rp.Console.Print(COLUMN_TITLE, ROW_TITLE, title)
	rp.Console.Print(COLUMN_TITLE, ROW_SUBTITLE, subtitle)
}

// Frame prints the refresh counter.
func (rp Report) Frame(count uint16) {
	rp.Console.Print(COLUMN, ROW_FRAME, Hex16(count))
}

// Entry prints the relocated entry point.
func (rp Report) Entry(addr uint32) {
	rp.Console.Print(COLUMN, ROW_ENTRY, Pointer(addr))
}

// Input prints the primary port state.
func (rp Report) Input(data uint16) {
	rp.Console.Print(COLUMN, ROW_INPUT, Hex16(data))
}

// Transfer prints the state after one block attempt: the remote and local
// checksums, the write cursor, the block start and the block index.
func (rp Report) Transfer(remote, local uint16, cursor, start uint32, block uint16) {
	rp.Console.Print(COLUMN, ROW_CHECKSUM, Hex16(remote)+" "+Hex16(local))
	rp.Console.Print(COLUMN, ROW_CURSOR, Pointer(cursor))
	rp.Console.Print(COLUMN, ROW_START, Pointer(start))
	rp.Console.Print(COLUMN, ROW_BLOCK, Hex16(block))
}

// VBlank waits for the next refresh.
func (rp Report) VBlank() {
	rp.Console.VBlank()
}
