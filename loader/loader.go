// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package loader

import (
	"context"
	"log"

	"github.com/ezrec/sfcload/cart"
	"github.com/ezrec/sfcload/crc"
	"github.com/ezrec/sfcload/memory"
	"github.com/ezrec/sfcload/status"
)

const (
	BLOCK_SIZE    = 1 << memory.BLOCK_SHIFT     // Payload bytes per block.
	BLOCK_COUNT   = cart.SRAM_SIZE / BLOCK_SIZE // Blocks in a full transfer.
	FRAME_SIZE    = BLOCK_SIZE + crc.SIZE       // Bytes on the wire per block.
	FRAME_BITS    = FRAME_SIZE * 8              // Bits on the wire per block.
	INPUT_BITS    = 16                          // Primary port state width.
	START_BUTTONS = 0x0001                      // Primary state that starts a transfer.
	UNLOCK_REPEAT = 15                          // Lock register writes that release protection.
	LOCK_VALUE    = 0x01                        // Value written to the lock register.
	INPUT_UNSEEN  = 0xffff                      // Primary state assumed before the first poll.
)

//go:generate go tool stringer -type=Mode
type Mode int

const (
	MODE_IDLE     = Mode(0) // Waiting for a start command.
	MODE_TRANSFER = Mode(1) // Receiving blocks.
)

// Session is the state of a transfer. It does not survive a reset.
type Session struct {
	Mode  Mode
	Block int // Next block to receive.
}

// Link is the bit-serial link to the primary and secondary ports.
type Link interface {
	PulseStrobe()
	ReadPrimary(n int) uint32
	ReadSecondary(n int) uint32
}

// Progress is reported after every block attempt.
type Progress struct {
	Session  Session
	Blocks   int
	Accepted bool   // The attempt matched its checksum.
	Remote   uint16 // Checksum received from the peer.
	Local    uint16 // Checksum of the data read back from the destination.
	Retries  int    // Retries requested since the transfer started.
}

// ProgressCallback is called after every block attempt. It runs on the
// loader's thread of control, so it should return quickly.
type ProgressCallback func(Progress)

// Loader is the block transfer state machine.
type Loader struct {
	Verbose bool

	Link    Link
	Bus     memory.Bus
	Console status.Console // Optional status sink.

	Progress ProgressCallback // Optional.

	Base         uint32 // Destination of block 0.
	LockRegister uint32 // Write protect register.
	Blocks       int    // Blocks in a transfer.
	StartButtons uint16 // Primary state that starts a transfer.
	UnlockRepeat int    // Lock register writes to release protection.

	Session Session

	Remote uint16 // Last checksum received.
	Local  uint16 // Last checksum computed.
	Cursor uint32 // Write cursor after the last attempt.
	Start  uint32 // Start of the last block attempted.
	Input  uint16 // Last primary port state.

	Accepted  int // Blocks accepted since reset.
	Retries   int // Retries requested since the transfer started.
	Transfers int // Transfers completed since reset.
	Passes    int // Main loop passes since reset.

	frame     uint16
	lastInput uint32
}

// NewLoader returns a loader for the full SRAM window of the cartridge.
func NewLoader(lnk Link, bus memory.Bus, console status.Console) (ld *Loader) {
	ld = &Loader{
		Link:         lnk,
		Bus:          bus,
		Console:      console,
		Base:         cart.SRAM_BASE,
		LockRegister: cart.LOCK_REGISTER,
		Blocks:       BLOCK_COUNT,
		StartButtons: START_BUTTONS,
		UnlockRepeat: UNLOCK_REPEAT,
	}

	ld.Reset()

	return
}

// Reset abandons any transfer in progress, protecting the destination again
// if a transfer had released it.
func (ld *Loader) Reset() {
	if ld.Session.Mode == MODE_TRANSFER {
		ld.Bus.Write(ld.LockRegister, LOCK_VALUE)

		if ld.Verbose {
			log.Printf("loader: transfer abandoned at block %d", ld.Session.Block)
		}
	}

	ld.Session = Session{Mode: MODE_IDLE}
	ld.Remote = 0
	ld.Local = 0
	ld.Cursor = 0
	ld.Start = 0
	ld.Input = 0
	ld.Accepted = 0
	ld.Retries = 0
	ld.Transfers = 0
	ld.Passes = 0
	ld.frame = 0
	ld.lastInput = INPUT_UNSEEN
}

// Run ticks the loader until ctx is done.
func (ld *Loader) Run(ctx context.Context) (err error) {
	for {
		err = ctx.Err()
		if err != nil {
			return
		}
		ld.Tick()
	}
}

// Tick runs one pass of the main loop: one block attempt when a transfer is
// active, then one poll of the primary port.
func (ld *Loader) Tick() {
	ld.print(func(rp status.Report) { rp.Frame(ld.frame) })

	if ld.Session.Mode == MODE_TRANSFER {
		ld.receiveBlock()

		ld.print(func(rp status.Report) {
			rp.Transfer(ld.Remote, ld.Local, ld.Cursor, ld.Start, uint16(ld.Session.Block))
		})
		ld.vblank()
	}

	ld.poll()

	ld.vblank()
	ld.Passes++
}

// receiveBlock performs one attempt at the current block.
func (ld *Loader) receiveBlock() {
	// Continue: the peer (re)sends the current block.
	ld.Link.PulseStrobe()

	ld.Start = memory.BlockAddress(ld.Base, ld.Session.Block)
	cur := &memory.Cursor{Bus: ld.Bus, Addr: ld.Start}
	for range BLOCK_SIZE {
		cur.Store(uint8(ld.Link.ReadSecondary(8)))
	}
	ld.Cursor = cur.Addr

	ld.Remote = uint16(ld.Link.ReadSecondary(crc.SIZE * 8))
	ld.Local = crc.Checksum(memory.Copy(ld.Bus, ld.Start, BLOCK_SIZE))

	accepted := ld.Remote == ld.Local
	if !accepted {
		// Retry: a second strobe in this window.
		ld.Link.PulseStrobe()
		ld.Retries++

		if ld.Verbose {
			log.Printf("loader: block %d at $%06X checksum %04X, expected %04X, retry",
				ld.Session.Block, ld.Start, ld.Local, ld.Remote)
		}
	} else {
		ld.Accepted++
		ld.Session.Block++
		if ld.Session.Block == ld.Blocks {
			ld.complete()
		}
	}

	if ld.Progress != nil {
		ld.Progress(Progress{
			Session:  ld.Session,
			Blocks:   ld.Blocks,
			Accepted: accepted,
			Remote:   ld.Remote,
			Local:    ld.Local,
			Retries:  ld.Retries,
		})
	}
}

// complete protects the destination again and returns to idle.
func (ld *Loader) complete() {
	ld.Bus.Write(ld.LockRegister, LOCK_VALUE)
	ld.Session = Session{Mode: MODE_IDLE}
	ld.Transfers++

	if ld.Verbose {
		log.Printf("loader: transfer %d complete, %d retries", ld.Transfers, ld.Retries)
	}
}

// poll reads the primary port and starts a transfer on the start command.
func (ld *Loader) poll() {
	ld.Link.PulseStrobe()
	data := ld.Link.ReadPrimary(INPUT_BITS)

	if data == ld.lastInput {
		return
	}

	ld.lastInput = data
	ld.Input = uint16(data)
	ld.print(func(rp status.Report) { rp.Input(ld.Input) })

	if ld.Input == ld.StartButtons && ld.Session.Mode == MODE_IDLE {
		ld.begin()
	}
}

// begin releases the write protection and enters MODE_TRANSFER.
func (ld *Loader) begin() {
	for range ld.UnlockRepeat {
		ld.Bus.Write(ld.LockRegister, LOCK_VALUE)
	}

	ld.Session = Session{Mode: MODE_TRANSFER}
	ld.Retries = 0

	if ld.Verbose {
		log.Printf("loader: transfer to $%06X, %d blocks", ld.Base, ld.Blocks)
	}
}

func (ld *Loader) print(fn func(rp status.Report)) {
	if ld.Console != nil {
		fn(status.Report{Console: ld.Console})
	}
}

func (ld *Loader) vblank() {
	ld.frame++
	if ld.Console != nil {
		ld.Console.VBlank()
	}
}
