// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package emulator assembles the console the loader runs on: bus, work RAM,
// the resident program ROM, the cartridge, the controller ports and the
// status screen.
package emulator

import (
	"context"
	"fmt"
	"io"
	"iter"
	"log"
	"maps"

	"github.com/ezrec/sfcload/boot"
	"github.com/ezrec/sfcload/cart"
	"github.com/ezrec/sfcload/config"
	"github.com/ezrec/sfcload/internal"
	"github.com/ezrec/sfcload/link"
	"github.com/ezrec/sfcload/loader"
	"github.com/ezrec/sfcload/memory"
	"github.com/ezrec/sfcload/peer"
	"github.com/ezrec/sfcload/status"
)

const (
	WRAM_BASE  = 0x7e_0000  // Work RAM.
	WRAM_SIZE  = 128 * 1024 // Work RAM size.
	NMI_ENABLE = 0x80       // Vertical blank NMI enable bit.
	JOY_ENABLE = 0x01       // Auto joypad read enable bit.

	TITLE    = "SFC RAM LOADER"
	SUBTITLE = "PRESS B TO RECEIVE"
)

var _emulator_defines = map[string]string{
	"WRAM_BASE":  fmt.Sprintf("%#x", WRAM_BASE),
	"WRAM_SIZE":  fmt.Sprintf("%#x", WRAM_SIZE),
	"NMI_ENABLE": fmt.Sprintf("%#x", NMI_ENABLE),
}

// Emulator state. Bus + devices + loader.
type Emulator struct {
	Verbose bool // If set, enables verbose logging.

	Config config.Config

	Map  *memory.Map     // System bus.
	ROM  memory.ROM      // Resident program image.
	WRAM memory.RAM      // Work RAM, holds the relocated image.
	NMI  memory.RAM      // Interrupt enable register.
	Cart *cart.Cartridge // Cartridge being flashed.

	Pad    *peer.Pad      // Primary port.
	Sender *peer.Sender   // Secondary port, once connected.
	Link   *link.Driver   // Port driver.
	Screen *status.Screen // Console text.

	Boot   *boot.Bootstrap
	Loader *loader.Loader

	Fault peer.FaultFunc // Optional, applied to frames by Transfer.

	PC    uint32 // Entry point executing.
	Ticks int    // Main loop passes since reset.
}

// NewEmulator creates a console running rom with the given layout.
func NewEmulator(cfg config.Config, rom []byte) (emu *Emulator, err error) {
	defer func() {
		if err != nil {
			emu = nil
		}
	}()

	err = cfg.Check()
	if err != nil {
		return
	}

	emu = &Emulator{
		Config: cfg,
		Map:    &memory.Map{},
		ROM:    memory.ROM(rom),
		WRAM:   make(memory.RAM, WRAM_SIZE),
		NMI:    make(memory.RAM, 1),
		Cart:   cart.NewCartridge(),
		Pad:    &peer.Pad{},
		Screen: status.NewScreen(),
	}

	if len(rom) == 0 {
		err = boot.ErrImageEmpty
		return
	}

	// Only the bank holding the resident image is mapped.
	size := min(len(rom), memory.OFFSET_MASK+1-int(memory.Offset(cfg.SourceBase)))
	err = emu.Map.Attach("rom", cfg.SourceBase, uint32(size), emu.ROM)
	if err != nil {
		return
	}
	err = emu.Map.Attach("wram", WRAM_BASE, WRAM_SIZE, emu.WRAM)
	if err != nil {
		return
	}
	err = emu.Map.Attach("nmitimen", cfg.NMIRegister, 1, emu.NMI)
	if err != nil {
		return
	}
	err = emu.Cart.Attach(emu.Map, cfg.DestBase, cfg.LockRegister)
	if err != nil {
		return
	}

	emu.Link = &link.Driver{Primary: emu.Pad}

	emu.Boot = boot.NewBootstrap(emu.Map, &boot.Register{Bus: emu.Map, Addr: cfg.NMIRegister})
	emu.Boot.Source = cfg.SourceBase
	emu.Boot.Scratch = cfg.ScratchBase
	emu.Boot.Size = cfg.ImageSize

	emu.Loader = loader.NewLoader(emu.Link, emu.Map, emu.Screen)
	emu.Loader.Base = cfg.DestBase
	emu.Loader.Blocks = cfg.BlockCount
	emu.Loader.LockRegister = cfg.LockRegister
	emu.Loader.StartButtons = uint16(cfg.StartButtons)
	emu.Loader.UnlockRepeat = cfg.UnlockRepeat

	return
}

// Defines returns an iterator over all of the defines.
func (emu *Emulator) Defines() iter.Seq2[string, string] {
	return internal.IterSeq2Concat(maps.All(_emulator_defines),
		emu.Config.Defines(),
	)
}

// SetVerbose sets the verbosity of every component.
func (emu *Emulator) SetVerbose(verbose bool) {
	emu.Verbose = verbose
	emu.Map.Verbose = verbose
	emu.Cart.Verbose = verbose
	emu.Boot.Verbose = verbose
	emu.Loader.Verbose = verbose
	if emu.Sender != nil {
		emu.Sender.Verbose = verbose
	}
}

// Connect attaches a sender to the secondary port.
func (emu *Emulator) Connect(snd *peer.Sender) {
	emu.Sender = snd
	if snd == nil {
		emu.Link.Secondary = nil
		return
	}
	snd.Verbose = emu.Verbose
	emu.Link.Secondary = snd
}

// Reset powers the console up: the console is initialized from the ROM,
// then the bootstrap relocates the program and continues from the copy.
func (emu *Emulator) Reset() (err error) {
	// The loader relocks an abandoned transfer before the cart is reset.
	emu.Loader.Reset()
	emu.Cart.Reset()
	emu.Link.Reset()
	emu.Ticks = 0

	emu.Screen.Clear()
	report := status.Report{Console: emu.Screen}
	report.Banner(TITLE, SUBTITLE)

	// Console init leaves the vertical blank interrupt enabled.
	emu.NMI[0] = NMI_ENABLE | JOY_ENABLE
	emu.PC = emu.Config.Entry

	if emu.Verbose {
		log.Printf("emulator: reset, entry $%06X", emu.PC)
	}

	err = emu.Boot.Run(emu.Config.Entry, func(addr uint32) {
		emu.PC = addr
		report.Entry(addr)
	})

	return
}

// check verifies the main loop may run from the relocated copy.
func (emu *Emulator) check() (err error) {
	switch {
	case memory.Bank(emu.PC) != memory.Bank(emu.Config.ScratchBase):
		err = ErrNotRelocated
	case emu.NMI[0]&NMI_ENABLE != 0:
		// An enabled NMI would vector into the original image.
		err = ErrNMIEnabled
	}

	if err != nil {
		err = &ErrRuntime{Tick: emu.Ticks, PC: emu.PC, Err: err}
	}

	return
}

// Tick performs one pass of the relocated main loop.
func (emu *Emulator) Tick() (err error) {
	err = emu.check()
	if err != nil {
		return
	}

	emu.Loader.Tick()
	emu.Ticks++

	return
}

// Transfer streams image into the cartridge: the sender is connected, start
// is pressed, and the loader runs until it has completed one more transfer.
func (emu *Emulator) Transfer(ctx context.Context, image io.ReaderAt) (err error) {
	snd := peer.NewSender(image)
	snd.Blocks = emu.Config.BlockCount
	snd.Fault = emu.Fault
	emu.Connect(snd)

	emu.Pad.Script = []uint16{0, uint16(emu.Config.StartButtons)}

	err = emu.check()
	if err != nil {
		return
	}

	run, cancel := context.WithCancel(ctx)
	defer cancel()

	// Stop the loader once one more transfer is done, or the image fails.
	transfers := emu.Loader.Transfers
	progress := emu.Loader.Progress
	emu.Loader.Progress = func(pr loader.Progress) {
		if progress != nil {
			progress(pr)
		}
		if emu.Loader.Transfers != transfers || snd.Err != nil {
			cancel()
		}
	}
	defer func() { emu.Loader.Progress = progress }()

	passes := emu.Loader.Passes
	err = emu.Loader.Run(run)
	emu.Ticks += emu.Loader.Passes - passes

	switch {
	case snd.Err != nil:
		err = snd.Err
		return
	case ctx.Err() != nil:
		err = ctx.Err()
		return
	case emu.Loader.Transfers != transfers:
		err = nil
	}
	if err != nil {
		return
	}

	if emu.Verbose {
		log.Printf("emulator: transfer done after %d passes, %d frames, %d resent",
			emu.Ticks, snd.Frames, snd.Resends)
	}

	return
}
