// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package config describes the memory map and protocol constants of a
// loader build.
//
// A configuration file is a Starlark script. Every upper case global it
// binds must name a known setting; lower case globals are free for helpers.
// The defaults are predeclared as DEFAULT_<NAME>, along with KiB, BLOCK_SIZE,
// the joypad BUTTON_<NAME> masks and address(bank, offset), so settings may
// be written as expressions:
//
//	SCRATCH_BASE = address(0x7f, 0x8000)
//	BLOCK_COUNT = 256 * KiB // BLOCK_SIZE
//	START_BUTTONS = BUTTON_B | BUTTON_START
package config

import (
	"fmt"
	"io"
	"iter"
	"maps"
	"math"
	"slices"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/ezrec/sfcload/boot"
	"github.com/ezrec/sfcload/cart"
	"github.com/ezrec/sfcload/internal"
	"github.com/ezrec/sfcload/loader"
	"github.com/ezrec/sfcload/memory"
	"github.com/ezrec/sfcload/peer"
)

// Config is a loader build.
type Config struct {
	SourceBase   uint32 // Resident program image.
	ScratchBase  uint32 // Relocation target.
	ImageSize    int    // Bytes relocated.
	Entry        uint32 // Main loop entry point in the resident image.
	NMIRegister  uint32 // Interrupt enable register.
	DestBase     uint32 // Destination of block 0.
	BlockCount   int    // Blocks in a transfer.
	LockRegister uint32 // Write protect register.
	StartButtons int    // Primary port state that starts a transfer.
	UnlockRepeat int    // Lock register writes that release protection.
}

// Default returns the layout of the stock cartridge.
func Default() Config {
	return Config{
		SourceBase:   boot.SOURCE_BASE,
		ScratchBase:  boot.SCRATCH_BASE,
		ImageSize:    boot.IMAGE_SIZE,
		Entry:        boot.SOURCE_BASE,
		NMIRegister:  boot.NMITIMEN,
		DestBase:     cart.SRAM_BASE,
		BlockCount:   loader.BLOCK_COUNT,
		LockRegister: cart.LOCK_REGISTER,
		StartButtons: loader.START_BUTTONS,
		UnlockRepeat: loader.UNLOCK_REPEAT,
	}
}

// Check validates the destination window: every transfer block must land in
// the SRAM mapped linearly at DestBase.
func (cfg *Config) Check() (err error) {
	if cfg.BlockCount < 1 {
		err = ErrSettingRange{Name: "BLOCK_COUNT", Max: loader.BLOCK_COUNT}
		return
	}

	if memory.Offset(cfg.DestBase)&^memory.BLOCK_MASK != 0 {
		err = ErrDestAlign
		return
	}

	end := uint64(cfg.DestBase) + cart.SRAM_SIZE
	last := uint64(memory.BlockAddress(cfg.DestBase, cfg.BlockCount-1)) + loader.BLOCK_SIZE
	if end > memory.ADDRESS_MASK+1 || last <= uint64(cfg.DestBase) || last > end {
		err = ErrDestRange
		return
	}

	return
}

// setting binds a configuration name to a field and its valid range.
type setting struct {
	max   int64
	field func(cfg *Config) any
}

var settings = map[string]setting{
	"SOURCE_BASE":   {memory.ADDRESS_MASK, func(cfg *Config) any { return &cfg.SourceBase }},
	"SCRATCH_BASE":  {memory.ADDRESS_MASK, func(cfg *Config) any { return &cfg.ScratchBase }},
	"IMAGE_SIZE":    {memory.OFFSET_MASK + 1, func(cfg *Config) any { return &cfg.ImageSize }},
	"ENTRY":         {memory.ADDRESS_MASK, func(cfg *Config) any { return &cfg.Entry }},
	"NMI_REGISTER":  {memory.ADDRESS_MASK, func(cfg *Config) any { return &cfg.NMIRegister }},
	"DEST_BASE":     {memory.ADDRESS_MASK, func(cfg *Config) any { return &cfg.DestBase }},
	"BLOCK_COUNT":   {loader.BLOCK_COUNT, func(cfg *Config) any { return &cfg.BlockCount }},
	"LOCK_REGISTER": {memory.ADDRESS_MASK, func(cfg *Config) any { return &cfg.LockRegister }},
	"START_BUTTONS": {math.MaxUint16, func(cfg *Config) any { return &cfg.StartButtons }},
	"UNLOCK_REPEAT": {math.MaxUint8, func(cfg *Config) any { return &cfg.UnlockRepeat }},
}

// Derived constants, available to scripts but not settable.
var derived = map[string]string{
	"KiB":        "1024",
	"BLOCK_SIZE": fmt.Sprintf("%d", loader.BLOCK_SIZE),
}

func (cfg *Config) get(name string) (value int64) {
	switch ptr := settings[name].field(cfg).(type) {
	case *uint32:
		value = int64(*ptr)
	case *int:
		value = int64(*ptr)
	}
	return
}

func (cfg *Config) set(name string, value int64) {
	switch ptr := settings[name].field(cfg).(type) {
	case *uint32:
		*ptr = uint32(value)
	case *int:
		*ptr = int(value)
	}
}

// Names returns the setting names, sorted.
func Names() []string {
	return slices.Sorted(maps.Keys(settings))
}

// Defines returns an iterator over the settings and derived constants, as
// hexadecimal strings.
func (cfg *Config) Defines() iter.Seq2[string, string] {
	values := make(map[string]string, len(settings))
	for name := range settings {
		values[name] = fmt.Sprintf("%#x", cfg.get(name))
	}
	return internal.IterSeq2Concat(maps.All(values), maps.All(derived))
}

// String renders the settings as a configuration script.
func (cfg *Config) String() string {
	var sb strings.Builder
	for _, name := range Names() {
		fmt.Fprintf(&sb, "%v = %#x\n", name, cfg.get(name))
	}
	return sb.String()
}

// address is the address(bank, offset) script builtin.
func address(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (value starlark.Value, err error) {
	var bank, offset int
	err = starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 2, &bank, &offset)
	if err != nil {
		return
	}
	value = starlark.MakeUint(uint(memory.Address(uint8(bank), uint16(offset))))
	return
}

// Load executes a configuration script on top of the defaults.
func Load(r io.Reader, filename string) (cfg Config, err error) {
	cfg = Default()

	src, err := io.ReadAll(r)
	if err != nil {
		return
	}

	pred := starlark.StringDict{
		"address": starlark.NewBuiltin("address", address),
	}
	for name, str := range derived {
		var value int64
		_, err = fmt.Sscan(str, &value)
		if err != nil {
			return
		}
		pred[name] = starlark.MakeInt64(value)
	}
	for name := range settings {
		pred["DEFAULT_"+name] = starlark.MakeInt64(cfg.get(name))
	}
	for name, mask := range peer.Buttons {
		pred[name] = starlark.MakeInt(int(mask))
	}

	thread := &starlark.Thread{Name: filename}
	opts := syntax.FileOptions{}
	globals, err := starlark.ExecFileOptions(&opts, thread, filename, src, pred)
	if err != nil {
		err = &ErrScript{Filename: filename, Err: err}
		return
	}

	for _, name := range slices.Sorted(maps.Keys(globals)) {
		if strings.ToUpper(name) != name {
			continue
		}

		st, ok := settings[name]
		if !ok {
			err = ErrSettingUnknown(name)
			return
		}

		num, ok := globals[name].(starlark.Int)
		if !ok {
			err = ErrSettingType(name)
			return
		}

		value, ok := num.Int64()
		if !ok || value < 0 || value > st.max {
			err = ErrSettingRange{Name: name, Max: st.max}
			return
		}

		cfg.set(name, value)
	}

	err = cfg.Check()

	return
}
