package config

import (
	"errors"
	"maps"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/sfcload/boot"
	"github.com/ezrec/sfcload/cart"
	"github.com/ezrec/sfcload/loader"
)

func TestDefault(t *testing.T) {
	assert := assert.New(t)

	cfg := Default()
	assert.Equal(uint32(boot.SOURCE_BASE), cfg.SourceBase)
	assert.Equal(uint32(boot.SCRATCH_BASE), cfg.ScratchBase)
	assert.Equal(boot.IMAGE_SIZE, cfg.ImageSize)
	assert.Equal(uint32(cart.SRAM_BASE), cfg.DestBase)
	assert.Equal(loader.BLOCK_COUNT, cfg.BlockCount)
	assert.Equal(0x0001, cfg.StartButtons)
	assert.Equal(15, cfg.UnlockRepeat)
}

func TestLoad(t *testing.T) {
	assert := assert.New(t)

	script := strings.Join([]string{
		"def bank(n):",
		"    return address(n, 0)",
		"SCRATCH_BASE = address(0x7e, 0x8000)",
		"DEST_BASE = bank(0xd0)",
		"BLOCK_COUNT = 256 * KiB // BLOCK_SIZE",
		"UNLOCK_REPEAT = DEFAULT_UNLOCK_REPEAT + 2",
		"START_BUTTONS = BUTTON_B | BUTTON_START",
		"scratch = 1",
	}, "\n")

	cfg, err := Load(strings.NewReader(script), "test.star")
	assert.NoError(err)

	assert.Equal(uint32(0x7e_8000), cfg.ScratchBase)
	assert.Equal(uint32(0xd0_0000), cfg.DestBase)
	assert.Equal(4096, cfg.BlockCount)
	assert.Equal(17, cfg.UnlockRepeat)
	assert.Equal(0x0009, cfg.StartButtons)
	assert.Equal(uint32(boot.SOURCE_BASE), cfg.SourceBase, "unset values keep their default")
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name   string
		script string
		check  func(err error) bool
	}{
		{"unknown", "SCRATCH = 1", func(err error) bool {
			return err == ErrSettingUnknown("SCRATCH")
		}},
		{"type", "DEST_BASE = 'sram'", func(err error) bool {
			return err == ErrSettingType("DEST_BASE")
		}},
		{"negative", "ENTRY = -1", func(err error) bool {
			var rng ErrSettingRange
			return errors.As(err, &rng) && rng.Name == "ENTRY"
		}},
		{"too many blocks", "BLOCK_COUNT = 0x2001", func(err error) bool {
			var rng ErrSettingRange
			return errors.As(err, &rng) && rng.Name == "BLOCK_COUNT"
		}},
		{"no blocks", "BLOCK_COUNT = 0", func(err error) bool {
			var rng ErrSettingRange
			return errors.As(err, &rng) && rng.Name == "BLOCK_COUNT"
		}},
		{"dest offset", "DEST_BASE = 0x708000\nBLOCK_COUNT = 4", func(err error) bool {
			return errors.Is(err, ErrDestAlign)
		}},
		{"dest past sram", "DEST_BASE = address(0xfc, 0)", func(err error) bool {
			return errors.Is(err, ErrDestRange)
		}},
		{"syntax", "DEST_BASE = (", func(err error) bool {
			var scr *ErrScript
			return errors.As(err, &scr) && scr.Filename == "bad.star"
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert := assert.New(t)

			_, err := Load(strings.NewReader(tt.script), "bad.star")
			assert.Error(err)
			assert.True(tt.check(err), "%v", err)
		})
	}
}

func TestConfig_Defines(t *testing.T) {
	assert := assert.New(t)

	cfg := Default()
	defines := maps.Collect(cfg.Defines())

	assert.Equal("0x7f8000", defines["SCRATCH_BASE"])
	assert.Equal("0x2000", defines["BLOCK_COUNT"])
	assert.Equal("64", defines["BLOCK_SIZE"])
	assert.Len(defines, len(Names())+2)
}

func TestConfig_String(t *testing.T) {
	assert := assert.New(t)

	cfg := Default()
	text := cfg.String()
	assert.Contains(text, "DEST_BASE = 0xc00000\n")

	// The rendering loads back to the same configuration.
	again, err := Load(strings.NewReader(text), "again.star")
	assert.NoError(err)
	assert.Equal(cfg, again)
}

func TestConfig_Check(t *testing.T) {
	tests := []struct {
		name     string
		dest     uint32
		blocks   int
		expected error
	}{
		{"default", cart.SRAM_BASE, loader.BLOCK_COUNT, nil},
		{"sub-block offset", 0xc0_0020, loader.BLOCK_COUNT, nil},
		{"last bank", 0xf8_0000, loader.BLOCK_COUNT, nil},
		{"bank offset", 0x70_8000, 4, ErrDestAlign},
		{"block offset", 0xc0_0040, 1, ErrDestAlign},
		{"wraps", 0xfc_0000, 1, ErrDestRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert := assert.New(t)

			cfg := Default()
			cfg.DestBase = tt.dest
			cfg.BlockCount = tt.blocks
			assert.Equal(tt.expected, cfg.Check())
		})
	}
}
