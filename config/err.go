package config

import (
	"errors"

	"github.com/ezrec/sfcload/translate"
)

var f = translate.From

var (
	ErrDestAlign = errors.New(f("destination base must start within the first block of its bank"))
	ErrDestRange = errors.New(f("destination blocks fall outside the cartridge SRAM"))
)

// ErrSettingUnknown names a global that is not a setting.
type ErrSettingUnknown string

func (err ErrSettingUnknown) Error() string {
	return f("unknown setting %v", string(err))
}

// ErrSettingType names a setting that is not an integer.
type ErrSettingType string

func (err ErrSettingType) Error() string {
	return f("setting %v is not an integer", string(err))
}

// ErrSettingRange names a setting outside of [0, Max].
type ErrSettingRange struct {
	Name string
	Max  int64
}

func (err ErrSettingRange) Error() string {
	return f("setting %v out of range 0..%#x", err.Name, err.Max)
}

// ErrScript wraps a script execution failure.
type ErrScript struct {
	Filename string
	Err      error
}

func (err *ErrScript) Error() string {
	return f("%v: %v", err.Filename, err.Err)
}

func (err *ErrScript) Unwrap() error {
	return err.Err
}
