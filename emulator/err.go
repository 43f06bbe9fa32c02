package emulator

import (
	"errors"

	"github.com/ezrec/sfcload/translate"
)

var f = translate.From

var (
	ErrNotRelocated = errors.New(f("main loop not running from scratch memory"))
	ErrNMIEnabled   = errors.New(f("NMI enabled, would resume the resident image"))
)

// ErrRuntime indicates the location of a runtime error.
type ErrRuntime struct {
	Tick int
	PC   uint32
	Err  error
}

func (err *ErrRuntime) Error() string {
	return f("tick %d pc $%06X %v", err.Tick, err.PC, err.Err)
}

func (err *ErrRuntime) Unwrap() error {
	return err.Err
}
