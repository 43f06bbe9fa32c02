package boot

import (
	"errors"

	"github.com/ezrec/sfcload/translate"
)

var f = translate.From

var (
	ErrImageEmpty     = errors.New(f("image empty"))
	ErrScratchOverlap = errors.New(f("scratch overlaps source bank"))
	ErrScratchOffset  = errors.New(f("scratch offset differs from source"))
	ErrScratchSize    = errors.New(f("image exceeds scratch bank"))
)

// ErrScratchVerify reports scratch memory that did not hold the copy.
type ErrScratchVerify struct {
	Addr uint32
}

func (err ErrScratchVerify) Error() string {
	return f("scratch verify failed at $%06X", err.Addr)
}

// ErrBootstrap wraps a bootstrap failure with the layout that caused it.
type ErrBootstrap struct {
	Source  uint32
	Scratch uint32
	Size    int
	Err     error
}

func (err *ErrBootstrap) Error() string {
	return f("bootstrap $%06X to $%06X (%d bytes): %v", err.Source, err.Scratch, err.Size, err.Err)
}

func (err *ErrBootstrap) Unwrap() error {
	return err.Err
}
