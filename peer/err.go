package peer

import (
	"github.com/ezrec/sfcload/translate"
)

var f = translate.From

// ErrBlock is a failure to produce the frame of a block.
type ErrBlock struct {
	Block int
	Err   error
}

func (err *ErrBlock) Error() string {
	return f("block %d: %v", err.Block, err.Err)
}

func (err *ErrBlock) Unwrap() error {
	return err.Err
}
