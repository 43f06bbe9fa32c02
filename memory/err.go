package memory

import (
	"errors"
	"fmt"

	"github.com/ezrec/sfcload/translate"
)

var f = translate.From

var (
	ErrRegionEmpty = errors.New(f("region empty"))
	ErrRegionRange = errors.New(f("region exceeds address space"))
)

// ErrRegionOverlap reports a region colliding with one already attached.
type ErrRegionOverlap struct {
	Name     string
	Existing string
}

func (err ErrRegionOverlap) Error() string {
	return f("region %v overlaps %v", err.Name, err.Existing)
}

// ErrUnmapped reports an access to an address no region decodes.
type ErrUnmapped uint32

func (err ErrUnmapped) Error() string {
	return f("address %v unmapped", fmt.Sprintf("$%06X", uint32(err)))
}
