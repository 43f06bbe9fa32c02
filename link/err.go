package link

import (
	"errors"

	"github.com/ezrec/sfcload/translate"
)

var f = translate.From

var (
	ErrLinkFull = errors.New(f("link buffer full"))
)
