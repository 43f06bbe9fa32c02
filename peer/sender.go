// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package peer simulates the devices on the far side of the controller
// ports: the bridge that streams an image to the loader, and a plain
// joypad used to issue the start command.
package peer

import (
	"errors"
	"io"
	"log"

	"github.com/ezrec/sfcload/crc"
	"github.com/ezrec/sfcload/link"
	"github.com/ezrec/sfcload/loader"
)

const (
	RETRY_PULSES = 3    // Latch pulses between frames that request a resend.
	PAD_BYTE     = 0xff // Payload past the end of the image.
)

// FaultFunc may alter a frame (payload then checksum) before it is sent.
type FaultFunc func(block int, attempt int, frame []byte)

// Sender streams an image to the loader over the secondary port.
//
// The first frame clocked out is block 0. After each frame, the sender
// counts latch pulses until the loader starts reading again: fewer than
// RETRY_PULSES advances to the next block, RETRY_PULSES or more sends the
// same block again.
type Sender struct {
	Verbose bool

	Image  io.ReaderAt
	Blocks int       // Blocks in a transfer.
	Fault  FaultFunc // Optional.

	Block   int  // Block being sent.
	Attempt int  // Attempts at Block before the current one.
	Frames  int  // Frames sent.
	Resends int  // Frames sent again on request.
	Done    bool // Every block was accepted.

	Err error // Image failure. No frame is sent once set.

	bits    link.Bits
	pulses  int
	level   bool
	started bool
	framing bool
}

var _ link.Device = (*Sender)(nil)

// NewSender returns a sender for a full transfer of image.
func NewSender(image io.ReaderAt) (snd *Sender) {
	snd = &Sender{
		Image:  image,
		Blocks: loader.BLOCK_COUNT,
		bits:   link.Bits{Capacity: loader.FRAME_BITS},
	}
	return
}

// Rewind restarts the sender at block 0.
func (snd *Sender) Rewind() {
	snd.bits.Rewind()
	snd.Block = 0
	snd.Attempt = 0
	snd.Frames = 0
	snd.Resends = 0
	snd.Done = false
	snd.Err = nil
	snd.pulses = 0
	snd.started = false
	snd.framing = false
}

// Latch counts pulses on the shared latch line.
func (snd *Sender) Latch(level bool) {
	if snd.level && !level {
		snd.pulses++
	}
	snd.level = level
}

// Sample clocks out the next frame bit, loading a frame when none is in
// flight.
func (snd *Sender) Sample() bool {
	if !snd.framing {
		if !snd.next() {
			return false
		}
	}

	bit, _ := snd.bits.Next()
	if snd.bits.Len() == 0 {
		snd.framing = false
		snd.pulses = 0
	}

	return bit
}

// next picks the block for the coming frame and serializes it.
func (snd *Sender) next() bool {
	if snd.Err != nil {
		return false
	}

	if snd.started {
		if snd.pulses >= RETRY_PULSES {
			snd.Attempt++
			snd.Resends++
		} else {
			snd.Block++
			snd.Attempt = 0
		}
	}
	snd.started = true

	if snd.Block >= snd.Blocks {
		if !snd.Done && snd.Verbose {
			log.Printf("peer: %d blocks sent, %d resent", snd.Blocks, snd.Resends)
		}
		snd.Done = true
		return false
	}

	frame, err := snd.Frame(snd.Block)
	if err != nil {
		snd.fail(err)
		return false
	}

	if snd.Fault != nil {
		snd.Fault(snd.Block, snd.Attempt, frame)
	}

	if snd.Verbose && snd.Attempt > 0 {
		log.Printf("peer: block %d attempt %d", snd.Block, snd.Attempt+1)
	}

	for _, value := range frame {
		err = link.SendAsUint8(&snd.bits, value)
		if err != nil {
			snd.bits.Rewind()
			snd.fail(err)
			return false
		}
	}

	snd.framing = true
	snd.Frames++

	return true
}

func (snd *Sender) fail(err error) {
	snd.Err = &ErrBlock{Block: snd.Block, Err: err}
	if snd.Verbose {
		log.Printf("peer: %v", snd.Err)
	}
}

// Frame returns block's payload followed by its checksum, low byte first.
// Payload past the end of the image is PAD_BYTE.
func (snd *Sender) Frame(block int) (frame []byte, err error) {
	frame = make([]byte, loader.FRAME_SIZE)
	payload := frame[:loader.BLOCK_SIZE]

	n, err := snd.Image.ReadAt(payload, int64(block)*loader.BLOCK_SIZE)
	if errors.Is(err, io.EOF) {
		err = nil
	}
	for ; n < len(payload); n++ {
		payload[n] = PAD_BYTE
	}

	h := crc.New()
	h.Write(payload)
	sum := h.Sum16()
	frame[loader.BLOCK_SIZE] = uint8(sum)
	frame[loader.BLOCK_SIZE+1] = uint8(sum >> 8)

	return
}
