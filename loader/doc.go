// Package loader implements the block transfer state machine that receives
// an image over the controller port link and writes it into cartridge SRAM.
//
// A transfer is a fixed number of 64-byte blocks, each followed on the wire
// by its 16-bit checksum. Blocks carry no sequence number; the peer infers
// the outcome of each attempt from the number of strobe pulses between two
// data phases:
//
//   - two pulses (the poll strobe, then the continue strobe) accept the
//     block, and the peer moves on to the next one;
//   - three pulses (a retry strobe, the poll strobe, then the continue
//     strobe) reject it, and the peer sends the same block again.
//
// A block is retried until its checksum matches. There is no retry limit,
// no timeout and no abort short of a reset.
package loader
