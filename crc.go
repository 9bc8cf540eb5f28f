package pngdecode

import (
	"hash/crc32"

	"github.com/pkg/errors"
)

// verifyChunkCrc recomputes the IEEE CRC-32 over name‖payload and compares it
// against the trailer value read from the stream. Finishes the
// ISO_3309_CRC / "// TODO implement crc" stub left in the teacher repo, using
// the standard library's table-driven implementation instead of a hand-rolled
// bit matrix.
func verifyChunkCrc(name [4]byte, payload []byte, want uint32) error {
	h := crc32.NewIEEE()
	h.Write(name[:])
	h.Write(payload)
	got := h.Sum32()
	if got != want {
		return errors.WithStack(&BadCrc{Expected: want, Actual: got})
	}
	return nil
}
