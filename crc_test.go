package pngdecode

import (
	"errors"
	"hash/crc32"
	"testing"
)

func crcOf(name [4]byte, payload []byte) uint32 {
	h := crc32.NewIEEE()
	h.Write(name[:])
	h.Write(payload)
	return h.Sum32()
}

func TestVerifyChunkCrcAccepts(t *testing.T) {
	name := [4]byte{'I', 'D', 'A', 'T'}
	payload := []byte{1, 2, 3, 4, 5}

	want := crcOf(name, payload)
	if err := verifyChunkCrc(name, payload, want); err != nil {
		t.Fatalf("expected matching crc to pass, got %v", err)
	}
}

func TestVerifyChunkCrcRejectsFlippedBit(t *testing.T) {
	name := [4]byte{'I', 'D', 'A', 'T'}
	payload := []byte{1, 2, 3, 4, 5}

	want := crcOf(name, payload)
	payload[0] ^= 0x01 // flip one bit of the payload the crc was computed over

	err := verifyChunkCrc(name, payload, want)
	if err == nil {
		t.Fatalf("expected a bad-crc error")
	}
	var badCrc *BadCrc
	if !errors.As(err, &badCrc) {
		t.Fatalf("expected *BadCrc, got %T: %v", err, err)
	}
}
