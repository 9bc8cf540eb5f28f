package pngdecode

import "testing"

func TestExpandBitsToByteDepth4(t *testing.T) {
	src := []byte{0x01, 0x20} // samples 0, 1, 2 packed MSB-first, low nibble is padding
	dst := make([]byte, 3)
	expandBitsToByte(3, 4, 1, src, dst)
	want := []byte{0, 1, 2}
	for i := range want {
		if dst[i] != want[i] {
			t.Fatalf("sample %d = %d, want %d", i, dst[i], want[i])
		}
	}
}

func TestExpandBitsToByteDepth2(t *testing.T) {
	src := []byte{0xD8} // 11 01 10 00 -> 3, 1, 2, 0
	dst := make([]byte, 4)
	expandBitsToByte(4, 2, 1, src, dst)
	want := []byte{3, 1, 2, 0}
	for i := range want {
		if dst[i] != want[i] {
			t.Fatalf("sample %d = %d, want %d", i, dst[i], want[i])
		}
	}
}

func TestExpandBitsToByteDepth1(t *testing.T) {
	src := []byte{0xB2} // 1011 0010
	dst := make([]byte, 8)
	expandBitsToByte(8, 1, 1, src, dst)
	want := []byte{1, 0, 1, 1, 0, 0, 1, 0}
	for i := range want {
		if dst[i] != want[i] {
			t.Fatalf("sample %d = %d, want %d", i, dst[i], want[i])
		}
	}
}

func TestExpandPaletteRGB(t *testing.T) {
	palette := []PaletteEntry{
		{R: 10, G: 20, B: 30, A: 255},
		{R: 40, G: 50, B: 60, A: 255},
	}
	src := []byte{1, 0, 1}
	dst := make([]byte, len(src)*3)
	if err := expandPalette(src, dst, palette, 3); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []byte{40, 50, 60, 10, 20, 30, 40, 50, 60}
	for i := range want {
		if dst[i] != want[i] {
			t.Fatalf("byte %d = %d, want %d", i, dst[i], want[i])
		}
	}
}

func TestExpandPaletteOutOfRangeIndex(t *testing.T) {
	palette := []PaletteEntry{{R: 1, G: 2, B: 3, A: 255}}
	src := []byte{0, 5}
	dst := make([]byte, len(src)*3)
	if err := expandPalette(src, dst, palette, 3); err == nil {
		t.Fatalf("expected an error for an out-of-range palette index")
	}
}

func TestExpandTrnsLuma8(t *testing.T) {
	var trns TrnsKey
	trns[0] = 200
	src := []byte{200, 100}
	dst := make([]byte, 4)
	expandTrns(src, dst, ColorLuma, trns, 8)
	want := []byte{200, 0, 100, 255}
	for i := range want {
		if dst[i] != want[i] {
			t.Fatalf("byte %d = %d, want %d", i, dst[i], want[i])
		}
	}
}

func TestExpandTrnsRGB16(t *testing.T) {
	var trns TrnsKey
	trns[0], trns[1], trns[2] = 0x00FF, 0x0000, 0x0000

	// One matching pixel (0x00FF, 0x0000, 0x0000), one non-matching.
	src := []byte{
		0x00, 0xFF, 0x00, 0x00, 0x00, 0x00,
		0x00, 0xFF, 0x00, 0x01, 0x00, 0x00,
	}
	dst := make([]byte, 2*8)
	expandTrns(src, dst, ColorRGB, trns, 16)

	if dst[6] != 0x00 || dst[7] != 0x00 {
		t.Fatalf("matching pixel alpha = %#02x%02x, want 0x0000", dst[6], dst[7])
	}
	if dst[14] != 0xFF || dst[15] != 0xFF {
		t.Fatalf("non-matching pixel alpha = %#02x%02x, want 0xffff", dst[14], dst[15])
	}
}
