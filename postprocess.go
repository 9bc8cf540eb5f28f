package pngdecode

import "encoding/binary"

// maxForDepth is the largest representable sample value at the given bit
// depth. Per spec.md §9, sub-byte samples are left bit-aligned to the LSB
// and never rescaled to 0-255, so a synthesized tRNS alpha channel uses this
// same unscaled ceiling rather than a hardcoded 255.
func maxForDepth(depth uint8) int {
	return (1 << depth) - 1
}

// expandBitsToByte unpacks MSB-first sub-byte samples (depth 1, 2, or 4)
// into one byte per sample, aligned to the LSB and unscaled. width*nComponents
// is the total sample count; src holds the packed row (with no filter byte),
// dst must have room for that many bytes.
//
// Grounded on zune-png/src/decoder.rs's expand_bits_to_byte call sites; no
// Go repo in the corpus implements sub-byte PNG sample expansion.
func expandBitsToByte(width, depth, nComponents int, src, dst []byte) {
	samplesPerByte := 8 / depth
	mask := byte((1 << depth) - 1)
	total := width * nComponents

	for i := 0; i < total; i++ {
		byteIdx := i / samplesPerByte
		shift := 8 - depth - (i%samplesPerByte)*depth
		dst[i] = (src[byteIdx] >> uint(shift)) & mask
	}
}

// expandPalette replaces each one-byte palette index in src with its
// PLTE (+ tRNS) entry, writing outBytes (3 for RGB, 4 for RGBA) bytes per
// pixel into dst.
func expandPalette(src []byte, dst []byte, palette []PaletteEntry, outBytes int) error {
	for i, idx := range src {
		if int(idx) >= len(palette) {
			return badChunk("PLTE", "pixel references a palette index beyond the palette's length")
		}
		e := palette[idx]
		o := i * outBytes
		dst[o+0] = e.R
		dst[o+1] = e.G
		dst[o+2] = e.B
		if outBytes == 4 {
			dst[o+3] = e.A
		}
	}
	return nil
}

// expandTrns appends a synthesized alpha sample after every pixel's colour
// samples: 0 when the pixel's samples match the tRNS key, maxForDepth(depth)
// otherwise. color must be Luma (1 component) or RGB (3 components); tRNS is
// never valid for the already-alpha-bearing colour types.
//
// Grounded on zune-png/src/decoder.rs's expand_trns<IS16> generic; this
// module uses a runtime depth check instead of a compile-time generic since
// Go has no const-generic specialisation for this.
func expandTrns(src, dst []byte, color ColorType, trns TrnsKey, depth uint8) {
	is16 := depth == 16
	sampleWidth := 1
	if is16 {
		sampleWidth = 2
	}
	nComponents := 1
	if color == ColorRGB {
		nComponents = 3
	}
	maxVal := maxForDepth(depth)

	pixelIn := nComponents * sampleWidth
	pixelOut := (nComponents + 1) * sampleWidth
	count := len(src) / pixelIn

	for i := 0; i < count; i++ {
		srcOff := i * pixelIn
		dstOff := i * pixelOut
		copy(dst[dstOff:dstOff+pixelIn], src[srcOff:srcOff+pixelIn])

		match := true
		for c := 0; c < nComponents; c++ {
			var sample int
			if is16 {
				sample = int(binary.BigEndian.Uint16(src[srcOff+c*2:]))
			} else {
				sample = int(src[srcOff+c])
			}
			if sample != int(trns[c]) {
				match = false
				break
			}
		}

		alphaOff := dstOff + pixelIn
		if match {
			writeSample(dst[alphaOff:], 0, sampleWidth)
		} else {
			writeSample(dst[alphaOff:], maxVal, sampleWidth)
		}
	}
}

// writeSample writes a value as either a single byte or a big-endian u16.
func writeSample(dst []byte, value, width int) {
	if width == 1 {
		dst[0] = byte(value)
		return
	}
	binary.BigEndian.PutUint16(dst, uint16(value))
}
