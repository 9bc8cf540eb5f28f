package pngdecode

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"hash/crc32"
)

// The tests in this package synthesize PNG byte streams by hand instead of
// reading fixture files, since none are available; the helpers below play
// the role of a minimal encoder purely for test setup.

func testChunk(name string, payload []byte) []byte {
	buf := make([]byte, 0, 12+len(payload))

	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(payload)))
	buf = append(buf, lenBuf[:]...)
	buf = append(buf, name...)
	buf = append(buf, payload...)

	h := crc32.NewIEEE()
	h.Write([]byte(name))
	h.Write(payload)
	var crcBuf [4]byte
	binary.BigEndian.PutUint32(crcBuf[:], h.Sum32())
	buf = append(buf, crcBuf[:]...)

	return buf
}

func testIHDR(width, height uint32, depth, colorType, interlace byte) []byte {
	return testIHDRWithMethods(width, height, depth, colorType, 0, 0, interlace)
}

// testIHDRWithMethods exposes the compression/filter method bytes directly,
// for tests that need an invalid value there.
func testIHDRWithMethods(width, height uint32, depth, colorType, compression, filter, interlace byte) []byte {
	payload := make([]byte, 13)
	binary.BigEndian.PutUint32(payload[0:4], width)
	binary.BigEndian.PutUint32(payload[4:8], height)
	payload[8] = depth
	payload[9] = colorType
	payload[10] = compression
	payload[11] = filter
	payload[12] = interlace
	return testChunk("IHDR", payload)
}

func testDeflate(raw []byte) []byte {
	var buf bytes.Buffer
	w := zlib.NewWriter(&buf)
	_, _ = w.Write(raw)
	_ = w.Close()
	return buf.Bytes()
}

func testIDAT(raw []byte) []byte {
	return testChunk("IDAT", testDeflate(raw))
}

func testAssemblePNG(chunks ...[]byte) []byte {
	out := append([]byte{}, pngSignature[:]...)
	for _, c := range chunks {
		out = append(out, c...)
	}
	return out
}

// testEncodeAdam7 lays a full image's scanlines out across the seven Adam7
// passes the way a PNG encoder would, applying the None filter throughout
// so the test doesn't also need a forward filter for this shape. pixelAt
// must return exactly bytesPerPixel bytes for each (x, y).
func testEncodeAdam7(width, height, bytesPerPixel int, pixelAt func(x, y int) []byte) []byte {
	var out []byte
	for _, plan := range adam7Plan(width, height) {
		for row := 0; row < plan.height; row++ {
			out = append(out, 0) // filter: None
			y := plan.yOrig + row*plan.ySpc
			for x := 0; x < plan.width; x++ {
				px := plan.xOrig + x*plan.xSpc
				out = append(out, pixelAt(px, y)...)
			}
		}
	}
	return out
}
