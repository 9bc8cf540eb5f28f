package pngdecode

import "encoding/binary"

// beUint32 reads a big-endian uint32 from a 4-byte slice, used by the chunk
// framer when it only has a peeked slice rather than a live cursor.
func beUint32(b []byte) uint32 {
	return binary.BigEndian.Uint32(b)
}

// hostIsLittleEndian reports the host's native byte order, used by Decode to
// pick an output endian the way the original decoder's is_le() preset does.
func hostIsLittleEndian() bool {
	return binary.NativeEndian.Uint16([]byte{1, 0}) == 1
}

// resolveEndian turns the configured ByteEndian (which may be Native) into a
// concrete BigEndian/LittleEndian choice for the current host.
func resolveEndian(e ByteEndian) ByteEndian {
	if e != Native {
		return e
	}
	if hostIsLittleEndian() {
		return LittleEndian
	}
	return BigEndian
}

// beU16ToTarget converts every big-endian uint16 sample in buf to the target
// endian, in place. buf's length must be a multiple of 2 (spec.md §4.8).
func beU16ToTarget(buf []byte, target ByteEndian) {
	target = resolveEndian(target)
	if target == BigEndian {
		return
	}
	for i := 0; i+1 < len(buf); i += 2 {
		buf[i], buf[i+1] = buf[i+1], buf[i]
	}
}
