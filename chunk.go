package pngdecode

import "github.com/pkg/errors"

// chunkTag is the resolved identity of a chunk, generalized from the
// teacher's ChunkName string-tag enum to every tag spec.md §4.2 requires
// (adds tRNS, gAMA, acTL, fcTL, iCCP, eXIf, iTXt beyond the teacher's four
// recognised tags).
type chunkTag uint8

const (
	tagUnknown chunkTag = iota
	tagIHDR
	tagPLTE
	tagIDAT
	tagIEND
	tagTRNS
	tagGAMA
	tagPHYS
	tagTIME
	tagACTL
	tagFCTL
	tagICCP
	tagEXIF
	tagITXT
	tagZTXT
	tagTEXT
)

var chunkTagByName = map[[4]byte]chunkTag{
	{'I', 'H', 'D', 'R'}: tagIHDR,
	{'P', 'L', 'T', 'E'}: tagPLTE,
	{'I', 'D', 'A', 'T'}: tagIDAT,
	{'I', 'E', 'N', 'D'}: tagIEND,
	{'t', 'R', 'N', 'S'}: tagTRNS,
	{'g', 'A', 'M', 'A'}: tagGAMA,
	{'p', 'H', 'Y', 's'}: tagPHYS,
	{'t', 'I', 'M', 'E'}: tagTIME,
	{'a', 'c', 'T', 'L'}: tagACTL,
	{'f', 'c', 'T', 'L'}: tagFCTL,
	{'i', 'C', 'C', 'P'}: tagICCP,
	{'e', 'X', 'I', 'f'}: tagEXIF,
	{'i', 'T', 'X', 't'}: tagITXT,
	{'z', 'T', 'X', 't'}: tagZTXT,
	{'t', 'E', 'X', 't'}: tagTEXT,
}

// chunkHeader is the length/type/crc triple read ahead of a chunk's payload.
// Generalizes the teacher's chunk{len,code,data,crc} struct: the payload
// isn't copied up front, each handler reads it lazily from the cursor.
type chunkHeader struct {
	length int
	name   [4]byte
	tag    chunkTag
	crc    uint32
}

// readChunkHeader reads the 4-byte length and 4-byte ASCII name, peeks ahead
// to the trailing CRC without consuming the payload, resolves the tag,
// bounds-checks length+4 against the remaining input, and optionally
// verifies the CRC over name‖payload. On return the cursor points at the
// first payload byte.
func (d *Decoder) readChunkHeader() (chunkHeader, error) {
	length, err := d.cur.getU32BE()
	if err != nil {
		return chunkHeader{}, err
	}
	nameBytes, err := d.cur.peekAt(0, 4)
	if err != nil {
		return chunkHeader{}, err
	}
	var name [4]byte
	copy(name[:], nameBytes)

	if !d.cur.has(4 + int(length) + 4) {
		return chunkHeader{}, badChunk(string(name[:]), "truncated: not enough bytes for payload+crc")
	}

	crcBytes, err := d.cur.peekAt(4+int(length), 4)
	if err != nil {
		return chunkHeader{}, err
	}
	crc := beUint32(crcBytes)

	if d.options.ConfirmCrc {
		payload, err := d.cur.peekAt(4, int(length))
		if err != nil {
			return chunkHeader{}, err
		}
		if err := verifyChunkCrc(name, payload, crc); err != nil {
			return chunkHeader{}, err
		}
	}

	if err := d.cur.skip(4); err != nil {
		return chunkHeader{}, err
	}

	return chunkHeader{
		length: int(length),
		name:   name,
		tag:    chunkTagByName[name],
		crc:    crc,
	}, nil
}

// chunkEnd advances past whatever remains of a chunk's payload plus its CRC
// trailer, given how many payload bytes a handler has already consumed.
func (d *Decoder) chunkEnd(h chunkHeader, consumed int) error {
	if consumed > h.length {
		return errors.WithStack(badChunk(string(h.name[:]), "handler consumed more bytes than the chunk declared"))
	}
	return d.cur.skip(h.length - consumed + 4)
}
