package pngdecode

import (
	"bytes"
	"compress/zlib"
	"io"

	"github.com/pkg/errors"
)

// inflate hands the concatenated IDAT payload to the zlib collaborator. It
// sizes the output buffer from a hint derived from the image dimensions and
// caps the total read at a hard limit, since PNG's per-scanline filter byte
// bounds the maximum legitimate output (spec.md §4.4).
//
// Grounded on fumin-png/reader.go's use of compress/zlib.NewReader over the
// chunk-concatenating IDAT stream.
func inflate(compressed []byte, sizeHint, limit int, verifyAdler bool) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return nil, errors.WithStack(&ZlibError{Kind: err})
	}

	out := bytes.NewBuffer(make([]byte, 0, sizeHint))
	// The +1 lets us distinguish "exactly at the limit" from "over the
	// limit" without reading unbounded attacker-controlled output.
	n, err := io.Copy(out, io.LimitReader(zr, int64(limit)+1))
	if err != nil && !(err == zlib.ErrChecksum && !verifyAdler) {
		_ = zr.Close()
		return nil, errors.WithStack(&ZlibError{Kind: err})
	}
	if n > int64(limit) {
		_ = zr.Close()
		return nil, errors.WithStack(&ZlibError{Kind: errors.New("inflated output exceeds size limit")})
	}

	// The zlib reader checks the trailing Adler-32 when a Read reaches the
	// end of the deflate stream and reports a mismatch as zlib.ErrChecksum,
	// both from that Read and again from Close; the mismatch is only an
	// error when verifyAdler is set.
	if err := zr.Close(); err != nil && verifyAdler {
		return nil, errors.WithStack(&ZlibError{Kind: err})
	}

	return out.Bytes(), nil
}
