package pngdecode

import (
	"fmt"

	"github.com/pkg/errors"
)

// Sentinel errors for conditions that carry no extra payload.
var (
	// ErrBadSignature is returned when the leading 8 bytes are not the PNG magic.
	ErrBadSignature = errors.New("pngdecode: bad png signature")
	// ErrNoIhdr is returned when the first chunk after the signature isn't IHDR.
	ErrNoIhdr = errors.New("pngdecode: first chunk is not IHDR")
	// ErrNotEnoughBytes is returned by the byte cursor on underrun.
	ErrNotEnoughBytes = errors.New("pngdecode: not enough bytes")
	// ErrEmptyPalette is returned when palette expansion is requested but no PLTE was seen.
	ErrEmptyPalette = errors.New("pngdecode: palette expansion requested but no PLTE chunk present")
)

// BadCrc reports a chunk whose CRC-32 trailer does not match its computed value.
type BadCrc struct {
	Expected uint32
	Actual   uint32
}

func (e *BadCrc) Error() string {
	return fmt.Sprintf("pngdecode: bad crc: expected %#08x, got %#08x", e.Expected, e.Actual)
}

// BadChunk reports a malformed or disallowed chunk.
type BadChunk struct {
	Name   string
	Reason string
}

func (e *BadChunk) Error() string {
	return fmt.Sprintf("pngdecode: bad chunk %q: %s", e.Name, e.Reason)
}

// TooSmallOutput reports a caller-supplied buffer shorter than required.
type TooSmallOutput struct {
	Required int
	Given    int
}

func (e *TooSmallOutput) Error() string {
	return fmt.Sprintf("pngdecode: output buffer too small: need %d bytes, got %d", e.Required, e.Given)
}

// ZlibError wraps a failure surfaced by the zlib inflate collaborator.
type ZlibError struct {
	Kind error
}

func (e *ZlibError) Error() string {
	return fmt.Sprintf("pngdecode: zlib error: %v", e.Kind)
}

func (e *ZlibError) Unwrap() error { return e.Kind }

// Generic is a catch-all for ancillary-chunk inconsistencies with a formatted message.
type Generic struct {
	Message string
}

func (e *Generic) Error() string { return "pngdecode: " + e.Message }

// genericf builds a stack-annotated Generic error.
func genericf(format string, args ...interface{}) error {
	return errors.WithStack(&Generic{Message: fmt.Sprintf(format, args...)})
}

// badChunk builds a stack-annotated BadChunk error.
func badChunk(name, reason string) error {
	return errors.WithStack(&BadChunk{Name: name, Reason: reason})
}

// genericStatic builds a stack-annotated Generic error from a fixed string,
// mirroring the original decoder's GenericStatic/Generic split without
// needing two distinct Go types.
func genericStatic(message string) error {
	return errors.WithStack(&Generic{Message: message})
}
