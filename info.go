package pngdecode

import (
	"io"
	"log/slog"
	"time"
)

// ColorType is the PNG colour type decoded from IHDR, generalized beyond the
// teacher's bare IHDR.ColorType byte field.
type ColorType uint8

const (
	ColorUnknown ColorType = iota
	ColorLuma
	ColorLumaAlpha
	ColorRGB
	ColorRGBA
	ColorPalette
)

func colorFromIhdr(b byte) ColorType {
	switch b {
	case 0:
		return ColorLuma
	case 2:
		return ColorRGB
	case 3:
		return ColorPalette
	case 4:
		return ColorLumaAlpha
	case 6:
		return ColorRGBA
	default:
		return ColorUnknown
	}
}

// components returns the number of samples per pixel this colour type implies
// (palette indices count as one component; the palette's own RGB(A) triples
// are a post-processing expansion, not a component count).
func (c ColorType) components() int {
	switch c {
	case ColorLuma, ColorPalette:
		return 1
	case ColorLumaAlpha:
		return 2
	case ColorRGB:
		return 3
	case ColorRGBA:
		return 4
	default:
		return 0
	}
}

// ColorSpace is the colour space of the *output* buffer, which may differ
// from the input ColorType once tRNS promotion (spec.md §3 invariant 3)
// applies.
type ColorSpace uint8

const (
	SpaceLuma ColorSpace = iota
	SpaceLumaAlpha
	SpaceRGB
	SpaceRGBA
)

// NumComponents returns the sample count per pixel for this output colour
// space.
func (s ColorSpace) NumComponents() int {
	switch s {
	case SpaceLuma:
		return 1
	case SpaceLumaAlpha:
		return 2
	case SpaceRGB:
		return 3
	case SpaceRGBA:
		return 4
	default:
		return 0
	}
}

// isOneOf resolves spec.md §9's open question: the colour-space guard is
// expressed as an explicit allow-list membership test, never a chain of
// "not equal" disjunctions (which would reject everything, the bug the spec
// flags in the original).
func isOneOf(c ColorType, options ...ColorType) bool {
	for _, o := range options {
		if c == o {
			return true
		}
	}
	return false
}

// BitDepth is the reported sample depth after spec.md's "depths < 8 always
// expand to 8" non-goal is applied to callers of Decoder.Depth.
type BitDepth uint8

const (
	DepthEight   BitDepth = 8
	DepthSixteen BitDepth = 16
)

// InterlaceMethod mirrors IHDR's interlace byte.
type InterlaceMethod uint8

const (
	InterlaceStandard InterlaceMethod = 0
	InterlaceAdam7    InterlaceMethod = 1
)

// FilterMethod identifies a scanline's adaptive filter, plus the
// first-row specialisations spec.md §4.5 calls out.
type FilterMethod uint8

const (
	FilterNone FilterMethod = iota
	FilterSub
	FilterUp
	FilterAverage
	FilterPaeth
	filterAvgFirst
	filterPaethFirst
)

func filterFromByte(b byte) (FilterMethod, bool) {
	switch b {
	case 0:
		return FilterNone, true
	case 1:
		return FilterSub, true
	case 2:
		return FilterUp, true
	case 3:
		return FilterAverage, true
	case 4:
		return FilterPaeth, true
	default:
		return 0, false
	}
}

// ByteEndian selects the output endianness for 16-bit samples.
type ByteEndian uint8

const (
	// Native picks the host endianness, matching the original decoder's
	// decode() auto-detect preset.
	Native ByteEndian = iota
	BigEndian
	LittleEndian
)

// PaletteEntry is one PLTE (+ tRNS) colour table entry.
type PaletteEntry struct {
	R, G, B, A uint8
}

// TrnsKey holds up to four 16-bit samples from a tRNS chunk; semantics depend
// on the image's colour type (spec.md §3).
type TrnsKey [4]uint16

// TimeInfo is the tIME chunk's last-modification timestamp.
type TimeInfo struct {
	Year   uint16
	Month  uint8
	Day    uint8
	Hour   uint8
	Minute uint8
	Second uint8
}

// ToTime converts the tIME tuple to a UTC time.Time, kept from the teacher's
// TIME.ToTime() convenience method.
func (t TimeInfo) ToTime() time.Time {
	return time.Date(int(t.Year), time.Month(t.Month), int(t.Day), int(t.Hour), int(t.Minute), int(t.Second), 0, time.UTC)
}

// ItxtChunk is a UTF-8 international text chunk. The keyword borrows the
// input buffer, and so does the text of an uncompressed chunk; the text of a
// compressed chunk is a freshly inflated buffer (spec.md §9 "Owned vs
// borrowed metadata").
type ItxtChunk struct {
	Keyword []byte
	Text    []byte
}

// TextChunk is a Latin-1 tEXt chunk. Borrows the input buffer.
type TextChunk struct {
	Keyword []byte
	Text    []byte
}

// ZtxtChunk is a compressed zTXt chunk. Unlike tEXt and uncompressed iTXt, the
// text here is an owned, freshly-inflated buffer, since it cannot be a slice
// of the input.
type ZtxtChunk struct {
	Keyword []byte
	Text    []byte
}

// UnknownChunkHandler is invoked for any chunk tag this decoder does not
// natively recognise. It must advance the cursor past the chunk's payload
// and CRC trailer (length+4 bytes) or return an error; the default handler
// does exactly that and nothing else.
type UnknownChunkHandler func(length int, name [4]byte, cur *cursor, crc uint32) error

// defaultChunkHandler skips the payload and CRC of an unrecognised chunk.
func defaultChunkHandler(length int, _ [4]byte, cur *cursor, _ uint32) error {
	return cur.skip(length + 4)
}

// Options configures a Decoder. There is no flag/config-file parsing layer;
// CLI/option parsing is out of scope per spec.md §1, so this stays a plain
// struct, constructed via DefaultOptions and overridden field-by-field.
type Options struct {
	// ByteEndian selects the output endianness for 16-bit samples.
	ByteEndian ByteEndian
	// UseSSE2/UseSSE41 are acceleration hints for the Average/Paeth filter
	// kernels. Only scalar kernels exist; the decoder never reads these
	// flags, so they never change decoded output (spec.md §4.8/§9).
	UseSSE2  bool
	UseSSE41 bool
	// ConfirmCrc enables per-chunk CRC-32 verification.
	ConfirmCrc bool
	// ConfirmAdler forwards to the zlib collaborator's Adler-32 check; when
	// false, a checksum mismatch in a zlib stream is ignored.
	ConfirmAdler bool
	// UnknownChunkHandler overrides how unrecognised ancillary chunks are
	// consumed. Defaults to skipping payload+CRC.
	UnknownChunkHandler UnknownChunkHandler
	// Logger receives structured diagnostic events: DecodeInto logs the
	// input and output colourspace. Nil disables logging. No
	// third-party logging library appears anywhere in the retrieved
	// example corpus, so this is the standard library's slog.
	Logger *slog.Logger
}

// DefaultOptions returns strict-mode defaults: CRC and Adler verification
// on, native byte endian, SIMD hints off, logging disabled.
func DefaultOptions() Options {
	return Options{
		ByteEndian:          Native,
		ConfirmCrc:          true,
		ConfirmAdler:        true,
		UnknownChunkHandler: defaultChunkHandler,
	}
}

func (o Options) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return o.Logger
}

// PngInfo is the image metadata populated by DecodeHeaders (spec.md §3).
// Mutated only during DecodeHeaders; immutable and latched once
// DecodeHeaders completes.
type PngInfo struct {
	Width, Height   int
	Depth           uint8
	Color           ColorType
	Component       int
	InterlaceMethod InterlaceMethod
	FilterMethod    uint8

	Gamma      *float32
	IccProfile []byte
	Exif       []byte
	Time       *TimeInfo
	ItxtChunks []ItxtChunk
	ZtxtChunks []ZtxtChunk
	TextChunks []TextChunk
}
