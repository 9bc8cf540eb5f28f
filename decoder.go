package pngdecode

import (
	"bytes"
	"encoding/binary"

	"github.com/pkg/errors"
)

var pngSignature = [8]byte{137, 80, 78, 71, 13, 10, 26, 10}

// Decoder parses a PNG byte stream in two phases: DecodeHeaders walks every
// chunk up to IEND and populates PngInfo, then DecodeInto/DecodeRaw/Decode
// inflate and reconstruct the pixel data. Generalizes the teacher's
// Png{IHDR,IDATs,TEXTs,ZTXTs,IEND,TIME,chunks,bs} struct and ParsePng/
// parseBaseChunk two-stage flow into the public contract spec.md §5 names.
type Decoder struct {
	cur     *cursor
	options Options

	info    PngInfo
	palette []PaletteEntry
	idat    []byte
	trns    TrnsKey

	seenHdr       bool
	seenPlte      bool
	seenTrns      bool
	seenHeaders   bool
	seenFirstFctl bool
}

// New builds a Decoder with DefaultOptions.
func New(data []byte) *Decoder {
	return NewWithOptions(data, DefaultOptions())
}

// NewWithOptions builds a Decoder with caller-supplied Options.
func NewWithOptions(data []byte, options Options) *Decoder {
	if options.UnknownChunkHandler == nil {
		options.UnknownChunkHandler = defaultChunkHandler
	}
	return &Decoder{
		cur:     newCursor(data),
		options: options,
	}
}

// DecodeHeaders walks every chunk from the signature through IEND (or, for
// an animated PNG, through the start of its second fcTL — animation frames
// beyond the default image are out of scope), populating PngInfo, the
// palette, and the tRNS key. Calling it more than once is a no-op.
//
// Grounded on zune-png/src/decoder.rs::decode_headers's per-tag dispatch
// loop and early-stop-on-second-fcTL rule; the teacher's parseBaseChunk
// inspired the overall "sequential chunk scan, stop at a terminal tag"
// shape but only recognised four chunk kinds.
func (d *Decoder) DecodeHeaders() error {
	if d.seenHeaders {
		return nil
	}

	if err := d.checkSignature(); err != nil {
		return err
	}

	first := true
	for {
		h, err := d.readChunkHeader()
		if err != nil {
			return err
		}
		if first {
			if h.tag != tagIHDR {
				return errors.WithStack(ErrNoIhdr)
			}
			first = false
		}

		payloadStart := d.cur.pos
		consumed := 0
		stop := false
		handledByCallback := false

		switch h.tag {
		case tagIHDR:
			if d.seenHdr {
				return badChunk("IHDR", "duplicate IHDR chunk")
			}
			consumed, err = d.parseIHDR(h)

		case tagPLTE:
			consumed, err = d.parsePLTE(h)

		case tagIDAT:
			consumed, err = d.parseIDAT(h)

		case tagTRNS:
			consumed, err = d.parseTRNS(h)

		case tagGAMA:
			consumed, err = d.parseGAMA(h)

		case tagTIME:
			consumed, err = d.parseTIME(h)

		case tagICCP:
			consumed, err = d.parseICCP(h)

		case tagEXIF:
			consumed, err = d.parseEXIF(h)

		case tagITXT:
			consumed, err = d.parseITXT(h)

		case tagZTXT:
			consumed, err = d.parseZTXT(h)

		case tagTEXT:
			consumed, err = d.parseTEXT(h)

		case tagPHYS, tagACTL:
			// Physical pixel dimensions and the animation control chunk
			// carry no information the default-image decode needs.

		case tagFCTL:
			if d.seenFirstFctl {
				d.seenHeaders = true
				stop = true
			} else {
				d.seenFirstFctl = true
				// The first fcTL is handed to the unknown-chunk callback,
				// the same as any other chunk this decoder doesn't natively
				// interpret; only a second occurrence ends header parsing.
				err = d.options.UnknownChunkHandler(h.length, h.name, d.cur, h.crc)
				handledByCallback = true
			}

		case tagIEND:
			d.seenHeaders = true
			stop = true

		default:
			err = d.options.UnknownChunkHandler(h.length, h.name, d.cur, h.crc)
			handledByCallback = true
		}

		if err != nil {
			return err
		}

		if !handledByCallback {
			// Handlers that read their payload through peekAt report it as
			// consumed without moving the cursor; catch the cursor up first.
			if moved := d.cur.pos - payloadStart; moved < consumed {
				if err := d.cur.skip(consumed - moved); err != nil {
					return err
				}
			}
			if err := d.chunkEnd(h, consumed); err != nil {
				return err
			}
		}

		if stop {
			return nil
		}
	}
}

func (d *Decoder) checkSignature() error {
	sig, err := d.cur.peekAt(0, 8)
	if err != nil {
		return errors.WithStack(ErrBadSignature)
	}
	if !bytes.Equal(sig, pngSignature[:]) {
		return errors.WithStack(ErrBadSignature)
	}
	return d.cur.skip(8)
}

// parseIHDR reads the 13-byte IHDR payload and validates the depth/colour
// combination against PNG's allow-list (spec.md §9's resolved open
// question: membership tests, not a chain of inequalities).
func (d *Decoder) parseIHDR(h chunkHeader) (int, error) {
	if h.length != 13 {
		return 0, badChunk("IHDR", "length must be 13")
	}
	width, err := d.cur.getU32BE()
	if err != nil {
		return 0, err
	}
	height, err := d.cur.getU32BE()
	if err != nil {
		return 0, err
	}
	depth, err := d.cur.getU8()
	if err != nil {
		return 0, err
	}
	colorByte, err := d.cur.getU8()
	if err != nil {
		return 0, err
	}
	compressionMethod, err := d.cur.getU8()
	if err != nil {
		return 0, err
	}
	if compressionMethod != 0 {
		return 0, badChunk("IHDR", "unsupported compression method")
	}
	filterMethod, err := d.cur.getU8()
	if err != nil {
		return 0, err
	}
	if filterMethod != 0 {
		return 0, badChunk("IHDR", "unsupported filter method")
	}
	interlaceByte, err := d.cur.getU8()
	if err != nil {
		return 0, err
	}

	if width == 0 || height == 0 {
		return 0, badChunk("IHDR", "width and height must be nonzero")
	}

	color := colorFromIhdr(colorByte)
	if !d.validDepthForColor(color, depth) {
		return 0, badChunk("IHDR", "bit depth not allowed for this colour type")
	}
	if interlaceByte != byte(InterlaceStandard) && interlaceByte != byte(InterlaceAdam7) {
		return 0, badChunk("IHDR", "unrecognised interlace method")
	}

	d.info.Width = int(width)
	d.info.Height = int(height)
	d.info.Depth = depth
	d.info.Color = color
	d.info.Component = color.components()
	d.info.InterlaceMethod = InterlaceMethod(interlaceByte)
	d.info.FilterMethod = filterMethod
	d.seenHdr = true

	return 13, nil
}

func (d *Decoder) validDepthForColor(color ColorType, depth uint8) bool {
	switch color {
	case ColorLuma:
		return depthIn(depth, 1, 2, 4, 8, 16)
	case ColorPalette:
		return depthIn(depth, 1, 2, 4, 8)
	case ColorRGB, ColorLumaAlpha, ColorRGBA:
		return depthIn(depth, 8, 16)
	default:
		return false
	}
}

// depthIn resolves spec.md §9's open question the same way isOneOf does for
// colour types: an explicit allow-list membership test, not a chain of
// inequalities.
func depthIn(depth uint8, allowed ...uint8) bool {
	for _, a := range allowed {
		if depth == a {
			return true
		}
	}
	return false
}

// parsePLTE reads a palette table, defaulting every entry's alpha to opaque
// until/unless a tRNS chunk narrows it.
func (d *Decoder) parsePLTE(h chunkHeader) (int, error) {
	if h.length == 0 || h.length%3 != 0 {
		return 0, badChunk("PLTE", "length must be a positive multiple of 3")
	}
	if h.length > 768 {
		return 0, badChunk("PLTE", "more than 256 entries")
	}
	if !isOneOf(d.info.Color, ColorRGB, ColorRGBA, ColorPalette) {
		return 0, badChunk("PLTE", "not valid for a greyscale colour type")
	}
	payload, err := d.cur.peekAt(0, h.length)
	if err != nil {
		return 0, err
	}
	n := h.length / 3
	palette := make([]PaletteEntry, n)
	for i := 0; i < n; i++ {
		palette[i] = PaletteEntry{R: payload[i*3], G: payload[i*3+1], B: payload[i*3+2], A: 255}
	}
	d.palette = palette
	d.seenPlte = true
	return h.length, nil
}

// parseIDAT appends one IDAT's payload to the accumulated deflate stream;
// PNG allows the compressed data to be split across any number of IDAT
// chunks, always treated as one logically contiguous stream.
func (d *Decoder) parseIDAT(h chunkHeader) (int, error) {
	payload, err := d.cur.peekAt(0, h.length)
	if err != nil {
		return 0, err
	}
	d.idat = append(d.idat, payload...)
	return h.length, nil
}

// parseTRNS interprets the tRNS payload according to the colour type seen
// in IHDR: per-index alpha for Palette, a single 16-bit key for Luma, a
// 3x16-bit key for RGB. Any other colour type already carries its own
// alpha channel and may not have a tRNS chunk.
func (d *Decoder) parseTRNS(h chunkHeader) (int, error) {
	if !d.seenHdr {
		return 0, errors.WithStack(ErrNoIhdr)
	}
	if !isOneOf(d.info.Color, ColorPalette, ColorLuma, ColorRGB) {
		return 0, badChunk("tRNS", "not valid for this colour type")
	}
	switch d.info.Color {
	case ColorPalette:
		if h.length > len(d.palette) {
			return 0, badChunk("tRNS", "more entries than the palette has")
		}
		payload, err := d.cur.peekAt(0, h.length)
		if err != nil {
			return 0, err
		}
		for i, a := range payload {
			d.palette[i].A = a
		}
	case ColorLuma:
		if h.length != 2 {
			return 0, badChunk("tRNS", "length must be 2 for greyscale")
		}
		v, err := d.cur.getU16BE()
		if err != nil {
			return 0, err
		}
		d.trns[0] = v
	case ColorRGB:
		if h.length != 6 {
			return 0, badChunk("tRNS", "length must be 6 for truecolour")
		}
		for i := 0; i < 3; i++ {
			v, err := d.cur.getU16BE()
			if err != nil {
				return 0, err
			}
			d.trns[i] = v
		}
	default:
		return 0, badChunk("tRNS", "not valid for this colour type")
	}
	d.seenTrns = true
	return h.length, nil
}

func (d *Decoder) parseGAMA(h chunkHeader) (int, error) {
	if h.length != 4 {
		return 0, badChunk("gAMA", "length must be 4")
	}
	raw, err := d.cur.getU32BE()
	if err != nil {
		return 0, err
	}
	gamma := float32(raw) / 100000.0
	d.info.Gamma = &gamma
	return 4, nil
}

func (d *Decoder) parseTIME(h chunkHeader) (int, error) {
	if h.length != 7 {
		return 0, badChunk("tIME", "length must be 7")
	}
	year, err := d.cur.getU16BE()
	if err != nil {
		return 0, err
	}
	month, err := d.cur.getU8()
	if err != nil {
		return 0, err
	}
	day, err := d.cur.getU8()
	if err != nil {
		return 0, err
	}
	hour, err := d.cur.getU8()
	if err != nil {
		return 0, err
	}
	minute, err := d.cur.getU8()
	if err != nil {
		return 0, err
	}
	second, err := d.cur.getU8()
	if err != nil {
		return 0, err
	}
	d.info.Time = &TimeInfo{Year: year, Month: month, Day: day, Hour: hour, Minute: minute, Second: second}
	return 7, nil
}

// parseICCP stores the embedded ICC profile, inflated from its zlib
// container. The profile name is discarded; iCCP chunks are always parsed
// here and are never passed to the UnknownChunkHandler.
func (d *Decoder) parseICCP(h chunkHeader) (int, error) {
	payload, err := d.cur.peekAt(0, h.length)
	if err != nil {
		return 0, err
	}
	nameEnd := bytes.IndexByte(payload, 0)
	if nameEnd < 0 || nameEnd+1 >= len(payload) {
		return 0, badChunk("iCCP", "missing profile name terminator")
	}
	compressed := payload[nameEnd+2:]
	profile, err := inflate(compressed, len(compressed)*3+64, len(compressed)*20+4096, d.options.ConfirmAdler)
	if err != nil {
		return 0, err
	}
	d.info.IccProfile = profile
	return h.length, nil
}

// parseEXIF stores the raw TIFF-format Exif payload, uninterpreted.
func (d *Decoder) parseEXIF(h chunkHeader) (int, error) {
	payload, err := d.cur.peekAt(0, h.length)
	if err != nil {
		return 0, err
	}
	d.info.Exif = payload
	return h.length, nil
}

// parseITXT reads an international text chunk. Uncompressed text is
// borrowed from the input buffer (spec.md §9); compressed text must be
// inflated into a fresh buffer regardless.
func (d *Decoder) parseITXT(h chunkHeader) (int, error) {
	payload, err := d.cur.peekAt(0, h.length)
	if err != nil {
		return 0, err
	}
	keyword, rest, ok := splitNul(payload)
	if !ok {
		return 0, badChunk("iTXt", "missing keyword terminator")
	}
	if len(rest) < 2 {
		return 0, badChunk("iTXt", "truncated before compression flag")
	}
	compressed := rest[0] != 0
	rest = rest[2:]
	_, rest, ok = splitNul(rest) // language tag
	if !ok {
		return 0, badChunk("iTXt", "missing language tag terminator")
	}
	_, rest, ok = splitNul(rest) // translated keyword
	if !ok {
		return 0, badChunk("iTXt", "missing translated keyword terminator")
	}

	text := rest
	if compressed {
		text, err = inflate(rest, len(rest)*3+64, len(rest)*20+4096, d.options.ConfirmAdler)
		if err != nil {
			return 0, err
		}
	}

	d.info.ItxtChunks = append(d.info.ItxtChunks, ItxtChunk{Keyword: keyword, Text: text})
	return h.length, nil
}

// parseZTXT reads a compressed Latin-1 text chunk; its text is always
// owned, since it is freshly inflated rather than a slice of the input
// (the teacher's ZTXT struct never actually decompressed it).
func (d *Decoder) parseZTXT(h chunkHeader) (int, error) {
	payload, err := d.cur.peekAt(0, h.length)
	if err != nil {
		return 0, err
	}
	keyword, rest, ok := splitNul(payload)
	if !ok {
		return 0, badChunk("zTXt", "missing keyword terminator")
	}
	if len(rest) < 1 {
		return 0, badChunk("zTXt", "truncated before compression method")
	}
	compressed := rest[1:]
	text, err := inflate(compressed, len(compressed)*3+64, len(compressed)*20+4096, d.options.ConfirmAdler)
	if err != nil {
		return 0, err
	}
	d.info.ZtxtChunks = append(d.info.ZtxtChunks, ZtxtChunk{Keyword: keyword, Text: text})
	return h.length, nil
}

// parseTEXT reads an uncompressed Latin-1 text chunk, borrowed from the
// input buffer. Generalizes the teacher's TEXT struct, which split on the
// same null separator.
func (d *Decoder) parseTEXT(h chunkHeader) (int, error) {
	payload, err := d.cur.peekAt(0, h.length)
	if err != nil {
		return 0, err
	}
	keyword, text, ok := splitNul(payload)
	if !ok {
		return 0, badChunk("tEXt", "missing keyword terminator")
	}
	d.info.TextChunks = append(d.info.TextChunks, TextChunk{Keyword: keyword, Text: text})
	return h.length, nil
}

func splitNul(b []byte) (before, after []byte, ok bool) {
	i := bytes.IndexByte(b, 0)
	if i < 0 {
		return nil, nil, false
	}
	return b[:i], b[i+1:], true
}

// Dimensions returns the image's pixel width and height. ok is false until
// DecodeHeaders has run.
func (d *Decoder) Dimensions() (width, height int, ok bool) {
	if !d.seenHdr {
		return 0, 0, false
	}
	return d.info.Width, d.info.Height, true
}

// Depth returns the reported sample depth, widened from any sub-8 packed
// depth to DepthEight since the output buffer always stores one byte per
// sample at that point (spec.md's "no sub-8 output" non-goal).
func (d *Decoder) Depth() (BitDepth, bool) {
	if !d.seenHdr {
		return 0, false
	}
	return d.depthBits(), true
}

func (d *Decoder) depthBits() BitDepth {
	if d.info.Depth == 16 {
		return DepthSixteen
	}
	return DepthEight
}

// Colorspace returns the *output* colour space, after tRNS promotion.
func (d *Decoder) Colorspace() (ColorSpace, bool) {
	if !d.seenHdr {
		return 0, false
	}
	return d.colorspace(), true
}

func (d *Decoder) colorspace() ColorSpace {
	switch d.info.Color {
	case ColorPalette:
		if d.seenTrns {
			return SpaceRGBA
		}
		return SpaceRGB
	case ColorLuma:
		if d.seenTrns {
			return SpaceLumaAlpha
		}
		return SpaceLuma
	case ColorLumaAlpha:
		return SpaceLumaAlpha
	case ColorRGB:
		if d.seenTrns {
			return SpaceRGBA
		}
		return SpaceRGB
	case ColorRGBA:
		return SpaceRGBA
	default:
		return SpaceLuma
	}
}

// ByteEndian reports the concrete endian 16-bit samples were (or will be)
// written in, resolving Options.Native to the host's actual byte order.
func (d *Decoder) ByteEndian() (ByteEndian, bool) {
	if !d.seenHdr {
		return 0, false
	}
	return resolveEndian(d.options.ByteEndian), true
}

// Info returns the full metadata populated by DecodeHeaders.
func (d *Decoder) Info() (PngInfo, bool) {
	if !d.seenHdr {
		return PngInfo{}, false
	}
	return d.info, true
}

// OutputBufferSize returns the exact byte length DecodeInto requires.
func (d *Decoder) OutputBufferSize() (int, bool) {
	if !d.seenHdr {
		return 0, false
	}
	bytesPerSample := 1
	if d.depthBits() == DepthSixteen {
		bytesPerSample = 2
	}
	return d.info.Width * d.info.Height * d.colorspace().NumComponents() * bytesPerSample, true
}

// DecodeInto inflates and reconstructs pixel data directly into out, which
// must be at least OutputBufferSize() bytes. Calls DecodeHeaders first if it
// has not already run.
//
// Grounded on zune-png/src/decoder.rs::decode_into's headers-then-inflate-
// then-reconstruct-then-endian-finalise sequence.
func (d *Decoder) DecodeInto(out []byte) error {
	if !d.seenHeaders {
		if err := d.DecodeHeaders(); err != nil {
			return err
		}
	}

	required, _ := d.OutputBufferSize()
	if len(out) < required {
		return errors.WithStack(&TooSmallOutput{Required: required, Given: len(out)})
	}
	if d.info.Color == ColorPalette && len(d.palette) == 0 {
		return errors.WithStack(ErrEmptyPalette)
	}

	log := d.options.logger()
	log.Info("input colourspace", "color", d.info.Color)
	log.Info("output colourspace", "space", d.colorspace())

	bytesPerSample := 1
	if d.depthBits() == DepthSixteen {
		bytesPerSample = 2
	}

	// size_hint mirrors the original decoder's inflate() sizing: one filter
	// byte plus the packed row for every scanline. Adam7 splits each image
	// row across seven independently-filtered passes, so its total filter-
	// byte overhead is computed per pass rather than assumed equal to the
	// non-interlaced case.
	sizeHint := d.filteredSizeHint()
	limit := sizeHint + sizeHint/4 + 64

	inflated, err := inflate(d.idat, sizeHint, limit, d.options.ConfirmAdler)
	if err != nil {
		return err
	}
	d.idat = nil

	if d.info.InterlaceMethod == InterlaceAdam7 {
		if err := d.decodeInterlaced(inflated, out[:required]); err != nil {
			return err
		}
	} else {
		if err := d.decodeStandard(inflated, out[:required]); err != nil {
			return err
		}
	}

	if bytesPerSample == 2 {
		beU16ToTarget(out[:required], d.options.ByteEndian)
	}
	return nil
}

// filteredSizeHint returns the exact number of inflated bytes a well-formed
// IDAT stream produces for this image: one filter byte plus a packed row
// per scanline, summed per Adam7 pass when interlaced.
func (d *Decoder) filteredSizeHint() int {
	if d.info.InterlaceMethod != InterlaceAdam7 {
		rowBytes := packedRowStride(d.info.Width, d.info.Component, d.info.Depth) + 1
		return rowBytes * d.info.Height
	}

	total := 0
	for _, plan := range adam7Plan(d.info.Width, d.info.Height) {
		rowBytes := packedRowStride(plan.width, d.info.Component, d.info.Depth) + 1
		total += rowBytes * plan.height
	}
	return total
}

// DecodeRaw allocates a fresh output buffer and decodes into it.
func (d *Decoder) DecodeRaw() ([]byte, error) {
	if !d.seenHeaders {
		if err := d.DecodeHeaders(); err != nil {
			return nil, err
		}
	}
	size, _ := d.OutputBufferSize()
	out := make([]byte, size)
	if err := d.DecodeInto(out); err != nil {
		return nil, err
	}
	return out, nil
}

// DecodeResult is a tagged union of the two possible sample widths a decode
// can produce, since Go has no sum type to mirror the original decoder's
// DecodingResult enum: exactly one of Bytes (8-bit samples) or Samples
// (16-bit samples, in host uint16 form) is populated.
type DecodeResult struct {
	Bytes   []byte
	Samples []uint16
	Is16    bool
}

// Decode runs DecodeRaw and, for 16-bit images, additionally unpacks the
// byte buffer into host uint16 samples using the resolved output endian.
func (d *Decoder) Decode() (DecodeResult, error) {
	buf, err := d.DecodeRaw()
	if err != nil {
		return DecodeResult{}, err
	}
	if d.depthBits() != DepthSixteen {
		return DecodeResult{Bytes: buf}, nil
	}

	endian := resolveEndian(d.options.ByteEndian)
	samples := make([]uint16, len(buf)/2)
	for i := range samples {
		if endian == BigEndian {
			samples[i] = binary.BigEndian.Uint16(buf[i*2:])
		} else {
			samples[i] = binary.LittleEndian.Uint16(buf[i*2:])
		}
	}
	return DecodeResult{Samples: samples, Is16: true}, nil
}

// packedRowStride is the byte length of one scanline's packed sample data,
// before any filter byte, sub-byte expansion, or post-processing.
func packedRowStride(width, components int, depth uint8) int {
	bits := width * components * int(depth)
	return (bits + 7) / 8
}

// packedFilterStride is the "bytes per pixel" distance unfilterRow uses to
// find a scanline's left neighbour: the true pixel stride at depths >= 8,
// or 1 at sub-byte depths since filtering happens before bit expansion.
func packedFilterStride(components int, depth uint8, bytesPerSample int) int {
	if depth < 8 {
		return 1
	}
	return components * bytesPerSample
}

// decodeStandard reconstructs a non-interlaced image: one filter byte plus
// packed row per scanline, fed through unfilterRow and then, if the colour
// type or depth requires it, through the post-processing expansion in
// postProcessRow. Each row is post-processed as soon as it is unfiltered:
// the raw reconstructed rows live in separate prev/cur buffers, so the next
// row's filter never sees expanded output and no one-row lag is needed.
//
// Grounded on zune-png/src/decoder.rs::create_png_image_raw's row loop;
// fumin-png/reader.go's DecodeRow supplied the filter-switch shape that
// unfilterRow generalizes.
func (d *Decoder) decodeStandard(inflated, out []byte) error {
	width, height := d.info.Width, d.info.Height
	depth := d.info.Depth
	components := d.info.Component
	bytesPerSample := 1
	if depth == 16 {
		bytesPerSample = 2
	}

	packedStride := packedRowStride(width, components, depth)
	filterStride := packedFilterStride(components, depth, bytesPerSample)
	midStride := width * components * bytesPerSample
	outComponents := d.colorspace().NumComponents()
	outStride := width * outComponents * bytesPerSample

	willPostProcess := d.seenTrns || d.info.Color == ColorPalette || depth < 8

	prev := make([]byte, packedStride)
	cur := make([]byte, packedStride)
	var mid []byte
	if willPostProcess {
		mid = make([]byte, midStride)
	}

	pos := 0
	for y := 0; y < height; y++ {
		if pos >= len(inflated) {
			return errors.WithStack(ErrNotEnoughBytes)
		}
		filter, ok := filterFromByte(inflated[pos])
		if !ok {
			return badChunk("IDAT", "unrecognised scanline filter byte")
		}
		pos++
		if pos+packedStride > len(inflated) {
			return genericf("inflated stream too short for row %d: need %d more bytes, have %d", y, packedStride, len(inflated)-pos)
		}
		raw := inflated[pos : pos+packedStride]
		pos += packedStride

		if err := unfilterRow(filter, raw, prev, cur, filterStride, y == 0); err != nil {
			return err
		}

		outRow := out[y*outStride : (y+1)*outStride]
		if err := d.postProcessRow(cur, mid, outRow, width, components, depth, willPostProcess); err != nil {
			return err
		}

		prev, cur = cur, prev
	}
	return nil
}

// decodeInterlaced reconstructs an Adam7 image one pass at a time, each
// pass using its own reduced width/height, then scatters every pass row
// into its final position in out.
//
// Grounded on zune-png/src/decoder.rs::decode_interlaced.
func (d *Decoder) decodeInterlaced(inflated, out []byte) error {
	width, height := d.info.Width, d.info.Height
	depth := d.info.Depth
	components := d.info.Component
	bytesPerSample := 1
	if depth == 16 {
		bytesPerSample = 2
	}
	outComponents := d.colorspace().NumComponents()
	outPixStride := outComponents * bytesPerSample
	outStride := width * outPixStride

	willPostProcess := d.seenTrns || d.info.Color == ColorPalette || depth < 8

	pos := 0
	for _, plan := range adam7Plan(width, height) {
		packedStride := packedRowStride(plan.width, components, depth)
		filterStride := packedFilterStride(components, depth, bytesPerSample)
		midStride := plan.width * components * bytesPerSample
		passOutStride := plan.width * outPixStride

		prev := make([]byte, packedStride)
		cur := make([]byte, packedStride)
		var mid []byte
		if willPostProcess {
			mid = make([]byte, midStride)
		}
		passOutRow := make([]byte, passOutStride)

		for row := 0; row < plan.height; row++ {
			if pos >= len(inflated) {
				return errors.WithStack(ErrNotEnoughBytes)
			}
			filter, ok := filterFromByte(inflated[pos])
			if !ok {
				return badChunk("IDAT", "unrecognised scanline filter byte")
			}
			pos++
			if pos+packedStride > len(inflated) {
				return genericf("inflated stream too short for pass %d row %d: need %d more bytes, have %d", plan.pass, row, packedStride, len(inflated)-pos)
			}
			raw := inflated[pos : pos+packedStride]
			pos += packedStride

			if err := unfilterRow(filter, raw, prev, cur, filterStride, row == 0); err != nil {
				return err
			}
			if err := d.postProcessRow(cur, mid, passOutRow, plan.width, components, depth, willPostProcess); err != nil {
				return err
			}

			scatterRow(out, outStride, outPixStride, plan, row, passOutRow)
			prev, cur = cur, prev
		}
	}
	return nil
}

// postProcessRow turns one reconstructed, still-packed scanline into its
// final output form: sub-byte samples are unpacked to one byte each, then
// palette indices or a tRNS key are expanded into full colour (+ alpha)
// samples. Rows that need none of this are copied through unchanged.
func (d *Decoder) postProcessRow(packed, mid, outRow []byte, width, components int, depth uint8, willPostProcess bool) error {
	if !willPostProcess {
		copy(outRow, packed)
		return nil
	}

	var expanded []byte
	if depth < 8 {
		expandBitsToByte(width, int(depth), components, packed, mid)
		expanded = mid
	} else {
		copy(mid, packed)
		expanded = mid
	}

	switch {
	case d.info.Color == ColorPalette:
		outBytes := 3
		if d.seenTrns {
			outBytes = 4
		}
		return expandPalette(expanded, outRow, d.palette, outBytes)
	case d.seenTrns:
		expandTrns(expanded, outRow, d.info.Color, d.trns, depth)
		return nil
	default:
		copy(outRow, expanded)
		return nil
	}
}
