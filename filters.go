package pngdecode

// unfilterRow undoes one scanline's adaptive filter in place into dst, given
// the raw (post-filter-byte) bytes of the current row and the previous row's
// already-reconstructed bytes (nil/empty on the first row). stride is the
// byte distance to the "left" neighbour for this row (spec.md §4.5: equal to
// bytes-per-pixel for depths >= 8, always 1 for sub-byte depths, since
// reconstruction happens at byte granularity before bit expansion).
//
// Grounded on fumin-png/reader.go's DecodeRow filter switch
// (ftNone/ftSub/ftUp/ftAverage/ftPaeth with a bytesPerPixel stride),
// generalized with the first-row specialisations from
// zune-png/src/decoder.rs::create_png_image_raw.
func unfilterRow(filter FilterMethod, raw, prevRow, dst []byte, stride int, firstRow bool) error {
	if firstRow {
		switch filter {
		case FilterUp:
			filter = FilterNone
		case FilterAverage:
			filter = filterAvgFirst
		case FilterPaeth:
			filter = filterPaethFirst
		}
	}

	switch filter {
	case FilterNone:
		copy(dst, raw)

	case FilterSub:
		for i := range raw {
			var a byte
			if i >= stride {
				a = dst[i-stride]
			}
			dst[i] = raw[i] + a
		}

	case FilterUp:
		for i := range raw {
			dst[i] = raw[i] + prevRow[i]
		}

	case FilterAverage:
		for i := range raw {
			var a, b int
			if i >= stride {
				a = int(dst[i-stride])
			}
			b = int(prevRow[i])
			dst[i] = raw[i] + byte((a+b)/2)
		}

	case filterAvgFirst:
		for i := range raw {
			var a int
			if i >= stride {
				a = int(dst[i-stride])
			}
			dst[i] = raw[i] + byte(a/2)
		}

	case FilterPaeth:
		for i := range raw {
			var a, b, c int
			if i >= stride {
				a = int(dst[i-stride])
				c = int(prevRow[i-stride])
			}
			b = int(prevRow[i])
			dst[i] = raw[i] + paeth(a, b, c)
		}

	case filterPaethFirst:
		// Equivalent to Sub: b = c = 0, so paeth(a,0,0) always picks a.
		for i := range raw {
			var a byte
			if i >= stride {
				a = dst[i-stride]
			}
			dst[i] = raw[i] + a
		}

	default:
		return genericStatic("unknown filter type")
	}
	return nil
}

// paeth is the Paeth predictor: it picks whichever of a, b, c minimises
// |p - candidate| where p = a + b - c, ties resolved in order a, b, c
// (spec.md §4.5).
func paeth(a, b, c int) byte {
	p := a + b - c
	pa := abs(p - a)
	pb := abs(p - b)
	pc := abs(p - c)

	if pa <= pb && pa <= pc {
		return byte(a)
	}
	if pb <= pc {
		return byte(b)
	}
	return byte(c)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
