package pngdecode

// Adam7 pass geometry: the starting offset and pixel spacing of each of the
// seven interlace passes, in raster order.
//
// Grounded on zune-png/src/decoder.rs::decode_interlaced; no repo in the
// retrieved corpus implements Adam7, so this is built directly from the
// original decoder rather than adapted from any Go source.
var (
	adam7XOrig = [7]int{0, 4, 0, 2, 0, 1, 0}
	adam7YOrig = [7]int{0, 0, 4, 0, 2, 0, 1}
	adam7XSpc  = [7]int{8, 8, 4, 4, 2, 2, 1}
	adam7YSpc  = [7]int{8, 8, 8, 4, 4, 2, 2}
)

// adam7PassDims returns the pixel width and height of one interlace pass's
// reduced subimage, saturating to zero when the full image is too small for
// that pass to contribute any pixels.
func adam7PassDims(pass, width, height int) (int, int) {
	xOrig, yOrig := adam7XOrig[pass], adam7YOrig[pass]
	xSpc, ySpc := adam7XSpc[pass], adam7YSpc[pass]

	w := 0
	if width > xOrig {
		w = (width - xOrig + xSpc - 1) / xSpc
	}
	h := 0
	if height > yOrig {
		h = (height - yOrig + ySpc - 1) / ySpc
	}
	return w, h
}

// adam7ScatterPlan describes where one pass's decoded pixels land in the
// final, non-interlaced raster.
type adam7ScatterPlan struct {
	pass          int
	width, height int
	xOrig, yOrig  int
	xSpc, ySpc    int
}

// adam7Plan computes the seven-pass layout for an image of the given pixel
// dimensions, skipping passes that contribute zero pixels.
func adam7Plan(width, height int) []adam7ScatterPlan {
	plans := make([]adam7ScatterPlan, 0, 7)
	for pass := 0; pass < 7; pass++ {
		w, h := adam7PassDims(pass, width, height)
		if w == 0 || h == 0 {
			continue
		}
		plans = append(plans, adam7ScatterPlan{
			pass:   pass,
			width:  w,
			height: h,
			xOrig:  adam7XOrig[pass],
			yOrig:  adam7YOrig[pass],
			xSpc:   adam7XSpc[pass],
			ySpc:   adam7YSpc[pass],
		})
	}
	return plans
}

// scatterRow copies one fully-expanded, promoted-colourspace pass row into
// its positions in the final raster. bytesPerPixel is the *output* pixel
// stride (after palette/tRNS promotion and sub-byte expansion), matching the
// stride create_png_image_raw's scatter loop uses once post-processing has
// already run per pass.
func scatterRow(dst []byte, outStride, bytesPerPixel int, plan adam7ScatterPlan, passRow int, passRowData []byte) {
	y := plan.yOrig + passRow*plan.ySpc
	rowStart := y * outStride
	for x := 0; x < plan.width; x++ {
		dstX := plan.xOrig + x*plan.xSpc
		srcOff := x * bytesPerPixel
		dstOff := rowStart + dstX*bytesPerPixel
		copy(dst[dstOff:dstOff+bytesPerPixel], passRowData[srcOff:srcOff+bytesPerPixel])
	}
}
