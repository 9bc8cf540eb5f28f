package pngdecode

import "testing"

func TestAdam7PassDimsSumsToFullImage(t *testing.T) {
	width, height := 8, 8
	total := 0
	for pass := 0; pass < 7; pass++ {
		w, h := adam7PassDims(pass, width, height)
		total += w * h
	}
	if total != width*height {
		t.Fatalf("sum of pass pixel counts = %d, want %d", total, width*height)
	}
}

func TestAdam7PlanSkipsEmptyPasses(t *testing.T) {
	// A 1x1 image only has content in pass 0 (xOrig=yOrig=0); every other
	// pass's reduced subimage is empty and must be skipped, not sized zero.
	plans := adam7Plan(1, 1)
	if len(plans) != 1 {
		t.Fatalf("expected 1 surviving pass for a 1x1 image, got %d", len(plans))
	}
	if plans[0].pass != 0 || plans[0].width != 1 || plans[0].height != 1 {
		t.Fatalf("unexpected plan: %+v", plans[0])
	}
}

func TestScatterRowPlacesPixelsAtExpectedOffsets(t *testing.T) {
	width, height := 8, 8
	const bpp = 1
	out := make([]byte, width*height*bpp)

	for _, plan := range adam7Plan(width, height) {
		for row := 0; row < plan.height; row++ {
			passRow := make([]byte, plan.width*bpp)
			for x := range passRow {
				// Encode the pass index into every pixel so we can check
				// each final pixel came from the pass that should own it.
				passRow[x] = byte(plan.pass + 1)
			}
			scatterRow(out, width*bpp, bpp, plan, row, passRow)
		}
	}

	for i, v := range out {
		if v == 0 {
			t.Fatalf("pixel %d was never written by any pass", i)
		}
		x, y := i%width, i/width
		var want byte
		for pass := 0; pass < 7; pass++ {
			if x >= adam7XOrig[pass] && (x-adam7XOrig[pass])%adam7XSpc[pass] == 0 &&
				y >= adam7YOrig[pass] && (y-adam7YOrig[pass])%adam7YSpc[pass] == 0 {
				want = byte(pass + 1)
			}
		}
		if v != want {
			t.Fatalf("pixel (%d,%d) written by pass %d, want pass %d", x, y, v-1, want-1)
		}
	}
}
