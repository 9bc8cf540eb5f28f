package pngdecode

import "testing"

// applyFilterForward is the inverse of unfilterRow: it turns already-decoded
// scanline bytes back into their filtered (on-the-wire) form, so round-trip
// tests don't need a real PNG encoder.
func applyFilterForward(filter FilterMethod, cur, prev []byte, stride int) []byte {
	out := make([]byte, len(cur))
	for i := range cur {
		var a, b, c int
		if i >= stride {
			a = int(cur[i-stride])
		}
		if prev != nil {
			b = int(prev[i])
			if i >= stride {
				c = int(prev[i-stride])
			}
		}
		var pred byte
		switch filter {
		case FilterNone:
			pred = 0
		case FilterSub:
			pred = byte(a)
		case FilterUp:
			pred = byte(b)
		case FilterAverage:
			pred = byte((a + b) / 2)
		case FilterPaeth:
			pred = paeth(a, b, c)
		}
		out[i] = cur[i] - pred
	}
	return out
}

func TestUnfilterRowRoundTrip(t *testing.T) {
	stride := 3
	prevRow := []byte{10, 20, 30, 40, 50, 60, 70, 80, 90}
	wantRow := []byte{5, 200, 100, 255, 0, 128, 64, 32, 16}

	for _, f := range []FilterMethod{FilterNone, FilterSub, FilterUp, FilterAverage, FilterPaeth} {
		filtered := applyFilterForward(f, wantRow, prevRow, stride)
		got := make([]byte, len(wantRow))
		if err := unfilterRow(f, filtered, prevRow, got, stride, false); err != nil {
			t.Fatalf("filter %v: %v", f, err)
		}
		for i := range wantRow {
			if got[i] != wantRow[i] {
				t.Fatalf("filter %v: byte %d: got %d want %d", f, i, got[i], wantRow[i])
			}
		}
	}
}

func TestUnfilterRowFirstRowSpecialisation(t *testing.T) {
	stride := 3
	wantRow := []byte{5, 200, 100, 255, 0, 128, 64, 32, 16}
	zeroPrev := make([]byte, len(wantRow))

	for _, f := range []FilterMethod{FilterNone, FilterSub, FilterUp, FilterAverage, FilterPaeth} {
		// On the first row there is no previous row; Up/Average/Paeth treat
		// it as all-zero, which the forward filter models as a nil prev.
		filtered := applyFilterForward(f, wantRow, nil, stride)
		got := make([]byte, len(wantRow))
		if err := unfilterRow(f, filtered, zeroPrev, got, stride, true); err != nil {
			t.Fatalf("first-row filter %v: %v", f, err)
		}
		for i := range wantRow {
			if got[i] != wantRow[i] {
				t.Fatalf("first-row filter %v: byte %d: got %d want %d", f, i, got[i], wantRow[i])
			}
		}
	}
}

func TestPaethPredictor(t *testing.T) {
	cases := []struct {
		a, b, c int
		want    byte
	}{
		{0, 0, 0, 0},
		{10, 0, 0, 10},
		{0, 10, 0, 10},
		{0, 0, 10, 0},
		{10, 20, 0, 20},
	}
	for _, c := range cases {
		got := paeth(c.a, c.b, c.c)
		if got != c.want {
			t.Fatalf("paeth(%d,%d,%d) = %d, want %d", c.a, c.b, c.c, got, c.want)
		}
	}
}

func TestUnfilterRowRejectsUnknownFilter(t *testing.T) {
	raw := []byte{1, 2, 3}
	dst := make([]byte, 3)
	err := unfilterRow(FilterMethod(99), raw, nil, dst, 3, false)
	if err == nil {
		t.Fatalf("expected an error for an unrecognised filter byte")
	}
}
