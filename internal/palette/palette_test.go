package palette

import "testing"

func TestMedianCutTwoPixelImage(t *testing.T) {
	pixels := []byte{
		0, 0, 0,
		255, 255, 255,
	}
	p := New(2, 2, 1, pixels)
	if p.Len() != 2 {
		t.Fatalf("got %d entries, want 2", p.Len())
	}
	entries := p.Entries()
	if entries[0] != (Entry{0, 0, 0}) {
		t.Fatalf("entry 0 = %+v, want black", entries[0])
	}
	if entries[1] != (Entry{255, 255, 255}) {
		t.Fatalf("entry 1 = %+v, want white", entries[1])
	}
}

func TestMedianCutMultiPixelBucketTakesLastPixel(t *testing.T) {
	// Four pixels varying only in R, already in ascending order, split into
	// two 2-pixel buckets: [0,50) and [200,255). Each bucket's representative
	// color is its last pixel after sorting, not an average of the two.
	pixels := []byte{
		0, 0, 0,
		50, 0, 0,
		200, 0, 0,
		255, 0, 0,
	}
	p := New(2, 4, 1, pixels)
	if p.Len() != 2 {
		t.Fatalf("got %d entries, want 2", p.Len())
	}
	entries := p.Entries()
	if entries[0] != (Entry{50, 0, 0}) {
		t.Fatalf("entry 0 = %+v, want {50,0,0}", entries[0])
	}
	if entries[1] != (Entry{255, 0, 0}) {
		t.Fatalf("entry 1 = %+v, want {255,0,0}", entries[1])
	}
}

func TestPaletteSizeForManyDistinctColors(t *testing.T) {
	width, height := 8, 8
	pixels := make([]byte, 0, width*height*3)
	for i := 0; i < width*height; i++ {
		// 64 distinct gradient colors, far more than 16.
		v := byte(i * 4 % 256)
		pixels = append(pixels, v, byte(255-v), byte(v/2))
	}
	p := New(16, width, height, pixels)
	if p.Len() != 16 {
		t.Fatalf("got %d entries, want 16", p.Len())
	}
}

func TestPaletteFewerThanKForFlatImage(t *testing.T) {
	// A flat image with fewer pixels than K: median-cut splits until every
	// bucket holds one pixel, giving one entry per pixel, and must not
	// fabricate empty-bucket sentinels.
	width, height := 3, 1
	pixels := make([]byte, width*height*3)
	for i := range pixels {
		pixels[i] = 42
	}
	p := New(16, width, height, pixels)
	if p.Len() != 3 {
		t.Fatalf("got %d entries, want 3 for a 3-pixel flat image", p.Len())
	}
	for i, e := range p.Entries() {
		if e != (Entry{42, 42, 42}) {
			t.Fatalf("entry %d = %+v, want {42,42,42}", i, e)
		}
	}
}

func TestIndexImageHexDigitsAndShape(t *testing.T) {
	width, height := 5, 3
	pixels := make([]byte, 0, width*height*3)
	for i := 0; i < width*height; i++ {
		pixels = append(pixels, byte(i*17), byte(i*23), byte(i*29))
	}
	p := New(16, width, height, pixels)
	rows := p.IndexRowsHex(width, height, pixels)

	if len(rows) != height {
		t.Fatalf("got %d rows, want %d", len(rows), height)
	}
	for y, row := range rows {
		if len(row) != width {
			t.Fatalf("row %d length %d, want %d", y, len(row), width)
		}
		for _, c := range row {
			if !((c >= '0' && c <= '9') || (c >= 'a' && c <= 'f')) {
				t.Fatalf("row %d contains non-hex char %q", y, c)
			}
		}
	}
}

func TestIndexImageRoundTripsToLookedUpIndex(t *testing.T) {
	width, height := 4, 4
	pixels := make([]byte, 0, width*height*3)
	for i := 0; i < width*height; i++ {
		pixels = append(pixels, byte(i*11), byte(i*19), byte(i*37))
	}
	p := New(16, width, height, pixels)
	indices := p.IndexImage(width, height, pixels)
	rows := p.IndexRowsHex(width, height, pixels)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			want := indices[y*width+x]
			gotChar := rows[y][x]
			got := byte(0)
			switch {
			case gotChar >= '0' && gotChar <= '9':
				got = gotChar - '0'
			default:
				got = gotChar - 'a' + 10
			}
			if got != want {
				t.Fatalf("(%d,%d): hex row decodes to %d, want %d", x, y, got, want)
			}
		}
	}
}

func TestBayerDitherProducesStructuredPattern(t *testing.T) {
	// A flat 50%-gray image dithered against a pure black/white palette
	// must produce a spatially structured (not uniform) pattern, and the
	// most negatively offset cell in the matrix, (0,0) with entry -0.5, must
	// be at least as biased toward the darker palette entry as the most
	// positively offset cell, (0,3) with entry +0.4375 (δ is the entry / K).
	bw := &Palette{
		entries: []Entry{{0, 0, 0}, {255, 255, 255}},
	}
	bw.oklab = []oklab{toOklab(rgb{0, 0, 0}), toOklab(rgb{255, 255, 255})}
	bw.index = newNearestIndex(bw.oklab)

	width, height := 8, 8
	pixels := make([]byte, width*height*3)
	for i := range pixels {
		pixels[i] = 128
	}

	idx := bw.IndexImage(width, height, pixels)

	distinct := map[byte]bool{}
	for _, v := range idx {
		distinct[v] = true
	}
	if len(distinct) < 2 {
		t.Fatalf("dithering a 50%% gray flat image produced no variation: %v", distinct)
	}

	darkest := idx[0*width+0]  // (x=0,y=0): δ=-0.5/2
	lightest := idx[0*width+3] // (x=3,y=0): δ=+0.4375/2
	if darkest > lightest {
		t.Fatalf("cell with most-negative δ (index %d) is not darker than cell with most-positive δ (index %d)", darkest, lightest)
	}
}
