package resolution

import "testing"

func TestFixedAspectWidth(t *testing.T) {
	w, h := FixedAspect(AxisWidth, 160).Target(1920, 1080)
	if w != 160 || h != 90 {
		t.Fatalf("got (%d,%d), want (160,90)", w, h)
	}
}

func TestFixedAspectHeight(t *testing.T) {
	w, h := FixedAspect(AxisHeight, 90).Target(1920, 1080)
	if w != 160 || h != 90 {
		t.Fatalf("got (%d,%d), want (160,90)", w, h)
	}
}

func TestFixedResolution(t *testing.T) {
	w, h := FixedResolution(128, 72).Target(1920, 1080)
	if w != 128 || h != 72 {
		t.Fatalf("got (%d,%d), want (128,72)", w, h)
	}
	// FixedResolution ignores the source entirely.
	w, h = FixedResolution(128, 72).Target(320, 240)
	if w != 128 || h != 72 {
		t.Fatalf("got (%d,%d), want (128,72)", w, h)
	}
}

func TestFitLandscapeStaysInBounds(t *testing.T) {
	w, h := Fit(256, 192, 2.0/3.0).Target(1920, 1080)
	if w > 256 || h > 192 {
		t.Fatalf("Fit exceeded box: got (%d,%d)", w, h)
	}
	if w == 0 || h == 0 {
		t.Fatalf("Fit degenerated to zero: got (%d,%d)", w, h)
	}
}

func TestFitPortraitStaysInBounds(t *testing.T) {
	w, h := Fit(256, 192, 2.0/3.0).Target(1080, 1920)
	if w > 256 || h > 192 {
		t.Fatalf("Fit exceeded box: got (%d,%d)", w, h)
	}
	if w == 0 || h == 0 {
		t.Fatalf("Fit degenerated to zero: got (%d,%d)", w, h)
	}
}

func TestFitUsesTargetBoxNotSourceDimensions(t *testing.T) {
	// The Fit arm must derive its output from the requested box (width,
	// height), not from (originalWidth, originalHeight). A 4K source fit
	// into a tiny box must still land inside that tiny box.
	w, h := Fit(64, 48, 2.0/3.0).Target(3840, 2160)
	if w > 64 || h > 48 {
		t.Fatalf("Fit leaked source dimensions into output: got (%d,%d)", w, h)
	}
}
