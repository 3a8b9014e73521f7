package layout

import (
	"math"
	"testing"
)

func TestUnitRoundTrip(t *testing.T) {
	samples := []float64{0.5, 1, 2.54, 4, 8, 12.7, 25, 50}
	zooms := []float64{0.5, 1, 1.5, 2}
	for _, v := range samples {
		for _, z := range zooms {
			back := PixelsToUnits(UnitsToPixels(v, z), z)
			if math.Abs(back-v) > 0.01 {
				t.Errorf("round trip v=%v zoom=%v: got %v", v, z, back)
			}
		}
	}
}

func TestUnitsToPixels(t *testing.T) {
	if got := UnitsToPixels(1, 1); got != 37.8 {
		t.Errorf("1 unit = %v px, expected 37.8", got)
	}
	if got := UnitsToPixels(2, 1.5); math.Abs(got-113.4) > 1e-9 {
		t.Errorf("2 units at zoom 1.5 = %v px, expected 113.4", got)
	}
}

func TestDisplaySize(t *testing.T) {
	w := UnitsToPixels(8, 1)
	h := UnitsToPixels(4, 1)
	if got := DisplaySize(w, h, 1); got != "8cm x 4cm" {
		t.Errorf("DisplaySize = %q", got)
	}
	// zoom must not leak into the displayed physical size
	w = UnitsToPixels(8, 2)
	h = UnitsToPixels(4, 2)
	if got := DisplaySize(w, h, 2); got != "8cm x 4cm" {
		t.Errorf("DisplaySize under zoom = %q", got)
	}
}
