// Package layout computes pixel geometry for printable labels: font sizes
// that fit customer text into a template's content region, and placement of
// the character graphic. Everything here is a pure function of
// (template, customization, zoom); nothing is mutated.
package layout

import (
	"fmt"
	"strings"
)

// PxPerUnit converts catalog length units (centimeters) to CSS pixels at
// 96 DPI: 96 / 2.54.
const PxPerUnit = 37.8

// UnitsToPixels converts a template length to pixels under the given zoom.
// Zoom scales label and content region identically so proportions hold.
func UnitsToPixels(v, zoom float64) float64 {
	return v * PxPerUnit * zoom
}

// PixelsToUnits is the inverse conversion. It is only used for
// human-readable display, never fed back into layout math.
func PixelsToUnits(px, zoom float64) float64 {
	return px / (PxPerUnit * zoom)
}

// DisplaySize renders pixel dimensions as a unit string like "8cm x 4cm".
func DisplaySize(wPx, hPx, zoom float64) string {
	return trimZeros(PixelsToUnits(wPx, zoom)) + "cm x " + trimZeros(PixelsToUnits(hPx, zoom)) + "cm"
}

func trimZeros(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	s = strings.TrimRight(s, "0")
	return strings.TrimRight(s, ".")
}
