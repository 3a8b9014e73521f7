package layout

import (
	"math"
	"unicode/utf8"
)

const (
	// MinFontSize is the readable floor for any fitted text, in pixels.
	MinFontSize = 10.0

	baseFontSize      = 60.0
	smallBaseFontSize = 30.0

	// MaxFieldLen caps every personalization field, in runes.
	MaxFieldLen = 20
)

// FitFontSize returns a font size in pixels at which text plausibly fits a
// content region maxWidthPx wide. The result is always within
// [MinFontSize, maxFontPx].
//
// This is a heuristic, not glyph measurement: very long strings in wide
// fonts may still overflow visually. That risk is accepted; an exact fit
// would need real text metrics and would change every output value.
//
// The field argument does not enter the size math; it exists so callers can
// select per-field branches (merged lines, per-field maximums) uniformly.
func FitFontSize(text string, maxWidthPx float64, shape Shape, field Field, maxFontPx float64, visibleFields int) float64 {
	_ = field
	if visibleFields < 1 {
		visibleFields = 1
	}
	n := utf8.RuneCountInString(text)
	if n == 0 || maxWidthPx <= 0 {
		// empty text would divide by zero below; callers skip rendering it
		return MinFontSize
	}

	base := baseFontSize
	if shape == ShapeSmall {
		base = smallBaseFontSize
	}
	base /= math.Sqrt(float64(visibleFields))

	lengthEst := base / math.Max(1, float64(n)/20.0)
	widthEst := maxWidthPx / float64(n) * 1.5

	var size float64
	switch shape {
	case ShapeRound:
		// round labels size from the region radius instead
		radius := maxWidthPx / 2
		size = radius / math.Sqrt(float64(n)) * 0.9
	default:
		size = math.Min(lengthEst, widthEst)
	}

	if size > maxFontPx {
		size = maxFontPx
	}
	if size < MinFontSize {
		size = MinFontSize
	}
	return size
}

// Truncate caps a field value at MaxFieldLen runes.
func Truncate(s string) string {
	if utf8.RuneCountInString(s) <= MaxFieldLen {
		return s
	}
	runes := []rune(s)
	return string(runes[:MaxFieldLen])
}
