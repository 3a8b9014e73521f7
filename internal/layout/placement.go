package layout

import "math"

const (
	// MinGraphicSize is the smallest the character graphic may be resized
	// to, in pixels.
	MinGraphicSize = 24.0

	graphicInsetPx        = 20.0
	roundBottomMarginPx   = PxPerUnit // one unit above the bottom edge
)

// Box is an axis-aligned rectangle in label pixel space.
type Box struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// PlaceGraphic computes the initial position and size of the character
// graphic for a label of the given pixel dimensions. proportion is the
// fraction of the label height the graphic occupies; footerRatio anchors the
// small variant above its footer band. The result never extends outside the
// label.
func PlaceGraphic(labelW, labelH float64, proportion float64, shape Shape, footerRatio float64) Box {
	h := labelH * proportion
	// square aspect; cap at the label so oversized ratios stay inside
	max := math.Min(labelW, labelH)
	if h > max {
		h = max
	}
	if h < 0 {
		h = 0
	}
	w := h

	var x, y float64
	switch shape {
	case ShapeRound:
		x = (labelW - w) / 2
		y = labelH - h - roundBottomMarginPx
	case ShapeSmall:
		x = graphicInsetPx
		y = labelH - h - labelH*footerRatio
	default:
		x = graphicInsetPx
		y = (labelH - h) / 2
	}

	return Box{
		X: clampOffset(x, labelW-w),
		Y: clampOffset(y, labelH-h),
		W: w,
		H: h,
	}
}

// MoveTo returns a copy of the box moved to (x, y), clamped so the box stays
// inside the label. Last write wins; there is no drag history.
func (b Box) MoveTo(x, y, labelW, labelH float64) Box {
	b.X = clampOffset(x, labelW-b.W)
	b.Y = clampOffset(y, labelH-b.H)
	return b
}

// ResizeTo returns a copy resized to (w, h), bounded below by MinGraphicSize
// and above by the label dimensions, then re-clamped in place.
func (b Box) ResizeTo(w, h, labelW, labelH float64) Box {
	b.W = clampSize(w, labelW)
	b.H = clampSize(h, labelH)
	b.X = clampOffset(b.X, labelW-b.W)
	b.Y = clampOffset(b.Y, labelH-b.H)
	return b
}

func clampOffset(v, max float64) float64 {
	if max < 0 {
		max = 0
	}
	if v < 0 {
		return 0
	}
	if v > max {
		return max
	}
	return v
}

func clampSize(v, max float64) float64 {
	if v < MinGraphicSize {
		v = MinGraphicSize
	}
	if v > max {
		v = max
	}
	return v
}
