// Package render rasterizes laid-out labels to PNG for the etiquetas bucket.
package render

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"math"
	"strconv"
	"strings"
	"sync"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/duetags/duetags/internal/layout"
)

var (
	fontOnce   sync.Once
	fontParsed *opentype.Font
	fontErr    error
)

func baseFont() (*opentype.Font, error) {
	fontOnce.Do(func() {
		fontParsed, fontErr = opentype.Parse(goregular.TTF)
	})
	return fontParsed, fontErr
}

// Options selects colors and the optional character graphic for one label.
type Options struct {
	Background string // hex, e.g. "#fde68a"
	TextColor  string // hex
	Character  []byte // decoded with image/*; composited into the graphic box
}

// PNG rasterizes the rendered geometry. Text uses the embedded Go Regular
// face at the engine-fitted sizes; the font chosen in the UI only affects the
// browser preview, exports are normalized for production.
func PNG(r layout.Rendered, opts Options) ([]byte, error) {
	w := int(math.Ceil(r.Width))
	h := int(math.Ceil(r.Height))
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("etiqueta sem dimensões: %vx%v", r.Width, r.Height)
	}

	bg := parseHex(opts.Background, color.RGBA{255, 255, 255, 255})
	fg := parseHex(opts.TextColor, color.RGBA{17, 24, 39, 255})

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	if r.Shape == layout.ShapeRound {
		fillCircle(img, bg)
	} else {
		xdraw.Draw(img, img.Bounds(), image.NewUniform(bg), image.Point{}, xdraw.Src)
	}

	if len(opts.Character) > 0 {
		if err := drawCharacter(img, opts.Character, r.Graphic); err != nil {
			return nil, err
		}
	}

	fnt, err := baseFont()
	if err != nil {
		return nil, err
	}
	for _, tb := range r.Texts {
		if tb.Text == "" {
			continue
		}
		face, err := opentype.NewFace(fnt, &opentype.FaceOptions{
			Size:    tb.FontSize,
			DPI:     96,
			Hinting: font.HintingFull,
		})
		if err != nil {
			return nil, err
		}
		drawCentered(img, face, tb, fg)
		_ = face.Close()
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// drawCentered paints one text line centered in its slot.
func drawCentered(img *image.RGBA, face font.Face, tb layout.TextBox, col color.RGBA) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(col),
		Face: face,
	}
	width := d.MeasureString(tb.Text)
	m := face.Metrics()
	x := fixed.I(int(tb.X)) + (fixed.I(int(tb.W))-width)/2
	// baseline centered in the slot
	y := fixed.I(int(tb.Y+tb.H/2)) + (m.Ascent-m.Descent)/2
	d.Dot = fixed.Point26_6{X: x, Y: y}
	d.DrawString(tb.Text)
}

func drawCharacter(img *image.RGBA, data []byte, box layout.Box) error {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("personagem: %w", err)
	}
	dst := image.Rect(int(box.X), int(box.Y), int(box.X+box.W), int(box.Y+box.H))
	xdraw.ApproxBiLinear.Scale(img, dst, src, src.Bounds(), xdraw.Over, nil)
	return nil
}

// fillCircle paints the inscribed circle, leaving corners transparent so the
// export matches the die-cut shape.
func fillCircle(img *image.RGBA, col color.RGBA) {
	b := img.Bounds()
	cx := float64(b.Dx()) / 2
	cy := float64(b.Dy()) / 2
	r := math.Min(cx, cy)
	r2 := r * r
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			dx := float64(x) + 0.5 - cx
			dy := float64(y) + 0.5 - cy
			if dx*dx+dy*dy <= r2 {
				img.SetRGBA(x, y, col)
			}
		}
	}
}

// parseHex reads #rgb or #rrggbb, falling back when malformed.
func parseHex(s string, fallback color.RGBA) color.RGBA {
	s = strings.TrimSpace(strings.TrimPrefix(s, "#"))
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) != 6 {
		return fallback
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return fallback
	}
	return color.RGBA{uint8(v >> 16), uint8(v >> 8), uint8(v), 255}
}
