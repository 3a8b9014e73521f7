package render

import (
	"bytes"
	"image/color"
	"image/png"
	"testing"

	"github.com/duetags/duetags/internal/layout"
)

func rendered(shape layout.Shape) layout.Rendered {
	tpl := layout.Template{
		ID:     "test",
		Shape:  shape,
		Width:  8,
		Height: 4,
		Region: layout.Region{Left: 0.5, Top: 0.5, Width: 7, Height: 3},
		Fields: []layout.Field{layout.FieldName},
		MaxFontSize: map[layout.Field]float64{
			layout.FieldName: 48,
		},
		CharacterRatio: 0.5,
	}
	if shape == layout.ShapeRound {
		tpl.Width, tpl.Height = 5, 5
	}
	return layout.Layout(tpl, layout.Customization{
		Fields: map[layout.Field]string{layout.FieldName: "Helena"},
	}, 1)
}

func TestPNGDimensions(t *testing.T) {
	r := rendered(layout.ShapeRectangular)
	data, err := PNG(r, Options{Background: "#fde68a", TextColor: "#111827"})
	if err != nil {
		t.Fatalf("PNG: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if img.Bounds().Dx() != 303 || img.Bounds().Dy() != 152 {
		t.Errorf("bounds = %v, expected 303x152 (ceil of 302.4x151.2)", img.Bounds())
	}
}

func TestPNGRoundCornersTransparent(t *testing.T) {
	r := rendered(layout.ShapeRound)
	data, err := PNG(r, Options{Background: "#14b8a6"})
	if err != nil {
		t.Fatalf("PNG: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	_, _, _, a := img.At(0, 0).RGBA()
	if a != 0 {
		t.Errorf("corner not transparent on round label")
	}
	b := img.Bounds()
	_, _, _, a = img.At(b.Dx()/2, b.Dy()/2).RGBA()
	if a == 0 {
		t.Errorf("center transparent on round label")
	}
}

func TestPNGRejectsEmptyGeometry(t *testing.T) {
	if _, err := PNG(layout.Rendered{}, Options{}); err == nil {
		t.Fatal("expected error for zero dimensions")
	}
}

func TestParseHex(t *testing.T) {
	fallback := color.RGBA{1, 2, 3, 255}
	tests := []struct {
		in       string
		expected color.RGBA
	}{
		{"#ffffff", color.RGBA{255, 255, 255, 255}},
		{"ef4444", color.RGBA{239, 68, 68, 255}},
		{"#abc", color.RGBA{170, 187, 204, 255}},
		{"", fallback},
		{"#zzz", fallback},
		{"#12345", fallback},
	}
	for _, tt := range tests {
		if got := parseHex(tt.in, fallback); got != tt.expected {
			t.Errorf("parseHex(%q) = %v, expected %v", tt.in, got, tt.expected)
		}
	}
}
