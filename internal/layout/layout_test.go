package layout

import (
	"math"
	"testing"
)

func schoolTag() Template {
	return Template{
		ID:     "school-tag",
		Shape:  ShapeRectangular,
		Width:  8,
		Height: 4,
		Region: Region{Left: 2.5, Top: 0.5, Width: 5, Height: 3},
		Fields: []Field{FieldName, FieldComplement, FieldClass},
		MaxFontSize: map[Field]float64{
			FieldName:       48,
			FieldComplement: 28,
			FieldClass:      24,
		},
		CharacterRatio: 0.6,
	}
}

func TestLayoutGeometry(t *testing.T) {
	tpl := schoolTag()
	r := Layout(tpl, Customization{Fields: map[Field]string{FieldName: "Helena"}}, 1)

	if math.Abs(r.Width-8*PxPerUnit) > 1e-9 || math.Abs(r.Height-4*PxPerUnit) > 1e-9 {
		t.Fatalf("label px = %vx%v", r.Width, r.Height)
	}
	if math.Abs(r.Region.X-2.5*PxPerUnit) > 1e-9 || math.Abs(r.Region.W-5*PxPerUnit) > 1e-9 {
		t.Fatalf("region px = %+v", r.Region)
	}
	if len(r.Texts) != 1 {
		t.Fatalf("expected 1 line, got %d", len(r.Texts))
	}
	tb := r.Texts[0]
	if tb.Text != "Helena" || tb.FontSize > 48 || tb.FontSize < MinFontSize {
		t.Errorf("line = %+v", tb)
	}
	// single line takes the whole region slot
	if tb.H != r.Region.H || tb.Y != r.Region.Y {
		t.Errorf("slot = %+v vs region %+v", tb, r.Region)
	}
	inBounds(t, r.Graphic, r.Width, r.Height)
}

func TestLayoutSkipsEmptyFields(t *testing.T) {
	tpl := schoolTag()
	r := Layout(tpl, Customization{Fields: map[Field]string{
		FieldName:  "Helena",
		FieldClass: "3B",
	}}, 1)
	if len(r.Texts) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(r.Texts))
	}
	// two visible lines halve the slot height
	if r.Texts[0].H != r.Region.H/2 {
		t.Errorf("slot height = %v", r.Texts[0].H)
	}
	if r.Texts[1].Y != r.Region.Y+r.Region.H/2 {
		t.Errorf("second slot y = %v", r.Texts[1].Y)
	}
}

func TestLayoutMergedFields(t *testing.T) {
	tpl := schoolTag()
	tpl.MergedFields = []Field{FieldComplement, FieldClass}
	r := Layout(tpl, Customization{Fields: map[Field]string{
		FieldName:       "Helena",
		FieldComplement: "Souza",
		FieldClass:      "3B",
	}}, 1)

	if len(r.Texts) != 2 {
		t.Fatalf("expected 2 lines (name + merged), got %d", len(r.Texts))
	}
	merged := r.Texts[1]
	if merged.Text != "Souza 3B" {
		t.Errorf("merged text = %q", merged.Text)
	}
	if len(merged.Fields) != 2 {
		t.Errorf("merged fields = %v", merged.Fields)
	}
	// merged line obeys the smallest member maximum (class: 24)
	if merged.FontSize > 24 {
		t.Errorf("merged size %v exceeds member max 24", merged.FontSize)
	}
}

func TestLayoutZoomScalesUniformly(t *testing.T) {
	tpl := schoolTag()
	c := Customization{Fields: map[Field]string{FieldName: "Helena"}}
	r1 := Layout(tpl, c, 1)
	r2 := Layout(tpl, c, 2)

	if math.Abs(r2.Width-2*r1.Width) > 1e-9 || math.Abs(r2.Region.W-2*r1.Region.W) > 1e-9 {
		t.Fatalf("zoom broke proportions: %v/%v vs %v/%v", r1.Width, r1.Region.W, r2.Width, r2.Region.W)
	}
	// label and region keep the same ratio
	k1 := r1.Region.W / r1.Width
	k2 := r2.Region.W / r2.Width
	if math.Abs(k1-k2) > 1e-9 {
		t.Errorf("region ratio changed under zoom: %v vs %v", k1, k2)
	}
}

func TestLayoutUserGraphicScalesWithZoom(t *testing.T) {
	tpl := schoolTag()
	c := Customization{
		Fields:  map[Field]string{FieldName: "Helena"},
		Graphic: &Box{X: 100, Y: 50, W: 60, H: 60},
	}
	r1 := Layout(tpl, c, 1)
	r2 := Layout(tpl, c, 2)

	// the committed box keeps its relative geometry at any zoom
	if math.Abs(r2.Graphic.X/r2.Width-r1.Graphic.X/r1.Width) > 1e-9 {
		t.Errorf("relative x changed under zoom: %v vs %v", r1.Graphic.X/r1.Width, r2.Graphic.X/r2.Width)
	}
	if math.Abs(r2.Graphic.W/r2.Width-r1.Graphic.W/r1.Width) > 1e-9 {
		t.Errorf("relative width changed under zoom: %v vs %v", r1.Graphic.W/r1.Width, r2.Graphic.W/r2.Width)
	}
	if math.Abs(r2.Graphic.X-2*r1.Graphic.X) > 1e-9 || math.Abs(r2.Graphic.H-2*r1.Graphic.H) > 1e-9 {
		t.Errorf("graphic not scaled with zoom: %+v vs %+v", r1.Graphic, r2.Graphic)
	}
}

func TestLayoutUserGraphicClamped(t *testing.T) {
	tpl := schoolTag()
	user := &Box{X: 5000, Y: -40, W: 9000, H: 9000}
	r := Layout(tpl, Customization{Fields: map[Field]string{FieldName: "Ana"}, Graphic: user}, 1)
	inBounds(t, r.Graphic, r.Width, r.Height)
	// input box untouched
	if user.X != 5000 || user.W != 9000 {
		t.Fatalf("layout mutated the input graphic: %+v", user)
	}
}
