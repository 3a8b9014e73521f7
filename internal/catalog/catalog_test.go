package catalog

import (
	"testing"

	"github.com/duetags/duetags/internal/layout"
)

func TestLoadBundledCatalog(t *testing.T) {
	c, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(c.Themes) == 0 || len(c.Templates) == 0 || len(c.Kits) == 0 {
		t.Fatalf("catalog incomplete: %d themes, %d templates, %d kits",
			len(c.Themes), len(c.Templates), len(c.Kits))
	}

	tpl, ok := c.Template("grande-retangular")
	if !ok {
		t.Fatal("grande-retangular missing")
	}
	if tpl.Shape != layout.ShapeRectangular || tpl.Width != 8 || tpl.Height != 4 {
		t.Errorf("template = %+v", tpl)
	}
	if tpl.MaxFontSize[layout.FieldName] != 48 {
		t.Errorf("name max font = %v", tpl.MaxFontSize[layout.FieldName])
	}

	k, ok := c.Kit("kit-escolar")
	if !ok {
		t.Fatal("kit-escolar missing")
	}
	total := 0
	for _, kl := range k.Labels {
		total += kl.Quantity
	}
	if total != 72 {
		t.Errorf("kit-escolar label count = %d, expected 72", total)
	}
}

// Every template a kit references layouts cleanly with a plain name.
func TestBundledTemplatesLayout(t *testing.T) {
	c, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	for _, k := range c.Kits {
		for _, kl := range k.Labels {
			tpl, _ := c.Template(kl.Template)
			r := layout.Layout(tpl, layout.Customization{
				Fields: map[layout.Field]string{layout.FieldName: "Helena"},
			}, 1)
			if len(r.Texts) != 1 {
				t.Errorf("%s/%s: %d lines", k.Slug, tpl.ID, len(r.Texts))
			}
			g := r.Graphic
			if g.X < 0 || g.Y < 0 || g.X+g.W > r.Width+1e-9 || g.Y+g.H > r.Height+1e-9 {
				t.Errorf("%s/%s: graphic %+v outside %vx%v", k.Slug, tpl.ID, g, r.Width, r.Height)
			}
		}
	}
}

func TestParseRejectsBadData(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"unknown shape", `
templates:
  - {id: x, name: X, shape: hexagonal, width: 4, height: 4, region: {left: 0, top: 0, width: 2, height: 2}, fields: [name]}
`},
		{"kit without theme", `
templates:
  - {id: x, name: X, shape: round, width: 4, height: 4, region: {left: 0, top: 0, width: 2, height: 2}, fields: [name]}
kits:
  - {slug: k, name: K, price: 10, theme: missing, labels: [{template: x, quantity: 1}]}
`},
		{"kit with unknown template", `
themes:
  - {slug: t, name: T}
kits:
  - {slug: k, name: K, price: 10, theme: t, labels: [{template: nope, quantity: 1}]}
`},
		{"zero quantity", `
themes:
  - {slug: t, name: T}
templates:
  - {id: x, name: X, shape: round, width: 4, height: 4, region: {left: 0, top: 0, width: 2, height: 2}, fields: [name]}
kits:
  - {slug: k, name: K, price: 10, theme: t, labels: [{template: x, quantity: 0}]}
`},
	}
	for _, tt := range tests {
		if _, err := Parse([]byte(tt.yaml)); err == nil {
			t.Errorf("%s: expected error", tt.name)
		}
	}
}
