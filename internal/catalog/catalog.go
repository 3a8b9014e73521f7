// Package catalog loads the bundled kits/themes/labels dataset. Templates
// are static configuration: loaded once at startup and never mutated.
package catalog

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/duetags/duetags/internal/layout"
)

//go:embed data/catalog.yaml
var rawCatalog []byte

type ThemeSpec struct {
	Slug    string   `yaml:"slug"`
	Name    string   `yaml:"name"`
	ArtURL  string   `yaml:"art_url"`
	Palette []string `yaml:"palette"`
}

type KitLabelSpec struct {
	Template string `yaml:"template"`
	Quantity int    `yaml:"quantity"`
}

type KitSpec struct {
	Slug      string         `yaml:"slug"`
	Name      string         `yaml:"name"`
	ShortDesc string         `yaml:"short_desc"`
	Price     float64        `yaml:"price"`
	Theme     string         `yaml:"theme"`
	Labels    []KitLabelSpec `yaml:"labels"`
}

type Catalog struct {
	Themes    []ThemeSpec       `yaml:"themes"`
	Templates []layout.Template `yaml:"templates"`
	Kits      []KitSpec         `yaml:"kits"`

	byID map[string]layout.Template
}

// Load parses and validates the embedded dataset.
func Load() (*Catalog, error) {
	return Parse(rawCatalog)
}

// Parse builds a catalog from raw YAML. Exposed for tests.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("catálogo: %w", err)
	}
	c.byID = make(map[string]layout.Template, len(c.Templates))
	for _, t := range c.Templates {
		if _, dup := c.byID[t.ID]; dup {
			return nil, fmt.Errorf("catálogo: template duplicado %q", t.ID)
		}
		c.byID[t.ID] = t
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Template returns a label template by id.
func (c *Catalog) Template(id string) (layout.Template, bool) {
	t, ok := c.byID[id]
	return t, ok
}

// Kit returns a kit spec by slug.
func (c *Catalog) Kit(slug string) (KitSpec, bool) {
	for _, k := range c.Kits {
		if k.Slug == slug {
			return k, true
		}
	}
	return KitSpec{}, false
}

func (c *Catalog) validate() error {
	themes := map[string]struct{}{}
	for _, th := range c.Themes {
		if th.Slug == "" || th.Name == "" {
			return fmt.Errorf("catálogo: tema sem slug/nome")
		}
		themes[th.Slug] = struct{}{}
	}
	for _, t := range c.Templates {
		switch t.Shape {
		case layout.ShapeRectangular, layout.ShapeRound, layout.ShapeSmall:
		default:
			return fmt.Errorf("catálogo: template %q com shape %q", t.ID, t.Shape)
		}
		if t.Width <= 0 || t.Height <= 0 {
			return fmt.Errorf("catálogo: template %q sem dimensões", t.ID)
		}
		if len(t.Fields) == 0 {
			return fmt.Errorf("catálogo: template %q sem campos", t.ID)
		}
	}
	for _, k := range c.Kits {
		if k.Slug == "" || k.Price < 0 {
			return fmt.Errorf("catálogo: kit inválido %q", k.Slug)
		}
		if _, ok := themes[k.Theme]; !ok {
			return fmt.Errorf("catálogo: kit %q referencia tema %q inexistente", k.Slug, k.Theme)
		}
		if len(k.Labels) == 0 {
			return fmt.Errorf("catálogo: kit %q sem etiquetas", k.Slug)
		}
		for _, kl := range k.Labels {
			if _, ok := c.byID[kl.Template]; !ok {
				return fmt.Errorf("catálogo: kit %q referencia template %q inexistente", k.Slug, kl.Template)
			}
			if kl.Quantity <= 0 {
				return fmt.Errorf("catálogo: kit %q com quantidade inválida", k.Slug)
			}
		}
	}
	return nil
}
