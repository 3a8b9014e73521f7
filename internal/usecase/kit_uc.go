package usecase

import (
	"context"
	"errors"

	"github.com/duetags/duetags/internal/catalog"
	"github.com/duetags/duetags/internal/domain"
	"github.com/duetags/duetags/internal/layout"
)

type KitUC struct {
	Kits    domain.KitRepo
	Themes  domain.ThemeRepo
	Catalog *catalog.Catalog
}

func (uc *KitUC) List(ctx context.Context, f domain.KitFilter) ([]domain.Kit, int64, error) {
	if f.PageSize == 0 {
		f.PageSize = 20
	}
	return uc.Kits.List(ctx, f)
}

func (uc *KitUC) GetBySlug(ctx context.Context, slug string) (*domain.Kit, error) {
	if slug == "" {
		return nil, errors.New("slug vazio")
	}
	return uc.Kits.FindBySlug(ctx, slug)
}

func (uc *KitUC) ListThemes(ctx context.Context) ([]domain.Theme, error) {
	return uc.Themes.List(ctx)
}

// Templates resolves a kit's label templates from the static catalog.
func (uc *KitUC) Templates(ctx context.Context, slug string) ([]layout.Template, error) {
	spec, ok := uc.Catalog.Kit(slug)
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := make([]layout.Template, 0, len(spec.Labels))
	for _, kl := range spec.Labels {
		if t, ok := uc.Catalog.Template(kl.Template); ok {
			out = append(out, t)
		}
	}
	return out, nil
}

// Preview lays out one template under a customization and zoom, for the
// editor's live preview.
func (uc *KitUC) Preview(templateID string, c domain.Customization, zoom float64) (layout.Rendered, error) {
	tpl, ok := uc.Catalog.Template(templateID)
	if !ok {
		return layout.Rendered{}, domain.ErrNotFound
	}
	if zoom <= 0 {
		zoom = 1
	}
	r := layout.Layout(tpl, toLayoutCustomization(c), zoom)
	return r, nil
}

// toLayoutCustomization maps the persisted snapshot onto the engine's input.
func toLayoutCustomization(c domain.Customization) layout.Customization {
	lc := layout.Customization{Fields: map[layout.Field]string{}}
	for k, v := range c.Fields {
		lc.Fields[layout.Field(k)] = v
	}
	if c.GraphicW > 0 && c.GraphicH > 0 {
		lc.Graphic = &layout.Box{X: c.GraphicX, Y: c.GraphicY, W: c.GraphicW, H: c.GraphicH}
	}
	return lc
}
