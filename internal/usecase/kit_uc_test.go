package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/duetags/duetags/internal/domain"
)

func TestKitTemplates(t *testing.T) {
	uc := &KitUC{Catalog: loadCatalog(t)}

	tpls, err := uc.Templates(context.Background(), "kit-escolar")
	require.NoError(t, err)
	require.Len(t, tpls, 3)
	assert.Equal(t, "grande-retangular", tpls[0].ID)

	_, err = uc.Templates(context.Background(), "kit-fantasma")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPreview(t *testing.T) {
	uc := &KitUC{Catalog: loadCatalog(t)}

	c := domain.Customization{Fields: map[string]string{"name": "Ana"}}
	r, err := uc.Preview("grande-retangular", c, 0)
	require.NoError(t, err)

	// zoom <= 0 falls back to 1
	assert.InDelta(t, 8*37.8, r.Width, 0.001)
	require.NotEmpty(t, r.Texts)
	assert.Equal(t, "Ana", r.Texts[0].Text)
	assert.Greater(t, r.Graphic.W, 0.0)

	_, err = uc.Preview("nao-existe", c, 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPreviewKeepsUserGraphic(t *testing.T) {
	uc := &KitUC{Catalog: loadCatalog(t)}

	c := domain.Customization{
		Fields:   map[string]string{"name": "Ana"},
		GraphicX: 10, GraphicY: 10, GraphicW: 60, GraphicH: 60,
	}
	r, err := uc.Preview("grande-retangular", c, 1)
	require.NoError(t, err)
	assert.InDelta(t, 60.0, r.Graphic.W, 0.001)
}
