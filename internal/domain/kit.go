package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Kit is a purchasable bundle of label templates with fixed quantities,
// skinned by a Theme.
type Kit struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Slug      string    `gorm:"uniqueIndex;size:140" json:"slug"`
	Name      string    `gorm:"size:180" json:"name"`
	ShortDesc string    `gorm:"type:text" json:"short_desc"`
	Price     float64   `gorm:"type:decimal(12,2)" json:"price"`
	ThemeID   uuid.UUID `gorm:"type:uuid;index" json:"theme_id"`
	Theme     *Theme    `json:"theme,omitempty"`
	Active    bool      `gorm:"default:true;index" json:"active"`
	Labels    []KitLabel `json:"labels"`
	Images    []Image    `json:"images"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// KitLabel links a kit to one of its label templates and how many of that
// label the kit includes. TemplateID references the static catalog, not a
// database row.
type KitLabel struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	KitID      uuid.UUID `gorm:"type:uuid;index" json:"kit_id"`
	TemplateID string    `gorm:"size:80;index" json:"template_id"`
	Quantity   int       `gorm:"not null" json:"quantity"`
}

// Theme is a visual skin (background art, palette) applied to a kit's labels.
type Theme struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Slug      string    `gorm:"uniqueIndex;size:140" json:"slug"`
	Name      string    `gorm:"size:180" json:"name"`
	ArtURL    string    `gorm:"size:255" json:"art_url"`
	Palette   []string  `gorm:"type:jsonb;serializer:json" json:"palette"`
	Active    bool      `gorm:"default:true" json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

type Image struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	KitID     uuid.UUID `gorm:"type:uuid;index" json:"kit_id"`
	URL       string    `gorm:"size:255" json:"url"`
	Alt       string    `gorm:"size:140" json:"alt"`
	CreatedAt time.Time `json:"created_at"`
}

type KitFilter struct {
	Query    string
	ThemeID  *uuid.UUID
	Active   *bool
	Sort     string
	Page     int
	PageSize int
}

type KitRepo interface {
	Save(ctx context.Context, k *Kit) error
	FindBySlug(ctx context.Context, slug string) (*Kit, error)
	FindByID(ctx context.Context, id uuid.UUID) (*Kit, error)
	List(ctx context.Context, f KitFilter) ([]Kit, int64, error)
	AddImages(ctx context.Context, kitID uuid.UUID, imgs []Image) error
	Count(ctx context.Context) (int64, error)
}

type ThemeRepo interface {
	Save(ctx context.Context, t *Theme) error
	FindBySlug(ctx context.Context, slug string) (*Theme, error)
	List(ctx context.Context) ([]Theme, error)
	Count(ctx context.Context) (int64, error)
}
