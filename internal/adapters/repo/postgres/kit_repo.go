package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/duetags/duetags/internal/domain"
)

type KitRepo struct{ db *gorm.DB }

func NewKitRepo(db *gorm.DB) *KitRepo { return &KitRepo{db: db} }

func (r *KitRepo) Save(ctx context.Context, k *domain.Kit) error {
	return r.db.WithContext(ctx).Save(k).Error
}

func (r *KitRepo) FindBySlug(ctx context.Context, slug string) (*domain.Kit, error) {
	var k domain.Kit
	if err := r.db.WithContext(ctx).Preload("Labels").Preload("Images").Preload("Theme").First(&k, "slug = ?", slug).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &k, nil
}

func (r *KitRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.Kit, error) {
	var k domain.Kit
	if err := r.db.WithContext(ctx).Preload("Labels").Preload("Images").Preload("Theme").First(&k, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &k, nil
}

func (r *KitRepo) List(ctx context.Context, f domain.KitFilter) ([]domain.Kit, int64, error) {
	var list []domain.Kit
	q := r.db.WithContext(ctx).Model(&domain.Kit{})
	if f.ThemeID != nil {
		q = q.Where("theme_id = ?", *f.ThemeID)
	}
	if f.Active != nil {
		q = q.Where("active = ?", *f.Active)
	}
	if f.Query != "" {
		like := "%" + strings.TrimSpace(f.Query) + "%"
		q = q.Where("LOWER(name) LIKE LOWER(?) OR LOWER(short_desc) LIKE LOWER(?)", like, like)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	switch f.Sort {
	case "price_desc":
		q = q.Order("price desc")
	case "price_asc":
		q = q.Order("price asc")
	case "newest":
		q = q.Order("created_at desc")
	default:
		q = q.Order("name asc")
	}
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.PageSize <= 0 {
		f.PageSize = 20
	}
	offset := (f.Page - 1) * f.PageSize
	err := q.Offset(offset).Limit(f.PageSize).
		Preload("Labels").
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("created_at asc") }).
		Preload("Theme").
		Find(&list).Error
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (r *KitRepo) AddImages(ctx context.Context, kitID uuid.UUID, imgs []domain.Image) error {
	if len(imgs) == 0 {
		return nil
	}
	for i := range imgs {
		if imgs[i].ID == uuid.Nil {
			imgs[i].ID = uuid.New()
		}
		imgs[i].KitID = kitID
		if imgs[i].CreatedAt.IsZero() {
			imgs[i].CreatedAt = time.Now()
		}
	}
	return r.db.WithContext(ctx).Create(&imgs).Error
}

func (r *KitRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Kit{}).Count(&n).Error
	return n, err
}

type ThemeRepo struct{ db *gorm.DB }

func NewThemeRepo(db *gorm.DB) *ThemeRepo { return &ThemeRepo{db: db} }

func (r *ThemeRepo) Save(ctx context.Context, t *domain.Theme) error {
	return r.db.WithContext(ctx).Save(t).Error
}

func (r *ThemeRepo) FindBySlug(ctx context.Context, slug string) (*domain.Theme, error) {
	var t domain.Theme
	if err := r.db.WithContext(ctx).First(&t, "slug = ?", slug).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (r *ThemeRepo) List(ctx context.Context) ([]domain.Theme, error) {
	var list []domain.Theme
	if err := r.db.WithContext(ctx).Where("active = ?", true).Order("name asc").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *ThemeRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Theme{}).Count(&n).Error
	return n, err
}
