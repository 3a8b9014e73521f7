package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/duetags/duetags/internal/domain"
)

type OrderRepo struct{ db *gorm.DB }

func NewOrderRepo(db *gorm.DB) *OrderRepo { return &OrderRepo{db: db} }

// SaveWithExports persists the order, its items and its label exports in a
// single transaction so a failed insert never leaves a half-written order.
func (r *OrderRepo) SaveWithExports(ctx context.Context, o *domain.Order, exports []domain.LabelExport) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(o).Error; err != nil {
			return err
		}
		if len(exports) == 0 {
			return nil
		}
		for i := range exports {
			if exports[i].ID == uuid.Nil {
				exports[i].ID = uuid.New()
			}
			exports[i].OrderID = o.ID
			if exports[i].CreatedAt.IsZero() {
				exports[i].CreatedAt = time.Now()
			}
		}
		return tx.Create(&exports).Error
	})
}

func (r *OrderRepo) Save(ctx context.Context, o *domain.Order) error {
	return r.db.WithContext(ctx).Save(o).Error
}

func (r *OrderRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	var o domain.Order
	if err := r.db.WithContext(ctx).Preload("Items").First(&o, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

func (r *OrderRepo) ListByCustomer(ctx context.Context, customerID uuid.UUID, page, pageSize int) ([]domain.Order, int64, error) {
	q := r.db.WithContext(ctx).Model(&domain.Order{}).Where("customer_id = ?", customerID)
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	var list []domain.Order
	err := q.Order("created_at desc").Offset((page - 1) * pageSize).Limit(pageSize).Preload("Items").Find(&list).Error
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (r *OrderRepo) List(ctx context.Context, f domain.OrderFilter) ([]domain.Order, int64, error) {
	q := r.db.WithContext(ctx).Model(&domain.Order{})
	if f.Status != nil {
		q = q.Where("status = ?", *f.Status)
	}
	if f.MPStatus != nil {
		q = q.Where("mp_status = ?", *f.MPStatus)
	}
	if f.From != nil {
		q = q.Where("created_at >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("created_at <= ?", *f.To)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.PageSize <= 0 {
		f.PageSize = 20
	}
	var list []domain.Order
	err := q.Order("created_at desc").Offset((f.Page - 1) * f.PageSize).Limit(f.PageSize).Preload("Items").Find(&list).Error
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (r *OrderRepo) ListInRange(ctx context.Context, from, to time.Time) ([]domain.Order, error) {
	var list []domain.Order
	err := r.db.WithContext(ctx).
		Where("created_at >= ? AND created_at <= ?", from, to).
		Order("created_at asc").
		Preload("Items").
		Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}
