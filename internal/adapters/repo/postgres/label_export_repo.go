package postgres

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/duetags/duetags/internal/domain"
)

type LabelExportRepo struct{ db *gorm.DB }

func NewLabelExportRepo(db *gorm.DB) *LabelExportRepo { return &LabelExportRepo{db: db} }

func (r *LabelExportRepo) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]domain.LabelExport, error) {
	var list []domain.LabelExport
	if err := r.db.WithContext(ctx).Where("order_id = ?", orderID).Order("template_id asc").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *LabelExportRepo) DeleteByOrder(ctx context.Context, orderID uuid.UUID) error {
	return r.db.WithContext(ctx).Where("order_id = ?", orderID).Delete(&domain.LabelExport{}).Error
}
