package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/duetags/duetags/internal/domain"
)

type CustomerRepo struct{ db *gorm.DB }

func NewCustomerRepo(db *gorm.DB) *CustomerRepo { return &CustomerRepo{db: db} }

func (r *CustomerRepo) FindByEmail(ctx context.Context, email string) (*domain.Customer, error) {
	e := strings.ToLower(strings.TrimSpace(email))
	if e == "" {
		return nil, errors.New("email vazio")
	}
	var c domain.Customer
	if err := r.db.WithContext(ctx).First(&c, "LOWER(email) = ?", e).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *CustomerRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.Customer, error) {
	var c domain.Customer
	if err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *CustomerRepo) Save(ctx context.Context, c *domain.Customer) error {
	if c.Email != "" {
		c.Email = strings.ToLower(c.Email)
	}
	return r.db.WithContext(ctx).Save(c).Error
}
