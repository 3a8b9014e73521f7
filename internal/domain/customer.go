package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Customer struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Email        string    `gorm:"size:140;uniqueIndex" json:"email"`
	Name         string    `gorm:"size:140" json:"name"`
	Phone        string    `gorm:"size:60" json:"phone"`
	PasswordHash string    `gorm:"size:100" json:"-"` // empty for OAuth-only accounts
	CreatedAt    time.Time `json:"created_at"`
}

type CustomerRepo interface {
	FindByEmail(ctx context.Context, email string) (*Customer, error)
	FindByID(ctx context.Context, id uuid.UUID) (*Customer, error)
	Save(ctx context.Context, c *Customer) error
}
