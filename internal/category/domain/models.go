package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

// Category groups medicines. MedicineCount is computed from the live join on
// every read and never stored.
type Category struct {
	ID          snowflake.ID `gorm:"primaryKey" json:"id"`
	Name        string       `gorm:"not null" json:"name"`
	Description *string      `gorm:"column:description" json:"description"`
	CreatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`

	MedicineCount int64 `gorm:"column:medicine_count;->" json:"medicine_count"`
}

// TableName sets the database table name.
func (Category) TableName() string { return "categories" }

type CreateCategoryRequest struct {
	Name        string
	Description *string
}

type UpdateCategoryRequest struct {
	ID          string
	Name        string
	Description *string
}

type Service interface {
	Create(ctx context.Context, req CreateCategoryRequest) (Category, error)
	List(ctx context.Context) ([]Category, error)
	GetByID(ctx context.Context, id string) (Category, error)
	Update(ctx context.Context, req UpdateCategoryRequest) (Category, error)
	Delete(ctx context.Context, id string) error
}

var (
	ErrInvalidName = errors.New("invalid_name")
	ErrInvalidID   = errors.New("invalid_id")
	ErrNotFound    = errors.New("not_found")
)
