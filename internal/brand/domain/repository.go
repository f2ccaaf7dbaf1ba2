package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, brand *Brand) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Brand, error)
	List(ctx context.Context, db *gorm.DB) ([]Brand, error)
	Update(ctx context.Context, db *gorm.DB, brand *Brand) error
	Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error
}
