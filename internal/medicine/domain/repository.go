package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, medicine *Medicine) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Medicine, error)
	List(ctx context.Context, db *gorm.DB) ([]Medicine, error)
	Update(ctx context.Context, db *gorm.DB, medicine *Medicine) error
	UpdateImages(ctx context.Context, db *gorm.DB, id snowflake.ID, images []string) error
	Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error
}
