package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, inquiry *Inquiry) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Inquiry, error)
	List(ctx context.Context, db *gorm.DB) ([]Inquiry, error)
	UpdateStatus(ctx context.Context, db *gorm.DB, id snowflake.ID, status string) error
	Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error
}
