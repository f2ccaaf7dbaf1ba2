package domain

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/bwmarrin/snowflake"
)

// Brand is a medicine manufacturer. Logo holds the public URL of the stored
// logo object; MedicineCount is computed from the live join and never stored.
type Brand struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	Name      string       `gorm:"not null" json:"name"`
	Country   *string      `gorm:"column:country" json:"country"`
	Logo      *string      `gorm:"column:logo" json:"logo"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`

	MedicineCount int64 `gorm:"column:medicine_count;->" json:"medicine_count"`
}

// TableName sets the database table name.
func (Brand) TableName() string { return "brands" }

// LogoUpload is the transient file payload attached to a create or update. It
// is never persisted; only the URL returned by the storage gateway is.
type LogoUpload struct {
	FileName string
	Content  io.Reader
}

type CreateBrandRequest struct {
	Name    string
	Country *string
	Logo    *LogoUpload
}

// UpdateBrandRequest replaces all mutable fields. A brand has a single logo
// slot: attaching a new LogoUpload replaces the stored URL outright, otherwise
// LogoURL (the caller-retained value) is persisted as-is.
type UpdateBrandRequest struct {
	ID      string
	Name    string
	Country *string
	LogoURL *string
	Logo    *LogoUpload
}

type Service interface {
	Create(ctx context.Context, req CreateBrandRequest) (Brand, error)
	List(ctx context.Context) ([]Brand, error)
	GetByID(ctx context.Context, id string) (Brand, error)
	Update(ctx context.Context, req UpdateBrandRequest) (Brand, error)
	Delete(ctx context.Context, id string) error
}

var (
	ErrInvalidName = errors.New("invalid_name")
	ErrInvalidID   = errors.New("invalid_id")
	ErrNotFound    = errors.New("not_found")
)
