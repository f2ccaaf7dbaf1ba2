package domain

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Medicine is a catalog entry. A nil Price means the medicine is out of stock
// for reporting purposes. Slug is recomputed from Name on every write and is
// not independently editable. CategoryName and BrandName are joined display
// names, populated on reads only.
type Medicine struct {
	ID                   snowflake.ID                `gorm:"primaryKey" json:"id"`
	Name                 string                      `gorm:"not null" json:"name"`
	Description          *string                     `gorm:"column:description" json:"description"`
	Price                *float64                    `gorm:"column:price" json:"price"`
	PrescriptionRequired bool                        `gorm:"column:prescription_required;not null" json:"prescription_required"`
	CategoryID           *snowflake.ID               `gorm:"column:category_id" json:"category_id"`
	BrandID              *snowflake.ID               `gorm:"column:brand_id" json:"brand_id"`
	Dosages              datatypes.JSONSlice[string] `gorm:"column:dosages" json:"dosages"`
	Ingredients          datatypes.JSONSlice[string] `gorm:"column:ingredients" json:"ingredients"`
	SideEffects          datatypes.JSONSlice[string] `gorm:"column:side_effects" json:"side_effects"`
	UsageInstructions    datatypes.JSONSlice[string] `gorm:"column:usage_instructions" json:"usage_instructions"`
	Warnings             datatypes.JSONSlice[string] `gorm:"column:warnings" json:"warnings"`
	Alternatives         datatypes.JSONSlice[string] `gorm:"column:alternatives" json:"alternatives"`
	Images               datatypes.JSONSlice[string] `gorm:"column:images" json:"images"`
	Slug                 string                      `gorm:"column:slug" json:"slug"`
	CreatedAt            time.Time                   `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt            time.Time                   `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`

	CategoryName *string `gorm:"column:category_name;->" json:"category_name"`
	BrandName    *string `gorm:"column:brand_name;->" json:"brand_name"`
}

// TableName sets the database table name.
func (Medicine) TableName() string { return "medicines" }

// ImageUpload is the transient file payload attached to a create or update.
// Only the URLs returned by the storage gateway are persisted.
type ImageUpload struct {
	FileName string
	Content  io.Reader
}

// MedicineFields are the persisted mutable fields shared by create and update.
type MedicineFields struct {
	Name                 string
	Description          *string
	Price                *float64
	PrescriptionRequired bool
	CategoryID           *string
	BrandID              *string
	Dosages              []string
	Ingredients          []string
	SideEffects          []string
	UsageInstructions    []string
	Warnings             []string
	Alternatives         []string
}

type CreateMedicineRequest struct {
	MedicineFields
	Images []ImageUpload
}

// UpdateMedicineRequest replaces all mutable fields. ImageURLs carries the
// previously persisted URLs the caller retains; freshly uploaded Images are
// appended to it, never replacing it.
type UpdateMedicineRequest struct {
	ID string
	MedicineFields
	ImageURLs []string
	Images    []ImageUpload
}

type Service interface {
	Create(ctx context.Context, req CreateMedicineRequest) (Medicine, error)
	List(ctx context.Context) ([]Medicine, error)
	GetByID(ctx context.Context, id string) (Medicine, error)
	Update(ctx context.Context, req UpdateMedicineRequest) (Medicine, error)
	Delete(ctx context.Context, id string) error
	RemoveImage(ctx context.Context, id, imageURL string) error
}

var (
	ErrInvalidName = errors.New("invalid_name")
	ErrInvalidID   = errors.New("invalid_id")
	ErrNotFound    = errors.New("not_found")
)
