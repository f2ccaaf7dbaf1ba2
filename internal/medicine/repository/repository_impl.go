package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/pharmindex/pharmindex/internal/medicine/domain"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

const selectWithNames = `
	SELECT m.id, m.name, m.description, m.price, m.prescription_required,
	       m.category_id, m.brand_id, m.dosages, m.ingredients, m.side_effects,
	       m.usage_instructions, m.warnings, m.alternatives, m.images, m.slug,
	       m.created_at, m.updated_at,
	       c.name AS category_name,
	       b.name AS brand_name
	FROM medicines m
	LEFT JOIN categories c ON c.id = m.category_id
	LEFT JOIN brands b ON b.id = m.brand_id`

func (r *repo) Insert(ctx context.Context, db *gorm.DB, medicine *domain.Medicine) error {
	return db.WithContext(ctx).Create(medicine).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Medicine, error) {
	var medicine domain.Medicine
	err := db.WithContext(ctx).Raw(selectWithNames+` WHERE m.id = ?`, id).Scan(&medicine).Error
	if err != nil {
		return nil, err
	}
	if medicine.ID == 0 {
		return nil, domain.ErrNotFound
	}
	return &medicine, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB) ([]domain.Medicine, error) {
	var medicines []domain.Medicine
	err := db.WithContext(ctx).Raw(selectWithNames + ` ORDER BY m.name ASC`).Scan(&medicines).Error
	if err != nil {
		return nil, err
	}
	if medicines == nil {
		medicines = []domain.Medicine{}
	}
	return medicines, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, medicine *domain.Medicine) error {
	tx := db.WithContext(ctx).
		Model(&domain.Medicine{}).
		Where("id = ?", medicine.ID).
		Updates(map[string]any{
			"name":                  medicine.Name,
			"description":           medicine.Description,
			"price":                 medicine.Price,
			"prescription_required": medicine.PrescriptionRequired,
			"category_id":           medicine.CategoryID,
			"brand_id":              medicine.BrandID,
			"dosages":               medicine.Dosages,
			"ingredients":           medicine.Ingredients,
			"side_effects":          medicine.SideEffects,
			"usage_instructions":    medicine.UsageInstructions,
			"warnings":              medicine.Warnings,
			"alternatives":          medicine.Alternatives,
			"images":                medicine.Images,
			"slug":                  medicine.Slug,
			"updated_at":            medicine.UpdatedAt,
		})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *repo) UpdateImages(ctx context.Context, db *gorm.DB, id snowflake.ID, images []string) error {
	tx := db.WithContext(ctx).
		Model(&domain.Medicine{}).
		Where("id = ?", id).
		Update("images", datatypes.NewJSONSlice(images))
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	tx := db.WithContext(ctx).Delete(&domain.Medicine{}, "id = ?", id)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
