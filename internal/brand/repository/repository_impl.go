package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/pharmindex/pharmindex/internal/brand/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, brand *domain.Brand) error {
	return db.WithContext(ctx).Create(brand).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Brand, error) {
	var brand domain.Brand
	err := db.WithContext(ctx).Raw(
		`SELECT b.id, b.name, b.country, b.logo, b.created_at, b.updated_at,
		        COUNT(m.id) AS medicine_count
		 FROM brands b
		 LEFT JOIN medicines m ON m.brand_id = b.id
		 WHERE b.id = ?
		 GROUP BY b.id, b.name, b.country, b.logo, b.created_at, b.updated_at`,
		id,
	).Scan(&brand).Error
	if err != nil {
		return nil, err
	}
	if brand.ID == 0 {
		return nil, domain.ErrNotFound
	}
	return &brand, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB) ([]domain.Brand, error) {
	var brands []domain.Brand
	err := db.WithContext(ctx).Raw(
		`SELECT b.id, b.name, b.country, b.logo, b.created_at, b.updated_at,
		        COUNT(m.id) AS medicine_count
		 FROM brands b
		 LEFT JOIN medicines m ON m.brand_id = b.id
		 GROUP BY b.id, b.name, b.country, b.logo, b.created_at, b.updated_at
		 ORDER BY b.name ASC`,
	).Scan(&brands).Error
	if err != nil {
		return nil, err
	}
	if brands == nil {
		brands = []domain.Brand{}
	}
	return brands, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, brand *domain.Brand) error {
	tx := db.WithContext(ctx).
		Model(&domain.Brand{}).
		Where("id = ?", brand.ID).
		Updates(map[string]any{
			"name":       brand.Name,
			"country":    brand.Country,
			"logo":       brand.Logo,
			"updated_at": brand.UpdatedAt,
		})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	tx := db.WithContext(ctx).Delete(&domain.Brand{}, "id = ?", id)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
