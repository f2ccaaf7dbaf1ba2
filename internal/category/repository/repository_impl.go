package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/pharmindex/pharmindex/internal/category/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, category *domain.Category) error {
	return db.WithContext(ctx).Create(category).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Category, error) {
	var category domain.Category
	err := db.WithContext(ctx).Raw(
		`SELECT c.id, c.name, c.description, c.created_at, c.updated_at,
		        COUNT(m.id) AS medicine_count
		 FROM categories c
		 LEFT JOIN medicines m ON m.category_id = c.id
		 WHERE c.id = ?
		 GROUP BY c.id, c.name, c.description, c.created_at, c.updated_at`,
		id,
	).Scan(&category).Error
	if err != nil {
		return nil, err
	}
	if category.ID == 0 {
		return nil, domain.ErrNotFound
	}
	return &category, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB) ([]domain.Category, error) {
	var categories []domain.Category
	err := db.WithContext(ctx).Raw(
		`SELECT c.id, c.name, c.description, c.created_at, c.updated_at,
		        COUNT(m.id) AS medicine_count
		 FROM categories c
		 LEFT JOIN medicines m ON m.category_id = c.id
		 GROUP BY c.id, c.name, c.description, c.created_at, c.updated_at
		 ORDER BY c.name ASC`,
	).Scan(&categories).Error
	if err != nil {
		return nil, err
	}
	if categories == nil {
		categories = []domain.Category{}
	}
	return categories, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, category *domain.Category) error {
	tx := db.WithContext(ctx).
		Model(&domain.Category{}).
		Where("id = ?", category.ID).
		Updates(map[string]any{
			"name":        category.Name,
			"description": category.Description,
			"updated_at":  category.UpdatedAt,
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
	tx := db.WithContext(ctx).Delete(&domain.Category{}, "id = ?", id)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
