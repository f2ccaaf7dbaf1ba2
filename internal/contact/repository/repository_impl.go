package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/pharmindex/pharmindex/internal/contact/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, inquiry *domain.Inquiry) error {
	return db.WithContext(ctx).Create(inquiry).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Inquiry, error) {
	var inquiry domain.Inquiry
	err := db.WithContext(ctx).Where("id = ?", id).First(&inquiry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &inquiry, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB) ([]domain.Inquiry, error) {
	var inquiries []domain.Inquiry
	err := db.WithContext(ctx).
		Order("created_at DESC").
		Find(&inquiries).Error
	if err != nil {
		return nil, err
	}
	if inquiries == nil {
		inquiries = []domain.Inquiry{}
	}
	return inquiries, nil
}

func (r *repo) UpdateStatus(ctx context.Context, db *gorm.DB, id snowflake.ID, status string) error {
	tx := db.WithContext(ctx).
		Model(&domain.Inquiry{}).
		Where("id = ?", id).
		Update("status", status)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	tx := db.WithContext(ctx).Delete(&domain.Inquiry{}, "id = ?", id)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
