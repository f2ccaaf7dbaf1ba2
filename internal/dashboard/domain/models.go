package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
)

// Stats is the collection-wide summary rendered on the dashboard landing
// screen. Every figure is recomputed from live queries on each read.
type Stats struct {
	TotalUsers          int64 `json:"total_users"`
	TotalAdmins         int64 `json:"total_admins"`
	TotalMedicines      int64 `json:"total_medicines"`
	OutOfStockMedicines int64 `json:"out_of_stock_medicines"`
	TotalCategories     int64 `json:"total_categories"`
	TotalBrands         int64 `json:"total_brands"`
	TotalContacts       int64 `json:"total_contacts"`
	PendingContacts     int64 `json:"pending_contacts"`
}

type RecentUser struct {
	ID        snowflake.ID `gorm:"column:id" json:"id"`
	Email     string       `gorm:"column:email" json:"email"`
	Role      string       `gorm:"column:role" json:"role"`
	CreatedAt time.Time    `gorm:"column:created_at" json:"created_at"`
}

type RecentContact struct {
	ID        snowflake.ID `gorm:"column:id" json:"id"`
	Name      string       `gorm:"column:name" json:"name"`
	Subject   string       `gorm:"column:subject" json:"subject"`
	Status    string       `gorm:"column:status" json:"status"`
	CreatedAt time.Time    `gorm:"column:created_at" json:"created_at"`
}

// Growth reports the trailing-window change percentages for medicines and
// users, one decimal place.
type Growth struct {
	MedicinesChange float64 `json:"medicines_change"`
	UsersChange     float64 `json:"users_change"`
}

type Service interface {
	Stats(ctx context.Context) (Stats, error)
	RecentUsers(ctx context.Context, limit int) ([]RecentUser, error)
	RecentContacts(ctx context.Context, limit int) ([]RecentContact, error)
	Growth(ctx context.Context) (Growth, error)
}
