package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/pharmindex/pharmindex/internal/config"
	contactdomain "github.com/pharmindex/pharmindex/internal/contact/domain"
	"github.com/pharmindex/pharmindex/internal/dashboard/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

func setupDashboardDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	db.Exec(`CREATE TABLE users (
		id BIGINT PRIMARY KEY,
		email TEXT NOT NULL,
		role TEXT NOT NULL,
		password_hash TEXT,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`)
	db.Exec(`CREATE TABLE medicines (
		id BIGINT PRIMARY KEY,
		name TEXT NOT NULL,
		price REAL,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`)
	db.Exec(`CREATE TABLE categories (
		id BIGINT PRIMARY KEY,
		name TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`)
	db.Exec(`CREATE TABLE brands (
		id BIGINT PRIMARY KEY,
		name TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`)
	db.Exec(`CREATE TABLE contact_us (
		id BIGINT PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL,
		subject TEXT NOT NULL,
		message TEXT NOT NULL,
		status TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL
	)`)

	return db
}

func newDashboardService(t *testing.T, db *gorm.DB, cfg config.DashboardConfig) domain.Service {
	t.Helper()
	return New(Params{
		DB:     db,
		Log:    zaptest.NewLogger(t),
		Tuning: config.NewStaticDashboardConfigHolder(cfg),
	})
}

func TestDashboardService_Stats(t *testing.T) {
	db := setupDashboardDB(t)
	svc := newDashboardService(t, db, config.DefaultDashboardConfig())
	node, _ := snowflake.NewNode(1)
	now := time.Now().UTC()

	// 3 users, 1 admin
	for _, role := range []string{"admin", "user", "user"} {
		db.Exec(`INSERT INTO users (id, email, role, created_at, updated_at) VALUES (?, 'u@example.com', ?, ?, ?)`,
			node.Generate().Int64(), role, now, now)
	}
	// 4 medicines, 2 without a price
	for _, price := range []any{9.99, nil, 3.50, nil} {
		db.Exec(`INSERT INTO medicines (id, name, price, created_at, updated_at) VALUES (?, 'm', ?, ?, ?)`,
			node.Generate().Int64(), price, now, now)
	}
	db.Exec(`INSERT INTO categories (id, name, created_at, updated_at) VALUES (?, 'c', ?, ?)`,
		node.Generate().Int64(), now, now)
	for i := 0; i < 2; i++ {
		db.Exec(`INSERT INTO brands (id, name, created_at, updated_at) VALUES (?, 'b', ?, ?)`,
			node.Generate().Int64(), now, now)
	}
	// 3 inquiries, 2 pending
	for _, status := range []string{contactdomain.StatusPending, contactdomain.StatusResolved, contactdomain.StatusPending} {
		db.Exec(`INSERT INTO contact_us (id, name, email, subject, message, status, created_at)
			VALUES (?, 'n', 'n@example.com', 's', 'm', ?, ?)`,
			node.Generate().Int64(), status, now)
	}

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)

	assert.EqualValues(t, 3, stats.TotalUsers)
	assert.EqualValues(t, 1, stats.TotalAdmins)
	assert.EqualValues(t, 4, stats.TotalMedicines)
	assert.EqualValues(t, 2, stats.OutOfStockMedicines)
	assert.EqualValues(t, 1, stats.TotalCategories)
	assert.EqualValues(t, 2, stats.TotalBrands)
	assert.EqualValues(t, 3, stats.TotalContacts)
	assert.EqualValues(t, 2, stats.PendingContacts)
}

func TestDashboardService_RecentLists(t *testing.T) {
	db := setupDashboardDB(t)
	svc := newDashboardService(t, db, config.DashboardConfig{
		RecentLimit:        2,
		MedicineGrowthBase: 10,
		UserGrowthBase:     5,
		GrowthWindowDays:   30,
	})
	node, _ := snowflake.NewNode(1)
	now := time.Now().UTC()

	for i := 0; i < 4; i++ {
		db.Exec(`INSERT INTO users (id, email, role, created_at, updated_at) VALUES (?, ?, 'user', ?, ?)`,
			node.Generate().Int64(), fmt.Sprintf("u%d@example.com", i), now.Add(time.Duration(i)*time.Minute), now)
		db.Exec(`INSERT INTO contact_us (id, name, email, subject, message, status, created_at)
			VALUES (?, 'n', 'n@example.com', ?, 'm', 'pending', ?)`,
			node.Generate().Int64(), "s", now.Add(time.Duration(i)*time.Minute))
	}

	t.Run("configured default limit", func(t *testing.T) {
		users, err := svc.RecentUsers(context.Background(), 0)
		require.NoError(t, err)
		assert.Len(t, users, 2)
		assert.True(t, users[0].CreatedAt.After(users[1].CreatedAt))

		contacts, err := svc.RecentContacts(context.Background(), 0)
		require.NoError(t, err)
		assert.Len(t, contacts, 2)
	})

	t.Run("explicit limit wins", func(t *testing.T) {
		users, err := svc.RecentUsers(context.Background(), 3)
		require.NoError(t, err)
		assert.Len(t, users, 3)
	})

	t.Run("empty tables yield empty slices", func(t *testing.T) {
		db.Exec(`DELETE FROM users`)
		db.Exec(`DELETE FROM contact_us`)

		users, err := svc.RecentUsers(context.Background(), 0)
		require.NoError(t, err)
		assert.NotNil(t, users)
		assert.Empty(t, users)
	})
}

func TestDashboardService_Growth(t *testing.T) {
	db := setupDashboardDB(t)
	svc := newDashboardService(t, db, config.DashboardConfig{
		RecentLimit:        5,
		MedicineGrowthBase: 10,
		UserGrowthBase:     5,
		GrowthWindowDays:   30,
	})
	node, _ := snowflake.NewNode(1)
	now := time.Now().UTC()
	old := now.AddDate(0, 0, -60)

	// 10 medicines inside the window, plus old rows that must not count.
	for i := 0; i < 10; i++ {
		db.Exec(`INSERT INTO medicines (id, name, created_at, updated_at) VALUES (?, 'm', ?, ?)`,
			node.Generate().Int64(), now.Add(-time.Hour), now)
	}
	db.Exec(`INSERT INTO medicines (id, name, created_at, updated_at) VALUES (?, 'old', ?, ?)`,
		node.Generate().Int64(), old, old)

	// 5 users inside the window.
	for i := 0; i < 5; i++ {
		db.Exec(`INSERT INTO users (id, email, role, created_at, updated_at) VALUES (?, 'u@example.com', 'user', ?, ?)`,
			node.Generate().Int64(), now.Add(-time.Hour), now)
	}
	db.Exec(`INSERT INTO users (id, email, role, created_at, updated_at) VALUES (?, 'old@example.com', 'user', ?, ?)`,
		node.Generate().Int64(), old, old)

	growth, err := svc.Growth(context.Background())
	require.NoError(t, err)

	// 10/(10+10) and 5/(5+5), both -50% against the padded denominator.
	assert.InDelta(t, -50.0, growth.MedicinesChange, 0.001)
	assert.InDelta(t, -50.0, growth.UsersChange, 0.001)
}

func TestChangePercent(t *testing.T) {
	tests := []struct {
		name  string
		count int64
		base  int64
		want  float64
	}{
		{"zero denominator", 0, 0, 0},
		{"no rows against baseline", 0, 10, -100},
		{"equal to baseline", 10, 10, -50},
		{"dominating the baseline", 90, 10, -10},
		{"rounded to one decimal", 1, 2, -66.7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, changePercent(tt.count, tt.base), 0.0001)
		})
	}
}
