package seed

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	authdomain "github.com/pharmindex/pharmindex/internal/auth/domain"
	"github.com/pharmindex/pharmindex/internal/auth/password"
	"gorm.io/gorm"
)

const (
	defaultAdminEmail    = "admin@pharmindex.local"
	defaultAdminPassword = "changeme123"
)

// EnsureAdmin seeds a default admin account so a fresh install is reachable.
// It is a no-op when any user already exists.
func EnsureAdmin(db *gorm.DB) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&authdomain.User{}).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil
		}

		hashed, err := password.Hash(defaultAdminPassword)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		admin := authdomain.User{
			ID:           node.Generate(),
			Email:        defaultAdminEmail,
			Role:         authdomain.RoleAdmin,
			PasswordHash: &hashed,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		return tx.Create(&admin).Error
	})
}
