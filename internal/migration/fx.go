package migration

import (
	"github.com/pharmindex/pharmindex/internal/config"
	"github.com/pharmindex/pharmindex/internal/seed"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		// The migrator speaks the postgres wire dialect; sqlite databases are
		// created by the test suites that own them.
		if cfg.DBType == "postgres" {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			if err := RunMigrations(sqlDB); err != nil {
				return err
			}
		}

		if cfg.BootstrapAdmin {
			return seed.EnsureAdmin(conn)
		}
		return nil
	}),
)
