package service

import (
	"context"
	"math"
	"time"

	authdomain "github.com/pharmindex/pharmindex/internal/auth/domain"
	branddomain "github.com/pharmindex/pharmindex/internal/brand/domain"
	categorydomain "github.com/pharmindex/pharmindex/internal/category/domain"
	"github.com/pharmindex/pharmindex/internal/config"
	contactdomain "github.com/pharmindex/pharmindex/internal/contact/domain"
	"github.com/pharmindex/pharmindex/internal/dashboard/domain"
	medicinedomain "github.com/pharmindex/pharmindex/internal/medicine/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB     *gorm.DB
	Log    *zap.Logger
	Tuning *config.DashboardConfigHolder
}

type Service struct {
	db     *gorm.DB
	log    *zap.Logger
	tuning *config.DashboardConfigHolder
}

func New(p Params) domain.Service {
	return &Service{
		db:     p.DB,
		log:    p.Log.Named("dashboard.service"),
		tuning: p.Tuning,
	}
}

// Stats fans the independent count queries out concurrently and fails as a
// group: a single failing sub-query fails the whole read, there is no
// partial-result policy.
func (s *Service) Stats(ctx context.Context) (domain.Stats, error) {
	var stats domain.Stats

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return s.db.WithContext(gctx).Model(&authdomain.User{}).Count(&stats.TotalUsers).Error
	})
	g.Go(func() error {
		return s.db.WithContext(gctx).Model(&authdomain.User{}).
			Where("role = ?", authdomain.RoleAdmin).
			Count(&stats.TotalAdmins).Error
	})
	g.Go(func() error {
		return s.db.WithContext(gctx).Model(&medicinedomain.Medicine{}).Count(&stats.TotalMedicines).Error
	})
	g.Go(func() error {
		return s.db.WithContext(gctx).Model(&medicinedomain.Medicine{}).
			Where("price IS NULL").
			Count(&stats.OutOfStockMedicines).Error
	})
	g.Go(func() error {
		return s.db.WithContext(gctx).Model(&categorydomain.Category{}).Count(&stats.TotalCategories).Error
	})
	g.Go(func() error {
		return s.db.WithContext(gctx).Model(&branddomain.Brand{}).Count(&stats.TotalBrands).Error
	})
	g.Go(func() error {
		return s.db.WithContext(gctx).Model(&contactdomain.Inquiry{}).Count(&stats.TotalContacts).Error
	})
	g.Go(func() error {
		return s.db.WithContext(gctx).Model(&contactdomain.Inquiry{}).
			Where("status = ?", contactdomain.StatusPending).
			Count(&stats.PendingContacts).Error
	})

	if err := g.Wait(); err != nil {
		return domain.Stats{}, err
	}
	return stats, nil
}

func (s *Service) RecentUsers(ctx context.Context, limit int) ([]domain.RecentUser, error) {
	if limit <= 0 {
		limit = s.tuning.Get().RecentLimit
	}

	var users []domain.RecentUser
	err := s.db.WithContext(ctx).
		Model(&authdomain.User{}).
		Select("id, email, role, created_at").
		Order("created_at DESC").
		Limit(limit).
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	if users == nil {
		users = []domain.RecentUser{}
	}
	return users, nil
}

func (s *Service) RecentContacts(ctx context.Context, limit int) ([]domain.RecentContact, error) {
	if limit <= 0 {
		limit = s.tuning.Get().RecentLimit
	}

	var contacts []domain.RecentContact
	err := s.db.WithContext(ctx).
		Model(&contactdomain.Inquiry{}).
		Select("id, name, subject, status, created_at").
		Order("created_at DESC").
		Limit(limit).
		Find(&contacts).Error
	if err != nil {
		return nil, err
	}
	if contacts == nil {
		contacts = []domain.RecentContact{}
	}
	return contacts, nil
}

// Growth compares rows created inside the trailing window against a padded
// denominator. The baselines keep a near-empty catalog from reporting wild
// percentages; they are operator-tunable through the dashboard config file.
func (s *Service) Growth(ctx context.Context) (domain.Growth, error) {
	tuning := s.tuning.Get()
	since := time.Now().UTC().AddDate(0, 0, -tuning.GrowthWindowDays)

	var medicines, users int64

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.db.WithContext(gctx).Model(&medicinedomain.Medicine{}).
			Where("created_at >= ?", since).
			Count(&medicines).Error
	})
	g.Go(func() error {
		return s.db.WithContext(gctx).Model(&authdomain.User{}).
			Where("created_at >= ?", since).
			Count(&users).Error
	})
	if err := g.Wait(); err != nil {
		return domain.Growth{}, err
	}

	return domain.Growth{
		MedicinesChange: changePercent(medicines, int64(tuning.MedicineGrowthBase)),
		UsersChange:     changePercent(users, int64(tuning.UserGrowthBase)),
	}, nil
}

func changePercent(count, base int64) float64 {
	denom := count + base
	if denom == 0 {
		return 0
	}
	change := (float64(count)/float64(denom))*100 - 100
	return math.Round(change*10) / 10
}
