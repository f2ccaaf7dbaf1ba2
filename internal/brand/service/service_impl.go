package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/pharmindex/pharmindex/internal/brand/domain"
	"github.com/pharmindex/pharmindex/internal/storage"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Brand logos live at the bucket root; the medicine folder is reserved for
// medicine images.
const logoFolder = ""

type Params struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	GenID   *snowflake.Node
	Repo    domain.Repository
	Gateway storage.Gateway
}

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	genID   *snowflake.Node
	repo    domain.Repository
	gateway storage.Gateway
}

func New(p Params) domain.Service {
	return &Service{
		db:      p.DB,
		log:     p.Log.Named("brand.service"),
		genID:   p.GenID,
		repo:    p.Repo,
		gateway: p.Gateway,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateBrandRequest) (domain.Brand, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Brand{}, domain.ErrInvalidName
	}

	var logoURL *string
	if req.Logo != nil {
		uploaded, err := s.gateway.Upload(ctx, logoFolder, req.Logo.FileName, req.Logo.Content)
		if err != nil {
			return domain.Brand{}, err
		}
		logoURL = &uploaded
	}

	now := time.Now().UTC()
	brand := domain.Brand{
		ID:        s.genID.Generate(),
		Name:      name,
		Country:   req.Country,
		Logo:      logoURL,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Insert(ctx, s.db, &brand); err != nil {
		// The row is the source of truth: a failed insert must not leave the
		// just-uploaded logo behind.
		if logoURL != nil {
			if rmErr := s.gateway.Remove(ctx, logoFolder, *logoURL); rmErr != nil {
				s.log.Warn("compensating logo removal failed",
					zap.String("url", *logoURL),
					zap.Error(rmErr),
				)
			}
		}
		return domain.Brand{}, err
	}

	return brand, nil
}

func (s *Service) List(ctx context.Context) ([]domain.Brand, error) {
	return s.repo.List(ctx, s.db)
}

func (s *Service) GetByID(ctx context.Context, id string) (domain.Brand, error) {
	parsed, err := parseID(id)
	if err != nil {
		return domain.Brand{}, err
	}

	item, err := s.repo.FindByID(ctx, s.db, parsed)
	if err != nil {
		return domain.Brand{}, err
	}
	return *item, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateBrandRequest) (domain.Brand, error) {
	id, err := parseID(req.ID)
	if err != nil {
		return domain.Brand{}, err
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Brand{}, domain.ErrInvalidName
	}

	if _, err := s.repo.FindByID(ctx, s.db, id); err != nil {
		return domain.Brand{}, err
	}

	logoURL := req.LogoURL
	if req.Logo != nil {
		uploaded, err := s.gateway.Upload(ctx, logoFolder, req.Logo.FileName, req.Logo.Content)
		if err != nil {
			return domain.Brand{}, err
		}
		logoURL = &uploaded
	}

	brand := domain.Brand{
		ID:        id,
		Name:      name,
		Country:   req.Country,
		Logo:      logoURL,
		UpdatedAt: time.Now().UTC(),
	}
	if err := s.repo.Update(ctx, s.db, &brand); err != nil {
		return domain.Brand{}, err
	}

	updated, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Brand{}, err
	}
	return *updated, nil
}

// Delete removes the brand row, then best-effort deletes its logo object.
// Asset cleanup only runs once the row is confirmed gone; a cleanup failure is
// logged and never surfaced.
func (s *Service) Delete(ctx context.Context, id string) error {
	parsed, err := parseID(id)
	if err != nil {
		return err
	}

	existing, err := s.repo.FindByID(ctx, s.db, parsed)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, s.db, parsed); err != nil {
		return err
	}

	if existing.Logo != nil && *existing.Logo != "" {
		if rmErr := s.gateway.Remove(ctx, logoFolder, *existing.Logo); rmErr != nil {
			s.log.Warn("logo cleanup failed",
				zap.String("brand_id", parsed.String()),
				zap.String("url", *existing.Logo),
				zap.Error(rmErr),
			)
		}
	}

	return nil
}

func parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
