package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/pharmindex/pharmindex/internal/category/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("category.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateCategoryRequest) (domain.Category, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Category{}, domain.ErrInvalidName
	}

	now := time.Now().UTC()
	category := domain.Category{
		ID:          s.genID.Generate(),
		Name:        name,
		Description: req.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Insert(ctx, s.db, &category); err != nil {
		return domain.Category{}, err
	}

	return category, nil
}

func (s *Service) List(ctx context.Context) ([]domain.Category, error) {
	return s.repo.List(ctx, s.db)
}

func (s *Service) GetByID(ctx context.Context, id string) (domain.Category, error) {
	parsed, err := parseID(id)
	if err != nil {
		return domain.Category{}, err
	}

	item, err := s.repo.FindByID(ctx, s.db, parsed)
	if err != nil {
		return domain.Category{}, err
	}
	return *item, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateCategoryRequest) (domain.Category, error) {
	id, err := parseID(req.ID)
	if err != nil {
		return domain.Category{}, err
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Category{}, domain.ErrInvalidName
	}

	category := domain.Category{
		ID:          id,
		Name:        name,
		Description: req.Description,
		UpdatedAt:   time.Now().UTC(),
	}
	if err := s.repo.Update(ctx, s.db, &category); err != nil {
		return domain.Category{}, err
	}

	updated, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Category{}, err
	}
	return *updated, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	parsed, err := parseID(id)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, s.db, parsed)
}

func parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
