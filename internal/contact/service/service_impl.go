package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/pharmindex/pharmindex/internal/contact/domain"
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
		log:   p.Log.Named("contact.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateInquiryRequest) (domain.Inquiry, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Inquiry{}, domain.ErrInvalidName
	}

	email := strings.TrimSpace(req.Email)
	if email == "" || !strings.Contains(email, "@") {
		return domain.Inquiry{}, domain.ErrInvalidEmail
	}

	subject := strings.TrimSpace(req.Subject)
	if subject == "" {
		return domain.Inquiry{}, domain.ErrInvalidSubject
	}

	message := strings.TrimSpace(req.Message)
	if message == "" {
		return domain.Inquiry{}, domain.ErrInvalidMessage
	}

	inquiry := domain.Inquiry{
		ID:        s.genID.Generate(),
		Name:      name,
		Email:     email,
		Subject:   subject,
		Message:   message,
		Status:    domain.StatusPending,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.repo.Insert(ctx, s.db, &inquiry); err != nil {
		return domain.Inquiry{}, err
	}

	return inquiry, nil
}

func (s *Service) List(ctx context.Context) ([]domain.Inquiry, error) {
	return s.repo.List(ctx, s.db)
}

func (s *Service) GetByID(ctx context.Context, id string) (domain.Inquiry, error) {
	parsed, err := parseID(id)
	if err != nil {
		return domain.Inquiry{}, err
	}

	item, err := s.repo.FindByID(ctx, s.db, parsed)
	if err != nil {
		return domain.Inquiry{}, err
	}
	return *item, nil
}

func (s *Service) UpdateStatus(ctx context.Context, id, status string) (domain.Inquiry, error) {
	parsed, err := parseID(id)
	if err != nil {
		return domain.Inquiry{}, err
	}

	status = strings.TrimSpace(status)
	if status != domain.StatusPending && status != domain.StatusResolved {
		return domain.Inquiry{}, domain.ErrInvalidStatus
	}

	if err := s.repo.UpdateStatus(ctx, s.db, parsed, status); err != nil {
		return domain.Inquiry{}, err
	}

	updated, err := s.repo.FindByID(ctx, s.db, parsed)
	if err != nil {
		return domain.Inquiry{}, err
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
