package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/slug"
	"github.com/pharmindex/pharmindex/internal/config"
	"github.com/pharmindex/pharmindex/internal/medicine/domain"
	"github.com/pharmindex/pharmindex/internal/storage"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	Cfg     config.Config
	DB      *gorm.DB
	Log     *zap.Logger
	GenID   *snowflake.Node
	Repo    domain.Repository
	Gateway storage.Gateway
}

type Service struct {
	db          *gorm.DB
	log         *zap.Logger
	genID       *snowflake.Node
	repo        domain.Repository
	gateway     storage.Gateway
	imageFolder string
}

func New(p Params) domain.Service {
	return &Service{
		db:          p.DB,
		log:         p.Log.Named("medicine.service"),
		genID:       p.GenID,
		repo:        p.Repo,
		gateway:     p.Gateway,
		imageFolder: p.Cfg.StorageMedicineDir,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateMedicineRequest) (domain.Medicine, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Medicine{}, domain.ErrInvalidName
	}

	categoryID, err := parseOptionalID(req.CategoryID)
	if err != nil {
		return domain.Medicine{}, err
	}
	brandID, err := parseOptionalID(req.BrandID)
	if err != nil {
		return domain.Medicine{}, err
	}

	imageURLs, err := s.uploadImages(ctx, req.Images)
	if err != nil {
		return domain.Medicine{}, err
	}

	now := time.Now().UTC()
	medicine := domain.Medicine{
		ID:                   s.genID.Generate(),
		Name:                 name,
		Description:          req.Description,
		Price:                req.Price,
		PrescriptionRequired: req.PrescriptionRequired,
		CategoryID:           categoryID,
		BrandID:              brandID,
		Dosages:              datatypes.NewJSONSlice(orEmpty(req.Dosages)),
		Ingredients:          datatypes.NewJSONSlice(orEmpty(req.Ingredients)),
		SideEffects:          datatypes.NewJSONSlice(orEmpty(req.SideEffects)),
		UsageInstructions:    datatypes.NewJSONSlice(orEmpty(req.UsageInstructions)),
		Warnings:             datatypes.NewJSONSlice(orEmpty(req.Warnings)),
		Alternatives:         datatypes.NewJSONSlice(orEmpty(req.Alternatives)),
		Images:               datatypes.NewJSONSlice(imageURLs),
		Slug:                 slug.Make(name),
		CreatedAt:            now,
		UpdatedAt:            now,
	}

	if err := s.repo.Insert(ctx, s.db, &medicine); err != nil {
		// The row never made it in, so the freshly uploaded objects are
		// orphans; best-effort compensation keeps the bucket in step.
		s.removeObjects(ctx, imageURLs)
		return domain.Medicine{}, err
	}

	created, err := s.repo.FindByID(ctx, s.db, medicine.ID)
	if err != nil {
		return domain.Medicine{}, err
	}
	return *created, nil
}

func (s *Service) List(ctx context.Context) ([]domain.Medicine, error) {
	return s.repo.List(ctx, s.db)
}

func (s *Service) GetByID(ctx context.Context, id string) (domain.Medicine, error) {
	parsed, err := parseID(id)
	if err != nil {
		return domain.Medicine{}, err
	}

	item, err := s.repo.FindByID(ctx, s.db, parsed)
	if err != nil {
		return domain.Medicine{}, err
	}
	return *item, nil
}

// Update replaces all mutable fields. Newly uploaded images are appended to
// the URLs the caller retained; existing entries are never dropped here (see
// RemoveImage for explicit removal).
func (s *Service) Update(ctx context.Context, req domain.UpdateMedicineRequest) (domain.Medicine, error) {
	id, err := parseID(req.ID)
	if err != nil {
		return domain.Medicine{}, err
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Medicine{}, domain.ErrInvalidName
	}

	categoryID, err := parseOptionalID(req.CategoryID)
	if err != nil {
		return domain.Medicine{}, err
	}
	brandID, err := parseOptionalID(req.BrandID)
	if err != nil {
		return domain.Medicine{}, err
	}

	if _, err := s.repo.FindByID(ctx, s.db, id); err != nil {
		return domain.Medicine{}, err
	}

	imageURLs := append([]string{}, req.ImageURLs...)
	if len(req.Images) > 0 {
		uploaded, err := s.uploadImages(ctx, req.Images)
		if err != nil {
			return domain.Medicine{}, err
		}
		imageURLs = append(imageURLs, uploaded...)
	}

	medicine := domain.Medicine{
		ID:                   id,
		Name:                 name,
		Description:          req.Description,
		Price:                req.Price,
		PrescriptionRequired: req.PrescriptionRequired,
		CategoryID:           categoryID,
		BrandID:              brandID,
		Dosages:              datatypes.NewJSONSlice(orEmpty(req.Dosages)),
		Ingredients:          datatypes.NewJSONSlice(orEmpty(req.Ingredients)),
		SideEffects:          datatypes.NewJSONSlice(orEmpty(req.SideEffects)),
		UsageInstructions:    datatypes.NewJSONSlice(orEmpty(req.UsageInstructions)),
		Warnings:             datatypes.NewJSONSlice(orEmpty(req.Warnings)),
		Alternatives:         datatypes.NewJSONSlice(orEmpty(req.Alternatives)),
		Images:               datatypes.NewJSONSlice(imageURLs),
		Slug:                 slug.Make(name),
		UpdatedAt:            time.Now().UTC(),
	}
	if err := s.repo.Update(ctx, s.db, &medicine); err != nil {
		return domain.Medicine{}, err
	}

	updated, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Medicine{}, err
	}
	return *updated, nil
}

// Delete removes the row first, then best-effort deletes the image objects.
// Assets are only ever removed after the row they belong to is confirmed gone.
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

	s.removeObjects(ctx, existing.Images)
	return nil
}

// RemoveImage drops a single URL from the medicine's image list and then
// best-effort deletes the object. Removing a URL that is not in the list is a
// successful no-op with no storage side effects.
func (s *Service) RemoveImage(ctx context.Context, id, imageURL string) error {
	parsed, err := parseID(id)
	if err != nil {
		return err
	}

	existing, err := s.repo.FindByID(ctx, s.db, parsed)
	if err != nil {
		return err
	}

	filtered := make([]string, 0, len(existing.Images))
	found := false
	for _, url := range existing.Images {
		if url == imageURL {
			found = true
			continue
		}
		filtered = append(filtered, url)
	}
	if !found {
		return nil
	}

	if err := s.repo.UpdateImages(ctx, s.db, parsed, filtered); err != nil {
		return err
	}

	s.removeObjects(ctx, []string{imageURL})
	return nil
}

func (s *Service) uploadImages(ctx context.Context, images []domain.ImageUpload) ([]string, error) {
	urls := make([]string, 0, len(images))
	for _, img := range images {
		uploaded, err := s.gateway.Upload(ctx, s.imageFolder, img.FileName, img.Content)
		if err != nil {
			s.removeObjects(ctx, urls)
			return nil, err
		}
		urls = append(urls, uploaded)
	}
	return urls, nil
}

func (s *Service) removeObjects(ctx context.Context, urls []string) {
	for _, url := range urls {
		if err := s.gateway.Remove(ctx, s.imageFolder, url); err != nil {
			s.log.Warn("image cleanup failed",
				zap.String("url", url),
				zap.Error(err),
			)
		}
	}
}

func orEmpty(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

func parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}

func parseOptionalID(value *string) (*snowflake.ID, error) {
	if value == nil || strings.TrimSpace(*value) == "" {
		return nil, nil
	}
	id, err := parseID(*value)
	if err != nil {
		return nil, err
	}
	return &id, nil
}
