package service

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/pharmindex/pharmindex/internal/brand/domain"
	"github.com/pharmindex/pharmindex/internal/brand/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

type fakeGateway struct {
	uploads   []string
	removed   []string
	uploadErr error
	removeErr error
}

func (g *fakeGateway) Upload(ctx context.Context, folder, fileName string, content io.Reader) (string, error) {
	if g.uploadErr != nil {
		return "", g.uploadErr
	}
	url := "https://cdn.test/brands/" + fileName
	g.uploads = append(g.uploads, url)
	return url, nil
}

func (g *fakeGateway) Remove(ctx context.Context, folder, objectURL string) error {
	g.removed = append(g.removed, objectURL)
	return g.removeErr
}

type failingInsertRepo struct {
	domain.Repository
}

func (failingInsertRepo) Insert(ctx context.Context, db *gorm.DB, brand *domain.Brand) error {
	return errors.New("insert failed")
}

func setupBrandDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	db.Exec(`CREATE TABLE brands (
		id BIGINT PRIMARY KEY,
		name TEXT NOT NULL,
		country TEXT,
		logo TEXT,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`)
	db.Exec(`CREATE TABLE medicines (
		id BIGINT PRIMARY KEY,
		name TEXT NOT NULL,
		brand_id BIGINT,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`)

	return db
}

func newBrandService(t *testing.T, db *gorm.DB, gateway *fakeGateway, repo domain.Repository) domain.Service {
	t.Helper()
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	return New(Params{
		DB:      db,
		Log:     zaptest.NewLogger(t),
		GenID:   node,
		Repo:    repo,
		Gateway: gateway,
	})
}

func TestBrandService_Create(t *testing.T) {
	db := setupBrandDB(t)
	gateway := &fakeGateway{}
	svc := newBrandService(t, db, gateway, repository.Provide())
	ctx := context.Background()

	t.Run("with logo", func(t *testing.T) {
		country := "Germany"
		created, err := svc.Create(ctx, domain.CreateBrandRequest{
			Name:    "Bayer",
			Country: &country,
			Logo:    &domain.LogoUpload{FileName: "bayer.png"},
		})
		require.NoError(t, err)
		require.NotNil(t, created.Logo)
		assert.Equal(t, "https://cdn.test/brands/bayer.png", *created.Logo)
		assert.Equal(t, "Bayer", created.Name)
	})

	t.Run("without logo", func(t *testing.T) {
		created, err := svc.Create(ctx, domain.CreateBrandRequest{Name: "Generic Labs"})
		require.NoError(t, err)
		assert.Nil(t, created.Logo)
	})

	t.Run("blank name rejected", func(t *testing.T) {
		_, err := svc.Create(ctx, domain.CreateBrandRequest{Name: "  "})
		assert.ErrorIs(t, err, domain.ErrInvalidName)
	})

	t.Run("upload failure surfaces", func(t *testing.T) {
		gateway.uploadErr = errors.New("bucket unavailable")
		defer func() { gateway.uploadErr = nil }()

		_, err := svc.Create(ctx, domain.CreateBrandRequest{
			Name: "Nope",
			Logo: &domain.LogoUpload{FileName: "nope.png"},
		})
		assert.Error(t, err)
	})
}

func TestBrandService_Create_InsertFailureRemovesLogo(t *testing.T) {
	db := setupBrandDB(t)
	gateway := &fakeGateway{}
	svc := newBrandService(t, db, gateway, failingInsertRepo{repository.Provide()})

	_, err := svc.Create(context.Background(), domain.CreateBrandRequest{
		Name: "Orphaned",
		Logo: &domain.LogoUpload{FileName: "orphan.png"},
	})
	require.Error(t, err)
	assert.Equal(t, []string{"https://cdn.test/brands/orphan.png"}, gateway.removed)
}

func TestBrandService_Update(t *testing.T) {
	db := setupBrandDB(t)
	gateway := &fakeGateway{}
	svc := newBrandService(t, db, gateway, repository.Provide())
	ctx := context.Background()

	created, err := svc.Create(ctx, domain.CreateBrandRequest{
		Name: "Before",
		Logo: &domain.LogoUpload{FileName: "old.png"},
	})
	require.NoError(t, err)

	t.Run("new logo replaces stored url", func(t *testing.T) {
		updated, err := svc.Update(ctx, domain.UpdateBrandRequest{
			ID:   created.ID.String(),
			Name: "After",
			Logo: &domain.LogoUpload{FileName: "new.png"},
		})
		require.NoError(t, err)
		require.NotNil(t, updated.Logo)
		assert.Equal(t, "https://cdn.test/brands/new.png", *updated.Logo)
		assert.Equal(t, "After", updated.Name)
	})

	t.Run("retained url persisted when no file attached", func(t *testing.T) {
		keep := "https://cdn.test/brands/new.png"
		updated, err := svc.Update(ctx, domain.UpdateBrandRequest{
			ID:      created.ID.String(),
			Name:    "After Again",
			LogoURL: &keep,
		})
		require.NoError(t, err)
		require.NotNil(t, updated.Logo)
		assert.Equal(t, keep, *updated.Logo)
	})

	t.Run("clearing the logo", func(t *testing.T) {
		updated, err := svc.Update(ctx, domain.UpdateBrandRequest{
			ID:   created.ID.String(),
			Name: "Logoless",
		})
		require.NoError(t, err)
		assert.Nil(t, updated.Logo)
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := svc.Update(ctx, domain.UpdateBrandRequest{ID: "123456789", Name: "Ghost"})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestBrandService_Delete(t *testing.T) {
	db := setupBrandDB(t)
	gateway := &fakeGateway{}
	svc := newBrandService(t, db, gateway, repository.Provide())
	ctx := context.Background()

	created, err := svc.Create(ctx, domain.CreateBrandRequest{
		Name: "Doomed",
		Logo: &domain.LogoUpload{FileName: "doomed.png"},
	})
	require.NoError(t, err)

	t.Run("row removed and logo swept once", func(t *testing.T) {
		gateway.removeErr = errors.New("object store flaking")

		err := svc.Delete(ctx, created.ID.String())
		require.NoError(t, err)
		assert.Equal(t, []string{*created.Logo}, gateway.removed)

		_, err = svc.GetByID(ctx, created.ID.String())
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("unknown id has no storage side effects", func(t *testing.T) {
		gateway.removed = nil
		err := svc.Delete(ctx, "987654321")
		assert.ErrorIs(t, err, domain.ErrNotFound)
		assert.Empty(t, gateway.removed)
	})
}

func TestBrandService_ListWithMedicineCount(t *testing.T) {
	db := setupBrandDB(t)
	gateway := &fakeGateway{}
	svc := newBrandService(t, db, gateway, repository.Provide())
	ctx := context.Background()

	counted, err := svc.Create(ctx, domain.CreateBrandRequest{Name: "Counted"})
	require.NoError(t, err)
	empty, err := svc.Create(ctx, domain.CreateBrandRequest{Name: "Empty"})
	require.NoError(t, err)

	node, _ := snowflake.NewNode(2)
	for i := 0; i < 3; i++ {
		db.Exec(`INSERT INTO medicines (id, name, brand_id, created_at, updated_at)
			VALUES (?, 'Med', ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`,
			node.Generate().Int64(), counted.ID.Int64())
	}

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Counted", list[0].Name)
	assert.EqualValues(t, 3, list[0].MedicineCount)
	assert.Equal(t, "Empty", list[1].Name)
	assert.EqualValues(t, 0, list[1].MedicineCount)

	got, err := svc.GetByID(ctx, empty.ID.String())
	require.NoError(t, err)
	assert.EqualValues(t, 0, got.MedicineCount)
}
