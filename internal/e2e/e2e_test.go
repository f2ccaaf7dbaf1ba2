package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	authdomain "github.com/pharmindex/pharmindex/internal/auth/domain"
	authrepository "github.com/pharmindex/pharmindex/internal/auth/repository"
	authservice "github.com/pharmindex/pharmindex/internal/auth/service"
	"github.com/pharmindex/pharmindex/internal/auth/session"
	brandrepository "github.com/pharmindex/pharmindex/internal/brand/repository"
	brandservice "github.com/pharmindex/pharmindex/internal/brand/service"
	categoryrepository "github.com/pharmindex/pharmindex/internal/category/repository"
	categoryservice "github.com/pharmindex/pharmindex/internal/category/service"
	"github.com/pharmindex/pharmindex/internal/config"
	contactrepository "github.com/pharmindex/pharmindex/internal/contact/repository"
	contactservice "github.com/pharmindex/pharmindex/internal/contact/service"
	dashboardservice "github.com/pharmindex/pharmindex/internal/dashboard/service"
	medicinerepository "github.com/pharmindex/pharmindex/internal/medicine/repository"
	medicineservice "github.com/pharmindex/pharmindex/internal/medicine/service"
	"github.com/pharmindex/pharmindex/internal/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

type fakeGateway struct {
	removed []string
}

func (g *fakeGateway) Upload(ctx context.Context, folder, fileName string, content io.Reader) (string, error) {
	return "https://cdn.test/" + folder + "/" + fileName, nil
}

func (g *fakeGateway) Remove(ctx context.Context, folder, objectURL string) error {
	g.removed = append(g.removed, objectURL)
	return nil
}

type testEnv struct {
	srv     *httptest.Server
	db      *gorm.DB
	authsvc authdomain.Service
	gateway *fakeGateway
}

func startEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	for _, ddl := range []string{
		`CREATE TABLE users (
			id BIGINT PRIMARY KEY,
			email TEXT NOT NULL UNIQUE,
			role TEXT NOT NULL,
			password_hash TEXT,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE sessions (
			id BIGINT PRIMARY KEY,
			user_id BIGINT NOT NULL,
			session_token_hash TEXT NOT NULL,
			user_agent TEXT,
			ip_address TEXT,
			expires_at TIMESTAMP NOT NULL,
			revoked_at TIMESTAMP,
			created_at TIMESTAMP NOT NULL,
			last_seen_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE categories (
			id BIGINT PRIMARY KEY,
			name TEXT NOT NULL,
			description TEXT,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE brands (
			id BIGINT PRIMARY KEY,
			name TEXT NOT NULL,
			country TEXT,
			logo TEXT,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE medicines (
			id BIGINT PRIMARY KEY,
			name TEXT NOT NULL,
			description TEXT,
			price REAL,
			prescription_required BOOLEAN NOT NULL DEFAULT FALSE,
			category_id BIGINT,
			brand_id BIGINT,
			dosages TEXT,
			ingredients TEXT,
			side_effects TEXT,
			usage_instructions TEXT,
			warnings TEXT,
			alternatives TEXT,
			images TEXT,
			slug TEXT,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE contact_us (
			id BIGINT PRIMARY KEY,
			name TEXT NOT NULL,
			email TEXT NOT NULL,
			subject TEXT NOT NULL,
			message TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT 'pending',
			created_at TIMESTAMP NOT NULL
		)`,
	} {
		require.NoError(t, db.Exec(ddl).Error)
	}

	log := zaptest.NewLogger(t)
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	cfg := config.Config{StorageMedicineDir: "medicine"}
	gateway := &fakeGateway{}

	userRepo, sessionRepo := authrepository.New(db)
	authsvc := authservice.New(log, userRepo, sessionRepo, node)

	engine := server.NewEngine(log)
	server.NewServer(server.ServerParams{
		Gin:      engine,
		Cfg:      cfg,
		Log:      log,
		DB:       db,
		Authsvc:  authsvc,
		Sessions: session.NewManager(cfg),
		GenID:    node,
		MedicineSvc: medicineservice.New(medicineservice.Params{
			Cfg:     cfg,
			DB:      db,
			Log:     log,
			GenID:   node,
			Repo:    medicinerepository.Provide(),
			Gateway: gateway,
		}),
		BrandSvc: brandservice.New(brandservice.Params{
			DB:      db,
			Log:     log,
			GenID:   node,
			Repo:    brandrepository.Provide(),
			Gateway: gateway,
		}),
		CategorySvc: categoryservice.New(categoryservice.Params{
			DB:    db,
			Log:   log,
			GenID: node,
			Repo:  categoryrepository.Provide(),
		}),
		ContactSvc: contactservice.New(contactservice.Params{
			DB:    db,
			Log:   log,
			GenID: node,
			Repo:  contactrepository.Provide(),
		}),
		DashboardSvc: dashboardservice.New(dashboardservice.Params{
			DB:     db,
			Log:    log,
			Tuning: config.NewStaticDashboardConfigHolder(config.DefaultDashboardConfig()),
		}),
	})

	srv := httptest.NewServer(engine)
	t.Cleanup(srv.Close)

	return &testEnv{srv: srv, db: db, authsvc: authsvc, gateway: gateway}
}

func (e *testEnv) seedUser(t *testing.T, email, role string) {
	t.Helper()
	_, err := e.authsvc.CreateUser(context.Background(), authdomain.CreateUserRequest{
		Email:    email,
		Password: "changeme123",
		Role:     role,
	})
	require.NoError(t, err)
}

// login returns the session cookie issued for the credentials.
func (e *testEnv) login(t *testing.T, email, password string) (*http.Cookie, *http.Response) {
	t.Helper()
	body, _ := json.Marshal(map[string]string{"email": email, "password": password})
	resp, err := http.Post(e.srv.URL+"/auth/login", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	for _, cookie := range resp.Cookies() {
		if cookie.Name == session.DefaultCookieName && cookie.Value != "" {
			return cookie, resp
		}
	}
	return nil, resp
}

func (e *testEnv) do(t *testing.T, method, path string, cookie *http.Cookie, contentType string, body io.Reader) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, e.srv.URL+path, body)
	require.NoError(t, err)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeData(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	var envelope struct {
		Data map[string]any `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	return envelope.Data
}

func TestAdminWorkflow(t *testing.T) {
	env := startEnv(t)
	env.seedUser(t, "admin@example.com", authdomain.RoleAdmin)

	cookie, resp := env.login(t, "admin@example.com", "changeme123")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotNil(t, cookie)

	t.Run("me", func(t *testing.T) {
		resp := env.do(t, http.MethodGet, "/auth/me", cookie, "", nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		data := decodeData(t, resp)
		assert.Equal(t, "admin@example.com", data["email"])
	})

	var categoryID string
	t.Run("category crud", func(t *testing.T) {
		body := strings.NewReader(`{"name":"Vitamins","description":"supplements"}`)
		resp := env.do(t, http.MethodPost, "/api/v1/categories", cookie, "application/json", body)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		data := decodeData(t, resp)
		categoryID, _ = data["id"].(string)
		require.NotEmpty(t, categoryID)

		resp = env.do(t, http.MethodGet, "/api/v1/categories", cookie, "", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
	})

	var medicineID string
	t.Run("medicine multipart create", func(t *testing.T) {
		var buf bytes.Buffer
		form := multipart.NewWriter(&buf)
		require.NoError(t, form.WriteField("name", "Vitamin C (1000mg)!"))
		require.NoError(t, form.WriteField("price", "9.99"))
		require.NoError(t, form.WriteField("category_id", categoryID))
		require.NoError(t, form.WriteField("dosages", "1 tablet daily"))
		file, err := form.CreateFormFile("images", "front.png")
		require.NoError(t, err)
		_, err = file.Write([]byte("png-bytes"))
		require.NoError(t, err)
		require.NoError(t, form.Close())

		resp := env.do(t, http.MethodPost, "/api/v1/medicines", cookie, form.FormDataContentType(), &buf)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		data := decodeData(t, resp)
		medicineID, _ = data["id"].(string)
		assert.Equal(t, "vitamin-c-1000mg", data["slug"])
		assert.Equal(t, "Vitamins", data["category_name"])
		images, _ := data["images"].([]any)
		require.Len(t, images, 1)
	})

	t.Run("remove absent image is a no-op", func(t *testing.T) {
		body := strings.NewReader(`{"url":"https://cdn.test/medicine/ghost.png"}`)
		resp := env.do(t, http.MethodDelete, "/api/v1/medicines/"+medicineID+"/images", cookie, "application/json", body)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Empty(t, env.gateway.removed)
	})

	t.Run("contact inquiry lifecycle", func(t *testing.T) {
		// Public submission needs no session.
		body := strings.NewReader(`{"name":"Jane","email":"jane@example.com","subject":"Stock","message":"Any aspirin?"}`)
		resp := env.do(t, http.MethodPost, "/contact", nil, "application/json", body)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		inquiryID, _ := decodeData(t, resp)["id"].(string)
		require.NotEmpty(t, inquiryID)

		resp = env.do(t, http.MethodPatch, "/api/v1/contacts/"+inquiryID+"/status", cookie, "application/json",
			strings.NewReader(`{"status":"resolved"}`))
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "resolved", decodeData(t, resp)["status"])
	})

	t.Run("dashboard stats", func(t *testing.T) {
		resp := env.do(t, http.MethodGet, "/api/v1/dashboard/stats", cookie, "", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		data := decodeData(t, resp)
		assert.EqualValues(t, 1, data["total_medicines"])
		assert.EqualValues(t, 1, data["total_categories"])
		assert.EqualValues(t, 1, data["total_contacts"])
	})

	t.Run("logout ends the session", func(t *testing.T) {
		resp := env.do(t, http.MethodPost, "/auth/logout", cookie, "", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		resp = env.do(t, http.MethodGet, "/api/v1/categories", cookie, "", nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}

func TestAccessControl(t *testing.T) {
	env := startEnv(t)
	env.seedUser(t, "viewer@example.com", authdomain.RoleUser)

	t.Run("unauthenticated requests rejected", func(t *testing.T) {
		resp := env.do(t, http.MethodGet, "/api/v1/medicines", nil, "", nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("non-admin login rejected", func(t *testing.T) {
		cookie, resp := env.login(t, "viewer@example.com", "changeme123")
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
		assert.Nil(t, cookie)
	})

	t.Run("bad credentials", func(t *testing.T) {
		_, resp := env.login(t, "viewer@example.com", "wrong-password")
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("health is public", func(t *testing.T) {
		resp := env.do(t, http.MethodGet, "/health", nil, "", nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})
}
