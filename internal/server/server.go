package server

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/pharmindex/pharmindex/internal/auth"
	authdomain "github.com/pharmindex/pharmindex/internal/auth/domain"
	"github.com/pharmindex/pharmindex/internal/auth/session"
	"github.com/pharmindex/pharmindex/internal/brand"
	branddomain "github.com/pharmindex/pharmindex/internal/brand/domain"
	"github.com/pharmindex/pharmindex/internal/category"
	categorydomain "github.com/pharmindex/pharmindex/internal/category/domain"
	"github.com/pharmindex/pharmindex/internal/config"
	"github.com/pharmindex/pharmindex/internal/contact"
	contactdomain "github.com/pharmindex/pharmindex/internal/contact/domain"
	"github.com/pharmindex/pharmindex/internal/dashboard"
	dashboarddomain "github.com/pharmindex/pharmindex/internal/dashboard/domain"
	"github.com/pharmindex/pharmindex/internal/medicine"
	medicinedomain "github.com/pharmindex/pharmindex/internal/medicine/domain"
	"github.com/pharmindex/pharmindex/internal/ratelimit"
	"github.com/pharmindex/pharmindex/internal/storage"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("http.server",
	auth.Module,
	session.Module,
	storage.Module,
	brand.Module,
	category.Module,
	contact.Module,
	dashboard.Module,
	medicine.Module,
	ratelimit.Module,
	fx.Provide(NewEngine),
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(log *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLogger(log))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine       *gin.Engine
	cfg          config.Config
	log          *zap.Logger
	db           *gorm.DB
	authsvc      authdomain.Service
	sessions     *session.Manager
	genID        *snowflake.Node
	medicineSvc  medicinedomain.Service
	brandSvc     branddomain.Service
	categorySvc  categorydomain.Service
	contactSvc   contactdomain.Service
	dashboardSvc dashboarddomain.Service
	limiter      *ratelimit.PublicSurfaceLimiter
}

type ServerParams struct {
	fx.In

	Gin          *gin.Engine
	Cfg          config.Config
	Log          *zap.Logger
	DB           *gorm.DB
	Authsvc      authdomain.Service
	Sessions     *session.Manager
	GenID        *snowflake.Node
	MedicineSvc  medicinedomain.Service
	BrandSvc     branddomain.Service
	CategorySvc  categorydomain.Service
	ContactSvc   contactdomain.Service
	DashboardSvc dashboarddomain.Service
	Limiter      *ratelimit.PublicSurfaceLimiter
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:       p.Gin,
		cfg:          p.Cfg,
		log:          p.Log.Named("http.server"),
		db:           p.DB,
		authsvc:      p.Authsvc,
		sessions:     p.Sessions,
		genID:        p.GenID,
		medicineSvc:  p.MedicineSvc,
		brandSvc:     p.BrandSvc,
		categorySvc:  p.CategorySvc,
		contactSvc:   p.ContactSvc,
		dashboardSvc: p.DashboardSvc,
		limiter:      p.Limiter,
	}

	svc.registerAuthRoutes()
	svc.registerPublicRoutes()
	svc.registerAdminRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAuthRoutes() {
	authGroup := s.engine.Group("/auth")

	authGroup.POST("/login", s.RateLimited(s.limiter.AllowLogin), s.Login)
	authGroup.POST("/logout", s.Logout)
	authGroup.GET("/me", s.AuthRequired(), s.CurrentUser)
}

func (s *Server) registerPublicRoutes() {
	// The contact form is the only ungated write in the system.
	s.engine.POST("/contact", s.RateLimited(s.limiter.AllowContact), s.CreateInquiry)
}

func (s *Server) registerAdminRoutes() {
	api := s.engine.Group("/api/v1", s.AuthRequired(), s.AdminRequired())

	api.GET("/medicines", s.ListMedicines)
	api.GET("/medicines/:id", s.GetMedicineByID)
	api.POST("/medicines", s.CreateMedicine)
	api.PUT("/medicines/:id", s.UpdateMedicine)
	api.DELETE("/medicines/:id", s.DeleteMedicine)
	api.DELETE("/medicines/:id/images", s.RemoveMedicineImage)

	api.GET("/brands", s.ListBrands)
	api.GET("/brands/:id", s.GetBrandByID)
	api.POST("/brands", s.CreateBrand)
	api.PUT("/brands/:id", s.UpdateBrand)
	api.DELETE("/brands/:id", s.DeleteBrand)

	api.GET("/categories", s.ListCategories)
	api.GET("/categories/:id", s.GetCategoryByID)
	api.POST("/categories", s.CreateCategory)
	api.PUT("/categories/:id", s.UpdateCategory)
	api.DELETE("/categories/:id", s.DeleteCategory)

	api.GET("/contacts", s.ListInquiries)
	api.GET("/contacts/:id", s.GetInquiryByID)
	api.PATCH("/contacts/:id/status", s.UpdateInquiryStatus)
	api.DELETE("/contacts/:id", s.DeleteInquiry)

	api.GET("/dashboard/stats", s.DashboardStats)
	api.GET("/dashboard/recent-users", s.DashboardRecentUsers)
	api.GET("/dashboard/recent-contacts", s.DashboardRecentContacts)
	api.GET("/dashboard/growth", s.DashboardGrowth)
}
