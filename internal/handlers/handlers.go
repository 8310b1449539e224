package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"celebrisaludos/internal/assist"
	"celebrisaludos/internal/catalog"
	"celebrisaludos/internal/config"
	"celebrisaludos/internal/middleware"
	"celebrisaludos/internal/models"
	"celebrisaludos/internal/service"
)

// Dependencies are built by the caller. DB and Cache are optional and only
// used by the health check.
type Dependencies struct {
	Log      zerolog.Logger
	Config   *config.AppConfig
	Auth     *service.AuthService
	Requests *service.RequestService
	Assist   *assist.Gateway
	Catalog  *catalog.Catalog
	DB       *pgxpool.Pool
	Cache    *redis.Client
}

type HandlerSet struct {
	log         zerolog.Logger
	cfg         *config.AppConfig
	authService *service.AuthService
	requests    *service.RequestService
	assist      *assist.Gateway
	catalog     *catalog.Catalog
	db          *pgxpool.Pool
	cache       *redis.Client
	limiter     *middleware.RateLimiter
}

func NewHandlerSet(deps Dependencies) HandlerSet {
	return HandlerSet{
		log:         deps.Log,
		cfg:         deps.Config,
		authService: deps.Auth,
		requests:    deps.Requests,
		assist:      deps.Assist,
		catalog:     deps.Catalog,
		db:          deps.DB,
		cache:       deps.Cache,
		limiter:     middleware.NewRateLimiter(deps.Config.RateLimit.AssistPerMinute, deps.Config.RateLimit.AssistBurst),
	}
}

func (h HandlerSet) Register(router *gin.RouterGroup) {
	router.GET("/healthz", h.Health)

	v1 := router.Group("/v1")
	v1.GET("/packages", h.ListPackages)

	auth := v1.Group("/auth")
	auth.POST("/register", h.SignUp)
	auth.POST("/login", h.Login)

	requireAuth := middleware.Auth(h.cfg.Security.JWTAccessSecret, h.authService)

	protected := v1.Group("/auth")
	protected.Use(requireAuth)
	protected.POST("/logout", h.Logout)
	protected.GET("/me", h.Me)

	requests := v1.Group("/requests")
	requests.Use(requireAuth)
	requests.POST("", h.CreateRequest)
	requests.GET("", h.ListMyRequests)
	requests.GET("/:id", h.GetRequest)
	requests.POST("/:id/confirm-payment", h.ConfirmPayment)

	assistGroup := v1.Group("/assist")
	assistGroup.Use(requireAuth, h.limiter.Handler())
	assistGroup.POST("/greeting", h.SuggestGreeting)

	admin := v1.Group("/admin")
	admin.Use(
		requireAuth,
		middleware.RequireRoles(models.UserRoleAdmin),
	)
	admin.GET("/requests", h.AdminListRequests)
	admin.GET("/requests/stats", h.AdminRequestStats)
	admin.GET("/requests/:id", h.AdminGetRequest)
	admin.PATCH("/requests/:id/status", h.AdminUpdateStatus)

	adminAssist := admin.Group("/assist")
	adminAssist.Use(h.limiter.Handler())
	adminAssist.POST("/suggestions", h.AdminSuggestions)
	adminAssist.POST("/image-concept", h.AdminImageConcept)
}
