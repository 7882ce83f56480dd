package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/communityservice/platform-backend/internal/config"
	"github.com/communityservice/platform-backend/internal/http/handlers"
	"github.com/communityservice/platform-backend/internal/http/middleware"
	"github.com/communityservice/platform-backend/internal/metrics"
	"github.com/communityservice/platform-backend/internal/models"
)

// Deps: зависимости HTTP слоя, собранные в main.
type Deps struct {
	Workers    *handlers.WorkerHandler
	Categories *handlers.CategoryHandler
	Health     *handlers.HealthHandler
	Tokens     middleware.AccessTokenParser
	Metrics    *metrics.HTTP
	Gatherer   prometheus.Gatherer
	Log        *logrus.Entry
}

func SetupRouter(cfg *config.Config, deps Deps) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	if deps.Metrics != nil {
		r.Use(deps.Metrics.Middleware())
	}
	r.Use(middleware.ErrorHandler(deps.Log))
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))
	r.NoRoute(middleware.NotFoundHandler)

	r.GET("/", handlers.Welcome)
	r.GET("/health", deps.Health.Health)
	if deps.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}

	api := r.Group("/api")
	api.Use(middleware.RateLimitMiddleware(cfg.RateLimitLimit, cfg.RateLimitPeriod))

	auth := middleware.AuthMiddleware(deps.Tokens)
	adminOnly := middleware.RequireRole(models.RoleAdmin)
	workerID := middleware.UUIDValidator("id", "Invalid worker ID format")

	workers := api.Group("/workers")
	{
		workers.POST("", middleware.OptionalAuthMiddleware(deps.Tokens), deps.Workers.Register)
		workers.GET("", deps.Workers.List)
		workers.GET("/:id", workerID, deps.Workers.Get)
		workers.PUT("/:id", auth, workerID, deps.Workers.Update)
		workers.PATCH("/:id/status", auth, adminOnly, workerID, deps.Workers.UpdateStatus)
		workers.DELETE("/:id", auth, adminOnly, workerID, deps.Workers.Delete)
	}

	categories := api.Group("/categories")
	{
		categories.POST("", deps.Categories.Create)
		categories.GET("", deps.Categories.List)
		categories.GET("/:id", deps.Categories.Get)
	}

	return r
}
