// Package router assembles the gin engine of the record API.
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/sma-portal/api/swagger"
	"github.com/noah-isme/sma-portal/internal/handler"
	"github.com/noah-isme/sma-portal/internal/middleware"
	"github.com/noah-isme/sma-portal/internal/models"
	"github.com/noah-isme/sma-portal/internal/service"
	"github.com/noah-isme/sma-portal/pkg/config"
	"github.com/noah-isme/sma-portal/pkg/logger"
	corsmiddleware "github.com/noah-isme/sma-portal/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/sma-portal/pkg/middleware/requestid"
)

// Options carries the collaborators the routes are bound to. Metrics may be
// nil when the Prometheus endpoint is disabled.
type Options struct {
	Config  *config.Config
	Logger  *zap.Logger
	Auth    *service.AuthService
	Records *service.RecordService
	Metrics *service.MetricsService
	Checks  map[string]handler.Check
}

// New builds the engine with every route of the record API.
func New(opts Options) *gin.Engine {
	cfg := opts.Config
	logr := opts.Logger
	if logr == nil {
		logr = zap.NewNop()
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	if opts.Metrics != nil {
		r.Use(middleware.Metrics(opts.Metrics))
	}

	var prom http.Handler
	if opts.Metrics != nil {
		prom = opts.Metrics.Handler()
	}
	health := handler.NewHealthHandler(prom, opts.Checks)
	r.GET("/health", health.Health)
	r.GET("/ready", health.Ready)
	r.GET("/metrics", health.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	authHandler := handler.NewAuthHandler(opts.Auth, opts.Records, logr)
	recordHandler := handler.NewRecordHandler(opts.Records)

	api := r.Group(cfg.APIPrefix)
	api.POST("/login", authHandler.Login)
	api.POST("/users", authHandler.Register)

	records := api.Group("", middleware.JWT(opts.Auth))
	records.GET("/:kind", recordHandler.List)

	admin := records.Group("", middleware.RequireRoles(models.RoleAdmin))
	admin.PUT("/:kind/:id", recordHandler.Update)
	admin.DELETE("/:kind/:id", recordHandler.Delete)

	return r
}
