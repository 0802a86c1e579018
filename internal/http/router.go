package httpapi

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/rotacerta/backend/internal/config"
	"github.com/rotacerta/backend/internal/db"
	"github.com/rotacerta/backend/internal/geo"
	"github.com/rotacerta/backend/internal/geocode"
	"github.com/rotacerta/backend/internal/http/handlers"
	"github.com/rotacerta/backend/internal/http/middleware"
	"github.com/rotacerta/backend/internal/live"
	"github.com/rotacerta/backend/internal/service"

	_ "github.com/rotacerta/backend/docs"
)

func Router(cfg config.Config, store *db.Store, planner *service.Planner, resolver *geo.Resolver, liveStore *live.Store, geocoder geocode.Geocoder, logger zerolog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.MaxMultipartMemory = cfg.MaxUploadSizeMB << 20

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Admin-Key", "X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if cfg.CORSAllowed == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = []string{cfg.CORSAllowed}
	}
	r.Use(cors.New(corsCfg))

	h := &handlers.Handler{
		Store:          store,
		Planner:        planner,
		Resolver:       resolver,
		Live:           liveStore,
		Geocoder:       geocoder,
		Validator:      validator.New(),
		Logger:         logger,
		CountryDefault: cfg.CountryDefault,
		OfficeLat:      cfg.OfficeLat,
		OfficeLon:      cfg.OfficeLon,
	}

	r.GET("/healthz", h.Healthz)

	api := r.Group("/api")
	{
		api.GET("/customers", h.CustomersList)
		api.GET("/clusters", h.ClustersList)
		api.GET("/routes", h.RoutesList)
		api.GET("/routes/:id", h.RouteDetails)
	}

	admin := api.Group("")
	admin.Use(middleware.AdminKey(cfg.AdminKey))
	{
		admin.POST("/routes", h.RoutePlan)
		admin.POST("/routes/:id/start", h.RouteStart)
		admin.POST("/routes/:id/complete", h.RouteComplete)
		admin.DELETE("/routes/:id", h.RouteDelete)
		admin.POST("/import", h.Import)
		admin.POST("/customers/regeocode", h.RegeocodeCustomers)
		admin.POST("/customers/:id/location", h.PublishLocation)
		admin.POST("/finance/late-interest", h.LateInterest)
		admin.POST("/finance/score", h.CreditScore)
	}

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}
