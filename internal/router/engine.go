package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-admin-dashboard/internal/container"
	"github.com/oksasatya/go-admin-dashboard/internal/interface/middleware"
	"github.com/oksasatya/go-admin-dashboard/pkg/validation"
)

// NewEngine builds the Gin engine with global middleware and all modules registered.
func NewEngine(c *container.Container) *gin.Engine {
	validation.Init()

	r := gin.New()
	// engine-wide: fallback 404/405 envelopes and preflights need these too
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(cors.New(corsConfig(c.Config.CORSOrigins())))

	reg := NewRegistry(r, apiBasePath)
	reg.Use(middleware.RealIP())
	if c.Config.HTTPLogEnabled || c.Config.Env == "development" {
		reg.Use(gin.Logger())
	}
	InitModules(reg, c)
	reg.RegisterAll()
	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", middleware.RequestIDHeader},
		ExposeHeaders: []string{"Content-Length", middleware.RequestIDHeader, "X-RateLimit-Remaining"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}
