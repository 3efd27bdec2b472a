package router

import (
	"github.com/oksasatya/go-admin-dashboard/internal/container"
	handlers "github.com/oksasatya/go-admin-dashboard/internal/interface/http"
	"github.com/oksasatya/go-admin-dashboard/internal/interface/middleware"
	"github.com/oksasatya/go-admin-dashboard/internal/router/modules"
)

// InitModules builds the handlers from c and adds their modules to r.
// Call once during startup, before RegisterAll.
func InitModules(r *Registry, c *container.Container) {
	var allow middleware.AllowFunc
	if c.Config.RateLimitAllowLocal {
		allow = middleware.AllowPrivateIP()
	}
	limit := modules.RateLimitSettings{Redis: c.Redis, PerMinute: c.Config.RateLimitPerMinute, Allow: allow}

	r.Add(modules.NewUserModule(handlers.NewUserHandler(c.Store, c.Logger), limit))
	r.Add(modules.NewAnalyticsModule(handlers.NewAnalyticsHandler(c.Store, c.Now)))
	r.Add(modules.NewDebugModule(handlers.NewHealthHandler(c.Store), c.Config.DebugMetricsEnabled))
}
