package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/oksasatya/go-admin-dashboard/internal/interface/http"
	"github.com/oksasatya/go-admin-dashboard/internal/interface/middleware"
)

// RateLimitSettings configures the limiter on mutating routes.
type RateLimitSettings struct {
	Redis     *redis.Client
	PerMinute int
	Allow     middleware.AllowFunc
}

// UserModule wires the users listing and edit routes:
// GET /users, GET /users/stream, GET /users/:id, PATCH /users/:id, DELETE /users/:id
type UserModule struct {
	Handler *handlers.UserHandler
	Limit   RateLimitSettings
}

func NewUserModule(h *handlers.UserHandler, limit RateLimitSettings) *UserModule {
	return &UserModule{Handler: h, Limit: limit}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	users := rg.Group("/users")
	users.GET("", m.Handler.List)
	users.GET("/stream", m.Handler.Stream)
	users.GET("/:id", m.Handler.Get)

	write := middleware.RateLimit(m.Limit.Redis, m.Limit.PerMinute, time.Minute, middleware.KeyByIPAndRoute(), m.Limit.Allow)
	users.PATCH("/:id", write, m.Handler.Update)
	users.DELETE("/:id", write, m.Handler.Delete)
}
