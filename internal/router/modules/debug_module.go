package modules

import (
	"expvar"

	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/go-admin-dashboard/internal/interface/http"
)

// DebugModule serves /health and, when enabled, expvar at /debug/vars
// (includes the user_store counters).
type DebugModule struct {
	Health  *handlers.HealthHandler
	Metrics bool
}

func NewDebugModule(h *handlers.HealthHandler, metrics bool) *DebugModule {
	return &DebugModule{Health: h, Metrics: metrics}
}

func (m *DebugModule) Register(rg *gin.RouterGroup) {
	rg.GET("/health", m.Health.Health)
	if m.Metrics {
		rg.GET("/debug/vars", gin.WrapH(expvar.Handler()))
	}
}
