package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/go-admin-dashboard/internal/interface/http"
)

type AnalyticsModule struct {
	Handler *handlers.AnalyticsHandler
}

func NewAnalyticsModule(h *handlers.AnalyticsHandler) *AnalyticsModule {
	return &AnalyticsModule{Handler: h}
}

func (m *AnalyticsModule) Register(rg *gin.RouterGroup) {
	a := rg.Group("/analytics")
	a.GET("/status", m.Handler.Status)
	a.GET("/signups", m.Handler.Signups)
	a.GET("/summary", m.Handler.Summary)
}
