package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	userapp "github.com/oksasatya/go-admin-dashboard/internal/application"
	"github.com/oksasatya/go-admin-dashboard/pkg/response"
	"github.com/oksasatya/go-admin-dashboard/pkg/validation"
)

// AnalyticsHandler serves the dashboard charts, derived from the current snapshot.
type AnalyticsHandler struct {
	Store *userapp.Store
	Now   func() time.Time
}

func NewAnalyticsHandler(store *userapp.Store, now func() time.Time) *AnalyticsHandler {
	if now == nil {
		now = time.Now
	}
	return &AnalyticsHandler{Store: store, Now: now}
}

type windowRequest struct {
	Days int `form:"days" json:"days" binding:"omitempty,min=1,max=90"`
}

func (h *AnalyticsHandler) Status(c *gin.Context) {
	snap := h.Store.Snapshot()
	response.Success(c, http.StatusOK, userapp.StatusStats(snap.Users), "status distribution", map[string]any{"version": snap.Version})
}

func (h *AnalyticsHandler) Signups(c *gin.Context) {
	days, ok := h.bindDays(c)
	if !ok {
		return
	}
	snap := h.Store.Snapshot()
	response.Success(c, http.StatusOK, userapp.SignupTrend(snap.Users, h.Now(), days), "signup trend", map[string]any{"days": days, "version": snap.Version})
}

func (h *AnalyticsHandler) Summary(c *gin.Context) {
	days, ok := h.bindDays(c)
	if !ok {
		return
	}
	snap := h.Store.Snapshot()
	response.Success(c, http.StatusOK, userapp.Summarize(snap.Users, h.Now(), days), "summary", map[string]any{"version": snap.Version})
}

func (h *AnalyticsHandler) bindDays(c *gin.Context) (int, bool) {
	var req windowRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid query", validation.ToDetails(err))
		return 0, false
	}
	if req.Days == 0 {
		req.Days = userapp.DefaultTrendDays
	}
	return req.Days, true
}
