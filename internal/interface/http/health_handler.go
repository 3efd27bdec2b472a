package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	userapp "github.com/oksasatya/go-admin-dashboard/internal/application"
	"github.com/oksasatya/go-admin-dashboard/pkg/response"
)

type HealthHandler struct {
	Store *userapp.Store
}

func NewHealthHandler(store *userapp.Store) *HealthHandler {
	return &HealthHandler{Store: store}
}

type healthStatus struct {
	State     string `json:"state"`
	Version   uint64 `json:"version"`
	Users     int    `json:"users"`
	LastError string `json:"last_error,omitempty"`
}

// Health reports the store's load state: idle, loading, ready or failed.
// It answers 503 until the collection is ready.
func (h *HealthHandler) Health(c *gin.Context) {
	snap := h.Store.Snapshot()
	st := healthStatus{Version: snap.Version, Users: len(snap.Users)}
	lastErr := h.Store.LastError()
	switch {
	case snap.Loading:
		st.State = "loading"
	case snap.Ready:
		st.State = "ready"
	case lastErr != nil:
		st.State = "failed"
	default:
		st.State = "idle"
	}
	if lastErr != nil {
		st.LastError = lastErr.Error()
	}

	status := http.StatusOK
	if !snap.Ready {
		status = http.StatusServiceUnavailable
	}
	response.Success(c, status, st, st.State, nil)
}
