package handlers

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	userapp "github.com/oksasatya/go-admin-dashboard/internal/application"
	"github.com/oksasatya/go-admin-dashboard/internal/domain/entity"
	"github.com/oksasatya/go-admin-dashboard/pkg/response"
	"github.com/oksasatya/go-admin-dashboard/pkg/validation"
)

type UserHandler struct {
	Store  *userapp.Store
	Logger *logrus.Logger
}

func NewUserHandler(store *userapp.Store, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Store: store, Logger: logger}
}

type listUsersRequest struct {
	Search    string `form:"search" json:"search" binding:"max=200"`
	Status    string `form:"status" json:"status" binding:"omitempty,statusfilter"`
	SortBy    string `form:"sort_by" json:"sort_by" binding:"omitempty,sortfield"`
	SortOrder string `form:"sort_order" json:"sort_order" binding:"omitempty,sortorder"`
	Page      int    `form:"page" json:"page" binding:"omitempty,min=1"`
}

type updateUserRequest struct {
	Name       *string    `json:"name" binding:"omitempty,max=100"`
	Email      *string    `json:"email" binding:"omitempty,email"`
	Role       *string    `json:"role" binding:"omitempty,max=50"`
	Status     *string    `json:"status" binding:"omitempty,userstatus"`
	Avatar     *string    `json:"avatar" binding:"omitempty,uri"`
	LastActive *time.Time `json:"last_active"`
}

type listMeta struct {
	userapp.PageMeta
	Loading bool                `json:"loading"`
	Version uint64              `json:"version"`
	Sort    entity.SortState    `json:"sort"`
	Status  entity.StatusFilter `json:"status"`
	Search  string              `json:"search"`
}

// toQuery applies the request on top of the listing defaults. A search or
// status filter in the request always starts from page 1 unless a page is given.
func (r listUsersRequest) toQuery() entity.ListQuery {
	view := userapp.NewViewState()
	if r.Search != "" {
		view.SetSearch(r.Search)
	}
	if f, ok := entity.ParseStatusFilter(r.Status); ok {
		view.SetStatus(f)
	}
	sort := view.Query().Sort
	if field, ok := entity.ParseSortField(r.SortBy); ok {
		sort = entity.SortState{Field: field, Order: entity.SortAsc}
	}
	if order, ok := entity.ParseSortOrder(r.SortOrder); ok {
		sort.Order = order
	}
	view.SetSort(sort)

	q := view.Query()
	if r.Page > 0 {
		q.Page = r.Page
	}
	return q
}

func (r updateUserRequest) toPatch() entity.UserPatch {
	p := entity.UserPatch{
		Name:       r.Name,
		Email:      r.Email,
		Role:       r.Role,
		Avatar:     r.Avatar,
		LastActive: r.LastActive,
	}
	if r.Status != nil {
		st := entity.UserStatus(*r.Status)
		if parsed, err := entity.ParseUserStatus(*r.Status); err == nil {
			st = parsed
		}
		p.Status = &st
	}
	return p
}

// List returns one page of the filtered, sorted collection.
func (h *UserHandler) List(c *gin.Context) {
	var req listUsersRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid query", validation.ToDetails(err))
		return
	}
	q := req.toQuery()
	snap := h.Store.Snapshot()
	page := userapp.Derive(snap.Users, q)

	response.Success(c, http.StatusOK, page.Users, "users", listMeta{
		PageMeta: page.Meta,
		Loading:  snap.Loading || !snap.Ready,
		Version:  snap.Version,
		Sort:     q.Sort,
		Status:   q.Status,
		Search:   q.Search,
	})
}

func (h *UserHandler) Get(c *gin.Context) {
	u, err := h.Store.Get(c.Param("id"))
	if err != nil {
		h.writeStoreError(c, err)
		return
	}
	response.Success(c, http.StatusOK, u, "user", nil)
}

func (h *UserHandler) Update(c *gin.Context) {
	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	id := c.Param("id")
	u, err := h.Store.UpdateUser(id, req.toPatch())
	if err != nil {
		h.writeStoreError(c, err)
		return
	}
	if h.Logger != nil {
		h.Logger.WithFields(logrus.Fields{"user_id": id, "request_id": c.GetString("request_id")}).Info("user updated")
	}
	response.Success(c, http.StatusOK, u, "user updated", nil)
}

func (h *UserHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if err := h.Store.DeleteUser(id); err != nil {
		h.writeStoreError(c, err)
		return
	}
	if h.Logger != nil {
		h.Logger.WithFields(logrus.Fields{"user_id": id, "request_id": c.GetString("request_id")}).Info("user deleted")
	}
	response.Success[any](c, http.StatusOK, map[string]any{"id": id, "deleted": true}, "user deleted", nil)
}

type streamEvent struct {
	Kind    userapp.ChangeKind `json:"kind"`
	UserID  string             `json:"user_id,omitempty"`
	User    *entity.User       `json:"user,omitempty"`
	Version uint64             `json:"version"`
	Total   int                `json:"total"`
	Loading bool               `json:"loading"`
}

// Stream pushes store changes as server-sent events until the client goes away.
// The first event ("state") describes the current snapshot. A client that
// falls too far behind gets a final "resync" event and the stream ends.
func (h *UserHandler) Stream(c *gin.Context) {
	queue := newChangeQueue(streamBuffer)
	unsubscribe := h.Store.Subscribe(queue.push)
	defer unsubscribe()

	snap := h.Store.Snapshot()
	c.SSEvent("state", streamEvent{Kind: "state", Version: snap.Version, Total: len(snap.Users), Loading: snap.Loading || !snap.Ready})
	c.Writer.Flush()

	ctx := c.Request.Context()
	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case <-queue.overflow:
			// the client fell behind; it reconnects and starts from a fresh "state"
			c.SSEvent("resync", streamEvent{Kind: "resync", Version: h.Store.Snapshot().Version})
			return false
		case chg := <-queue.changes:
			c.SSEvent(string(chg.Kind), streamEvent{
				Kind:    chg.Kind,
				UserID:  chg.UserID,
				User:    chg.User,
				Version: chg.Snapshot.Version,
				Total:   len(chg.Snapshot.Users),
			})
			return true
		}
	})
}

func (h *UserHandler) writeStoreError(c *gin.Context, err error) {
	var invalid *userapp.InvalidUpdateError
	switch {
	case errors.As(err, &invalid):
		response.Error[any](c, http.StatusBadRequest, "invalid update", invalid.Fields)
	case errors.Is(err, userapp.ErrUserNotFound):
		response.Error[any](c, http.StatusNotFound, "user not found", nil)
	case errors.Is(err, userapp.ErrNotLoaded):
		response.Error[any](c, http.StatusServiceUnavailable, "users are loading", nil)
	default:
		if h.Logger != nil {
			h.Logger.WithError(err).Error("user store error")
		}
		response.Error[any](c, http.StatusInternalServerError, "internal error", nil)
	}
}
