package httpadapter

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"statemark/internal/app/ports"
	"statemark/internal/domain/state"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
)

// Handler exposes the server-mode bookmark store to remote sessions.
type Handler struct {
	Bookmarks ports.BookmarkRepository
	BaseURL   string
	Metrics   ports.BookmarkMetrics
	KPI       kpiSnapshotProvider
}

func (h Handler) RegisterRoutes(s *server.Hertz) {
	s.Use(corsMiddleware())
	api := s.Group("/api")
	api.POST("/bookmarks", h.storeBookmark)
	api.GET("/bookmarks/:id", h.resolveBookmark)

	s.GET("/ops/kpi", h.kpi)
}

type storeRequest struct {
	Token string `json:"token"`
}

type storeResponse struct {
	ID  string `json:"id"`
	URL string `json:"url,omitempty"`
}

type resolveResponse struct {
	ID    string `json:"id"`
	Token string `json:"token"`
}

func (h Handler) storeBookmark(c context.Context, ctx *app.RequestContext) {
	var body storeRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	if strings.TrimSpace(body.Token) == "" {
		writeErrorBody(ctx, consts.StatusBadRequest, "missing_token", "token is required")
		return
	}

	id, err := h.Bookmarks.Store(c, state.Token(body.Token))
	if err != nil {
		h.recordFailure(ports.PhaseStoring)
		writeError(ctx, err)
		return
	}

	resp := storeResponse{ID: id}
	if h.BaseURL != "" {
		if u, err := state.RefLocator(id).URL(h.BaseURL); err == nil {
			resp.URL = u
		}
	}
	if h.Metrics != nil {
		h.Metrics.RecordBookmarked("server")
	}
	ctx.JSON(consts.StatusCreated, resp)
}

func (h Handler) resolveBookmark(c context.Context, ctx *app.RequestContext) {
	id := strings.TrimSpace(string(ctx.Param("id")))
	if id == "" {
		writeErrorBody(ctx, consts.StatusBadRequest, "missing_id", "bookmark id is required")
		return
	}

	token, err := h.Bookmarks.Resolve(c, id)
	if err != nil {
		h.recordFailure(ports.PhaseResolving)
		writeError(ctx, err)
		return
	}
	if h.Metrics != nil {
		h.Metrics.RecordRestored()
	}
	ctx.JSON(consts.StatusOK, resolveResponse{ID: id, Token: string(token)})
}

func (h Handler) recordFailure(stage ports.Phase) {
	if h.Metrics != nil {
		h.Metrics.RecordFailure(string(stage))
	}
}

type kpiSnapshotProvider interface {
	SnapshotAny() any
}

func (h Handler) kpi(_ context.Context, ctx *app.RequestContext) {
	if h.KPI == nil {
		writeErrorBody(ctx, consts.StatusNotFound, "not_configured", "kpi provider not configured")
		return
	}
	ctx.JSON(consts.StatusOK, h.KPI.SnapshotAny())
}

func decodeJSON(ctx *app.RequestContext, out any) error {
	body := ctx.Request.Body()
	if len(body) == 0 {
		return nil
	}
	return json.Unmarshal(body, out)
}

func writeError(ctx *app.RequestContext, err error) {
	switch {
	case errors.Is(err, ports.ErrNotFound):
		writeErrorBody(ctx, consts.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, ports.ErrStorage):
		writeErrorBody(ctx, consts.StatusServiceUnavailable, "storage_error", err.Error())
	case errors.Is(err, state.ErrEncoding):
		writeErrorBody(ctx, consts.StatusBadRequest, "bad_token", err.Error())
	default:
		writeErrorBody(ctx, consts.StatusInternalServerError, "internal_error", "internal error")
	}
}

func writeErrorBody(ctx *app.RequestContext, status int, code, message string) {
	ctx.JSON(status, map[string]any{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
