package report

import (
	"context"
	"net/http"

	"github.com/georgemunganga/stylane-backend/internal/httpx"
	"github.com/georgemunganga/stylane-backend/internal/identity"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	log     *zap.Logger
}

func NewHandler(service Service, log *zap.Logger) *Handler {
	return &Handler{service: service, log: log}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/dashboard/admin", h.serve(func(ctx context.Context, a identity.Actor) (interface{}, error) {
		return h.service.AdminDashboard(ctx, a)
	}))
	r.Get("/reports/admin", h.serve(func(ctx context.Context, a identity.Actor) (interface{}, error) {
		return h.service.AdminReport(ctx, a)
	}))
	r.Get("/dashboard/store", h.serve(func(ctx context.Context, a identity.Actor) (interface{}, error) {
		return h.service.StoreDashboard(ctx, a)
	}))
	r.Get("/reports/store", h.serve(func(ctx context.Context, a identity.Actor) (interface{}, error) {
		return h.service.StoreReport(ctx, a)
	}))
	r.Get("/dashboard/supplier", h.serve(func(ctx context.Context, a identity.Actor) (interface{}, error) {
		return h.service.SupplierDashboard(ctx, a)
	}))
}

// serve adapts a read view to an http.HandlerFunc.
func (h *Handler) serve(view func(context.Context, identity.Actor) (interface{}, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := httpx.Actor(r)
		if err != nil {
			httpx.Error(w, r, h.log, err)
			return
		}
		body, err := view(r.Context(), actor)
		if err != nil {
			httpx.Error(w, r, h.log, err)
			return
		}
		httpx.Respond(w, http.StatusOK, body)
	}
}
