package pos

import (
	"net/http"

	"github.com/georgemunganga/stylane-backend/internal/httpx"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Handler exposes sale HTTP endpoints.
type Handler struct {
	service Service
	log     *zap.Logger
}

func NewHandler(service Service, log *zap.Logger) *Handler {
	return &Handler{service: service, log: log}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/sales", func(r chi.Router) {
		r.Post("/", h.recordSale) // POST /api/v1/sales
		r.Get("/", h.listSales)   // GET  /api/v1/sales?store_id=...
		r.Get("/{id}", h.getSale) // GET  /api/v1/sales/{id}
	})
}

func (h *Handler) recordSale(w http.ResponseWriter, r *http.Request) {
	actor, err := httpx.Actor(r)
	if err != nil {
		httpx.Error(w, r, h.log, err)
		return
	}
	var req RecordSaleRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, r, h.log, err)
		return
	}
	sale, err := h.service.RecordSale(r.Context(), actor, req)
	if err != nil {
		httpx.Error(w, r, h.log, err)
		return
	}
	httpx.Respond(w, http.StatusCreated, sale)
}

func (h *Handler) listSales(w http.ResponseWriter, r *http.Request) {
	actor, err := httpx.Actor(r)
	if err != nil {
		httpx.Error(w, r, h.log, err)
		return
	}
	storeID, err := httpx.QueryID(r, "store_id")
	if err != nil {
		httpx.Error(w, r, h.log, err)
		return
	}
	sales, err := h.service.ListSales(r.Context(), actor, storeID)
	if err != nil {
		httpx.Error(w, r, h.log, err)
		return
	}
	httpx.Respond(w, http.StatusOK, sales)
}

func (h *Handler) getSale(w http.ResponseWriter, r *http.Request) {
	actor, err := httpx.Actor(r)
	if err != nil {
		httpx.Error(w, r, h.log, err)
		return
	}
	id, err := httpx.URLID(r, "id")
	if err != nil {
		httpx.Error(w, r, h.log, err)
		return
	}
	sale, err := h.service.GetSale(r.Context(), actor, id)
	if err != nil {
		httpx.Error(w, r, h.log, err)
		return
	}
	httpx.Respond(w, http.StatusOK, sale)
}
