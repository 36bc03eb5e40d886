package restock

import (
	"net/http"

	"github.com/georgemunganga/stylane-backend/internal/httpx"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Handler exposes restock request and shipment HTTP endpoints.
type Handler struct {
	service Service
	log     *zap.Logger
}

func NewHandler(service Service, log *zap.Logger) *Handler {
	return &Handler{service: service, log: log}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/restock-requests", func(r chi.Router) {
		r.Post("/", h.createRequest)
		r.Get("/", h.listRequests) // ?status=all|pending|approved|rejected|shipped
		r.Get("/{id}", h.getRequest)
		r.Post("/{id}/approve", h.approveRequest)
		r.Post("/{id}/reject", h.rejectRequest)
	})
	r.Route("/shipments", func(r chi.Router) {
		r.Get("/", h.listShipments)
		r.Get("/{id}", h.getShipment)
		r.Patch("/{id}", h.updateShipment)
	})
}

func (h *Handler) createRequest(w http.ResponseWriter, r *http.Request) {
	actor, err := httpx.Actor(r)
	if err != nil {
		httpx.Error(w, r, h.log, err)
		return
	}
	var req CreateRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, r, h.log, err)
		return
	}
	rr, err := h.service.CreateRequest(r.Context(), actor, req)
	if err != nil {
		httpx.Error(w, r, h.log, err)
		return
	}
	httpx.Respond(w, http.StatusCreated, rr)
}

func (h *Handler) listRequests(w http.ResponseWriter, r *http.Request) {
	actor, err := httpx.Actor(r)
	if err != nil {
		httpx.Error(w, r, h.log, err)
		return
	}
	requests, err := h.service.ListRequests(r.Context(), actor, r.URL.Query().Get("status"))
	if err != nil {
		httpx.Error(w, r, h.log, err)
		return
	}
	httpx.Respond(w, http.StatusOK, requests)
}

func (h *Handler) getRequest(w http.ResponseWriter, r *http.Request) {
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
	rr, err := h.service.GetRequest(r.Context(), actor, id)
	if err != nil {
		httpx.Error(w, r, h.log, err)
		return
	}
	httpx.Respond(w, http.StatusOK, rr)
}

func (h *Handler) approveRequest(w http.ResponseWriter, r *http.Request) {
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
	var req ApproveRequest
	if r.ContentLength != 0 {
		if err := httpx.Decode(r, &req); err != nil {
			httpx.Error(w, r, h.log, err)
			return
		}
	}
	rr, shipment, err := h.service.ApproveRequest(r.Context(), actor, id, req)
	if err != nil {
		httpx.Error(w, r, h.log, err)
		return
	}
	httpx.Respond(w, http.StatusOK, map[string]interface{}{
		"request":  rr,
		"shipment": shipment,
	})
}

func (h *Handler) rejectRequest(w http.ResponseWriter, r *http.Request) {
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
	var req RejectRequest
	if r.ContentLength != 0 {
		if err := httpx.Decode(r, &req); err != nil {
			httpx.Error(w, r, h.log, err)
			return
		}
	}
	rr, err := h.service.RejectRequest(r.Context(), actor, id, req)
	if err != nil {
		httpx.Error(w, r, h.log, err)
		return
	}
	httpx.Respond(w, http.StatusOK, rr)
}

func (h *Handler) listShipments(w http.ResponseWriter, r *http.Request) {
	actor, err := httpx.Actor(r)
	if err != nil {
		httpx.Error(w, r, h.log, err)
		return
	}
	shipments, err := h.service.ListShipments(r.Context(), actor)
	if err != nil {
		httpx.Error(w, r, h.log, err)
		return
	}
	httpx.Respond(w, http.StatusOK, shipments)
}

func (h *Handler) getShipment(w http.ResponseWriter, r *http.Request) {
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
	sh, err := h.service.GetShipment(r.Context(), actor, id)
	if err != nil {
		httpx.Error(w, r, h.log, err)
		return
	}
	httpx.Respond(w, http.StatusOK, sh)
}

func (h *Handler) updateShipment(w http.ResponseWriter, r *http.Request) {
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
	var req UpdateShipmentRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, r, h.log, err)
		return
	}
	sh, err := h.service.UpdateShipment(r.Context(), actor, id, req)
	if err != nil {
		httpx.Error(w, r, h.log, err)
		return
	}
	httpx.Respond(w, http.StatusOK, sh)
}
