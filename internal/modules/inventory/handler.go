package inventory

import (
	"net/http"

	"github.com/georgemunganga/stylane-backend/internal/apperr"
	"github.com/georgemunganga/stylane-backend/internal/httpx"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const maxImageSize = 5 << 20

// Handler exposes store and product HTTP endpoints.
type Handler struct {
	service Service
	log     *zap.Logger
}

func NewHandler(service Service, log *zap.Logger) *Handler {
	return &Handler{service: service, log: log}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/stores", func(r chi.Router) {
		r.Post("/", h.createStore)
		r.Get("/", h.listStores)
		r.Get("/{id}", h.getStore)
		r.Put("/{id}", h.updateStore)
		r.Delete("/{id}", h.deleteStore)
	})
	r.Route("/products", func(r chi.Router) {
		r.Post("/", h.createProduct)
		r.Get("/", h.listProducts) // ?store_id=...
		r.Get("/{id}", h.getProduct)
		r.Put("/{id}", h.updateProduct)
		r.Delete("/{id}", h.deleteProduct)
		r.Post("/{id}/image", h.uploadImage)
	})
}

func (h *Handler) createStore(w http.ResponseWriter, r *http.Request) {
	actor, err := httpx.Actor(r)
	if err != nil {
		httpx.Error(w, r, h.log, err)
		return
	}
	var req StoreRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, r, h.log, err)
		return
	}
	store, err := h.service.CreateStore(r.Context(), actor, req)
	if err != nil {
		httpx.Error(w, r, h.log, err)
		return
	}
	httpx.Respond(w, http.StatusCreated, store)
}

func (h *Handler) listStores(w http.ResponseWriter, r *http.Request) {
	actor, err := httpx.Actor(r)
	if err != nil {
		httpx.Error(w, r, h.log, err)
		return
	}
	stores, err := h.service.ListStores(r.Context(), actor)
	if err != nil {
		httpx.Error(w, r, h.log, err)
		return
	}
	httpx.Respond(w, http.StatusOK, stores)
}

func (h *Handler) getStore(w http.ResponseWriter, r *http.Request) {
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
	store, err := h.service.GetStore(r.Context(), actor, id)
	if err != nil {
		httpx.Error(w, r, h.log, err)
		return
	}
	httpx.Respond(w, http.StatusOK, store)
}

func (h *Handler) updateStore(w http.ResponseWriter, r *http.Request) {
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
	var req StoreRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, r, h.log, err)
		return
	}
	store, err := h.service.UpdateStore(r.Context(), actor, id, req)
	if err != nil {
		httpx.Error(w, r, h.log, err)
		return
	}
	httpx.Respond(w, http.StatusOK, store)
}

func (h *Handler) deleteStore(w http.ResponseWriter, r *http.Request) {
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
	if err := h.service.DeleteStore(r.Context(), actor, id); err != nil {
		httpx.Error(w, r, h.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) createProduct(w http.ResponseWriter, r *http.Request) {
	actor, err := httpx.Actor(r)
	if err != nil {
		httpx.Error(w, r, h.log, err)
		return
	}
	var req ProductRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, r, h.log, err)
		return
	}
	p, err := h.service.CreateProduct(r.Context(), actor, req)
	if err != nil {
		httpx.Error(w, r, h.log, err)
		return
	}
	httpx.Respond(w, http.StatusCreated, p)
}

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
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
	products, err := h.service.ListProducts(r.Context(), actor, storeID)
	if err != nil {
		httpx.Error(w, r, h.log, err)
		return
	}
	httpx.Respond(w, http.StatusOK, products)
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
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
	p, err := h.service.GetProduct(r.Context(), actor, id)
	if err != nil {
		httpx.Error(w, r, h.log, err)
		return
	}
	httpx.Respond(w, http.StatusOK, p)
}

func (h *Handler) updateProduct(w http.ResponseWriter, r *http.Request) {
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
	var req ProductRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, r, h.log, err)
		return
	}
	p, err := h.service.UpdateProduct(r.Context(), actor, id, req)
	if err != nil {
		httpx.Error(w, r, h.log, err)
		return
	}
	httpx.Respond(w, http.StatusOK, p)
}

func (h *Handler) deleteProduct(w http.ResponseWriter, r *http.Request) {
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
	if err := h.service.DeleteProduct(r.Context(), actor, id); err != nil {
		httpx.Error(w, r, h.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// uploadImage accepts a multipart form with the file in the "image" field.
func (h *Handler) uploadImage(w http.ResponseWriter, r *http.Request) {
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

	r.Body = http.MaxBytesReader(w, r.Body, maxImageSize+1<<20)
	if err := r.ParseMultipartForm(maxImageSize); err != nil {
		httpx.Error(w, r, h.log, apperr.Validation("Invalid upload: %s", err.Error()))
		return
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		httpx.Error(w, r, h.log, apperr.Validation("An image file is required."))
		return
	}
	defer file.Close()

	p, err := h.service.AttachImage(r.Context(), actor, id, header.Filename, file)
	if err != nil {
		httpx.Error(w, r, h.log, err)
		return
	}
	httpx.Respond(w, http.StatusOK, p)
}
