package catalog

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/georgemunganga/vendor-directory/internal/modules/auth"
	apperrors "github.com/georgemunganga/vendor-directory/internal/shared/errors"
	"github.com/georgemunganga/vendor-directory/internal/shared/httputil"
)

// Handler exposes catalog HTTP endpoints.
type Handler struct {
	service      Service
	authenticate func(http.Handler) http.Handler
}

func NewHandler(service Service, authenticate func(http.Handler) http.Handler) *Handler {
	return &Handler{service: service, authenticate: authenticate}
}

func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Route("/api/v1/catalog", func(r chi.Router) {
		r.Get("/products", h.listProducts) // ?category=&vendor_id=&active=false
		r.Get("/products/{id}", h.getProduct)
	})
	r.Route("/api/v1/dashboard/products", func(r chi.Router) {
		r.Use(h.authenticate)
		r.Post("/", h.createProduct)
		r.Put("/{id}", h.updateProduct)
	})
}

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	filter := ListFilter{
		Category:   r.URL.Query().Get("category"),
		ActiveOnly: r.URL.Query().Get("active") != "false",
	}
	if raw := r.URL.Query().Get("vendor_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			httputil.RespondError(w, r, apperrors.NewValidationError("invalid vendor_id", raw))
			return
		}
		filter.VendorID = id
	}
	products, err := h.service.ListProducts(r.Context(), filter)
	if err != nil {
		httputil.RespondError(w, r, err)
		return
	}
	httputil.Respond(w, http.StatusOK, products)
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.service.GetProduct(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httputil.RespondError(w, r, err)
		return
	}
	httputil.Respond(w, http.StatusOK, p)
}

func (h *Handler) createProduct(w http.ResponseWriter, r *http.Request) {
	vendorID, ok := auth.VendorIDFromContext(r.Context())
	if !ok {
		httputil.RespondError(w, r, apperrors.NewUnauthorizedError("not authenticated"))
		return
	}
	var req ProductRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.RespondError(w, r, err)
		return
	}
	p, err := h.service.CreateProduct(r.Context(), vendorID, req)
	if err != nil {
		httputil.RespondError(w, r, err)
		return
	}
	httputil.Respond(w, http.StatusCreated, p)
}

func (h *Handler) updateProduct(w http.ResponseWriter, r *http.Request) {
	vendorID, ok := auth.VendorIDFromContext(r.Context())
	if !ok {
		httputil.RespondError(w, r, apperrors.NewUnauthorizedError("not authenticated"))
		return
	}
	var req ProductRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.RespondError(w, r, err)
		return
	}
	p, err := h.service.UpdateProduct(r.Context(), vendorID, chi.URLParam(r, "id"), req)
	if err != nil {
		httputil.RespondError(w, r, err)
		return
	}
	httputil.Respond(w, http.StatusOK, p)
}
