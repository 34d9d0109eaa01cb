package location

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/georgemunganga/vendor-directory/internal/modules/auth"
	apperrors "github.com/georgemunganga/vendor-directory/internal/shared/errors"
	"github.com/georgemunganga/vendor-directory/internal/shared/httputil"
)

// Handler exposes the vendor dashboard location endpoints. Every route acts
// on the vendor named by the bearer token.
type Handler struct {
	service      Service
	authenticate func(http.Handler) http.Handler
}

func NewHandler(service Service, authenticate func(http.Handler) http.Handler) *Handler {
	return &Handler{service: service, authenticate: authenticate}
}

func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Route("/api/v1/dashboard/locations", func(r chi.Router) {
		r.Use(h.authenticate)
		r.Get("/", h.listLocations)
		r.Post("/", h.addLocation)
		r.Put("/{id}/headquarters", h.setHeadquarters)
		r.Delete("/{id}", h.removeLocation)
	})
}

func vendorID(r *http.Request) (uuid.UUID, error) {
	id, ok := auth.VendorIDFromContext(r.Context())
	if !ok {
		return uuid.Nil, apperrors.NewUnauthorizedError("not authenticated")
	}
	return id, nil
}

func locationID(r *http.Request) (uuid.UUID, error) {
	raw := chi.URLParam(r, "id")
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apperrors.NewValidationError("invalid location id", raw)
	}
	return id, nil
}

func (h *Handler) listLocations(w http.ResponseWriter, r *http.Request) {
	vid, err := vendorID(r)
	if err != nil {
		httputil.RespondError(w, r, err)
		return
	}
	locations, err := h.service.ListLocations(r.Context(), vid)
	if err != nil {
		httputil.RespondError(w, r, err)
		return
	}
	httputil.Respond(w, http.StatusOK, locations)
}

func (h *Handler) addLocation(w http.ResponseWriter, r *http.Request) {
	vid, err := vendorID(r)
	if err != nil {
		httputil.RespondError(w, r, err)
		return
	}
	var req AddLocationRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.RespondError(w, r, err)
		return
	}
	loc, err := h.service.AddLocation(r.Context(), vid, req)
	if err != nil {
		httputil.RespondError(w, r, err)
		return
	}
	httputil.Respond(w, http.StatusCreated, loc)
}

func (h *Handler) setHeadquarters(w http.ResponseWriter, r *http.Request) {
	vid, err := vendorID(r)
	if err != nil {
		httputil.RespondError(w, r, err)
		return
	}
	lid, err := locationID(r)
	if err != nil {
		httputil.RespondError(w, r, err)
		return
	}
	if err := h.service.SetHeadquarters(r.Context(), vid, lid); err != nil {
		httputil.RespondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) removeLocation(w http.ResponseWriter, r *http.Request) {
	vid, err := vendorID(r)
	if err != nil {
		httputil.RespondError(w, r, err)
		return
	}
	lid, err := locationID(r)
	if err != nil {
		httputil.RespondError(w, r, err)
		return
	}
	if err := h.service.RemoveLocation(r.Context(), vid, lid); err != nil {
		httputil.RespondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
