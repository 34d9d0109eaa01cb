package proximity

import (
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/georgemunganga/vendor-directory/internal/modules/geo"
	apperrors "github.com/georgemunganga/vendor-directory/internal/shared/errors"
	"github.com/georgemunganga/vendor-directory/internal/shared/httputil"
)

// Handler exposes the nearby search over HTTP.
type Handler struct {
	service Service
	now     func() time.Time
}

func NewHandler(service Service) *Handler { return &Handler{service: service, now: time.Now} }

func (h *Handler) RegisterRoutes(r *chi.Mux) {
	// GET /api/v1/vendors/nearby?lat=&lon=&category=&exclude=&radius=&limit=&product_category=
	r.Get("/api/v1/vendors/nearby", h.nearby)
	// POST /api/v1/vendors/nearby with the searcher's saved location in the body
	r.Post("/api/v1/vendors/nearby", h.nearbyFromLocation)
}

type nearbyQuery struct {
	Latitude        *float64 `query:"lat" validate:"required,gte=-90,lte=90"`
	Longitude       *float64 `query:"lon" validate:"required,gte=-180,lte=180"`
	Category        string   `query:"category" validate:"required_without=ProductCategory"`
	ProductCategory string   `query:"product_category"`
	Exclude         string   `query:"exclude" validate:"omitempty,uuid"`
	RadiusKm        float64  `query:"radius" validate:"gte=0"`
	MaxResults      int      `query:"limit" validate:"gte=0,lte=100"`
}

// NearbyResponse wraps the ordered results with the search that produced them.
type NearbyResponse struct {
	Results    []Listing `json:"results"`
	Count      int       `json:"count"`
	RadiusKm   float64   `json:"radius_km"`
	MaxResults int       `json:"max_results"`
}

func parseNearbyQuery(values url.Values) (nearbyQuery, error) {
	q := nearbyQuery{
		Category:        values.Get("category"),
		ProductCategory: values.Get("product_category"),
		Exclude:         values.Get("exclude"),
		RadiusKm:        DefaultRadiusKm,
		MaxResults:      DefaultMaxResults,
	}

	floats := []struct {
		name string
		dst  **float64
	}{{"lat", &q.Latitude}, {"lon", &q.Longitude}}
	for _, f := range floats {
		raw := values.Get(f.name)
		if raw == "" {
			continue
		}
		v, err := httputil.QueryFloat(raw)
		if err != nil {
			return q, apperrors.NewValidationError(f.name+" must be a number", raw)
		}
		*f.dst = &v
	}

	if raw := values.Get("radius"); raw != "" {
		v, err := httputil.QueryFloat(raw)
		if err != nil {
			return q, apperrors.NewValidationError("radius must be a number", raw)
		}
		q.RadiusKm = v
	}
	if raw := values.Get("limit"); raw != "" {
		v, err := httputil.QueryInt(raw)
		if err != nil {
			return q, apperrors.NewValidationError("limit must be an integer", raw)
		}
		q.MaxResults = v
	}

	return q, httputil.ValidateStruct(&q)
}

// nearbyRequest is the body of the POST search. Omitted radius and limit
// take the defaults; an explicit zero yields no results.
type nearbyRequest struct {
	Location        geo.UserLocation `json:"location"`
	Category        string           `json:"category" validate:"required_without=ProductCategory"`
	ProductCategory string           `json:"product_category"`
	Exclude         string           `json:"exclude" validate:"omitempty,uuid"`
	RadiusKm        *float64         `json:"radius" validate:"omitempty,gte=0"`
	MaxResults      *int             `json:"limit" validate:"omitempty,gte=0,lte=100"`
}

func (h *Handler) nearby(w http.ResponseWriter, r *http.Request) {
	q, err := parseNearbyQuery(r.URL.Query())
	if err != nil {
		httputil.RespondError(w, r, err)
		return
	}
	h.search(w, r, Query{
		Latitude:        *q.Latitude,
		Longitude:       *q.Longitude,
		Category:        q.Category,
		ProductCategory: q.ProductCategory,
		ExcludeVendorID: parseExclude(q.Exclude),
		RadiusKm:        q.RadiusKm,
		MaxResults:      q.MaxResults,
	})
}

func (h *Handler) nearbyFromLocation(w http.ResponseWriter, r *http.Request) {
	var req nearbyRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.RespondError(w, r, err)
		return
	}
	if err := req.Location.Validate(); err != nil {
		httputil.RespondError(w, r, apperrors.NewValidationError("invalid location", err.Error()))
		return
	}
	if req.Location.IsExpired(h.now(), geo.DefaultLocationMaxAge) {
		httputil.RespondError(w, r, apperrors.NewValidationError("location expired",
			"saved location is older than "+geo.DefaultLocationMaxAge.String()))
		return
	}

	q := Query{
		Latitude:        req.Location.Latitude,
		Longitude:       req.Location.Longitude,
		Category:        req.Category,
		ProductCategory: req.ProductCategory,
		ExcludeVendorID: parseExclude(req.Exclude),
		RadiusKm:        DefaultRadiusKm,
		MaxResults:      DefaultMaxResults,
	}
	if req.RadiusKm != nil {
		q.RadiusKm = *req.RadiusKm
	}
	if req.MaxResults != nil {
		q.MaxResults = *req.MaxResults
	}
	h.search(w, r, q)
}

// parseExclude expects a value that already passed the uuid validation.
func parseExclude(raw string) uuid.UUID {
	if raw == "" {
		return uuid.Nil
	}
	return uuid.MustParse(raw)
}

func (h *Handler) search(w http.ResponseWriter, r *http.Request, q Query) {
	results, err := h.service.Nearby(r.Context(), q)
	if err != nil {
		httputil.RespondError(w, r, err)
		return
	}
	httputil.Respond(w, http.StatusOK, NearbyResponse{
		Results:    results,
		Count:      len(results),
		RadiusKm:   q.RadiusKm,
		MaxResults: q.MaxResults,
	})
}
