package tier

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	apperrors "github.com/georgemunganga/vendor-directory/internal/shared/errors"
	"github.com/georgemunganga/vendor-directory/internal/shared/httputil"
)

// Handler exposes the tier table over HTTP.
type Handler struct{ policy *Policy }

func NewHandler(policy *Policy) *Handler { return &Handler{policy: policy} }

func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Route("/api/v1/tiers", func(r chi.Router) {
		r.Get("/", h.listTiers)                                 // GET  /api/v1/tiers
		r.Get("/{tier}", h.getTier)                             // GET  /api/v1/tiers/{tier}
		r.Get("/{tier}/features/{feature}", h.checkFeature)     // GET  /api/v1/tiers/{tier}/features/{feature}
		r.Post("/{tier}/fields/validate", h.validateFields)     // POST /api/v1/tiers/{tier}/fields/validate
		r.Get("/{tier}/locations/validate", h.validateLocation) // GET  /api/v1/tiers/{tier}/locations/validate?count=n
	})
}

// TierDetail is an entitlement row plus the cumulative field list.
type TierDetail struct {
	Entitlement
	AccessibleFields []string `json:"accessible_fields"`
}

type FeatureCheck struct {
	Tier        Tier   `json:"tier"`
	Feature     string `json:"feature"`
	Allowed     bool   `json:"allowed"`
	MinimumTier *Tier  `json:"minimum_tier,omitempty"`
}

type validateFieldsRequest struct {
	Fields []string `json:"fields" validate:"required,min=1"`
}

type locationCountQuery struct {
	Count int `query:"count" validate:"gte=0"`
}

func (h *Handler) detail(t Tier) TierDetail {
	return TierDetail{Entitlement: h.policy.Entitlement(t), AccessibleFields: h.policy.AccessibleFields(t)}
}

func (h *Handler) listTiers(w http.ResponseWriter, r *http.Request) {
	details := make([]TierDetail, 0, len(All))
	for _, t := range All {
		details = append(details, h.detail(t))
	}
	httputil.Respond(w, http.StatusOK, details)
}

func (h *Handler) tierParam(r *http.Request) (Tier, error) {
	name := chi.URLParam(r, "tier")
	t := ParseTier(name)
	if !t.IsKnown() {
		return Unknown, apperrors.NewNotFoundError("tier not found", name)
	}
	return t, nil
}

func (h *Handler) getTier(w http.ResponseWriter, r *http.Request) {
	t, err := h.tierParam(r)
	if err != nil {
		httputil.RespondError(w, r, err)
		return
	}
	httputil.Respond(w, http.StatusOK, h.detail(t))
}

func (h *Handler) checkFeature(w http.ResponseWriter, r *http.Request) {
	t, err := h.tierParam(r)
	if err != nil {
		httputil.RespondError(w, r, err)
		return
	}
	feature := chi.URLParam(r, "feature")
	check := FeatureCheck{Tier: t, Feature: feature, Allowed: h.policy.HasFeature(t, feature)}
	if minTier, ok := h.policy.MinimumTierFor(feature); ok {
		check.MinimumTier = &minTier
	}
	httputil.Respond(w, http.StatusOK, check)
}

func (h *Handler) validateFields(w http.ResponseWriter, r *http.Request) {
	t, err := h.tierParam(r)
	if err != nil {
		httputil.RespondError(w, r, err)
		return
	}
	var req validateFieldsRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.RespondError(w, r, err)
		return
	}
	httputil.Respond(w, http.StatusOK, h.policy.ValidateFields(t, req.Fields))
}

func (h *Handler) validateLocation(w http.ResponseWriter, r *http.Request) {
	t, err := h.tierParam(r)
	if err != nil {
		httputil.RespondError(w, r, err)
		return
	}
	var q locationCountQuery
	if raw := r.URL.Query().Get("count"); raw != "" {
		n, convErr := httputil.QueryInt(raw)
		if convErr != nil {
			httputil.RespondError(w, r, apperrors.NewValidationError("count must be an integer", raw))
			return
		}
		q.Count = n
	}
	if err := httputil.ValidateStruct(&q); err != nil {
		httputil.RespondError(w, r, err)
		return
	}
	httputil.Respond(w, http.StatusOK, h.policy.ValidateLocationLimit(t, q.Count))
}
