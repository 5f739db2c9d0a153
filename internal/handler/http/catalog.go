package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/rilsonjoas/alternativas-br-sub001/internal/domain"
	"github.com/rilsonjoas/alternativas-br-sub001/internal/service"
	"github.com/rilsonjoas/alternativas-br-sub001/pkg/httputil"
	"github.com/rilsonjoas/alternativas-br-sub001/pkg/middleware"
	"github.com/rilsonjoas/alternativas-br-sub001/pkg/validator"
)

// CatalogHandler handles HTTP requests for the catalog endpoints.
type CatalogHandler struct {
	service *service.CatalogService
	logger  *slog.Logger
}

// NewCatalogHandler creates a new catalog HTTP handler.
func NewCatalogHandler(svc *service.CatalogService, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{service: svc, logger: logger}
}

// CompareRequest lists the products to compare.
type CompareRequest struct {
	IDs []string `json:"ids" validate:"min=2,max=4,unique,dive,required"`
}

// writeParamError answers 400 INVALID_PARAMETER for parse failures and
// falls back to WriteError for everything else.
func (h *CatalogHandler) writeParamError(w http.ResponseWriter, r *http.Request, err error) {
	var pe *paramError
	if errors.As(err, &pe) {
		httputil.WriteParamError(w, pe.Error())
		return
	}
	httputil.WriteError(w, r, err, h.logger)
}

// Search handles GET /api/v1/catalog/search
func (h *CatalogHandler) Search(w http.ResponseWriter, r *http.Request) {
	req, err := parseSearchRequest(r)
	if err != nil {
		h.writeParamError(w, r, err)
		return
	}
	req.Owner = middleware.OwnerFromRequest(r)

	result, err := h.service.Search(r.Context(), req)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, result)
}

// Suggest handles GET /api/v1/catalog/suggest
func (h *CatalogHandler) Suggest(w http.ResponseWriter, r *http.Request) {
	suggestions := h.service.Suggest(r.Context(), r.URL.Query().Get("q"))
	httputil.WriteData(w, map[string]any{"suggestions": suggestions})
}

// History handles GET /api/v1/catalog/history
func (h *CatalogHandler) History(w http.ResponseWriter, r *http.Request) {
	entries := h.service.History(r.Context(), middleware.OwnerFromRequest(r))
	httputil.WriteData(w, map[string]any{"entries": entries})
}

// ClearHistory handles DELETE /api/v1/catalog/history
func (h *CatalogHandler) ClearHistory(w http.ResponseWriter, r *http.Request) {
	h.service.ClearHistory(r.Context(), middleware.OwnerFromRequest(r))
	w.WriteHeader(http.StatusNoContent)
}

// Recommendations handles GET /api/v1/catalog/recommendations
func (h *CatalogHandler) Recommendations(w http.ResponseWriter, r *http.Request) {
	rc, limit, err := parseRecommendContext(r)
	if err != nil {
		h.writeParamError(w, r, err)
		return
	}

	recs, err := h.service.Recommend(r.Context(), rc, limit)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	if recs == nil {
		recs = []domain.RecommendationResult{}
	}

	httputil.WriteData(w, map[string]any{
		"reason":          rc.Reason(),
		"recommendations": recs,
	})
}

// Compare handles GET /api/v1/catalog/compare
func (h *CatalogHandler) Compare(w http.ResponseWriter, r *http.Request) {
	req := CompareRequest{IDs: listParam(r.URL.Query(), "ids")}
	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	cmp, err := h.service.Compare(r.Context(), req.IDs)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, cmp)
}

// Facets handles GET /api/v1/catalog/facets
func (h *CatalogHandler) Facets(w http.ResponseWriter, r *http.Request) {
	facets, err := h.service.Facets(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, facets)
}

// CompareJSON handles POST /api/v1/catalog/compare with a JSON body.
func (h *CatalogHandler) CompareJSON(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<16)

	var req CompareRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	cmp, err := h.service.Compare(r.Context(), req.IDs)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, cmp)
}
