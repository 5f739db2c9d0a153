// Package service orchestrates the catalog pipeline: snapshot fetch,
// facet filtering, sorting, pagination, history and recommendations.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/rilsonjoas/alternativas-br-sub001/internal/analytics"
	"github.com/rilsonjoas/alternativas-br-sub001/internal/domain"
	"github.com/rilsonjoas/alternativas-br-sub001/internal/filter"
	"github.com/rilsonjoas/alternativas-br-sub001/internal/history"
	"github.com/rilsonjoas/alternativas-br-sub001/internal/ranking"
	"github.com/rilsonjoas/alternativas-br-sub001/internal/recommend"
	"github.com/rilsonjoas/alternativas-br-sub001/internal/suggest"
	apperrors "github.com/rilsonjoas/alternativas-br-sub001/pkg/errors"
	"github.com/rilsonjoas/alternativas-br-sub001/pkg/pagination"
)

var (
	searchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_searches_total",
			Help: "Catalog searches by sort field",
		},
		[]string{"sort"},
	)

	searchResults = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "catalog_search_results",
			Help:    "Number of products matching a search before pagination",
			Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 250, 500},
		},
	)
)

// Snapshot supplies the entity collection for one pipeline run.
type Snapshot interface {
	Get(ctx context.Context) (products []domain.Product, degraded bool, err error)
}

// CatalogService runs searches and the features built on the same
// snapshot.
type CatalogService struct {
	snapshot     Snapshot
	history      *history.Service
	suggestions  *suggest.Generator
	analytics    analytics.Sink
	logger       *slog.Logger
	defaultLimit int
}

// Option configures a CatalogService.
type Option func(*CatalogService)

// WithAnalytics sets the sink committed searches are reported to.
func WithAnalytics(sink analytics.Sink) Option {
	return func(s *CatalogService) { s.analytics = sink }
}

// WithRecommendLimit sets the recommendation count used when callers send
// none.
func WithRecommendLimit(limit int) Option {
	return func(s *CatalogService) {
		if limit > 0 {
			s.defaultLimit = limit
		}
	}
}

// NewCatalogService creates a catalog service.
func NewCatalogService(
	snapshot Snapshot,
	hist *history.Service,
	suggestions *suggest.Generator,
	logger *slog.Logger,
	opts ...Option,
) *CatalogService {
	s := &CatalogService{
		snapshot:     snapshot,
		history:      hist,
		suggestions:  suggestions,
		analytics:    analytics.Nop{},
		logger:       logger,
		defaultLimit: recommend.DefaultLimit,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Search filters, sorts and paginates the snapshot. A committed search
// with a non-blank query and well-formed criteria is recorded in the
// owner's history.
func (s *CatalogService) Search(ctx context.Context, req domain.SearchRequest) (*domain.SearchResult, error) {
	start := time.Now()

	spec := req.Sort.Normalize()
	if !domain.IsValidSort(spec.Field) {
		return nil, apperrors.InvalidInput("unknown sort field: " + spec.Field)
	}

	products, degraded, err := s.snapshot.Get(ctx)
	if err != nil {
		return nil, unavailable(err)
	}

	matched, malformed := filter.ApplyChecked(products, req.Criteria)
	if malformed != nil {
		s.logger.WarnContext(ctx, "malformed filter criteria, no results",
			slog.String("error", malformed.Error()),
		)
	}
	sorted := ranking.Sort(matched, spec, req.Criteria.Query)

	params := pagination.New(req.Page, req.PerPage)
	page := pagination.NewResult(pagination.Slice(sorted, params), len(sorted), params)

	searchesTotal.WithLabelValues(spec.Field).Inc()
	searchResults.Observe(float64(len(sorted)))

	if req.Commit && req.Criteria.HasQuery() && malformed == nil {
		s.history.Record(ctx, req.Owner, req.Criteria.Query, req.Criteria, len(sorted))
		s.analytics.SearchPerformed(ctx, analytics.SearchPerformed{
			Owner:       req.Owner,
			Query:       req.Criteria.Query,
			Criteria:    req.Criteria,
			Sort:        spec,
			ResultCount: len(sorted),
			Degraded:    degraded,
		})
	}

	return &domain.SearchResult{
		Products:   page.Data,
		Total:      page.TotalCount,
		Page:       page.Page,
		PerPage:    page.PerPage,
		TotalPages: page.TotalPages,
		HasNext:    page.HasNext,
		Degraded:   degraded,
		TookMs:     time.Since(start).Milliseconds(),
	}, nil
}

// Suggest returns autocomplete suggestions for partial. It never fails.
func (s *CatalogService) Suggest(ctx context.Context, partial string) []domain.Suggestion {
	return s.suggestions.Suggest(ctx, partial)
}

// History returns owner's recent searches, most recent first.
func (s *CatalogService) History(ctx context.Context, owner string) []domain.SearchHistoryEntry {
	return s.history.List(ctx, owner)
}

// ClearHistory empties owner's history.
func (s *CatalogService) ClearHistory(ctx context.Context, owner string) {
	s.history.Clear(ctx, owner)
}

// Recommend returns recommendations for rc. A non-positive limit uses the
// configured default.
func (s *CatalogService) Recommend(ctx context.Context, rc domain.RecommendContext, limit int) ([]domain.RecommendationResult, error) {
	products, err := s.products(ctx)
	if err != nil {
		return nil, err
	}
	return recommend.Recommend(products, rc, recommend.ClampLimit(limit, s.defaultLimit))
}

// Compare builds the side-by-side table of the products named by ids.
func (s *CatalogService) Compare(ctx context.Context, ids []string) (*domain.Comparison, error) {
	products, err := s.products(ctx)
	if err != nil {
		return nil, err
	}
	return recommend.Compare(products, ids)
}

func (s *CatalogService) products(ctx context.Context) ([]domain.Product, error) {
	products, _, err := s.snapshot.Get(ctx)
	if err != nil {
		return nil, unavailable(err)
	}
	return products, nil
}

func unavailable(err error) error {
	if errors.Is(err, domain.ErrDataUnavailable) {
		return apperrors.Unavailable("catalog data unavailable", err)
	}
	return err
}
