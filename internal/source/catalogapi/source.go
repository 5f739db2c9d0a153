// Package catalogapi loads the catalog from a remote product API that
// serves paginated JSON.
package catalogapi

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"

	"github.com/sony/gobreaker/v2"

	"github.com/rilsonjoas/alternativas-br-sub001/internal/domain"
	"github.com/rilsonjoas/alternativas-br-sub001/pkg/httpclient"
	"github.com/rilsonjoas/alternativas-br-sub001/pkg/httputil"
)

const (
	productsPath = "/api/v1/products"
	pageSize     = 100
	// maxPages bounds a fetch against an API that keeps reporting has_next.
	maxPages = 200
)

// Source pages through GET /api/v1/products on a remote catalog.
type Source struct {
	client  *httpclient.CircuitBreakerClient
	baseURL string
	logger  *slog.Logger
}

// New creates a source for the catalog API at baseURL.
func New(baseURL string, client *httpclient.CircuitBreakerClient, logger *slog.Logger) *Source {
	return &Source{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger,
	}
}

// NewDefault wires a retrying client behind a circuit breaker named
// "catalog-api".
func NewDefault(baseURL string, logger *slog.Logger) *Source {
	client := httpclient.NewCircuitBreakerClient(
		httpclient.New(httpclient.DefaultConfig()),
		httpclient.DefaultCircuitBreakerConfig("catalog-api"),
		logger,
	)
	return New(baseURL, client, logger)
}

// FetchAll walks every page and concatenates the products.
func (s *Source) FetchAll(ctx context.Context) ([]domain.Product, error) {
	products := []domain.Product{}
	for page := 1; page <= maxPages; page++ {
		var resp httputil.PaginatedResponse[domain.Product]
		if err := s.client.GetJSON(ctx, s.pageURL(page), &resp); err != nil {
			return nil, fmt.Errorf("fetch catalog page %d: %w", page, err)
		}
		products = append(products, resp.Data...)
		if !resp.HasNext || len(resp.Data) == 0 {
			s.logger.DebugContext(ctx, "catalog api fetched",
				slog.Int("pages", page),
				slog.Int("products", len(products)),
			)
			return products, nil
		}
	}
	return nil, fmt.Errorf("fetch catalog: more than %d pages", maxPages)
}

func (s *Source) pageURL(page int) string {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("per_page", strconv.Itoa(pageSize))
	return s.baseURL + productsPath + "?" + q.Encode()
}

// Ping reports an open circuit as not ready.
func (s *Source) Ping(_ context.Context) error {
	if s.client.State() == gobreaker.StateOpen {
		return fmt.Errorf("catalog api: %w", httpclient.ErrCircuitOpen)
	}
	return nil
}
