// Package elasticsearch loads the catalog from an Elasticsearch index. The
// index is read with a sorted match_all walked through search_after; all
// filtering and ranking still happen in the catalog pipeline.
package elasticsearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/rilsonjoas/alternativas-br-sub001/internal/domain"
)

// DefaultPageSize is the number of documents requested per search call.
const DefaultPageSize = 500

// maxDocuments bounds a single FetchAll.
const maxDocuments = 50_000

// Source reads product documents from one index.
type Source struct {
	client    *elasticsearch.Client
	indexName string
	pageSize  int
	logger    *slog.Logger
}

type esSearchResponse struct {
	Hits struct {
		Hits []struct {
			Source domain.Product `json:"_source"`
			Sort   []any          `json:"sort"`
		} `json:"hits"`
	} `json:"hits"`
}

type esBulkResponse struct {
	Errors bool `json:"errors"`
	Items  []struct {
		Index struct {
			ID    string `json:"_id"`
			Error struct {
				Type   string `json:"type"`
				Reason string `json:"reason"`
			} `json:"error"`
		} `json:"index"`
	} `json:"items"`
}

type esErrorResponse struct {
	Error struct {
		Type   string `json:"type"`
		Reason string `json:"reason"`
	} `json:"error"`
}

// New creates a source for indexName on the cluster at esURL. An empty
// indexName uses DefaultIndexName.
func New(esURL, indexName string, logger *slog.Logger) (*Source, error) {
	if indexName == "" {
		indexName = DefaultIndexName
	}

	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{esURL},
	})
	if err != nil {
		return nil, fmt.Errorf("elasticsearch: create client: %w", err)
	}

	return &Source{
		client:    client,
		indexName: indexName,
		pageSize:  DefaultPageSize,
		logger:    logger,
	}, nil
}

// Ping checks whether the cluster is reachable.
func (s *Source) Ping(ctx context.Context) error {
	res, err := s.client.Ping(s.client.Ping.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("elasticsearch ping: %w", err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.IsError() {
		return fmt.Errorf("elasticsearch ping: unexpected status %s", res.Status())
	}
	return nil
}

// EnsureIndex creates the index with the catalog mapping when missing.
func (s *Source) EnsureIndex(ctx context.Context) error {
	res, err := s.client.Indices.Exists([]string{s.indexName}, s.client.Indices.Exists.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("check index exists: %w", err)
	}
	_ = res.Body.Close()

	if res.StatusCode == http.StatusOK {
		s.logger.DebugContext(ctx, "elasticsearch index already exists", slog.String("index", s.indexName))
		return nil
	}

	res, err = s.client.Indices.Create(
		s.indexName,
		s.client.Indices.Create.WithBody(strings.NewReader(indexMapping)),
		s.client.Indices.Create.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("create index: %w", err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.IsError() {
		return responseError("create index", res)
	}

	s.logger.InfoContext(ctx, "elasticsearch index created", slog.String("index", s.indexName))
	return nil
}

// FetchAll pages through every document sorted by id.
func (s *Source) FetchAll(ctx context.Context) ([]domain.Product, error) {
	products := []domain.Product{}
	var after []any

	for len(products) < maxDocuments {
		hits, last, err := s.page(ctx, after)
		if err != nil {
			return nil, err
		}
		products = append(products, hits...)
		if len(hits) < s.pageSize || last == nil {
			return products, nil
		}
		after = last
	}

	s.logger.WarnContext(ctx, "elasticsearch fetch truncated",
		slog.String("index", s.indexName),
		slog.Int("limit", maxDocuments),
	)
	return products, nil
}

func (s *Source) page(ctx context.Context, after []any) ([]domain.Product, []any, error) {
	query := map[string]any{
		"query": map[string]any{"match_all": map[string]any{}},
		"size":  s.pageSize,
		"sort":  []any{map[string]any{"id": "asc"}},
	}
	if after != nil {
		query["search_after"] = after
	}

	body, err := json.Marshal(query)
	if err != nil {
		return nil, nil, fmt.Errorf("elasticsearch search: marshal query: %w", err)
	}

	res, err := s.client.Search(
		s.client.Search.WithIndex(s.indexName),
		s.client.Search.WithBody(bytes.NewReader(body)),
		s.client.Search.WithContext(ctx),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("elasticsearch search: %w", err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.IsError() {
		return nil, nil, responseError("elasticsearch search", res)
	}

	var resp esSearchResponse
	if err := json.NewDecoder(res.Body).Decode(&resp); err != nil {
		return nil, nil, fmt.Errorf("elasticsearch search: decode response: %w", err)
	}

	products := make([]domain.Product, 0, len(resp.Hits.Hits))
	var last []any
	for _, hit := range resp.Hits.Hits {
		products = append(products, hit.Source)
		last = hit.Sort
	}
	return products, last, nil
}

// BulkIndex writes products with the bulk NDJSON API.
func (s *Source) BulkIndex(ctx context.Context, products []domain.Product) error {
	if len(products) == 0 {
		return nil
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for i := range products {
		action := map[string]any{
			"index": map[string]any{"_index": s.indexName, "_id": products[i].ID},
		}
		if err := enc.Encode(action); err != nil {
			return fmt.Errorf("elasticsearch bulk index: encode action: %w", err)
		}
		if err := enc.Encode(products[i]); err != nil {
			return fmt.Errorf("elasticsearch bulk index: encode document: %w", err)
		}
	}

	res, err := s.client.Bulk(
		bytes.NewReader(buf.Bytes()),
		s.client.Bulk.WithIndex(s.indexName),
		s.client.Bulk.WithRefresh("true"),
		s.client.Bulk.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("elasticsearch bulk index: %w", err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.IsError() {
		return responseError("elasticsearch bulk index", res)
	}

	var bulk esBulkResponse
	if err := json.NewDecoder(res.Body).Decode(&bulk); err != nil {
		return fmt.Errorf("elasticsearch bulk index: decode response: %w", err)
	}
	if bulk.Errors {
		var msgs []string
		for _, item := range bulk.Items {
			if item.Index.Error.Type != "" {
				msgs = append(msgs, fmt.Sprintf("id=%s: %s: %s", item.Index.ID, item.Index.Error.Type, item.Index.Error.Reason))
			}
		}
		return fmt.Errorf("elasticsearch bulk index: partial errors: %s", strings.Join(msgs, "; "))
	}

	s.logger.InfoContext(ctx, "bulk indexed products", slog.Int("count", len(products)))
	return nil
}

func responseError(op string, res *esapi.Response) error {
	var errResp esErrorResponse
	data, _ := io.ReadAll(io.LimitReader(res.Body, 1<<20))
	if json.Unmarshal(data, &errResp) == nil && errResp.Error.Type != "" {
		return fmt.Errorf("%s: %s: %s", op, errResp.Error.Type, errResp.Error.Reason)
	}
	return fmt.Errorf("%s: unexpected status %s", op, res.Status())
}
