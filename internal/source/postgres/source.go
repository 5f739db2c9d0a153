// Package postgres loads the catalog from PostgreSQL.
package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/rilsonjoas/alternativas-br-sub001/internal/domain"
	"github.com/rilsonjoas/alternativas-br-sub001/pkg/database"
)

const fetchAllSQL = `
		SELECT p.id, p.name, p.slug, p.description, p.short_description,
			   COALESCE(c.id, ''), COALESCE(c.name, ''), COALESCE(c.slug, ''),
			   p.location, p.pricing, p.tags, p.features,
			   p.rating, p.review_count, p.views,
			   COALESCE(p.user_count, 0), COALESCE(p.founded_year, 0),
			   p.is_featured, p.is_unicorn,
			   COALESCE(p.website, ''), COALESCE(p.logo_url, ''),
			   p.created_at, p.updated_at
		FROM products p
		LEFT JOIN categories c ON c.id = p.category_id
		ORDER BY p.id`

const upsertCategorySQL = `
		INSERT INTO categories (id, name, slug)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, slug = EXCLUDED.slug`

const upsertProductSQL = `
		INSERT INTO products (id, name, slug, description, short_description, category_id,
			location, pricing, tags, features, rating, review_count, views, user_count,
			founded_year, is_featured, is_unicorn, website, logo_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name, slug = EXCLUDED.slug, description = EXCLUDED.description,
			short_description = EXCLUDED.short_description, category_id = EXCLUDED.category_id,
			location = EXCLUDED.location, pricing = EXCLUDED.pricing, tags = EXCLUDED.tags,
			features = EXCLUDED.features, rating = EXCLUDED.rating,
			review_count = EXCLUDED.review_count, views = EXCLUDED.views,
			user_count = EXCLUDED.user_count, founded_year = EXCLUDED.founded_year,
			is_featured = EXCLUDED.is_featured, is_unicorn = EXCLUDED.is_unicorn,
			website = EXCLUDED.website, logo_url = EXCLUDED.logo_url,
			updated_at = EXCLUDED.updated_at`

// Source reads products joined with their category.
type Source struct {
	db     database.DBTX
	tracer database.QueryTracer
}

// New creates a Postgres-backed source. Queries slower than slow are
// logged at warn level.
func New(db database.DBTX, slow time.Duration, logger *slog.Logger) *Source {
	return &Source{
		db:     db,
		tracer: database.QueryTracer{SlowThreshold: slow, Logger: logger},
	}
}

// FetchAll returns every product.
func (s *Source) FetchAll(ctx context.Context) (products []domain.Product, err error) {
	ctx, end := s.tracer.Start(ctx, "FetchAllProducts", fetchAllSQL)
	defer func() { end(err) }()

	rows, err := s.db.Query(ctx, fetchAllSQL)
	if err != nil {
		return nil, fmt.Errorf("fetch products: %w", err)
	}
	defer rows.Close()

	products = []domain.Product{}
	for rows.Next() {
		var (
			p                                  domain.Product
			location, pricing, tags, features []byte
		)
		if err := rows.Scan(
			&p.ID, &p.Name, &p.Slug, &p.Description, &p.ShortDescription,
			&p.Category.ID, &p.Category.Name, &p.Category.Slug,
			&location, &pricing, &tags, &features,
			&p.Rating, &p.ReviewCount, &p.Views,
			&p.UserCount, &p.FoundedYear,
			&p.IsFeatured, &p.IsUnicorn,
			&p.Website, &p.LogoURL,
			&p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan product row: %w", err)
		}

		if err := unmarshalColumns(&p, location, pricing, tags, features); err != nil {
			return nil, fmt.Errorf("product %s: %w", p.ID, err)
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate product rows: %w", err)
	}
	return products, nil
}

func unmarshalColumns(p *domain.Product, location, pricing, tags, features []byte) error {
	columns := []struct {
		name string
		data []byte
		dst  any
	}{
		{"location", location, &p.Location},
		{"pricing", pricing, &p.Pricing},
		{"tags", tags, &p.Tags},
		{"features", features, &p.Features},
	}
	for _, c := range columns {
		if len(c.data) == 0 {
			continue
		}
		if err := json.Unmarshal(c.data, c.dst); err != nil {
			return fmt.Errorf("unmarshal %s: %w", c.name, err)
		}
	}
	return nil
}

// Ping checks the database connection.
func (s *Source) Ping(ctx context.Context) error {
	var one int
	if err := s.db.QueryRow(ctx, "SELECT 1").Scan(&one); err != nil {
		return fmt.Errorf("ping postgres: %w", err)
	}
	return nil
}

// Upsert writes products and their categories. Used by the seeder.
func (s *Source) Upsert(ctx context.Context, products []domain.Product) (err error) {
	ctx, end := s.tracer.Start(ctx, "UpsertProducts", upsertProductSQL)
	defer func() { end(err) }()

	seen := make(map[string]bool)
	for _, p := range products {
		if p.Category.ID == "" || seen[p.Category.ID] {
			continue
		}
		seen[p.Category.ID] = true
		if _, err := s.db.Exec(ctx, upsertCategorySQL, p.Category.ID, p.Category.Name, p.Category.Slug); err != nil {
			return fmt.Errorf("upsert category %s: %w", p.Category.ID, err)
		}
	}

	for _, p := range products {
		args, err := productArgs(p)
		if err != nil {
			return fmt.Errorf("product %s: %w", p.ID, err)
		}
		if _, err := s.db.Exec(ctx, upsertProductSQL, args...); err != nil {
			return fmt.Errorf("upsert product %s: %w", p.ID, err)
		}
	}
	return nil
}

func productArgs(p domain.Product) ([]any, error) {
	location, err := json.Marshal(p.Location)
	if err != nil {
		return nil, fmt.Errorf("marshal location: %w", err)
	}
	pricing, err := json.Marshal(p.Pricing)
	if err != nil {
		return nil, fmt.Errorf("marshal pricing: %w", err)
	}
	tags, err := json.Marshal(nonNil(p.Tags))
	if err != nil {
		return nil, fmt.Errorf("marshal tags: %w", err)
	}
	features, err := json.Marshal(nonNil(p.Features))
	if err != nil {
		return nil, fmt.Errorf("marshal features: %w", err)
	}

	return []any{
		p.ID, p.Name, p.Slug, p.Description, p.ShortDescription, nullable(p.Category.ID),
		location, pricing, tags, features, p.Rating, p.ReviewCount, p.Views,
		nullableInt(p.UserCount), nullableInt(p.FoundedYear),
		p.IsFeatured, p.IsUnicorn, nullable(p.Website), nullable(p.LogoURL),
		p.CreatedAt, p.UpdatedAt,
	}, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func nullableInt(n int) *int {
	if n <= 0 {
		return nil
	}
	return &n
}
