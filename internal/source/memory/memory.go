// Package memory serves the catalog from an in-process product list,
// loaded from the embedded fixture or a JSON seed file.
package memory

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"slices"

	"github.com/rilsonjoas/alternativas-br-sub001/internal/domain"
	"github.com/rilsonjoas/alternativas-br-sub001/pkg/slug"
)

//go:embed testdata/catalog.json
var defaultCatalog []byte

// Catalog is the JSON layout of a seed file.
type Catalog struct {
	Products []domain.Product `json:"products"`
}

// Source is a fixed in-memory product collection.
type Source struct {
	products []domain.Product
}

// New creates a source over products.
func New(products []domain.Product) *Source {
	return &Source{products: slices.Clone(products)}
}

// Default creates a source over the embedded Brazilian catalog fixture.
func Default() (*Source, error) {
	products, err := Parse(defaultCatalog)
	if err != nil {
		return nil, err
	}
	return New(products), nil
}

// FromFile creates a source over the seed file at path. An empty path
// uses the embedded fixture.
func FromFile(path string) (*Source, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	products, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("seed file %s: %w", path, err)
	}
	return New(products), nil
}

// DefaultCatalog returns the embedded fixture's products.
func DefaultCatalog() ([]domain.Product, error) {
	return Parse(defaultCatalog)
}

// Parse decodes a seed catalog and fills derived slugs.
func Parse(data []byte) ([]domain.Product, error) {
	var c Catalog
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	for i := range c.Products {
		p := &c.Products[i]
		if p.ID == "" {
			return nil, fmt.Errorf("product %d: missing id", i)
		}
		if p.Slug == "" {
			p.Slug = slug.Generate(p.Name)
		}
		if p.Category.Slug == "" && p.Category.Name != "" {
			p.Category.Slug = slug.Generate(p.Category.Name)
		}
	}
	return c.Products, nil
}

// FetchAll returns the collection. The returned slice is shared and must
// not be modified.
func (s *Source) FetchAll(_ context.Context) ([]domain.Product, error) {
	return s.products, nil
}
