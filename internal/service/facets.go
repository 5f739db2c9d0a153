package service

import (
	"cmp"
	"context"
	"slices"

	"github.com/rilsonjoas/alternativas-br-sub001/internal/domain"
	"github.com/rilsonjoas/alternativas-br-sub001/internal/textmatch"
)

// Facets counts the filterable values present in the snapshot.
func (s *CatalogService) Facets(ctx context.Context) (*domain.Facets, error) {
	products, err := s.products(ctx)
	if err != nil {
		return nil, err
	}
	return computeFacets(products), nil
}

// facetCounter counts values under their folded form, keeping the first
// value and label seen for display.
type facetCounter struct {
	index  map[string]int
	counts []domain.FacetCount
}

func newFacetCounter() *facetCounter {
	return &facetCounter{index: make(map[string]int)}
}

func (c *facetCounter) add(value, label string) {
	if value == "" {
		return
	}
	key := textmatch.Normalize(value)
	if i, ok := c.index[key]; ok {
		c.counts[i].Count++
		return
	}
	c.index[key] = len(c.counts)
	c.counts = append(c.counts, domain.FacetCount{Value: value, Label: label, Count: 1})
}

// sorted orders by count, then label.
func (c *facetCounter) sorted() []domain.FacetCount {
	out := slices.Clone(c.counts)
	if out == nil {
		return []domain.FacetCount{}
	}
	slices.SortStableFunc(out, func(a, b domain.FacetCount) int {
		if n := cmp.Compare(b.Count, a.Count); n != 0 {
			return n
		}
		return cmp.Compare(textmatch.Normalize(a.Label), textmatch.Normalize(b.Label))
	})
	return out
}

func computeFacets(products []domain.Product) *domain.Facets {
	categories := newFacetCounter()
	countries := newFacetCounter()
	pricing := newFacetCounter()
	tags := newFacetCounter()

	f := &domain.Facets{}
	for i := range products {
		p := &products[i]

		catValue := cmp.Or(p.Category.Slug, p.Category.ID, p.Category.Name)
		categories.add(catValue, cmp.Or(p.Category.Name, catValue))

		countries.add(cmp.Or(p.Location.CountryCode, p.Location.Country), cmp.Or(p.Location.Country, p.Location.CountryCode))
		pricing.add(p.Pricing.Type, p.Pricing.Type)

		seen := make(map[string]bool, len(p.Tags))
		for _, t := range p.Tags {
			if k := textmatch.Normalize(t); !seen[k] {
				seen[k] = true
				tags.add(t, t)
			}
		}

		if p.HasFoundedYear() {
			if f.MinFoundedYear == 0 || p.FoundedYear < f.MinFoundedYear {
				f.MinFoundedYear = p.FoundedYear
			}
			f.MaxFoundedYear = max(f.MaxFoundedYear, p.FoundedYear)
		}
	}

	f.Categories = categories.sorted()
	f.Countries = countries.sorted()
	f.PricingTypes = pricing.sorted()
	f.Tags = tags.sorted()
	return f
}
