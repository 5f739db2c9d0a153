// Package filter applies facet predicates to a product collection.
package filter

import (
	"github.com/rilsonjoas/alternativas-br-sub001/internal/domain"
	"github.com/rilsonjoas/alternativas-br-sub001/internal/textmatch"
)

// Predicate reports whether a product passes one facet.
type Predicate func(p *domain.Product) bool

// Predicates builds the active predicates of c. Empty facets contribute
// nothing. A malformed criteria returns ErrMalformedCriteria.
func Predicates(c domain.FilterCriteria) ([]Predicate, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	var preds []Predicate

	if q := textmatch.NewQuery(c.Query); !q.IsEmpty() {
		preds = append(preds, q.Matches)
	}
	if set := newFoldSet(c.Categories); set != nil {
		preds = append(preds, func(p *domain.Product) bool {
			return set.has(p.Category.Name) || set.has(p.Category.Slug) || set.has(p.Category.ID)
		})
	}
	if set := newFoldSet(c.Countries); set != nil {
		preds = append(preds, func(p *domain.Product) bool {
			return set.has(p.Location.Country) || set.has(p.Location.CountryCode)
		})
	}
	if set := newFoldSet(c.PricingTypes); set != nil {
		preds = append(preds, func(p *domain.Product) bool {
			return set.has(p.Pricing.Type)
		})
	}
	if set := newFoldSet(c.Tags); set != nil {
		preds = append(preds, func(p *domain.Product) bool {
			for _, t := range p.Tags {
				if set.has(t) {
					return true
				}
			}
			return false
		})
	}
	if c.MinRating > 0 {
		floor := c.MinRating
		preds = append(preds, func(p *domain.Product) bool { return p.Rating >= floor })
	}
	if !c.FoundedYear.IsZero() {
		preds = append(preds, foundedIn(c.FoundedYear))
	}

	return preds, nil
}

// foundedIn passes products whose known founding year is inside r. A
// missing year cannot satisfy an explicit bound.
func foundedIn(r domain.YearRange) Predicate {
	return func(p *domain.Product) bool {
		if !p.HasFoundedYear() {
			return false
		}
		if r.Min != nil && p.FoundedYear < *r.Min {
			return false
		}
		if r.Max != nil && p.FoundedYear > *r.Max {
			return false
		}
		return true
	}
}

// Apply returns the products passing every active facet of c, preserving
// input order. The input is never modified and the result is never nil.
// Malformed criteria yield an empty result.
func Apply(products []domain.Product, c domain.FilterCriteria) []domain.Product {
	out, _ := ApplyChecked(products, c)
	return out
}

// ApplyChecked is Apply that also reports ErrMalformedCriteria so callers
// can log it.
func ApplyChecked(products []domain.Product, c domain.FilterCriteria) ([]domain.Product, error) {
	preds, err := Predicates(c)
	if err != nil {
		return []domain.Product{}, err
	}

	out := make([]domain.Product, 0, len(products))
	for i := range products {
		if passes(&products[i], preds) {
			out = append(out, products[i])
		}
	}
	return out, nil
}

func passes(p *domain.Product, preds []Predicate) bool {
	for _, pred := range preds {
		if !pred(p) {
			return false
		}
	}
	return true
}
