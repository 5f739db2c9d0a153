// Package recommend ranks related products and builds comparison tables.
package recommend

import (
	"cmp"
	"math"
	"slices"

	"github.com/rilsonjoas/alternativas-br-sub001/internal/domain"
	"github.com/rilsonjoas/alternativas-br-sub001/internal/ranking"
	"github.com/rilsonjoas/alternativas-br-sub001/internal/textmatch"
	apperrors "github.com/rilsonjoas/alternativas-br-sub001/pkg/errors"
)

// Result limits.
const (
	DefaultLimit = 8
	MaxLimit     = 50
)

// ClampLimit maps a caller-supplied limit into [1, MaxLimit], using def
// (or DefaultLimit) for non-positive values.
func ClampLimit(limit, def int) int {
	if def <= 0 {
		def = DefaultLimit
	}
	if limit <= 0 {
		limit = def
	}
	return min(limit, MaxLimit)
}

// Recommend ranks products for rc and returns at most limit results. A
// similar_to reference that does not exist is a NotFound error.
func Recommend(products []domain.Product, rc domain.RecommendContext, limit int) ([]domain.RecommendationResult, error) {
	limit = ClampLimit(limit, DefaultLimit)
	rc = rc.Trimmed()
	reason := rc.Reason()

	var (
		candidates []domain.Product
		subject    string
		score      func(*domain.Product) float64
	)
	byRating := func(p *domain.Product) float64 { return p.Rating }

	switch reason {
	case domain.ReasonSimilar:
		ref := find(products, rc.SimilarTo)
		if ref == nil {
			return nil, apperrors.NotFound("product", rc.SimilarTo)
		}
		subject = ref.Name
		candidates = sameCategory(products, ref)
		sortByRating(candidates)
		score = byRating

	case domain.ReasonPersonalized:
		subject = rc.ForQuery
		q := textmatch.NewQuery(rc.ForQuery)
		for i := range products {
			if q.Matches(&products[i]) {
				candidates = append(candidates, products[i])
			}
		}
		candidates = ranking.Sort(candidates, domain.DefaultSort(), rc.ForQuery)
		score = func(p *domain.Product) float64 {
			return float64(ranking.TierElsewhere-ranking.Tier(p, q.Normalized())) + p.Rating/5
		}

	case domain.ReasonCategory:
		subject = rc.ForCategory
		for i := range products {
			if inCategory(&products[i], rc.ForCategory) {
				if subject == rc.ForCategory {
					subject = products[i].Category.Name
				}
				candidates = append(candidates, products[i])
			}
		}
		sortByRating(candidates)
		score = byRating

	default:
		for i := range products {
			if products[i].Rating >= domain.TrendingMinRating {
				candidates = append(candidates, products[i])
			}
		}
		sortByRating(candidates)
		score = byRating
	}

	if len(candidates) > limit {
		candidates = candidates[:limit]
	}

	explanation := reason.Explain(subject)
	out := make([]domain.RecommendationResult, 0, len(candidates))
	for i := range candidates {
		p := candidates[i]
		out = append(out, domain.RecommendationResult{
			EntityID:    p.ID,
			Score:       math.Round(score(&p)*100) / 100,
			Reason:      reason,
			Explanation: explanation,
			Product:     &p,
		})
	}
	return out, nil
}

func find(products []domain.Product, id string) *domain.Product {
	for i := range products {
		if products[i].ID == id || (products[i].Slug != "" && products[i].Slug == id) {
			return &products[i]
		}
	}
	return nil
}

func sameCategory(products []domain.Product, ref *domain.Product) []domain.Product {
	var out []domain.Product
	for i := range products {
		p := &products[i]
		if p.ID == ref.ID {
			continue
		}
		if sameCategoryAs(p.Category, ref.Category) {
			out = append(out, *p)
		}
	}
	return out
}

func sameCategoryAs(a, b domain.Category) bool {
	if a.ID != "" && b.ID != "" {
		return a.ID == b.ID
	}
	return textmatch.Normalize(a.Name) != "" && textmatch.Normalize(a.Name) == textmatch.Normalize(b.Name)
}

func inCategory(p *domain.Product, category string) bool {
	want := textmatch.Normalize(category)
	if want == "" {
		return false
	}
	return want == textmatch.Normalize(p.Category.Name) ||
		want == textmatch.Normalize(p.Category.Slug) ||
		want == textmatch.Normalize(p.Category.ID)
}

func sortByRating(ps []domain.Product) {
	slices.SortStableFunc(ps, func(a, b domain.Product) int { return cmp.Compare(b.Rating, a.Rating) })
}
