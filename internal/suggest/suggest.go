// Package suggest generates autocomplete suggestions and debounces the
// requests that ask for them.
package suggest

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"math"
	"slices"
	"unicode/utf8"

	"github.com/rilsonjoas/alternativas-br-sub001/internal/domain"
	"github.com/rilsonjoas/alternativas-br-sub001/internal/textmatch"
	"github.com/rilsonjoas/alternativas-br-sub001/pkg/slug"
)

// Fetcher supplies the product collection suggestions are drawn from.
type Fetcher interface {
	FetchAll(ctx context.Context) ([]domain.Product, error)
}

// Generator builds ranked suggestions from products, categories and the
// fixed tag and feature vocabularies.
type Generator struct {
	fetcher Fetcher
	logger  *slog.Logger
}

// NewGenerator creates a suggestion generator.
func NewGenerator(fetcher Fetcher, logger *slog.Logger) *Generator {
	return &Generator{fetcher: fetcher, logger: logger}
}

// Suggest returns at most MaxSuggestions candidates matching partial,
// highest popularity first. Queries shorter than MinSuggestionQueryLen
// return an empty list without touching the data source; a failing source
// also yields an empty list.
func (g *Generator) Suggest(ctx context.Context, partial string) []domain.Suggestion {
	q := textmatch.NewQuery(partial)
	if utf8.RuneCountInString(q.Normalized()) < domain.MinSuggestionQueryLen {
		return []domain.Suggestion{}
	}

	products, err := g.fetcher.FetchAll(ctx)
	if err != nil {
		g.logger.WarnContext(ctx, "suggestions degraded to empty",
			slog.String("error", fmt.Errorf("%w: %w", domain.ErrSuggestionFetch, err).Error()),
		)
		return []domain.Suggestion{}
	}

	out := make([]domain.Suggestion, 0, domain.MaxSuggestions*2)
	out = append(out, productSuggestions(products, q)...)
	out = append(out, categorySuggestions(products, q)...)
	out = append(out, vocabularySuggestions(domain.SuggestionTag, commonTags, q)...)
	out = append(out, vocabularySuggestions(domain.SuggestionFeature, commonFeatures, q)...)

	slices.SortStableFunc(out, func(a, b domain.Suggestion) int {
		return cmp.Compare(b.PopularityScore, a.PopularityScore)
	})
	if len(out) > domain.MaxSuggestions {
		out = out[:domain.MaxSuggestions]
	}
	return out
}

// ProductScore weighs rating over review volume; featured products get a
// small boost.
func ProductScore(p *domain.Product) float64 {
	score := p.Rating*15 + math.Log10(1+float64(p.ReviewCount))*10
	if p.IsFeatured {
		score += 5
	}
	return math.Round(score*100) / 100
}

func productSuggestions(products []domain.Product, q textmatch.Query) []domain.Suggestion {
	var out []domain.Suggestion
	for i := range products {
		p := &products[i]
		if !q.MatchesText(p.Name) {
			continue
		}
		out = append(out, domain.Suggestion{
			ID:              domain.SuggestionProduct + ":" + p.ID,
			Type:            domain.SuggestionProduct,
			Title:           p.Name,
			Subtitle:        p.Category.Name,
			PopularityScore: ProductScore(p),
		})
	}
	return out
}

func categorySuggestions(products []domain.Product, q textmatch.Query) []domain.Suggestion {
	counts := make(map[string]int)
	var order []domain.Category
	for i := range products {
		c := products[i].Category
		if c.Name == "" || !q.MatchesText(c.Name) {
			continue
		}
		key := textmatch.Normalize(c.Name)
		if counts[key] == 0 {
			order = append(order, c)
		}
		counts[key]++
	}

	out := make([]domain.Suggestion, 0, len(order))
	for _, c := range order {
		n := counts[textmatch.Normalize(c.Name)]
		id := c.Slug
		if id == "" {
			id = slug.Generate(c.Name)
		}
		out = append(out, domain.Suggestion{
			ID:              domain.SuggestionCategory + ":" + id,
			Type:            domain.SuggestionCategory,
			Title:           c.Name,
			Subtitle:        fmt.Sprintf("%d produtos", n),
			PopularityScore: math.Min(30+5*float64(n), 90),
		})
	}
	return out
}

func vocabularySuggestions(kind string, vocab []term, q textmatch.Query) []domain.Suggestion {
	var out []domain.Suggestion
	for _, t := range vocab {
		if !q.MatchesText(t.text) {
			continue
		}
		out = append(out, domain.Suggestion{
			ID:              kind + ":" + slug.Generate(t.text),
			Type:            kind,
			Title:           t.text,
			PopularityScore: t.score,
		})
	}
	return out
}
