// Package ranking orders product collections by a sort spec.
package ranking

import (
	"bytes"
	"cmp"
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/rilsonjoas/alternativas-br-sub001/internal/domain"
	"github.com/rilsonjoas/alternativas-br-sub001/internal/textmatch"
)

// Relevance tiers, best first.
const (
	TierExact = iota
	TierPrefix
	TierNameSubstring
	TierElsewhere
)

// Tier classifies how well p's name matches the normalized query q.
func Tier(p *domain.Product, q string) int {
	name := textmatch.Normalize(p.Name)
	switch {
	case name == q:
		return TierExact
	case strings.HasPrefix(name, q):
		return TierPrefix
	case strings.Contains(name, q):
		return TierNameSubstring
	default:
		return TierElsewhere
	}
}

// CompareRelevance orders a before b when a is more relevant to the
// normalized query q: lower tier first, then higher rating.
func CompareRelevance(a, b *domain.Product, q string) int {
	if c := cmp.Compare(Tier(a, q), Tier(b, q)); c != 0 {
		return c
	}
	return cmp.Compare(b.Rating, a.Rating)
}

type entry struct {
	p    *domain.Product
	key  []byte
	tier int
}

// Sort returns a stably sorted copy of products. query drives relevance
// ordering; with a blank query relevance falls back to rating. Equal keys
// keep their input order and the input slice is left untouched.
func Sort(products []domain.Product, spec domain.SortSpec, query string) []domain.Product {
	spec = spec.Normalize()
	q := textmatch.Normalize(query)
	field := spec.Field
	if field == domain.SortRelevance && q == "" {
		field = domain.SortRating
	}

	entries := make([]entry, len(products))
	for i := range products {
		entries[i].p = &products[i]
	}
	switch field {
	case domain.SortName:
		fillCollationKeys(entries)
	case domain.SortRelevance:
		for i := range entries {
			entries[i].tier = Tier(entries[i].p, q)
		}
	}

	asc := ascending(field)
	compare := asc
	if spec.Order == domain.OrderDesc {
		compare = func(a, b entry) int { return asc(b, a) }
	}
	slices.SortStableFunc(entries, compare)

	out := make([]domain.Product, len(entries))
	for i, e := range entries {
		out[i] = *e.p
	}
	return out
}

// ascending returns the ascending comparison for field. For relevance,
// ascending means least relevant first.
func ascending(field string) func(a, b entry) int {
	switch field {
	case domain.SortName:
		return func(a, b entry) int { return bytes.Compare(a.key, b.key) }
	case domain.SortPopularity:
		return func(a, b entry) int { return cmp.Compare(a.p.ReviewCount, b.p.ReviewCount) }
	case domain.SortNewest:
		return func(a, b entry) int { return a.p.CreatedAt.Compare(b.p.CreatedAt) }
	case domain.SortRelevance:
		return func(a, b entry) int {
			if c := cmp.Compare(b.tier, a.tier); c != 0 {
				return c
			}
			return cmp.Compare(a.p.Rating, b.p.Rating)
		}
	default:
		return func(a, b entry) int { return cmp.Compare(a.p.Rating, b.p.Rating) }
	}
}

// fillCollationKeys computes Brazilian Portuguese sort keys for the names.
// A Collator is not safe for concurrent use, so one is built per sort.
func fillCollationKeys(entries []entry) {
	col := collate.New(language.BrazilianPortuguese, collate.IgnoreCase)
	buf := &collate.Buffer{}
	for i := range entries {
		entries[i].key = bytes.Clone(col.KeyFromString(buf, entries[i].p.Name))
		buf.Reset()
	}
}
