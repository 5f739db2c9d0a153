// Package textmatch implements case and accent insensitive substring
// matching of products against a free-text query.
package textmatch

import (
	"strings"

	"github.com/rilsonjoas/alternativas-br-sub001/internal/domain"
	"github.com/rilsonjoas/alternativas-br-sub001/pkg/textfold"
)

// SearchableText joins the searchable fields of p in a fixed order: name,
// description, short description, category name, features, tags.
func SearchableText(p *domain.Product) string {
	parts := make([]string, 0, 4+len(p.Features)+len(p.Tags))
	parts = append(parts, p.Name, p.Description, p.ShortDescription, p.Category.Name)
	parts = append(parts, p.Features...)
	parts = append(parts, p.Tags...)
	return strings.Join(parts, " ")
}

// Normalize lowercases s, strips diacritics and collapses whitespace.
func Normalize(s string) string {
	return textfold.Fold(s)
}

// Query is a normalized query ready to be matched against many products.
type Query struct {
	raw  string
	norm string
}

// NewQuery normalizes q once.
func NewQuery(q string) Query {
	return Query{raw: q, norm: Normalize(q)}
}

// Normalized returns the folded query text.
func (q Query) Normalized() string { return q.norm }

// IsEmpty reports whether the query is blank, in which case it matches
// every product.
func (q Query) IsEmpty() bool { return q.norm == "" }

// Matches reports whether the query appears in the product's searchable text.
func (q Query) Matches(p *domain.Product) bool {
	if q.norm == "" {
		return true
	}
	return strings.Contains(Normalize(SearchableText(p)), q.norm)
}

// MatchesText reports whether the query appears in s.
func (q Query) MatchesText(s string) bool {
	if q.norm == "" {
		return true
	}
	return strings.Contains(Normalize(s), q.norm)
}

// Matches reports whether query appears in the product's searchable text.
func Matches(p *domain.Product, query string) bool {
	return NewQuery(query).Matches(p)
}
