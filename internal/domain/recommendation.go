package domain

import (
	"fmt"
	"strings"
)

// RecommendationReason says why a product was surfaced.
type RecommendationReason string

const (
	ReasonSimilar      RecommendationReason = "similar"
	ReasonPersonalized RecommendationReason = "personalized"
	ReasonCategory     RecommendationReason = "category"
	ReasonTrending     RecommendationReason = "trending"
)

// Explain renders the fixed explanation template of the reason. subject is
// the reference product name, the query or the category, depending on r.
func (r RecommendationReason) Explain(subject string) string {
	switch r {
	case ReasonSimilar:
		return fmt.Sprintf("Mesma categoria de %s", subject)
	case ReasonPersonalized:
		return fmt.Sprintf("Corresponde à sua busca por %q", subject)
	case ReasonCategory:
		return fmt.Sprintf("Entre os mais bem avaliados em %s", subject)
	default:
		return "Em alta: bem avaliado pela comunidade"
	}
}

// RecommendContext selects the recommendation strategy. At most one field
// is expected to be set; an empty context means trending.
type RecommendContext struct {
	SimilarTo   string `json:"similar_to,omitempty"`
	ForQuery    string `json:"for_query,omitempty"`
	ForCategory string `json:"for_category,omitempty"`
}

// Trimmed returns c with surrounding whitespace removed from every field.
func (c RecommendContext) Trimmed() RecommendContext {
	return RecommendContext{
		SimilarTo:   strings.TrimSpace(c.SimilarTo),
		ForQuery:    strings.TrimSpace(c.ForQuery),
		ForCategory: strings.TrimSpace(c.ForCategory),
	}
}

// Reason returns the reason the context resolves to. Blank fields count
// as unset.
func (c RecommendContext) Reason() RecommendationReason {
	c = c.Trimmed()
	switch {
	case c.SimilarTo != "":
		return ReasonSimilar
	case c.ForQuery != "":
		return ReasonPersonalized
	case c.ForCategory != "":
		return ReasonCategory
	default:
		return ReasonTrending
	}
}

// TrendingMinRating is the rating floor of trending recommendations.
const TrendingMinRating = 4.0

// RecommendationResult is one recommended product.
type RecommendationResult struct {
	EntityID    string               `json:"entity_id"`
	Score       float64              `json:"score"`
	Reason      RecommendationReason `json:"reason"`
	Explanation string               `json:"explanation"`
	Product     *Product             `json:"product,omitempty"`
}
