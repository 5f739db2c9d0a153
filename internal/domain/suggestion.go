package domain

// Suggestion types.
const (
	SuggestionProduct  = "product"
	SuggestionCategory = "category"
	SuggestionTag      = "tag"
	SuggestionFeature  = "feature"
)

// MinSuggestionQueryLen is the shortest partial query that yields suggestions.
const MinSuggestionQueryLen = 2

// MaxSuggestions caps the suggestion list.
const MaxSuggestions = 8

// Suggestion is an autocomplete candidate.
type Suggestion struct {
	ID              string  `json:"id"`
	Type            string  `json:"type"`
	Title           string  `json:"title"`
	Subtitle        string  `json:"subtitle,omitempty"`
	PopularityScore float64 `json:"popularity_score"`
}
