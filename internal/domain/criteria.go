package domain

import (
	"fmt"
	"math"
	"strings"
)

// YearRange is an inclusive founding-year range. A nil bound is open.
type YearRange struct {
	Min *int `json:"min,omitempty"`
	Max *int `json:"max,omitempty"`
}

// IsZero reports whether neither bound is set.
func (r YearRange) IsZero() bool {
	return r.Min == nil && r.Max == nil
}

// FilterCriteria holds the active facet selections of a search. An empty
// facet places no constraint on results.
type FilterCriteria struct {
	Query        string    `json:"query,omitempty"`
	Categories   []string  `json:"categories,omitempty"`
	Countries    []string  `json:"countries,omitempty"`
	PricingTypes []string  `json:"pricing_types,omitempty"`
	Tags         []string  `json:"tags,omitempty"`
	MinRating    float64   `json:"min_rating,omitempty"`
	FoundedYear  YearRange `json:"founded_year_range,omitempty"`
}

// Validate returns ErrMalformedCriteria when a facet can never be satisfied.
// Callers treat a malformed facet as matching nothing, not as a failure.
func (c *FilterCriteria) Validate() error {
	if math.IsNaN(c.MinRating) || c.MinRating < 0 || c.MinRating > 5 {
		return fmt.Errorf("min rating %.2f outside [0,5]: %w", c.MinRating, ErrMalformedCriteria)
	}
	if c.FoundedYear.Min != nil && c.FoundedYear.Max != nil && *c.FoundedYear.Min > *c.FoundedYear.Max {
		return fmt.Errorf("founded year range %d > %d: %w", *c.FoundedYear.Min, *c.FoundedYear.Max, ErrMalformedCriteria)
	}
	return nil
}

// HasQuery reports whether a non-blank text query is set.
func (c *FilterCriteria) HasQuery() bool {
	return strings.TrimSpace(c.Query) != ""
}

// Sort fields.
const (
	SortName       = "name"
	SortRating     = "rating"
	SortPopularity = "popularity"
	SortNewest     = "newest"
	SortRelevance  = "relevance"
)

// Sort orders.
const (
	OrderAsc  = "asc"
	OrderDesc = "desc"
)

// ValidSortFields returns the accepted sort fields.
func ValidSortFields() []string {
	return []string{SortName, SortRating, SortPopularity, SortNewest, SortRelevance}
}

// IsValidSort checks whether field is a known sort field.
func IsValidSort(field string) bool {
	for _, f := range ValidSortFields() {
		if f == field {
			return true
		}
	}
	return false
}

// SortSpec selects the ordering of search results.
type SortSpec struct {
	Field string `json:"field"`
	Order string `json:"order"`
}

// DefaultSort is relevance, most relevant first.
func DefaultSort() SortSpec {
	return SortSpec{Field: SortRelevance, Order: OrderDesc}
}

// Normalize fills in the default field and the field's natural order:
// ascending for name, descending for everything else.
func (s SortSpec) Normalize() SortSpec {
	if s.Field == "" {
		s.Field = SortRelevance
	}
	if s.Order != OrderAsc && s.Order != OrderDesc {
		if s.Field == SortName {
			s.Order = OrderAsc
		} else {
			s.Order = OrderDesc
		}
	}
	return s
}
