package domain

// SearchRequest is one run of the filter, sort and paginate pipeline.
type SearchRequest struct {
	Owner    string
	Criteria FilterCriteria
	Sort     SortSpec
	Page     int
	PerPage  int
	// Commit records the search in history and analytics.
	Commit bool
}

// SearchResult holds one page of results.
type SearchResult struct {
	Products   []Product `json:"products"`
	Total      int       `json:"total"`
	Page       int       `json:"page"`
	PerPage    int       `json:"per_page"`
	TotalPages int       `json:"total_pages"`
	HasNext    bool      `json:"has_next"`
	// Degraded is set when the entity source failed and results come from
	// the last good snapshot.
	Degraded bool  `json:"degraded"`
	TookMs   int64 `json:"took_ms"`
}

// FacetCount is one facet value with the number of products carrying it.
type FacetCount struct {
	Value string `json:"value"`
	Label string `json:"label"`
	Count int    `json:"count"`
}

// Facets summarizes the filterable dimensions of the current snapshot.
type Facets struct {
	Categories     []FacetCount `json:"categories"`
	Countries      []FacetCount `json:"countries"`
	PricingTypes   []FacetCount `json:"pricing_types"`
	Tags           []FacetCount `json:"tags"`
	MinFoundedYear int          `json:"min_founded_year,omitempty"`
	MaxFoundedYear int          `json:"max_founded_year,omitempty"`
}
