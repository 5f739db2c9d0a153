package pagination

import (
	"net/http"
	"strconv"
)

const (
	// DefaultPerPage is the catalog grid size used when the caller sends none.
	DefaultPerPage = 12
	// MaxPerPage caps a single page.
	MaxPerPage = 100
)

// Params holds 1-based pagination parameters.
type Params struct {
	Page    int `json:"page"`
	PerPage int `json:"per_page"`
	Offset  int `json:"-"`
}

// DefaultParams returns the first page with the default size.
func DefaultParams() Params {
	return Params{
		Page:    1,
		PerPage: DefaultPerPage,
		Offset:  0,
	}
}

// New normalizes page and perPage and computes the offset. Non-positive
// values fall back to defaults; perPage is capped at MaxPerPage.
func New(page, perPage int) Params {
	p := DefaultParams()
	if page > 0 {
		p.Page = page
	}
	if perPage > 0 {
		p.PerPage = min(perPage, MaxPerPage)
	}
	p.Offset = (p.Page - 1) * p.PerPage
	return p
}

// FromRequest extracts pagination parameters from an HTTP request.
// Unparseable values are ignored.
func FromRequest(r *http.Request) Params {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))
	return New(page, perPage)
}

// Slice returns the window of items selected by params. Offsets past the
// end yield an empty, non-nil slice.
func Slice[T any](items []T, params Params) []T {
	start := min(max(params.Offset, 0), len(items))
	end := min(start+params.PerPage, len(items))
	out := make([]T, end-start)
	copy(out, items[start:end])
	return out
}

// Result wraps a paginated response.
type Result[T any] struct {
	Data       []T  `json:"data"`
	TotalCount int  `json:"total_count"`
	Page       int  `json:"page"`
	PerPage    int  `json:"per_page"`
	TotalPages int  `json:"total_pages"`
	HasNext    bool `json:"has_next"`
	HasPrev    bool `json:"has_prev"`
}

// NewResult creates a paginated result.
func NewResult[T any](data []T, totalCount int, params Params) Result[T] {
	totalPages := totalCount / params.PerPage
	if totalCount%params.PerPage > 0 {
		totalPages++
	}
	if data == nil {
		data = []T{}
	}

	return Result[T]{
		Data:       data,
		TotalCount: totalCount,
		Page:       params.Page,
		PerPage:    params.PerPage,
		TotalPages: totalPages,
		HasNext:    params.Page < totalPages,
		HasPrev:    params.Page > 1,
	}
}
