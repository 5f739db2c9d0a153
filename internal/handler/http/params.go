package http

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/rilsonjoas/alternativas-br-sub001/internal/domain"
	"github.com/rilsonjoas/alternativas-br-sub001/pkg/pagination"
)

// paramError is a query parameter that could not be parsed.
type paramError struct {
	name   string
	reason string
}

func (e *paramError) Error() string {
	return fmt.Sprintf("%s %s", e.name, e.reason)
}

// listParam collects a multi-valued parameter sent either repeated
// (?tag=a&tag=b) or comma separated (?tag=a,b).
func listParam(q url.Values, name string) []string {
	var out []string
	for _, raw := range q[name] {
		for _, v := range strings.Split(raw, ",") {
			if v = strings.TrimSpace(v); v != "" {
				out = append(out, v)
			}
		}
	}
	return out
}

func intParam(q url.Values, name string) (*int, error) {
	v := strings.TrimSpace(q.Get(name))
	if v == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return nil, &paramError{name: name, reason: "must be an integer"}
	}
	return &n, nil
}

// parseSearchRequest reads the search query string. Well-typed values
// that can never match (min_rating=7, founded_min > founded_max) are passed
// through and produce an empty result rather than an error.
func parseSearchRequest(r *http.Request) (domain.SearchRequest, error) {
	q := r.URL.Query()

	criteria := domain.FilterCriteria{
		Query:        strings.TrimSpace(q.Get("q")),
		Categories:   listParam(q, "category"),
		Countries:    listParam(q, "country"),
		PricingTypes: listParam(q, "pricing"),
		Tags:         listParam(q, "tag"),
	}

	if v := strings.TrimSpace(q.Get("min_rating")); v != "" {
		rating, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return domain.SearchRequest{}, &paramError{name: "min_rating", reason: "must be a number"}
		}
		criteria.MinRating = rating
	}

	var err error
	if criteria.FoundedYear.Min, err = intParam(q, "founded_min"); err != nil {
		return domain.SearchRequest{}, err
	}
	if criteria.FoundedYear.Max, err = intParam(q, "founded_max"); err != nil {
		return domain.SearchRequest{}, err
	}

	spec := domain.SortSpec{
		Field: strings.TrimSpace(q.Get("sort")),
		Order: strings.ToLower(strings.TrimSpace(q.Get("order"))),
	}
	if spec.Field != "" && !domain.IsValidSort(spec.Field) {
		return domain.SearchRequest{}, &paramError{
			name:   "sort",
			reason: "must be one of: " + strings.Join(domain.ValidSortFields(), ", "),
		}
	}
	if spec.Order != "" && spec.Order != domain.OrderAsc && spec.Order != domain.OrderDesc {
		return domain.SearchRequest{}, &paramError{name: "order", reason: "must be asc or desc"}
	}

	var commit bool
	if v := q.Get("commit"); v != "" {
		if commit, err = strconv.ParseBool(v); err != nil {
			return domain.SearchRequest{}, &paramError{name: "commit", reason: "must be a boolean"}
		}
	}

	page := pagination.FromRequest(r)
	return domain.SearchRequest{
		Criteria: criteria,
		Sort:     spec,
		Page:     page.Page,
		PerPage:  page.PerPage,
		Commit:   commit,
	}, nil
}

func parseRecommendContext(r *http.Request) (domain.RecommendContext, int, error) {
	q := r.URL.Query()
	rc := domain.RecommendContext{
		SimilarTo:   strings.TrimSpace(q.Get("similar_to")),
		ForQuery:    strings.TrimSpace(q.Get("q")),
		ForCategory: strings.TrimSpace(q.Get("category")),
	}

	set := 0
	for _, v := range []string{rc.SimilarTo, rc.ForQuery, rc.ForCategory} {
		if v != "" {
			set++
		}
	}
	if set > 1 {
		return rc, 0, &paramError{name: "similar_to, q, category", reason: "are mutually exclusive"}
	}

	limit, err := intParam(q, "limit")
	if err != nil {
		return rc, 0, err
	}
	if limit == nil {
		return rc, 0, nil
	}
	if *limit < 1 {
		return rc, 0, &paramError{name: "limit", reason: "must be positive"}
	}
	return rc, *limit, nil
}
