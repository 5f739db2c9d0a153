package ranking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/rilsonjoas/alternativas-br-sub001/internal/domain"
)

func ids(ps []domain.Product) []string {
	out := make([]string, 0, len(ps))
	for _, p := range ps {
		out = append(out, p.ID)
	}
	return out
}

func TestSort_NamePortugueseCollation(t *testing.T) {
	in := []domain.Product{
		{ID: "1", Name: "Zoop"},
		{ID: "2", Name: "Ágil"},
		{ID: "3", Name: "agenda"},
		{ID: "4", Name: "Éxito"},
		{ID: "5", Name: "Banco Inter"},
	}

	asc := Sort(in, domain.SortSpec{Field: domain.SortName}, "")
	assert.Equal(t, []string{"3", "2", "5", "4", "1"}, ids(asc))

	desc := Sort(in, domain.SortSpec{Field: domain.SortName, Order: domain.OrderDesc}, "")
	assert.Equal(t, []string{"1", "4", "5", "2", "3"}, ids(desc))
}

func TestSort_RatingDefaultsToDescending(t *testing.T) {
	in := []domain.Product{{ID: "a", Rating: 4.0}, {ID: "b", Rating: 4.8}, {ID: "c", Rating: 3.1}}

	assert.Equal(t, []string{"b", "a", "c"}, ids(Sort(in, domain.SortSpec{Field: domain.SortRating}, "")))
	assert.Equal(t, []string{"c", "a", "b"}, ids(Sort(in, domain.SortSpec{Field: domain.SortRating, Order: domain.OrderAsc}, "")))
}

func TestSort_PopularityUsesReviewCount(t *testing.T) {
	in := []domain.Product{
		{ID: "a", Rating: 5, ReviewCount: 3},
		{ID: "b", Rating: 3, ReviewCount: 120},
		{ID: "c", Rating: 4, ReviewCount: 40},
	}
	assert.Equal(t, []string{"b", "c", "a"}, ids(Sort(in, domain.SortSpec{Field: domain.SortPopularity}, "")))
}

func TestSort_NewestByCreatedAt(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	in := []domain.Product{
		{ID: "old", CreatedAt: base},
		{ID: "new", CreatedAt: base.Add(48 * time.Hour)},
		{ID: "mid", CreatedAt: base.Add(24 * time.Hour)},
	}
	assert.Equal(t, []string{"new", "mid", "old"}, ids(Sort(in, domain.SortSpec{Field: domain.SortNewest}, "")))
	assert.Equal(t, []string{"old", "mid", "new"}, ids(Sort(in, domain.SortSpec{Field: domain.SortNewest, Order: domain.OrderAsc}, "")))
}

func TestSort_RelevanceTiers(t *testing.T) {
	in := []domain.Product{
		{ID: "elsewhere", Name: "Omie", Description: "ERP com conta digital", Rating: 5},
		{ID: "substring", Name: "Minha Conta", Rating: 3},
		{ID: "prefix-low", Name: "Conta Simples", Rating: 3.5},
		{ID: "exact", Name: "Conta", Rating: 1},
		{ID: "prefix-high", Name: "ContaAzul", Rating: 4.6},
	}

	got := Sort(in, domain.DefaultSort(), "conta")
	assert.Equal(t, []string{"exact", "prefix-high", "prefix-low", "substring", "elsewhere"}, ids(got))
}

func TestSort_RelevanceWithoutQueryIsRatingDesc(t *testing.T) {
	in := []domain.Product{{ID: "a", Rating: 3}, {ID: "b", Rating: 5}, {ID: "c", Rating: 4}}
	assert.Equal(t,
		ids(Sort(in, domain.SortSpec{Field: domain.SortRating, Order: domain.OrderDesc}, "")),
		ids(Sort(in, domain.DefaultSort(), "  ")))
}

func TestSort_Stable(t *testing.T) {
	in := []domain.Product{
		{ID: "first", Rating: 4},
		{ID: "x", Rating: 5},
		{ID: "second", Rating: 4},
		{ID: "third", Rating: 4},
	}
	for _, order := range []string{domain.OrderAsc, domain.OrderDesc} {
		got := ids(Sort(in, domain.SortSpec{Field: domain.SortRating, Order: order}, ""))
		var ties []string
		for _, id := range got {
			if id != "x" {
				ties = append(ties, id)
			}
		}
		assert.Equal(t, []string{"first", "second", "third"}, ties, order)
	}
}

func TestSort_DoesNotMutateInput(t *testing.T) {
	in := []domain.Product{{ID: "a", Rating: 1}, {ID: "b", Rating: 2}}
	_ = Sort(in, domain.SortSpec{Field: domain.SortRating}, "")
	assert.Equal(t, []string{"a", "b"}, ids(in))
}

func TestSort_Empty(t *testing.T) {
	out := Sort(nil, domain.DefaultSort(), "x")
	assert.NotNil(t, out)
	assert.Empty(t, out)
}

func TestTier(t *testing.T) {
	p := &domain.Product{Name: "Conta Azul"}
	assert.Equal(t, TierExact, Tier(p, "conta azul"))
	assert.Equal(t, TierPrefix, Tier(p, "conta"))
	assert.Equal(t, TierNameSubstring, Tier(p, "azul"))
	assert.Equal(t, TierElsewhere, Tier(p, "erp"))
}
