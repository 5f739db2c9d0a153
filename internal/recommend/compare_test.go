package recommend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rilsonjoas/alternativas-br-sub001/internal/domain"
	apperrors "github.com/rilsonjoas/alternativas-br-sub001/pkg/errors"
)

func compareFixture() []domain.Product {
	return []domain.Product{
		{ID: "a", Name: "A", Category: fintech, Pricing: domain.Pricing{Type: domain.PricingPaid}, Rating: 4.8, ReviewCount: 120, UserCount: 0, FoundedYear: 2011, Tags: []string{"ERP", "Finanças"}},
		{ID: "b", Name: "B", Category: fintech, Pricing: domain.Pricing{Type: domain.PricingFree}, Rating: 4.8, ReviewCount: 80},
		{ID: "c", Name: "C", Pricing: domain.Pricing{Type: "custom"}, Rating: 3.5, ReviewCount: 120},
	}
}

func row(t *testing.T, c *domain.Comparison, key string) domain.ComparisonRow {
	t.Helper()
	for _, r := range c.Rows {
		if r.Key == key {
			return r
		}
	}
	t.Fatalf("row %s not found", key)
	return domain.ComparisonRow{}
}

func best(r domain.ComparisonRow) []string {
	var out []string
	for _, c := range r.Cells {
		if c.Best {
			out = append(out, c.ProductID)
		}
	}
	return out
}

func TestCompare_RowsInFixedOrder(t *testing.T) {
	c, err := Compare(compareFixture(), []string{"a", "b"})
	require.NoError(t, err)

	var keys []string
	for _, r := range c.Rows {
		keys = append(keys, r.Key)
	}
	assert.Equal(t, []string{"category", "pricing", "founded_year", "user_count", "tags", "rating", "review_count"}, keys)
	assert.Len(t, c.Products, 2)
}

func TestCompare_TiesHighlightEveryMax(t *testing.T) {
	c, err := Compare(compareFixture(), []string{"a", "b", "c"})
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b"}, best(row(t, c, "rating")))
	assert.Equal(t, []string{"a", "c"}, best(row(t, c, "review_count")))
}

func TestCompare_ZeroValuesNeverHighlighted(t *testing.T) {
	c, err := Compare(compareFixture(), []string{"a", "b"})
	require.NoError(t, err)

	users := row(t, c, "user_count")
	assert.Empty(t, best(users))
	assert.Equal(t, "N/D", users.Cells[0].Value)
}

func TestCompare_NonNumericNotHighlighted(t *testing.T) {
	c, err := Compare(compareFixture(), []string{"a", "b"})
	require.NoError(t, err)

	for _, key := range []string{"category", "pricing", "founded_year", "tags"} {
		r := row(t, c, key)
		assert.False(t, r.Numeric)
		assert.Empty(t, best(r), key)
	}
}

func TestCompare_Rendering(t *testing.T) {
	c, err := Compare(compareFixture(), []string{"a", "c"})
	require.NoError(t, err)

	assert.Equal(t, "Pago", row(t, c, "pricing").Cells[0].Value)
	assert.Equal(t, "custom", row(t, c, "pricing").Cells[1].Value)
	assert.Equal(t, "2011", row(t, c, "founded_year").Cells[0].Value)
	assert.Equal(t, "N/D", row(t, c, "founded_year").Cells[1].Value)
	assert.Equal(t, "ERP, Finanças", row(t, c, "tags").Cells[0].Value)
	assert.Equal(t, "N/D", row(t, c, "category").Cells[1].Value)
	assert.Equal(t, "4.8", row(t, c, "rating").Cells[0].Value)
}

func TestCompare_Validation(t *testing.T) {
	ps := compareFixture()

	_, err := Compare(ps, []string{"a"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	_, err = Compare(ps, []string{"a", "b", "c", "a", "b"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	_, err = Compare(ps, []string{"a", "a"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	_, err = Compare(ps, []string{"a", "zzz"})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
