package suggest

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rilsonjoas/alternativas-br-sub001/internal/domain"
)

type stubFetcher struct {
	products []domain.Product
	err      error
	calls    int
}

func (s *stubFetcher) FetchAll(context.Context) ([]domain.Product, error) {
	s.calls++
	return s.products, s.err
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func products() []domain.Product {
	fin := domain.Category{ID: "fin", Name: "Finanças", Slug: "financas"}
	return []domain.Product{
		{ID: "contaazul", Name: "ContaAzul", Category: fin, Rating: 4.6, ReviewCount: 900},
		{ID: "granatum", Name: "Granatum", Category: fin, Rating: 4.1, ReviewCount: 40},
		{ID: "nuvemshop", Name: "Nuvemshop", Category: domain.Category{Name: "E-commerce"}, Rating: 4.4, ReviewCount: 300},
		{ID: "azulzinho", Name: "Azulzinho", Category: domain.Category{Name: "Educação"}, Rating: 3.0},
	}
}

func TestSuggest_ShortQuerySkipsSource(t *testing.T) {
	f := &stubFetcher{products: products()}
	g := NewGenerator(f, testLogger())

	for _, q := range []string{"", " ", "a", " á "} {
		got := g.Suggest(context.Background(), q)
		assert.NotNil(t, got)
		assert.Empty(t, got, q)
	}
	assert.Equal(t, 0, f.calls)
}

func TestSuggest_SourceFailureYieldsEmpty(t *testing.T) {
	g := NewGenerator(&stubFetcher{err: errors.New("firestore down")}, testLogger())
	got := g.Suggest(context.Background(), "azul")
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestSuggest_MergesTypesByPopularity(t *testing.T) {
	g := NewGenerator(&stubFetcher{products: products()}, testLogger())

	got := g.Suggest(context.Background(), "azul")
	require.Len(t, got, 2)
	assert.Equal(t, "product:contaazul", got[0].ID)
	assert.Equal(t, "Finanças", got[0].Subtitle)
	assert.Equal(t, "product:azulzinho", got[1].ID)
	assert.Greater(t, got[0].PopularityScore, got[1].PopularityScore)
}

func TestSuggest_CategoryTagAndFeatureCandidates(t *testing.T) {
	g := NewGenerator(&stubFetcher{products: products()}, testLogger())

	got := g.Suggest(context.Background(), "financas")
	byID := map[string]domain.Suggestion{}
	for _, s := range got {
		byID[s.ID] = s
	}

	require.Contains(t, byID, "category:financas")
	assert.Equal(t, "2 produtos", byID["category:financas"].Subtitle)
	assert.Equal(t, domain.SuggestionCategory, byID["category:financas"].Type)
	require.Contains(t, byID, "tag:financas")
	assert.Equal(t, domain.SuggestionTag, byID["tag:financas"].Type)

	features := g.Suggest(context.Background(), "pix")
	require.NotEmpty(t, features)
	assert.Equal(t, domain.SuggestionFeature, features[0].Type)
	assert.Equal(t, "Pagamento via Pix", features[0].Title)
}

func TestSuggest_TruncatesToEightSortedDesc(t *testing.T) {
	var ps []domain.Product
	for i := 0; i < 20; i++ {
		ps = append(ps, domain.Product{ID: string(rune('a' + i)), Name: "Gestor " + string(rune('A'+i)), Rating: float64(i%5) + 0.5})
	}
	g := NewGenerator(&stubFetcher{products: ps}, testLogger())

	got := g.Suggest(context.Background(), "gest")
	require.Len(t, got, domain.MaxSuggestions)
	for i := 1; i < len(got); i++ {
		assert.GreaterOrEqual(t, got[i-1].PopularityScore, got[i].PopularityScore)
	}
}

func TestProductScore(t *testing.T) {
	low := ProductScore(&domain.Product{Rating: 3})
	high := ProductScore(&domain.Product{Rating: 4.5, ReviewCount: 99})
	featured := ProductScore(&domain.Product{Rating: 4.5, ReviewCount: 99, IsFeatured: true})

	assert.Equal(t, 45.0, low)
	assert.Equal(t, 87.5, high)
	assert.Equal(t, high+5, featured)
}
