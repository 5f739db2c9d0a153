package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rilsonjoas/alternativas-br-sub001/internal/domain"
	"github.com/rilsonjoas/alternativas-br-sub001/internal/source/memory"
	apperrors "github.com/rilsonjoas/alternativas-br-sub001/pkg/errors"
)

func TestFacets(t *testing.T) {
	svc, _ := newTestService(t, memory.New(catalog()))

	f, err := svc.Facets(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []domain.FacetCount{
		{Value: "gestao", Label: "Gestão", Count: 2},
		{Value: "e-commerce", Label: "E-commerce", Count: 1},
		{Value: "financas", Label: "Finanças", Count: 1},
	}, f.Categories)

	assert.Equal(t, []domain.FacetCount{
		{Value: "BR", Label: "Brasil", Count: 3},
		{Value: "AR", Label: "Argentina", Count: 1},
	}, f.Countries)

	assert.Equal(t, domain.FacetCount{Value: domain.PricingPaid, Label: domain.PricingPaid, Count: 2}, f.PricingTypes[0])

	// "ERP" and "erp" fold to one tag.
	assert.Equal(t, domain.FacetCount{Value: "ERP", Label: "ERP", Count: 2}, f.Tags[0])
	assert.Equal(t, domain.FacetCount{Value: "Finanças", Label: "Finanças", Count: 2}, f.Tags[1])

	assert.Equal(t, 2012, f.MinFoundedYear)
	assert.Equal(t, 2013, f.MaxFoundedYear)
}

func TestFacets_EmptyCatalog(t *testing.T) {
	svc, _ := newTestService(t, memory.New(nil))

	f, err := svc.Facets(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, f.Categories)
	assert.Empty(t, f.Tags)
	assert.Zero(t, f.MinFoundedYear)
}

func TestFacets_DataUnavailable(t *testing.T) {
	svc, _ := newTestService(t, &switchableSource{err: errors.New("down")})

	_, err := svc.Facets(context.Background())
	assert.ErrorIs(t, err, apperrors.ErrServiceUnavail)
}
