package recommend

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rilsonjoas/alternativas-br-sub001/internal/domain"
	apperrors "github.com/rilsonjoas/alternativas-br-sub001/pkg/errors"
)

const notAvailable = "N/D"

// Feature is one comparable product attribute. Numeric features carry a
// Value and take part in best-value highlighting.
type Feature struct {
	Key     string
	Label   string
	Numeric bool
	Value   func(p *domain.Product) float64
	Render  func(p *domain.Product) string
}

var pricingLabels = map[string]string{
	domain.PricingFree:       "Gratuito",
	domain.PricingFreemium:   "Freemium",
	domain.PricingPaid:       "Pago",
	domain.PricingEnterprise: "Enterprise",
}

// Features is the closed set of comparable attributes, in display order.
var Features = []Feature{
	{
		Key:    "category",
		Label:  "Categoria",
		Render: func(p *domain.Product) string { return orNA(p.Category.Name) },
	},
	{
		Key:   "pricing",
		Label: "Preço",
		Render: func(p *domain.Product) string {
			if l, ok := pricingLabels[p.Pricing.Type]; ok {
				return l
			}
			return orNA(p.Pricing.Type)
		},
	},
	{
		Key:   "founded_year",
		Label: "Fundação",
		Render: func(p *domain.Product) string {
			if !p.HasFoundedYear() {
				return notAvailable
			}
			return strconv.Itoa(p.FoundedYear)
		},
	},
	{
		Key:     "user_count",
		Label:   "Usuários",
		Numeric: true,
		Value:   func(p *domain.Product) float64 { return float64(p.UserCount) },
		Render:  func(p *domain.Product) string { return countOrNA(p.UserCount) },
	},
	{
		Key:    "tags",
		Label:  "Tags",
		Render: func(p *domain.Product) string { return orNA(strings.Join(p.Tags, ", ")) },
	},
	{
		Key:     "rating",
		Label:   "Avaliação",
		Numeric: true,
		Value:   func(p *domain.Product) float64 { return p.Rating },
		Render: func(p *domain.Product) string {
			if p.Rating <= 0 {
				return notAvailable
			}
			return fmt.Sprintf("%.1f", p.Rating)
		},
	},
	{
		Key:     "review_count",
		Label:   "Avaliações",
		Numeric: true,
		Value:   func(p *domain.Product) float64 { return float64(p.ReviewCount) },
		Render:  func(p *domain.Product) string { return countOrNA(p.ReviewCount) },
	},
}

// Compare builds a side-by-side table for the products named by ids, in
// the given order. It needs MinCompareProducts to MaxCompareProducts
// distinct ids, all of which must exist.
func Compare(products []domain.Product, ids []string) (*domain.Comparison, error) {
	if len(ids) < domain.MinCompareProducts || len(ids) > domain.MaxCompareProducts {
		return nil, apperrors.InvalidInput(fmt.Sprintf("compare needs between %d and %d products", domain.MinCompareProducts, domain.MaxCompareProducts))
	}

	selected := make([]domain.Product, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		p := find(products, id)
		if p == nil {
			return nil, apperrors.NotFound("product", id)
		}
		if seen[p.ID] {
			return nil, apperrors.InvalidInput(fmt.Sprintf("product %s selected twice", id))
		}
		seen[p.ID] = true
		selected = append(selected, *p)
	}

	rows := make([]domain.ComparisonRow, 0, len(Features))
	for _, f := range Features {
		rows = append(rows, buildRow(f, selected))
	}
	return &domain.Comparison{Products: selected, Rows: rows}, nil
}

// buildRow renders f for every product. For numeric features, every
// product holding the maximum is marked best; a maximum of zero marks
// nobody.
func buildRow(f Feature, products []domain.Product) domain.ComparisonRow {
	row := domain.ComparisonRow{Key: f.Key, Label: f.Label, Numeric: f.Numeric, Cells: make([]domain.ComparisonCell, len(products))}

	var best float64
	if f.Numeric {
		for i := range products {
			best = max(best, f.Value(&products[i]))
		}
	}

	for i := range products {
		p := &products[i]
		row.Cells[i] = domain.ComparisonCell{
			ProductID: p.ID,
			Value:     f.Render(p),
			Best:      f.Numeric && best > 0 && f.Value(p) == best,
		}
	}
	return row
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return notAvailable
	}
	return s
}

func countOrNA(n int) string {
	if n <= 0 {
		return notAvailable
	}
	return strconv.Itoa(n)
}
