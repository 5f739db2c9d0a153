package domain

// Comparison limits.
const (
	MinCompareProducts = 2
	MaxCompareProducts = 4
)

// ComparisonCell is one product's value for one feature.
type ComparisonCell struct {
	ProductID string `json:"product_id"`
	Value     string `json:"value"`
	Best      bool   `json:"best"`
}

// ComparisonRow is one feature across every compared product.
type ComparisonRow struct {
	Key     string           `json:"key"`
	Label   string           `json:"label"`
	Numeric bool             `json:"numeric"`
	Cells   []ComparisonCell `json:"cells"`
}

// Comparison is a side-by-side table of the selected products.
type Comparison struct {
	Products []Product       `json:"products"`
	Rows     []ComparisonRow `json:"rows"`
}
