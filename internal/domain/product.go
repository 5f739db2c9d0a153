package domain

import "time"

// Pricing types a product may advertise.
const (
	PricingFree       = "free"
	PricingFreemium   = "freemium"
	PricingPaid       = "paid"
	PricingEnterprise = "enterprise"
)

// ValidPricingTypes returns the pricing tiers in display order.
func ValidPricingTypes() []string {
	return []string{PricingFree, PricingFreemium, PricingPaid, PricingEnterprise}
}

// Category groups products in the catalog.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Location is where the company behind a product is based.
type Location struct {
	Country     string `json:"country"`
	CountryCode string `json:"country_code,omitempty"`
	State       string `json:"state,omitempty"`
	City        string `json:"city,omitempty"`
}

// Plan is one paid or free plan of a product.
type Plan struct {
	Name     string   `json:"name"`
	Price    float64  `json:"price"`
	Features []string `json:"features,omitempty"`
}

// Pricing describes how a product is sold.
type Pricing struct {
	Type  string `json:"type"`
	Plans []Plan `json:"plans,omitempty"`
}

// Product is a cataloged Brazilian software product. Products are owned by
// the entity source and treated as read-only values by the catalog.
type Product struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Slug             string    `json:"slug"`
	Description      string    `json:"description"`
	ShortDescription string    `json:"short_description,omitempty"`
	Category         Category  `json:"category"`
	Location         Location  `json:"location"`
	Pricing          Pricing   `json:"pricing"`
	Tags             []string  `json:"tags"`
	Features         []string  `json:"features"`
	Rating           float64   `json:"rating"`
	ReviewCount      int       `json:"review_count"`
	Views            int       `json:"views"`
	UserCount        int       `json:"user_count,omitempty"`
	FoundedYear      int       `json:"founded_year,omitempty"`
	IsFeatured       bool      `json:"is_featured"`
	IsUnicorn        bool      `json:"is_unicorn"`
	Website          string    `json:"website,omitempty"`
	LogoURL          string    `json:"logo_url,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// HasFoundedYear reports whether the founding year is known.
func (p *Product) HasFoundedYear() bool {
	return p.FoundedYear > 0
}
