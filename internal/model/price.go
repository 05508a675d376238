package model

// PriceGuardrail bounds the plausible unit price for a product in the
// target currency. The price collector rejects listings outside a tolerance
// band around these bounds.
type PriceGuardrail struct {
	MinPrice float64 `json:"min_price"`
	MaxPrice float64 `json:"max_price"`
}

// Midpoint returns the center of the guardrail range, used for the
// synthetic estimate when no real listings survive filtering.
func (g PriceGuardrail) Midpoint() float64 {
	return (g.MinPrice + g.MaxPrice) / 2
}

// DefaultGuardrail is the fail-open range used when calibration cannot
// produce a usable one. Wide enough that downstream filtering never
// rejects everything.
var DefaultGuardrail = PriceGuardrail{MinPrice: 10, MaxPrice: 1_000_000}

// PriceSource tags which collection tier produced the retained listings.
type PriceSource string

const (
	// SourceAmazon is the marketplace search tier.
	SourceAmazon PriceSource = "amazon"
	// SourceGoogleShopping is the general shopping search fallback tier.
	SourceGoogleShopping PriceSource = "google_shopping"
	// SourceMarketEstimate is the synthetic midpoint fallback. Consumers
	// treat it as "no real price data" when scoring confidence.
	SourceMarketEstimate PriceSource = "market_estimate"
)

// ScrapedProduct is a single listing found during price discovery.
type ScrapedProduct struct {
	Title string  `json:"title"`
	Price float64 `json:"price"` // target currency, always > 0
}

// PriceReport aggregates retained listings for a product. AveragePrice is
// always defined and Products is never empty; the collector falls back to a
// synthetic midpoint estimate when no real data survives.
type PriceReport struct {
	Source       PriceSource      `json:"source"`
	AveragePrice float64          `json:"average_price"`
	Products     []ScrapedProduct `json:"products"`
}

// Estimated reports whether the price data is synthetic rather than scraped.
func (r PriceReport) Estimated() bool {
	return r.Source == SourceMarketEstimate
}

// TaxInfo is the resolved indirect tax for a product/country pair.
// Rate is always a fraction in [0,1]; the resolver normalizes percentage
// values before constructing TaxInfo, and callers must not re-normalize.
type TaxInfo struct {
	Rate   float64 `json:"rate"`
	Reason string  `json:"reason"`
}
