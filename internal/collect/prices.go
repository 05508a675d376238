package collect

import (
	"context"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/viability-cli/internal/model"
	"github.com/sells-group/viability-cli/internal/resilience"
	"github.com/sells-group/viability-cli/pkg/apify"
	"github.com/sells-group/viability-cli/pkg/serper"
)

// Junk filter tolerance around the guardrail bounds: listings may sit 20%
// below the minimum (discounts) or 50% above the maximum (premium bundles).
// Expressed as integer ratios so boundary prices compare exactly.
const (
	lowTolNum, lowTolDen   = 4, 5 // price/min >= 4/5
	highTolNum, highTolDen = 3, 2 // price/max <= 3/2
)

// PriceCollector discovers unit prices through an ordered fallback chain:
// marketplace search, then general shopping search, then a synthetic
// midpoint estimate. It never returns an error; every tier failure degrades
// to the next tier.
type PriceCollector struct {
	marketplace apify.Client
	shopping    serper.Client

	maxMarketplaceItems int
	maxShoppingResults  int
	minMarketplaceItems int
	attempts            resilience.AttemptConfig
}

// NewPriceCollector creates a PriceCollector. Zero limits fall back to the
// chain's standard sizes (10 marketplace items, 20 shopping results, 3
// minimum before the shopping fallback triggers).
func NewPriceCollector(marketplace apify.Client, shopping serper.Client, opts ...PriceOption) *PriceCollector {
	pc := &PriceCollector{
		marketplace:         marketplace,
		shopping:            shopping,
		maxMarketplaceItems: 10,
		maxShoppingResults:  20,
		minMarketplaceItems: 3,
		attempts:            resilience.AttemptConfig{MaxAttempts: 1},
	}
	for _, o := range opts {
		o(pc)
	}
	return pc
}

// PriceOption configures a PriceCollector.
type PriceOption func(*PriceCollector)

// WithLimits overrides the chain's item limits.
func WithLimits(maxMarketplace, maxShopping, minMarketplace int) PriceOption {
	return func(pc *PriceCollector) {
		if maxMarketplace > 0 {
			pc.maxMarketplaceItems = maxMarketplace
		}
		if maxShopping > 0 {
			pc.maxShoppingResults = maxShopping
		}
		if minMarketplace > 0 {
			pc.minMarketplaceItems = minMarketplace
		}
	}
}

// WithAttempts overrides the per-tier attempt policy.
func WithAttempts(cfg resilience.AttemptConfig) PriceOption {
	return func(pc *PriceCollector) {
		pc.attempts = cfg
	}
}

// rawListing pairs a scraped product with the tier that found it, so the
// report can name whichever tier actually produced the surviving data.
type rawListing struct {
	product model.ScrapedProduct
	source  model.PriceSource
}

// Collect runs the tier chain and aggregates a PriceReport. The report's
// product list is never empty and its average is always defined.
func (pc *PriceCollector) Collect(ctx context.Context, product string, country model.CountryProfile, guardrail model.PriceGuardrail) model.Outcome[model.PriceReport] {
	raw := pc.collectMarketplace(ctx, product, country)

	// The shopping tier supplements rather than replaces marketplace data.
	if len(raw) < pc.minMarketplaceItems {
		zap.L().Info("collect: marketplace yield too thin, adding shopping results",
			zap.String("product", product),
			zap.Int("marketplace_items", len(raw)),
		)
		raw = append(raw, pc.collectShopping(ctx, product, country)...)
	}

	kept := filterJunk(raw, guardrail)
	zap.L().Debug("collect: junk filter applied",
		zap.Int("raw", len(raw)),
		zap.Int("kept", len(kept)),
		zap.Float64("guardrail_min", guardrail.MinPrice),
		zap.Float64("guardrail_max", guardrail.MaxPrice),
	)

	if len(kept) == 0 {
		est := guardrail.Midpoint()
		zap.L().Warn("collect: no listings survived, synthesizing estimate",
			zap.String("product", product),
			zap.Float64("estimate", est),
		)
		report := model.PriceReport{
			Source:       model.SourceMarketEstimate,
			AveragePrice: est,
			Products: []model.ScrapedProduct{
				{Title: "Market Average Estimate", Price: est},
			},
		}
		return model.Degraded(report, "no real price data; midpoint estimate used")
	}

	report := model.PriceReport{
		Source:       dominantSource(kept),
		AveragePrice: meanPrice(kept),
		Products:     products(kept),
	}
	return model.OK(report)
}

// collectMarketplace is the first tier. Failures yield zero items.
func (pc *PriceCollector) collectMarketplace(ctx context.Context, product string, country model.CountryProfile) []rawListing {
	items, err := resilience.DoVal(ctx, pc.attempts, "apify", func(ctx context.Context) ([]apify.ListingItem, error) {
		return pc.marketplace.SearchListings(ctx, apify.SearchRequest{
			SearchQueries: []string{product},
			CountryCode:   MarketplaceRegion(country),
			MaxItems:      pc.maxMarketplaceItems,
		})
	})
	if err != nil {
		zap.L().Warn("collect: marketplace scrape skipped",
			zap.String("product", product),
			zap.Error(err),
		)
		return nil
	}

	var out []rawListing
	for _, item := range items {
		price := item.UnitPrice()
		if price <= 0 {
			continue
		}
		title := item.Title
		if title == "" {
			title = "Unknown"
		}
		out = append(out, rawListing{
			product: model.ScrapedProduct{Title: title, Price: price},
			source:  model.SourceAmazon,
		})
	}

	zap.L().Info("collect: marketplace tier complete",
		zap.String("product", product),
		zap.Int("items", len(out)),
	)
	return out
}

// collectShopping is the second tier. Unparsable prices are skipped.
func (pc *PriceCollector) collectShopping(ctx context.Context, product string, country model.CountryProfile) []rawListing {
	resp, err := resilience.DoVal(ctx, pc.attempts, "serper", func(ctx context.Context) (*serper.ShoppingResponse, error) {
		return pc.shopping.Shopping(ctx, serper.ShoppingRequest{
			Query: product,
			Geo:   ShoppingGeo(country),
			Num:   pc.maxShoppingResults,
		})
	})
	if err != nil {
		zap.L().Warn("collect: shopping search failed",
			zap.String("product", product),
			zap.Error(err),
		)
		return nil
	}

	var out []rawListing
	for _, item := range resp.Shopping {
		price, ok := ParsePrice(item.Price, country.CurrencySymbol)
		if !ok {
			continue
		}
		out = append(out, rawListing{
			product: model.ScrapedProduct{Title: item.Title, Price: price},
			source:  model.SourceGoogleShopping,
		})
	}

	zap.L().Info("collect: shopping tier complete",
		zap.String("product", product),
		zap.Int("items", len(out)),
	)
	return out
}

// filterJunk drops listings priced outside the tolerance band around the
// guardrails. A non-positive minimum clamps to 1 so the low bound never
// degenerates to all-pass.
func filterJunk(listings []rawListing, g model.PriceGuardrail) []rawListing {
	minP := g.MinPrice
	if minP <= 0 {
		minP = 1
	}
	maxP := g.MaxPrice

	var kept []rawListing
	for _, l := range listings {
		p := l.product.Price
		if p*lowTolDen >= minP*lowTolNum && p*highTolDen <= maxP*highTolNum {
			kept = append(kept, l)
		}
	}
	return kept
}

// dominantSource names the tier that produced the surviving data. The
// marketplace tier wins when any of its items survive.
func dominantSource(listings []rawListing) model.PriceSource {
	for _, l := range listings {
		if l.source == model.SourceAmazon {
			return model.SourceAmazon
		}
	}
	return model.SourceGoogleShopping
}

func meanPrice(listings []rawListing) float64 {
	var sum float64
	for _, l := range listings {
		sum += l.product.Price
	}
	return sum / float64(len(listings))
}

func products(listings []rawListing) []model.ScrapedProduct {
	out := make([]model.ScrapedProduct, len(listings))
	for i, l := range listings {
		out[i] = l.product
	}
	return out
}

// ParsePrice converts a currency-formatted string ("₹4,500.00") to a
// number by stripping the currency symbol and thousands separators.
// Trailing annotations ("+", " from") are ignored. Returns false when no
// positive number remains.
func ParsePrice(s, currencySymbol string) (float64, bool) {
	s = strings.ReplaceAll(s, currencySymbol, "")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)

	end := 0
	for end < len(s) && (s[end] == '.' || (s[end] >= '0' && s[end] <= '9')) {
		end++
	}
	v, err := strconv.ParseFloat(s[:end], 64)
	if err != nil {
		return 0, false
	}
	return v, v > 0
}
