package collect

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/sells-group/viability-cli/internal/model"
	"github.com/sells-group/viability-cli/internal/resilience"
	"github.com/sells-group/viability-cli/pkg/serper"
)

// SourcingCollector gathers wholesale manufacturing cost text.
type SourcingCollector struct {
	search   serper.Client
	attempts resilience.AttemptConfig
}

// NewSourcingCollector creates a SourcingCollector.
func NewSourcingCollector(search serper.Client, attempts resilience.AttemptConfig) *SourcingCollector {
	return &SourcingCollector{search: search, attempts: attempts}
}

// Collect returns supply-chain cost text for product in country. Wholesale
// marketplaces differ by market: IndiaMart for India, Alibaba elsewhere.
func (s *SourcingCollector) Collect(ctx context.Context, product string, country model.CountryProfile) model.Outcome[string] {
	marketplace := "Alibaba"
	if ShoppingGeo(country) == "in" {
		marketplace = "IndiaMart"
	}
	query := fmt.Sprintf("Wholesale bulk manufacturing cost per unit for %s on %s", product, marketplace)

	resp, err := resilience.DoVal(ctx, s.attempts, "serper", func(ctx context.Context) (*serper.SearchResponse, error) {
		return s.search.Search(ctx, serper.SearchRequest{Query: query, Geo: country.GeoCode})
	})
	if err != nil {
		zap.L().Warn("collect: sourcing search failed",
			zap.String("product", product),
			zap.Error(err),
		)
		return model.Failed[string]("sourcing search failed: " + err.Error())
	}

	text := resp.Text()
	if text == "" {
		return model.Failed[string]("sourcing search returned no results")
	}
	return model.OK(text)
}
