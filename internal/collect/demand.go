package collect

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/viability-cli/internal/model"
	"github.com/sells-group/viability-cli/internal/resilience"
	"github.com/sells-group/viability-cli/pkg/serper"
)

// DemandCollector gathers market growth and consumer interest text.
type DemandCollector struct {
	search   serper.Client
	attempts resilience.AttemptConfig
	now      func() time.Time // injectable for testing
}

// NewDemandCollector creates a DemandCollector.
func NewDemandCollector(search serper.Client, attempts resilience.AttemptConfig) *DemandCollector {
	return &DemandCollector{search: search, attempts: attempts, now: time.Now}
}

// Collect returns demand signal text for product in country. A failed
// search yields a failed outcome; synthesis proceeds without the signal.
func (d *DemandCollector) Collect(ctx context.Context, product string, country model.CountryProfile) model.Outcome[string] {
	year := d.now().Year()
	query := fmt.Sprintf(
		"Market growth trends, demand, and consumer interest for %s in %s %d %d",
		product, country.FullName, year, year+1,
	)

	resp, err := resilience.DoVal(ctx, d.attempts, "serper", func(ctx context.Context) (*serper.SearchResponse, error) {
		return d.search.Search(ctx, serper.SearchRequest{Query: query, Geo: country.GeoCode})
	})
	if err != nil {
		zap.L().Warn("collect: demand search failed",
			zap.String("product", product),
			zap.Error(err),
		)
		return model.Failed[string]("demand search failed: " + err.Error())
	}

	text := resp.Text()
	if text == "" {
		return model.Failed[string]("demand search returned no results")
	}
	return model.OK(text)
}
