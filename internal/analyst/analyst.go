// Package analyst orchestrates one viability analysis request end to end:
// calibration, concurrent signal collection, financial computation, and
// verdict synthesis.
package analyst

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/viability-cli/internal/calibrate"
	"github.com/sells-group/viability-cli/internal/collect"
	"github.com/sells-group/viability-cli/internal/finance"
	"github.com/sells-group/viability-cli/internal/model"
	"github.com/sells-group/viability-cli/internal/synth"
)

// defaultCollectorTimeout bounds each collector when no explicit timeout is
// configured.
const defaultCollectorTimeout = 15 * time.Second

// Result is everything a presentation layer needs from one request.
type Result struct {
	RequestID string               `json:"request_id"`
	Product   string               `json:"product"`
	Country   model.CountryProfile `json:"country"`
	Guardrail model.PriceGuardrail `json:"guardrail"`
	Prices    model.PriceReport    `json:"prices"`
	Tax       model.TaxInfo        `json:"tax"`
	Verdict   model.Verdict        `json:"verdict"`
	Elapsed   time.Duration        `json:"elapsed_ns"`
}

// Analyst runs the pipeline. Construct with New; all collaborators are
// injected so tests can substitute them.
type Analyst struct {
	calibrator  *calibrate.Calibrator
	prices      *collect.PriceCollector
	demand      *collect.DemandCollector
	sourcing    *collect.SourcingCollector
	tax         *collect.TaxResolver
	synthesizer *synth.Synthesizer

	collectorTimeout time.Duration
}

// New creates an Analyst.
func New(
	calibrator *calibrate.Calibrator,
	prices *collect.PriceCollector,
	demand *collect.DemandCollector,
	sourcing *collect.SourcingCollector,
	tax *collect.TaxResolver,
	synthesizer *synth.Synthesizer,
	opts ...Option,
) *Analyst {
	a := &Analyst{
		calibrator:       calibrator,
		prices:           prices,
		demand:           demand,
		sourcing:         sourcing,
		tax:              tax,
		synthesizer:      synthesizer,
		collectorTimeout: defaultCollectorTimeout,
	}
	for _, o := range opts {
		o(a)
	}
	return a
}

// Option configures an Analyst.
type Option func(*Analyst)

// WithCollectorTimeout bounds each signal collector's external calls.
func WithCollectorTimeout(d time.Duration) Option {
	return func(a *Analyst) {
		if d > 0 {
			a.collectorTimeout = d
		}
	}
}

// Run executes the full pipeline for one (product, country) request. It
// returns an error only for invalid input; every upstream failure is
// absorbed into fallbacks or reflected in the verdict's error state.
func (a *Analyst) Run(ctx context.Context, product, countryKey string) (*Result, error) {
	if product == "" {
		return nil, eris.New("analyst: product name is required")
	}
	country, err := model.CountryByKey(countryKey)
	if err != nil {
		return nil, eris.Wrap(err, "analyst: resolve country")
	}

	start := time.Now()
	requestID := uuid.New().String()
	logger := zap.L().With(
		zap.String("request_id", requestID),
		zap.String("product", product),
		zap.String("country", country.Key),
	)
	logger.Info("analysis started")

	// Stage 1: calibration gates the price collector's junk filter.
	guardrailOut := a.calibrator.Guardrails(ctx, product, country)
	guardrail := guardrailOut.Value

	// Stage 2: independent collectors fan out concurrently. Each gets its
	// own bounded context; collectors absorb their own failures, so the
	// group never returns an error.
	var (
		demandOut   model.Outcome[string]
		sourcingOut model.Outcome[string]
		taxOut      model.Outcome[model.TaxInfo]
		priceOut    model.Outcome[model.PriceReport]
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		cctx, cancel := context.WithTimeout(gCtx, a.collectorTimeout)
		defer cancel()
		demandOut = a.demand.Collect(cctx, product, country)
		return nil
	})
	g.Go(func() error {
		cctx, cancel := context.WithTimeout(gCtx, a.collectorTimeout)
		defer cancel()
		sourcingOut = a.sourcing.Collect(cctx, product, country)
		return nil
	})
	g.Go(func() error {
		cctx, cancel := context.WithTimeout(gCtx, a.collectorTimeout)
		defer cancel()
		taxOut = a.tax.Resolve(cctx, product, country)
		return nil
	})
	g.Go(func() error {
		// Scraping chains through two services; give it double headroom.
		cctx, cancel := context.WithTimeout(gCtx, 2*a.collectorTimeout)
		defer cancel()
		priceOut = a.prices.Collect(cctx, product, country, guardrail)
		return nil
	})
	_ = g.Wait()

	// Stage 3: deterministic economics from the surviving average price.
	breakdown := finance.Compute(priceOut.Value.AveragePrice, taxOut.Value.Rate)

	// Stage 4: synthesis.
	verdict := a.synthesizer.Synthesize(ctx, synth.Input{
		Product:        product,
		Country:        country,
		Demand:         demandOut,
		Sourcing:       sourcingOut,
		Price:          priceOut.Value,
		Tax:            taxOut.Value,
		Financials:     breakdown,
		MissingSignals: missingSignals(demandOut, sourcingOut, taxOut, priceOut),
	})
	verdict.RequestID = requestID

	elapsed := time.Since(start)
	logger.Info("analysis complete",
		zap.Float64("final_score", verdict.FinalScore),
		zap.Int("confidence", verdict.ConfidenceScore),
		zap.String("price_source", string(priceOut.Value.Source)),
		zap.Duration("elapsed", elapsed),
	)

	return &Result{
		RequestID: requestID,
		Product:   product,
		Country:   country,
		Guardrail: guardrail,
		Prices:    priceOut.Value,
		Tax:       taxOut.Value,
		Verdict:   verdict,
		Elapsed:   elapsed,
	}, nil
}

// missingSignals names collectors that produced no usable data, plus the
// degraded fallbacks worth flagging to the reader.
func missingSignals(
	demand, sourcing model.Outcome[string],
	tax model.Outcome[model.TaxInfo],
	price model.Outcome[model.PriceReport],
) []string {
	var missing []string
	if !demand.Usable() {
		missing = append(missing, "demand")
	}
	if !sourcing.Usable() {
		missing = append(missing, "sourcing")
	}
	if tax.Status == model.StatusDegraded {
		missing = append(missing, "tax:baseline")
	}
	if price.Status == model.StatusDegraded {
		missing = append(missing, "price:estimate")
	}
	sort.Strings(missing)
	return missing
}
