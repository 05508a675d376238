package main

import (
	"time"

	"github.com/sells-group/viability-cli/internal/analyst"
	"github.com/sells-group/viability-cli/internal/calibrate"
	"github.com/sells-group/viability-cli/internal/collect"
	"github.com/sells-group/viability-cli/internal/resilience"
	"github.com/sells-group/viability-cli/internal/synth"
	anthropicpkg "github.com/sells-group/viability-cli/pkg/anthropic"
	"github.com/sells-group/viability-cli/pkg/apify"
	"github.com/sells-group/viability-cli/pkg/serper"
)

// initAnalyst wires every external client and collector into an Analyst
// from the loaded config. Callers validate the config first.
func initAnalyst(mode string) (*analyst.Analyst, error) {
	if err := cfg.Validate(mode); err != nil {
		return nil, err
	}

	anthropicClient := anthropicpkg.NewClient(cfg.Anthropic.Key)
	serperClient := serper.NewClient(cfg.Serper.Key, serper.WithBaseURL(cfg.Serper.BaseURL))
	apifyClient := apify.NewClient(cfg.Apify.Token,
		apify.WithBaseURL(cfg.Apify.BaseURL),
		apify.WithActor(cfg.Apify.Actor),
	)

	attempts := resilience.AttemptConfig{MaxAttempts: cfg.Collect.SearchRetries}

	return analyst.New(
		calibrate.New(anthropicClient, cfg.Anthropic.CalibrateModel, cfg.Anthropic.MaxTokens),
		collect.NewPriceCollector(apifyClient, serperClient,
			collect.WithLimits(cfg.Collect.MaxMarketplaceItems, cfg.Collect.MaxShoppingResults, cfg.Collect.MinMarketplaceItems),
			collect.WithAttempts(attempts),
		),
		collect.NewDemandCollector(serperClient, attempts),
		collect.NewSourcingCollector(serperClient, attempts),
		collect.NewTaxResolver(anthropicClient, cfg.Anthropic.CalibrateModel, cfg.Anthropic.MaxTokens),
		synth.New(anthropicClient, cfg.Anthropic.Model, cfg.Anthropic.MaxTokens),
		analyst.WithCollectorTimeout(time.Duration(cfg.Collect.SearchTimeoutSecs)*time.Second),
	), nil
}
