// Package synth combines every collected signal into the final scored
// verdict. Narrative scoring is delegated to an LLM under a strict JSON
// schema; the numeric financials and the confidence score are never
// generated.
package synth

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/sells-group/viability-cli/internal/jsonx"
	"github.com/sells-group/viability-cli/internal/model"
	"github.com/sells-group/viability-cli/pkg/anthropic"
)

// Confidence is deterministic: synthetic price data lowers it, everything
// else leaves it at the scraped-data level.
const (
	confidenceEstimated = 55
	confidenceScraped   = 70
)

// signalClip bounds how much collected text goes into the prompt.
const signalClip = 600

// Input carries everything the synthesizer needs for one verdict.
type Input struct {
	Product    string
	Country    model.CountryProfile
	Demand     model.Outcome[string]
	Sourcing   model.Outcome[string]
	Price      model.PriceReport
	Tax        model.TaxInfo
	Financials model.FinancialBreakdown
	// MissingSignals names collectors that produced no usable data.
	MissingSignals []string
}

// Synthesizer produces verdicts.
type Synthesizer struct {
	llm       anthropic.Client
	modelName string
	maxTokens int64
}

// New creates a Synthesizer.
func New(llm anthropic.Client, modelName string, maxTokens int64) *Synthesizer {
	if maxTokens <= 0 {
		maxTokens = 2048
	}
	return &Synthesizer{llm: llm, modelName: modelName, maxTokens: maxTokens}
}

const systemPrompt = `You are a strategic market intelligence engine. Score the commercial viability of a consumer product in a target market using the data streams supplied. Follow the scoring rubric exactly and respond with a single JSON object matching the requested schema — no prose outside the JSON.

RUBRIC:
- Pillar scores are integers 1-10: demand (0=dead, 10=viral), competition (0=blue ocean, 10=bloodbath), economics (0=money pit, 10=cash cow), ecosystem (0=impossible, 10=plug & play).
- Detect the product category first (electronics, fashion, home, consumable) and use category-appropriate margin benchmarks: electronics 30-40% gross, fashion/beauty 65-80%, home/generic ~50%.
- Use specific competitive comparisons for the category, never generic ones.
- The financial figures supplied are computed from real data and are final; describe them, do not recompute them.`

// Synthesize produces the verdict for in. Never returns an error: any
// failure yields the zero verdict tagged ERROR with the failure detail in
// the recommendation field.
func (s *Synthesizer) Synthesize(ctx context.Context, in Input) model.Verdict {
	confidence := confidenceScraped
	if in.Price.Estimated() {
		confidence = confidenceEstimated
	}

	temp := 0.5
	resp, err := s.llm.CreateMessage(ctx, anthropic.MessageRequest{
		Model:       s.modelName,
		MaxTokens:   s.maxTokens,
		System:      systemPrompt,
		Temperature: &temp,
		Messages:    []anthropic.Message{{Role: "user", Content: s.userPrompt(in, confidence)}},
	})
	if err != nil {
		zap.L().Error("synth: verdict call failed",
			zap.String("product", in.Product),
			zap.Error(err),
		)
		return s.errorVerdict(in, "verdict generation failed: "+err.Error())
	}

	resp.Usage.LogCost(resp.Model, "synthesize")

	var verdict model.Verdict
	if err := jsonx.Decode(resp.Text, &verdict); err != nil {
		zap.L().Error("synth: unparsable verdict response",
			zap.String("product", in.Product),
			zap.Error(err),
		)
		return s.errorVerdict(in, "unparsable verdict response")
	}

	// The calculator's numbers are authoritative; whatever the model put
	// in the financials block is discarded wholesale.
	verdict.Financials = in.Financials
	verdict.ConfidenceScore = confidence
	verdict.MissingSignals = in.MissingSignals

	if verdict.FinalScore < 0 {
		verdict.FinalScore = 0
	}
	if verdict.FinalScore > 10 {
		verdict.FinalScore = 10
	}
	if verdict.Breakdown == nil {
		verdict.Breakdown = map[string]model.PillarScore{}
	}

	zap.L().Info("synth: verdict complete",
		zap.String("product", in.Product),
		zap.String("country", in.Country.Key),
		zap.Float64("final_score", verdict.FinalScore),
		zap.Int("confidence", verdict.ConfidenceScore),
		zap.String("tag", verdict.VerdictTag),
	)
	return verdict
}

func (s *Synthesizer) errorVerdict(in Input, reason string) model.Verdict {
	v := model.ErrorVerdict(reason)
	v.MissingSignals = in.MissingSignals
	return v
}

// userPrompt assembles the data streams and output schema for one request.
func (s *Synthesizer) userPrompt(in Input, confidence int) string {
	var b strings.Builder

	fmt.Fprintf(&b, "TARGET PRODUCT: %q\n", in.Product)
	fmt.Fprintf(&b, "TARGET MARKET: %s\n", in.Country.FullName)
	fmt.Fprintf(&b, "%s\n\n", regionalContext(in.Country))

	fmt.Fprintf(&b, "REAL DATA STREAMS:\n")
	fmt.Fprintf(&b, "- Detected price: %s%.0f (source: %s)\n", in.Country.CurrencySymbol, in.Price.AveragePrice, in.Price.Source)
	fmt.Fprintf(&b, "- Search trends: %s\n", signalText(in.Demand))
	fmt.Fprintf(&b, "- Supply chain: %s\n", signalText(in.Sourcing))
	fmt.Fprintf(&b, "- Indirect tax: %.0f%% (%s)\n\n", in.Tax.Rate*100, in.Tax.Reason)

	fmt.Fprintf(&b, "COMPUTED FINANCIALS (final, do not alter):\n")
	fmt.Fprintf(&b, "- sell_price: %d, cogs: %d, marketing_cpa: %d, logistics_cost: %d, tax: %d, net_profit: %d, net_margin_pct: %d\n\n",
		in.Financials.SellPrice, in.Financials.COGS, in.Financials.MarketingCPA,
		in.Financials.LogisticsCost, in.Financials.TaxAmount, in.Financials.NetProfit,
		in.Financials.NetMarginPct)

	fmt.Fprintf(&b, `OUTPUT JSON SCHEMA:
{
  "final_score": 7.5,
  "confidence_score": %d,
  "verdict_tag": "ENTER AGGRESSIVELY" | "ENTER CAUTIOUSLY" | "MONITOR" | "AVOID",
  "strategic_thesis": "two sentence executive summary specific to the product and category",
  "lifecycle_stage": "Introduction" | "Growth" | "Maturity" | "Decline",
  "volatility": "Low" | "Medium" | "High",
  "financials": {},
  "market_entry": { "strategy": "D2C" | "Marketplace" | "Retail", "reason": "..." },
  "breakdown": {
    "demand": { "total": 1-10, "reason": "...", "signals": ["Interest: ...", "Vol: ...", "Adoption: ..."] },
    "competition": { "total": 1-10, "reason": "...", "signals": ["Saturation: ...", "Rivals: ...", "Differentiation: ..."] },
    "economics": { "total": 1-10, "reason": "...", "signals": ["Gross: ...", "Net: ...", "Ads: ..."] },
    "ecosystem": { "total": 1-10, "reason": "...", "signals": ["Fit: ...", "Trust: ...", "Barrier: ..."] }
  },
  "pros": [ { "title": "...", "specs": ["...", "..."] } ],
  "cons": [ { "title": "...", "specs": ["...", "..."] } ],
  "recommendation": "final strategic advice"
}`, confidence)

	return b.String()
}

// regionalContext primes the model with market-specific conditions.
func regionalContext(country model.CountryProfile) string {
	switch strings.ToLower(country.GeoCode) {
	case "uk", "gb":
		return "MARKET CONTEXT: UK (High VAT, Expensive Ads, Mature Tech Adoption)"
	case "in":
		return "MARKET CONTEXT: INDIA (Price Sensitive, High Volume Needed, Emerging Tech)"
	default:
		return "MARKET CONTEXT: Global Standard"
	}
}

// signalText renders a collector outcome for the prompt, clipped so one
// noisy search result cannot crowd out the rest.
func signalText(o model.Outcome[string]) string {
	if !o.Usable() || o.Value == "" {
		return "(no data: " + o.Reason + ")"
	}
	text := o.Value
	if len(text) > signalClip {
		clip := signalClip
		// Back up to a rune boundary so currency symbols and the like
		// never get split into invalid UTF-8.
		for clip > 0 && !utf8.RuneStart(text[clip]) {
			clip--
		}
		text = text[:clip]
	}
	return text
}
