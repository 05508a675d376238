package collect

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/sells-group/viability-cli/internal/jsonx"
	"github.com/sells-group/viability-cli/internal/model"
	"github.com/sells-group/viability-cli/pkg/anthropic"
)

// baselineTaxes are the hardcoded final-fallback rates per country key.
var baselineTaxes = map[string]model.TaxInfo{
	"INDIA": {Rate: 0.18, Reason: "Standard GST slab"},
	"UK":    {Rate: 0.20, Reason: "Standard VAT rate"},
}

const defaultBaselineRate = 0.18

const taxSystemPrompt = `You are an indirect tax classifier for consumer products. Classify the product into a category and return its indirect tax rate for the target market. Respond with a JSON object only: {"rate": <fraction or percent>, "reason": "<one line naming the category and slab>"}

Reference tables:
INDIA (GST): electronics and wearables 18%; apparel under ₹1000 5%, otherwise 12%; packaged food 5-12%; luxury goods and aerated drinks 28%; unbranded essentials 0%.
UNITED KINGDOM (VAT): standard rate 20%; children's clothing 0%; most food staples 0%; books and newspapers 0%; domestic energy 5%.`

// TaxResolver determines the indirect tax rate for a product/country pair.
type TaxResolver struct {
	llm       anthropic.Client
	modelName string
	maxTokens int64
}

// NewTaxResolver creates a TaxResolver.
func NewTaxResolver(llm anthropic.Client, modelName string, maxTokens int64) *TaxResolver {
	if maxTokens <= 0 {
		maxTokens = 256
	}
	return &TaxResolver{llm: llm, modelName: modelName, maxTokens: maxTokens}
}

// Resolve classifies the product and returns its tax rate as a fraction.
// Any transport or parse failure degrades to the country baseline. The rate
// is normalized here, once; callers must not re-normalize.
func (t *TaxResolver) Resolve(ctx context.Context, product string, country model.CountryProfile) model.Outcome[model.TaxInfo] {
	baseline := baselineTax(country)

	temp := 0.0
	resp, err := t.llm.CreateMessage(ctx, anthropic.MessageRequest{
		Model:       t.modelName,
		MaxTokens:   t.maxTokens,
		System:      taxSystemPrompt,
		Temperature: &temp,
		Messages: []anthropic.Message{{
			Role:    "user",
			Content: fmt.Sprintf("Product: %q\nTarget market: %s", product, country.FullName),
		}},
	})
	if err != nil {
		zap.L().Warn("collect: tax classification failed, using baseline",
			zap.String("product", product),
			zap.Error(err),
		)
		return model.Degraded(baseline, "tax classification call failed")
	}

	resp.Usage.LogCost(resp.Model, "tax")

	var parsed struct {
		Rate   float64 `json:"rate"`
		Reason string  `json:"reason"`
	}
	if err := jsonx.Decode(resp.Text, &parsed); err != nil {
		zap.L().Warn("collect: unparsable tax response, using baseline",
			zap.String("product", product),
			zap.Error(err),
		)
		return model.Degraded(baseline, "unparsable tax response")
	}

	rate := NormalizeTaxRate(parsed.Rate)
	if rate < 0 || rate > 1 {
		return model.Degraded(baseline, "implausible tax rate")
	}

	reason := parsed.Reason
	if reason == "" {
		reason = "Classified rate"
	}
	return model.OK(model.TaxInfo{Rate: rate, Reason: reason})
}

// NormalizeTaxRate collapses whole-number percentages into fractions: any
// magnitude above 1 is divided by 100. Idempotent.
func NormalizeTaxRate(rate float64) float64 {
	if rate > 1 {
		return rate / 100
	}
	return rate
}

func baselineTax(country model.CountryProfile) model.TaxInfo {
	if info, ok := baselineTaxes[country.Key]; ok {
		return info
	}
	return model.TaxInfo{Rate: defaultBaselineRate, Reason: "Standard rate assumed"}
}
