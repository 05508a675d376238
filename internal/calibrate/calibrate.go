// Package calibrate derives a plausible unit-price range for a product so
// the price collector can reject outlier listings.
package calibrate

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/sells-group/viability-cli/internal/jsonx"
	"github.com/sells-group/viability-cli/internal/model"
	"github.com/sells-group/viability-cli/pkg/anthropic"
)

const systemPrompt = `You are a market calibration engine. Given a consumer product and a target market, respond with the realistic retail price range for ONE unit of the product in the local currency. Exclude cheap accessories. Respond with a JSON object only: {"min_price": <number>, "max_price": <number>}`

// Calibrator produces price guardrails via a single constrained LLM call.
type Calibrator struct {
	llm       anthropic.Client
	modelName string
	maxTokens int64
}

// New creates a Calibrator.
func New(llm anthropic.Client, modelName string, maxTokens int64) *Calibrator {
	if maxTokens <= 0 {
		maxTokens = 256
	}
	return &Calibrator{llm: llm, modelName: modelName, maxTokens: maxTokens}
}

// Guardrails returns the calibrated price range for product in country.
// One attempt, fail-open: any transport or parse failure degrades to the
// maximally permissive default range so downstream filtering never rejects
// everything.
func (c *Calibrator) Guardrails(ctx context.Context, product string, country model.CountryProfile) model.Outcome[model.PriceGuardrail] {
	temp := 0.0
	resp, err := c.llm.CreateMessage(ctx, anthropic.MessageRequest{
		Model:       c.modelName,
		MaxTokens:   c.maxTokens,
		System:      systemPrompt,
		Temperature: &temp,
		Messages: []anthropic.Message{{
			Role: "user",
			Content: fmt.Sprintf(
				"Product: %q\nTarget market: %s\nCurrency: %s\n\nExamples:\n- Smart Ring (India/₹) -> min: 3000, max: 35000\n- Smart Ring (UK/£) -> min: 40, max: 400",
				product, country.FullName, country.CurrencySymbol,
			),
		}},
	})
	if err != nil {
		zap.L().Warn("calibrate: guardrail call failed, using defaults",
			zap.String("product", product),
			zap.Error(err),
		)
		return model.Degraded(model.DefaultGuardrail, "calibration call failed")
	}

	resp.Usage.LogCost(resp.Model, "calibrate")

	var g model.PriceGuardrail
	if err := jsonx.Decode(resp.Text, &g); err != nil {
		zap.L().Warn("calibrate: unparsable guardrail response, using defaults",
			zap.String("product", product),
			zap.Error(err),
		)
		return model.Degraded(model.DefaultGuardrail, "unparsable calibration response")
	}

	if g.MinPrice <= 0 || g.MaxPrice <= g.MinPrice {
		zap.L().Warn("calibrate: implausible guardrail range, using defaults",
			zap.Float64("min", g.MinPrice),
			zap.Float64("max", g.MaxPrice),
		)
		return model.Degraded(model.DefaultGuardrail, "implausible calibration range")
	}

	zap.L().Info("calibrate: guardrails set",
		zap.String("product", product),
		zap.String("country", country.Key),
		zap.Float64("min", g.MinPrice),
		zap.Float64("max", g.MaxPrice),
	)
	return model.OK(g)
}
