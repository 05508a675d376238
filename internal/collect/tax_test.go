package collect

import (
	"context"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/viability-cli/internal/model"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name       string
		llm        *fakeLLM
		country    string
		wantStatus string
		wantRate   float64
		wantReason string
	}{
		{
			name:       "fraction_rate",
			llm:        &fakeLLM{text: `{"rate": 0.18, "reason": "Electronics GST slab"}`},
			country:    "INDIA",
			wantStatus: "ok",
			wantRate:   0.18,
			wantReason: "Electronics GST slab",
		},
		{
			name:       "percent_rate_normalized",
			llm:        &fakeLLM{text: `{"rate": 18, "reason": "Electronics GST slab"}`},
			country:    "INDIA",
			wantStatus: "ok",
			wantRate:   0.18,
		},
		{
			name:       "transport_failure_baseline",
			llm:        &fakeLLM{err: eris.New("api down")},
			country:    "UK",
			wantStatus: "degraded",
			wantRate:   0.20,
			wantReason: "Standard VAT rate",
		},
		{
			name:       "garbage_response_baseline",
			llm:        &fakeLLM{text: "tax is complicated"},
			country:    "INDIA",
			wantStatus: "degraded",
			wantRate:   0.18,
			wantReason: "Standard GST slab",
		},
		{
			name:       "implausible_rate_baseline",
			llm:        &fakeLLM{text: `{"rate": 480, "reason": "??"}`},
			country:    "UK",
			wantStatus: "degraded",
			wantRate:   0.20,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			country := mustCountry(t, tt.country)
			r := NewTaxResolver(tt.llm, "test-model", 256)
			out := r.Resolve(context.Background(), "Smart Ring", country)

			assert.Equal(t, tt.wantStatus, string(out.Status))
			assert.InDelta(t, tt.wantRate, out.Value.Rate, 1e-9)
			if tt.wantReason != "" {
				assert.Equal(t, tt.wantReason, out.Value.Reason)
			}
		})
	}
}

func TestNormalizeTaxRate_Idempotent(t *testing.T) {
	for _, r := range []float64{0.18, 18, 1.0, 100} {
		once := NormalizeTaxRate(r)
		twice := NormalizeTaxRate(once)
		assert.Equal(t, once, twice, "rate %v", r)
		assert.LessOrEqual(t, once, 1.0)
	}
	assert.Equal(t, 0.18, NormalizeTaxRate(18))
	assert.Equal(t, 1.0, NormalizeTaxRate(100))
	assert.Equal(t, 1.0, NormalizeTaxRate(1.0))
}

func mustCountry(t *testing.T, key string) model.CountryProfile {
	t.Helper()
	profile, err := model.CountryByKey(key)
	require.NoError(t, err)
	return profile
}
