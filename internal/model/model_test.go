package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountryByKey(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		wantKey string
		wantErr bool
	}{
		{name: "exact", key: "INDIA", wantKey: "INDIA"},
		{name: "lowercase", key: "uk", wantKey: "UK"},
		{name: "whitespace", key: "  india ", wantKey: "INDIA"},
		{name: "unknown", key: "MARS", wantErr: true},
		{name: "empty", key: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := CountryByKey(tt.key)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantKey, c.Key)
		})
	}
}

func TestCountries_CopyIsolation(t *testing.T) {
	a := Countries()
	a[0].CurrencySymbol = "mutated"

	b := Countries()
	assert.NotEqual(t, "mutated", b[0].CurrencySymbol)
}

func TestCountryProfiles(t *testing.T) {
	uk, err := CountryByKey("UK")
	require.NoError(t, err)
	assert.Equal(t, "£", uk.CurrencySymbol)
	assert.Equal(t, "uk", uk.GeoCode)
	assert.Equal(t, "co.uk", uk.TLD)

	in, err := CountryByKey("INDIA")
	require.NoError(t, err)
	assert.Equal(t, "₹", in.CurrencySymbol)
	assert.Equal(t, "in", in.GeoCode)
	assert.Equal(t, "in", in.TLD)
}

func TestGuardrailMidpoint(t *testing.T) {
	g := PriceGuardrail{MinPrice: 8000, MaxPrice: 30000}
	assert.InDelta(t, 19000.0, g.Midpoint(), 0.001)

	assert.InDelta(t, 500005.0, DefaultGuardrail.Midpoint(), 0.001)
}

func TestPriceReportEstimated(t *testing.T) {
	assert.True(t, PriceReport{Source: SourceMarketEstimate}.Estimated())
	assert.False(t, PriceReport{Source: SourceAmazon}.Estimated())
	assert.False(t, PriceReport{Source: SourceGoogleShopping}.Estimated())
}

func TestProConUnmarshal(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want ProCon
	}{
		{
			name: "bare_string",
			raw:  `"Simple logistics"`,
			want: ProCon{Title: "Simple logistics"},
		},
		{
			name: "object",
			raw:  `{"title": "Rising demand", "specs": ["searches up 30%", "low returns"]}`,
			want: ProCon{Title: "Rising demand", Specs: []string{"searches up 30%", "low returns"}},
		},
		{
			name: "object_no_specs",
			raw:  `{"title": "Crowded market"}`,
			want: ProCon{Title: "Crowded market"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p ProCon
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &p))
			assert.Equal(t, tt.want, p)
		})
	}
}

func TestProConUnmarshal_Invalid(t *testing.T) {
	var p ProCon
	assert.Error(t, json.Unmarshal([]byte(`42`), &p))
}

func TestErrorVerdict(t *testing.T) {
	v := ErrorVerdict("llm call failed")

	assert.Equal(t, "ERROR", v.VerdictTag)
	assert.Equal(t, "Analysis Failed", v.StrategicThesis)
	assert.Equal(t, "llm call failed", v.Recommendation)
	assert.Zero(t, v.FinalScore)
	assert.NotNil(t, v.Breakdown)
	assert.Empty(t, v.Breakdown)
	assert.NotNil(t, v.Pros)
	assert.NotNil(t, v.Cons)
}

func TestOutcome(t *testing.T) {
	ok := OK("data")
	assert.Equal(t, StatusOK, ok.Status)
	assert.True(t, ok.Usable())

	deg := Degraded(42, "fallback used")
	assert.Equal(t, StatusDegraded, deg.Status)
	assert.Equal(t, 42, deg.Value)
	assert.Equal(t, "fallback used", deg.Reason)
	assert.True(t, deg.Usable())

	failed := Failed[string]("upstream down")
	assert.Equal(t, StatusFailed, failed.Status)
	assert.Empty(t, failed.Value)
	assert.False(t, failed.Usable())
}
