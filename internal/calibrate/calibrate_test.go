package calibrate

import (
	"context"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"

	"github.com/sells-group/viability-cli/internal/model"
	"github.com/sells-group/viability-cli/pkg/anthropic"
)

type fakeLLM struct {
	text string
	err  error
}

func (f *fakeLLM) CreateMessage(_ context.Context, _ anthropic.MessageRequest) (*anthropic.MessageResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &anthropic.MessageResponse{Text: f.text}, nil
}

func mustCountry(t *testing.T, key string) model.CountryProfile {
	t.Helper()
	c, err := model.CountryByKey(key)
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func TestGuardrails(t *testing.T) {
	india := mustCountry(t, "INDIA")

	tests := []struct {
		name       string
		llm        *fakeLLM
		wantStatus model.OutcomeStatus
		want       model.PriceGuardrail
	}{
		{
			name:       "valid_response",
			llm:        &fakeLLM{text: `{"min_price": 3000, "max_price": 35000}`},
			wantStatus: model.StatusOK,
			want:       model.PriceGuardrail{MinPrice: 3000, MaxPrice: 35000},
		},
		{
			name:       "fenced_response",
			llm:        &fakeLLM{text: "```json\n{\"min_price\": 40, \"max_price\": 400}\n```"},
			wantStatus: model.StatusOK,
			want:       model.PriceGuardrail{MinPrice: 40, MaxPrice: 400},
		},
		{
			name:       "transport_failure",
			llm:        &fakeLLM{err: eris.New("api down")},
			wantStatus: model.StatusDegraded,
			want:       model.DefaultGuardrail,
		},
		{
			name:       "non_json_response",
			llm:        &fakeLLM{text: "I am not sure about this product."},
			wantStatus: model.StatusDegraded,
			want:       model.DefaultGuardrail,
		},
		{
			name:       "inverted_range",
			llm:        &fakeLLM{text: `{"min_price": 500, "max_price": 100}`},
			wantStatus: model.StatusDegraded,
			want:       model.DefaultGuardrail,
		},
		{
			name:       "non_positive_min",
			llm:        &fakeLLM{text: `{"min_price": 0, "max_price": 100}`},
			wantStatus: model.StatusDegraded,
			want:       model.DefaultGuardrail,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(tt.llm, "test-model", 256)
			out := c.Guardrails(context.Background(), "Smart Ring", india)
			assert.Equal(t, tt.wantStatus, out.Status)
			assert.Equal(t, tt.want, out.Value)
		})
	}
}
