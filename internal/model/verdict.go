package model

import "encoding/json"

// FinancialBreakdown is the deterministic per-unit economics of a product.
// All monetary fields are whole currency units. These numbers come from the
// financial calculator and are authoritative; the synthesizer overwrites any
// generated financials with them wholesale.
type FinancialBreakdown struct {
	SellPrice     int64  `json:"sell_price"`
	COGS          int64  `json:"cogs"`
	MarketingCPA  int64  `json:"marketing_cpa"`
	LogisticsCost int64  `json:"logistics_cost"`
	TaxAmount     int64  `json:"tax_rate"` // tax amount in currency units (legacy field name)
	NetMarginPct  int64  `json:"net_margin_pct"`
	NetProfit     int64  `json:"net_profit"`
	Note          string `json:"note"`
}

// PillarScore is one scoring dimension of the verdict breakdown.
type PillarScore struct {
	Total   int      `json:"total"`  // 0-10
	Reason  string   `json:"reason"`
	Signals []string `json:"signals,omitempty"` // up to 3 short signal strings
}

// MarketEntry is the recommended go-to-market path.
type MarketEntry struct {
	Strategy string `json:"strategy"`
	Reason   string `json:"reason"`
}

// ProCon is a single advantage or risk. The generator may emit either a
// bare string or a {title, specs[]} object; both decode into this type.
type ProCon struct {
	Title string   `json:"title"`
	Specs []string `json:"specs,omitempty"`
}

// UnmarshalJSON accepts either a plain string or a structured object.
func (p *ProCon) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		p.Title = s
		p.Specs = nil
		return nil
	}
	type alias ProCon
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*p = ProCon(a)
	return nil
}

// Verdict is the final structured output of an analysis request. Created
// once by the synthesizer and immutable thereafter.
type Verdict struct {
	RequestID       string                 `json:"request_id,omitempty"`
	FinalScore      float64                `json:"final_score"`      // 0-10
	ConfidenceScore int                    `json:"confidence_score"` // 0-100, deterministic
	VerdictTag      string                 `json:"verdict_tag"`
	StrategicThesis string                 `json:"strategic_thesis"`
	LifecycleStage  string                 `json:"lifecycle_stage"`
	Volatility      string                 `json:"volatility"`
	Financials      FinancialBreakdown     `json:"financials"`
	MarketEntry     MarketEntry            `json:"market_entry"`
	Breakdown       map[string]PillarScore `json:"breakdown"`
	Pros            []ProCon               `json:"pros"`
	Cons            []ProCon               `json:"cons"`
	Recommendation  string                 `json:"recommendation"`
	MissingSignals  []string               `json:"missing_signals,omitempty"`
}

// ErrorVerdict builds the zero verdict returned when synthesis fails.
// The failure detail lands in Recommendation so it stays diagnosable.
func ErrorVerdict(reason string) Verdict {
	return Verdict{
		VerdictTag:      "ERROR",
		StrategicThesis: "Analysis Failed",
		LifecycleStage:  "Unknown",
		Volatility:      "Unknown",
		Breakdown:       map[string]PillarScore{},
		Pros:            []ProCon{},
		Cons:            []ProCon{},
		Recommendation:  reason,
	}
}
