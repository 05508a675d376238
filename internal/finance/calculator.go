// Package finance computes the deterministic per-unit economics of a
// product. No I/O; these numbers are authoritative and the synthesizer
// overwrites any generated financials with them.
package finance

import (
	"math"

	"github.com/sells-group/viability-cli/internal/model"
)

// Benchmark cost structure as percentages of sell price.
const (
	cogsPct      = 35
	marketingPct = 25
	logisticsPct = 15
)

const breakdownNote = "Benchmark cost structure: 35% COGS, 25% marketing, 15% logistics, plus indirect tax."

// Compute builds a FinancialBreakdown from an average sell price and a
// normalized tax rate (fraction in [0,1]). Each cost is truncated to a whole
// currency unit, so net profit plus costs reconstructs the sell price
// exactly. A non-positive sell price yields the zero breakdown.
func Compute(sellPrice, taxRate float64) model.FinancialBreakdown {
	if sellPrice <= 0 || math.IsNaN(sellPrice) || math.IsInf(sellPrice, 0) {
		return model.FinancialBreakdown{}
	}

	sell := int64(math.Round(sellPrice))
	if sell <= 0 {
		return model.FinancialBreakdown{}
	}

	cogs := truncPct(sell, cogsPct)
	marketing := truncPct(sell, marketingPct)
	logistics := truncPct(sell, logisticsPct)
	tax := int64(taxRate * float64(sell))

	netProfit := sell - (cogs + marketing + logistics + tax)
	netMarginPct := int64(float64(netProfit) * 100 / float64(sell))

	return model.FinancialBreakdown{
		SellPrice:     sell,
		COGS:          cogs,
		MarketingCPA:  marketing,
		LogisticsCost: logistics,
		TaxAmount:     tax,
		NetProfit:     netProfit,
		NetMarginPct:  netMarginPct,
		Note:          breakdownNote,
	}
}

// truncPct returns pct% of amount truncated to a whole unit. The
// multiply-before-divide order keeps integer inputs exact.
func truncPct(amount int64, pct int64) int64 {
	return int64(float64(amount) * float64(pct) / 100)
}
