package valuation

import "github.com/shopspring/decimal"

// Summary is the consolidated valuation of a whole portfolio
type Summary struct {
	TotalInvestedAmount    decimal.Decimal
	TotalCurrentValue      decimal.Decimal
	TotalProfitLoss        decimal.Decimal
	TotalProfitLossPercent decimal.Decimal

	// WithMarketData counts investments valued from a live quote;
	// WithoutMarketData counts every other resolution source.
	WithMarketData    int
	WithoutMarketData int
}

// Aggregate sums per-investment valuations into a portfolio summary.
// Every investment resolves to exactly one valuation, so nothing is
// skipped; an empty portfolio yields a zeroed summary.
func Aggregate(valuations []Valuation) Summary {
	summary := Summary{
		TotalInvestedAmount: decimal.Zero,
		TotalCurrentValue:   decimal.Zero,
		TotalProfitLoss:     decimal.Zero,
	}

	for _, v := range valuations {
		summary.TotalInvestedAmount = summary.TotalInvestedAmount.Add(v.InvestedAmount)
		summary.TotalCurrentValue = summary.TotalCurrentValue.Add(v.CurrentValue)
		summary.TotalProfitLoss = summary.TotalProfitLoss.Add(v.ProfitLossAmount)

		if v.Source == SourceBrapiMarketPrice {
			summary.WithMarketData++
		} else {
			summary.WithoutMarketData++
		}
	}

	summary.TotalProfitLossPercent = decimal.Zero
	if summary.TotalInvestedAmount.IsPositive() {
		summary.TotalProfitLossPercent = summary.TotalProfitLoss.
			Div(summary.TotalInvestedAmount).
			Mul(decimal.NewFromInt(100))
	}

	return summary
}
