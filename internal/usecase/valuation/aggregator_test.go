package valuation

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestAggregate_SumsElementwise(t *testing.T) {
	valuations := []Valuation{
		{
			InvestmentID:     uuid.New(),
			InvestedAmount:   decimal.NewFromInt(1000),
			CurrentValue:     decimal.NewFromInt(1200),
			ProfitLossAmount: decimal.NewFromInt(200),
			Source:           SourceBrapiMarketPrice,
		},
		{
			InvestmentID:     uuid.New(),
			InvestedAmount:   decimal.NewFromInt(500),
			CurrentValue:     decimal.NewFromInt(450),
			ProfitLossAmount: decimal.NewFromInt(-50),
			Source:           SourceFallbackCostBasis,
		},
		{
			InvestmentID:     uuid.New(),
			InvestedAmount:   decimal.NewFromInt(2000),
			CurrentValue:     decimal.NewFromInt(2100),
			ProfitLossAmount: decimal.NewFromInt(100),
			Source:           SourceFixedIncomeProjection,
		},
	}

	summary := Aggregate(valuations)

	assert.Equal(t, "3500.00", summary.TotalInvestedAmount.StringFixed(2))
	assert.Equal(t, "3750.00", summary.TotalCurrentValue.StringFixed(2))
	assert.Equal(t, "250.00", summary.TotalProfitLoss.StringFixed(2))
	// 250 / 3500 * 100
	assert.Equal(t, "7.14", summary.TotalProfitLossPercent.StringFixed(2))
	assert.Equal(t, 1, summary.WithMarketData)
	assert.Equal(t, 2, summary.WithoutMarketData)
}

func TestAggregate_EmptyPortfolio(t *testing.T) {
	summary := Aggregate(nil)

	assert.True(t, summary.TotalInvestedAmount.IsZero())
	assert.True(t, summary.TotalCurrentValue.IsZero())
	assert.True(t, summary.TotalProfitLoss.IsZero())
	assert.True(t, summary.TotalProfitLossPercent.IsZero())
	assert.Equal(t, 0, summary.WithMarketData)
	assert.Equal(t, 0, summary.WithoutMarketData)
}

func TestAggregate_ZeroInvestedGuardsPercent(t *testing.T) {
	valuations := []Valuation{
		{
			InvestedAmount:   decimal.Zero,
			CurrentValue:     decimal.NewFromInt(100),
			ProfitLossAmount: decimal.NewFromInt(100),
			Source:           SourceManualValue,
		},
	}

	summary := Aggregate(valuations)

	assert.Equal(t, "100.00", summary.TotalProfitLoss.StringFixed(2))
	assert.True(t, summary.TotalProfitLossPercent.IsZero())
}

func TestAggregate_IsAssociative(t *testing.T) {
	a := Valuation{InvestedAmount: decimal.NewFromInt(100), CurrentValue: decimal.NewFromInt(110), ProfitLossAmount: decimal.NewFromInt(10), Source: SourceBrapiMarketPrice}
	b := Valuation{InvestedAmount: decimal.NewFromInt(200), CurrentValue: decimal.NewFromInt(190), ProfitLossAmount: decimal.NewFromInt(-10), Source: SourceManualValue}
	c := Valuation{InvestedAmount: decimal.NewFromInt(300), CurrentValue: decimal.NewFromInt(330), ProfitLossAmount: decimal.NewFromInt(30), Source: SourceBrapiMarketPrice}

	whole := Aggregate([]Valuation{a, b, c})
	reordered := Aggregate([]Valuation{c, a, b})

	assert.True(t, whole.TotalInvestedAmount.Equal(reordered.TotalInvestedAmount))
	assert.True(t, whole.TotalCurrentValue.Equal(reordered.TotalCurrentValue))
	assert.True(t, whole.TotalProfitLoss.Equal(reordered.TotalProfitLoss))
	assert.Equal(t, whole.WithMarketData, reordered.WithMarketData)
}
