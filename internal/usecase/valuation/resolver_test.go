package valuation

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/oliveirafelipe/carteira-backend/internal/domain"
	"github.com/oliveirafelipe/carteira-backend/internal/usecase/position"
)

func marketInvestment(ticker string) *domain.Investment {
	return &domain.Investment{
		ID:         uuid.New(),
		OwnerID:    uuid.New(),
		Name:       "Test Asset",
		AssetClass: domain.AssetClassStock,
		Ticker:     ticker,
		CreatedAt:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func positionOf(quantity, costBasis string, opCount int) *position.Result {
	q := decimal.RequireFromString(quantity)
	cb := decimal.RequireFromString(costBasis)
	avg := decimal.Zero
	if q.IsPositive() {
		avg = cb.Div(q)
	}
	return &position.Result{
		CurrentQuantity:  q,
		CurrentCostBasis: cb,
		AverageCost:      avg,
		OperationCount:   opCount,
	}
}

func TestResolve_LivePriceWithOperations(t *testing.T) {
	inv := marketInvestment("PETR4")
	pos := positionOf("150", "4352.50", 2)
	price := decimal.RequireFromString("31.20")
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	v := Resolve(inv, pos, &price, now)

	assert.Equal(t, SourceBrapiMarketPrice, v.Source)
	// 150 * 31.20
	assert.Equal(t, "4680.00", v.CurrentValue.StringFixed(2))
	assert.Equal(t, "4352.50", v.InvestedAmount.StringFixed(2))
	assert.Equal(t, "327.50", v.ProfitLossAmount.StringFixed(2))
}

func TestResolve_LivePriceWithoutOperationsUsesManualQuantity(t *testing.T) {
	inv := marketInvestment("VALE3")
	inv.Quantity = decimal.NewFromInt(40)
	inv.Value = decimal.RequireFromString("2400.00")
	price := decimal.RequireFromString("65.00")
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	v := Resolve(inv, nil, &price, now)

	assert.Equal(t, SourceBrapiMarketPrice, v.Source)
	// 40 * 65.00, invested from the manual snapshot
	assert.Equal(t, "2600.00", v.CurrentValue.StringFixed(2))
	assert.Equal(t, "2400.00", v.InvestedAmount.StringFixed(2))
}

func TestResolve_NoPriceFallsBackToCostBasis(t *testing.T) {
	inv := marketInvestment("PETR4")
	pos := positionOf("90", "2611.50", 3)
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	v := Resolve(inv, pos, nil, now)

	assert.Equal(t, SourceFallbackCostBasis, v.Source)
	assert.Equal(t, "2611.50", v.CurrentValue.StringFixed(2))
	// Value equals invested amount, so P/L is exactly zero
	assert.True(t, v.ProfitLossAmount.IsZero())
	assert.True(t, v.ProfitLossPercent.IsZero())
}

func TestResolve_NoPriceNoOperationsFallsBackToCreateEstimate(t *testing.T) {
	inv := marketInvestment("HGLG11")
	inv.EstimatedValueOnCreateDate = decimal.RequireFromString("1650.00")
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	v := Resolve(inv, nil, nil, now)

	assert.Equal(t, SourceFallbackEstimatedOnCreate, v.Source)
	assert.Equal(t, "1650.00", v.CurrentValue.StringFixed(2))
}

func TestResolve_FixedIncomeProjection(t *testing.T) {
	rate := decimal.RequireFromString("0.10")
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	inv := &domain.Investment{
		ID:         uuid.New(),
		Name:       "CDB Banco X",
		AssetClass: domain.AssetClassCDB,
		AnnualRate: &rate,
		Value:      decimal.NewFromInt(1000),
		CreatedAt:  created,
	}
	// 200 days after creation
	now := created.AddDate(0, 0, 200)

	v := Resolve(inv, nil, nil, now)

	assert.Equal(t, SourceFixedIncomeProjection, v.Source)
	// 1000 * 1.10^(200/365)
	assert.InDelta(t, 1053.61, v.CurrentValue.InexactFloat64(), 0.05)
	assert.True(t, v.ProfitLossAmount.IsPositive())
}

func TestResolve_ManualValueLastResort(t *testing.T) {
	inv := &domain.Investment{
		ID:         uuid.New(),
		Name:       "Previdência",
		AssetClass: domain.AssetClassCustom,
		Value:      decimal.RequireFromString("5000.00"),
		CreatedAt:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	v := Resolve(inv, nil, nil, now)

	assert.Equal(t, SourceManualValue, v.Source)
	assert.Equal(t, "5000.00", v.CurrentValue.StringFixed(2))
}

func TestResolve_FixedIncomeWithoutRateFallsThroughToManual(t *testing.T) {
	// Rate is nil (legacy record); the projection step must not match
	inv := &domain.Investment{
		ID:         uuid.New(),
		Name:       "CDB antigo",
		AssetClass: domain.AssetClassCDB,
		Value:      decimal.RequireFromString("800.00"),
		CreatedAt:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	v := Resolve(inv, nil, nil, now)

	assert.Equal(t, SourceManualValue, v.Source)
}

func TestResolve_ZeroInvestedAmountGuardsPercent(t *testing.T) {
	inv := marketInvestment("XPTO3")
	pos := positionOf("0", "0", 2) // fully closed position
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	v := Resolve(inv, pos, nil, now)

	assert.True(t, v.InvestedAmount.IsZero())
	assert.True(t, v.ProfitLossPercent.IsZero())
}

func TestResolve_ExactlyOneSource(t *testing.T) {
	known := map[Source]bool{
		SourceBrapiMarketPrice:          true,
		SourceFallbackCostBasis:         true,
		SourceFallbackEstimatedOnCreate: true,
		SourceFixedIncomeProjection:     true,
		SourceManualValue:               true,
	}

	price := decimal.RequireFromString("10.00")
	rate := decimal.RequireFromString("0.08")
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		inv   *domain.Investment
		pos   *position.Result
		price *decimal.Decimal
	}{
		{marketInvestment("A"), positionOf("10", "90", 1), &price},
		{marketInvestment("B"), positionOf("10", "90", 1), nil},
		{marketInvestment("C"), nil, nil},
		{&domain.Investment{AssetClass: domain.AssetClassLCI, AnnualRate: &rate, Value: decimal.NewFromInt(100), CreatedAt: now.AddDate(0, -3, 0)}, nil, nil},
		{&domain.Investment{AssetClass: domain.AssetClassFund, Value: decimal.NewFromInt(100)}, nil, nil},
	}

	for _, tc := range cases {
		v := Resolve(tc.inv, tc.pos, tc.price, now)
		assert.True(t, known[v.Source], "unexpected source %q", v.Source)
	}
}
