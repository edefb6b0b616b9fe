package valuation

import (
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/oliveirafelipe/carteira-backend/internal/domain"
	"github.com/oliveirafelipe/carteira-backend/internal/usecase/position"
)

// Source identifies which fallback rule produced a valuation's current
// value. Exactly one source is tagged per resolution.
type Source string

const (
	SourceBrapiMarketPrice          Source = "brapi_market_price"
	SourceFallbackCostBasis         Source = "fallback_cost_basis"
	SourceFallbackEstimatedOnCreate Source = "fallback_estimated_on_create_date"
	SourceFixedIncomeProjection     Source = "fixed_income_projection"
	SourceManualValue               Source = "manual_value"
)

// Valuation is the resolved point-in-time value of one investment.
// Derived, never persisted.
type Valuation struct {
	InvestmentID      uuid.UUID
	InvestedAmount    decimal.Decimal
	CurrentValue      decimal.Decimal
	ProfitLossAmount  decimal.Decimal
	ProfitLossPercent decimal.Decimal
	Source            Source
}

// daysInYear is the divisor for fixed-income accrual exponents
const daysInYear = 365.0

// Resolve turns an investment, its ledger-derived position (nil when no
// operations exist) and a market price (nil when no live quote is
// available) into a valuation.
//
// The fallback chain is evaluated in a fixed order, first match wins:
//  1. ticker + live price       -> quantity * market price
//  2. ticker + operations       -> current cost basis
//  3. ticker, nothing else      -> estimated value on create date
//  4. fixed income with a rate  -> compound accrual projection
//  5. anything else             -> manual value
//
// A missing price is never an error here; unavailability was already
// absorbed by the provider boundary and shows up as prices == nil.
func Resolve(inv *domain.Investment, pos *position.Result, price *decimal.Decimal, now time.Time) Valuation {
	hasOperations := pos != nil && pos.OperationCount > 0

	investedAmount := investedAmountFor(inv, pos, hasOperations)

	var currentValue decimal.Decimal
	var source Source

	switch {
	case inv.Ticker != "" && price != nil:
		effectiveQuantity := inv.Quantity
		if hasOperations {
			effectiveQuantity = pos.CurrentQuantity
		}
		currentValue = effectiveQuantity.Mul(*price)
		source = SourceBrapiMarketPrice

	case inv.Ticker != "" && hasOperations:
		currentValue = pos.CurrentCostBasis
		source = SourceFallbackCostBasis

	case inv.Ticker != "":
		currentValue = inv.EstimatedValueOnCreateDate
		source = SourceFallbackEstimatedOnCreate

	case inv.AssetClass.IsFixedIncome() && inv.HasAnnualRate():
		currentValue = projectFixedIncome(investedAmount, *inv.AnnualRate, inv.CreatedAt, now)
		source = SourceFixedIncomeProjection

	default:
		currentValue = inv.Value
		source = SourceManualValue
	}

	profitLoss := currentValue.Sub(investedAmount)
	profitLossPercent := decimal.Zero
	if investedAmount.IsPositive() {
		profitLossPercent = profitLoss.Div(investedAmount).Mul(decimal.NewFromInt(100))
	}

	return Valuation{
		InvestmentID:      inv.ID,
		InvestedAmount:    investedAmount,
		CurrentValue:      currentValue,
		ProfitLossAmount:  profitLoss,
		ProfitLossPercent: profitLossPercent,
		Source:            source,
	}
}

// investedAmountFor picks the capital basis for profit/loss: the ledger
// cost basis when operations exist, otherwise whichever manual snapshot
// the record carries.
func investedAmountFor(inv *domain.Investment, pos *position.Result, hasOperations bool) decimal.Decimal {
	if hasOperations {
		return pos.CurrentCostBasis
	}
	if inv.Value.IsPositive() {
		return inv.Value
	}
	return inv.EstimatedValueOnCreateDate
}

// projectFixedIncome compounds the invested amount at the annual rate for
// the elapsed fraction of a year: invested * (1 + rate)^(days/365).
// The exponent is fractional, so this runs through float64; the result is
// an accrual estimate, not authoritative accounting.
func projectFixedIncome(invested, annualRate decimal.Decimal, createdAt, now time.Time) decimal.Decimal {
	days := now.Sub(createdAt).Hours() / 24.0
	if days < 0 {
		days = 0
	}

	factor := math.Pow(1+annualRate.InexactFloat64(), days/daysInYear)
	return invested.Mul(decimal.NewFromFloat(factor))
}
