package history

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/oliveirafelipe/carteira-backend/internal/domain"
	"github.com/oliveirafelipe/carteira-backend/internal/usecase/position"
	"github.com/oliveirafelipe/carteira-backend/internal/usecase/valuation"
)

// ErrInvalidDateRange is returned when the requested range ends before it starts
var ErrInvalidDateRange = errors.New("start date must not be after end date")

// Snapshot is the reconstructed state of a portfolio for one calendar day.
// Values carry the _estimate suffix on the wire because the per-day
// valuation uses the current best-known price, not a true historical one.
type Snapshot struct {
	Date                  time.Time
	BuyAmount             decimal.Decimal
	SellAmount            decimal.Decimal
	NetInvestedAmount     decimal.Decimal
	OperationCount        int
	CumulativeNetInvested decimal.Decimal

	TotalCurrentValueEstimate decimal.Decimal
	TotalProfitLossEstimate   decimal.Decimal
}

// Reconstructor replays the ledgers of a whole portfolio across a date
// range into a daily series of capital flows and value estimates.
type Reconstructor struct {
	InvestmentRepo domain.InvestmentRepository
	OperationRepo  domain.OperationRepository
	PriceProvider  domain.PriceProvider
	Calculator     *position.Calculator
}

// NewReconstructor creates a new Reconstructor instance
func NewReconstructor(
	investmentRepo domain.InvestmentRepository,
	operationRepo domain.OperationRepository,
	priceProvider domain.PriceProvider,
	calculator *position.Calculator,
) *Reconstructor {
	return &Reconstructor{
		InvestmentRepo: investmentRepo,
		OperationRepo:  operationRepo,
		PriceProvider:  priceProvider,
		Calculator:     calculator,
	}
}

// Reconstruct produces one snapshot per calendar day in [start, end],
// inclusive, including days with no operations.
// Logic per day:
//   - flows: the §invested-by-date calculation across all ledgers combined
//   - cumulative net invested: running sum, reset to zero at the range
//     start (a windowed view of capital flow, not lifetime-to-date)
//   - value/P&L estimate: replay each ledger up to that day and resolve
//     with the current price as the historical approximation
func (r *Reconstructor) Reconstruct(ctx context.Context, ownerID uuid.UUID, start, end time.Time) ([]Snapshot, error) {
	startDay := truncateToDay(start)
	endDay := truncateToDay(end)

	if startDay.After(endDay) {
		return nil, ErrInvalidDateRange
	}

	investments, err := r.InvestmentRepo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	opsByInvestment := make(map[uuid.UUID][]*domain.Operation, len(investments))
	var allOps []*domain.Operation
	for _, inv := range investments {
		ops, err := r.OperationRepo.ListByInvestment(ctx, inv.ID)
		if err != nil {
			return nil, err
		}
		opsByInvestment[inv.ID] = ops
		allOps = append(allOps, ops...)
	}

	// One quote per distinct ticker for the whole range; a failed lookup
	// just leaves the ticker out and the fallback chain takes over
	prices := make(map[string]decimal.Decimal)
	for _, inv := range investments {
		if inv.Ticker == "" {
			continue
		}
		if _, seen := prices[inv.Ticker]; seen {
			continue
		}
		if p, err := r.PriceProvider.GetCurrentPrice(ctx, inv.Ticker); err == nil {
			prices[inv.Ticker] = p
		}
	}

	days := int(endDay.Sub(startDay).Hours()/24) + 1
	snapshots := make([]Snapshot, 0, days)
	cumulative := decimal.Zero

	for day := startDay; !day.After(endDay); day = day.AddDate(0, 0, 1) {
		flow := position.InvestedOn(allOps, day)
		cumulative = cumulative.Add(flow.NetInvestedAmount)

		totalValue, totalProfitLoss, err := r.estimateDay(investments, opsByInvestment, prices, day)
		if err != nil {
			return nil, err
		}

		snapshots = append(snapshots, Snapshot{
			Date:                      day,
			BuyAmount:                 flow.BuyAmount,
			SellAmount:                flow.SellAmount,
			NetInvestedAmount:         flow.NetInvestedAmount,
			OperationCount:            flow.BuyCount + flow.SellCount,
			CumulativeNetInvested:     cumulative,
			TotalCurrentValueEstimate: totalValue,
			TotalProfitLossEstimate:   totalProfitLoss,
		})
	}

	return snapshots, nil
}

// estimateDay values the portfolio as of the end of the given day: each
// ledger truncated to operations executed on or before the day, resolved
// with the current price standing in for the historical one.
func (r *Reconstructor) estimateDay(
	investments []*domain.Investment,
	opsByInvestment map[uuid.UUID][]*domain.Operation,
	prices map[string]decimal.Decimal,
	day time.Time,
) (decimal.Decimal, decimal.Decimal, error) {
	totalValue := decimal.Zero
	totalProfitLoss := decimal.Zero

	for _, inv := range investments {
		pointInTime := opsUpTo(opsByInvestment[inv.ID], day)

		pos, err := r.Calculator.Compute(pointInTime)
		if err != nil {
			return decimal.Zero, decimal.Zero, err
		}

		var price *decimal.Decimal
		if inv.Ticker != "" {
			if p, ok := prices[inv.Ticker]; ok {
				price = &p
			}
		}

		v := valuation.Resolve(inv, pos, price, endOfDay(day))
		totalValue = totalValue.Add(v.CurrentValue)
		totalProfitLoss = totalProfitLoss.Add(v.ProfitLossAmount)
	}

	return totalValue, totalProfitLoss, nil
}

// opsUpTo filters operations executed on or before the given calendar day
func opsUpTo(ops []*domain.Operation, day time.Time) []*domain.Operation {
	filtered := make([]*domain.Operation, 0, len(ops))
	for _, op := range ops {
		if !truncateToDay(op.ExecutedAt).After(day) {
			filtered = append(filtered, op)
		}
	}
	return filtered
}

func truncateToDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func endOfDay(day time.Time) time.Time {
	return day.Add(24*time.Hour - time.Nanosecond)
}
