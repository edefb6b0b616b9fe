package valuation

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/oliveirafelipe/carteira-backend/internal/domain"
	"github.com/oliveirafelipe/carteira-backend/internal/usecase/position"
)

// Service orchestrates repositories and the price provider to produce
// per-investment valuations and portfolio summaries
type Service struct {
	InvestmentRepo domain.InvestmentRepository
	OperationRepo  domain.OperationRepository
	PriceProvider  domain.PriceProvider
	Calculator     *position.Calculator

	// Now is the clock used for fixed-income accrual; overridable in tests
	Now func() time.Time
}

// NewService creates a new valuation Service instance
func NewService(
	investmentRepo domain.InvestmentRepository,
	operationRepo domain.OperationRepository,
	priceProvider domain.PriceProvider,
	calculator *position.Calculator,
) *Service {
	return &Service{
		InvestmentRepo: investmentRepo,
		OperationRepo:  operationRepo,
		PriceProvider:  priceProvider,
		Calculator:     calculator,
		Now:            time.Now,
	}
}

// ValuationFor resolves the current value of a single investment
// Logic:
//  1. Load the investment and its ledger
//  2. Replay the ledger into a position
//  3. Ask the provider for a live quote (any failure means "no price")
//  4. Run the fallback chain
func (s *Service) ValuationFor(ctx context.Context, investmentID uuid.UUID) (*Valuation, error) {
	inv, err := s.InvestmentRepo.GetByID(ctx, investmentID)
	if err != nil {
		return nil, err
	}

	return s.resolve(ctx, inv)
}

// PortfolioSummary resolves every investment of the owner and aggregates
// the results. Market-data unavailability never fails the summary; it
// only shifts investments into the fallback buckets.
func (s *Service) PortfolioSummary(ctx context.Context, ownerID uuid.UUID) (*Summary, []Valuation, error) {
	investments, err := s.InvestmentRepo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, nil, err
	}

	valuations := make([]Valuation, 0, len(investments))
	for _, inv := range investments {
		v, err := s.resolve(ctx, inv)
		if err != nil {
			return nil, nil, err
		}
		valuations = append(valuations, *v)
	}

	summary := Aggregate(valuations)
	return &summary, valuations, nil
}

func (s *Service) resolve(ctx context.Context, inv *domain.Investment) (*Valuation, error) {
	ops, err := s.OperationRepo.ListByInvestment(ctx, inv.ID)
	if err != nil {
		return nil, err
	}

	pos, err := s.Calculator.Compute(ops)
	if err != nil {
		return nil, err
	}

	var price *decimal.Decimal
	if inv.Ticker != "" {
		// The provider owns timeout/retry/cache; any error here simply
		// means the fallback chain runs without a live price
		if p, err := s.PriceProvider.GetCurrentPrice(ctx, inv.Ticker); err == nil {
			price = &p
		}
	}

	v := Resolve(inv, pos, price, s.Now())
	return &v, nil
}
