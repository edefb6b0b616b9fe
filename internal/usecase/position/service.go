package position

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/oliveirafelipe/carteira-backend/internal/domain"
)

// Service exposes ledger-derived position calculations
type Service struct {
	OperationRepo domain.OperationRepository
	Calculator    *Calculator
}

// NewService creates a new position Service instance
func NewService(operationRepo domain.OperationRepository, calculator *Calculator) *Service {
	return &Service{
		OperationRepo: operationRepo,
		Calculator:    calculator,
	}
}

// PositionFor replays the investment's ledger into its current position
func (s *Service) PositionFor(ctx context.Context, investmentID uuid.UUID) (*Result, error) {
	ops, err := s.OperationRepo.ListByInvestment(ctx, investmentID)
	if err != nil {
		return nil, err
	}

	return s.Calculator.Compute(ops)
}

// InvestedOn computes the capital flow for an investment on one calendar date
func (s *Service) InvestedOn(ctx context.Context, investmentID uuid.UUID, date time.Time) (*Flow, error) {
	ops, err := s.OperationRepo.ListByInvestment(ctx, investmentID)
	if err != nil {
		return nil, err
	}

	flow := InvestedOn(ops, date)
	return &flow, nil
}
