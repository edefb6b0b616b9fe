package operation

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/oliveirafelipe/carteira-backend/internal/domain"
)

// CreateInput represents the input for recording a ledger operation
type CreateInput struct {
	InvestmentID uuid.UUID
	Type         domain.OperationType
	Quantity     decimal.Decimal
	UnitPrice    decimal.Decimal
	Fees         decimal.Decimal
	ExecutedAt   time.Time
	Note         string
}

// UpdateInput represents the input for editing a ledger operation.
// Editing invalidates every derived value for the investment, which is
// free here: positions are recomputed from the ledger on every read.
type UpdateInput struct {
	Type       domain.OperationType
	Quantity   decimal.Decimal
	UnitPrice  decimal.Decimal
	Fees       decimal.Decimal
	ExecutedAt time.Time
	Note       string
}

// Service handles ledger write operations
type Service struct {
	OperationRepo  domain.OperationRepository
	InvestmentRepo domain.InvestmentRepository
}

// NewService creates a new operation Service instance
func NewService(operationRepo domain.OperationRepository, investmentRepo domain.InvestmentRepository) *Service {
	return &Service{
		OperationRepo:  operationRepo,
		InvestmentRepo: investmentRepo,
	}
}

// Create validates and records a new buy/sell operation
// Logic:
//  1. Build the operation with a fresh ID and insertion timestamp
//  2. Validate domain rules before anything touches the repository
//  3. Verify the investment exists
//  4. Persist (the repository write is transactional)
func (s *Service) Create(ctx context.Context, input CreateInput) (*domain.Operation, error) {
	op := &domain.Operation{
		ID:           uuid.New(),
		InvestmentID: input.InvestmentID,
		Type:         input.Type,
		Quantity:     input.Quantity,
		UnitPrice:    input.UnitPrice,
		Fees:         input.Fees,
		ExecutedAt:   input.ExecutedAt,
		RecordedAt:   time.Now(),
		Note:         input.Note,
	}

	if err := op.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.InvestmentRepo.GetByID(ctx, input.InvestmentID); err != nil {
		return nil, err
	}

	if err := s.OperationRepo.Create(ctx, op); err != nil {
		return nil, err
	}

	return op, nil
}

// Update edits an existing operation in place. RecordedAt is preserved so
// same-instant tie-breaks stay stable across edits.
func (s *Service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*domain.Operation, error) {
	op, err := s.OperationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	op.Type = input.Type
	op.Quantity = input.Quantity
	op.UnitPrice = input.UnitPrice
	op.Fees = input.Fees
	op.ExecutedAt = input.ExecutedAt
	op.Note = input.Note

	if err := op.Validate(); err != nil {
		return nil, err
	}

	if err := s.OperationRepo.Update(ctx, op); err != nil {
		return nil, err
	}

	return op, nil
}

// Delete removes an operation from the ledger
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.OperationRepo.GetByID(ctx, id); err != nil {
		return err
	}

	return s.OperationRepo.Delete(ctx, id)
}

// List retrieves an investment's ledger in replay order
func (s *Service) List(ctx context.Context, investmentID uuid.UUID) ([]*domain.Operation, error) {
	if _, err := s.InvestmentRepo.GetByID(ctx, investmentID); err != nil {
		return nil, err
	}

	return s.OperationRepo.ListByInvestment(ctx, investmentID)
}
