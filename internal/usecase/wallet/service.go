package wallet

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/oliveirafelipe/carteira-backend/internal/domain"
)

// CreateInput represents the input for adding an investment to the wallet
type CreateInput struct {
	OwnerID    uuid.UUID
	Name       string
	AssetClass domain.AssetClass
	Ticker     string
	AnnualRate *decimal.Decimal
	Quantity   decimal.Decimal
	Value      decimal.Decimal
	UnitPrice  decimal.Decimal // optional, only used for the create-date estimate
}

// UpdateInput represents the input for editing an investment's mutable fields
type UpdateInput struct {
	Name       string
	AnnualRate *decimal.Decimal
	Quantity   decimal.Decimal
	Value      decimal.Decimal
}

// Service handles wallet (investment record) operations
type Service struct {
	InvestmentRepo    domain.InvestmentRepository
	SnapshotEventRepo domain.SnapshotEventRepository
}

// NewService creates a new wallet Service instance
func NewService(investmentRepo domain.InvestmentRepository, snapshotEventRepo domain.SnapshotEventRepository) *Service {
	return &Service{
		InvestmentRepo:    investmentRepo,
		SnapshotEventRepo: snapshotEventRepo,
	}
}

// Create validates and persists a new investment
// Logic:
//  1. Compute the create-date value estimate: quantity * unit price when
//     both were supplied, otherwise the manual value
//  2. Validate domain rules (ticker/annual-rate constraints per class)
//  3. Persist and append the first snapshot audit event
func (s *Service) Create(ctx context.Context, input CreateInput) (*domain.Investment, error) {
	now := time.Now()

	estimated := input.Value
	if input.Quantity.IsPositive() && input.UnitPrice.IsPositive() {
		estimated = input.Quantity.Mul(input.UnitPrice)
	}

	inv := &domain.Investment{
		ID:                         uuid.New(),
		OwnerID:                    input.OwnerID,
		Name:                       input.Name,
		AssetClass:                 input.AssetClass,
		Ticker:                     input.Ticker,
		AnnualRate:                 input.AnnualRate,
		Quantity:                   input.Quantity,
		Value:                      input.Value,
		EstimatedValueOnCreateDate: estimated,
		CreatedAt:                  now,
		UpdatedAt:                  now,
	}

	if err := inv.Validate(); err != nil {
		return nil, err
	}

	if err := s.InvestmentRepo.Create(ctx, inv); err != nil {
		return nil, err
	}

	if err := s.appendSnapshot(ctx, inv); err != nil {
		return nil, err
	}

	return inv, nil
}

// Update edits the mutable fields of an investment and appends a snapshot
// event so prior manual values remain auditable
func (s *Service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*domain.Investment, error) {
	inv, err := s.InvestmentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	inv.Name = input.Name
	inv.AnnualRate = input.AnnualRate
	inv.Quantity = input.Quantity
	inv.Value = input.Value
	inv.UpdatedAt = time.Now()

	if err := inv.Validate(); err != nil {
		return nil, err
	}

	if err := s.InvestmentRepo.Update(ctx, inv); err != nil {
		return nil, err
	}

	if err := s.appendSnapshot(ctx, inv); err != nil {
		return nil, err
	}

	return inv, nil
}

// Delete removes an investment and its ledger
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.InvestmentRepo.GetByID(ctx, id); err != nil {
		return err
	}

	return s.InvestmentRepo.Delete(ctx, id)
}

// Get retrieves a single investment
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*domain.Investment, error) {
	return s.InvestmentRepo.GetByID(ctx, id)
}

// ListForOwner retrieves all investments belonging to an owner
func (s *Service) ListForOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Investment, error) {
	return s.InvestmentRepo.ListByOwner(ctx, ownerID)
}

// History retrieves the snapshot audit trail for an investment
func (s *Service) History(ctx context.Context, investmentID uuid.UUID) ([]*domain.SnapshotEvent, error) {
	if _, err := s.InvestmentRepo.GetByID(ctx, investmentID); err != nil {
		return nil, err
	}

	return s.SnapshotEventRepo.ListByInvestment(ctx, investmentID)
}

func (s *Service) appendSnapshot(ctx context.Context, inv *domain.Investment) error {
	return s.SnapshotEventRepo.Add(ctx, &domain.SnapshotEvent{
		ID:           uuid.New(),
		InvestmentID: inv.ID,
		Quantity:     inv.Quantity,
		Value:        inv.Value,
		RecordedAt:   time.Now(),
	})
}
