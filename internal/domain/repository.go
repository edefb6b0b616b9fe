package domain

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned by repositories when the requested entity does not exist
var ErrNotFound = errors.New("entity not found")

// ErrInvalidInput marks domain-rule rejections. Every Validate() error
// wraps it, so transport layers can match with errors.Is and map the
// failure onto a client error.
var ErrInvalidInput = errors.New("invalid input")

// ErrPriceNotFound is returned by a PriceProvider when no quote is
// available for the ticker. The valuation engine treats any provider
// error as "no live price", but this sentinel lets adapters distinguish
// an unknown ticker from a transport failure in their logs.
var ErrPriceNotFound = errors.New("price not found")

// OperationRepository defines the interface for ledger persistence operations
type OperationRepository interface {
	// Create persists a new operation; the write is transactional
	Create(ctx context.Context, op *Operation) error

	// GetByID retrieves an operation by its ID
	GetByID(ctx context.Context, id uuid.UUID) (*Operation, error)

	// Update replaces the mutable fields of an existing operation
	Update(ctx context.Context, op *Operation) error

	// Delete removes an operation from the ledger
	Delete(ctx context.Context, id uuid.UUID) error

	// ListByInvestment retrieves all operations for an investment,
	// ordered by executed_at then recorded_at ascending
	ListByInvestment(ctx context.Context, investmentID uuid.UUID) ([]*Operation, error)
}

// InvestmentRepository defines the interface for wallet persistence operations
type InvestmentRepository interface {
	// Create persists a new investment
	Create(ctx context.Context, inv *Investment) error

	// GetByID retrieves an investment by its ID
	GetByID(ctx context.Context, id uuid.UUID) (*Investment, error)

	// Update replaces the mutable fields of an existing investment
	Update(ctx context.Context, inv *Investment) error

	// Delete removes an investment and its ledger
	Delete(ctx context.Context, id uuid.UUID) error

	// ListByOwner retrieves all investments belonging to an owner
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*Investment, error)
}

// SnapshotEventRepository defines the interface for the append-only
// investment snapshot audit trail
type SnapshotEventRepository interface {
	// Add appends a new snapshot event
	Add(ctx context.Context, event *SnapshotEvent) error

	// ListByInvestment retrieves the audit trail for an investment,
	// ordered by recorded_at ascending
	ListByInvestment(ctx context.Context, investmentID uuid.UUID) ([]*SnapshotEvent, error)
}

// PriceProvider returns the latest quote for a ticker. Implementations
// own their timeout, retry and caching; callers treat any error as "no
// live price available" and fall back accordingly.
type PriceProvider interface {
	GetCurrentPrice(ctx context.Context, ticker string) (decimal.Decimal, error)
}
