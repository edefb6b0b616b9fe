package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OperationType represents the type of a ledger operation
type OperationType string

const (
	OperationTypeBuy  OperationType = "BUY"
	OperationTypeSell OperationType = "SELL"
)

// Operation represents a single buy/sell entry in an investment's ledger.
// Operations are immutable once written; editing or deleting one simply
// invalidates every derived value for the investment, because positions
// are always recomputed from scratch (no cached position is persisted).
type Operation struct {
	ID           uuid.UUID
	InvestmentID uuid.UUID
	Type         OperationType
	Quantity     decimal.Decimal // positive, fractional allowed
	UnitPrice    decimal.Decimal // positive
	Fees         decimal.Decimal // non-negative, defaults to zero
	ExecutedAt   time.Time       // business-meaningful execution time
	RecordedAt   time.Time       // insertion timestamp, deterministic tie-break only
	Note         string
}

// Validate ensures the operation adheres to domain rules
// Returns an error if validation fails
func (o *Operation) Validate() error {
	if o.Type != OperationTypeBuy && o.Type != OperationTypeSell {
		return fmt.Errorf("%w: operation type must be BUY or SELL", ErrInvalidInput)
	}

	if o.Quantity.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("%w: operation quantity must be positive", ErrInvalidInput)
	}

	if o.UnitPrice.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("%w: operation unit price must be positive", ErrInvalidInput)
	}

	if o.Fees.IsNegative() {
		return fmt.Errorf("%w: operation fees cannot be negative", ErrInvalidInput)
	}

	if o.ExecutedAt.IsZero() {
		return fmt.Errorf("%w: operation must have an execution time", ErrInvalidInput)
	}

	return nil
}

// GrossAmount returns quantity * unit price without fees.
func (o *Operation) GrossAmount() decimal.Decimal {
	return o.Quantity.Mul(o.UnitPrice)
}
