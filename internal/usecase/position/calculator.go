package position

import (
	"errors"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/oliveirafelipe/carteira-backend/internal/domain"
)

// ErrOversell is returned under OversellReject when a sell exceeds the
// quantity held at that point of the replay
var ErrOversell = errors.New("sell quantity exceeds held quantity")

// OversellPolicy controls what happens when a sell operation exceeds the
// quantity held at that point of the replay. The product has not settled
// on short-selling, so the choice is explicit rather than implied.
type OversellPolicy int

const (
	// OversellClamp caps the sold amount at the available quantity and
	// clamps the resulting quantity at zero. Default.
	OversellClamp OversellPolicy = iota

	// OversellReject aborts the replay with ErrOversell.
	OversellReject

	// OversellAllowShort applies the raw formula and lets the quantity
	// go negative (short position).
	OversellAllowShort
)

// Result is the current position derived by replaying a ledger.
// Never persisted; always recomputed from the operation set.
// When CurrentQuantity > 0, CurrentCostBasis = CurrentQuantity * AverageCost.
type Result struct {
	CurrentQuantity  decimal.Decimal
	CurrentCostBasis decimal.Decimal
	AverageCost      decimal.Decimal

	// Oversold is set when a sell exceeded the held quantity and the
	// policy clamped it. Lets callers surface the inconsistency without
	// failing the whole computation.
	Oversold bool

	// OperationCount is the number of operations replayed.
	OperationCount int
}

// Calculator replays an investment's ledger into a current position
// using weighted-average cost accounting.
type Calculator struct {
	Policy OversellPolicy
}

// NewCalculator creates a new Calculator with the given over-sell policy
func NewCalculator(policy OversellPolicy) *Calculator {
	return &Calculator{Policy: policy}
}

// Compute replays the operations in chronological order and returns the
// resulting position.
// Logic:
//  1. Sort by executed_at ascending, ties broken by recorded_at ascending
//     (same-instant operations replay deterministically)
//  2. Buy: cost_basis += quantity*unit_price + fees (buy fees permanently
//     inflate the cost basis)
//  3. Sell: cost_basis -= average_cost_before_sale * sold_quantity; sell
//     fees reduce realized proceeds but never touch the remaining basis
//  4. average_cost = cost_basis / quantity when quantity > 0, else 0
func (c *Calculator) Compute(operations []*domain.Operation) (*Result, error) {
	ops := make([]*domain.Operation, len(operations))
	copy(ops, operations)

	sort.SliceStable(ops, func(a, b int) bool {
		if ops[a].ExecutedAt.Equal(ops[b].ExecutedAt) {
			return ops[a].RecordedAt.Before(ops[b].RecordedAt)
		}
		return ops[a].ExecutedAt.Before(ops[b].ExecutedAt)
	})

	quantity := decimal.Zero
	costBasis := decimal.Zero
	oversold := false

	for _, op := range ops {
		switch op.Type {
		case domain.OperationTypeBuy:
			costBasis = costBasis.Add(op.GrossAmount()).Add(op.Fees)
			quantity = quantity.Add(op.Quantity)

		case domain.OperationTypeSell:
			avg := decimal.Zero
			if quantity.IsPositive() {
				avg = costBasis.Div(quantity)
			}

			sold := op.Quantity
			if sold.GreaterThan(quantity) {
				switch c.Policy {
				case OversellReject:
					return nil, ErrOversell
				case OversellClamp:
					sold = quantity
					oversold = true
				case OversellAllowShort:
					// raw formula, quantity may go negative
				}
			}

			costBasis = costBasis.Sub(avg.Mul(decimal.Min(sold, quantity)))
			if c.Policy == OversellClamp {
				quantity = decimal.Max(decimal.Zero, quantity.Sub(op.Quantity))
			} else {
				quantity = quantity.Sub(op.Quantity)
			}
		}
	}

	averageCost := decimal.Zero
	if quantity.IsPositive() {
		averageCost = costBasis.Div(quantity)
	}

	return &Result{
		CurrentQuantity:  quantity,
		CurrentCostBasis: costBasis,
		AverageCost:      averageCost,
		Oversold:         oversold,
		OperationCount:   len(ops),
	}, nil
}
