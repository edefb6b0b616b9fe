package position

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/oliveirafelipe/carteira-backend/internal/domain"
)

// Flow is the net capital movement across a set of operations on a
// single calendar date.
type Flow struct {
	BuyAmount         decimal.Decimal
	SellAmount        decimal.Decimal
	NetInvestedAmount decimal.Decimal
	BuyCount          int
	SellCount         int
}

// SameDay reports whether two instants fall on the same calendar date.
// Comparison is date-only; time of day is ignored.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// InvestedOn computes the capital flow for the operations executed on
// the given calendar date.
// Logic:
//   - buy_amount  = sum(quantity*unit_price + fees) over that day's buys
//   - sell_amount = sum(quantity*unit_price - fees) over that day's sells
//   - net_invested_amount = buy_amount - sell_amount
//
// A date with no matching operations is not an error; it yields zeros.
func InvestedOn(operations []*domain.Operation, date time.Time) Flow {
	flow := Flow{
		BuyAmount:  decimal.Zero,
		SellAmount: decimal.Zero,
	}

	for _, op := range operations {
		if !SameDay(op.ExecutedAt, date) {
			continue
		}

		switch op.Type {
		case domain.OperationTypeBuy:
			flow.BuyAmount = flow.BuyAmount.Add(op.GrossAmount()).Add(op.Fees)
			flow.BuyCount++
		case domain.OperationTypeSell:
			flow.SellAmount = flow.SellAmount.Add(op.GrossAmount()).Sub(op.Fees)
			flow.SellCount++
		}
	}

	flow.NetInvestedAmount = flow.BuyAmount.Sub(flow.SellAmount)
	return flow
}
