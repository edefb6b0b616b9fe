package position

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/oliveirafelipe/carteira-backend/internal/domain"
)

func TestInvestedOn_BuyDay(t *testing.T) {
	buyDay := time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC)
	otherDay := time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)

	ops := []*domain.Operation{
		buildOp(domain.OperationTypeBuy, "100", "28.50", "2.50", buyDay),
		buildOp(domain.OperationTypeBuy, "50", "30.00", "0", otherDay),
	}

	flow := InvestedOn(ops, buyDay)

	// 100 * 28.50 + 2.50
	assert.Equal(t, "2852.50", flow.BuyAmount.StringFixed(2))
	assert.True(t, flow.SellAmount.IsZero())
	assert.Equal(t, "2852.50", flow.NetInvestedAmount.StringFixed(2))
	assert.Equal(t, 1, flow.BuyCount)
	assert.Equal(t, 0, flow.SellCount)
}

func TestInvestedOn_NoOperationsOnDate(t *testing.T) {
	buyDay := time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC)
	emptyDay := time.Date(2024, 4, 20, 0, 0, 0, 0, time.UTC)

	ops := []*domain.Operation{
		buildOp(domain.OperationTypeBuy, "100", "28.50", "2.50", buyDay),
	}

	flow := InvestedOn(ops, emptyDay)

	assert.True(t, flow.BuyAmount.IsZero())
	assert.True(t, flow.SellAmount.IsZero())
	assert.True(t, flow.NetInvestedAmount.IsZero())
	assert.Equal(t, 0, flow.BuyCount)
	assert.Equal(t, 0, flow.SellCount)
}

func TestInvestedOn_MixedDay(t *testing.T) {
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	ops := []*domain.Operation{
		buildOp(domain.OperationTypeBuy, "10", "100.00", "1.00", day.Add(10*time.Hour)),
		buildOp(domain.OperationTypeSell, "5", "110.00", "2.00", day.Add(15*time.Hour)),
	}

	flow := InvestedOn(ops, day)

	// Buys include fees, sells deduct them from proceeds
	assert.Equal(t, "1001.00", flow.BuyAmount.StringFixed(2))
	assert.Equal(t, "548.00", flow.SellAmount.StringFixed(2))
	assert.Equal(t, "453.00", flow.NetInvestedAmount.StringFixed(2))
	assert.Equal(t, 1, flow.BuyCount)
	assert.Equal(t, 1, flow.SellCount)
}

func TestInvestedOn_ComparesDateOnly(t *testing.T) {
	lateNight := time.Date(2024, 3, 1, 23, 59, 0, 0, time.UTC)
	queryMorning := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)

	ops := []*domain.Operation{
		buildOp(domain.OperationTypeBuy, "1", "50.00", "0", lateNight),
	}

	flow := InvestedOn(ops, queryMorning)

	assert.Equal(t, "50.00", flow.NetInvestedAmount.StringFixed(2))

	nextDay := time.Date(2024, 3, 2, 0, 0, 1, 0, time.UTC)
	flow = InvestedOn(ops, nextDay)
	assert.True(t, flow.NetInvestedAmount.IsZero())
}

func TestInvestedOn_SellHeavyDayGoesNegative(t *testing.T) {
	day := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	ops := []*domain.Operation{
		buildOp(domain.OperationTypeSell, "20", "30.00", "0", day),
	}

	flow := InvestedOn(ops, day)

	assert.Equal(t, "-600.00", flow.NetInvestedAmount.StringFixed(2))
	assert.True(t, decimal.Zero.GreaterThan(flow.NetInvestedAmount))
}
