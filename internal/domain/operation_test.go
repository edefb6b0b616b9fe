package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func validOperation() *Operation {
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	return &Operation{
		ID:           uuid.New(),
		InvestmentID: uuid.New(),
		Type:         OperationTypeBuy,
		Quantity:     decimal.NewFromInt(100),
		UnitPrice:    decimal.RequireFromString("28.50"),
		Fees:         decimal.RequireFromString("2.50"),
		ExecutedAt:   now,
		RecordedAt:   now,
	}
}

func TestOperationValidate_Valid(t *testing.T) {
	op := validOperation()
	assert.NoError(t, op.Validate())
}

func TestOperationValidate_UnknownType(t *testing.T) {
	op := validOperation()
	op.Type = "HOLD"

	err := op.Validate()

	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Contains(t, err.Error(), "BUY or SELL")
}

func TestOperationValidate_NonPositiveQuantity(t *testing.T) {
	op := validOperation()
	op.Quantity = decimal.Zero
	assert.Error(t, op.Validate())

	op.Quantity = decimal.NewFromInt(-5)
	assert.Error(t, op.Validate())
}

func TestOperationValidate_NonPositiveUnitPrice(t *testing.T) {
	op := validOperation()
	op.UnitPrice = decimal.Zero
	assert.Error(t, op.Validate())
}

func TestOperationValidate_NegativeFees(t *testing.T) {
	op := validOperation()
	op.Fees = decimal.RequireFromString("-0.01")
	assert.ErrorIs(t, op.Validate(), ErrInvalidInput)
}

func TestOperationValidate_ZeroFeesAllowed(t *testing.T) {
	op := validOperation()
	op.Fees = decimal.Zero
	assert.NoError(t, op.Validate())
}

func TestOperationValidate_MissingExecutedAt(t *testing.T) {
	op := validOperation()
	op.ExecutedAt = time.Time{}
	assert.Error(t, op.Validate())
}

func TestOperationValidate_FractionalQuantityAllowed(t *testing.T) {
	op := validOperation()
	op.Quantity = decimal.RequireFromString("0.00034") // crypto-sized fractions
	assert.NoError(t, op.Validate())
}

func TestGrossAmount(t *testing.T) {
	op := validOperation()
	// 100 * 28.50, fees excluded
	assert.Equal(t, "2850.00", op.GrossAmount().StringFixed(2))
}
