package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SnapshotEvent represents one entry in the append-only audit trail of an
// investment's manual snapshot fields. A new event is recorded on every
// mutation of the investment record. The trail is read for auditing only;
// no calculator ever consumes it.
type SnapshotEvent struct {
	ID           uuid.UUID
	InvestmentID uuid.UUID
	Quantity     decimal.Decimal
	Value        decimal.Decimal
	RecordedAt   time.Time
}
