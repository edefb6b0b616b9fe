package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/oliveirafelipe/carteira-backend/internal/domain"
)

// snapshotEventRepository implements domain.SnapshotEventRepository
type snapshotEventRepository struct {
	db *DB
}

// NewSnapshotEventRepository creates a new snapshot event repository
func NewSnapshotEventRepository(db *DB) domain.SnapshotEventRepository {
	return &snapshotEventRepository{db: db}
}

// Add appends a new snapshot event. The table is append-only; there is
// no update or delete path.
func (r *snapshotEventRepository) Add(ctx context.Context, event *domain.SnapshotEvent) error {
	query := `
		INSERT INTO investment_snapshot_events (id, investment_id, quantity, value, recorded_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.ExecContext(ctx, query,
		event.ID,
		event.InvestmentID,
		event.Quantity.String(),
		event.Value.String(),
		event.RecordedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert snapshot event: %w", err)
	}

	return nil
}

// ListByInvestment retrieves the audit trail for an investment in insertion order
func (r *snapshotEventRepository) ListByInvestment(ctx context.Context, investmentID uuid.UUID) ([]*domain.SnapshotEvent, error) {
	query := `
		SELECT id, investment_id, quantity, value, recorded_at
		FROM investment_snapshot_events
		WHERE investment_id = $1
		ORDER BY recorded_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query, investmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshot events: %w", err)
	}
	defer rows.Close()

	var events []*domain.SnapshotEvent
	for rows.Next() {
		var event domain.SnapshotEvent
		var quantityStr, valueStr string

		err := rows.Scan(
			&event.ID,
			&event.InvestmentID,
			&quantityStr,
			&valueStr,
			&event.RecordedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan snapshot event: %w", err)
		}

		if event.Quantity, err = decimal.NewFromString(quantityStr); err != nil {
			return nil, fmt.Errorf("failed to parse quantity: %w", err)
		}
		if event.Value, err = decimal.NewFromString(valueStr); err != nil {
			return nil, fmt.Errorf("failed to parse value: %w", err)
		}

		events = append(events, &event)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate snapshot events: %w", err)
	}

	return events, nil
}
