package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/oliveirafelipe/carteira-backend/internal/domain"
)

// operationRepository implements domain.OperationRepository
type operationRepository struct {
	db *DB
}

// NewOperationRepository creates a new operation repository
func NewOperationRepository(db *DB) domain.OperationRepository {
	return &operationRepository{db: db}
}

// Create persists a new ledger operation inside a database transaction so
// concurrent readers never observe a partially-written operation set
func (r *operationRepository) Create(ctx context.Context, op *domain.Operation) error {
	dbTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer dbTx.Rollback()

	query := `
		INSERT INTO operations (id, investment_id, type, quantity, unit_price, fees, executed_at, recorded_at, note)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err = dbTx.ExecContext(ctx, query,
		op.ID,
		op.InvestmentID,
		string(op.Type),
		op.Quantity.String(),
		op.UnitPrice.String(),
		op.Fees.String(),
		op.ExecutedAt,
		op.RecordedAt,
		op.Note,
	)
	if err != nil {
		return fmt.Errorf("failed to insert operation: %w", err)
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetByID retrieves an operation by its ID
func (r *operationRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Operation, error) {
	query := `
		SELECT id, investment_id, type, quantity, unit_price, fees, executed_at, recorded_at, note
		FROM operations
		WHERE id = $1
	`

	op, err := scanOperation(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get operation: %w", err)
	}

	return op, nil
}

// Update replaces the mutable fields of an existing operation
func (r *operationRepository) Update(ctx context.Context, op *domain.Operation) error {
	dbTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer dbTx.Rollback()

	query := `
		UPDATE operations
		SET type = $2, quantity = $3, unit_price = $4, fees = $5, executed_at = $6, note = $7
		WHERE id = $1
	`

	result, err := dbTx.ExecContext(ctx, query,
		op.ID,
		string(op.Type),
		op.Quantity.String(),
		op.UnitPrice.String(),
		op.Fees.String(),
		op.ExecutedAt,
		op.Note,
	)
	if err != nil {
		return fmt.Errorf("failed to update operation: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if rows == 0 {
		return domain.ErrNotFound
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// Delete removes an operation from the ledger
func (r *operationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	dbTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer dbTx.Rollback()

	result, err := dbTx.ExecContext(ctx, `DELETE FROM operations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete operation: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if rows == 0 {
		return domain.ErrNotFound
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// ListByInvestment retrieves all operations for an investment in replay order
func (r *operationRepository) ListByInvestment(ctx context.Context, investmentID uuid.UUID) ([]*domain.Operation, error) {
	query := `
		SELECT id, investment_id, type, quantity, unit_price, fees, executed_at, recorded_at, note
		FROM operations
		WHERE investment_id = $1
		ORDER BY executed_at ASC, recorded_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query, investmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list operations: %w", err)
	}
	defer rows.Close()

	var operations []*domain.Operation
	for rows.Next() {
		op, err := scanOperation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan operation: %w", err)
		}
		operations = append(operations, op)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate operations: %w", err)
	}

	return operations, nil
}

// rowScanner abstracts *sql.Row and *sql.Rows for shared scanning
type rowScanner interface {
	Scan(dest ...any) error
}

func scanOperation(row rowScanner) (*domain.Operation, error) {
	var op domain.Operation
	var opType string
	var quantityStr, unitPriceStr, feesStr string

	err := row.Scan(
		&op.ID,
		&op.InvestmentID,
		&opType,
		&quantityStr,
		&unitPriceStr,
		&feesStr,
		&op.ExecutedAt,
		&op.RecordedAt,
		&op.Note,
	)
	if err != nil {
		return nil, err
	}

	op.Type = domain.OperationType(opType)

	if op.Quantity, err = decimal.NewFromString(quantityStr); err != nil {
		return nil, fmt.Errorf("failed to parse quantity: %w", err)
	}
	if op.UnitPrice, err = decimal.NewFromString(unitPriceStr); err != nil {
		return nil, fmt.Errorf("failed to parse unit_price: %w", err)
	}
	if op.Fees, err = decimal.NewFromString(feesStr); err != nil {
		return nil, fmt.Errorf("failed to parse fees: %w", err)
	}

	return &op, nil
}
