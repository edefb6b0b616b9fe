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

// investmentRepository implements domain.InvestmentRepository
type investmentRepository struct {
	db *DB
}

// NewInvestmentRepository creates a new investment repository
func NewInvestmentRepository(db *DB) domain.InvestmentRepository {
	return &investmentRepository{db: db}
}

// Create persists a new investment
func (r *investmentRepository) Create(ctx context.Context, inv *domain.Investment) error {
	query := `
		INSERT INTO investments (id, owner_id, name, asset_class, ticker, annual_rate, quantity, value,
			estimated_value_on_create_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.db.ExecContext(ctx, query,
		inv.ID,
		inv.OwnerID,
		inv.Name,
		string(inv.AssetClass),
		nullableString(inv.Ticker),
		nullableDecimal(inv.AnnualRate),
		inv.Quantity.String(),
		inv.Value.String(),
		inv.EstimatedValueOnCreateDate.String(),
		inv.CreatedAt,
		inv.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert investment: %w", err)
	}

	return nil
}

// GetByID retrieves an investment by its ID
func (r *investmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Investment, error) {
	query := selectInvestment + ` WHERE id = $1`

	inv, err := scanInvestment(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get investment: %w", err)
	}

	return inv, nil
}

// Update replaces the mutable fields of an existing investment
func (r *investmentRepository) Update(ctx context.Context, inv *domain.Investment) error {
	query := `
		UPDATE investments
		SET name = $2, annual_rate = $3, quantity = $4, value = $5, updated_at = $6
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query,
		inv.ID,
		inv.Name,
		nullableDecimal(inv.AnnualRate),
		inv.Quantity.String(),
		inv.Value.String(),
		inv.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update investment: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if rows == 0 {
		return domain.ErrNotFound
	}

	return nil
}

// Delete removes an investment together with its ledger and audit trail,
// all inside one database transaction
func (r *investmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	dbTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer dbTx.Rollback()

	if _, err := dbTx.ExecContext(ctx, `DELETE FROM operations WHERE investment_id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete operations: %w", err)
	}

	if _, err := dbTx.ExecContext(ctx, `DELETE FROM investment_snapshot_events WHERE investment_id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete snapshot events: %w", err)
	}

	result, err := dbTx.ExecContext(ctx, `DELETE FROM investments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete investment: %w", err)
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

// ListByOwner retrieves all investments belonging to an owner
func (r *investmentRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Investment, error) {
	query := selectInvestment + ` WHERE owner_id = $1 ORDER BY created_at ASC`

	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list investments: %w", err)
	}
	defer rows.Close()

	var investments []*domain.Investment
	for rows.Next() {
		inv, err := scanInvestment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan investment: %w", err)
		}
		investments = append(investments, inv)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate investments: %w", err)
	}

	return investments, nil
}

const selectInvestment = `
	SELECT id, owner_id, name, asset_class, ticker, annual_rate, quantity, value,
		estimated_value_on_create_date, created_at, updated_at
	FROM investments
`

func scanInvestment(row rowScanner) (*domain.Investment, error) {
	var inv domain.Investment
	var assetClass string
	var ticker, annualRateStr sql.NullString
	var quantityStr, valueStr, estimatedStr string

	err := row.Scan(
		&inv.ID,
		&inv.OwnerID,
		&inv.Name,
		&assetClass,
		&ticker,
		&annualRateStr,
		&quantityStr,
		&valueStr,
		&estimatedStr,
		&inv.CreatedAt,
		&inv.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	inv.AssetClass = domain.AssetClass(assetClass)
	if ticker.Valid {
		inv.Ticker = ticker.String
	}

	if annualRateStr.Valid {
		rate, err := decimal.NewFromString(annualRateStr.String)
		if err != nil {
			return nil, fmt.Errorf("failed to parse annual_rate: %w", err)
		}
		inv.AnnualRate = &rate
	}

	if inv.Quantity, err = decimal.NewFromString(quantityStr); err != nil {
		return nil, fmt.Errorf("failed to parse quantity: %w", err)
	}
	if inv.Value, err = decimal.NewFromString(valueStr); err != nil {
		return nil, fmt.Errorf("failed to parse value: %w", err)
	}
	if inv.EstimatedValueOnCreateDate, err = decimal.NewFromString(estimatedStr); err != nil {
		return nil, fmt.Errorf("failed to parse estimated_value_on_create_date: %w", err)
	}

	return &inv, nil
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullableDecimal(d *decimal.Decimal) any {
	if d == nil {
		return nil
	}
	return d.String()
}
