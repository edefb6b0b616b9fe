package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AssetClass represents the class of an investment in the wallet
type AssetClass string

const (
	// Market classes: priced by ticker quote
	AssetClassStock  AssetClass = "STOCK"
	AssetClassFII    AssetClass = "FII"
	AssetClassETF    AssetClass = "ETF"
	AssetClassBDR    AssetClass = "BDR"
	AssetClassCrypto AssetClass = "CRYPTO"

	// Fixed-income classes: valued by compound accrual on an annual rate
	AssetClassCDB     AssetClass = "CDB"
	AssetClassCDI     AssetClass = "CDI"
	AssetClassLCI     AssetClass = "LCI"
	AssetClassLCA     AssetClass = "LCA"
	AssetClassTesouro AssetClass = "TESOURO"

	// Other classes: manual valuation only
	AssetClassFund   AssetClass = "FUND"
	AssetClassCustom AssetClass = "CUSTOM"
)

// IsMarket reports whether the class is priced by a ticker quote.
func (c AssetClass) IsMarket() bool {
	switch c {
	case AssetClassStock, AssetClassFII, AssetClassETF, AssetClassBDR, AssetClassCrypto:
		return true
	}
	return false
}

// IsFixedIncome reports whether the class accrues on an annual rate.
func (c AssetClass) IsFixedIncome() bool {
	switch c {
	case AssetClassCDB, AssetClassCDI, AssetClassLCI, AssetClassLCA, AssetClassTesouro:
		return true
	}
	return false
}

// IsValid reports whether the class is one of the known values.
func (c AssetClass) IsValid() bool {
	switch c {
	case AssetClassFund, AssetClassCustom:
		return true
	}
	return c.IsMarket() || c.IsFixedIncome()
}

// Investment represents a wallet entry in the domain layer.
// Quantity/Value are a manual snapshot used only when the investment has
// no ledger operations; once operations exist, every derived value comes
// from replaying the ledger.
type Investment struct {
	ID         uuid.UUID
	OwnerID    uuid.UUID
	Name       string
	AssetClass AssetClass
	Ticker     string           // required for market classes, forbidden otherwise
	AnnualRate *decimal.Decimal // required for fixed-income classes (0.10 = 10% a year)
	Quantity   decimal.Decimal  // manual snapshot
	Value      decimal.Decimal  // manual snapshot

	// EstimatedValueOnCreateDate is computed once at creation time and used
	// as the valuation fallback of last resort for market classes.
	EstimatedValueOnCreateDate decimal.Decimal

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate ensures the investment adheres to domain rules
// Returns an error if validation fails
func (i *Investment) Validate() error {
	if i.Name == "" {
		return fmt.Errorf("%w: investment name cannot be empty", ErrInvalidInput)
	}

	if !i.AssetClass.IsValid() {
		return fmt.Errorf("%w: unknown asset class %q", ErrInvalidInput, i.AssetClass)
	}

	// Market classes MUST carry a ticker; everything else must NOT
	if i.AssetClass.IsMarket() {
		if i.Ticker == "" {
			return fmt.Errorf("%w: ticker is required for market asset classes", ErrInvalidInput)
		}
	} else if i.Ticker != "" {
		return fmt.Errorf("%w: ticker is only allowed for market asset classes", ErrInvalidInput)
	}

	// Fixed-income classes MUST carry an annual rate
	if i.AssetClass.IsFixedIncome() && i.AnnualRate == nil {
		return fmt.Errorf("%w: annual rate is required for fixed-income asset classes", ErrInvalidInput)
	}

	if i.Quantity.IsNegative() {
		return fmt.Errorf("%w: investment quantity cannot be negative", ErrInvalidInput)
	}

	if i.Value.IsNegative() {
		return fmt.Errorf("%w: investment value cannot be negative", ErrInvalidInput)
	}

	return nil
}

// HasAnnualRate reports whether a usable annual rate is present.
func (i *Investment) HasAnnualRate() bool {
	return i.AnnualRate != nil && i.AnnualRate.IsPositive()
}
