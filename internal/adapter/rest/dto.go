package rest

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oliveirafelipe/carteira-backend/internal/domain"
	"github.com/oliveirafelipe/carteira-backend/internal/usecase/valuation"
)

func investmentJSON(inv *domain.Investment) gin.H {
	out := gin.H{
		"id":          inv.ID.String(),
		"owner_id":    inv.OwnerID.String(),
		"name":        inv.Name,
		"asset_class": string(inv.AssetClass),
		"quantity":    inv.Quantity,
		"value":       inv.Value,
		"estimated_value_on_create_date": inv.EstimatedValueOnCreateDate,
		"created_at":                     inv.CreatedAt.Format(time.RFC3339),
		"updated_at":                     inv.UpdatedAt.Format(time.RFC3339),
	}
	if inv.Ticker != "" {
		out["ticker"] = inv.Ticker
	}
	if inv.AnnualRate != nil {
		out["annual_rate"] = *inv.AnnualRate
	}
	return out
}

func operationJSON(op *domain.Operation) gin.H {
	return gin.H{
		"id":             op.ID.String(),
		"investment_id":  op.InvestmentID.String(),
		"operation_type": string(op.Type),
		"quantity":       op.Quantity,
		"unit_price":     op.UnitPrice,
		"fees":           op.Fees,
		"executed_at":    op.ExecutedAt.Format(time.RFC3339),
		"recorded_at":    op.RecordedAt.Format(time.RFC3339),
		"note":           op.Note,
	}
}

func valuationJSON(v *valuation.Valuation) gin.H {
	return gin.H{
		"investment_id":       v.InvestmentID.String(),
		"invested_amount":     v.InvestedAmount,
		"current_value":       v.CurrentValue,
		"profit_loss_amount":  v.ProfitLossAmount,
		"profit_loss_percent": v.ProfitLossPercent,
		"source":              string(v.Source),
	}
}
